// Package models provides core data structures for the mega cut pipeline.
package models

import (
	"fmt"
	"strings"
)

// Scene represents one contiguous excerpt of a source file.
//
// Scenes are parsed from the catalog CSV and carry both the raw timecode
// strings and their parsed second offsets. Start and End are filled in
// during pre-validation; Index and ChunkNumber are assigned once during
// planning and are stable for the run.
//
// Note: Start and End use float64 to preserve fractional seconds, which is
// critical for precise trims and audio sync.
type Scene struct {
	MovieShow     string `json:"movie_show"`
	SeasonEpisode string `json:"season_episode,omitempty"`
	EpisodeTitle  string `json:"episode_title,omitempty"`

	StartTimecode string  `json:"start_timecode"`
	EndTimecode   string  `json:"end_timecode"`
	Start         float64 `json:"start"`
	End           float64 `json:"end"`

	// TimelinePlacement is the overlay label composited onto the clip
	// (e.g., "2988 BCE"). Empty means no overlay.
	TimelinePlacement string `json:"timeline_placement,omitempty"`

	Comment            string `json:"comment,omitempty"`
	Language           string `json:"language,omitempty"`
	AudioTitle         string `json:"audio_title,omitempty"`
	RealityDesignation string `json:"reality_designation,omitempty"`

	// Index is the global scene index in original catalog order,
	// assigned during planning.
	Index int `json:"index"`

	// ChunkNumber is the 1-based number of the owning chunk,
	// assigned during planning.
	ChunkNumber int `json:"chunk_number"`
}

// Duration returns the scene duration in seconds.
func (s *Scene) Duration() float64 {
	return s.End - s.Start
}

// AudioSelector returns the audio-track selector for the scene, preferring
// the explicit track title over the language code. Empty means default track.
func (s *Scene) AudioSelector() string {
	if s.AudioTitle != "" {
		return s.AudioTitle
	}
	return s.Language
}

// Validate checks that the scene has a source identifier and a positive
// duration. It assumes Start and End have already been parsed.
func (s *Scene) Validate() error {
	if strings.TrimSpace(s.MovieShow) == "" {
		return fmt.Errorf("movie_show cannot be empty")
	}
	if s.End <= s.Start {
		return fmt.Errorf("scene %q: end %.2f must be greater than start %.2f",
			s.MovieShow, s.End, s.Start)
	}
	return nil
}
