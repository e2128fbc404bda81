// Package ffprobe extracts metadata from media files using the ffprobe
// command-line tool.
package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Stream represents a media stream (audio, video, subtitle, etc.).
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Channels  int    `json:"channels,omitempty"`
	Tags      Tags   `json:"tags,omitempty"`
}

// Tags holds the stream-level metadata tags ffprobe exposes.
type Tags struct {
	Language string `json:"language,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Format represents the container format information.
type Format struct {
	Filename       string `json:"filename"`
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	Duration       string `json:"duration"`
	Size           string `json:"size"`
}

// Result holds the metadata extracted from a media file.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// AudioTrack describes one audio stream of a source file.
type AudioTrack struct {
	Index    int
	Language string
	Title    string
	Codec    string
	Channels int
}

// GetDuration returns the duration of the media file in seconds.
func (r *Result) GetDuration() (float64, error) {
	if r.Format.Duration == "" {
		return 0, fmt.Errorf("duration not available in format metadata")
	}

	duration, err := strconv.ParseFloat(r.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", r.Format.Duration, err)
	}

	return duration, nil
}

// AudioTracks returns the audio streams of the file in stream order. The
// language defaults to "unknown" when the source carries no language tag.
func (r *Result) AudioTracks() []AudioTrack {
	var tracks []AudioTrack
	for _, stream := range r.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		lang := stream.Tags.Language
		if lang == "" {
			lang = "unknown"
		}
		tracks = append(tracks, AudioTrack{
			Index:    stream.Index,
			Language: lang,
			Title:    stream.Tags.Title,
			Codec:    stream.CodecName,
			Channels: stream.Channels,
		})
	}
	return tracks
}

// Probe analyzes a media file with ffprobe and parses its JSON output.
//
// Example:
//
//	result, err := ffprobe.Probe(ctx, "/path/to/video.mkv")
//	if err != nil {
//	    return err
//	}
//	duration, _ := result.GetDuration()
func Probe(ctx context.Context, sourcePath string) (*Result, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		sourcePath,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w (output: %s)", err, string(output))
	}

	return parseOutput(output)
}

func parseOutput(data []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe JSON output: %w", err)
	}
	return &result, nil
}
