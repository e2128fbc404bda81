// Package engine defines the media operations the pipeline delegates to an
// external tool, and provides an FFmpeg-backed implementation.
package engine

import (
	"context"

	"github.com/deathbreakfast/marvel-mega-cut/ffprobe"
)

// Source is an opened source-file handle. Handles are created by OpenSource
// (which performs the probe I/O) and shared between scenes through the
// source cache; Close must be safe to call more than once.
type Source interface {
	Path() string
	Duration() float64
	AudioTracks() []ffprobe.AudioTrack
	Close() error
}

// Clip is an opaque handle to one rendered intermediate file. Close releases
// the underlying file and must be safe to call more than once.
type Clip interface {
	Path() string
	Duration() float64
	Close() error
}

// Engine performs the decode/trim/composite/concatenate operations.
//
// Trim, SelectAudioTrack, and Overlay each produce a new Clip and leave their
// input untouched, so callers can fall back to the input clip when an
// optional step fails.
type Engine interface {
	// OpenSource probes path and returns a reusable handle.
	OpenSource(ctx context.Context, path string) (Source, error)

	// Trim renders the [start, end) sub-clip of src.
	Trim(ctx context.Context, src Source, start, end float64) (Clip, error)

	// SelectAudioTrack remuxes clip keeping only the audio stream with the
	// given absolute stream index.
	SelectAudioTrack(ctx context.Context, clip Clip, track int) (Clip, error)

	// Overlay composites a text label onto the clip using the given font.
	Overlay(ctx context.Context, clip Clip, label, font string) (Clip, error)

	// Concat concatenates clips in order and writes one output file.
	Concat(ctx context.Context, clips []Clip, outputPath string) error
}
