package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/deathbreakfast/marvel-mega-cut/internal/timeutil"
)

// Progress holds the metrics parsed from ffmpeg's -progress output.
type Progress struct {
	Frame   int64   // current frame number
	FPS     float64 // frames per second being processed
	Seconds float64 // current output position in seconds
	Speed   float64 // processing speed multiplier (e.g., 2.34x realtime)
}

// ProgressParser parses ffmpeg -progress key=value output lines.
type ProgressParser struct {
	frameRegex *regexp.Regexp
	fpsRegex   *regexp.Regexp
	timeRegex  *regexp.Regexp
	speedRegex *regexp.Regexp
}

// NewProgressParser creates a parser for ffmpeg progress output.
func NewProgressParser() *ProgressParser {
	return &ProgressParser{
		frameRegex: regexp.MustCompile(`^frame=\s*(\d+)`),
		fpsRegex:   regexp.MustCompile(`^fps=\s*([0-9.]+)`),
		timeRegex:  regexp.MustCompile(`^out_time=\s*([0-9:.]+)`),
		speedRegex: regexp.MustCompile(`^speed=\s*([0-9.]+)x?`),
	}
}

// ParseLine parses one line of progress output into progress, returning true
// when any field was updated.
func (pp *ProgressParser) ParseLine(line string, progress *Progress) bool {
	line = strings.TrimSpace(line)
	if line == "" || line == "progress=continue" || line == "progress=end" {
		return false
	}

	if m := pp.frameRegex.FindStringSubmatch(line); len(m) > 1 {
		if frame, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			progress.Frame = frame
			return true
		}
	}

	if m := pp.fpsRegex.FindStringSubmatch(line); len(m) > 1 {
		if fps, err := strconv.ParseFloat(m[1], 64); err == nil {
			progress.FPS = fps
			return true
		}
	}

	if m := pp.timeRegex.FindStringSubmatch(line); len(m) > 1 {
		if secs, err := timeutil.ParseTimecode(m[1]); err == nil {
			progress.Seconds = secs
			return true
		}
	}

	if m := pp.speedRegex.FindStringSubmatch(line); len(m) > 1 {
		if speed, err := strconv.ParseFloat(m[1], 64); err == nil {
			progress.Speed = speed
			return true
		}
	}

	return false
}
