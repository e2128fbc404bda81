package engine

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/deathbreakfast/marvel-mega-cut/ffprobe"
	"github.com/deathbreakfast/marvel-mega-cut/internal/timeutil"
)

// FFmpeg implements Engine by shelling out to ffmpeg/ffprobe. Intermediate
// clips are written into WorkDir; the caller owns the directory's lifetime.
type FFmpeg struct {
	WorkDir    string
	VideoCodec string
	AudioCodec string

	// OnProgress, when set, receives parsed ffmpeg progress updates during
	// Concat. The engine never calls it concurrently with itself.
	OnProgress func(Progress)

	seq atomic.Uint64
}

// NewFFmpeg creates an FFmpeg engine writing intermediates to workDir.
func NewFFmpeg(workDir, videoCodec, audioCodec string) *FFmpeg {
	return &FFmpeg{
		WorkDir:    workDir,
		VideoCodec: videoCodec,
		AudioCodec: audioCodec,
	}
}

type ffmpegSource struct {
	path     string
	duration float64
	tracks   []ffprobe.AudioTrack
}

func (s *ffmpegSource) Path() string                      { return s.path }
func (s *ffmpegSource) Duration() float64                 { return s.duration }
func (s *ffmpegSource) AudioTracks() []ffprobe.AudioTrack { return s.tracks }

// Close is a no-op: probe metadata holds no OS resources. It exists so
// cache teardown treats every source uniformly.
func (s *ffmpegSource) Close() error { return nil }

type fileClip struct {
	path     string
	duration float64
	mu       sync.Mutex
	closed   bool
}

func (c *fileClip) Path() string      { return c.path }
func (c *fileClip) Duration() float64 { return c.duration }

// Close removes the intermediate file. Closing twice, or closing a clip
// whose file was already cleaned up with the work area, is not an error.
func (c *fileClip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// OpenSource probes path once and returns a handle carrying the duration and
// audio-track metadata.
func (f *FFmpeg) OpenSource(ctx context.Context, path string) (Source, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("source %s: %w", path, err)
	}

	result, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to probe %s: %w", path, err)
	}

	duration, err := result.GetDuration()
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", path, err)
	}

	return &ffmpegSource{
		path:     path,
		duration: duration,
		tracks:   result.AudioTracks(),
	}, nil
}

// workFile returns a unique intermediate file path inside WorkDir.
func (f *FFmpeg) workFile(stem, ext string) string {
	n := f.seq.Add(1)
	return filepath.Join(f.WorkDir, fmt.Sprintf("%s_%06d%s", stem, n, ext))
}

func (f *FFmpeg) Trim(ctx context.Context, src Source, start, end float64) (Clip, error) {
	out := f.workFile("scene", ".mkv")
	args := trimArgs(src.Path(), start, end, f.VideoCodec, f.AudioCodec, out)

	if err := runFFmpeg(ctx, args); err != nil {
		return nil, fmt.Errorf("trim %s [%s - %s]: %w",
			src.Path(), timeutil.FormatSeconds(start), timeutil.FormatSeconds(end), err)
	}
	return &fileClip{path: out, duration: end - start}, nil
}

func (f *FFmpeg) SelectAudioTrack(ctx context.Context, clip Clip, track int) (Clip, error) {
	out := f.workFile("audio", ".mkv")
	args := audioTrackArgs(clip.Path(), track, out)

	if err := runFFmpeg(ctx, args); err != nil {
		return nil, fmt.Errorf("select audio track %d of %s: %w", track, clip.Path(), err)
	}
	return &fileClip{path: out, duration: clip.Duration()}, nil
}

func (f *FFmpeg) Overlay(ctx context.Context, clip Clip, label, font string) (Clip, error) {
	out := f.workFile("overlay", ".mkv")
	args := overlayArgs(clip.Path(), label, font, f.VideoCodec, out)

	if err := runFFmpeg(ctx, args); err != nil {
		return nil, fmt.Errorf("overlay %q on %s: %w", label, clip.Path(), err)
	}
	return &fileClip{path: out, duration: clip.Duration()}, nil
}

// Concat merges clips in order using ffmpeg's concat demuxer without
// re-encoding and streams progress updates to OnProgress.
func (f *FFmpeg) Concat(ctx context.Context, clips []Clip, outputPath string) error {
	if len(clips) == 0 {
		return fmt.Errorf("no clips to concatenate")
	}

	listPath, err := f.writeConcatList(clips)
	if err != nil {
		return err
	}
	defer os.Remove(listPath)

	args := concatArgs(listPath, outputPath)
	if err := f.runFFmpegWithProgress(ctx, args); err != nil {
		return fmt.Errorf("ffmpeg concat failed: %w", err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("output file not created: %w", err)
	}
	return nil
}

// writeConcatList creates the text file consumed by the concat demuxer.
// Format: one "file '/abs/path'" line per clip, single quotes escaped.
func (f *FFmpeg) writeConcatList(clips []Clip) (string, error) {
	listPath := f.workFile("concat", ".txt")
	var b strings.Builder
	for _, clip := range clips {
		absPath, err := filepath.Abs(clip.Path())
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path for %s: %w", clip.Path(), err)
		}
		escaped := strings.ReplaceAll(absPath, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	if err := os.WriteFile(listPath, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write concat list: %w", err)
	}
	return listPath, nil
}

func runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg error: %w\noutput: %s", err, tail(string(output), 2048))
	}
	return nil
}

// runFFmpegWithProgress runs ffmpeg with -progress on stdout and feeds parsed
// updates to OnProgress.
func (f *FFmpeg) runFFmpegWithProgress(ctx context.Context, args []string) error {
	args = append([]string{"-progress", "pipe:1", "-nostats"}, args...)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	parser := NewProgressParser()
	var progress Progress
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if parser.ParseLine(scanner.Text(), &progress) && f.OnProgress != nil {
			f.OnProgress(progress)
		}
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg error: %w\noutput: %s", err, tail(stderr.String(), 2048))
	}
	return nil
}

// tail returns at most the last n bytes of s, for error reporting.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
