package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/deathbreakfast/marvel-mega-cut/ffprobe"
	"github.com/deathbreakfast/marvel-mega-cut/internal/timeutil"
	"github.com/deathbreakfast/marvel-mega-cut/logging"
	"github.com/deathbreakfast/marvel-mega-cut/models"
	"github.com/deathbreakfast/marvel-mega-cut/planner"
	"github.com/deathbreakfast/marvel-mega-cut/progress"
	"github.com/deathbreakfast/marvel-mega-cut/render"
)

type sceneFailure struct {
	scene string
	chunk int
	kind  models.ErrorKind
	err   error
}

// consoleEvents renders pipeline events to the terminal: a plan table up
// front, a progress bar while rendering, and a summary at the end. The bar
// is skipped when stdout is not a terminal.
type consoleEvents struct {
	log         *logging.Logger
	out         io.Writer
	interactive bool

	mu       sync.Mutex
	bar      *progressbar.ProgressBar
	tracker  *progress.Tracker
	failures []sceneFailure
}

func newConsoleEvents(log *logging.Logger, out io.Writer) *consoleEvents {
	interactive := false
	if f, ok := out.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &consoleEvents{log: log, out: out, interactive: interactive}
}

// bindTracker lets the console report the live ETA between chunks.
func (c *consoleEvents) bindTracker(t *progress.Tracker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracker = t
}

func (c *consoleEvents) PlanReady(plan *planner.Plan) {
	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.AppendHeader(table.Row{"Chunk", "Scenes", "Est. Duration"})
	for _, chunk := range plan.Chunks {
		t.AppendRow(table.Row{
			chunk.Number,
			len(chunk.Scenes),
			timeutil.FormatSeconds(chunk.EstimatedDuration()),
		})
	}
	t.Render()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.interactive {
		c.bar = progressbar.NewOptions(plan.TotalScenes(),
			progressbar.OptionSetDescription("rendering scenes"),
			progressbar.OptionSetWriter(c.out),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
}

func (c *consoleEvents) ChunkStart(chunk *models.Chunk) {
	c.log.Info("chunk %d: rendering %d scene(s)", chunk.Number, len(chunk.Scenes))
}

func (c *consoleEvents) SceneStart(scene *models.Scene) {
	c.log.Debug("scene %d: %s [%s - %s]",
		scene.Index+1, scene.MovieShow, scene.StartTimecode, scene.EndTimecode)
}

func (c *consoleEvents) SceneComplete(scene *models.Scene, elapsed time.Duration) {
	c.advance()
	c.log.Debug("scene %d done in %s", scene.Index+1, timeutil.FormatDuration(elapsed))
}

func (c *consoleEvents) SceneFail(scene *models.Scene, kind models.ErrorKind, err error) {
	c.advance()
	c.log.Error("scene %d (%s) failed: %v", scene.Index+1, scene.MovieShow, err)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, sceneFailure{
		scene: scene.MovieShow,
		chunk: scene.ChunkNumber,
		kind:  kind,
		err:   err,
	})
}

func (c *consoleEvents) ChunkComplete(number int, outputPath string, size int64, elapsed time.Duration) {
	c.log.Success("chunk %d written to %s (%s) in %s",
		number, outputPath, humanize.Bytes(uint64(size)), timeutil.FormatDuration(elapsed))

	c.mu.Lock()
	tracker := c.tracker
	c.mu.Unlock()
	if tracker != nil {
		if eta := tracker.Overall().ETA; eta > 0 {
			c.log.Info("estimated time remaining: %s", timeutil.FormatDuration(eta))
		}
	}
}

func (c *consoleEvents) ChunkFail(number int, err error) {
	c.log.Error("chunk %d failed: %v", number, err)
}

func (c *consoleEvents) RunComplete(summary progress.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bar != nil {
		c.bar.Finish()
		c.bar = nil
	}
}

func (c *consoleEvents) advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bar != nil {
		c.bar.Add(1)
	}
}

// printRunReport writes the end-of-run summary and, if any scene failed, a
// failure table.
func (c *consoleEvents) printRunReport(report *render.RunReport) {
	s := report.Summary

	t := table.NewWriter()
	t.SetOutputMirror(c.out)
	t.AppendHeader(table.Row{"", "Scenes", "Chunks"})
	t.AppendRow(table.Row{"Completed", s.CompletedScenes, s.CompletedChunks})
	t.AppendRow(table.Row{"Failed", s.FailedScenes, s.FailedChunks})
	t.AppendRow(table.Row{"Pending", s.PendingScenes, ""})
	t.Render()

	if report.DroppedScenes > 0 {
		c.log.Warn("%d catalog row(s) were dropped before planning", report.DroppedScenes)
	}
	c.log.Info("run took %s (avg %s per scene)",
		timeutil.FormatDuration(s.Elapsed), timeutil.FormatDuration(s.AverageSceneTime))

	c.mu.Lock()
	failures := c.failures
	c.mu.Unlock()
	if len(failures) > 0 {
		ft := table.NewWriter()
		ft.SetOutputMirror(c.out)
		ft.AppendHeader(table.Row{"Scene", "Chunk", "Kind", "Error"})
		for _, f := range failures {
			ft.AppendRow(table.Row{f.scene, f.chunk, string(f.kind), f.err.Error()})
		}
		ft.Render()
	}
}

// printAudioTracks writes the analyze command's track table.
func printAudioTracks(out io.Writer, path string, tracks []ffprobe.AudioTrack) {
	fmt.Fprintf(out, "%s\n", path)
	if len(tracks) == 0 {
		fmt.Fprintln(out, "no audio tracks found")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Stream", "Language", "Title", "Codec", "Channels"})
	for _, track := range tracks {
		t.AppendRow(table.Row{
			track.Index,
			ffprobe.LanguageName(track.Language),
			track.Title,
			track.Codec,
			track.Channels,
		})
	}
	t.Render()
}
