package render

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/deathbreakfast/marvel-mega-cut/catalog"
	"github.com/deathbreakfast/marvel-mega-cut/config"
	"github.com/deathbreakfast/marvel-mega-cut/engine"
	"github.com/deathbreakfast/marvel-mega-cut/internal/timeutil"
	"github.com/deathbreakfast/marvel-mega-cut/logging"
	"github.com/deathbreakfast/marvel-mega-cut/models"
	"github.com/deathbreakfast/marvel-mega-cut/planner"
	"github.com/deathbreakfast/marvel-mega-cut/progress"
	"github.com/deathbreakfast/marvel-mega-cut/sourcecache"
)

// RunReport summarizes a finished (or cancelled) run.
type RunReport struct {
	Summary       progress.Summary
	Outputs       []string
	DroppedScenes int
	Cancelled     bool
}

// Pipeline wires planning, scene rendering, and chunk assembly into a run.
type Pipeline struct {
	cfg       *config.Config
	engine    engine.Engine
	cache     *sourcecache.Cache
	tracker   *progress.Tracker
	canceller *progress.Canceller
	events    Events
	log       *logging.Logger
}

// NewPipeline builds a pipeline for one run. The canceller is shared with
// whoever handles interrupt signals; pass nil to run without cancellation.
func NewPipeline(cfg *config.Config, eng engine.Engine, log *logging.Logger, events Events, canceller *progress.Canceller) *Pipeline {
	if events == nil {
		events = NopEvents{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Pipeline{
		cfg:       cfg,
		engine:    eng,
		cache:     sourcecache.New(eng),
		tracker:   progress.NewTracker(),
		canceller: canceller,
		events:    events,
		log:       log,
	}
}

// Tracker exposes run state for progress display.
func (p *Pipeline) Tracker() *progress.Tracker {
	return p.tracker
}

// Run plans the scenes into chunks and renders each selected chunk in
// ascending order. Scenes that cannot be parsed or whose source file is
// missing are dropped with a warning before planning; every valid scene is
// attempted even when its neighbors fail. On cancellation the run stops at
// the next checkpoint without assembling the interrupted chunk.
func (p *Pipeline) Run(ctx context.Context, scenes []models.Scene) (*RunReport, error) {
	if p.canceller != nil {
		p.canceller.Reset()
	}

	valid, dropped := p.prevalidate(scenes)
	if len(valid) == 0 {
		return nil, fmt.Errorf("no valid scenes to render")
	}

	plan, err := planner.BuildPlan(valid, float64(p.cfg.ChunkDuration))
	if err != nil {
		return nil, err
	}

	selection, err := p.parseSelection(plan)
	if err != nil {
		return nil, err
	}

	p.tracker.InitializePlan(plan)
	p.tracker.StartRun()
	p.events.PlanReady(plan)

	report := &RunReport{DroppedScenes: dropped}

	if p.cfg.DryRun {
		report.Summary = p.tracker.Overall()
		return report, nil
	}

	defer func() {
		if err := p.cache.CloseAll(); err != nil {
			p.log.Warn("failed to close source handles: %v", err)
		}
	}()

	renderer := &Renderer{
		Engine:      p.engine,
		Cache:       p.cache,
		MovieFolder: p.cfg.MovieFolder,
		Canceller:   p.canceller,
		Log:         p.log,
	}
	coordinator := &Coordinator{
		Renderer: renderer,
		Workers:  p.workers(),
		Tracker:  p.tracker,
		Events:   p.events,
	}
	assembler := &Assembler{
		Engine:       p.engine,
		OutputFolder: p.cfg.OutputFolder,
		Log:          p.log,
	}

	for i := range plan.Chunks {
		chunk := &plan.Chunks[i]
		if !planner.Selected(selection, chunk.Number) {
			p.log.Debug("chunk %d not selected, skipping", chunk.Number)
			continue
		}
		if p.cancelled(ctx) {
			p.log.Warn("run cancelled, stopping before chunk %d", chunk.Number)
			report.Cancelled = true
			break
		}
		if assembler.OutputExists(chunk.Number) {
			path := assembler.OutputPath(chunk.Number)
			p.log.Info("chunk %d already rendered at %s, skipping", chunk.Number, path)
			p.tracker.CompleteChunk(chunk.Number, path, fileSize(path), chunk.EstimatedDuration())
			report.Outputs = append(report.Outputs, path)
			continue
		}

		if err := p.renderChunk(ctx, chunk, coordinator, assembler, report); err != nil {
			p.events.ChunkFail(chunk.Number, err)
		}
		if report.Cancelled {
			break
		}
	}

	report.Summary = p.tracker.Overall()
	p.events.RunComplete(report.Summary)
	return report, nil
}

// renderChunk runs one chunk end to end: scene rendering, a post-render
// cancellation checkpoint, then assembly. Clips are always released, either
// by the assembler or explicitly when assembly is skipped.
func (p *Pipeline) renderChunk(ctx context.Context, chunk *models.Chunk, coordinator *Coordinator, assembler *Assembler, report *RunReport) error {
	started := time.Now()

	if err := p.tracker.StartChunk(chunk.Number); err != nil {
		return err
	}
	p.events.ChunkStart(chunk)

	results := coordinator.RenderChunk(ctx, chunk)

	if p.cancelled(ctx) {
		p.log.Warn("run cancelled, discarding chunk %d before assembly", chunk.Number)
		closeClips(results, p.log)
		report.Cancelled = true
		return nil
	}

	path, size, err := assembler.AssembleChunk(ctx, chunk, results)
	if err != nil {
		p.tracker.FailChunk(chunk.Number, models.ClassifyError(err), err.Error())
		return err
	}

	rendered := 0.0
	for i := range results {
		if results[i].Err == nil {
			rendered += results[i].Scene.Duration()
		}
	}
	p.tracker.CompleteChunk(chunk.Number, path, size, rendered)
	p.events.ChunkComplete(chunk.Number, path, size, time.Since(started))
	report.Outputs = append(report.Outputs, path)
	return nil
}

// prevalidate parses scene timecodes and resolves their source files,
// dropping broken rows with a warning so the rest of the run can proceed.
func (p *Pipeline) prevalidate(scenes []models.Scene) ([]models.Scene, int) {
	valid := make([]models.Scene, 0, len(scenes))
	dropped := 0

	for _, scene := range scenes {
		start, err := timeutil.ParseTimecode(scene.StartTimecode)
		if err != nil {
			p.log.Warn("dropping scene %q: bad start timecode %q: %v",
				scene.MovieShow, scene.StartTimecode, err)
			dropped++
			continue
		}
		end, err := timeutil.ParseTimecode(scene.EndTimecode)
		if err != nil {
			p.log.Warn("dropping scene %q: bad end timecode %q: %v",
				scene.MovieShow, scene.EndTimecode, err)
			dropped++
			continue
		}
		scene.Start, scene.End = start, end

		if err := scene.Validate(); err != nil {
			p.log.Warn("dropping scene: %v", err)
			dropped++
			continue
		}
		if _, err := catalog.ResolveSource(p.cfg.MovieFolder, scene.MovieShow); err != nil {
			p.log.Warn("dropping scene %q: %v", scene.MovieShow, err)
			dropped++
			continue
		}

		valid = append(valid, scene)
	}
	return valid, dropped
}

func (p *Pipeline) parseSelection(plan *planner.Plan) ([]int, error) {
	if p.cfg.Chunks == "" {
		return nil, nil
	}
	selection, err := planner.ParseSelection(p.cfg.Chunks)
	if err != nil {
		return nil, err
	}
	selection = planner.FilterSelection(selection, len(plan.Chunks), p.log.Warn)
	if len(selection) == 0 {
		return nil, fmt.Errorf("chunk selection %q matches none of the %d planned chunks",
			p.cfg.Chunks, len(plan.Chunks))
	}
	return selection, nil
}

func (p *Pipeline) workers() int {
	if p.cfg.Sequential {
		return 1
	}
	if p.cfg.Workers > 0 {
		return p.cfg.Workers
	}
	return config.DefaultWorkers
}

func (p *Pipeline) cancelled(ctx context.Context) bool {
	if p.canceller != nil && p.canceller.Cancelled() {
		return true
	}
	return ctx.Err() != nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
