package render

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/deathbreakfast/marvel-mega-cut/engine"
	"github.com/deathbreakfast/marvel-mega-cut/models"
	"github.com/deathbreakfast/marvel-mega-cut/progress"
)

// SceneResult is the outcome of rendering one scene.
type SceneResult struct {
	Scene   *models.Scene
	Clip    engine.Clip
	Elapsed time.Duration
	Err     error
}

// Cancelled reports whether the scene was skipped due to run cancellation
// rather than failing.
func (r *SceneResult) Cancelled() bool {
	var re *models.RenderError
	return errors.As(r.Err, &re) && re.IsCancelled()
}

// Coordinator renders the scenes of a chunk, either sequentially or with a
// fixed pool of workers, and reports per-scene lifecycle to the tracker and
// the event sink. Results always come back in chunk-local scene order no
// matter which scene finishes first.
type Coordinator struct {
	Renderer *Renderer
	Workers  int // <= 1 renders sequentially
	Tracker  *progress.Tracker
	Events   Events
}

// RenderChunk renders every scene in the chunk. One failing scene does not
// stop the others; after cancellation no new scene starts, and already
// running scenes are left to finish.
func (c *Coordinator) RenderChunk(ctx context.Context, chunk *models.Chunk) []SceneResult {
	results := make([]SceneResult, len(chunk.Scenes))

	if c.Workers <= 1 {
		for i := range chunk.Scenes {
			results[i] = c.renderUnit(ctx, &chunk.Scenes[i])
		}
		return results
	}

	workers := c.Workers
	if workers > len(chunk.Scenes) {
		workers = len(chunk.Scenes)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = c.renderUnit(ctx, &chunk.Scenes[i])
			}
		}()
	}

	for i := range chunk.Scenes {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// renderUnit runs one scene through the renderer. The cancellation check
// happens before the scene is marked processing, so scenes skipped by
// cancellation stay pending in the tracker.
func (c *Coordinator) renderUnit(ctx context.Context, scene *models.Scene) SceneResult {
	res := SceneResult{Scene: scene}

	if err := c.Renderer.checkCancelled(ctx, scene); err != nil {
		res.Err = err
		return res
	}

	if c.Tracker != nil {
		if err := c.Tracker.StartScene(scene.Index); err != nil {
			res.Err = models.NewRenderError(models.ErrProcessing, scene.MovieShow, err)
			return res
		}
	}
	c.events().SceneStart(scene)

	clip, elapsed, err := c.Renderer.RenderScene(ctx, scene)
	if err != nil {
		res.Err = err
		if res.Cancelled() {
			// Cancellation raced in after the scene started; it is not a
			// failure, so leave its status alone.
			return res
		}
		kind := models.ClassifyError(err)
		if c.Tracker != nil {
			c.Tracker.FailScene(scene.Index, kind, err.Error())
		}
		c.events().SceneFail(scene, kind, err)
		return res
	}

	res.Clip = clip
	res.Elapsed = elapsed
	if c.Tracker != nil {
		c.Tracker.CompleteScene(scene.Index, elapsed)
	}
	c.events().SceneComplete(scene, elapsed)
	return res
}

func (c *Coordinator) events() Events {
	if c.Events != nil {
		return c.Events
	}
	return NopEvents{}
}
