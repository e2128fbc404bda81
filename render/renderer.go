// Package render turns a chunk plan into assembled output files: it renders
// scenes through the media engine, coordinates workers, and concatenates the
// per-chunk results.
package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deathbreakfast/marvel-mega-cut/catalog"
	"github.com/deathbreakfast/marvel-mega-cut/engine"
	"github.com/deathbreakfast/marvel-mega-cut/ffprobe"
	"github.com/deathbreakfast/marvel-mega-cut/logging"
	"github.com/deathbreakfast/marvel-mega-cut/models"
	"github.com/deathbreakfast/marvel-mega-cut/progress"
	"github.com/deathbreakfast/marvel-mega-cut/sourcecache"
)

// Renderer renders individual scenes. The trim is the only step that can
// fail a scene; audio-track selection and the timeline overlay degrade
// gracefully back to the clip they started from.
type Renderer struct {
	Engine         engine.Engine
	Cache          *sourcecache.Cache
	MovieFolder    string
	FontCandidates []string
	Canceller      *progress.Canceller
	Log            *logging.Logger
}

// RenderScene produces the trimmed (and optionally remuxed and overlaid)
// clip for one scene, along with the wall-clock time spent. Cancellation is
// checked before any I/O; a cancelled scene returns an ErrCancelled render
// error and performs no work.
func (r *Renderer) RenderScene(ctx context.Context, scene *models.Scene) (engine.Clip, time.Duration, error) {
	started := time.Now()

	if err := r.checkCancelled(ctx, scene); err != nil {
		return nil, 0, err
	}

	path, err := catalog.ResolveSource(r.MovieFolder, scene.MovieShow)
	if err != nil {
		return nil, 0, models.NewRenderError(models.ClassifyError(err), scene.MovieShow, err)
	}

	handle, err := r.Cache.GetOrOpen(ctx, path)
	if err != nil {
		return nil, 0, models.NewRenderError(models.ClassifyError(err), scene.MovieShow, err)
	}

	// Trims against one source are serialized through the handle so shared
	// handles never see concurrent reads.
	var clip engine.Clip
	err = handle.Do(func(src engine.Source) error {
		var trimErr error
		clip, trimErr = r.Engine.Trim(ctx, src, scene.Start, scene.End)
		return trimErr
	})
	if err != nil {
		return nil, 0, models.NewRenderError(models.ClassifyError(err), scene.MovieShow, err)
	}

	clip = r.selectAudio(ctx, scene, handle.Source(), clip)
	clip = r.applyOverlay(ctx, scene, clip)

	return clip, time.Since(started), nil
}

func (r *Renderer) checkCancelled(ctx context.Context, scene *models.Scene) error {
	if r.Canceller != nil && r.Canceller.Cancelled() {
		return models.NewRenderError(models.ErrCancelled, scene.MovieShow,
			fmt.Errorf("run cancelled"))
	}
	if err := ctx.Err(); err != nil {
		return models.NewRenderError(models.ErrCancelled, scene.MovieShow, err)
	}
	return nil
}

// selectAudio remuxes the clip down to the scene's requested audio track.
// No match or a failed remux keeps the clip as rendered, whose default track
// is whatever the trim carried through.
func (r *Renderer) selectAudio(ctx context.Context, scene *models.Scene, src engine.Source, clip engine.Clip) engine.Clip {
	selector := scene.AudioSelector()
	if selector == "" {
		return clip
	}

	track, ok := matchAudioTrack(src.AudioTracks(), selector)
	if !ok {
		r.log().Warn("%s: no audio track matching %q, keeping default", scene.MovieShow, selector)
		return clip
	}

	remuxed, err := r.Engine.SelectAudioTrack(ctx, clip, track.Index)
	if err != nil {
		r.log().Warn("%s: audio track remux failed, keeping default: %v", scene.MovieShow, err)
		return clip
	}

	clip.Close()
	return remuxed
}

// applyOverlay composites the timeline-placement label onto the clip, trying
// each font candidate in turn. With no label, no usable font, or every
// attempt failing, the clip is returned unmodified.
func (r *Renderer) applyOverlay(ctx context.Context, scene *models.Scene, clip engine.Clip) engine.Clip {
	if scene.TimelinePlacement == "" {
		return clip
	}

	candidates := r.FontCandidates
	if candidates == nil {
		candidates = DefaultFontCandidates()
	}

	for _, font := range existingFonts(candidates) {
		overlaid, err := r.Engine.Overlay(ctx, clip, scene.TimelinePlacement, font)
		if err != nil {
			r.log().Debug("%s: overlay with font %s failed: %v", scene.MovieShow, font, err)
			continue
		}
		clip.Close()
		return overlaid
	}

	r.log().Warn("%s: overlay %q skipped, no font worked", scene.MovieShow, scene.TimelinePlacement)
	return clip
}

func (r *Renderer) log() *logging.Logger {
	if r.Log != nil {
		return r.Log
	}
	return logging.Nop()
}

// matchAudioTrack finds the first track, in stream order, whose title or
// language contains the selector, case-insensitively.
func matchAudioTrack(tracks []ffprobe.AudioTrack, selector string) (ffprobe.AudioTrack, bool) {
	want := strings.ToLower(selector)

	for _, track := range tracks {
		if strings.Contains(strings.ToLower(track.Title), want) ||
			strings.Contains(strings.ToLower(track.Language), want) {
			return track, true
		}
	}
	return ffprobe.AudioTrack{}, false
}
