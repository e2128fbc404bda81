package render

import (
	"time"

	"github.com/deathbreakfast/marvel-mega-cut/models"
	"github.com/deathbreakfast/marvel-mega-cut/planner"
	"github.com/deathbreakfast/marvel-mega-cut/progress"
)

// Events receives pipeline notifications. Implementations drive the console
// UI; methods may be called from worker goroutines and must be safe for
// concurrent use.
type Events interface {
	PlanReady(plan *planner.Plan)
	ChunkStart(chunk *models.Chunk)
	SceneStart(scene *models.Scene)
	SceneComplete(scene *models.Scene, elapsed time.Duration)
	SceneFail(scene *models.Scene, kind models.ErrorKind, err error)
	ChunkComplete(number int, outputPath string, size int64, elapsed time.Duration)
	ChunkFail(number int, err error)
	RunComplete(summary progress.Summary)
}

// NopEvents discards all notifications.
type NopEvents struct{}

func (NopEvents) PlanReady(*planner.Plan)                          {}
func (NopEvents) ChunkStart(*models.Chunk)                         {}
func (NopEvents) SceneStart(*models.Scene)                         {}
func (NopEvents) SceneComplete(*models.Scene, time.Duration)       {}
func (NopEvents) SceneFail(*models.Scene, models.ErrorKind, error) {}
func (NopEvents) ChunkComplete(int, string, int64, time.Duration)  {}
func (NopEvents) ChunkFail(int, error)                             {}
func (NopEvents) RunComplete(progress.Summary)                     {}
