// Package progress tracks per-scene and per-chunk state for a render run
// and derives completion estimates from it.
package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/deathbreakfast/marvel-mega-cut/models"
	"github.com/deathbreakfast/marvel-mega-cut/planner"
)

// SceneState is the tracked state of one planned scene.
type SceneState struct {
	Index        int
	ChunkNumber  int
	Name         string
	Duration     float64
	Status       models.Status
	Elapsed      time.Duration
	ErrorKind    models.ErrorKind
	ErrorMessage string
}

// ChunkState is the tracked state of one planned chunk.
type ChunkState struct {
	Number        int
	SceneCount    int
	Status        models.Status
	OutputPath    string
	OutputSize    int64
	OutputSeconds float64 // rendered media duration, not wall-clock time
	Elapsed       time.Duration
	ErrorKind     models.ErrorKind
	ErrorMessage  string
}

// Summary is a point-in-time snapshot of the whole run.
type Summary struct {
	TotalScenes      int
	PendingScenes    int
	ProcessingScenes int
	CompletedScenes  int
	FailedScenes     int
	TotalChunks      int
	CompletedChunks  int
	FailedChunks     int
	Elapsed          time.Duration
	AverageSceneTime time.Duration
	ETA              time.Duration
}

// Tracker records scene and chunk status for a run. It enforces the
// one-directional status lifecycle: pending -> processing -> completed or
// failed. All methods are safe for concurrent use.
type Tracker struct {
	mu sync.RWMutex

	scenes []SceneState
	chunks []ChunkState

	runStart     time.Time
	chunkStarted map[int]time.Time
	totalElapsed time.Duration

	now func() time.Time
}

// NewTracker returns a tracker with no plan loaded.
func NewTracker() *Tracker {
	return &Tracker{
		chunkStarted: make(map[int]time.Time),
		now:          time.Now,
	}
}

// InitializePlan loads the plan into the tracker, marking every scene and
// chunk pending. Any previous run state is discarded.
func (t *Tracker) InitializePlan(plan *planner.Plan) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.scenes = make([]SceneState, len(plan.Scenes))
	for i, scene := range plan.Scenes {
		t.scenes[i] = SceneState{
			Index:       scene.Index,
			ChunkNumber: scene.ChunkNumber,
			Name:        scene.MovieShow,
			Duration:    scene.Duration(),
			Status:      models.StatusPending,
		}
	}

	t.chunks = make([]ChunkState, len(plan.Chunks))
	for i, chunk := range plan.Chunks {
		t.chunks[i] = ChunkState{
			Number:     chunk.Number,
			SceneCount: len(chunk.Scenes),
			Status:     models.StatusPending,
		}
	}

	t.chunkStarted = make(map[int]time.Time)
	t.totalElapsed = 0
	t.runStart = time.Time{}
}

// StartRun stamps the wall-clock start of the run.
func (t *Tracker) StartRun() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runStart = t.now()
}

// StartChunk marks the chunk processing.
func (t *Tracker) StartChunk(number int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	chunk, err := t.chunkLocked(number)
	if err != nil {
		return err
	}
	if err := transition(chunk.Status, models.StatusProcessing, fmt.Sprintf("chunk %d", number)); err != nil {
		return err
	}
	chunk.Status = models.StatusProcessing
	t.chunkStarted[number] = t.now()
	return nil
}

// StartScene marks the scene processing.
func (t *Tracker) StartScene(index int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	scene, err := t.sceneLocked(index)
	if err != nil {
		return err
	}
	if err := transition(scene.Status, models.StatusProcessing, fmt.Sprintf("scene %d", index)); err != nil {
		return err
	}
	scene.Status = models.StatusProcessing
	return nil
}

// CompleteScene marks the scene completed and folds its elapsed time into
// the rolling average.
func (t *Tracker) CompleteScene(index int, elapsed time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	scene, err := t.sceneLocked(index)
	if err != nil {
		return err
	}
	if err := transition(scene.Status, models.StatusCompleted, fmt.Sprintf("scene %d", index)); err != nil {
		return err
	}
	scene.Status = models.StatusCompleted
	scene.Elapsed = elapsed
	t.totalElapsed += elapsed
	return nil
}

// FailScene marks the scene failed with a categorized error.
func (t *Tracker) FailScene(index int, kind models.ErrorKind, msg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	scene, err := t.sceneLocked(index)
	if err != nil {
		return err
	}
	if err := transition(scene.Status, models.StatusFailed, fmt.Sprintf("scene %d", index)); err != nil {
		return err
	}
	scene.Status = models.StatusFailed
	scene.ErrorKind = kind
	scene.ErrorMessage = msg
	return nil
}

// CompleteChunk marks the chunk completed and records its output artifact.
// outputSeconds is the media duration actually rendered into the file,
// which can fall short of the estimate when scenes failed.
func (t *Tracker) CompleteChunk(number int, outputPath string, outputSize int64, outputSeconds float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	chunk, err := t.chunkLocked(number)
	if err != nil {
		return err
	}
	if err := transition(chunk.Status, models.StatusCompleted, fmt.Sprintf("chunk %d", number)); err != nil {
		return err
	}
	chunk.Status = models.StatusCompleted
	chunk.OutputPath = outputPath
	chunk.OutputSize = outputSize
	chunk.OutputSeconds = outputSeconds
	if started, ok := t.chunkStarted[number]; ok {
		chunk.Elapsed = t.now().Sub(started)
	}
	return nil
}

// FailChunk marks the chunk failed with a categorized error.
func (t *Tracker) FailChunk(number int, kind models.ErrorKind, msg string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	chunk, err := t.chunkLocked(number)
	if err != nil {
		return err
	}
	if err := transition(chunk.Status, models.StatusFailed, fmt.Sprintf("chunk %d", number)); err != nil {
		return err
	}
	chunk.Status = models.StatusFailed
	chunk.ErrorKind = kind
	chunk.ErrorMessage = msg
	if started, ok := t.chunkStarted[number]; ok {
		chunk.Elapsed = t.now().Sub(started)
	}
	return nil
}

// Scene returns a copy of the tracked state for the scene at index.
func (t *Tracker) Scene(index int) (SceneState, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	scene, err := t.sceneLocked(index)
	if err != nil {
		return SceneState{}, err
	}
	return *scene, nil
}

// ChunkProgress returns a copy of the chunk state plus how many of its
// scenes have reached a terminal status.
func (t *Tracker) ChunkProgress(number int) (ChunkState, int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	chunk, err := t.chunkLocked(number)
	if err != nil {
		return ChunkState{}, 0, err
	}

	done := 0
	for i := range t.scenes {
		if t.scenes[i].ChunkNumber == number && t.scenes[i].Status.Terminal() {
			done++
		}
	}
	return *chunk, done, nil
}

// FailedScenes returns the scenes that ended in a failed status, in index
// order.
func (t *Tracker) FailedScenes() []SceneState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var failed []SceneState
	for i := range t.scenes {
		if t.scenes[i].Status == models.StatusFailed {
			failed = append(failed, t.scenes[i])
		}
	}
	return failed
}

// AverageSceneTime returns the mean elapsed time of completed scenes, or
// zero when nothing has completed yet.
func (t *Tracker) AverageSceneTime() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.averageLocked()
}

// Overall returns a snapshot summary of the run. The ETA is the number of
// still-pending scenes times the rolling average scene time, so it is zero
// until the first scene completes.
func (t *Tracker) Overall() Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Summary{
		TotalScenes: len(t.scenes),
		TotalChunks: len(t.chunks),
	}
	for i := range t.scenes {
		switch t.scenes[i].Status {
		case models.StatusPending:
			s.PendingScenes++
		case models.StatusProcessing:
			s.ProcessingScenes++
		case models.StatusCompleted:
			s.CompletedScenes++
		case models.StatusFailed:
			s.FailedScenes++
		}
	}
	for i := range t.chunks {
		switch t.chunks[i].Status {
		case models.StatusCompleted:
			s.CompletedChunks++
		case models.StatusFailed:
			s.FailedChunks++
		}
	}

	if !t.runStart.IsZero() {
		s.Elapsed = t.now().Sub(t.runStart)
	}
	s.AverageSceneTime = t.averageLocked()
	s.ETA = time.Duration(s.PendingScenes) * s.AverageSceneTime
	return s
}

func (t *Tracker) averageLocked() time.Duration {
	completed := 0
	for i := range t.scenes {
		if t.scenes[i].Status == models.StatusCompleted {
			completed++
		}
	}
	if completed == 0 {
		return 0
	}
	return t.totalElapsed / time.Duration(completed)
}

func (t *Tracker) sceneLocked(index int) (*SceneState, error) {
	if index < 0 || index >= len(t.scenes) {
		return nil, fmt.Errorf("unknown scene index %d", index)
	}
	return &t.scenes[index], nil
}

func (t *Tracker) chunkLocked(number int) (*ChunkState, error) {
	if number < 1 || number > len(t.chunks) {
		return nil, fmt.Errorf("unknown chunk number %d", number)
	}
	return &t.chunks[number-1], nil
}

func transition(from, to models.Status, subject string) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%s: illegal status transition %s -> %s", subject, from, to)
	}
	return nil
}
