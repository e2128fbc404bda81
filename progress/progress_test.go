package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deathbreakfast/marvel-mega-cut/models"
	"github.com/deathbreakfast/marvel-mega-cut/planner"
)

func testPlan(t *testing.T, durations ...float64) *planner.Plan {
	t.Helper()
	scenes := make([]models.Scene, len(durations))
	for i, d := range durations {
		scenes[i] = models.Scene{MovieShow: "Iron Man", Start: 0, End: d}
	}
	plan, err := planner.BuildPlan(scenes, 7200)
	require.NoError(t, err)
	return plan
}

func TestTracker_SceneLifecycle(t *testing.T) {
	tr := NewTracker()
	tr.InitializePlan(testPlan(t, 1000, 1000))

	require.NoError(t, tr.StartScene(0))
	require.NoError(t, tr.CompleteScene(0, 5*time.Second))

	scene, err := tr.Scene(0)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, scene.Status)
	assert.Equal(t, 5*time.Second, scene.Elapsed)

	require.NoError(t, tr.StartScene(1))
	require.NoError(t, tr.FailScene(1, models.ErrCodec, "decoder blew up"))

	scene, err = tr.Scene(1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, scene.Status)
	assert.Equal(t, models.ErrCodec, scene.ErrorKind)
}

func TestTracker_RejectsIllegalTransitions(t *testing.T) {
	tr := NewTracker()
	tr.InitializePlan(testPlan(t, 1000))

	require.NoError(t, tr.StartScene(0))
	require.NoError(t, tr.CompleteScene(0, time.Second))

	// Terminal states are final.
	assert.Error(t, tr.StartScene(0))
	assert.Error(t, tr.CompleteScene(0, time.Second))
	assert.Error(t, tr.FailScene(0, models.ErrProcessing, "late"))
}

func TestTracker_PendingToTerminalWithoutStart(t *testing.T) {
	// A scene skipped over by a failing chunk may be failed directly from
	// pending without ever entering processing.
	tr := NewTracker()
	tr.InitializePlan(testPlan(t, 1000))

	assert.NoError(t, tr.FailScene(0, models.ErrChunkRender, "chunk gave up"))
}

func TestTracker_UnknownIndices(t *testing.T) {
	tr := NewTracker()
	tr.InitializePlan(testPlan(t, 1000))

	assert.Error(t, tr.StartScene(5))
	assert.Error(t, tr.StartChunk(0))
	assert.Error(t, tr.StartChunk(9))
}

func TestTracker_OverallAndETA(t *testing.T) {
	tr := NewTracker()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return base }
	tr.InitializePlan(testPlan(t, 1000, 1000, 1000, 1000))
	tr.StartRun()

	// ETA is unknown until the first completion.
	assert.Equal(t, time.Duration(0), tr.Overall().ETA)

	require.NoError(t, tr.StartScene(0))
	require.NoError(t, tr.CompleteScene(0, 10*time.Second))
	require.NoError(t, tr.StartScene(1))
	require.NoError(t, tr.CompleteScene(1, 20*time.Second))

	s := tr.Overall()
	assert.Equal(t, 2, s.CompletedScenes)
	assert.Equal(t, 2, s.PendingScenes)
	assert.Equal(t, 15*time.Second, s.AverageSceneTime)
	assert.Equal(t, 30*time.Second, s.ETA)

	// Failed scenes do not pollute the rolling average.
	require.NoError(t, tr.StartScene(2))
	require.NoError(t, tr.FailScene(2, models.ErrProcessing, "boom"))
	assert.Equal(t, 15*time.Second, tr.Overall().AverageSceneTime)
	assert.Equal(t, 15*time.Second, tr.Overall().ETA)

	// Only pending scenes count toward the estimate; a scene that is
	// mid-render does not.
	require.NoError(t, tr.StartScene(3))
	assert.Equal(t, time.Duration(0), tr.Overall().ETA)
}

func TestTracker_ChunkProgress(t *testing.T) {
	tr := NewTracker()
	tr.InitializePlan(testPlan(t, 4000, 4000, 4000))

	require.NoError(t, tr.StartChunk(1))
	require.NoError(t, tr.StartScene(0))
	require.NoError(t, tr.CompleteScene(0, time.Second))

	chunk, done, err := tr.ChunkProgress(1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, chunk.Status)
	assert.Equal(t, 1, done)

	require.NoError(t, tr.CompleteChunk(1, "/out/mega_cut_part_1.mp4", 1<<20, 4000))
	chunk, _, err = tr.ChunkProgress(1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, chunk.Status)
	assert.Equal(t, "/out/mega_cut_part_1.mp4", chunk.OutputPath)
	assert.Equal(t, int64(1<<20), chunk.OutputSize)
	assert.Equal(t, 4000.0, chunk.OutputSeconds)
}

func TestTracker_FailedScenes(t *testing.T) {
	tr := NewTracker()
	tr.InitializePlan(testPlan(t, 1000, 1000, 1000))

	require.NoError(t, tr.StartScene(1))
	require.NoError(t, tr.FailScene(1, models.ErrFileNotFound, "no such movie"))

	failed := tr.FailedScenes()
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Index)
	assert.Equal(t, models.ErrFileNotFound, failed[0].ErrorKind)
}

func TestTracker_InitializePlanResetsState(t *testing.T) {
	tr := NewTracker()
	tr.InitializePlan(testPlan(t, 1000))
	require.NoError(t, tr.StartScene(0))
	require.NoError(t, tr.CompleteScene(0, time.Second))

	tr.InitializePlan(testPlan(t, 1000, 1000))
	s := tr.Overall()
	assert.Equal(t, 2, s.PendingScenes)
	assert.Equal(t, 0, s.CompletedScenes)
	assert.Equal(t, time.Duration(0), s.AverageSceneTime)
}

func TestCanceller(t *testing.T) {
	c := NewCanceller()
	assert.False(t, c.Cancelled())

	c.Cancel()
	assert.True(t, c.Cancelled())

	// One-way within a run: repeated cancels keep it tripped.
	c.Cancel()
	assert.True(t, c.Cancelled())

	c.Reset()
	assert.False(t, c.Cancelled())
}

func TestCanceller_ConcurrentCancel(t *testing.T) {
	c := NewCanceller()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			c.Cancel()
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.True(t, c.Cancelled())
}
