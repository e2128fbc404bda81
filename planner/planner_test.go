package planner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deathbreakfast/marvel-mega-cut/models"
)

// scenesWithDurations builds a scene list where scene i has the given
// duration in seconds.
func scenesWithDurations(durations ...float64) []models.Scene {
	scenes := make([]models.Scene, len(durations))
	offset := 0.0
	for i, d := range durations {
		scenes[i] = models.Scene{
			MovieShow: fmt.Sprintf("Movie %d", i+1),
			Start:     offset,
			End:       offset + d,
		}
		offset += d
	}
	return scenes
}

func chunkDurations(p *Plan) [][]float64 {
	out := make([][]float64, len(p.Chunks))
	for i, c := range p.Chunks {
		for _, s := range c.Scenes {
			out[i] = append(out[i], s.Duration())
		}
	}
	return out
}

func TestBuildPlan_PacksUpToCap(t *testing.T) {
	// Three 3000s scenes with a 7200s cap: the first two fit (6000 <= 7200),
	// the third would overflow (9000 > 7200) and starts chunk 2.
	plan, err := BuildPlan(scenesWithDurations(3000, 3000, 3000), 7200)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{3000, 3000}, {3000}}, chunkDurations(plan))
}

func TestBuildPlan_OversizedSceneGetsOwnChunk(t *testing.T) {
	plan, err := BuildPlan(scenesWithDurations(10000), 7200)
	require.NoError(t, err)

	require.Len(t, plan.Chunks, 1)
	assert.Len(t, plan.Chunks[0].Scenes, 1)
	assert.Greater(t, plan.Chunks[0].EstimatedDuration(), 7200.0)
}

func TestBuildPlan_OversizedSceneClosesPreviousChunk(t *testing.T) {
	plan, err := BuildPlan(scenesWithDurations(100, 10000, 100), 7200)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{100}, {10000}, {100}}, chunkDurations(plan))
}

func TestBuildPlan_GreedyPackingIsTight(t *testing.T) {
	durations := []float64{1800, 2500, 900, 3100, 400, 7300, 100, 6900, 350, 2200}
	const cap = 7200.0

	plan, err := BuildPlan(scenesWithDurations(durations...), cap)
	require.NoError(t, err)

	for i, chunk := range plan.Chunks {
		total := chunk.EstimatedDuration()
		if len(chunk.Scenes) > 1 {
			assert.LessOrEqual(t, total, cap, "multi-scene chunk %d exceeds cap", chunk.Number)
		}
		// Every chunk except the last must have closed because the next
		// scene would not fit.
		if i < len(plan.Chunks)-1 {
			next := plan.Chunks[i+1].Scenes[0]
			assert.Greater(t, total+next.Duration(), cap,
				"chunk %d closed early: next scene still fits", chunk.Number)
		}
	}
}

func TestBuildPlan_Deterministic(t *testing.T) {
	scenes := scenesWithDurations(1800, 2500, 900, 3100, 400, 7300, 100)

	a, err := BuildPlan(scenes, 7200)
	require.NoError(t, err)
	b, err := BuildPlan(scenes, 7200)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestBuildPlan_Invariants(t *testing.T) {
	plan, err := BuildPlan(scenesWithDurations(1000, 2000, 3000, 4000, 5000), 4500)
	require.NoError(t, err)

	// Chunk numbers are sequential with no gaps; scene indices are
	// contiguous across chunk boundaries and each scene knows its chunk.
	nextIndex := 0
	for i, chunk := range plan.Chunks {
		assert.Equal(t, i+1, chunk.Number)
		for _, scene := range chunk.Scenes {
			assert.Equal(t, nextIndex, scene.Index)
			assert.Equal(t, chunk.Number, scene.ChunkNumber)
			nextIndex++
		}
	}
	assert.Equal(t, len(plan.Scenes), nextIndex)
}

func TestBuildPlan_EmptySceneList(t *testing.T) {
	_, err := BuildPlan(nil, 7200)
	assert.Error(t, err)
}

func TestBuildPlan_InvalidScene(t *testing.T) {
	scenes := []models.Scene{{MovieShow: "Thor", Start: 100, End: 50}}
	_, err := BuildPlan(scenes, 7200)
	assert.Error(t, err)
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		expr     string
		expected []int
	}{
		{"1,3-4", []int{1, 3, 4}},
		{"2", []int{2}},
		{"3-3", []int{3}},
		{"4,1-2,2", []int{1, 2, 4}}, // deduplicated and ascending
		{" 1 , 5 - 6 ", []int{1, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseSelection(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseSelection_Invalid(t *testing.T) {
	invalid := []string{"", "  ", "1,,2", "0", "-1", "3-2", "a", "1-b", "2-"}

	for _, expr := range invalid {
		t.Run(expr, func(t *testing.T) {
			_, err := ParseSelection(expr)
			assert.Error(t, err)
		})
	}
}

func TestFilterSelection(t *testing.T) {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	kept := FilterSelection([]int{1, 3, 4, 9}, 5, warn)
	assert.Equal(t, []int{1, 3, 4}, kept)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "chunk 9")

	assert.Nil(t, FilterSelection(nil, 5, warn))
	assert.Empty(t, FilterSelection([]int{7}, 5, nil))
}

func TestSelected(t *testing.T) {
	assert.True(t, Selected(nil, 3))
	assert.True(t, Selected([]int{1, 3}, 3))
	assert.False(t, Selected([]int{1, 3}, 2))
}
