// Package planner groups an ordered scene list into duration-capped chunks.
package planner

import (
	"fmt"

	"github.com/deathbreakfast/marvel-mega-cut/models"
)

// Plan is the result of chunk planning: the ordered chunk list plus the
// flattened scene list with global indices and chunk numbers assigned.
type Plan struct {
	Chunks []models.Chunk
	Scenes []models.Scene
}

// TotalScenes returns the number of planned scenes.
func (p *Plan) TotalScenes() int {
	return len(p.Scenes)
}

// Chunk returns the chunk with the given 1-based number, or nil.
func (p *Plan) Chunk(number int) *models.Chunk {
	if number < 1 || number > len(p.Chunks) {
		return nil
	}
	return &p.Chunks[number-1]
}

// BuildPlan greedily packs scenes into chunks bounded by capSeconds.
//
// The algorithm is a single left-to-right pass: a scene is appended to the
// chunk under construction unless the chunk is non-empty and adding the
// scene would push the running total past the cap, in which case the chunk
// is closed and a new one started. Scenes are never split, so a scene longer
// than the cap still gets a chunk of its own. Identical inputs always yield
// an identical partition.
//
// Scenes must already be validated (positive duration); an empty scene list
// is an error because the run would have nothing to do.
func BuildPlan(scenes []models.Scene, capSeconds float64) (*Plan, error) {
	if len(scenes) == 0 {
		return nil, fmt.Errorf("no valid scenes to plan")
	}
	if capSeconds <= 0 {
		return nil, fmt.Errorf("chunk duration cap must be positive, got %.2f", capSeconds)
	}

	plan := &Plan{
		Scenes: make([]models.Scene, 0, len(scenes)),
	}

	current := models.Chunk{Number: 1}
	running := 0.0

	for i, scene := range scenes {
		if err := scene.Validate(); err != nil {
			return nil, fmt.Errorf("scene %d: %w", i, err)
		}

		d := scene.Duration()
		if len(current.Scenes) > 0 && running+d > capSeconds {
			plan.Chunks = append(plan.Chunks, current)
			current = models.Chunk{Number: current.Number + 1}
			running = 0
		}

		scene.Index = i
		scene.ChunkNumber = current.Number
		current.Scenes = append(current.Scenes, scene)
		running += d
		plan.Scenes = append(plan.Scenes, scene)
	}

	plan.Chunks = append(plan.Chunks, current)

	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// validatePlan checks the structural invariants of a finished plan:
// sequential chunk numbers with no gaps, contiguous global scene indices,
// and every chunk internally valid.
func validatePlan(plan *Plan) error {
	nextIndex := 0
	for i := range plan.Chunks {
		chunk := &plan.Chunks[i]
		if chunk.Number != i+1 {
			return fmt.Errorf("chunk %d has number %d, expected %d", i, chunk.Number, i+1)
		}
		if err := chunk.Validate(); err != nil {
			return err
		}
		for j := range chunk.Scenes {
			if chunk.Scenes[j].Index != nextIndex {
				return fmt.Errorf("chunk %d scene %d has index %d, expected %d",
					chunk.Number, j, chunk.Scenes[j].Index, nextIndex)
			}
			nextIndex++
		}
	}
	if nextIndex != len(plan.Scenes) {
		return fmt.Errorf("plan covers %d scenes, expected %d", nextIndex, len(plan.Scenes))
	}
	return nil
}
