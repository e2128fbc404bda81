package models

import "fmt"

// Chunk represents one output file's worth of consecutive scenes.
//
// Chunks are created once during planning; the scene list is a contiguous
// slice of the original catalog order and is never mutated afterwards.
// Chunk numbers are 1-based and sequential with no gaps.
type Chunk struct {
	Number int     `json:"number"`
	Scenes []Scene `json:"scenes"`
}

// EstimatedDuration returns the sum of the scene durations in seconds.
func (c *Chunk) EstimatedDuration() float64 {
	total := 0.0
	for i := range c.Scenes {
		total += c.Scenes[i].Duration()
	}
	return total
}

// Validate checks the chunk's internal invariants: a positive sequential
// number, at least one scene, and contiguous ascending scene indices.
func (c *Chunk) Validate() error {
	if c.Number < 1 {
		return fmt.Errorf("chunk number must be positive, got %d", c.Number)
	}
	if len(c.Scenes) == 0 {
		return fmt.Errorf("chunk %d has no scenes", c.Number)
	}
	for i := 1; i < len(c.Scenes); i++ {
		if c.Scenes[i].Index != c.Scenes[i-1].Index+1 {
			return fmt.Errorf("chunk %d: scene indices %d and %d are not contiguous",
				c.Number, c.Scenes[i-1].Index, c.Scenes[i].Index)
		}
	}
	return nil
}
