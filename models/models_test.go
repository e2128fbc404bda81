package models

import (
	"context"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScene_Duration(t *testing.T) {
	s := &Scene{MovieShow: "Black Panther", Start: 14, End: 105}
	assert.InDelta(t, 91.0, s.Duration(), 1e-9)
}

func TestScene_Validate(t *testing.T) {
	tests := []struct {
		name    string
		scene   Scene
		wantErr bool
	}{
		{"valid", Scene{MovieShow: "Thor", Start: 0, End: 30}, false},
		{"empty name", Scene{MovieShow: "  ", Start: 0, End: 30}, true},
		{"zero duration", Scene{MovieShow: "Thor", Start: 30, End: 30}, true},
		{"inverted range", Scene{MovieShow: "Thor", Start: 60, End: 30}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scene.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScene_AudioSelector(t *testing.T) {
	s := &Scene{Language: "en"}
	assert.Equal(t, "en", s.AudioSelector())

	s.AudioTitle = "Original Audio"
	assert.Equal(t, "Original Audio", s.AudioSelector())

	assert.Empty(t, (&Scene{}).AudioSelector())
}

func TestChunk_EstimatedDuration(t *testing.T) {
	c := &Chunk{
		Number: 1,
		Scenes: []Scene{
			{MovieShow: "A", Start: 0, End: 30, Index: 0},
			{MovieShow: "B", Start: 10, End: 25, Index: 1},
		},
	}
	assert.InDelta(t, 45.0, c.EstimatedDuration(), 1e-9)
}

func TestChunk_Validate(t *testing.T) {
	valid := &Chunk{Number: 1, Scenes: []Scene{{Index: 3}, {Index: 4}}}
	assert.NoError(t, valid.Validate())

	empty := &Chunk{Number: 1}
	assert.Error(t, empty.Validate())

	gap := &Chunk{Number: 2, Scenes: []Scene{{Index: 0}, {Index: 2}}}
	assert.Error(t, gap.Validate())

	badNumber := &Chunk{Number: 0, Scenes: []Scene{{Index: 0}}}
	assert.Error(t, badNumber.Validate())
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"not exist", fs.ErrNotExist, ErrFileNotFound},
		{"wrapped not exist", fmt.Errorf("open: %w", fs.ErrNotExist), ErrFileNotFound},
		{"permission", fs.ErrPermission, ErrPermission},
		{"cancelled", context.Canceled, ErrCancelled},
		{"codec message", fmt.Errorf("unknown codec hvc9"), ErrCodec},
		{"render error passthrough", NewRenderError(ErrCodec, "Thor", fmt.Errorf("boom")), ErrCodec},
		{"fallback", fmt.Errorf("something odd"), ErrProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyError(tt.err))
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusProcessing))
	assert.True(t, StatusProcessing.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusProcessing.CanTransitionTo(StatusFailed))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusPending))
	assert.False(t, StatusFailed.CanTransitionTo(StatusProcessing))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusFailed))
}
