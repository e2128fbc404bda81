package models

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrorKind categorizes failures during processing.
type ErrorKind string

const (
	ErrFileNotFound  ErrorKind = "file_not_found"  // source file could not be resolved
	ErrDurationParse ErrorKind = "duration_parse"  // timecode could not be parsed
	ErrCodec         ErrorKind = "codec_error"     // decode/encode failure
	ErrPermission    ErrorKind = "permission"      // filesystem permission failure
	ErrProcessing    ErrorKind = "processing"      // catch-all scene render failure
	ErrChunkRender   ErrorKind = "chunk_render"    // chunk assembly/write failure
	ErrCancelled     ErrorKind = "cancelled"       // cancellation observed before work began
)

// RenderError is a typed failure for one scene or chunk. Cancelled errors are
// terminal for the run but are not counted as failures.
type RenderError struct {
	Kind  ErrorKind
	Scene string // movie/show name, empty for chunk-level errors
	Err   error
}

// NewRenderError wraps err with a kind and the scene it belongs to.
func NewRenderError(kind ErrorKind, scene string, err error) *RenderError {
	return &RenderError{Kind: kind, Scene: scene, Err: err}
}

func (e *RenderError) Error() string {
	if e.Scene != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Scene, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsCancelled reports whether the error represents observed cancellation.
func (e *RenderError) IsCancelled() bool {
	return e != nil && e.Kind == ErrCancelled
}

// ClassifyError maps an arbitrary error onto the error taxonomy. Unrecognized
// errors fall back to ErrProcessing.
func ClassifyError(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return ErrCancelled
	case errors.Is(err, fs.ErrNotExist):
		return ErrFileNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermission
	}

	var re *RenderError
	if errors.As(err, &re) {
		return re.Kind
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "codec") || strings.Contains(msg, "decoder") || strings.Contains(msg, "encoder"):
		return ErrCodec
	case strings.Contains(msg, "permission denied"):
		return ErrPermission
	default:
		return ErrProcessing
	}
}
