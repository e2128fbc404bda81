package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// NewWorkDir creates a run-scoped scratch directory for intermediate clips
// under the system temp dir. The caller is responsible for removing it once
// the run finishes.
func NewWorkDir() (string, error) {
	dir := filepath.Join(os.TempDir(), "megacut-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create work dir: %w", err)
	}
	return dir, nil
}
