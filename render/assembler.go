package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/deathbreakfast/marvel-mega-cut/engine"
	"github.com/deathbreakfast/marvel-mega-cut/logging"
	"github.com/deathbreakfast/marvel-mega-cut/models"
)

// ChunkOutputName returns the output filename for a chunk number.
func ChunkOutputName(number int) string {
	return fmt.Sprintf("mega_cut_part_%d.mp4", number)
}

// Assembler concatenates a chunk's rendered clips into its output file.
type Assembler struct {
	Engine       engine.Engine
	OutputFolder string
	Log          *logging.Logger
}

// OutputPath returns the destination path for a chunk number.
func (a *Assembler) OutputPath(number int) string {
	return filepath.Join(a.OutputFolder, ChunkOutputName(number))
}

// OutputExists reports whether the chunk's output file is already present,
// letting a rerun skip chunks it finished earlier.
func (a *Assembler) OutputExists(number int) bool {
	_, err := os.Stat(a.OutputPath(number))
	return err == nil
}

// AssembleChunk concatenates the successful clips, in scene order, into the
// chunk output file and returns its path and size. Every clip in results is
// closed before returning, whether assembly succeeds or not, so intermediate
// files never outlive the chunk.
func (a *Assembler) AssembleChunk(ctx context.Context, chunk *models.Chunk, results []SceneResult) (string, int64, error) {
	defer closeClips(results, a.Log)

	var clips []engine.Clip
	for i := range results {
		if results[i].Err == nil && results[i].Clip != nil {
			clips = append(clips, results[i].Clip)
		}
	}
	if len(clips) == 0 {
		return "", 0, models.NewRenderError(models.ErrChunkRender, "",
			fmt.Errorf("chunk %d: no scenes rendered", chunk.Number))
	}

	outputPath := a.OutputPath(chunk.Number)
	if err := a.Engine.Concat(ctx, clips, outputPath); err != nil {
		return "", 0, models.NewRenderError(models.ErrChunkRender, "",
			fmt.Errorf("chunk %d: %w", chunk.Number, err))
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return "", 0, models.NewRenderError(models.ErrChunkRender, "",
			fmt.Errorf("chunk %d: output missing after concat: %w", chunk.Number, err))
	}
	return outputPath, info.Size(), nil
}

func closeClips(results []SceneResult, log *logging.Logger) {
	for i := range results {
		if results[i].Clip == nil {
			continue
		}
		if err := results[i].Clip.Close(); err != nil && log != nil {
			log.Debug("failed to close clip %s: %v", results[i].Clip.Path(), err)
		}
	}
}
