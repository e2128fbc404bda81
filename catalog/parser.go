// Package catalog reads and maintains the scene catalog CSV.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deathbreakfast/marvel-mega-cut/logging"
	"github.com/deathbreakfast/marvel-mega-cut/models"
)

// Required catalog columns. Optional columns: season_episode, episode_title,
// comment, language, audio_title, reality_designation.
var requiredColumns = []string{"movie_show", "start_timecode", "end_timecode", "timeline_placement"}

// ExtractScenes parses the catalog CSV into an ordered scene list.
//
// Rows missing a required field are skipped with a warning; timecodes are
// left unparsed (pre-validation fills Start/End before planning). A missing
// required column is an error.
func ExtractScenes(path string, log *logging.Logger) ([]models.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return parseScenes(f, log)
}

func parseScenes(r io.Reader, log *logging.Logger) ([]models.Scene, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, validate per field

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("catalog is missing required columns: %s", strings.Join(missing, ", "))
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var scenes []models.Scene
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog row %d: %w", row, err)
		}

		movieShow := field(record, "movie_show")
		if movieShow == "" {
			continue // blank separator row
		}

		if field(record, "start_timecode") == "" || field(record, "end_timecode") == "" ||
			field(record, "timeline_placement") == "" {
			log.Warn("skipping catalog row %d (%s): missing required fields", row, movieShow)
			continue
		}

		scenes = append(scenes, models.Scene{
			MovieShow:          movieShow,
			SeasonEpisode:      field(record, "season_episode"),
			EpisodeTitle:       field(record, "episode_title"),
			StartTimecode:      field(record, "start_timecode"),
			EndTimecode:        field(record, "end_timecode"),
			TimelinePlacement:  field(record, "timeline_placement"),
			Comment:            field(record, "comment"),
			Language:           field(record, "language"),
			AudioTitle:         field(record, "audio_title"),
			RealityDesignation: field(record, "reality_designation"),
		})
	}

	return scenes, nil
}
