package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
)

var catalogColumns = []string{
	"movie_show", "season_episode", "episode_title", "start_timecode",
	"end_timecode", "timeline_placement", "comment", "language",
	"audio_title", "reality_designation",
}

// WriteSampleCSV creates a sample catalog file demonstrating the expected
// column layout.
func WriteSampleCSV(path string) error {
	rows := [][]string{
		{
			"Black Panther", "", "", "0:00:14", "0:01:45", "2,500,000 BCE",
			"Prologue: the story of the first Black Panther and the formation of Wakanda.",
			"en", "Original Audio", "EARTH-199999",
		},
		{
			"Agents of S.H.I.E.L.D.", "3.19", "Failed Experiments", "0:00:45", "0:01:35", "3500 BCE",
			"Flashback: Hive tells the story of his Inhuman transformation.",
			"en", "Original Audio", "EARTH-199999",
		},
		{
			"Thor: The Dark World", "", "", "0:00:35", "0:03:39", "2988 BCE",
			"Prologue: Odin narrating the story of The Convergence.",
			"en", "Original Audio", "EARTH-199999",
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sample catalog: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(catalogColumns); err != nil {
		return fmt.Errorf("failed to write sample header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write sample row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
