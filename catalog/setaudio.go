package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// SetAudioTitle rewrites the audio_title column for every catalog row whose
// movie_show matches (case-insensitive). It returns the number of rows
// updated; zero means the movie/show was not found in the catalog.
//
// The file is rewritten in place with all other columns preserved.
func SetAudioTitle(path, movieShow, audioTitle string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read catalog: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("catalog %s is empty", path)
	}

	header := records[0]
	showCol, audioCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "movie_show":
			showCol = i
		case "audio_title":
			audioCol = i
		}
	}
	if showCol < 0 {
		return 0, fmt.Errorf("catalog is missing required columns: movie_show")
	}
	if audioCol < 0 {
		// Append the column so older catalogs can be upgraded in place.
		header = append(header, "audio_title")
		audioCol = len(header) - 1
		records[0] = header
	}

	want := strings.ToLower(strings.TrimSpace(movieShow))
	updated := 0
	for i := 1; i < len(records); i++ {
		row := records[i]
		if showCol >= len(row) {
			continue
		}
		if strings.ToLower(strings.TrimSpace(row[showCol])) != want {
			continue
		}
		for len(row) <= audioCol {
			row = append(row, "")
		}
		row[audioCol] = audioTitle
		records[i] = row
		updated++
	}

	if updated == 0 {
		return 0, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to rewrite catalog: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return 0, fmt.Errorf("failed to write catalog: %w", err)
	}
	return updated, nil
}
