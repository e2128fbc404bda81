package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deathbreakfast/marvel-mega-cut/logging"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenes.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractScenes(t *testing.T) {
	path := writeCatalog(t, strings.Join([]string{
		"movie_show,season_episode,episode_title,start_timecode,end_timecode,timeline_placement,comment,language,audio_title,reality_designation",
		`Black Panther,,,0:00:14,0:01:45,"2,500,000 BCE",Prologue,en,Original Audio,EARTH-199999`,
		"Agents of S.H.I.E.L.D.,3.19,Failed Experiments,0:00:45,0:01:35,3500 BCE,,,,",
	}, "\n") + "\n")

	scenes, err := ExtractScenes(path, logging.Nop())
	require.NoError(t, err)
	require.Len(t, scenes, 2)

	assert.Equal(t, "Black Panther", scenes[0].MovieShow)
	assert.Equal(t, "0:00:14", scenes[0].StartTimecode)
	assert.Equal(t, "2,500,000 BCE", scenes[0].TimelinePlacement)
	assert.Equal(t, "Original Audio", scenes[0].AudioTitle)

	assert.Equal(t, "3.19", scenes[1].SeasonEpisode)
	assert.Equal(t, "Failed Experiments", scenes[1].EpisodeTitle)
	assert.Empty(t, scenes[1].Language)
}

func TestExtractScenes_SkipsInvalidRows(t *testing.T) {
	path := writeCatalog(t, strings.Join([]string{
		"movie_show,start_timecode,end_timecode,timeline_placement",
		"Thor,0:00:35,0:03:39,2988 BCE",
		",,,",                   // blank separator row
		"Iron Man,,0:05:00,2008", // missing start timecode
		"Hulk,0:01:00,0:02:00,2005",
	}, "\n") + "\n")

	scenes, err := ExtractScenes(path, logging.Nop())
	require.NoError(t, err)
	require.Len(t, scenes, 2)
	assert.Equal(t, "Thor", scenes[0].MovieShow)
	assert.Equal(t, "Hulk", scenes[1].MovieShow)
}

func TestExtractScenes_MissingColumn(t *testing.T) {
	path := writeCatalog(t, "movie_show,start_timecode,end_timecode\nThor,0:00:35,0:03:39\n")

	_, err := ExtractScenes(path, logging.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeline_placement")
}

func TestCandidateNames(t *testing.T) {
	names := CandidateNames("Thor: The Dark World")

	require.NotEmpty(t, names)
	assert.Equal(t, "Thor: The Dark World", names[0], "exact name must be tried first")
	assert.Contains(t, names, "Thor_The_Dark_World")
	assert.Contains(t, names, "Thor The Dark World")
	assert.Contains(t, names, "Thor - The Dark World")
}

func TestResolveSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Thor_The_Dark_World.mkv"), []byte("x"), 0644))

	path, err := ResolveSource(dir, "Thor: The Dark World")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Thor_The_Dark_World.mkv"), path)
}

func TestResolveSource_ExactNameWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Black Panther.mkv"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Black_Panther.mkv"), []byte("x"), 0644))

	path, err := ResolveSource(dir, "Black Panther")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Black Panther.mkv"), path)
}

func TestResolveSource_NotFound(t *testing.T) {
	_, err := ResolveSource(t.TempDir(), "Missing Movie")
	assert.Error(t, err)
}

func TestWriteSampleCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, WriteSampleCSV(path))

	scenes, err := ExtractScenes(path, logging.Nop())
	require.NoError(t, err)
	require.Len(t, scenes, 3)
	assert.Equal(t, "Black Panther", scenes[0].MovieShow)
	assert.Equal(t, "Thor: The Dark World", scenes[2].MovieShow)
}

func TestSetAudioTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, WriteSampleCSV(path))

	updated, err := SetAudioTitle(path, "black panther", "English (8ch)")
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	scenes, err := ExtractScenes(path, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, "English (8ch)", scenes[0].AudioTitle)
	assert.Equal(t, "Original Audio", scenes[1].AudioTitle, "other rows untouched")
}

func TestSetAudioTitle_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.csv")
	require.NoError(t, WriteSampleCSV(path))

	updated, err := SetAudioTitle(path, "Non-existent Movie", "German Audio")
	require.NoError(t, err)
	assert.Zero(t, updated)
}
