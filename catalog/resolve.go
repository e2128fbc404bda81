package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// sourceExtensions are tried in order for every name candidate.
var sourceExtensions = []string{".mkv", ".mp4"}

// CandidateNames returns the ordered filename stems tried when resolving a
// movie/show name to a source file: the exact name first, then
// punctuation-normalized variants. Duplicates are removed while preserving
// order.
func CandidateNames(movieShow string) []string {
	noColon := strings.ReplaceAll(movieShow, ":", "")
	variants := []string{
		movieShow,
		strings.ReplaceAll(strings.ReplaceAll(noColon, "/", ""), " ", "_"),
		noColon,
		strings.ReplaceAll(movieShow, ":", " -"),
		strings.ReplaceAll(movieShow, "&", "and"),
	}

	seen := make(map[string]struct{}, len(variants))
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		if _, dup := seen[v]; dup || v == "" {
			continue
		}
		seen[v] = struct{}{}
		names = append(names, v)
	}
	return names
}

// ResolveSource finds the source file for a movie/show name inside folder by
// trying each candidate name with each known extension; the first existing
// path wins. A miss on every candidate returns an error wrapping
// fs.ErrNotExist.
func ResolveSource(folder, movieShow string) (string, error) {
	for _, name := range CandidateNames(movieShow) {
		for _, ext := range sourceExtensions {
			path := filepath.Join(folder, name+ext)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("no source file for %q in %s: %w", movieShow, folder, fs.ErrNotExist)
}
