package planner

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseSelection parses a chunk subset expression using comma/range syntax,
// e.g. "1,3-4". The result is deduplicated and ascending. Empty expressions,
// non-positive numbers, and inverted ranges are rejected.
func ParseSelection(expr string) ([]int, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty chunk selection")
	}

	seen := make(map[int]struct{})
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty element in chunk selection %q", expr)
		}

		lo, hi, err := parseElement(part)
		if err != nil {
			return nil, err
		}
		for n := lo; n <= hi; n++ {
			seen[n] = struct{}{}
		}
	}

	selection := make([]int, 0, len(seen))
	for n := range seen {
		selection = append(selection, n)
	}
	sort.Ints(selection)
	return selection, nil
}

func parseElement(part string) (lo, hi int, err error) {
	if before, after, isRange := strings.Cut(part, "-"); isRange {
		lo, err = parseChunkNumber(before)
		if err != nil {
			return 0, 0, err
		}
		hi, err = parseChunkNumber(after)
		if err != nil {
			return 0, 0, err
		}
		if hi < lo {
			return 0, 0, fmt.Errorf("inverted chunk range %q", part)
		}
		return lo, hi, nil
	}

	lo, err = parseChunkNumber(part)
	return lo, lo, err
}

func parseChunkNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid chunk number %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("chunk numbers must be positive, got %d", n)
	}
	return n, nil
}

// FilterSelection drops selected chunk numbers outside [1, total], reporting
// each through warn. An empty selection means "all chunks" and is returned
// as-is (nil).
func FilterSelection(selection []int, total int, warn func(format string, args ...any)) []int {
	if selection == nil {
		return nil
	}
	kept := make([]int, 0, len(selection))
	for _, n := range selection {
		if n < 1 || n > total {
			if warn != nil {
				warn("ignoring chunk %d: plan has %d chunks", n, total)
			}
			continue
		}
		kept = append(kept, n)
	}
	return kept
}

// Selected reports whether chunk n is included by the selection. A nil
// selection selects every chunk.
func Selected(selection []int, n int) bool {
	if selection == nil {
		return true
	}
	for _, s := range selection {
		if s == n {
			return true
		}
	}
	return false
}
