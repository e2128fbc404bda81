package render

import (
	"os"
	"runtime"
)

// DefaultFontCandidates returns the font file paths tried, in order, for the
// timeline-placement overlay on the current platform.
func DefaultFontCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/System/Library/Fonts/Helvetica.ttc",
			"/System/Library/Fonts/Supplemental/Arial.ttf",
			"/Library/Fonts/Arial.ttf",
		}
	case "windows":
		return []string{
			`C:\Windows\Fonts\arial.ttf`,
			`C:\Windows\Fonts\calibri.ttf`,
		}
	default:
		return []string{
			"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
			"/usr/share/fonts/TTF/DejaVuSans.ttf",
		}
	}
}

// existingFonts filters candidates down to the ones present on disk,
// preserving order.
func existingFonts(candidates []string) []string {
	var found []string
	for _, font := range candidates {
		if _, err := os.Stat(font); err == nil {
			found = append(found, font)
		}
	}
	return found
}
