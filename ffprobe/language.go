package ffprobe

import "strings"

var languageNames = map[string]string{
	"eng": "English",
	"en":  "English",
	"spa": "Spanish",
	"fra": "French",
	"fre": "French",
	"deu": "German",
	"ger": "German",
	"ita": "Italian",
	"por": "Portuguese",
	"rus": "Russian",
	"jpn": "Japanese",
	"kor": "Korean",
	"chi": "Chinese",
	"zho": "Chinese",
	"ara": "Arabic",
	"hin": "Hindi",

	"unknown": "Unknown",
}

// LanguageName converts an ISO language code to a human-readable name.
// Unrecognized codes are returned upper-cased.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return strings.ToUpper(code)
}
