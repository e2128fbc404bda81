package engine

import (
	"fmt"
	"strings"

	"github.com/deathbreakfast/marvel-mega-cut/internal/timeutil"
)

// trimArgs builds the ffmpeg arguments for rendering the [start, end)
// sub-clip of input. Scenes are re-encoded so cuts are frame-accurate and
// every clip shares one codec for the concat step. All streams are mapped
// through so a later audio-track remux still has every track to pick from.
func trimArgs(input string, start, end float64, videoCodec, audioCodec, output string) []string {
	return []string{
		"-ss", timeutil.FormatSeconds(start),
		"-to", timeutil.FormatSeconds(end),
		"-i", input,
		"-map", "0",
		"-c:v", videoCodec,
		"-c:a", audioCodec,
		"-y",
		output,
	}
}

// audioTrackArgs builds the ffmpeg arguments for remuxing input keeping the
// first video stream and only the audio stream with the given absolute index.
func audioTrackArgs(input string, track int, output string) []string {
	return []string{
		"-i", input,
		"-map", "0:v:0",
		"-map", fmt.Sprintf("0:%d", track),
		"-c", "copy",
		"-y",
		output,
	}
}

// overlayArgs builds the ffmpeg arguments for compositing a text label in
// the top-right corner. The label is shown for the first two seconds and
// fades out over the final second, matching the timeline-placement style.
func overlayArgs(input, label, font, videoCodec, output string) []string {
	filter := fmt.Sprintf(
		"drawtext=fontfile=%s:text='%s':fontsize=24:fontcolor=white:x=w-tw-20:y=20:alpha='if(lt(t,1),1,if(lt(t,2),2-t,0))'",
		escapeFilterValue(font), escapeFilterValue(label),
	)
	return []string{
		"-i", input,
		"-vf", filter,
		"-c:v", videoCodec,
		"-c:a", "copy",
		"-y",
		output,
	}
}

// concatArgs builds the ffmpeg arguments for the concat demuxer over a
// prepared list file, copying streams without re-encoding.
func concatArgs(listPath, output string) []string {
	return []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		output,
	}
}

// escapeFilterValue escapes the characters that terminate or nest values in
// ffmpeg filter expressions.
func escapeFilterValue(v string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`,`, `\,`,
	)
	return r.Replace(v)
}
