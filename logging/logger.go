// Package logging provides leveled, optionally colored console logging.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	colorRed    = "\033[1;91m"
	colorGreen  = "\033[1;92m"
	colorYellow = "\033[1;93m"
	colorBlue   = "\033[1;94m"
	colorCyan   = "\033[1;96m"
	colorReset  = "\033[0m"
)

// Logger writes prefix-tagged log lines. Writes are serialized so concurrent
// scene workers never interleave partial lines.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	color   bool
	verbose bool
}

// New creates a logger writing to stdout/stderr. Colors are enabled only when
// stdout is a terminal and NO_COLOR is unset.
func New(verbose bool) *Logger {
	color := isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("NO_COLOR") == ""
	return &Logger{
		out:     os.Stdout,
		errOut:  os.Stderr,
		color:   color,
		verbose: verbose,
	}
}

// NewWithWriter creates a logger writing all levels to w, without color.
// Intended for tests.
func NewWithWriter(w io.Writer, verbose bool) *Logger {
	return &Logger{out: w, errOut: w, verbose: verbose}
}

func (l *Logger) line(w io.Writer, level, color, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.color && color != "" {
		fmt.Fprintf(w, "%s[%s]%s %s\n", color, level, colorReset, text)
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", level, text)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.line(l.out, "INFO", colorBlue, fmt.Sprintf(format, args...))
}

// Success logs a success message.
func (l *Logger) Success(format string, args ...any) {
	l.line(l.out, "OK", colorGreen, fmt.Sprintf(format, args...))
}

// Warn logs a non-fatal warning.
func (l *Logger) Warn(format string, args ...any) {
	l.line(l.out, "WARN", colorYellow, fmt.Sprintf(format, args...))
}

// Error logs an error to stderr.
func (l *Logger) Error(format string, args ...any) {
	l.line(l.errOut, "ERROR", colorRed, fmt.Sprintf(format, args...))
}

// Debug logs only when the logger was created with verbose enabled.
func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.line(l.out, "DEBUG", colorCyan, fmt.Sprintf(format, args...))
}

// Nop returns a logger that discards everything. Intended for tests.
func Nop() *Logger {
	return &Logger{out: io.Discard, errOut: io.Discard}
}
