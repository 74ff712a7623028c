// Package logger provides the operator-facing progress output for harness
// runs. Output is line-oriented and colorized when attached to a terminal.
// These lines are for visibility only; nothing parses them.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger writes progress lines to a single writer. Safe for concurrent use,
// although the harness itself is strictly sequential.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
	colored bool
}

// New creates a Logger writing to w. If w is nil, all output is discarded.
// Color is enabled only when w is a terminal and NO_COLOR is unset.
func New(w io.Writer, verbose bool) *Logger {
	return &Logger{
		w:       w,
		verbose: verbose,
		colored: useColor(w),
	}
}

// useColor reports whether w is a TTY that should receive color codes.
func useColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	passMark = color.New(color.FgGreen, color.Bold)
	failMark = color.New(color.FgRed, color.Bold)
	warnMark = color.New(color.FgYellow)
)

func (l *Logger) printf(format string, args ...any) {
	if l == nil || l.w == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, format+"\n", args...)
}

func (l *Logger) mark(c *color.Color, text string) string {
	if l != nil && l.colored {
		return c.Sprint(text)
	}
	return text
}

// Progressf emits a plain progress line.
func (l *Logger) Progressf(format string, args ...any) {
	l.printf(format, args...)
}

// Verbosef emits a line only when verbose output is enabled.
func (l *Logger) Verbosef(format string, args ...any) {
	if l == nil || !l.verbose {
		return
	}
	l.printf(format, args...)
}

// Passf emits a line prefixed with a green "ok".
func (l *Logger) Passf(format string, args ...any) {
	l.printf("%s %s", l.mark(passMark, "ok"), fmt.Sprintf(format, args...))
}

// Failf emits a line prefixed with a red "FAIL".
func (l *Logger) Failf(format string, args ...any) {
	l.printf("%s %s", l.mark(failMark, "FAIL"), fmt.Sprintf(format, args...))
}

// Warnf emits a line prefixed with a yellow "warning:".
func (l *Logger) Warnf(format string, args ...any) {
	l.printf("%s %s", l.mark(warnMark, "warning:"), fmt.Sprintf(format, args...))
}
