// Package console prints operator-facing status lines and run reports.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Logger prints status lines with the classic prefix register:
// [*] progress, [+] success, [!] warning, [-] failure.
// Lines go to stderr by default so structured results on stdout stay clean.
type Logger struct {
	w    io.Writer
	info func(a ...interface{}) string
	ok   func(a ...interface{}) string
	warn func(a ...interface{}) string
	fail func(a ...interface{}) string
}

// New returns a Logger writing to stderr.
func New() *Logger { return NewWithWriter(os.Stderr) }

// NewWithWriter returns a Logger writing to w.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		w:    w,
		info: color.New(color.FgHiCyan).SprintFunc(),
		ok:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		warn: color.New(color.FgHiYellow).SprintFunc(),
		fail: color.New(color.FgRed, color.Bold).SprintFunc(),
	}
}

// Infof prints a [*] progress line.
func (l *Logger) Infof(format string, a ...interface{}) { l.line(l.info("[*]"), format, a...) }

// Okf prints a [+] success line.
func (l *Logger) Okf(format string, a ...interface{}) { l.line(l.ok("[+]"), format, a...) }

// Warnf prints a [!] warning line.
func (l *Logger) Warnf(format string, a ...interface{}) { l.line(l.warn("[!]"), format, a...) }

// Failf prints a [-] failure line.
func (l *Logger) Failf(format string, a ...interface{}) { l.line(l.fail("[-]"), format, a...) }

func (l *Logger) line(prefix, format string, a ...interface{}) {
	fmt.Fprintf(l.w, "%s %s\n", prefix, fmt.Sprintf(format, a...))
}
