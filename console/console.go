// Package console is the diagnostic sink collaborator of spec.md §6: it
// owns nothing but an io.Writer and is passed explicitly (to
// assembler.Assemble and debug.NewManager, and used by main.go) rather
// than living on a package-global logger, per the "pass a diagnostic
// sink explicitly" guidance of spec.md §9.
package console

import (
	"fmt"
	"io"
	"os"
)

// Sink prints build/interpret diagnostics. A Sink from New(nil) writes
// to os.Stderr, matching spec.md §6 ("Printed on stderr via the console
// collaborator"); the zero value has no writer and must not be used.
type Sink struct {
	w      io.Writer
	detail bool
}

// New returns a Sink writing to w. Passing nil defaults to os.Stderr.
func New(w io.Writer) *Sink {
	if w == nil {
		w = os.Stderr
	}
	return &Sink{w: w}
}

// SetDetail toggles whether the section-layout table is printed; it
// mirrors the CLI's "detail" option (spec.md §6).
func (s *Sink) SetDetail(v bool) { s.detail = v }

// Detail reports the current detail setting.
func (s *Sink) Detail() bool { return s.detail }

// Printf writes a formatted diagnostic line.
func (s *Sink) Printf(format string, args ...any) {
	fmt.Fprintf(s.w, format, args...)
}

// Banner prints a centered "=== text ===" banner, matching the
// " Build time: {}ms " / " Interpret time: {}ms " banners that
// original_source/main.cpp prints via dark::console::message with
// std::format("\n{:=^80}\n\n", ...).
func (s *Sink) Banner(text string) {
	const width = 80
	pad := width - len(text)
	if pad < 0 {
		pad = 0
	}
	left := pad / 2
	right := pad - left
	fmt.Fprintf(s.w, "\n%s%s%s\n\n", repeat('=', left), text, repeat('=', right))
}

func repeat(c byte, n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = c
	}
	return string(b)
}
