// Package diag renders token-anchored diagnostics: a file:line:col prefix,
// the offending source line, and a caret underlining the token.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/pineapplemachine/lexscan/pkg/scan"
)

const (
	cRed    = "\033[31m"
	cYellow = "\033[33m"
	cGreen  = "\033[32m"
	cNone   = "\033[0m"
)

// Writer prints diagnostics for tokens. Color is plain ANSI, enabled by
// NewWriter only when the destination is a terminal.
type Writer struct {
	Out   io.Writer
	Color bool
}

func NewWriter(out *os.File) *Writer {
	return &Writer{Out: out, Color: term.IsTerminal(int(out.Fd()))}
}

// Errorf reports an error anchored at tok within its subject string.
func (w *Writer) Errorf(subject string, tok scan.Token, format string, args ...any) {
	w.report(subject, tok, "error", cRed, format, args...)
}

// Warnf reports a warning anchored at tok within its subject string.
func (w *Writer) Warnf(subject string, tok scan.Token, format string, args ...any) {
	w.report(subject, tok, "warning", cYellow, format, args...)
}

func (w *Writer) report(subject string, tok scan.Token, kind, color, format string, args ...any) {
	source := tok.Source
	if source == "" {
		source = "<input>"
	}
	_, col := lineAt(subject, tok.Pos)
	if w.Color {
		fmt.Fprintf(w.Out, "%s:%d:%d: %s%s:%s ", source, tok.Line, col, color, kind, cNone)
	} else {
		fmt.Fprintf(w.Out, "%s:%d:%d: %s: ", source, tok.Line, col, kind)
	}
	fmt.Fprintf(w.Out, format, args...)
	fmt.Fprintln(w.Out)
	w.printSourceLine(subject, tok)
}

// printSourceLine prints the line containing the token and a caret under its
// first character, with tildes covering the rest of the span.
func (w *Writer) printSourceLine(subject string, tok scan.Token) {
	if tok.Pos < 0 || tok.Pos > len(subject) {
		return
	}
	line, col := lineAt(subject, tok.Pos)
	if line == "" && tok.Text == "" {
		return
	}
	fmt.Fprintf(w.Out, "  %s\n", line)

	width := utf8.RuneCountInString(tok.Text)
	if width < 1 {
		width = 1
	}
	marker := "^" + strings.Repeat("~", width-1)
	if w.Color {
		marker = cGreen + marker + cNone
	}
	fmt.Fprintf(w.Out, "  %s%s\n", strings.Repeat(" ", col-1), marker)
}

// lineAt returns the full line of subject containing byte offset pos, along
// with the 1-based rune column of pos within it.
func lineAt(subject string, pos int) (string, int) {
	if pos > len(subject) {
		pos = len(subject)
	}
	start := strings.LastIndexByte(subject[:pos], '\n') + 1
	end := strings.IndexByte(subject[pos:], '\n')
	if end < 0 {
		end = len(subject)
	} else {
		end += pos
	}
	return subject[start:end], utf8.RuneCountInString(subject[start:pos]) + 1
}
