package diag

import (
	"bytes"
	"testing"

	"github.com/pineapplemachine/lexscan/pkg/scan"
)

func TestWarnf(t *testing.T) {
	subject := "one two\nthree ?? four\n"
	rules := []*scan.Rule{scan.MustRule(`\w+`), scan.MustRule(`\s+`, scan.Insignificant())}
	s := &scan.Scanner{Rules: rules, Source: "input.txt"}
	tokens, err := s.Tokenize(subject)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}

	var unmatched scan.Token
	for _, tok := range tokens {
		if tok.Unmatched() {
			unmatched = tok
			break
		}
	}
	if unmatched.Text != "?" {
		t.Fatalf("expected an unmatched '?', got %q", unmatched.Text)
	}

	var buf bytes.Buffer
	w := &Writer{Out: &buf}
	w.Warnf(subject, unmatched, "unmatched character %q", unmatched.Text)

	want := "input.txt:2:7: warning: unmatched character \"?\"\n" +
		"  three ?? four\n" +
		"        ^\n"
	if buf.String() != want {
		t.Errorf("output mismatch:\ngot:\n%swant:\n%s", buf.String(), want)
	}
}

func TestErrorfColor(t *testing.T) {
	subject := "abc"
	tok := scan.Token{Text: "abc", Pos: 0, Line: 1}

	var buf bytes.Buffer
	w := &Writer{Out: &buf, Color: true}
	w.Errorf(subject, tok, "boom")

	want := "<input>:1:1: \033[31merror:\033[0m boom\n" +
		"  abc\n" +
		"  \033[32m^~~\033[0m\n"
	if buf.String() != want {
		t.Errorf("output mismatch:\ngot:\n%qwant:\n%q", buf.String(), want)
	}
}

func TestLineAt(t *testing.T) {
	subject := "ab\ncdé f\ngh"
	cases := []struct {
		pos      int
		wantLine string
		wantCol  int
	}{
		{0, "ab", 1},
		{1, "ab", 2},
		{3, "cdé f", 1},
		{7, "cdé f", 4}, // é is two bytes, one column
		{10, "gh", 1},
	}
	for _, c := range cases {
		line, col := lineAt(subject, c.pos)
		if line != c.wantLine || col != c.wantCol {
			t.Errorf("lineAt(%d) = %q,%d want %q,%d", c.pos, line, col, c.wantLine, c.wantCol)
		}
	}
}
