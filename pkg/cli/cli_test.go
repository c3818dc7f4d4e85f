package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFlagSetParse(t *testing.T) {
	fs := NewFlagSet("test")
	var (
		path    string
		verbose bool
	)
	fs.String(&path, "grammar", "g", "", "grammar file", "file")
	fs.Bool(&verbose, "verbose", "v", false, "verbose output")

	if err := fs.Parse([]string{"--grammar", "g.lex", "-v", "a.txt", "--", "-b.txt"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if path != "g.lex" || !verbose {
		t.Errorf("flags not applied: grammar=%q verbose=%v", path, verbose)
	}
	if diff := cmp.Diff([]string{"a.txt", "-b.txt"}, fs.Args()); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestFlagSetParseShorthandValue(t *testing.T) {
	fs := NewFlagSet("test")
	var path string
	fs.String(&path, "grammar", "g", "", "grammar file", "file")

	if err := fs.Parse([]string{"-gg.lex"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if path != "g.lex" {
		t.Errorf("shorthand with attached value: grammar=%q", path)
	}

	if err := fs.Parse([]string{"--grammar=other.lex"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if path != "other.lex" {
		t.Errorf("long flag with = value: grammar=%q", path)
	}
}

func TestFlagSetGroupToggles(t *testing.T) {
	fs := NewFlagSet("test")
	enabled, disabled := true, false
	fs.AddGroup("Match Options", "M", "", []GroupEntry{
		{Name: "ignore-case", Usage: "", Enabled: &enabled, Disabled: &disabled},
	})

	if err := fs.Parse([]string{"-Mno-ignore-case"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !disabled {
		t.Error("-Mno-ignore-case should set the disable toggle")
	}
}

func TestFlagSetParseErrors(t *testing.T) {
	fs := NewFlagSet("test")
	var path string
	fs.String(&path, "grammar", "g", "", "grammar file", "file")

	if err := fs.Parse([]string{"--nope"}); err == nil {
		t.Error("expected an error for an unknown long flag")
	}
	if err := fs.Parse([]string{"--grammar"}); err == nil {
		t.Error("expected an error for a missing flag argument")
	}
}
