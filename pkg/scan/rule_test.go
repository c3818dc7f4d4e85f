package scan

import (
	"testing"
)

func TestRuleDisplay(t *testing.T) {
	named := MustRule(`\w+`, Named("word"))
	if got := named.String(); got != "word" {
		t.Errorf("String() = %q, want the rule name", got)
	}
	if got := named.Verbose(); got != `word: \w+ (sig)` {
		t.Errorf("Verbose() = %q", got)
	}

	anon := MustRule(`\s+`, Insignificant())
	if got := anon.String(); got != `\s+` {
		t.Errorf("String() = %q, want the raw pattern", got)
	}
	if got := anon.Verbose(); got != `\s+ (non)` {
		t.Errorf("Verbose() = %q", got)
	}
}

func TestRuleDefaults(t *testing.T) {
	r := MustRule(`\w+`)
	if !r.Significant() {
		t.Error("rules default to significant")
	}
	if r.Options() != IgnoreCase {
		t.Errorf("rules default to case-insensitive, got %v", r.Options())
	}
	if r.Name() != "" {
		t.Errorf("rules default to no name, got %q", r.Name())
	}
}

func TestOptionsFlagPrefix(t *testing.T) {
	cases := []struct {
		options Options
		want    string
	}{
		{0, ""},
		{IgnoreCase, "(?i)"},
		{Multiline | DotAll, "(?ms)"},
		{IgnoreCase | Multiline | DotAll | Ungreedy, "(?imsU)"},
	}
	for _, c := range cases {
		if got := c.options.flagPrefix(); got != c.want {
			t.Errorf("flagPrefix(%v) = %q, want %q", c.options, got, c.want)
		}
	}
}

func TestOptionsString(t *testing.T) {
	if got := (IgnoreCase | DotAll).String(); got != "ignore-case,dot-all" {
		t.Errorf("String() = %q", got)
	}
	if got := Options(0).String(); got != "none" {
		t.Errorf("String() = %q", got)
	}
}

func TestOptionMap(t *testing.T) {
	for opt, info := range OptionInfos {
		if OptionMap[info.Name] != opt {
			t.Errorf("OptionMap[%q] does not round-trip", info.Name)
		}
	}
}

func TestMustRulePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRule should panic on a malformed pattern")
		}
	}()
	MustRule(`(unclosed`)
}
