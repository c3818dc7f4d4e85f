package scan

import (
	"fmt"
	"strconv"
)

// Match describes where a rule's pattern matched inside a subject string.
// Offsets are byte offsets into the subject.
type Match struct {
	Start int
	End   int
	Text  string
}

func (m *Match) Len() int { return m.End - m.Start }

// Token is one lexical unit of scanner output. Tokens are immutable values;
// a token with a nil Rule is a single-character fallback for input no rule
// matched.
type Token struct {
	Text   string
	Rule   *Rule
	Match  *Match
	Pos    int    // byte offset of the token start
	Line   int    // 1-based line of the token start
	Source string // caller-supplied identifier, "" when absent
}

// Unmatched reports whether this token was produced by the single-character
// fallback rather than a rule match.
func (t Token) Unmatched() bool { return t.Rule == nil }

func (t Token) String() string { return t.Text }

// Describe renders the token with its position and owning rule, for
// diagnostics and debug dumps.
func (t Token) Describe() string {
	prefix := ""
	if t.Source != "" {
		prefix = t.Source + ":"
	}
	rule := "<none>"
	if t.Rule != nil {
		rule = t.Rule.String()
	}
	return fmt.Sprintf("%s%d:%d: %s %s", prefix, t.Line, t.Pos, strconv.Quote(t.Text), rule)
}
