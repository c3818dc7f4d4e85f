// Package scan partitions strings into token sequences using a set of
// regular-expression rules. At every position the longest match wins, ties
// go to the earliest-declared rule, and characters no rule matches degrade
// into single-character fallback tokens instead of errors.
package scan

import (
	"strings"
	"unicode/utf8"
)

// Scanner tokenizes subject strings with a fixed, ordered rule set. Rule
// order matters only for tie-breaking between equal-length matches. The
// zero value of Newline means '\n'; only that exact rune advances the line
// counter.
//
// A Scanner holds no state across calls, so one Scanner (and its rules) may
// be shared by concurrent Tokenize calls.
type Scanner struct {
	Rules   []*Rule
	Source  string
	Newline rune
}

func NewScanner(rules ...*Rule) *Scanner {
	return &Scanner{Rules: rules}
}

// Tokenize runs Scanner.Tokenize with a throwaway scanner, for callers that
// don't need a source identifier or newline override.
func Tokenize(subject string, rules []*Rule) ([]Token, error) {
	return (&Scanner{Rules: rules}).Tokenize(subject)
}

// ruleState is one rule's search session over a single subject. Caching the
// most recent match is what makes scanning cheap: the loop below queries
// positions that only move forward, so a cached match starting at or after
// the query position is still the first match. A search that comes up empty
// is terminal for the rest of the session for the same reason.
type ruleState struct {
	rule      *Rule
	match     *Match
	exhausted bool
}

func (st *ruleState) search(subject string, from int) *Match {
	if st.exhausted {
		return nil
	}
	if st.match != nil && st.match.Start >= from {
		return st.match
	}
	loc := st.rule.re.FindStringIndex(subject[from:])
	if loc == nil {
		st.match = nil
		st.exhausted = true
		return nil
	}
	st.match = &Match{
		Start: from + loc[0],
		End:   from + loc[1],
		Text:  subject[from+loc[0] : from+loc[1]],
	}
	return st.match
}

// Tokenize splits subject into an ordered token sequence. The returned
// tokens tile the subject exactly: every byte is covered by exactly one
// token, counting the insignificant ones that are omitted from the result.
// An empty subject yields an empty sequence. The only error condition is a
// lazily-compiled rule whose pattern turns out to be malformed; tokenization
// then fails outright with no partial result.
func (s *Scanner) Tokenize(subject string) ([]Token, error) {
	states := make([]ruleState, len(s.Rules))
	for i, rule := range s.Rules {
		if _, err := rule.compile(); err != nil {
			return nil, err
		}
		states[i] = ruleState{rule: rule}
	}

	newline := s.Newline
	if newline == 0 {
		newline = '\n'
	}
	newlineStr := string(newline)

	tokens := []Token{}
	pos, line := 0, 1
	for pos < len(subject) {
		// Longest match starting exactly here wins; ties go to the
		// earliest rule. Matches starting later stay cached for a
		// future position. bestLen starts at 0 and only strictly
		// longer matches replace it, so a zero-length match can
		// never win and the fallback below keeps us moving.
		var bestRule *Rule
		var bestMatch *Match
		bestLen := 0
		for i := range states {
			m := states[i].search(subject, pos)
			if m == nil || m.Start != pos {
				continue
			}
			if m.Len() > bestLen {
				bestRule, bestMatch, bestLen = states[i].rule, m, m.Len()
			}
		}

		if bestRule != nil {
			if bestRule.significant {
				tokens = append(tokens, Token{
					Text:   bestMatch.Text,
					Rule:   bestRule,
					Match:  bestMatch,
					Pos:    pos,
					Line:   line,
					Source: s.Source,
				})
			}
			line += strings.Count(bestMatch.Text, newlineStr)
			pos += bestLen
		} else {
			// No rule matched here: emit the character itself as a
			// fallback token. These are always kept, regardless of
			// any rule's significance.
			r, size := utf8.DecodeRuneInString(subject[pos:])
			tokens = append(tokens, Token{
				Text:   subject[pos : pos+size],
				Pos:    pos,
				Line:   line,
				Source: s.Source,
			})
			if r == newline {
				line++
			}
			pos += size
		}
	}
	return tokens, nil
}
