// Package grammar compiles a readable list of named patterns into a scan
// rule set.
//
// Each line declares one rule:
//
//	# tokens for a tiny expression language
//	Ident  = [a-z_]\w*
//	Number = \d+
//	ws     = \s+
//
// Order is priority: earlier rules win length ties. Rules whose name starts
// with a lower-case letter are insignificant and their tokens are discarded
// from scanner output.
package grammar

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/pineapplemachine/lexscan/pkg/scan"
)

// Parse compiles grammar text into an ordered rule set. Every rule gets the
// given match options and is compiled eagerly, so a malformed pattern fails
// here with its grammar line number.
func Parse(text string, options scan.Options) ([]*scan.Rule, error) {
	var rules []*scan.Rule
	for lineNum, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, pattern, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("grammar line %d: rule should be in the form <Name> = <pattern>, not %q",
				lineNum+1, line)
		}
		name = strings.TrimSpace(name)
		pattern = strings.TrimSpace(pattern)
		if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
			return nil, fmt.Errorf("grammar line %d: invalid rule name %q", lineNum+1, name)
		}
		if pattern == "" {
			return nil, fmt.Errorf("grammar line %d: rule %s has an empty pattern", lineNum+1, name)
		}

		opts := []scan.RuleOption{scan.Named(name), scan.WithOptions(options)}
		first, _ := utf8.DecodeRuneInString(name)
		if unicode.IsLower(first) {
			opts = append(opts, scan.Insignificant())
		}
		rule, err := scan.NewRule(pattern, opts...)
		if err != nil {
			return nil, fmt.Errorf("grammar line %d: %w", lineNum+1, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

var (
	cacheMu sync.Mutex
	cache   = make(map[uint64][]*scan.Rule)
)

// Load is Parse memoized on the grammar text, amortizing pattern compilation
// when the same grammar is loaded repeatedly. The returned slice is shared
// between callers; rules hold no scan state, so sharing is safe, but callers
// must not reorder or replace its elements.
func Load(text string, options scan.Options) ([]*scan.Rule, error) {
	digest := xxhash.New()
	digest.WriteString(text)
	digest.Write([]byte{byte(options)})
	key := digest.Sum64()

	cacheMu.Lock()
	rules, ok := cache[key]
	cacheMu.Unlock()
	if ok {
		return rules, nil
	}

	// Parse errors are not cached; a broken grammar stays loud.
	rules, err := Parse(text, options)
	if err != nil {
		return nil, err
	}
	cacheMu.Lock()
	cache[key] = rules
	cacheMu.Unlock()
	return rules, nil
}
