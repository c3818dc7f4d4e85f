package scan

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Options select regexp flags applied when a rule's pattern is compiled.
// They map onto the stdlib regexp inline flags.
type Options uint

const (
	IgnoreCase Options = 1 << iota // (?i)
	Multiline                      // (?m): ^ and $ match at line boundaries
	DotAll                         // (?s): . matches newline
	Ungreedy                       // (?U): swap greedy and lazy quantifiers
)

// DefaultOptions is applied to rules that don't set options explicitly.
const DefaultOptions = IgnoreCase

// OptionInfo names a single option for flag handling and help output.
type OptionInfo struct {
	Name        string
	Description string
}

var OptionInfos = map[Options]OptionInfo{
	IgnoreCase: {"ignore-case", "Match without regard to letter case."},
	Multiline:  {"multiline", "Let ^ and $ match at line boundaries."},
	DotAll:     {"dot-all", "Let . match newline characters."},
	Ungreedy:   {"ungreedy", "Swap the meaning of greedy and lazy quantifiers."},
}

// OptionMap resolves option names back to their flag bits.
var OptionMap = make(map[string]Options)

func init() {
	for opt, info := range OptionInfos {
		OptionMap[info.Name] = opt
	}
}

// flagPrefix renders the options as a regexp inline-flag group, or "" when no
// option is set.
func (o Options) flagPrefix() string {
	var sb strings.Builder
	if o&IgnoreCase != 0 {
		sb.WriteByte('i')
	}
	if o&Multiline != 0 {
		sb.WriteByte('m')
	}
	if o&DotAll != 0 {
		sb.WriteByte('s')
	}
	if o&Ungreedy != 0 {
		sb.WriteByte('U')
	}
	if sb.Len() == 0 {
		return ""
	}
	return "(?" + sb.String() + ")"
}

func (o Options) String() string {
	var names []string
	for _, opt := range []Options{IgnoreCase, Multiline, DotAll, Ungreedy} {
		if o&opt != 0 {
			names = append(names, OptionInfos[opt].Name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// Rule describes one lexical category: a pattern plus metadata telling the
// scanner how to treat its tokens. Rules hold no per-scan state and may be
// shared by concurrent Tokenize calls; the incremental search cache lives in
// the per-call session instead.
type Rule struct {
	pattern     string
	options     Options
	significant bool
	name        string
	lazy        bool

	compileOnce sync.Once
	re          *regexp.Regexp
	compileErr  error
}

// RuleOption configures a Rule at construction.
type RuleOption func(*Rule)

// Named gives the rule a diagnostic label, rendered in place of the raw
// pattern text.
func Named(name string) RuleOption { return func(r *Rule) { r.name = name } }

// Insignificant marks the rule's tokens as discarded from scanner output.
// Whitespace and comments are the usual candidates.
func Insignificant() RuleOption { return func(r *Rule) { r.significant = false } }

// WithOptions replaces the default match options.
func WithOptions(o Options) RuleOption { return func(r *Rule) { r.options = o } }

// Lazy defers pattern compilation to the rule's first use. A malformed
// pattern then surfaces from Tokenize instead of NewRule.
func Lazy() RuleOption { return func(r *Rule) { r.lazy = true } }

// NewRule builds a rule from a regular expression. The pattern is compiled
// immediately unless Lazy is given; a malformed pattern is reported here and
// never retried.
func NewRule(pattern string, opts ...RuleOption) (*Rule, error) {
	r := &Rule{
		pattern:     pattern,
		options:     DefaultOptions,
		significant: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if !r.lazy {
		if _, err := r.compile(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRule is NewRule for grammar literals; it panics on a malformed pattern.
func MustRule(pattern string, opts ...RuleOption) *Rule {
	r, err := NewRule(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Rule) Pattern() string   { return r.pattern }
func (r *Rule) Options() Options  { return r.options }
func (r *Rule) Significant() bool { return r.significant }
func (r *Rule) Name() string      { return r.name }

// compile compiles the pattern exactly once per rule and reuses the result
// for all subsequent searches.
func (r *Rule) compile() (*regexp.Regexp, error) {
	r.compileOnce.Do(func() {
		re, err := regexp.Compile(r.options.flagPrefix() + r.pattern)
		if err != nil {
			r.compileErr = fmt.Errorf("rule %s: %w", r, err)
			return
		}
		r.re = re
	})
	return r.re, r.compileErr
}

func (r *Rule) String() string {
	if r.name != "" {
		return r.name
	}
	return r.pattern
}

// Verbose renders the rule with its significance, mirroring String but for
// debug output.
func (r *Rule) Verbose() string {
	sig := "sig"
	if !r.significant {
		sig = "non"
	}
	if r.name != "" {
		return fmt.Sprintf("%s: %s (%s)", r.name, r.pattern, sig)
	}
	return fmt.Sprintf("%s (%s)", r.pattern, sig)
}
