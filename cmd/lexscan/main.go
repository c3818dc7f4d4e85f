package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/pineapplemachine/lexscan/pkg/cli"
	"github.com/pineapplemachine/lexscan/pkg/diag"
	"github.com/pineapplemachine/lexscan/pkg/grammar"
	"github.com/pineapplemachine/lexscan/pkg/scan"
)

type tokenJSON struct {
	Text   string `json:"text"`
	Rule   string `json:"rule,omitempty"`
	Pos    int    `json:"pos"`
	Line   int    `json:"line"`
	Source string `json:"source,omitempty"`
}

func main() {
	app := cli.NewApp("lexscan")
	app.Synopsis = "[options] --grammar <file> [input ...]"
	app.Description = "Tokenize input files with a grammar of named regular expressions. " +
		"The longest match at each position wins; characters no rule matches " +
		"become single-character tokens and are reported as warnings."
	app.Repository = "https://github.com/pineapplemachine/lexscan"

	var (
		grammarPath   string
		sourceName    string
		newlineStr    string
		asJSON        bool
		verbose       bool
		failUnmatched bool
	)

	fs := app.FlagSet
	fs.String(&grammarPath, "grammar", "g", "", "Read the token grammar from <file>.", "file")
	fs.String(&sourceName, "source", "s", "", "Attach <id> to tokens instead of the input path.", "id")
	fs.String(&newlineStr, "newline", "", "\n", "Character that advances the line counter.", "char")
	fs.Bool(&asJSON, "json", "j", false, "Print tokens as a JSON array.")
	fs.Bool(&verbose, "verbose", "v", false, "Print the grammar rules before tokenizing.")
	fs.Bool(&failUnmatched, "fail-unmatched", "", false, "Exit with an error if any character was unmatched.")

	// Match options applied to every grammar rule.
	matchOptions := []scan.Options{scan.IgnoreCase, scan.Multiline, scan.DotAll, scan.Ungreedy}
	entries := make([]cli.GroupEntry, len(matchOptions))
	for i, opt := range matchOptions {
		info := scan.OptionInfos[opt]
		enabled := scan.DefaultOptions&opt != 0
		disabled := false
		entries[i] = cli.GroupEntry{
			Name:     info.Name,
			Usage:    info.Description,
			Enabled:  &enabled,
			Disabled: &disabled,
		}
	}
	fs.AddGroup("Match Options", "M", "Regexp flags applied to every rule in the grammar.", entries)

	app.Action = func(inputs []string) error {
		if grammarPath == "" {
			return fmt.Errorf("no grammar specified, use --grammar <file>")
		}
		newline, _ := utf8.DecodeRuneInString(newlineStr)
		if newline == utf8.RuneError {
			return fmt.Errorf("invalid --newline value %q", newlineStr)
		}

		options := scan.Options(0)
		for i, opt := range matchOptions {
			if *entries[i].Enabled && !*entries[i].Disabled {
				options |= opt
			}
		}

		grammarText, err := os.ReadFile(grammarPath)
		if err != nil {
			return fmt.Errorf("could not read grammar: %w", err)
		}
		rules, err := grammar.Load(string(grammarText), options)
		if err != nil {
			return err
		}
		if verbose {
			for _, rule := range rules {
				fmt.Fprintln(os.Stderr, rule.Verbose())
			}
		}

		warnings := diag.NewWriter(os.Stderr)
		unmatched := 0
		for _, input := range inputs {
			content, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("could not read '%s': %w", input, err)
			}
			unmatched += tokenizeAndPrint(string(content), input, sourceName, newline, rules, asJSON, warnings)
		}
		if len(inputs) == 0 {
			content, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("could not read stdin: %w", err)
			}
			unmatched += tokenizeAndPrint(string(content), "<stdin>", sourceName, newline, rules, asJSON, warnings)
		}

		if failUnmatched && unmatched > 0 {
			return fmt.Errorf("%d unmatched character(s)", unmatched)
		}
		return nil
	}

	if err := app.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "lexscan: error: %v\n", err)
		os.Exit(1)
	}
}

func tokenizeAndPrint(subject, path, sourceName string, newline rune, rules []*scan.Rule, asJSON bool, warnings *diag.Writer) int {
	source := sourceName
	if source == "" {
		source = path
	}
	s := &scan.Scanner{Rules: rules, Source: source, Newline: newline}
	tokens, err := s.Tokenize(subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lexscan: error: %v\n", err)
		os.Exit(1)
	}

	unmatched := 0
	for _, tok := range tokens {
		if tok.Unmatched() {
			unmatched++
			warnings.Warnf(subject, tok, "unmatched character %q", tok.Text)
		}
	}

	if asJSON {
		out := make([]tokenJSON, len(tokens))
		for i, tok := range tokens {
			out[i] = tokenJSON{Text: tok.Text, Pos: tok.Pos, Line: tok.Line, Source: tok.Source}
			if tok.Rule != nil {
				out[i].Rule = tok.Rule.String()
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "lexscan: error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return unmatched
	}

	for _, tok := range tokens {
		fmt.Println(tok.Describe())
	}
	return unmatched
}
