// Package cli implements the flag handling and help rendering for the
// lexscan tool: long --flags with single-letter shorthands, grouped toggle
// flags like -Mignore-case / -Mno-ignore-case, and help pages wrapped to the
// terminal width.
package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/term"
)

type Value interface {
	String() string
	Set(string) error
}

type stringValue struct{ p *string }

func (v *stringValue) Set(s string) error { *v.p = s; return nil }
func (v *stringValue) String() string     { return *v.p }

type boolValue struct{ p *bool }

func (v *boolValue) Set(s string) error {
	val, err := strconv.ParseBool(s)
	if err != nil && s != "" {
		return fmt.Errorf("invalid boolean value '%s': %w", s, err)
	}
	*v.p = val || s == ""
	return nil
}
func (v *boolValue) String() string { return strconv.FormatBool(*v.p) }

type Flag struct {
	Name         string
	Shorthand    string
	Usage        string
	Value        Value
	DefValue     string
	ExpectedType string
}

// GroupEntry is one named toggle within a flag group. The group's prefix
// combines with the entry name: -<prefix><name> enables, -<prefix>no-<name>
// disables.
type GroupEntry struct {
	Name     string
	Usage    string
	Enabled  *bool
	Disabled *bool
}

type FlagGroup struct {
	Name        string
	Prefix      string
	Description string
	Entries     []GroupEntry
}

type FlagSet struct {
	name       string
	flags      map[string]*Flag
	shorthands map[string]*Flag
	groups     []FlagGroup
	args       []string
}

func NewFlagSet(name string) *FlagSet {
	return &FlagSet{
		name:       name,
		flags:      make(map[string]*Flag),
		shorthands: make(map[string]*Flag),
	}
}

func (f *FlagSet) Args() []string { return f.args }

func (f *FlagSet) String(p *string, name, shorthand, value, usage, expectedType string) {
	*p = value
	f.Var(&stringValue{p}, name, shorthand, usage, value, expectedType)
}

func (f *FlagSet) Bool(p *bool, name, shorthand string, value bool, usage string) {
	*p = value
	f.Var(&boolValue{p}, name, shorthand, usage, strconv.FormatBool(value), "")
}

func (f *FlagSet) Var(value Value, name, shorthand, usage, defValue, expectedType string) {
	if name == "" {
		panic("flag name cannot be empty")
	}
	if _, ok := f.flags[name]; ok {
		panic(fmt.Sprintf("flag redefined: %s", name))
	}
	flag := &Flag{Name: name, Shorthand: shorthand, Usage: usage, Value: value, DefValue: defValue, ExpectedType: expectedType}
	f.flags[name] = flag
	if shorthand != "" {
		if _, ok := f.shorthands[shorthand]; ok {
			panic(fmt.Sprintf("shorthand flag redefined: %s", shorthand))
		}
		f.shorthands[shorthand] = flag
	}
}

// AddGroup registers a group of -<prefix><name> / -<prefix>no-<name> toggle
// flags that render as their own help section.
func (f *FlagSet) AddGroup(name, prefix, description string, entries []GroupEntry) {
	for i := range entries {
		if entries[i].Enabled != nil {
			f.Bool(entries[i].Enabled, prefix+entries[i].Name, "", *entries[i].Enabled, entries[i].Usage)
		}
		if entries[i].Disabled != nil {
			f.Bool(entries[i].Disabled, prefix+"no-"+entries[i].Name, "", *entries[i].Disabled,
				"Disable '"+entries[i].Name+"'")
		}
	}
	f.groups = append(f.groups, FlagGroup{Name: name, Prefix: prefix, Description: description, Entries: entries})
}

func (f *FlagSet) Parse(arguments []string) error {
	f.args = []string{}
	for i := 0; i < len(arguments); i++ {
		arg := arguments[i]
		if len(arg) < 2 || arg[0] != '-' {
			f.args = append(f.args, arg)
			continue
		}
		if arg == "--" {
			f.args = append(f.args, arguments[i+1:]...)
			break
		}
		var err error
		if strings.HasPrefix(arg, "--") {
			err = f.parseLong(arg[2:], arguments, &i)
		} else {
			err = f.parseShort(arg[1:], arguments, &i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (f *FlagSet) parseLong(arg string, arguments []string, i *int) error {
	name, value, hasValue := strings.Cut(arg, "=")
	if name == "" {
		return fmt.Errorf("empty flag name")
	}
	flag, ok := f.flags[name]
	if !ok {
		return fmt.Errorf("unknown flag: --%s", name)
	}
	if hasValue {
		return flag.Value.Set(value)
	}
	if _, isBool := flag.Value.(*boolValue); isBool {
		return flag.Value.Set("")
	}
	if *i+1 >= len(arguments) {
		return fmt.Errorf("flag needs an argument: --%s", name)
	}
	*i++
	return flag.Value.Set(arguments[*i])
}

func (f *FlagSet) parseShort(arg string, arguments []string, i *int) error {
	// Group toggles look like shorthands with the entry name attached,
	// e.g. -Mignore-case. They are registered as full flags.
	if flag, ok := f.flags[arg]; ok {
		if _, isBool := flag.Value.(*boolValue); isBool {
			return flag.Value.Set("")
		}
	}

	shorthand := arg[:1]
	flag, ok := f.shorthands[shorthand]
	if !ok {
		return fmt.Errorf("unknown flag: -%s", arg)
	}
	if _, isBool := flag.Value.(*boolValue); isBool {
		if len(arg) > 1 {
			return fmt.Errorf("flag -%s does not take a value", shorthand)
		}
		return flag.Value.Set("")
	}
	value := arg[1:]
	if value == "" {
		if *i+1 >= len(arguments) {
			return fmt.Errorf("flag needs an argument: -%s", shorthand)
		}
		*i++
		value = arguments[*i]
	}
	return flag.Value.Set(value)
}

type App struct {
	Name        string
	Synopsis    string
	Description string
	Repository  string
	FlagSet     *FlagSet
	Action      func(args []string) error
}

func NewApp(name string) *App {
	return &App{Name: name, FlagSet: NewFlagSet(name)}
}

func (a *App) Run(arguments []string) error {
	help := false
	a.FlagSet.Bool(&help, "help", "h", false, "Display this information")

	if err := a.FlagSet.Parse(arguments); err != nil {
		fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", a.Name)
		return err
	}
	if help {
		a.printHelp(os.Stdout)
		return nil
	}
	if a.Action != nil {
		return a.Action(a.FlagSet.Args())
	}
	return nil
}

func (a *App) printHelp(w *os.File) {
	var sb strings.Builder
	width := terminalWidth()

	fmt.Fprintf(&sb, "Usage: %s %s\n", a.Name, a.Synopsis)
	if a.Description != "" {
		sb.WriteString("\n")
		for _, line := range wrapText(a.Description, width-2) {
			fmt.Fprintf(&sb, "  %s\n", line)
		}
	}

	flags := a.optionFlags()
	left := make([]string, len(flags))
	leftWidth := 0
	for i, flag := range flags {
		left[i] = formatFlag(flag)
		if len(left[i]) > leftWidth {
			leftWidth = len(left[i])
		}
	}
	for _, group := range a.FlagSet.groups {
		for _, entry := range group.Entries {
			if len(entry.Name) > leftWidth {
				leftWidth = len(entry.Name)
			}
		}
	}

	if len(flags) > 0 {
		sb.WriteString("\nOptions\n")
		for i, flag := range flags {
			writeEntry(&sb, left[i], flag.Usage, leftWidth, width)
		}
	}

	for _, group := range a.FlagSet.groups {
		fmt.Fprintf(&sb, "\n%s\n", group.Name)
		if group.Description != "" {
			for _, line := range wrapText(group.Description, width-2) {
				fmt.Fprintf(&sb, "  %s\n", line)
			}
		}
		writeEntry(&sb, "-"+group.Prefix+"<name>", "Enable a specific toggle", leftWidth, width)
		writeEntry(&sb, "-"+group.Prefix+"no-<name>", "Disable a specific toggle", leftWidth, width)
		for _, entry := range group.Entries {
			mark := "|-|"
			if entry.Enabled != nil && *entry.Enabled {
				mark = "|x|"
			}
			writeEntry(&sb, entry.Name, entry.Usage+"  "+mark, leftWidth, width)
		}
	}

	if a.Repository != "" {
		fmt.Fprintf(&sb, "\nFor more details refer to %s\n", a.Repository)
	}
	fmt.Fprint(w, sb.String())
}

func (a *App) optionFlags() []*Flag {
	grouped := make(map[string]bool)
	for _, group := range a.FlagSet.groups {
		for _, entry := range group.Entries {
			grouped[group.Prefix+entry.Name] = true
			grouped[group.Prefix+"no-"+entry.Name] = true
		}
	}
	var flags []*Flag
	for _, flag := range a.FlagSet.flags {
		if !grouped[flag.Name] {
			flags = append(flags, flag)
		}
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })
	return flags
}

func formatFlag(flag *Flag) string {
	_, isBool := flag.Value.(*boolValue)
	var sb strings.Builder
	if flag.Shorthand != "" {
		fmt.Fprintf(&sb, "-%s, ", flag.Shorthand)
	}
	fmt.Fprintf(&sb, "--%s", flag.Name)
	if !isBool && flag.ExpectedType != "" {
		fmt.Fprintf(&sb, " <%s>", flag.ExpectedType)
	}
	return sb.String()
}

func writeEntry(sb *strings.Builder, left, usage string, leftWidth, termWidth int) {
	avail := termWidth - leftWidth - 5
	if avail < 10 {
		avail = 10
	}
	lines := wrapText(usage, avail)
	if len(lines) == 0 {
		lines = []string{""}
	}
	fmt.Fprintf(sb, "  %-*s %s\n", leftWidth, left, lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(sb, "  %s %s\n", strings.Repeat(" ", leftWidth), line)
	}
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 20 {
		return 80
	}
	return width
}

func wrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}
	words := strings.Fields(text)
	var lines []string
	var current strings.Builder
	for _, word := range words {
		if current.Len() > 0 && current.Len()+len(word)+1 > maxWidth {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
