package help

import (
	"fmt"
	"strings"
)

// FormatTerminal renders a subcommand's help text for terminal --help output.
func FormatTerminal(c Command) string {
	var sections []string

	sections = append(sections, fmt.Sprintf("tspec %s — %s", c.Name, c.Synopsis))
	sections = append(sections, fmt.Sprintf("Usage: %s", c.Usage))

	// Args and flags share one description column.
	maxNameLen := 0
	for _, a := range c.Args {
		if len(a.Name) > maxNameLen {
			maxNameLen = len(a.Name)
		}
	}
	for _, f := range c.Flags {
		if len(f.Name) > maxNameLen {
			maxNameLen = len(f.Name)
		}
	}
	col := 2 + maxNameLen + 3

	if len(c.Args) > 0 {
		var lines []string
		for _, a := range c.Args {
			gap := col - 2 - len(a.Name)
			lines = append(lines, fmt.Sprintf("  %s%s%s", a.Name, strings.Repeat(" ", gap), a.Desc))
		}
		sections = append(sections, "Arguments:\n"+strings.Join(lines, "\n"))
	}

	if len(c.Flags) > 0 {
		var lines []string
		for _, f := range c.Flags {
			gap := col - 2 - len(f.Name)
			lines = append(lines, fmt.Sprintf("  %s%s%s", f.Name, strings.Repeat(" ", gap), f.Desc))
		}
		sections = append(sections, "Flags:\n"+strings.Join(lines, "\n"))
	}

	if c.Description != "" {
		sections = append(sections, c.Description)
	}

	if len(c.Examples) > 0 {
		lines := make([]string, len(c.Examples))
		for i, e := range c.Examples {
			lines[i] = "  " + e
		}
		sections = append(sections, "Examples:\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n") + "\n"
}

// FormatUsage renders the top-level usage text (for tspec --help / tspec help).
func FormatUsage(top Command, subs []Command) string {
	var b strings.Builder

	fmt.Fprintf(&b, "tspec v%s — %s\n", Version, top.Synopsis)
	b.WriteString("\nUsage:\n")

	type entry struct {
		usage string
		brief string
	}
	entries := make([]entry, 0, len(subs)+1)
	for _, s := range subs {
		entries = append(entries, entry{s.tableUsage(), s.Brief})
	}
	entries = append(entries, entry{"tspec help [command]", "Show this help"})

	maxWidth := 0
	for _, e := range entries {
		if len(e.usage) > maxWidth {
			maxWidth = len(e.usage)
		}
	}

	for _, e := range entries {
		gap := maxWidth - len(e.usage) + 3
		fmt.Fprintf(&b, "  %s%s%s\n", e.usage, strings.Repeat(" ", gap), e.brief)
	}

	b.WriteString(`
Configuration: ~/.config/time-spectrum/config.toml
`)
	return b.String()
}
