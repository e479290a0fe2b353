package help

import (
	"fmt"
	"strings"
	"time"
)

const manual = "Time-Spectrum Manual"

// FormatRoff renders a subcommand as a man page in section 1.
// An empty date means today; gen-man passes a fixed one for reproducible pages.
func FormatRoff(c Command, date string) string {
	var b strings.Builder

	writeTitle(&b, c.ManName(), date)
	section(&b, "NAME")
	fmt.Fprintf(&b, "%s \\- %s\n", c.ManName(), escapeRoff(c.Synopsis))

	section(&b, "SYNOPSIS")
	b.WriteString(".B " + escapeRoff(c.Usage) + "\n")

	if c.Description != "" {
		section(&b, "DESCRIPTION")
		writeRoffParagraphs(&b, c.Description)
	}

	if len(c.Args) > 0 || len(c.Flags) > 0 {
		section(&b, "OPTIONS")
		for _, a := range c.Args {
			taggedParagraph(&b, a.Name, a.Desc)
		}
		for _, f := range c.Flags {
			taggedParagraph(&b, f.Name, f.Desc)
		}
	}

	if len(c.Examples) > 0 {
		section(&b, "EXAMPLES")
		b.WriteString(".nf\n")
		for _, e := range c.Examples {
			b.WriteString(escapeRoff(e) + "\n")
		}
		b.WriteString(".fi\n")
	}

	writeTail(&b, c, c.SeeAlso)
	return b.String()
}

// FormatRoffTopLevel renders tspec.1, listing every subcommand under COMMANDS.
func FormatRoffTopLevel(top Command, subs []Command, date string) string {
	var b strings.Builder

	writeTitle(&b, "tspec", date)
	section(&b, "NAME")
	fmt.Fprintf(&b, "tspec \\- %s\n", escapeRoff(top.Synopsis))

	section(&b, "SYNOPSIS")
	b.WriteString(".B tspec\n.I command\n.RI [ options ]\n")

	section(&b, "DESCRIPTION")
	b.WriteString(".B tspec\n")
	b.WriteString("(time-spectrum) turns a classifier's categorized log of the day into a\n")
	b.WriteString("report: where the time went, how focused it was, how energy and load\n")
	b.WriteString("lined up, and how today compares with the past week.\n")

	section(&b, "COMMANDS")
	for _, s := range subs {
		fmt.Fprintf(&b, ".TP\n.B \"%s\"\n%s\n", escapeRoff(s.tableUsage()), escapeRoff(s.Brief))
	}

	section(&b, "CONFIGURATION")
	b.WriteString("Configuration file: ~/.config/time-spectrum/config.toml\n")
	b.WriteString(".br\n")
	b.WriteString("Paths under " + escapeRoff("<data_dir>") + " follow the data_dir setting.\n")

	refs := make([]string, len(subs))
	for i, s := range subs {
		refs[i] = s.ManName() + "(1)"
	}
	writeTail(&b, top, refs)
	return b.String()
}

func writeTitle(b *strings.Builder, name, date string) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	fmt.Fprintf(b, ".TH %s 1 %q %q %q\n", strings.ToUpper(name), date, "tspec "+Version, manual)
}

// writeTail writes the trailing FILES, EXIT STATUS and SEE ALSO sections.
func writeTail(b *strings.Builder, c Command, seeAlso []string) {
	if len(c.Files) > 0 {
		section(b, "FILES")
		for _, f := range c.Files {
			fmt.Fprintf(b, ".TP\n.I %s\n%s\n", escapeRoff(f.Path), escapeRoff(f.Desc))
		}
	}

	if c.ExitStatus != "" {
		section(b, "EXIT STATUS")
		writeRoffParagraphs(b, c.ExitStatus)
	}

	if len(seeAlso) > 0 {
		section(b, "SEE ALSO")
		refs := make([]string, len(seeAlso))
		for i, ref := range seeAlso {
			refs[i] = formatManRef(ref)
		}
		b.WriteString(strings.Join(refs, ",\n") + "\n")
	}
}

func section(b *strings.Builder, name string) {
	b.WriteString(".SH " + name + "\n")
}

func taggedParagraph(b *strings.Builder, tag, body string) {
	fmt.Fprintf(b, ".TP\n.B %s\n%s\n", escapeRoff(tag), escapeRoff(body))
}

// escapeRoff escapes backslashes, line-leading dots and hyphens.
func escapeRoff(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n.", "\n\\&.")
	if strings.HasPrefix(s, ".") {
		s = "\\&" + s
	}
	return strings.ReplaceAll(s, "-", "\\-")
}

// writeRoffParagraphs writes text line by line; each run of blank lines becomes one .PP.
func writeRoffParagraphs(b *strings.Builder, text string) {
	prevBlank := false
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if !prevBlank {
				b.WriteString(".PP\n")
			}
			prevBlank = true
			continue
		}
		prevBlank = false
		b.WriteString(escapeRoff(line) + "\n")
	}
}

// formatManRef turns "tspec-show(1)" into ".BR tspec\-show (1)".
func formatManRef(ref string) string {
	name, sec, ok := strings.Cut(ref, "(")
	if !ok {
		return ".B " + escapeRoff(ref)
	}
	return fmt.Sprintf(".BR %s (%s", escapeRoff(name), sec)
}
