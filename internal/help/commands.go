package help

import "strings"

// Version is the tspec release version, set at build time via -ldflags.
var Version = "0.1.0"

// Flag describes a command-line flag.
type Flag struct {
	Name string // e.g. "--json" or "--date <YYYY-MM-DD>"
	Desc string
}

// Arg describes a positional argument.
type Arg struct {
	Name     string
	Desc     string
	Optional bool
}

// File describes a path tspec reads or writes, listed in FILES sections.
type File struct {
	Path string
	Desc string
}

var (
	FileConfig  = File{"~/.config/time-spectrum/config.toml", "Configuration file"}
	FileHistory = File{"<data_dir>/history.db", "SQLite history of computed days (last 7 kept)"}
	FileArchive = File{"<data_dir>/archive/<date>.json.zst", "Raw classifier output, zstd compressed"}
	FileInbox   = File{"~/.local/share/time-spectrum/inbox/", "Directory watched for new classifier output"}
	FileDone    = File{"<inbox>/done/", "Inbox files that were processed"}
)

// Command describes a tspec subcommand (or the top-level binary when Name is "").
type Command struct {
	Name        string   // "compute", "watch", etc; "" for top-level
	Synopsis    string   // one-line description (lowercase, for --help header)
	Brief       string   // short description for usage table (capitalized)
	Usage       string   // full usage line
	TableUsage  string   // shortened usage for the top-level table (if different from Usage)
	Args        []Arg
	Flags       []Flag
	Description string   // multi-line prose (stored verbatim)
	Examples    []string // one per line, without leading 2-space indent
	SeeAlso     []string // man page cross-refs, e.g. "tspec(1)"
	Files       []File
	ExitStatus  string // man page EXIT STATUS text; empty omits the section
}

func (c Command) tableUsage() string {
	if c.TableUsage != "" {
		return c.TableUsage
	}
	return c.Usage
}

// ManName returns the man page name: "tspec" for top-level, "tspec-<name>" for subs.
func (c Command) ManName() string {
	if c.Name == "" {
		return "tspec"
	}
	return "tspec-" + strings.ReplaceAll(c.Name, " ", "-")
}

// TopLevel is the top-level tspec command.
var TopLevel = Command{
	Name:       "",
	Synopsis:   "time-spectrum daily analytics",
	Files:      []File{FileConfig, FileHistory, FileArchive, FileInbox, FileDone},
	ExitStatus: `0 on success. 1 when a command fails, when arguments are invalid, or
when tspec check reports a failure.`,
}

var CmdCompute = Command{
	Name:       "compute",
	Synopsis:   "compute a day's report from classifier output",
	Brief:      "Compute a day from classifier output",
	Usage:      "tspec compute [--date <YYYY-MM-DD>] [--mood <note>]... [--json] [--no-save] <file.json|->",
	TableUsage: "tspec compute [flags] <file.json|->",
	Args: []Arg{
		{Name: "file.json", Desc: "Classifier output, or - to read stdin"},
	},
	Flags: []Flag{
		{Name: "--date <YYYY-MM-DD>", Desc: "Day being computed (default: today)"},
		{Name: "--mood <note>", Desc: `Mood note "HH:MM text", repeatable`},
		{Name: "--json", Desc: "Print the computed result as JSON"},
		{Name: "--no-save", Desc: "Do not store or archive the result"},
	},
	Description: `Normalizes the classifier's output, aggregates the day's time spectrum,
light quality, energy curve and gravity mismatch, and compares the day
against up to seven prior stored days for trend signals.

Output that cannot be parsed at all is treated as an empty day and a
warning is logged. Unless --no-save is given, the result is stored in
the history database and the raw input is archived with zstd.`,
	Examples: []string{
		"tspec compute day.json",
		"tspec compute --date 2025-03-01 --mood \"09:30 有点累\" day.json",
		"classifier | tspec compute --json -",
	},
	SeeAlso: []string{"tspec(1)", "tspec-replay(1)", "tspec-show(1)"},
	Files:   []File{FileHistory, FileArchive},
}

var CmdReplay = Command{
	Name:     "replay",
	Synopsis: "recompute a day from its archived classifier output",
	Brief:    "Recompute a day from the archive",
	Usage:    "tspec replay [--json] [--no-save] <date>",
	Args: []Arg{
		{Name: "date", Desc: "Archived day, YYYY-MM-DD"},
	},
	Flags: []Flag{
		{Name: "--json", Desc: "Print the computed result as JSON"},
		{Name: "--no-save", Desc: "Do not replace the stored result"},
	},
	Description: `Decompresses the archived input for date and runs it through the
current engine, using the days stored before it as trend history.
Mood notes from the stored result are carried over.`,
	SeeAlso: []string{"tspec(1)", "tspec-compute(1)"},
	Files:   []File{FileArchive, FileHistory},
}

var CmdShow = Command{
	Name:     "show",
	Synopsis: "print a stored day",
	Brief:    "Print a stored day",
	Usage:    "tspec show [--json] <date>",
	Args: []Arg{
		{Name: "date", Desc: "Stored day, YYYY-MM-DD"},
	},
	Flags: []Flag{
		{Name: "--json", Desc: "Print the stored result as JSON"},
	},
	SeeAlso: []string{"tspec(1)", "tspec-history(1)"},
	Files:   []File{FileHistory},
}

var CmdHistory = Command{
	Name:     "history",
	Synopsis: "list stored days",
	Brief:    "List stored days, newest first",
	Usage:    "tspec history [--limit <n>]",
	Flags: []Flag{
		{Name: "--limit <n>", Desc: "Number of days to list, 0 for all (default: 7)"},
	},
	Description: `Prints one line per stored day with total tracked time, deep focus
time and todo completion. Days whose raw input is archived are marked.`,
	SeeAlso: []string{"tspec(1)", "tspec-show(1)"},
	Files:   []File{FileHistory, FileArchive},
}

var CmdWatch = Command{
	Name:     "watch",
	Synopsis: "compute every classifier output dropped into the inbox",
	Brief:    "Watch the inbox for classifier output",
	Usage:    "tspec watch [--inbox <dir>] [--backlog]",
	Flags: []Flag{
		{Name: "--inbox <dir>", Desc: "Directory to watch (default: [watch] inbox)"},
		{Name: "--backlog", Desc: "Process files already in the inbox first"},
	},
	Description: `Watches the inbox for *.json files. Once a file has been quiet for
the configured debounce interval it is computed and saved like
tspec compute, then moved to the inbox's done/ directory.

A YYYY-MM-DD prefix on the file name sets the day; otherwise today
is used. Stops on SIGINT or SIGTERM.`,
	Examples: []string{
		"tspec watch",
		"tspec watch --inbox ~/Dropbox/tspec --backlog",
	},
	SeeAlso: []string{"tspec(1)", "tspec-compute(1)"},
	Files:   []File{FileInbox, FileDone, FileHistory, FileArchive},
}

var CmdCheck = Command{
	Name:     "check",
	Synopsis: "validate config and data health",
	Brief:    "Check config and data health",
	Usage:    "tspec check",
	Description: `Reports on the config file, data directory, history database, archive,
inbox and configured trend metrics. Exits 1 if any check fails.`,
	SeeAlso:    []string{"tspec(1)", "tspec-init(1)"},
	Files:      []File{FileConfig, FileHistory, FileArchive, FileInbox},
	ExitStatus: "0 when every check passes or warns, 1 when any check fails.",
}

var CmdInit = Command{
	Name:     "init",
	Synopsis: "write a default config file",
	Brief:    "Write a default config",
	Usage:    "tspec init [--data-dir <dir>]",
	Flags: []Flag{
		{Name: "--data-dir <dir>", Desc: "Where history and archives are kept"},
	},
	Description: `Writes ~/.config/time-spectrum/config.toml (or under $XDG_CONFIG_HOME)
with default settings. An existing config file is left untouched.`,
	SeeAlso: []string{"tspec(1)", "tspec-check(1)"},
	Files:   []File{FileConfig},
}

var CmdVersion = Command{
	Name:     "version",
	Synopsis: "print version",
	Brief:    "Print version",
	Usage:    "tspec version",
	SeeAlso:  []string{"tspec(1)"},
}

// Subcommands is the ordered list of all subcommands.
var Subcommands = []Command{
	CmdCompute,
	CmdReplay,
	CmdShow,
	CmdHistory,
	CmdWatch,
	CmdCheck,
	CmdInit,
	CmdVersion,
}

// Lookup returns the subcommand named name.
func Lookup(name string) (Command, bool) {
	for _, c := range Subcommands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
