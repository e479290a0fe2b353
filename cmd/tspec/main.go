package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/johns/time-spectrum/internal/check"
	"github.com/johns/time-spectrum/internal/config"
	"github.com/johns/time-spectrum/internal/help"
	"github.com/johns/time-spectrum/internal/logging"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "version":
		fmt.Printf("tspec v%s (time-spectrum)\n", help.Version)
		return
	case "help", "--help", "-h":
		if len(args) > 0 {
			if c, ok := help.Lookup(args[0]); ok {
				fmt.Print(help.FormatTerminal(c))
				return
			}
		}
		usage()
		return
	case "init":
		runInit(args)
		return
	}

	if _, ok := help.Lookup(cmd); !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("load config: %v", err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fatal("%v", err)
	}

	if err := run(cmd, cfg, log, args); err != nil {
		log.Sync()
		fatal("%v", err)
	}
	log.Sync()
}

// run dispatches a command that needs config and a logger. Commands return
// errors instead of exiting so their deferred cleanup runs.
func run(cmd string, cfg config.Config, log *zap.Logger, args []string) error {
	switch cmd {
	case "compute":
		return runCompute(cfg, log, args)
	case "replay":
		return runReplay(cfg, log, args)
	case "show":
		return runShow(cfg, args)
	case "history":
		return runHistory(cfg, args)
	case "watch":
		return runWatch(cfg, log, args)
	case "check":
		return runCheck(cfg)
	}
	return fmt.Errorf("unknown command: %s", cmd)
}

var errCheckFailed = errors.New("check found failures")

func runCheck(cfg config.Config) error {
	report := check.Run(context.Background(), cfg)
	fmt.Print(report.Format())
	if report.HasFailures() {
		return errCheckFailed
	}
	return nil
}

// newFlagSet returns a flag set whose --help prints the command's help page.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	fs.Usage = func() {
		if c, ok := help.Lookup(name); ok {
			fmt.Fprint(os.Stderr, help.FormatTerminal(c))
		}
	}
	return fs
}

func usage() {
	fmt.Fprint(os.Stderr, help.FormatUsage(help.TopLevel, help.Subcommands))
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "tspec: "+format+"\n", args...)
	os.Exit(1)
}
