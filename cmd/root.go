// Package cmd implements the CLI command structure for taskmaster.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/taskmaster-go/internal/config"
	"github.com/nibzard/taskmaster-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// streams are the standard streams a command reads and writes.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// Run executes the taskmaster CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr})
}

func run(ctx context.Context, args []string, std streams) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("taskmaster", flag.ContinueOnError)
	fs.SetOutput(std.errOut)
	fs.Usage = func() {
		printUsage(fs, std.errOut)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, std.out)
		return nil
	}
	if *showVersion {
		return versionCommand(std.out)
	}

	// Determine the subcommand; the TUI is the default
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	cfg := cws.Config
	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "exec":
		return execCommand(ctx, cfg, remainingArgs, std)
	case "logs":
		return logsCommand(ctx, cfg, remainingArgs, std.out)
	case "config":
		return configCommand(cws, remainingArgs, std.out)
	case "version":
		return versionCommand(std.out)
	case "help":
		printUsage(fs, std.out)
		return nil
	default:
		fmt.Fprintf(std.errOut, "Unknown command: %s\n", subcommand)
		printUsage(fs, std.errOut)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// tuiCommand launches the TUI.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskmaster tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY; use 'taskmaster exec' for scripted input")
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	s.logger.Info("tui started", "filter", cfg.DefaultFilter)
	return ui.RunTUI(ctx, cfg, s.dispatcher, ui.WithClock(s.clock))
}

// configCommand prints an example config, or the effective config with
// --show.
func configCommand(cws *config.ConfigWithSources, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("taskmaster config", flag.ContinueOnError)
	show := fs.Bool("show", false, "Show effective configuration and value sources")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *show {
		return cws.WriteEffective(w)
	}
	_, err := io.WriteString(w, config.ExampleConfig())
	return err
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "taskmaster version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "TaskMaster - A keyboard-driven task list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskmaster [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui           Launch terminal UI (default command)")
	fmt.Fprintln(w, "  exec          Run commands from a file or stdin")
	fmt.Fprintln(w, "  logs          Show the latest session log")
	fmt.Fprintln(w, "  config        Print an example config file")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exec Options (use with 'exec' command):")
	fmt.Fprintln(w, "  -f string")
	fmt.Fprintln(w, "        Read commands from file instead of stdin")
	fmt.Fprintln(w, "  -json")
	fmt.Fprintln(w, "        Print one JSON object per command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exec Commands (one per line, # starts a comment):")
	fmt.Fprintln(w, "  add <text> | toggle <id> | edit <id> <text> | rm <id>")
	fmt.Fprintln(w, "  clear | ls [all|pending|completed] | stats | get <id>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options (use with 'logs' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintf(w, "        Number of lines to show (default %d, 0 = all)\n", defaultTailLines)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -show")
	fmt.Fprintln(w, "        Show effective configuration and value sources")
}
