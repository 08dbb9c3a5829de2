package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/akam1o/ifbridge/pkg/settings"
)

var (
	// Version information (set by ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Exit codes
const (
	ExitSuccess        = 0
	ExitOperationError = 1
	ExitUsageError     = 2
)

// Output formats for dry runs
const (
	formatText  = "text"
	formatDiff  = "diff"
	formatTable = "table"
	formatYAML  = "yaml"
)

type flags struct {
	filename     string
	bridgeName   string
	primaryNIC   string
	bonded       bool
	dryRun       bool
	renderOnly   bool
	noRollback   bool
	diff         bool
	format       string
	settingsPath string
	logLevel     string
	logFormat    string
	version      bool

	// set records which flags were given explicitly and override the settings file
	set map[string]bool
}

func main() {
	f, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(ExitUsageError)
	}

	if f.version {
		printVersion(os.Stdout)
		os.Exit(ExitSuccess)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, f, os.Stdout, os.Stderr, defaultDeps()))
}

func parseFlags(args []string, stderr io.Writer) (*flags, error) {
	f := &flags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("ifbridge", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&f.filename, "filename", settings.DefaultFilename,
		"Interfaces file to rewrite")
	fs.StringVar(&f.bridgeName, "bridge-name", settings.DefaultBridgeName,
		"Name of the bridge to create")
	fs.StringVar(&f.primaryNIC, "primary-nic", "",
		"Interface to bridge (default: interface of the IPv4 default route)")
	fs.BoolVar(&f.bonded, "primary-nic-is-bonded", false,
		"The primary NIC is a bond master")
	fs.BoolVar(&f.dryRun, "dry-run", false,
		"Print the rewritten file instead of installing it")
	fs.BoolVar(&f.renderOnly, "render-only", false,
		"Write the rewritten file without restarting interfaces")
	fs.BoolVar(&f.noRollback, "no-rollback", false,
		"Keep the new file even if bringing interfaces up fails")
	fs.BoolVar(&f.diff, "diff", false,
		"Dry run showing a unified diff (same as -format diff)")
	fs.StringVar(&f.format, "format", formatText,
		"Dry-run output: text, diff, table or yaml (anything but text implies -dry-run)")
	fs.StringVar(&f.settingsPath, "settings", "",
		"Optional YAML settings file; explicit flags take precedence")
	fs.StringVar(&f.logLevel, "log-level", "info",
		"Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", "json",
		"Log format (json, text)")
	fs.BoolVar(&f.version, "version", false,
		"Print version information and exit")

	fs.Usage = func() { showUsage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected argument '%s'\n\n", fs.Arg(0))
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	if f.diff {
		f.format = formatDiff
	}
	switch f.format {
	case formatText:
	case formatDiff, formatTable, formatYAML:
		f.dryRun = true
	default:
		fmt.Fprintf(stderr, "Error: unknown format '%s'\n\n", f.format)
		fs.Usage()
		return nil, fmt.Errorf("unknown format %q", f.format)
	}

	return f, nil
}

func showUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, `Usage: ifbridge [options]

Moves the configuration of a network interface in a Debian interfaces(5) file
onto a new bridge and makes the interface a port of that bridge.

Options:
`)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Examples:
  ifbridge -dry-run
  ifbridge -primary-nic eth0 -bridge-name br0 -diff
  ifbridge -primary-nic bond0 -primary-nic-is-bonded -render-only

`)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "ifbridge version %s\n", Version)
	fmt.Fprintf(w, "  Commit: %s\n", Commit)
	fmt.Fprintf(w, "  Built:  %s\n", BuildDate)
}
