// Command rpt-log is a tool for viewing and analyzing camera event logs.
//
// Event logs are written by rpt-shell and rpt-bridge when they run with
// the -event-log flag.
//
// Usage:
//
//	rpt-log <command> [flags] <file.rlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View only download events
//	rpt-log view -category download camera.rlog
//
//	# View changes of property 0xd01c
//	rpt-log view -property 0xd01c camera.rlog
//
//	# Export bridge events to CSV
//	rpt-log export -format csv -layer bridge camera.rlog
//
//	# Keep one session in a new file
//	rpt-log filter -session 6a1f0c2e -o session.rlog camera.rlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vividos/RemotePhotoTool-sub000/cmd/rpt-log/commands"
)

const usage = `rpt-log - Camera Event Log Analyzer

Usage:
  rpt-log <command> [flags] <file.rlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "rpt-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// filterFlags registers the shared filter flags on fs.
func filterFlags(fs *flag.FlagSet) *commands.FilterOptions {
	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Model, "model", "", "Filter by camera model")
	fs.StringVar(&opts.PropertyID, "property", "", "Filter by property ID (e.g. 0xd01c)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (driver, camera, bridge)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (property, state, download, release, error, frame)")
	return opts
}

func usageFor(fs *flag.FlagSet, title, synopsis string) {
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\nUsage:\n  %s\n\nFlags:\n", title, synopsis)
		fs.PrintDefaults()
	}
}

// parseArgs parses flags and returns the log file path.
func parseArgs(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	usageFor(fs, "rpt-log view - View log file in human-readable format", "rpt-log view [flags] <file.rlog>")
	opts := filterFlags(fs)
	path := parseArgs(fs, args)

	filter, err := commands.BuildFilter(*opts)
	if err != nil {
		fail(err)
	}
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	usageFor(fs, "rpt-log export - Export log file to JSONL or CSV format", "rpt-log export [flags] <file.rlog>")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	opts := filterFlags(fs)
	path := parseArgs(fs, args)

	filter, err := commands.BuildFilter(*opts)
	if err != nil {
		fail(err)
	}
	if err := commands.RunExport(path, *format, *output, filter); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	usageFor(fs, "rpt-log filter - Filter log file and write to new file", "rpt-log filter [flags] -o <out.rlog> <file.rlog>")
	output := fs.String("o", "", "Output file (required)")
	opts := filterFlags(fs)
	path := parseArgs(fs, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := commands.BuildFilter(*opts)
	if err != nil {
		fail(err)
	}
	count, err := commands.RunFilter(path, *output, filter)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, *output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "rpt-log stats - Show statistics about the log file\n\nUsage:\n  rpt-log stats <file.rlog>\n\n")
	}
	path := parseArgs(fs, args)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
