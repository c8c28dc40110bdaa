// Command dpll-capture is a tool for viewing and analyzing registry
// capture files.
//
// Capture files are created by configuring a notify.CaptureFile as the
// registry notifier; they hold every device and pin event in CBOR form.
//
// Usage:
//
//	dpll-capture <command> [flags] <file.dcap>
//
// Commands:
//
//	view     View capture file in human-readable format
//	export   Export capture file to JSON or CSV format
//	filter   Filter capture file and write to new file
//	stats    Show statistics about the capture file
//
// Examples:
//
//	# View all events
//	dpll-capture view registry.dcap
//
//	# View only pin events
//	dpll-capture view --object pin registry.dcap
//
//	# Export to JSONL
//	dpll-capture export --format jsonl registry.dcap
//
//	# Filter by device and save to new file
//	dpll-capture filter --device dpll-1122334455667788-0-ice -o eec.dcap registry.dcap
//
//	# Show statistics
//	dpll-capture stats registry.dcap
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/clocksync/dpll-go/cmd/dpll-capture/commands"
)

const usage = `dpll-capture - DPLL Registry Capture Analyzer

Usage:
  dpll-capture <command> [flags] <file.dcap>

Commands:
  view     View capture file in human-readable format
  export   Export capture file to JSON or CSV format
  filter   Filter capture file and write to new file
  stats    Show statistics about the capture file

Use "dpll-capture <command> -help" for more information about a command.
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

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `dpll-capture view - View capture file in human-readable format

Usage:
  dpll-capture view [flags] <file.dcap>

Flags:
`)
		fs.PrintDefaults()
	}

	object := fs.String("object", "", "Filter by object (device, pin, pin-on-pin)")
	change := fs.String("change", "", "Filter by change (created, deleted, changed)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	var filter commands.ViewFilter

	if *object != "" {
		o, err := commands.ParseObjectFlag(*object)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Object = &o
	}

	if *change != "" {
		c, err := commands.ParseChangeFlag(*change)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.Change = &c
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `dpll-capture export - Export capture file to JSON or CSV format

Usage:
  dpll-capture export [flags] <file.dcap>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `dpll-capture filter - Filter capture file and write to new file

Usage:
  dpll-capture filter [flags] <file.dcap>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	session := fs.String("session", "", "Filter by capture session ID")
	device := fs.String("device", "", "Filter by device name")
	pinLabel := fs.String("pin", "", "Filter by pin label")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	object := fs.String("object", "", "Filter by object (device, pin, pin-on-pin)")
	change := fs.String("change", "", "Filter by change (created, deleted, changed)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	opts := commands.FilterOptions{
		Output:    *output,
		SessionID: *session,
		Device:    *device,
		PinLabel:  *pinLabel,
		TimeStart: *timeStart,
		TimeEnd:   *timeEnd,
		Object:    *object,
		Change:    *change,
	}

	if err := commands.RunFilter(path, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `dpll-capture stats - Show statistics about the capture file

Usage:
  dpll-capture stats <file.dcap>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}

	path := fs.Arg(0)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
