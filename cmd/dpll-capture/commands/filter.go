package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/clocksync/dpll-go/pkg/notify"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output    string
	SessionID string
	Device    string
	PinLabel  string
	TimeStart string
	TimeEnd   string
	Object    string
	Change    string
}

// RunFilter filters the capture file and writes matching events to a new file.
func RunFilter(path string, opts FilterOptions) error {
	filter := notify.Filter{
		SessionID:  opts.SessionID,
		DeviceName: opts.Device,
		PinLabel:   opts.PinLabel,
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if opts.Object != "" {
		o, err := parseObject(opts.Object)
		if err != nil {
			return err
		}
		filter.Object = &o
	}

	if opts.Change != "" {
		c, err := parseChange(opts.Change)
		if err != nil {
			return err
		}
		filter.Change = &c
	}

	reader, err := notify.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	out, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()
	encoder := notify.NewEncoder(out)

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
		count++
	}

	fmt.Printf("Filtered %d events to %s\n", count, opts.Output)
	return nil
}
