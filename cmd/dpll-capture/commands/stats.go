package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/clocksync/dpll-go/pkg/notify"
	"github.com/clocksync/dpll-go/pkg/registry"
)

// Stats holds aggregate statistics about a capture file.
type Stats struct {
	TotalEvents    int
	EventsByObject map[notify.Object]int
	EventsByChange map[registry.EventType]int
	Devices        map[string]*DeviceStats
	TimeRange      struct {
		Start time.Time
		End   time.Time
	}
}

// DeviceStats holds statistics for a single device.
type DeviceStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	ClockID   string
	Module    string
	Pins      map[string]bool
}

// RunStats analyzes the capture file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := notify.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByObject: make(map[notify.Object]int),
		EventsByChange: make(map[registry.EventType]int),
		Devices:        make(map[string]*DeviceStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByObject[event.Object]++
		stats.EventsByChange[event.Change]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		dev, ok := stats.Devices[event.Device.Name]
		if !ok {
			dev = &DeviceStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
				ClockID:   event.Device.ClockID.String(),
				Module:    event.Device.Module,
				Pins:      make(map[string]bool),
			}
			stats.Devices[event.Device.Name] = dev
		}
		dev.Events++
		if event.Timestamp.After(dev.LastSeen) {
			dev.LastSeen = event.Timestamp
		}
		if event.Pin != nil {
			dev.Pins[event.Pin.Label] = true
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== DPLL Registry Capture Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Object:")
	for _, o := range []notify.Object{notify.ObjectDevice, notify.ObjectPin, notify.ObjectPinOnPin} {
		if count := stats.EventsByObject[o]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", o.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Change:")
	for _, c := range []registry.EventType{registry.EventCreated, registry.EventDeleted, registry.EventChanged} {
		if count := stats.EventsByChange[c]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", c.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Devices: %d\n", len(stats.Devices))
	if len(stats.Devices) > 0 {
		type devInfo struct {
			name  string
			stats *DeviceStats
		}
		devices := make([]devInfo, 0, len(stats.Devices))
		for name, ds := range stats.Devices {
			devices = append(devices, devInfo{name, ds})
		}
		sort.Slice(devices, func(i, j int) bool {
			return devices[i].stats.FirstSeen.Before(devices[j].stats.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, d := range devices {
			duration := d.stats.LastSeen.Sub(d.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", d.name, d.stats.Events, duration)
			fmt.Fprintf(w, "           Clock: %s  Module: %s\n", d.stats.ClockID, d.stats.Module)
			if len(d.stats.Pins) > 0 {
				fmt.Fprintf(w, "           Pins: %d\n", len(d.stats.Pins))
			}
		}
	}
}
