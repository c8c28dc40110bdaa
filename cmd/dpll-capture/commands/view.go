// Package commands implements the dpll-capture CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/clocksync/dpll-go/pkg/notify"
	"github.com/clocksync/dpll-go/pkg/registry"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Object *notify.Object
	Change *registry.EventType
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event notify.Event) {
	// Header line: timestamp [session:id] CHANGE OBJECT device
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	session := shortenSessionID(event.SessionID)

	fmt.Fprintf(w, "%s [session:%s] %-7s %s %s\n",
		ts, session, event.Change.String(), event.Object.String(), event.Device.Name)

	fmt.Fprintf(w, "  Clock: %s  Module: %s", event.Device.ClockID, event.Device.Module)
	if event.Device.Kind != 0 {
		fmt.Fprintf(w, "  Kind: %s", event.Device.Kind)
	}
	fmt.Fprintln(w)

	if event.Pin != nil {
		fmt.Fprintf(w, "  Pin: %q idx=%d kind=%s\n",
			event.Pin.Label, event.Pin.Index, event.Pin.Kind)
	}
	if event.Parent != nil {
		fmt.Fprintf(w, "  Parent: %q idx=%d\n", event.Parent.Label, event.Parent.Index)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenSessionID returns the first 8 characters of the session ID.
func shortenSessionID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// ParseObjectFlag parses an object string from command-line flag (case-insensitive).
func ParseObjectFlag(s string) (notify.Object, error) {
	return parseObject(s)
}

// parseObject parses an object string (case-insensitive).
func parseObject(s string) (notify.Object, error) {
	switch strings.ToLower(s) {
	case "device":
		return notify.ObjectDevice, nil
	case "pin":
		return notify.ObjectPin, nil
	case "pin-on-pin":
		return notify.ObjectPinOnPin, nil
	default:
		return 0, fmt.Errorf("invalid object: %s (must be device, pin, or pin-on-pin)", s)
	}
}

// ParseChangeFlag parses a change string from command-line flag (case-insensitive).
func ParseChangeFlag(s string) (registry.EventType, error) {
	return parseChange(s)
}

// parseChange parses a change string (case-insensitive).
func parseChange(s string) (registry.EventType, error) {
	switch strings.ToLower(s) {
	case "created":
		return registry.EventCreated, nil
	case "deleted":
		return registry.EventDeleted, nil
	case "changed":
		return registry.EventChanged, nil
	default:
		return 0, fmt.Errorf("invalid change: %s (must be created, deleted, or changed)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := notify.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		if filter.Object != nil && event.Object != *filter.Object {
			continue
		}
		if filter.Change != nil && event.Change != *filter.Change {
			continue
		}

		formatEvent(output, event)
	}

	return nil
}
