package notify

import "github.com/clocksync/dpll-go/pkg/registry"

// Multi fans notifications out to multiple notifiers.
// Useful when you want both console output (via Slog)
// and file output (via CaptureFile) simultaneously.
type Multi struct {
	notifiers []registry.Notifier
}

// NewMulti creates a Multi that forwards events to all provided notifiers.
func NewMulti(notifiers ...registry.Notifier) *Multi {
	return &Multi{notifiers: notifiers}
}

// DeviceChange forwards the event to all configured notifiers.
func (m *Multi) DeviceChange(event registry.EventType, d *registry.Device) {
	for _, n := range m.notifiers {
		n.DeviceChange(event, d)
	}
}

// PinChange forwards the event to all configured notifiers.
func (m *Multi) PinChange(event registry.EventType, d *registry.Device, p *registry.Pin) {
	for _, n := range m.notifiers {
		n.PinChange(event, d, p)
	}
}

// PinOnPinChange forwards the event to all configured notifiers.
func (m *Multi) PinOnPinChange(event registry.EventType, d *registry.Device, p, parent *registry.Pin) {
	for _, n := range m.notifiers {
		n.PinOnPinChange(event, d, p, parent)
	}
}

// Compile-time interface satisfaction check.
var _ registry.Notifier = (*Multi)(nil)
