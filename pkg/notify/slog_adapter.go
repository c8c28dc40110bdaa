package notify

import (
	"context"
	"log/slog"

	"github.com/clocksync/dpll-go/pkg/registry"
)

// Slog mirrors registry events into an slog.Logger.
// Useful for development when you want to see registry events in console.
type Slog struct {
	logger *slog.Logger
}

// NewSlog creates a Slog notifier that writes to the given slog.Logger.
func NewSlog(logger *slog.Logger) *Slog {
	return &Slog{logger: logger}
}

// DeviceChange logs a device event at Debug level.
func (s *Slog) DeviceChange(event registry.EventType, d *registry.Device) {
	s.log(newEvent("", ObjectDevice, event, d, nil, nil))
}

// PinChange logs a device-pin event at Debug level.
func (s *Slog) PinChange(event registry.EventType, d *registry.Device, p *registry.Pin) {
	s.log(newEvent("", ObjectPin, event, d, p, nil))
}

// PinOnPinChange logs a nested-pin event at Debug level.
func (s *Slog) PinOnPinChange(event registry.EventType, d *registry.Device, p, parent *registry.Pin) {
	s.log(newEvent("", ObjectPinOnPin, event, d, p, parent))
}

func (s *Slog) log(event Event) {
	attrs := []slog.Attr{
		slog.String("object", event.Object.String()),
		slog.String("change", event.Change.String()),
		slog.String("device", event.Device.Name),
		slog.String("clock_id", event.Device.ClockID.String()),
		slog.String("module", event.Device.Module),
	}

	if event.Pin != nil {
		attrs = append(attrs,
			slog.Uint64("pin", uint64(event.Pin.Index)),
			slog.String("pin_label", event.Pin.Label),
			slog.String("pin_kind", event.Pin.Kind.String()),
		)
	}
	if event.Parent != nil {
		attrs = append(attrs, slog.String("parent_label", event.Parent.Label))
	}

	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "registry", attrs...)
}

// Compile-time interface satisfaction check.
var _ registry.Notifier = (*Slog)(nil)
