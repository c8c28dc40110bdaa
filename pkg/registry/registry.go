package registry

import (
	"io"
	"log/slog"
	"reflect"
	"sync"
)

// Options configures a Registry.
type Options struct {
	// Notifier receives change notifications. Nil disables them.
	Notifier Notifier

	// Logger receives operational logs. Nil discards them.
	Logger *slog.Logger

	// MaxPinsPerDevice caps the number of distinct pin edges a single
	// device may hold; registrations beyond the cap report
	// ErrResourceExhausted. Zero means unlimited.
	MaxPinsPerDevice int
}

// Registry is the identity and lifecycle table for DPLL devices and
// pins. Construct one per process with New and pass it to every
// driver; there is no ambient global instance.
//
// All methods are safe for concurrent use. A single registry-wide lock
// serializes every mutation and lookup (see the package documentation
// for why the lock is deliberately coarse).
type Registry struct {
	mu sync.Mutex

	notifier Notifier
	logger   *slog.Logger

	maxPinsPerDevice int

	// Devices and pins in creation order. Identity lookups are linear
	// scans; object counts stay small enough that an index would not
	// pay for itself.
	devices []*Device
	pins    []*Pin

	nextDeviceID uint32
	nextPinID    uint32
}

// New creates an empty registry.
func New(opts Options) *Registry {
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Registry{
		notifier:         notifier,
		logger:           logger,
		maxPinsPerDevice: opts.MaxPinsPerDevice,
	}
}

// comparablePriv reports whether priv can serve as registration
// identity. Registrations are matched by comparing priv with ==, so
// map, slice and func values are rejected up front; drivers pass a
// pointer to their private state.
func comparablePriv(priv any) bool {
	return priv == nil || reflect.TypeOf(priv).Comparable()
}

// DeviceCount returns the number of allocated devices, registered or
// not.
func (r *Registry) DeviceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.devices)
}

// PinCount returns the number of allocated pins.
func (r *Registry) PinCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pins)
}
