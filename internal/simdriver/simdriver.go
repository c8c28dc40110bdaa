// Package simdriver provides a simulated DPLL driver for testing.
// It attaches a resolved board profile to a registry, implements the
// device and pin operation tables against in-memory state, and detaches
// cleanly, standing in for a real NIC driver.
package simdriver

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/clocksync/dpll-go/pkg/boardprofile"
	"github.com/clocksync/dpll-go/pkg/dpll"
	"github.com/clocksync/dpll-go/pkg/registry"
)

// Driver simulates one driver instance bound to a board.
type Driver struct {
	registry *registry.Registry
	profile  *boardprofile.Profile
	logger   *slog.Logger

	mu        sync.Mutex
	attached  bool
	devices   []*registry.Device
	devStates []*deviceState
	devOps    *registry.DeviceOps
	pinOps    *registry.PinOps

	// pins in profile order; children keep their parent handle.
	pins []*attachedPin
}

// attachedPin tracks one pin's registry handle and simulated state.
type attachedPin struct {
	spec   boardprofile.PinSpec
	pin    *registry.Pin
	parent *registry.Pin
	state  *pinState
}

// pinState is the mutable per-pin hardware state.
type pinState struct {
	mu        sync.Mutex
	frequency uint64
	direction dpll.PinDirection
	priority  uint32

	// Selection state per device and per mux parent, keyed by
	// registry object ID.
	onDevice map[uint32]dpll.PinState
	onParent map[uint32]dpll.PinState
}

// deviceState is the mutable per-device hardware state.
type deviceState struct {
	mu         sync.Mutex
	mode       dpll.Mode
	lockStatus dpll.LockStatus
	temp       int32
	sourcePin  uint32
}

// Config configures a simulated driver.
type Config struct {
	// Registry the driver attaches to. Required.
	Registry *registry.Registry

	// Profile describes the board. Required.
	Profile *boardprofile.Profile

	// Logger for driver activity. nil discards.
	Logger *slog.Logger
}

// New creates a driver for the given board profile.
func New(cfg Config) (*Driver, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Profile == nil {
		return nil, fmt.Errorf("board profile is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	d := &Driver{
		registry: cfg.Registry,
		profile:  cfg.Profile,
		logger:   logger,
	}
	d.devOps = d.deviceOps()
	d.pinOps = d.pinOperations()
	return d, nil
}

// Attach obtains and registers every device and pin the profile
// declares. On failure the registry is left as it was.
func (d *Driver) Attach() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.attached {
		return fmt.Errorf("driver already attached")
	}

	if err := d.attachLocked(); err != nil {
		d.detachLocked()
		return err
	}
	d.attached = true
	d.logger.Info("driver attached",
		"board", d.profile.Board,
		"devices", len(d.devices),
		"pins", len(d.pins))
	return nil
}

func (d *Driver) attachLocked() error {
	for _, spec := range d.profile.Devices {
		dev, err := d.registry.DeviceGet(d.profile.ClockID, spec.DriverIndex, d.profile.Module)
		if err != nil {
			return fmt.Errorf("device %d: %w", spec.DriverIndex, err)
		}
		d.devices = append(d.devices, dev)

		state := &deviceState{
			mode:       dpll.ModeAutomatic,
			lockStatus: dpll.LockStatusUnlocked,
			temp:       45 * dpll.TemperatureDivider,
		}
		if err := d.registry.DeviceRegister(dev, spec.Kind, d.devOps, state, d.profile.Module); err != nil {
			d.registry.DevicePut(dev)
			d.devices = d.devices[:len(d.devices)-1]
			return fmt.Errorf("device %d: %w", spec.DriverIndex, err)
		}
		d.devStates = append(d.devStates, state)
	}

	// Direct pins first so mux parents exist before their children.
	for _, spec := range d.profile.Pins {
		if spec.Parent != "" {
			continue
		}
		if err := d.attachPinLocked(spec); err != nil {
			return err
		}
	}
	for _, spec := range d.profile.Pins {
		if spec.Parent == "" {
			continue
		}
		if err := d.attachPinLocked(spec); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) attachPinLocked(spec boardprofile.PinSpec) error {
	pin, err := d.registry.PinGet(d.profile.ClockID, spec.Index, d.profile.Module, spec.Properties)
	if err != nil {
		return fmt.Errorf("pin %q: %w", spec.Properties.Label, err)
	}

	ap := &attachedPin{
		spec: spec,
		pin:  pin,
		state: &pinState{
			direction: dpll.PinDirectionSource,
			onDevice:  make(map[uint32]dpll.PinState),
			onParent:  make(map[uint32]dpll.PinState),
		},
	}
	if len(spec.Properties.FrequenciesSupported) > 0 {
		ap.state.frequency = spec.Properties.FrequenciesSupported[0].Min
	}

	if spec.Parent != "" {
		parent := d.findPinLocked(spec.Parent)
		if parent == nil {
			d.registry.PinPut(pin)
			return fmt.Errorf("pin %q: parent %q not attached", spec.Properties.Label, spec.Parent)
		}
		ap.parent = parent
		if err := d.registry.PinOnPinRegister(parent, pin, d.pinOps, ap.state, spec.RecoveredClock); err != nil {
			d.registry.PinPut(pin)
			return fmt.Errorf("pin %q: %w", spec.Properties.Label, err)
		}
	} else {
		// Direct pins are exposed on every device of the board, the
		// way multi-channel hardware shares its input stage.
		for i, dev := range d.devices {
			if err := d.registry.PinRegister(dev, pin, d.pinOps, ap.state, spec.RecoveredClock); err != nil {
				for _, done := range d.devices[:i] {
					d.registry.PinUnregister(done, pin, d.pinOps, ap.state)
				}
				d.registry.PinPut(pin)
				return fmt.Errorf("pin %q: %w", spec.Properties.Label, err)
			}
		}
	}

	d.pins = append(d.pins, ap)
	return nil
}

// findPinLocked returns the attached pin with the given label.
func (d *Driver) findPinLocked(label string) *registry.Pin {
	for _, ap := range d.pins {
		if ap.spec.Properties.Label == label {
			return ap.pin
		}
	}
	return nil
}

// Detach unwinds everything Attach built, children before parents.
func (d *Driver) Detach() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.detachLocked()
	d.attached = false
	d.logger.Info("driver detached", "board", d.profile.Board)
}

func (d *Driver) detachLocked() {
	for i := len(d.pins) - 1; i >= 0; i-- {
		ap := d.pins[i]
		if ap.parent != nil {
			d.registry.PinOnPinUnregister(ap.parent, ap.pin, d.pinOps, ap.state)
		} else {
			for _, dev := range d.devices {
				d.registry.PinUnregister(dev, ap.pin, d.pinOps, ap.state)
			}
		}
		d.registry.PinPut(ap.pin)
	}
	d.pins = nil

	for i := len(d.devices) - 1; i >= 0; i-- {
		dev := d.devices[i]
		d.registry.DeviceUnregister(dev, d.devOps, d.devStates[i])
		d.registry.DevicePut(dev)
	}
	d.devices = nil
	d.devStates = nil
}

// Devices returns the driver's device handles in profile order.
func (d *Driver) Devices() []*registry.Device {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*registry.Device, len(d.devices))
	copy(out, d.devices)
	return out
}

// Pin returns the handle of the pin with the given board label.
func (d *Driver) Pin(label string) *registry.Pin {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.findPinLocked(label)
}

// SetLockStatus simulates the hardware (un)locking on a device.
func (d *Driver) SetLockStatus(dev *registry.Device, status dpll.LockStatus) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, own := range d.devices {
		if own == dev {
			state := d.devStates[i]
			state.mu.Lock()
			state.lockStatus = status
			state.mu.Unlock()
			d.logger.Debug("lock status changed", "device", dev.Name(), "status", status.String())
			return nil
		}
	}
	return fmt.Errorf("device %s is not owned by this driver", dev.Name())
}
