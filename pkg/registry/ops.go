package registry

import "github.com/clocksync/dpll-go/pkg/dpll"

// DeviceOps is the operations table a driver registers for a device.
// The registry stores it opaquely; only the dispatch helpers invoke
// it, always through the device's first registration. Nil fields mean
// the driver does not support the operation and dispatch reports
// ErrUnsupported.
//
// Every operation receives the device, the private data supplied at
// registration and an ErrorContext for an extended failure message.
type DeviceOps struct {
	// ModeGet reads the current working mode.
	ModeGet func(d *Device, priv any, ec *dpll.ErrorContext) (dpll.Mode, error)

	// ModeSet switches the working mode.
	ModeSet func(d *Device, priv any, mode dpll.Mode, ec *dpll.ErrorContext) error

	// ModeSupported reports whether the device can run in mode.
	ModeSupported func(d *Device, priv any, mode dpll.Mode, ec *dpll.ErrorContext) (bool, error)

	// SourcePinIndexGet reads the index of the currently selected
	// source pin.
	SourcePinIndexGet func(d *Device, priv any, ec *dpll.ErrorContext) (uint32, error)

	// LockStatusGet reads the lock status.
	LockStatusGet func(d *Device, priv any, ec *dpll.ErrorContext) (dpll.LockStatus, error)

	// TemperatureGet reads the device temperature in millidegrees
	// Celsius (see dpll.TemperatureDivider).
	TemperatureGet func(d *Device, priv any, ec *dpll.ErrorContext) (int32, error)
}

// PinOps is the operations table a driver registers on a device↔pin or
// pin↔parent edge. Same conventions as DeviceOps: opaque to the core,
// first registration wins, nil field means unsupported.
//
// On-device operations receive the counterpart device and the edge's
// private data; on-pin operations receive the mux parent and the
// parent's own device-edge private data (nil if the parent is not
// linked to any device).
type PinOps struct {
	// FrequencyGet reads the pin frequency in Hz.
	FrequencyGet func(p *Pin, priv any, d *Device, devPriv any, ec *dpll.ErrorContext) (uint64, error)

	// FrequencySet sets the pin frequency in Hz.
	FrequencySet func(p *Pin, priv any, d *Device, devPriv any, freq uint64, ec *dpll.ErrorContext) error

	// DirectionGet reads the pin direction on the device.
	DirectionGet func(p *Pin, priv any, d *Device, devPriv any, ec *dpll.ErrorContext) (dpll.PinDirection, error)

	// DirectionSet sets the pin direction on the device.
	DirectionSet func(p *Pin, priv any, d *Device, devPriv any, dir dpll.PinDirection, ec *dpll.ErrorContext) error

	// StateOnDeviceGet reads the pin's selection state on the device.
	StateOnDeviceGet func(p *Pin, priv any, d *Device, devPriv any, ec *dpll.ErrorContext) (dpll.PinState, error)

	// StateOnDeviceSet sets the pin's selection state on the device.
	StateOnDeviceSet func(p *Pin, priv any, d *Device, devPriv any, state dpll.PinState, ec *dpll.ErrorContext) error

	// StateOnPinGet reads the pin's selection state on its mux parent.
	StateOnPinGet func(p *Pin, priv any, parent *Pin, parentPriv any, ec *dpll.ErrorContext) (dpll.PinState, error)

	// StateOnPinSet sets the pin's selection state on its mux parent.
	StateOnPinSet func(p *Pin, priv any, parent *Pin, parentPriv any, state dpll.PinState, ec *dpll.ErrorContext) error

	// PriorityGet reads the pin's priority on the device.
	PriorityGet func(p *Pin, priv any, d *Device, devPriv any, ec *dpll.ErrorContext) (uint32, error)

	// PrioritySet sets the pin's priority on the device.
	PrioritySet func(p *Pin, priv any, d *Device, devPriv any, prio uint32, ec *dpll.ErrorContext) error
}
