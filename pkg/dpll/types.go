package dpll

import "fmt"

// ClockID identifies a physical clock, by convention the EUI-64 of the
// hardware it drives. Several driver instances controlling the same
// oscillator report the same ClockID.
type ClockID uint64

// String formats the clock identity as 16 hex digits.
func (c ClockID) String() string {
	return fmt.Sprintf("%016x", uint64(c))
}

// DeviceKind classifies what signal a DPLL device produces.
type DeviceKind uint8

const (
	// DeviceKindPPS produces a Pulse-Per-Second signal.
	DeviceKindPPS DeviceKind = 1

	// DeviceKindEEC drives the Ethernet Equipment Clock.
	DeviceKindEEC DeviceKind = 2
)

// Valid reports whether the kind is a known device kind.
func (k DeviceKind) Valid() bool {
	return k >= DeviceKindPPS && k <= DeviceKindEEC
}

// String returns the kind name.
func (k DeviceKind) String() string {
	switch k {
	case DeviceKindPPS:
		return "PPS"
	case DeviceKindEEC:
		return "EEC"
	default:
		return "UNKNOWN"
	}
}

// Mode describes if and how a device selects the source it syntonizes to.
type Mode uint8

const (
	// ModeManual selects a source only on explicit request.
	ModeManual Mode = 1

	// ModeAutomatic selects the highest-priority valid source.
	ModeAutomatic Mode = 2

	// ModeHoldover forces the device into holdover.
	ModeHoldover Mode = 3

	// ModeFreerun drives the device from the system clock.
	ModeFreerun Mode = 4
)

// Valid reports whether the mode is a known working mode.
func (m Mode) Valid() bool {
	return m >= ModeManual && m <= ModeFreerun
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeManual:
		return "MANUAL"
	case ModeAutomatic:
		return "AUTOMATIC"
	case ModeHoldover:
		return "HOLDOVER"
	case ModeFreerun:
		return "FREERUN"
	default:
		return "UNKNOWN"
	}
}

// LockStatus reports whether a device is locked to a valid source.
type LockStatus uint8

const (
	// LockStatusUnlocked means the device has not locked to any valid
	// source, or runs in ModeFreerun.
	LockStatusUnlocked LockStatus = 1

	// LockStatusLocked means the device is locked, without holdover.
	LockStatusLocked LockStatus = 2

	// LockStatusLockedHoldoverAcq means locked with holdover acquired.
	LockStatusLockedHoldoverAcq LockStatus = 3

	// LockStatusHoldover means the device lost a valid lock or was
	// forced into holdover.
	LockStatusHoldover LockStatus = 4
)

// Valid reports whether the status is a known lock status.
func (s LockStatus) Valid() bool {
	return s >= LockStatusUnlocked && s <= LockStatusHoldover
}

// String returns the lock status name.
func (s LockStatus) String() string {
	switch s {
	case LockStatusUnlocked:
		return "UNLOCKED"
	case LockStatusLocked:
		return "LOCKED"
	case LockStatusLockedHoldoverAcq:
		return "LOCKED_HO_ACQ"
	case LockStatusHoldover:
		return "HOLDOVER"
	default:
		return "UNKNOWN"
	}
}

// PinKind classifies a pin's signal source or role.
type PinKind uint8

const (
	// PinKindMux aggregates another layer of selectable pins.
	PinKindMux PinKind = 1

	// PinKindExt is an external source.
	PinKindExt PinKind = 2

	// PinKindSyncEEthPort is an ethernet port PHY's recovered clock.
	PinKindSyncEEthPort PinKind = 3

	// PinKindIntOscillator is a device-internal oscillator.
	PinKindIntOscillator PinKind = 4

	// PinKindGNSS is a GNSS recovered clock.
	PinKindGNSS PinKind = 5
)

// Valid reports whether the kind is a known pin kind.
func (k PinKind) Valid() bool {
	return k >= PinKindMux && k <= PinKindGNSS
}

// String returns the pin kind name.
func (k PinKind) String() string {
	switch k {
	case PinKindMux:
		return "MUX"
	case PinKindExt:
		return "EXT"
	case PinKindSyncEEthPort:
		return "SYNCE_ETH_PORT"
	case PinKindIntOscillator:
		return "INT_OSCILLATOR"
	case PinKindGNSS:
		return "GNSS"
	default:
		return "UNKNOWN"
	}
}

// PinDirection describes how a pin is used.
type PinDirection uint8

const (
	// PinDirectionSource feeds a reference signal into the device.
	PinDirectionSource PinDirection = 1

	// PinDirectionOutput outputs the synthesized signal.
	PinDirectionOutput PinDirection = 2
)

// Valid reports whether the direction is known.
func (d PinDirection) Valid() bool {
	return d == PinDirectionSource || d == PinDirectionOutput
}

// String returns the direction name.
func (d PinDirection) String() string {
	switch d {
	case PinDirectionSource:
		return "SOURCE"
	case PinDirectionOutput:
		return "OUTPUT"
	default:
		return "UNKNOWN"
	}
}

// PinState describes a pin's role in source selection on a device or
// on a parent mux pin.
type PinState uint8

const (
	// PinStateConnected means the pin is the active source.
	PinStateConnected PinState = 1

	// PinStateDisconnected means the pin is not a valid source.
	PinStateDisconnected PinState = 2

	// PinStateSelectable means the pin participates in automatic
	// source selection.
	PinStateSelectable PinState = 3
)

// Valid reports whether the state is known.
func (s PinState) Valid() bool {
	return s >= PinStateConnected && s <= PinStateSelectable
}

// String returns the state name.
func (s PinState) String() string {
	switch s {
	case PinStateConnected:
		return "CONNECTED"
	case PinStateDisconnected:
		return "DISCONNECTED"
	case PinStateSelectable:
		return "SELECTABLE"
	default:
		return "UNKNOWN"
	}
}

// PinCapabilities is a bitmap of runtime-changeable pin attributes.
type PinCapabilities uint32

const (
	// CapDirectionCanChange allows changing the pin direction.
	CapDirectionCanChange PinCapabilities = 1 << 0

	// CapPriorityCanChange allows changing the pin priority.
	CapPriorityCanChange PinCapabilities = 1 << 1

	// CapStateCanChange allows changing the pin state.
	CapStateCanChange PinCapabilities = 1 << 2
)

// Has reports whether all capabilities in c are present.
func (p PinCapabilities) Has(c PinCapabilities) bool {
	return p&c == c
}

// TemperatureDivider converts driver-reported temperature readings
// (millidegrees Celsius) to degrees.
const TemperatureDivider = 1000
