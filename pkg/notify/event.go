package notify

import (
	"time"

	"github.com/clocksync/dpll-go/pkg/dpll"
	"github.com/clocksync/dpll-go/pkg/registry"
)

// Event is one captured registry notification.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event was captured (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the capture session (UUID). Every event
	// written by one CaptureFile carries the same value.
	SessionID string `cbor:"2,keyasint,omitempty"`

	// Object names the entity the event is about.
	Object Object `cbor:"3,keyasint"`

	// Change is the lifecycle transition or attribute change.
	Change registry.EventType `cbor:"4,keyasint"`

	// Device is the device the event relates to. Always set.
	Device DeviceInfo `cbor:"5,keyasint"`

	// Pin is set for pin and pin-on-pin events.
	Pin *PinInfo `cbor:"6,keyasint,omitempty"`

	// Parent is the mux parent, set for pin-on-pin events only.
	Parent *PinInfo `cbor:"7,keyasint,omitempty"`
}

// Object names the kind of entity an event is about.
type Object uint8

const (
	// ObjectDevice is a clock-synchronization device.
	ObjectDevice Object = 0
	// ObjectPin is a pin on a device.
	ObjectPin Object = 1
	// ObjectPinOnPin is a pin nested under a mux parent.
	ObjectPinOnPin Object = 2
)

// String returns the object name.
func (o Object) String() string {
	switch o {
	case ObjectDevice:
		return "DEVICE"
	case ObjectPin:
		return "PIN"
	case ObjectPinOnPin:
		return "PIN-ON-PIN"
	default:
		return "UNKNOWN"
	}
}

// DeviceInfo is a point-in-time snapshot of a device's identity.
// Events outlive the objects they describe, so they carry copies
// rather than handles.
type DeviceInfo struct {
	// ID is the registry-assigned device identifier.
	ID uint32 `cbor:"1,keyasint"`

	// Name is the stable device name.
	Name string `cbor:"2,keyasint"`

	// ClockID is the hardware clock identity.
	ClockID dpll.ClockID `cbor:"3,keyasint"`

	// Module is the owning driver module name.
	Module string `cbor:"4,keyasint"`

	// Kind is the device kind, zero before first registration.
	Kind dpll.DeviceKind `cbor:"5,keyasint,omitempty"`
}

// PinInfo is a point-in-time snapshot of a pin's identity.
type PinInfo struct {
	// ID is the registry-assigned pin identifier.
	ID uint32 `cbor:"1,keyasint"`

	// Index is the driver-assigned pin index.
	Index uint32 `cbor:"2,keyasint"`

	// Label is the board label of the pin.
	Label string `cbor:"3,keyasint"`

	// Kind is the pin kind.
	Kind dpll.PinKind `cbor:"4,keyasint"`
}

// snapshotDevice copies the identity of d into a DeviceInfo.
func snapshotDevice(d *registry.Device) DeviceInfo {
	return DeviceInfo{
		ID:      d.ID(),
		Name:    d.Name(),
		ClockID: d.ClockID(),
		Module:  d.Module(),
		Kind:    d.Kind(),
	}
}

// snapshotPin copies the identity of p into a PinInfo.
func snapshotPin(p *registry.Pin) *PinInfo {
	return &PinInfo{
		ID:    p.ID(),
		Index: p.Index(),
		Label: p.Label(),
		Kind:  p.Kind(),
	}
}

// newEvent assembles an event from a notifier callback.
func newEvent(sessionID string, object Object, change registry.EventType, d *registry.Device, p, parent *registry.Pin) Event {
	e := Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Object:    object,
		Change:    change,
		Device:    snapshotDevice(d),
	}
	if p != nil {
		e.Pin = snapshotPin(p)
	}
	if parent != nil {
		e.Parent = snapshotPin(parent)
	}
	return e
}
