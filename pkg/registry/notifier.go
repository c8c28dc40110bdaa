package registry

// EventType classifies a registry change notification.
type EventType uint8

const (
	// EventCreated announces an object that just became visible.
	EventCreated EventType = 1

	// EventDeleted announces an object about to disappear.
	EventDeleted EventType = 2

	// EventChanged announces an attribute change on an existing object.
	EventChanged EventType = 3
)

// String returns the event type name.
func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "CREATED"
	case EventDeleted:
		return "DELETED"
	case EventChanged:
		return "CHANGED"
	default:
		return "UNKNOWN"
	}
}

// Notifier receives registry change notifications. Implementations in
// pkg/notify cover logging, fan-out and CBOR capture; the command
// layer installs its own to translate events onto its transport.
//
// Calls are best-effort and fire-and-forget: they run after the
// triggering mutation has committed, their outcome is ignored, and
// implementations must be safe for concurrent use. An implementation
// must not call back into mutating registry APIs.
type Notifier interface {
	// DeviceChange reports a device lifecycle or attribute event.
	DeviceChange(event EventType, device *Device)

	// PinChange reports a pin event on the given device.
	PinChange(event EventType, device *Device, pin *Pin)

	// PinOnPinChange reports a pin event observed through a mux
	// parent, once per device linked to the parent.
	PinOnPinChange(event EventType, device *Device, pin, parent *Pin)
}

// NoopNotifier discards all notifications. Used when no sink is
// configured; safe for concurrent use and usable as a zero value.
type NoopNotifier struct{}

// DeviceChange discards the event.
func (NoopNotifier) DeviceChange(EventType, *Device) {}

// PinChange discards the event.
func (NoopNotifier) PinChange(EventType, *Device, *Pin) {}

// PinOnPinChange discards the event.
func (NoopNotifier) PinOnPinChange(EventType, *Device, *Pin, *Pin) {}

// Compile-time interface satisfaction check.
var _ Notifier = NoopNotifier{}
