package registry

import (
	"fmt"
	"slices"

	"github.com/clocksync/dpll-go/pkg/dpll"
)

// Pin is a DPLL pin handle managed by the Registry. Like devices, pins
// are identified by (clock id, pin index, module) so that driver
// instances sharing hardware converge on one object per physical pin.
type Pin struct {
	id      uint32
	clockID dpll.ClockID
	index   uint32
	module  string
	props   dpll.PinProperties

	// rclkDevice names the network interface whose recovered clock
	// this pin carries. Recorded by the first registration that
	// supplies one, empty otherwise.
	rclkDevice string

	refcount int

	dpllRefs   []*deviceRef
	parentRefs []*pinRef
}

// ID returns the registry-assigned pin handle.
func (p *Pin) ID() uint32 { return p.id }

// ClockID returns the identity of the physical clock.
func (p *Pin) ClockID() dpll.ClockID { return p.clockID }

// Index returns the driver-assigned pin index on the clock.
func (p *Pin) Index() uint32 { return p.index }

// Module returns the name of the module that owns the pin identity.
func (p *Pin) Module() string { return p.module }

// Label returns the board label of the pin.
func (p *Pin) Label() string { return p.props.Label }

// Kind returns the pin kind.
func (p *Pin) Kind() dpll.PinKind { return p.props.Kind }

// Properties returns a copy of the pin's immutable properties.
func (p *Pin) Properties() dpll.PinProperties { return p.props.Clone() }

// RecoveredClockDevice returns the network interface name associated
// with the pin's recovered clock, or "" if none was registered.
func (p *Pin) RecoveredClockDevice() string { return p.rclkDevice }

// PinGet returns the pin with the given identity, creating it from
// props if absent. Every call takes one reference; release it with
// PinPut. When the pin already exists, props is ignored: the first
// creator fixes the immutable properties.
func (r *Registry) PinGet(clockID dpll.ClockID, pinIdx uint32, module string, props dpll.PinProperties) (*Pin, error) {
	if module == "" {
		return nil, fmt.Errorf("%w: empty module", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.pins {
		if p.clockID == clockID && p.index == pinIdx && p.module == module {
			p.refcount++
			return p, nil
		}
	}

	if err := props.Validate(); err != nil {
		if !props.Kind.Valid() {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKind, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	r.nextPinID++
	p := &Pin{
		id:       r.nextPinID,
		clockID:  clockID,
		index:    pinIdx,
		module:   module,
		props:    props.Clone(),
		refcount: 1,
	}
	r.pins = append(r.pins, p)
	r.logger.Debug("pin allocated",
		"id", p.id, "label", p.props.Label, "kind", p.props.Kind.String(), "module", module)
	return p, nil
}

// PinPut releases one reference on the pin. The last put frees it;
// freeing a pin that still has device or parent edges panics, as does
// an unbalanced put.
func (r *Registry) PinPut(p *Pin) {
	invariant(p != nil, "put of nil pin")

	r.mu.Lock()
	defer r.mu.Unlock()

	p.refcount--
	invariant(p.refcount >= 0, "unbalanced pin put")
	if p.refcount > 0 {
		return
	}
	invariant(len(p.dpllRefs) == 0, "freeing a pin with device edges")
	invariant(len(p.parentRefs) == 0, "freeing a pin with parent edges")
	i := slices.Index(r.pins, p)
	r.pins = slices.Delete(r.pins, i, i+1)
	r.logger.Debug("pin freed", "id", p.id, "label", p.props.Label)
}

// pinRegisterLocked wires the bidirectional device↔pin edge. The
// device-side half goes first because it is the only fallible step
// (the per-device pin cap); the pin-side half cannot fail, so no
// unwind of the first half is ever needed on this path.
func (r *Registry) pinRegisterLocked(d *Device, p *Pin, ops *PinOps, priv any) error {
	if err := refPinAdd(&d.pinRefs, p, ops, priv, r.maxPinsPerDevice); err != nil {
		return fmt.Errorf("linking pin %q to device %s: %w", p.props.Label, d.name, err)
	}
	refDeviceAdd(&p.dpllRefs, d, ops, priv)
	return nil
}

// pinUnregisterLocked reverses both halves of the device↔pin edge.
func (r *Registry) pinUnregisterLocked(d *Device, p *Pin, ops *PinOps, priv any) {
	refPinDel(&d.pinRefs, p, ops, priv)
	refDeviceDel(&p.dpllRefs, d, ops, priv)
}

// PinRegister wires a bidirectional edge between device and pin and
// attaches (ops, priv) to it. Registering an identical pair again is
// accepted and bumps the edge refcount; the edge then survives the
// same number of PinUnregister calls.
//
// rclkDevice, if non-empty, records the pin's recovered-clock network
// interface; only the first non-empty value ever supplied for the pin
// sticks. A created notification fires on success.
//
// priv identifies the registration together with ops and must be
// comparable, typically a pointer to driver state.
func (r *Registry) PinRegister(d *Device, p *Pin, ops *PinOps, priv any, rclkDevice string) error {
	if d == nil || p == nil || ops == nil {
		return fmt.Errorf("%w: nil device, pin or ops", ErrInvalidArgument)
	}
	if !comparablePriv(priv) {
		return fmt.Errorf("%w: priv %T is not comparable", ErrInvalidArgument, priv)
	}

	r.mu.Lock()
	if err := r.pinRegisterLocked(d, p, ops, priv); err != nil {
		r.mu.Unlock()
		return err
	}
	if rclkDevice != "" && p.rclkDevice == "" {
		p.rclkDevice = rclkDevice
	}
	notifier := r.notifier
	r.mu.Unlock()

	r.logger.Debug("pin registered",
		"pin", p.props.Label, "device", d.name)
	notifier.PinChange(EventCreated, d, p)
	return nil
}

// PinUnregister removes one (ops, priv) registration from the edge
// between device and pin, dropping the edge when its refcount reaches
// zero. Calling it on a device with no pin edges, or with a pair that
// was never registered, panics. A deleted notification fires.
func (r *Registry) PinUnregister(d *Device, p *Pin, ops *PinOps, priv any) {
	invariant(d != nil && p != nil, "unregister of nil device or pin")

	func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		invariant(len(d.pinRefs) != 0, "unregistering pin on a device with no pin edges")
		r.pinUnregisterLocked(d, p, ops, priv)
	}()

	r.logger.Debug("pin unregistered",
		"pin", p.props.Label, "device", d.name)
	r.notifier.PinChange(EventDeleted, d, p)
}

// PinOnPinRegister registers child under the mux pin parent and
// propagates the child to every device currently linked to the parent,
// in the order those links were created. The call is transactional: if
// propagation to any device fails, the registrations already made are
// unwound in the same order, the parent edge and the child reference
// are released, and the child ends with no device edges.
func (r *Registry) PinOnPinRegister(parent, child *Pin, ops *PinOps, priv any, rclkDevice string) error {
	if parent == nil || child == nil || ops == nil {
		return fmt.Errorf("%w: nil parent, child or ops", ErrInvalidArgument)
	}
	if !comparablePriv(priv) {
		return fmt.Errorf("%w: priv %T is not comparable", ErrInvalidArgument, priv)
	}
	if parent == child {
		return fmt.Errorf("%w: pin cannot parent itself", ErrInvalidArgument)
	}
	if parent.props.Kind != dpll.PinKindMux {
		return fmt.Errorf("%w: parent pin %q is %s, want MUX",
			ErrInvalidKind, parent.props.Label, parent.props.Kind)
	}

	var done []*Device
	err := func() error {
		r.mu.Lock()
		defer r.mu.Unlock()

		if err := refPinAdd(&child.parentRefs, parent, ops, priv, 0); err != nil {
			return err
		}
		child.refcount++
		setRclk := rclkDevice != "" && child.rclkDevice == ""
		if setRclk {
			child.rclkDevice = rclkDevice
		}

		for _, dref := range slices.Clone(parent.dpllRefs) {
			if err := r.pinRegisterLocked(dref.device, child, ops, priv); err != nil {
				for _, dev := range done {
					r.pinUnregisterLocked(dev, child, ops, priv)
				}
				refPinDel(&child.parentRefs, parent, ops, priv)
				child.refcount--
				if setRclk {
					child.rclkDevice = ""
				}
				return err
			}
			done = append(done, dref.device)
		}
		return nil
	}()
	if err != nil {
		return err
	}

	r.logger.Debug("pin registered on parent",
		"pin", child.props.Label, "parent", parent.props.Label, "devices", len(done))
	for _, dev := range done {
		r.notifier.PinOnPinChange(EventCreated, dev, child, parent)
	}
	return nil
}

// PinOnPinUnregister removes the parent edge between child and parent
// and unregisters the child from every device still linked to the
// parent. Unbalanced calls panic. Deleted notifications fire per
// affected device.
func (r *Registry) PinOnPinUnregister(parent, child *Pin, ops *PinOps, priv any) {
	invariant(parent != nil && child != nil, "unregister of nil parent or child pin")

	var devices []*Device
	func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		refPinDel(&child.parentRefs, parent, ops, priv)
		child.refcount--
		invariant(child.refcount >= 0, "unbalanced pin-on-pin unregister")
		for _, dref := range slices.Clone(parent.dpllRefs) {
			r.pinUnregisterLocked(dref.device, child, ops, priv)
			devices = append(devices, dref.device)
		}
	}()

	r.logger.Debug("pin unregistered from parent",
		"pin", child.props.Label, "parent", parent.props.Label, "devices", len(devices))
	for _, dev := range devices {
		r.notifier.PinOnPinChange(EventDeleted, dev, child, parent)
	}
}

// PinByIndex returns the pin with the given index among the device's
// pin edges.
func (r *Registry) PinByIndex(d *Device, idx uint32) (*Pin, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ref := range d.pinRefs {
		if ref.pin.index == idx {
			return ref.pin, nil
		}
	}
	return nil, fmt.Errorf("%w: pin idx %d on device %s", ErrNotFound, idx, d.name)
}

// PinByLabel returns the pin with the given board label among the
// device's pin edges.
func (r *Registry) PinByLabel(d *Device, label string) (*Pin, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ref := range d.pinRefs {
		if ref.pin.props.Label == label {
			return ref.pin, nil
		}
	}
	return nil, fmt.Errorf("%w: pin %q on device %s", ErrNotFound, label, d.name)
}

// Pins returns a snapshot of the device's pins in the order their
// edges were created.
func (r *Registry) Pins(d *Device) []*Pin {
	if d == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Pin, 0, len(d.pinRefs))
	for _, ref := range d.pinRefs {
		out = append(out, ref.pin)
	}
	return out
}

// Parents returns a snapshot of the pin's mux parents in the order
// their edges were created.
func (r *Registry) Parents(p *Pin) []*Pin {
	if p == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Pin, 0, len(p.parentRefs))
	for _, ref := range p.parentRefs {
		out = append(out, ref.pin)
	}
	return out
}
