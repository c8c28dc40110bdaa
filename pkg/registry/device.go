package registry

import (
	"fmt"
	"slices"

	"github.com/clocksync/dpll-go/pkg/dpll"
)

// deviceRegistration is one owner attached to a device: a (DeviceOps,
// priv) pair plus the owner name recorded for diagnostics. Devices,
// unlike pin edges, reject duplicate pairs.
type deviceRegistration struct {
	ops   *DeviceOps
	priv  any
	owner string
}

// Device is a DPLL device handle managed by the Registry. Its identity
// (clock id, driver index, module) lets independent driver instances
// share one object for one physical clock engine.
//
// The identity accessors are safe without the registry lock; graph
// state (kind, visibility, edges) is only observed consistently
// through Registry methods.
type Device struct {
	id        uint32
	name      string
	clockID   dpll.ClockID
	driverIdx uint32
	module    string

	kind       dpll.DeviceKind
	refcount   int
	registered bool

	pinRefs       []*pinRef
	registrations []deviceRegistration
}

// ID returns the registry-assigned device handle.
func (d *Device) ID() uint32 { return d.id }

// Name returns the generated device name, unique per registry.
func (d *Device) Name() string { return d.name }

// ClockID returns the identity of the physical clock.
func (d *Device) ClockID() dpll.ClockID { return d.clockID }

// DriverIndex returns the driver-assigned device index on the clock.
func (d *Device) DriverIndex() uint32 { return d.driverIdx }

// Module returns the name of the module that owns the device identity.
func (d *Device) Module() string { return d.module }

// Kind returns the device kind, set by the first registration.
func (d *Device) Kind() dpll.DeviceKind { return d.kind }

// DeviceGet returns the device with the given identity, creating it if
// absent. Every call takes one reference; release it with DevicePut.
// The device is not visible to lookups until it is registered.
func (r *Registry) DeviceGet(clockID dpll.ClockID, driverIdx uint32, module string) (*Device, error) {
	if module == "" {
		return nil, fmt.Errorf("%w: empty module", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.devices {
		if d.clockID == clockID && d.driverIdx == driverIdx && d.module == module {
			d.refcount++
			return d, nil
		}
	}

	r.nextDeviceID++
	d := &Device{
		id:        r.nextDeviceID,
		name:      fmt.Sprintf("dpll-%s-%d-%s", clockID, driverIdx, module),
		clockID:   clockID,
		driverIdx: driverIdx,
		module:    module,
		refcount:  1,
	}
	r.devices = append(r.devices, d)
	r.logger.Debug("device allocated",
		"id", d.id, "name", d.name, "module", module)
	return d, nil
}

// DevicePut releases one reference on the device. The last put frees
// it; freeing a device that is still registered or still has pin edges
// panics, as does an unbalanced put.
func (r *Registry) DevicePut(d *Device) {
	invariant(d != nil, "put of nil device")

	r.mu.Lock()
	defer r.mu.Unlock()

	d.refcount--
	invariant(d.refcount >= 0, "unbalanced device put")
	if d.refcount > 0 {
		return
	}
	invariant(!d.registered, "freeing a registered device")
	invariant(len(d.pinRefs) == 0, "freeing a device with pin edges")
	i := slices.Index(r.devices, d)
	r.devices = slices.Delete(r.devices, i, i+1)
	r.logger.Debug("device freed", "id", d.id, "name", d.name)
}

// DeviceRegister attaches an owner's operations to the device and, on
// the first registration, makes it visible and fires a created
// notification. Registering an identical (ops, priv) pair twice
// reports ErrAlreadyRegistered; a kind that conflicts with an earlier
// registration reports ErrInvalidKind.
//
// priv identifies the registration together with ops and must be
// comparable, typically a pointer to driver state.
func (r *Registry) DeviceRegister(d *Device, kind dpll.DeviceKind, ops *DeviceOps, priv any, owner string) error {
	if d == nil || ops == nil {
		return fmt.Errorf("%w: nil device or ops", ErrInvalidArgument)
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: device kind %d", ErrInvalidKind, kind)
	}
	if !comparablePriv(priv) {
		return fmt.Errorf("%w: priv %T is not comparable", ErrInvalidArgument, priv)
	}

	r.mu.Lock()
	if d.registered && d.kind != kind {
		r.mu.Unlock()
		return fmt.Errorf("%w: device %s registered as %s, got %s",
			ErrInvalidKind, d.name, d.kind, kind)
	}
	for _, reg := range d.registrations {
		if reg.ops == ops && reg.priv == priv {
			r.mu.Unlock()
			return fmt.Errorf("%w: device %s", ErrAlreadyRegistered, d.name)
		}
	}
	first := len(d.registrations) == 0
	d.registrations = append(d.registrations, deviceRegistration{ops: ops, priv: priv, owner: owner})
	if first {
		d.kind = kind
		d.registered = true
	}
	notifier := r.notifier
	r.mu.Unlock()

	r.logger.Info("device registered",
		"name", d.name, "kind", kind.String(), "owner", owner)
	if first {
		notifier.DeviceChange(EventCreated, d)
	}
	return nil
}

// DeviceUnregister detaches the registration matching (ops, priv).
// When the last registration goes, the device becomes invisible and a
// deleted notification fires. Unregistering a pair that was never
// registered, or a device that is not registered at all, panics.
func (r *Registry) DeviceUnregister(d *Device, ops *DeviceOps, priv any) {
	invariant(d != nil, "unregister of nil device")

	last := func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()

		invariant(d.registered, "unregistering a device that is not registered")
		i := slices.IndexFunc(d.registrations, func(reg deviceRegistration) bool {
			return reg.ops == ops && reg.priv == priv
		})
		invariant(i >= 0, "unregistering device owner that never registered")
		d.registrations = slices.Delete(d.registrations, i, i+1)
		if len(d.registrations) == 0 {
			d.registered = false
			return true
		}
		return false
	}()

	r.logger.Info("device unregistered", "name", d.name)
	if last {
		r.notifier.DeviceChange(EventDeleted, d)
	}
}

// DeviceByID returns the registered device with the given handle.
func (r *Registry) DeviceByID(id uint32) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.devices {
		if d.registered && d.id == id {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: device id %d", ErrNotFound, id)
}

// DeviceByName returns the registered device with the given name.
func (r *Registry) DeviceByName(name string) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.devices {
		if d.registered && d.name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: device %q", ErrNotFound, name)
}

// DeviceByClockID returns the registered device matching clock
// identity, kind and driver index. This is how a driver instance finds
// a device registered by another instance sharing its hardware.
func (r *Registry) DeviceByClockID(clockID dpll.ClockID, kind dpll.DeviceKind, driverIdx uint32) (*Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.devices {
		if d.registered && d.clockID == clockID && d.kind == kind && d.driverIdx == driverIdx {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: clock %s kind %s idx %d", ErrNotFound, clockID, kind, driverIdx)
}

// Devices returns a snapshot of all registered devices in creation
// order.
func (r *Registry) Devices() []*Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Device, 0, len(r.devices))
	for _, d := range r.devices {
		if d.registered {
			out = append(out, d)
		}
	}
	return out
}
