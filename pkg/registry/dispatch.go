package registry

import (
	"fmt"

	"github.com/clocksync/dpll-go/pkg/dpll"
)

// Operation dispatch for the command layer. Each helper resolves the
// first registration of the relevant entity or edge under the registry
// lock, then invokes the driver operation with the lock released, so a
// slow driver cannot stall the registry and drivers may take their own
// locks freely. Attribute-changing setters fire the matching changed
// notification on success.

// deviceDispatch resolves the device's first registration.
func (r *Registry) deviceDispatch(d *Device) (deviceRegistration, error) {
	if d == nil {
		return deviceRegistration{}, fmt.Errorf("%w: nil device", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(d.registrations) == 0 {
		return deviceRegistration{}, fmt.Errorf("%w: device %s has no registrations",
			ErrNotFound, d.name)
	}
	return d.registrations[0], nil
}

// edgeDispatch resolves the first registration of the device↔pin edge
// plus the device's own private data.
func (r *Registry) edgeDispatch(d *Device, p *Pin) (ops *PinOps, priv, devPriv any, err error) {
	if d == nil || p == nil {
		return nil, nil, nil, fmt.Errorf("%w: nil device or pin", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ref := refDeviceFind(p.dpllRefs, d)
	if ref == nil {
		return nil, nil, nil, fmt.Errorf("%w: pin %q has no edge to device %s",
			ErrNotFound, p.props.Label, d.name)
	}
	if len(d.registrations) > 0 {
		devPriv = d.registrations[0].priv
	}
	return ref.regs[0].ops, ref.regs[0].priv, devPriv, nil
}

// parentEdgeDispatch resolves the first registration of the
// pin↔parent edge plus the parent's first device-edge private data.
func (r *Registry) parentEdgeDispatch(parent, p *Pin) (ops *PinOps, priv, parentPriv any, err error) {
	if parent == nil || p == nil {
		return nil, nil, nil, fmt.Errorf("%w: nil parent or pin", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ref := refPinFind(p.parentRefs, parent)
	if ref == nil {
		return nil, nil, nil, fmt.Errorf("%w: pin %q has no edge to parent %q",
			ErrNotFound, p.props.Label, parent.props.Label)
	}
	if len(parent.dpllRefs) > 0 {
		parentPriv = parent.dpllRefs[0].regs[0].priv
	}
	return ref.regs[0].ops, ref.regs[0].priv, parentPriv, nil
}

// notifyParentDevices fires a pin-on-pin event for every device linked
// to parent.
func (r *Registry) notifyParentDevices(event EventType, parent, p *Pin) {
	r.mu.Lock()
	devices := make([]*Device, 0, len(parent.dpllRefs))
	for _, dref := range parent.dpllRefs {
		devices = append(devices, dref.device)
	}
	notifier := r.notifier
	r.mu.Unlock()

	for _, dev := range devices {
		notifier.PinOnPinChange(event, dev, p, parent)
	}
}

// DeviceModeGet reads the device's working mode.
func (r *Registry) DeviceModeGet(d *Device, ec *dpll.ErrorContext) (dpll.Mode, error) {
	reg, err := r.deviceDispatch(d)
	if err != nil {
		return 0, err
	}
	if reg.ops.ModeGet == nil {
		return 0, fmt.Errorf("%w: mode get", ErrUnsupported)
	}
	return reg.ops.ModeGet(d, reg.priv, ec)
}

// DeviceModeSet switches the device's working mode.
func (r *Registry) DeviceModeSet(d *Device, mode dpll.Mode, ec *dpll.ErrorContext) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: mode %d", ErrInvalidArgument, mode)
	}
	reg, err := r.deviceDispatch(d)
	if err != nil {
		return err
	}
	if reg.ops.ModeSet == nil {
		return fmt.Errorf("%w: mode set", ErrUnsupported)
	}
	if err := reg.ops.ModeSet(d, reg.priv, mode, ec); err != nil {
		return err
	}
	r.notifier.DeviceChange(EventChanged, d)
	return nil
}

// DeviceModeSupported reports whether the device can run in mode.
func (r *Registry) DeviceModeSupported(d *Device, mode dpll.Mode, ec *dpll.ErrorContext) (bool, error) {
	if !mode.Valid() {
		return false, fmt.Errorf("%w: mode %d", ErrInvalidArgument, mode)
	}
	reg, err := r.deviceDispatch(d)
	if err != nil {
		return false, err
	}
	if reg.ops.ModeSupported == nil {
		return false, fmt.Errorf("%w: mode supported", ErrUnsupported)
	}
	return reg.ops.ModeSupported(d, reg.priv, mode, ec)
}

// DeviceLockStatusGet reads the device's lock status.
func (r *Registry) DeviceLockStatusGet(d *Device, ec *dpll.ErrorContext) (dpll.LockStatus, error) {
	reg, err := r.deviceDispatch(d)
	if err != nil {
		return 0, err
	}
	if reg.ops.LockStatusGet == nil {
		return 0, fmt.Errorf("%w: lock status get", ErrUnsupported)
	}
	return reg.ops.LockStatusGet(d, reg.priv, ec)
}

// DeviceTemperatureGet reads the device temperature in millidegrees
// Celsius.
func (r *Registry) DeviceTemperatureGet(d *Device, ec *dpll.ErrorContext) (int32, error) {
	reg, err := r.deviceDispatch(d)
	if err != nil {
		return 0, err
	}
	if reg.ops.TemperatureGet == nil {
		return 0, fmt.Errorf("%w: temperature get", ErrUnsupported)
	}
	return reg.ops.TemperatureGet(d, reg.priv, ec)
}

// DeviceSourcePinIndexGet reads the index of the currently selected
// source pin.
func (r *Registry) DeviceSourcePinIndexGet(d *Device, ec *dpll.ErrorContext) (uint32, error) {
	reg, err := r.deviceDispatch(d)
	if err != nil {
		return 0, err
	}
	if reg.ops.SourcePinIndexGet == nil {
		return 0, fmt.Errorf("%w: source pin index get", ErrUnsupported)
	}
	return reg.ops.SourcePinIndexGet(d, reg.priv, ec)
}

// PinFrequencyGet reads the pin frequency on the device.
func (r *Registry) PinFrequencyGet(d *Device, p *Pin, ec *dpll.ErrorContext) (uint64, error) {
	ops, priv, devPriv, err := r.edgeDispatch(d, p)
	if err != nil {
		return 0, err
	}
	if ops.FrequencyGet == nil {
		return 0, fmt.Errorf("%w: frequency get", ErrUnsupported)
	}
	return ops.FrequencyGet(p, priv, d, devPriv, ec)
}

// PinFrequencySet sets the pin frequency. The frequency must fall in
// one of the pin's supported ranges.
func (r *Registry) PinFrequencySet(d *Device, p *Pin, freq uint64, ec *dpll.ErrorContext) error {
	if p != nil && !p.props.FrequencySupported(freq) {
		return fmt.Errorf("%w: frequency %d Hz not supported on pin %q",
			ErrInvalidArgument, freq, p.props.Label)
	}
	ops, priv, devPriv, err := r.edgeDispatch(d, p)
	if err != nil {
		return err
	}
	if ops.FrequencySet == nil {
		return fmt.Errorf("%w: frequency set", ErrUnsupported)
	}
	if err := ops.FrequencySet(p, priv, d, devPriv, freq, ec); err != nil {
		return err
	}
	r.notifier.PinChange(EventChanged, d, p)
	return nil
}

// PinDirectionGet reads the pin direction on the device.
func (r *Registry) PinDirectionGet(d *Device, p *Pin, ec *dpll.ErrorContext) (dpll.PinDirection, error) {
	ops, priv, devPriv, err := r.edgeDispatch(d, p)
	if err != nil {
		return 0, err
	}
	if ops.DirectionGet == nil {
		return 0, fmt.Errorf("%w: direction get", ErrUnsupported)
	}
	return ops.DirectionGet(p, priv, d, devPriv, ec)
}

// PinDirectionSet sets the pin direction. The pin must carry the
// direction-can-change capability.
func (r *Registry) PinDirectionSet(d *Device, p *Pin, dir dpll.PinDirection, ec *dpll.ErrorContext) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: direction %d", ErrInvalidArgument, dir)
	}
	if p != nil && !p.props.Capabilities.Has(dpll.CapDirectionCanChange) {
		return fmt.Errorf("%w: pin %q direction is fixed", ErrUnsupported, p.props.Label)
	}
	ops, priv, devPriv, err := r.edgeDispatch(d, p)
	if err != nil {
		return err
	}
	if ops.DirectionSet == nil {
		return fmt.Errorf("%w: direction set", ErrUnsupported)
	}
	if err := ops.DirectionSet(p, priv, d, devPriv, dir, ec); err != nil {
		return err
	}
	r.notifier.PinChange(EventChanged, d, p)
	return nil
}

// PinStateOnDeviceGet reads the pin's selection state on the device.
func (r *Registry) PinStateOnDeviceGet(d *Device, p *Pin, ec *dpll.ErrorContext) (dpll.PinState, error) {
	ops, priv, devPriv, err := r.edgeDispatch(d, p)
	if err != nil {
		return 0, err
	}
	if ops.StateOnDeviceGet == nil {
		return 0, fmt.Errorf("%w: state on device get", ErrUnsupported)
	}
	return ops.StateOnDeviceGet(p, priv, d, devPriv, ec)
}

// PinStateOnDeviceSet sets the pin's selection state on the device.
// The pin must carry the state-can-change capability.
func (r *Registry) PinStateOnDeviceSet(d *Device, p *Pin, state dpll.PinState, ec *dpll.ErrorContext) error {
	if !state.Valid() {
		return fmt.Errorf("%w: pin state %d", ErrInvalidArgument, state)
	}
	if p != nil && !p.props.Capabilities.Has(dpll.CapStateCanChange) {
		return fmt.Errorf("%w: pin %q state is fixed", ErrUnsupported, p.props.Label)
	}
	ops, priv, devPriv, err := r.edgeDispatch(d, p)
	if err != nil {
		return err
	}
	if ops.StateOnDeviceSet == nil {
		return fmt.Errorf("%w: state on device set", ErrUnsupported)
	}
	if err := ops.StateOnDeviceSet(p, priv, d, devPriv, state, ec); err != nil {
		return err
	}
	r.notifier.PinChange(EventChanged, d, p)
	return nil
}

// PinStateOnPinGet reads the pin's selection state on its mux parent.
func (r *Registry) PinStateOnPinGet(parent, p *Pin, ec *dpll.ErrorContext) (dpll.PinState, error) {
	ops, priv, parentPriv, err := r.parentEdgeDispatch(parent, p)
	if err != nil {
		return 0, err
	}
	if ops.StateOnPinGet == nil {
		return 0, fmt.Errorf("%w: state on pin get", ErrUnsupported)
	}
	return ops.StateOnPinGet(p, priv, parent, parentPriv, ec)
}

// PinStateOnPinSet sets the pin's selection state on its mux parent.
// The pin must carry the state-can-change capability.
func (r *Registry) PinStateOnPinSet(parent, p *Pin, state dpll.PinState, ec *dpll.ErrorContext) error {
	if !state.Valid() {
		return fmt.Errorf("%w: pin state %d", ErrInvalidArgument, state)
	}
	if p != nil && !p.props.Capabilities.Has(dpll.CapStateCanChange) {
		return fmt.Errorf("%w: pin %q state is fixed", ErrUnsupported, p.props.Label)
	}
	ops, priv, parentPriv, err := r.parentEdgeDispatch(parent, p)
	if err != nil {
		return err
	}
	if ops.StateOnPinSet == nil {
		return fmt.Errorf("%w: state on pin set", ErrUnsupported)
	}
	if err := ops.StateOnPinSet(p, priv, parent, parentPriv, state, ec); err != nil {
		return err
	}
	r.notifyParentDevices(EventChanged, parent, p)
	return nil
}

// PinPriorityGet reads the pin's priority on the device.
func (r *Registry) PinPriorityGet(d *Device, p *Pin, ec *dpll.ErrorContext) (uint32, error) {
	ops, priv, devPriv, err := r.edgeDispatch(d, p)
	if err != nil {
		return 0, err
	}
	if ops.PriorityGet == nil {
		return 0, fmt.Errorf("%w: priority get", ErrUnsupported)
	}
	return ops.PriorityGet(p, priv, d, devPriv, ec)
}

// PinPrioritySet sets the pin's priority on the device. The pin must
// carry the priority-can-change capability.
func (r *Registry) PinPrioritySet(d *Device, p *Pin, prio uint32, ec *dpll.ErrorContext) error {
	if p != nil && !p.props.Capabilities.Has(dpll.CapPriorityCanChange) {
		return fmt.Errorf("%w: pin %q priority is fixed", ErrUnsupported, p.props.Label)
	}
	ops, priv, devPriv, err := r.edgeDispatch(d, p)
	if err != nil {
		return err
	}
	if ops.PrioritySet == nil {
		return fmt.Errorf("%w: priority set", ErrUnsupported)
	}
	if err := ops.PrioritySet(p, priv, d, devPriv, prio, ec); err != nil {
		return err
	}
	r.notifier.PinChange(EventChanged, d, p)
	return nil
}
