package registry

import "fmt"

// DevicePrivate returns the private data of the device's first
// registration, the one operation dispatch uses. ErrNotFound if the
// device is not registered.
func (r *Registry) DevicePrivate(d *Device) (any, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil device", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(d.registrations) == 0 {
		return nil, fmt.Errorf("%w: device %s has no registrations", ErrNotFound, d.name)
	}
	return d.registrations[0].priv, nil
}

// PinOnDevicePrivate returns the private data of the first
// registration on the device↔pin edge.
func (r *Registry) PinOnDevicePrivate(d *Device, p *Pin) (any, error) {
	if d == nil || p == nil {
		return nil, fmt.Errorf("%w: nil device or pin", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ref := refDeviceFind(p.dpllRefs, d)
	if ref == nil {
		return nil, fmt.Errorf("%w: pin %q has no edge to device %s",
			ErrNotFound, p.props.Label, d.name)
	}
	return ref.regs[0].priv, nil
}

// PinOnPinPrivate returns the private data of the first registration
// on the pin↔parent edge.
func (r *Registry) PinOnPinPrivate(parent, p *Pin) (any, error) {
	if parent == nil || p == nil {
		return nil, fmt.Errorf("%w: nil parent or pin", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ref := refPinFind(p.parentRefs, parent)
	if ref == nil {
		return nil, fmt.Errorf("%w: pin %q has no edge to parent %q",
			ErrNotFound, p.props.Label, parent.props.Label)
	}
	return ref.regs[0].priv, nil
}

// PinOnDeviceOps returns the operations table of the first
// registration on the device↔pin edge.
func (r *Registry) PinOnDeviceOps(d *Device, p *Pin) (*PinOps, error) {
	if d == nil || p == nil {
		return nil, fmt.Errorf("%w: nil device or pin", ErrInvalidArgument)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ref := refDeviceFind(p.dpllRefs, d)
	if ref == nil {
		return nil, fmt.Errorf("%w: pin %q has no edge to device %s",
			ErrNotFound, p.props.Label, d.name)
	}
	return ref.regs[0].ops, nil
}
