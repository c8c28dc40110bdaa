package registry

import "slices"

// pinRegistration is one owner attached to an edge: a (PinOps, priv)
// pair plus the number of times this exact pair was registered.
// Identical pairs are accepted on edges (unlike device registrations)
// and only bump the count.
type pinRegistration struct {
	ops   *PinOps
	priv  any
	count int
}

// pinRef is a half-edge pointing at a pin, held in a device's pin list
// or in a child pin's parent list. refcount is the total number of
// registrations across all owners; the edge lives while it is > 0.
type pinRef struct {
	pin      *Pin
	refcount int
	regs     []*pinRegistration
}

// deviceRef is the symmetric half-edge pointing at a device, held in a
// pin's device list.
type deviceRef struct {
	device   *Device
	refcount int
	regs     []*pinRegistration
}

func findReg(regs []*pinRegistration, ops *PinOps, priv any) *pinRegistration {
	for _, reg := range regs {
		if reg.ops == ops && reg.priv == priv {
			return reg
		}
	}
	return nil
}

// removeReg drops one count from reg, removing it from regs when no
// count remains. Returns the updated list.
func removeReg(regs []*pinRegistration, reg *pinRegistration) []*pinRegistration {
	reg.count--
	invariant(reg.count >= 0, "edge registration count went negative")
	if reg.count > 0 {
		return regs
	}
	i := slices.Index(regs, reg)
	return slices.Delete(regs, i, i+1)
}

// refPinFind returns the half-edge to pin, or nil.
func refPinFind(refs []*pinRef, pin *Pin) *pinRef {
	for _, ref := range refs {
		if ref.pin == pin {
			return ref
		}
	}
	return nil
}

// refDeviceFind returns the half-edge to device, or nil.
func refDeviceFind(refs []*deviceRef, device *Device) *deviceRef {
	for _, ref := range refs {
		if ref.device == device {
			return ref
		}
	}
	return nil
}

// refPinAdd registers (ops, priv) on the half-edge to pin, creating
// the edge if absent. limit > 0 caps the number of distinct edges in
// refs; a full list reports ErrResourceExhausted.
func refPinAdd(refs *[]*pinRef, pin *Pin, ops *PinOps, priv any, limit int) error {
	if ref := refPinFind(*refs, pin); ref != nil {
		if reg := findReg(ref.regs, ops, priv); reg != nil {
			reg.count++
		} else {
			ref.regs = append(ref.regs, &pinRegistration{ops: ops, priv: priv, count: 1})
		}
		ref.refcount++
		return nil
	}
	if limit > 0 && len(*refs) >= limit {
		return ErrResourceExhausted
	}
	*refs = append(*refs, &pinRef{
		pin:      pin,
		refcount: 1,
		regs:     []*pinRegistration{{ops: ops, priv: priv, count: 1}},
	})
	return nil
}

// refPinDel removes one (ops, priv) registration from the half-edge to
// pin, erasing the edge when its refcount returns to zero. Missing
// edge or registration means unbalanced calls and panics.
func refPinDel(refs *[]*pinRef, pin *Pin, ops *PinOps, priv any) {
	ref := refPinFind(*refs, pin)
	invariant(ref != nil, "unregistering pin with no edge")
	reg := findReg(ref.regs, ops, priv)
	invariant(reg != nil, "unregistering pin edge owner that never registered")
	ref.regs = removeReg(ref.regs, reg)
	ref.refcount--
	if ref.refcount == 0 {
		invariant(len(ref.regs) == 0, "dropped pin edge still has registrations")
		i := slices.Index(*refs, ref)
		*refs = slices.Delete(*refs, i, i+1)
	}
}

// refDeviceAdd is refPinAdd for the device side of the edge.
func refDeviceAdd(refs *[]*deviceRef, device *Device, ops *PinOps, priv any) {
	if ref := refDeviceFind(*refs, device); ref != nil {
		if reg := findReg(ref.regs, ops, priv); reg != nil {
			reg.count++
		} else {
			ref.regs = append(ref.regs, &pinRegistration{ops: ops, priv: priv, count: 1})
		}
		ref.refcount++
		return
	}
	*refs = append(*refs, &deviceRef{
		device:   device,
		refcount: 1,
		regs:     []*pinRegistration{{ops: ops, priv: priv, count: 1}},
	})
}

// refDeviceDel is refPinDel for the device side of the edge.
func refDeviceDel(refs *[]*deviceRef, device *Device, ops *PinOps, priv any) {
	ref := refDeviceFind(*refs, device)
	invariant(ref != nil, "unregistering device with no edge")
	reg := findReg(ref.regs, ops, priv)
	invariant(reg != nil, "unregistering device edge owner that never registered")
	ref.regs = removeReg(ref.regs, reg)
	ref.refcount--
	if ref.refcount == 0 {
		invariant(len(ref.regs) == 0, "dropped device edge still has registrations")
		i := slices.Index(*refs, ref)
		*refs = slices.Delete(*refs, i, i+1)
	}
}
