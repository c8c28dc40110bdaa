// Package registry implements the shared, multi-owner registry of DPLL
// devices and their pins.
//
// # Why a shared registry
//
// Several independent hardware drivers may control the same physical
// oscillator or share physical pins: a dual-port NIC exposes one clock
// through two PCI functions, a mux pin fans one input out to many
// devices. The registry gives all of them one identity table, so a
// driver instance can rediscover and attach to a device or pin another
// instance already created, instead of duplicating the hardware object:
//
//	d, _ := reg.DeviceGet(clockID, 0, "ice")   // creates
//	d2, _ := reg.DeviceGet(clockID, 0, "ice")  // same handle, refcount 2
//
// # Object model
//
//	Registry
//	├── Device (clock id, driver index, module)
//	│   ├── registrations: per-owner (DeviceOps, priv) pairs
//	│   └── edges to pins
//	└── Pin (clock id, pin index, module) + immutable PinProperties
//	    ├── edges to devices
//	    └── edges to parent (mux) pins
//
// Devices and pins are reference counted: DeviceGet/PinGet either
// create with refcount 1 or return the existing object with its count
// raised, DevicePut/PinPut release. An object is freed only at count
// zero, and only if it is unregistered and has no remaining edges;
// breaking that invariant is caller misuse and panics.
//
// Every device↔pin and pin↔parent association is an edge reference: a
// refcounted record carrying the ordered list of owner registrations
// that created it. The edge is created on first registration and
// removed when its count returns to zero. Operation dispatch for an
// edge always uses its first registration; later registrants are
// event subscribers, not alternate operation providers.
//
// Registering a child pin under a mux parent propagates the child to
// every device already linked to the parent. The propagation is
// transactional: if wiring the child to any device fails, all edges
// created by the call are unwound before the error returns, and the
// child ends with no device edges.
//
// # Visibility
//
// A device is visible to DeviceByID, DeviceByName, DeviceByClockID and
// Devices only while it holds at least one registration. The first
// DeviceRegister makes it visible and fires a created notification;
// removing the last registration hides it and fires a deleted one.
//
// # Locking
//
// One registry-wide lock serializes all mutations and lookups. The
// graph is cross-linked in both directions, so no fixed partial order
// exists that would make per-object locks deadlock-free; a single lock
// trades intra-registry concurrency for correctness, which is a good
// trade at the object counts involved (rarely more than a few dozen
// pins per host). Driver operations are invoked after the lock is
// released. Code running inside a driver operation must not call back
// into a mutating registry API while holding a driver-private lock the
// driver's own operations also take.
//
// Notifications are fire-and-forget: the registry invokes the
// configured Notifier after a mutation commits and never rolls back or
// fails a call on account of the sink.
package registry
