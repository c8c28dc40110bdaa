// Package dpll defines the shared vocabulary for DPLL (digitally
// controlled phase-locked loop) clock-synchronization hardware.
//
// # Domain Model
//
// A DPLL device locks a local oscillator's frequency or phase to a
// selected reference signal. Its clock-distribution hardware exposes
// pins: input (source) or output terminals, or software aggregations
// ("mux" pins) of several selectable terminals.
//
// This package holds the value types used across the module:
//
//   - Device classification: DeviceKind, Mode, LockStatus
//   - Pin classification: PinKind, PinDirection, PinState, PinCapabilities
//   - Immutable pin properties: PinProperties, FrequencyRange
//   - ClockID, the EUI-64 identity of the physical clock
//   - ErrorContext, the extended error channel for driver operations
//
// Enumeration values are stable and match the numbering used by the
// DPLL netlink family, so they can be carried onto a wire encoding
// without translation.
//
// The registry that manages devices and pins lives in pkg/registry;
// this package has no dependencies and no behavior beyond validation
// and formatting.
package dpll
