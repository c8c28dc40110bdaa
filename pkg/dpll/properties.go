package dpll

import (
	"errors"
	"fmt"
	"slices"
)

// Property validation errors.
var (
	ErrNoLabel           = errors.New("pin label must not be empty")
	ErrBadPinKind        = errors.New("unknown pin kind")
	ErrBadFrequencyRange = errors.New("frequency range min exceeds max")
)

// Well-known pin frequencies, in Hz.
const (
	Frequency1Hz     uint64 = 1
	Frequency10KHz   uint64 = 10_000
	Frequency77_5KHz uint64 = 77_500
	Frequency10MHz   uint64 = 10_000_000
)

// FrequencyRange is an inclusive range of frequencies, in Hz.
type FrequencyRange struct {
	Min uint64
	Max uint64
}

// Contains reports whether freq falls within the range.
func (r FrequencyRange) Contains(freq uint64) bool {
	return freq >= r.Min && freq <= r.Max
}

// PinProperties are the immutable characteristics of a pin, fixed by
// the board design and supplied by the driver when the pin is first
// obtained from the registry.
type PinProperties struct {
	// Label distinguishes the pin on its board, e.g. "SMA1".
	Label string

	// Kind classifies the pin's signal source or role.
	Kind PinKind

	// Capabilities lists which attributes may change at runtime.
	Capabilities PinCapabilities

	// FrequenciesSupported lists the frequency ranges the pin can
	// produce or accept. Empty means frequency is not configurable.
	FrequenciesSupported []FrequencyRange
}

// Validate checks the properties for internal consistency.
func (p PinProperties) Validate() error {
	if p.Label == "" {
		return ErrNoLabel
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("%w: %d", ErrBadPinKind, p.Kind)
	}
	for _, r := range p.FrequenciesSupported {
		if r.Min > r.Max {
			return fmt.Errorf("%w: [%d, %d]", ErrBadFrequencyRange, r.Min, r.Max)
		}
	}
	return nil
}

// FrequencySupported reports whether freq falls in any supported range.
func (p PinProperties) FrequencySupported(freq uint64) bool {
	for _, r := range p.FrequenciesSupported {
		if r.Contains(freq) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, so registry-held properties cannot be
// mutated through the caller's slice.
func (p PinProperties) Clone() PinProperties {
	p.FrequenciesSupported = slices.Clone(p.FrequenciesSupported)
	return p
}
