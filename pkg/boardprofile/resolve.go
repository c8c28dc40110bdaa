package boardprofile

import (
	"fmt"

	"github.com/clocksync/dpll-go/pkg/dpll"
)

// Profile is a resolved board profile with typed fields.
type Profile struct {
	Board   string
	ClockID dpll.ClockID
	Module  string
	Devices []DeviceSpec
	Pins    []PinSpec
}

// DeviceSpec is a resolved device declaration.
type DeviceSpec struct {
	DriverIndex uint32
	Kind        dpll.DeviceKind
}

// PinSpec is a resolved pin declaration.
type PinSpec struct {
	Index          uint32
	Properties     dpll.PinProperties
	Parent         string
	RecoveredClock string
}

// Resolve converts a raw profile into typed declarations, checking
// enum names, label uniqueness and parent references.
func Resolve(raw *RawProfile) (*Profile, error) {
	if raw.Module == "" {
		return nil, fmt.Errorf("profile %q: module is required", raw.Board)
	}
	if raw.ClockID == 0 {
		return nil, fmt.Errorf("profile %q: clockId is required", raw.Board)
	}
	if len(raw.Devices) == 0 {
		return nil, fmt.Errorf("profile %q: at least one device is required", raw.Board)
	}

	p := &Profile{
		Board:   raw.Board,
		ClockID: dpll.ClockID(raw.ClockID),
		Module:  raw.Module,
	}

	seenIdx := make(map[uint32]bool, len(raw.Devices))
	for _, rd := range raw.Devices {
		if seenIdx[rd.DriverIndex] {
			return nil, fmt.Errorf("duplicate device index %d", rd.DriverIndex)
		}
		seenIdx[rd.DriverIndex] = true

		kind, err := ParseDeviceKind(rd.Kind)
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", rd.DriverIndex, err)
		}
		p.Devices = append(p.Devices, DeviceSpec{DriverIndex: rd.DriverIndex, Kind: kind})
	}

	labels := make(map[string]dpll.PinKind, len(raw.Pins))
	seenPin := make(map[uint32]bool, len(raw.Pins))
	for _, rp := range raw.Pins {
		if rp.Label == "" {
			return nil, fmt.Errorf("pin %d: label is required", rp.Index)
		}
		if seenPin[rp.Index] {
			return nil, fmt.Errorf("duplicate pin index %d", rp.Index)
		}
		if _, dup := labels[rp.Label]; dup {
			return nil, fmt.Errorf("duplicate pin label %q", rp.Label)
		}
		seenPin[rp.Index] = true

		kind, err := ParsePinKind(rp.Kind)
		if err != nil {
			return nil, fmt.Errorf("pin %q: %w", rp.Label, err)
		}
		labels[rp.Label] = kind

		var caps dpll.PinCapabilities
		for _, c := range rp.Capabilities {
			bit, err := ParseCapability(c)
			if err != nil {
				return nil, fmt.Errorf("pin %q: %w", rp.Label, err)
			}
			caps |= bit
		}

		props := dpll.PinProperties{
			Label:        rp.Label,
			Kind:         kind,
			Capabilities: caps,
		}
		for _, fr := range rp.Frequencies {
			props.FrequenciesSupported = append(props.FrequenciesSupported,
				dpll.FrequencyRange{Min: fr.Min, Max: fr.Max})
		}
		if err := props.Validate(); err != nil {
			return nil, fmt.Errorf("pin %q: %w", rp.Label, err)
		}

		p.Pins = append(p.Pins, PinSpec{
			Index:          rp.Index,
			Properties:     props,
			Parent:         rp.Parent,
			RecoveredClock: rp.RecoveredClock,
		})
	}

	// Parent references must name a mux pin declared in this profile.
	for _, ps := range p.Pins {
		if ps.Parent == "" {
			continue
		}
		kind, ok := labels[ps.Parent]
		if !ok {
			return nil, fmt.Errorf("pin %q: unknown parent %q", ps.Properties.Label, ps.Parent)
		}
		if kind != dpll.PinKindMux {
			return nil, fmt.Errorf("pin %q: parent %q is not a mux pin", ps.Properties.Label, ps.Parent)
		}
	}

	return p, nil
}

// Load reads, parses and resolves a board profile file.
func Load(path string) (*Profile, error) {
	raw, err := LoadProfile(path)
	if err != nil {
		return nil, err
	}
	return Resolve(raw)
}

// ParseDeviceKind maps a profile kind name to a device kind.
func ParseDeviceKind(s string) (dpll.DeviceKind, error) {
	switch s {
	case "pps":
		return dpll.DeviceKindPPS, nil
	case "eec":
		return dpll.DeviceKindEEC, nil
	default:
		return 0, fmt.Errorf("unknown device kind %q", s)
	}
}

// ParsePinKind maps a profile kind name to a pin kind.
func ParsePinKind(s string) (dpll.PinKind, error) {
	switch s {
	case "mux":
		return dpll.PinKindMux, nil
	case "ext":
		return dpll.PinKindExt, nil
	case "synce-eth":
		return dpll.PinKindSyncEEthPort, nil
	case "int-oscillator":
		return dpll.PinKindIntOscillator, nil
	case "gnss":
		return dpll.PinKindGNSS, nil
	default:
		return 0, fmt.Errorf("unknown pin kind %q", s)
	}
}

// ParseCapability maps a profile capability name to a capability bit.
func ParseCapability(s string) (dpll.PinCapabilities, error) {
	switch s {
	case "direction":
		return dpll.CapDirectionCanChange, nil
	case "priority":
		return dpll.CapPriorityCanChange, nil
	case "state":
		return dpll.CapStateCanChange, nil
	default:
		return 0, fmt.Errorf("unknown capability %q", s)
	}
}
