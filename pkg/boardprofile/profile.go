// Package boardprofile parses YAML board profiles describing the DPLL
// devices and pins a driver exposes for one board. A profile carries
// the static pin catalog drivers would otherwise hardcode: labels,
// kinds, capabilities, supported frequency ranges and recovered-clock
// interface names. Drivers resolve a profile and feed the result into
// the registry.
package boardprofile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RawProfile represents a board profile loaded from YAML.
type RawProfile struct {
	Version string      `yaml:"version"`
	Board   string      `yaml:"board"`
	ClockID uint64      `yaml:"clockId"`
	Module  string      `yaml:"module"`
	Devices []RawDevice `yaml:"devices"`
	Pins    []RawPin    `yaml:"pins"`
}

// RawDevice represents one DPLL device declaration.
type RawDevice struct {
	DriverIndex uint32 `yaml:"driverIndex"`
	Kind        string `yaml:"kind"` // "pps", "eec"
	Description string `yaml:"description"`
}

// RawPin represents one pin declaration.
type RawPin struct {
	Index        uint32              `yaml:"index"`
	Label        string              `yaml:"label"`
	Kind         string              `yaml:"kind"`         // "mux", "ext", ...
	Capabilities []string            `yaml:"capabilities"` // "direction", "priority", "state"
	Frequencies  []RawFrequencyRange `yaml:"frequencies"`

	// Parent is the label of the mux pin this pin hangs under.
	// Empty for pins registered directly on devices.
	Parent string `yaml:"parent"`

	// RecoveredClock is the network interface the pin recovers its
	// clock from, for synce-eth pins.
	RecoveredClock string `yaml:"recoveredClock"`
}

// RawFrequencyRange represents one supported frequency range in Hz.
// A single-frequency pin uses min == max.
type RawFrequencyRange struct {
	Min uint64 `yaml:"min"`
	Max uint64 `yaml:"max"`
}

// ParseProfile parses a board profile from YAML bytes.
func ParseProfile(data []byte) (*RawProfile, error) {
	var p RawProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing board profile: %w", err)
	}
	return &p, nil
}

// LoadProfile loads and parses a board profile from a file.
func LoadProfile(path string) (*RawProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseProfile(data)
}
