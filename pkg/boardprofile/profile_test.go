package boardprofile

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleProfile = `
version: "1.0"
board: "E810-XXVDA4T"
clockId: 0x1122334455667788
module: ice
devices:
  - driverIndex: 0
    kind: eec
  - driverIndex: 1
    kind: pps
pins:
  - index: 0
    label: SMA1
    kind: ext
    capabilities: [direction, priority, state]
    frequencies:
      - min: 1
        max: 10000000
  - index: 1
    label: MUX
    kind: mux
    capabilities: [state]
  - index: 2
    label: C827_0-RCLKA
    kind: synce-eth
    capabilities: [state]
    parent: MUX
    recoveredClock: eth0
`

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(sampleProfile))
	if err != nil {
		t.Fatalf("ParseProfile failed: %v", err)
	}

	if p.Board != "E810-XXVDA4T" {
		t.Errorf("board = %q, want E810-XXVDA4T", p.Board)
	}
	if p.ClockID != 0x1122334455667788 {
		t.Errorf("clockId = %#x, want 0x1122334455667788", p.ClockID)
	}
	if p.Module != "ice" {
		t.Errorf("module = %q, want ice", p.Module)
	}
	if len(p.Devices) != 2 {
		t.Fatalf("len(devices) = %d, want 2", len(p.Devices))
	}
	if p.Devices[1].Kind != "pps" {
		t.Errorf("devices[1].kind = %q, want pps", p.Devices[1].Kind)
	}
	if len(p.Pins) != 3 {
		t.Fatalf("len(pins) = %d, want 3", len(p.Pins))
	}

	sma := p.Pins[0]
	if sma.Label != "SMA1" || sma.Kind != "ext" {
		t.Errorf("pins[0] = %q/%q, want SMA1/ext", sma.Label, sma.Kind)
	}
	if len(sma.Capabilities) != 3 {
		t.Errorf("pins[0].capabilities = %v, want 3 entries", sma.Capabilities)
	}
	if len(sma.Frequencies) != 1 || sma.Frequencies[0].Max != 10000000 {
		t.Errorf("pins[0].frequencies = %v", sma.Frequencies)
	}

	rclk := p.Pins[2]
	if rclk.Parent != "MUX" {
		t.Errorf("pins[2].parent = %q, want MUX", rclk.Parent)
	}
	if rclk.RecoveredClock != "eth0" {
		t.Errorf("pins[2].recoveredClock = %q, want eth0", rclk.RecoveredClock)
	}
}

func TestParseProfileInvalidYAML(t *testing.T) {
	if _, err := ParseProfile([]byte("pins: {not: [a, profile")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := os.WriteFile(path, []byte(sampleProfile), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if p.Board != "E810-XXVDA4T" {
		t.Errorf("board = %q, want E810-XXVDA4T", p.Board)
	}

	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
