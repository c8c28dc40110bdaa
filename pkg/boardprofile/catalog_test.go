package boardprofile

import (
	"testing"

	"github.com/clocksync/dpll-go/pkg/dpll"
)

func TestBuiltins(t *testing.T) {
	names := Builtins()
	if len(names) != 2 {
		t.Fatalf("len(Builtins()) = %d, want 2", len(names))
	}
	if names[0] != "e810-xxvda4t" || names[1] != "timecard" {
		t.Errorf("Builtins() = %v", names)
	}
}

func TestBuiltinE810(t *testing.T) {
	p, err := Builtin("e810-xxvda4t")
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}

	if p.Module != "ice" {
		t.Errorf("module = %q, want ice", p.Module)
	}
	if len(p.Devices) != 2 {
		t.Errorf("len(devices) = %d, want 2", len(p.Devices))
	}
	if len(p.Pins) != 7 {
		t.Errorf("len(pins) = %d, want 7", len(p.Pins))
	}

	// Recovered-clock pins hang under the mux.
	var children int
	for _, pin := range p.Pins {
		if pin.Parent == "RCLK-MUX" {
			children++
			if pin.Properties.Kind != dpll.PinKindSyncEEthPort {
				t.Errorf("child %q kind = %v", pin.Properties.Label, pin.Properties.Kind)
			}
		}
	}
	if children != 2 {
		t.Errorf("mux children = %d, want 2", children)
	}

	// Cached: the same pointer comes back.
	again, err := Builtin("e810-xxvda4t")
	if err != nil {
		t.Fatal(err)
	}
	if again != p {
		t.Error("second Builtin call must hit the cache")
	}
}

func TestBuiltinTimecard(t *testing.T) {
	p, err := Builtin("timecard")
	if err != nil {
		t.Fatalf("Builtin failed: %v", err)
	}
	if p.Module != "ptp_ocp" {
		t.Errorf("module = %q, want ptp_ocp", p.Module)
	}
	if p.Devices[0].Kind != dpll.DeviceKindPPS {
		t.Errorf("device kind = %v, want PPS", p.Devices[0].Kind)
	}
}

func TestBuiltinUnknown(t *testing.T) {
	if _, err := Builtin("no-such-board"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}
