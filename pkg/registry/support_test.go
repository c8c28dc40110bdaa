package registry

import (
	"sync"

	"github.com/clocksync/dpll-go/pkg/dpll"
)

// notification is one recorded Notifier call.
type notification struct {
	event  EventType
	device *Device
	pin    *Pin
	parent *Pin
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notification
}

func (n *recordingNotifier) DeviceChange(event EventType, d *Device) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{event: event, device: d})
}

func (n *recordingNotifier) PinChange(event EventType, d *Device, p *Pin) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{event: event, device: d, pin: p})
}

func (n *recordingNotifier) PinOnPinChange(event EventType, d *Device, p, parent *Pin) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, notification{event: event, device: d, pin: p, parent: parent})
}

func (n *recordingNotifier) all() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification, len(n.events))
	copy(out, n.events)
	return out
}

func (n *recordingNotifier) count(event EventType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, e := range n.events {
		if e.event == event {
			c++
		}
	}
	return c
}

var _ Notifier = (*recordingNotifier)(nil)

const testClock dpll.ClockID = 0x1122334455667788

// extPinProps returns properties for a plain external pin.
func extPinProps(label string) dpll.PinProperties {
	return dpll.PinProperties{
		Label:        label,
		Kind:         dpll.PinKindExt,
		Capabilities: dpll.CapDirectionCanChange | dpll.CapPriorityCanChange | dpll.CapStateCanChange,
		FrequenciesSupported: []dpll.FrequencyRange{
			{Min: dpll.Frequency1Hz, Max: dpll.Frequency10MHz},
		},
	}
}

// muxPinProps returns properties for a mux pin.
func muxPinProps(label string) dpll.PinProperties {
	return dpll.PinProperties{
		Label:        label,
		Kind:         dpll.PinKindMux,
		Capabilities: dpll.CapStateCanChange,
	}
}
