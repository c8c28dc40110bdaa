package simdriver

import (
	"fmt"

	"github.com/clocksync/dpll-go/pkg/dpll"
	"github.com/clocksync/dpll-go/pkg/registry"
)

// deviceOps builds the device operation table. Private data is the
// *deviceState installed at registration.
func (d *Driver) deviceOps() *registry.DeviceOps {
	return &registry.DeviceOps{
		ModeGet: func(dev *registry.Device, priv any, ec *dpll.ErrorContext) (dpll.Mode, error) {
			s := priv.(*deviceState)
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.mode, nil
		},
		ModeSet: func(dev *registry.Device, priv any, mode dpll.Mode, ec *dpll.ErrorContext) error {
			if mode != dpll.ModeManual && mode != dpll.ModeAutomatic {
				ec.SetMessagef("mode %s not supported on %s", mode, dev.Name())
				return fmt.Errorf("unsupported mode %s", mode)
			}
			s := priv.(*deviceState)
			s.mu.Lock()
			s.mode = mode
			s.mu.Unlock()
			d.logger.Debug("mode set", "device", dev.Name(), "mode", mode.String())
			return nil
		},
		ModeSupported: func(dev *registry.Device, priv any, mode dpll.Mode, ec *dpll.ErrorContext) (bool, error) {
			return mode == dpll.ModeManual || mode == dpll.ModeAutomatic, nil
		},
		LockStatusGet: func(dev *registry.Device, priv any, ec *dpll.ErrorContext) (dpll.LockStatus, error) {
			s := priv.(*deviceState)
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.lockStatus, nil
		},
		TemperatureGet: func(dev *registry.Device, priv any, ec *dpll.ErrorContext) (int32, error) {
			s := priv.(*deviceState)
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.temp, nil
		},
		SourcePinIndexGet: func(dev *registry.Device, priv any, ec *dpll.ErrorContext) (uint32, error) {
			s := priv.(*deviceState)
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.sourcePin, nil
		},
	}
}

// pinOperations builds the pin operation table. Private data is the
// *pinState installed at registration.
func (d *Driver) pinOperations() *registry.PinOps {
	return &registry.PinOps{
		FrequencyGet: func(p *registry.Pin, priv any, dev *registry.Device, devPriv any, ec *dpll.ErrorContext) (uint64, error) {
			s := priv.(*pinState)
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.frequency, nil
		},
		FrequencySet: func(p *registry.Pin, priv any, dev *registry.Device, devPriv any, freq uint64, ec *dpll.ErrorContext) error {
			s := priv.(*pinState)
			s.mu.Lock()
			s.frequency = freq
			s.mu.Unlock()
			d.logger.Debug("frequency set", "pin", p.Label(), "freq", freq)
			return nil
		},
		DirectionGet: func(p *registry.Pin, priv any, dev *registry.Device, devPriv any, ec *dpll.ErrorContext) (dpll.PinDirection, error) {
			s := priv.(*pinState)
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.direction, nil
		},
		DirectionSet: func(p *registry.Pin, priv any, dev *registry.Device, devPriv any, dir dpll.PinDirection, ec *dpll.ErrorContext) error {
			s := priv.(*pinState)
			s.mu.Lock()
			s.direction = dir
			s.mu.Unlock()
			return nil
		},
		StateOnDeviceGet: func(p *registry.Pin, priv any, dev *registry.Device, devPriv any, ec *dpll.ErrorContext) (dpll.PinState, error) {
			s := priv.(*pinState)
			s.mu.Lock()
			defer s.mu.Unlock()
			if st, ok := s.onDevice[dev.ID()]; ok {
				return st, nil
			}
			return dpll.PinStateSelectable, nil
		},
		StateOnDeviceSet: func(p *registry.Pin, priv any, dev *registry.Device, devPriv any, state dpll.PinState, ec *dpll.ErrorContext) error {
			s := priv.(*pinState)
			s.mu.Lock()
			s.onDevice[dev.ID()] = state
			s.mu.Unlock()

			// Selecting a source updates the device's source index.
			if state == dpll.PinStateConnected {
				if ds, ok := devPriv.(*deviceState); ok {
					ds.mu.Lock()
					ds.sourcePin = p.Index()
					ds.lockStatus = dpll.LockStatusLocked
					ds.mu.Unlock()
				}
			}
			return nil
		},
		StateOnPinGet: func(p *registry.Pin, priv any, parent *registry.Pin, parentPriv any, ec *dpll.ErrorContext) (dpll.PinState, error) {
			s := priv.(*pinState)
			s.mu.Lock()
			defer s.mu.Unlock()
			if st, ok := s.onParent[parent.ID()]; ok {
				return st, nil
			}
			return dpll.PinStateDisconnected, nil
		},
		StateOnPinSet: func(p *registry.Pin, priv any, parent *registry.Pin, parentPriv any, state dpll.PinState, ec *dpll.ErrorContext) error {
			s := priv.(*pinState)
			s.mu.Lock()
			s.onParent[parent.ID()] = state
			s.mu.Unlock()
			d.logger.Debug("state on parent set",
				"pin", p.Label(), "parent", parent.Label(), "state", state.String())
			return nil
		},
		PriorityGet: func(p *registry.Pin, priv any, dev *registry.Device, devPriv any, ec *dpll.ErrorContext) (uint32, error) {
			s := priv.(*pinState)
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.priority, nil
		},
		PrioritySet: func(p *registry.Pin, priv any, dev *registry.Device, devPriv any, prio uint32, ec *dpll.ErrorContext) error {
			s := priv.(*pinState)
			s.mu.Lock()
			s.priority = prio
			s.mu.Unlock()
			return nil
		},
	}
}
