package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clocksync/dpll-go/pkg/dpll"
)

// dispatchFixture registers one device with one pin for dispatch tests.
type dispatchFixture struct {
	r    *Registry
	sink *recordingNotifier
	d    *Device
	p    *Pin
}

func newDispatchFixture(t *testing.T, devOps *DeviceOps, pinOps *PinOps) *dispatchFixture {
	t.Helper()

	sink := &recordingNotifier{}
	r := New(Options{Notifier: sink})

	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)
	require.NoError(t, r.DeviceRegister(d, dpll.DeviceKindEEC, devOps, "devpriv", "ice"))

	p, err := r.PinGet(testClock, 0, "ice", extPinProps("SMA1"))
	require.NoError(t, err)
	require.NoError(t, r.PinRegister(d, p, pinOps, "pinpriv", ""))

	return &dispatchFixture{r: r, sink: sink, d: d, p: p}
}

func TestDeviceModeDispatch(t *testing.T) {
	mode := dpll.ModeAutomatic
	devOps := &DeviceOps{
		ModeGet: func(d *Device, priv any, ec *dpll.ErrorContext) (dpll.Mode, error) {
			assert.Equal(t, "devpriv", priv)
			return mode, nil
		},
		ModeSet: func(d *Device, priv any, m dpll.Mode, ec *dpll.ErrorContext) error {
			mode = m
			return nil
		},
		ModeSupported: func(d *Device, priv any, m dpll.Mode, ec *dpll.ErrorContext) (bool, error) {
			return m == dpll.ModeAutomatic || m == dpll.ModeManual, nil
		},
	}
	fx := newDispatchFixture(t, devOps, &PinOps{})

	got, err := fx.r.DeviceModeGet(fx.d, nil)
	require.NoError(t, err)
	assert.Equal(t, dpll.ModeAutomatic, got)

	changedBefore := fx.sink.count(EventChanged)
	require.NoError(t, fx.r.DeviceModeSet(fx.d, dpll.ModeManual, nil))
	assert.Equal(t, dpll.ModeManual, mode)
	assert.Equal(t, changedBefore+1, fx.sink.count(EventChanged), "successful set fires a changed event")

	ok, err := fx.r.DeviceModeSupported(fx.d, dpll.ModeHoldover, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	err = fx.r.DeviceModeSet(fx.d, dpll.Mode(77), nil)
	require.ErrorIs(t, err, ErrInvalidArgument, "mode value is validated before dispatch")
}

func TestDeviceDispatchUnsupported(t *testing.T) {
	// An empty ops table means every operation is unimplemented.
	fx := newDispatchFixture(t, &DeviceOps{}, &PinOps{})

	_, err := fx.r.DeviceModeGet(fx.d, nil)
	require.ErrorIs(t, err, ErrUnsupported)
	_, err = fx.r.DeviceLockStatusGet(fx.d, nil)
	require.ErrorIs(t, err, ErrUnsupported)
	_, err = fx.r.DeviceTemperatureGet(fx.d, nil)
	require.ErrorIs(t, err, ErrUnsupported)
	_, err = fx.r.DeviceSourcePinIndexGet(fx.d, nil)
	require.ErrorIs(t, err, ErrUnsupported)

	changedBefore := fx.sink.count(EventChanged)
	err = fx.r.DeviceModeSet(fx.d, dpll.ModeManual, nil)
	require.ErrorIs(t, err, ErrUnsupported)
	assert.Equal(t, changedBefore, fx.sink.count(EventChanged), "no event for a failed set")
}

func TestDeviceDispatchUnregistered(t *testing.T) {
	r := New(Options{})

	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)

	_, err = r.DeviceModeGet(d, nil)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.DeviceModeGet(nil, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDeviceDispatchFirstRegistrationWins(t *testing.T) {
	fx := newDispatchFixture(t, &DeviceOps{
		LockStatusGet: func(d *Device, priv any, ec *dpll.ErrorContext) (dpll.LockStatus, error) {
			return dpll.LockStatusLocked, nil
		},
	}, &PinOps{})

	// A second owner's table never sees dispatch while the first lives.
	second := &DeviceOps{
		LockStatusGet: func(d *Device, priv any, ec *dpll.ErrorContext) (dpll.LockStatus, error) {
			return dpll.LockStatusUnlocked, nil
		},
	}
	require.NoError(t, fx.r.DeviceRegister(fx.d, dpll.DeviceKindEEC, second, "second", "ice"))

	got, err := fx.r.DeviceLockStatusGet(fx.d, nil)
	require.NoError(t, err)
	assert.Equal(t, dpll.LockStatusLocked, got)
}

func TestDeviceDispatchErrorContext(t *testing.T) {
	opErr := errors.New("pps signal lost")
	fx := newDispatchFixture(t, &DeviceOps{
		TemperatureGet: func(d *Device, priv any, ec *dpll.ErrorContext) (int32, error) {
			ec.SetMessagef("sensor read failed on %s", d.Name())
			return 0, opErr
		},
	}, &PinOps{})

	var ec dpll.ErrorContext
	_, err := fx.r.DeviceTemperatureGet(fx.d, &ec)
	require.ErrorIs(t, err, opErr)
	assert.Contains(t, ec.Message(), "sensor read failed")
}

func TestPinFrequencyDispatch(t *testing.T) {
	freq := uint64(dpll.Frequency10MHz)
	pinOps := &PinOps{
		FrequencyGet: func(p *Pin, priv any, d *Device, devPriv any, ec *dpll.ErrorContext) (uint64, error) {
			assert.Equal(t, "pinpriv", priv)
			assert.Equal(t, "devpriv", devPriv, "edge dispatch carries the device private data")
			return freq, nil
		},
		FrequencySet: func(p *Pin, priv any, d *Device, devPriv any, f uint64, ec *dpll.ErrorContext) error {
			freq = f
			return nil
		},
	}
	fx := newDispatchFixture(t, &DeviceOps{}, pinOps)

	got, err := fx.r.PinFrequencyGet(fx.d, fx.p, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(dpll.Frequency10MHz), got)

	require.NoError(t, fx.r.PinFrequencySet(fx.d, fx.p, dpll.Frequency1Hz, nil))
	assert.Equal(t, uint64(dpll.Frequency1Hz), freq)

	// Out of every supported range: rejected before the driver runs.
	err = fx.r.PinFrequencySet(fx.d, fx.p, dpll.Frequency10MHz+1, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, uint64(dpll.Frequency1Hz), freq, "driver must not see a rejected frequency")
}

func TestPinDispatchCapabilityGates(t *testing.T) {
	called := false
	pinOps := &PinOps{
		DirectionSet: func(p *Pin, priv any, d *Device, devPriv any, dir dpll.PinDirection, ec *dpll.ErrorContext) error {
			called = true
			return nil
		},
		StateOnDeviceSet: func(p *Pin, priv any, d *Device, devPriv any, s dpll.PinState, ec *dpll.ErrorContext) error {
			called = true
			return nil
		},
		PrioritySet: func(p *Pin, priv any, d *Device, devPriv any, prio uint32, ec *dpll.ErrorContext) error {
			called = true
			return nil
		},
	}

	sink := &recordingNotifier{}
	r := New(Options{Notifier: sink})
	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)
	require.NoError(t, r.DeviceRegister(d, dpll.DeviceKindEEC, &DeviceOps{}, nil, "ice"))

	// A pin with no capabilities rejects every mutation even though the
	// driver implements the hooks.
	props := extPinProps("GNSS")
	props.Capabilities = 0
	p, err := r.PinGet(testClock, 0, "ice", props)
	require.NoError(t, err)
	require.NoError(t, r.PinRegister(d, p, pinOps, nil, ""))

	err = r.PinDirectionSet(d, p, dpll.PinDirectionSource, nil)
	require.ErrorIs(t, err, ErrUnsupported)
	err = r.PinStateOnDeviceSet(d, p, dpll.PinStateConnected, nil)
	require.ErrorIs(t, err, ErrUnsupported)
	err = r.PinPrioritySet(d, p, 1, nil)
	require.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, called, "capability gate must run before dispatch")
	assert.Equal(t, 0, sink.count(EventChanged))
}

func TestPinStateAndPriorityDispatch(t *testing.T) {
	state := dpll.PinStateSelectable
	prio := uint32(5)
	dir := dpll.PinDirectionSource
	pinOps := &PinOps{
		DirectionGet: func(p *Pin, priv any, d *Device, devPriv any, ec *dpll.ErrorContext) (dpll.PinDirection, error) {
			return dir, nil
		},
		DirectionSet: func(p *Pin, priv any, d *Device, devPriv any, v dpll.PinDirection, ec *dpll.ErrorContext) error {
			dir = v
			return nil
		},
		StateOnDeviceGet: func(p *Pin, priv any, d *Device, devPriv any, ec *dpll.ErrorContext) (dpll.PinState, error) {
			return state, nil
		},
		StateOnDeviceSet: func(p *Pin, priv any, d *Device, devPriv any, s dpll.PinState, ec *dpll.ErrorContext) error {
			state = s
			return nil
		},
		PriorityGet: func(p *Pin, priv any, d *Device, devPriv any, ec *dpll.ErrorContext) (uint32, error) {
			return prio, nil
		},
		PrioritySet: func(p *Pin, priv any, d *Device, devPriv any, v uint32, ec *dpll.ErrorContext) error {
			prio = v
			return nil
		},
	}
	fx := newDispatchFixture(t, &DeviceOps{}, pinOps)

	gotState, err := fx.r.PinStateOnDeviceGet(fx.d, fx.p, nil)
	require.NoError(t, err)
	assert.Equal(t, dpll.PinStateSelectable, gotState)
	require.NoError(t, fx.r.PinStateOnDeviceSet(fx.d, fx.p, dpll.PinStateConnected, nil))
	assert.Equal(t, dpll.PinStateConnected, state)

	err = fx.r.PinStateOnDeviceSet(fx.d, fx.p, dpll.PinState(9), nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	gotDir, err := fx.r.PinDirectionGet(fx.d, fx.p, nil)
	require.NoError(t, err)
	assert.Equal(t, dpll.PinDirectionSource, gotDir)
	require.NoError(t, fx.r.PinDirectionSet(fx.d, fx.p, dpll.PinDirectionOutput, nil))
	assert.Equal(t, dpll.PinDirectionOutput, dir)

	gotPrio, err := fx.r.PinPriorityGet(fx.d, fx.p, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), gotPrio)
	require.NoError(t, fx.r.PinPrioritySet(fx.d, fx.p, 2, nil))
	assert.Equal(t, uint32(2), prio)

	// Three successful sets, three changed events.
	assert.Equal(t, 3, fx.sink.count(EventChanged))
}

func TestPinDispatchWithoutEdge(t *testing.T) {
	fx := newDispatchFixture(t, &DeviceOps{}, &PinOps{})

	other, err := fx.r.PinGet(testClock, 9, "ice", extPinProps("SMA9"))
	require.NoError(t, err)

	_, err = fx.r.PinFrequencyGet(fx.d, other, nil)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = fx.r.PinFrequencyGet(nil, fx.p, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = fx.r.PinStateOnPinGet(fx.p, other, nil)
	require.ErrorIs(t, err, ErrNotFound, "no parent edge")
}

func TestPrivateAccessors(t *testing.T) {
	fx := newDispatchFixture(t, &DeviceOps{}, &PinOps{})

	priv, err := fx.r.DevicePrivate(fx.d)
	require.NoError(t, err)
	assert.Equal(t, "devpriv", priv)

	priv, err = fx.r.PinOnDevicePrivate(fx.d, fx.p)
	require.NoError(t, err)
	assert.Equal(t, "pinpriv", priv)

	other, err := fx.r.PinGet(testClock, 9, "ice", extPinProps("SMA9"))
	require.NoError(t, err)
	_, err = fx.r.PinOnDevicePrivate(fx.d, other)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = fx.r.PinOnPinPrivate(fx.p, other)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = fx.r.DevicePrivate(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
