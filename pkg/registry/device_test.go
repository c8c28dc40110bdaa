package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clocksync/dpll-go/pkg/dpll"
)

func TestDeviceGetSharesHandle(t *testing.T) {
	r := New(Options{})

	d1, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)
	d2, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)

	assert.Same(t, d1, d2, "identical identity must return the same handle")
	assert.Equal(t, 2, d1.refcount)
	assert.Equal(t, 1, r.DeviceCount())

	r.DevicePut(d1)
	assert.Equal(t, 1, r.DeviceCount(), "device must survive first put")
	r.DevicePut(d2)
	assert.Equal(t, 0, r.DeviceCount(), "second put must free the device")
}

func TestDeviceGetDistinctIdentities(t *testing.T) {
	r := New(Options{})

	d1, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)
	d2, err := r.DeviceGet(testClock, 1, "ice")
	require.NoError(t, err)
	d3, err := r.DeviceGet(testClock, 0, "ptp_ocp")
	require.NoError(t, err)

	assert.NotSame(t, d1, d2, "driver index distinguishes devices")
	assert.NotSame(t, d1, d3, "module distinguishes devices")
	assert.NotEqual(t, d1.Name(), d2.Name())
	assert.NotEqual(t, d1.Name(), d3.Name())
}

func TestDeviceGetEmptyModule(t *testing.T) {
	r := New(Options{})

	_, err := r.DeviceGet(testClock, 0, "")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDeviceRegisterVisibility(t *testing.T) {
	sink := &recordingNotifier{}
	r := New(Options{Notifier: sink})

	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)

	// Unregistered devices are invisible to every lookup.
	_, err = r.DeviceByID(d.ID())
	require.ErrorIs(t, err, ErrNotFound)
	_, err = r.DeviceByName(d.Name())
	require.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, r.Devices())

	ops := &DeviceOps{}
	require.NoError(t, r.DeviceRegister(d, dpll.DeviceKindEEC, ops, "priv", "ice"))

	got, err := r.DeviceByID(d.ID())
	require.NoError(t, err)
	assert.Same(t, d, got)
	got, err = r.DeviceByName(d.Name())
	require.NoError(t, err)
	assert.Same(t, d, got)
	got, err = r.DeviceByClockID(testClock, dpll.DeviceKindEEC, 0)
	require.NoError(t, err)
	assert.Same(t, d, got)
	assert.Equal(t, dpll.DeviceKindEEC, d.Kind())
	assert.Equal(t, 1, sink.count(EventCreated), "first registration fires one created event")

	r.DeviceUnregister(d, ops, "priv")
	_, err = r.DeviceByID(d.ID())
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, sink.count(EventDeleted))

	r.DevicePut(d)
}

func TestDeviceRegisterDuplicatePair(t *testing.T) {
	sink := &recordingNotifier{}
	r := New(Options{Notifier: sink})

	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)

	ops := &DeviceOps{}
	require.NoError(t, r.DeviceRegister(d, dpll.DeviceKindEEC, ops, "priv", "ice"))

	err = r.DeviceRegister(d, dpll.DeviceKindEEC, ops, "priv", "ice")
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Len(t, d.registrations, 1, "rejected duplicate must not add a registration")
	assert.Equal(t, 1, sink.count(EventCreated), "no extra notification for a rejected duplicate")

	// A different priv with the same ops table is a distinct owner.
	require.NoError(t, r.DeviceRegister(d, dpll.DeviceKindEEC, ops, "other", "ice"))
	assert.Len(t, d.registrations, 2)
	assert.Equal(t, 1, sink.count(EventCreated), "created fires only on the first registration")
}

func TestDeviceRegisterInvalidKind(t *testing.T) {
	r := New(Options{})

	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)

	err = r.DeviceRegister(d, dpll.DeviceKind(99), &DeviceOps{}, nil, "ice")
	require.ErrorIs(t, err, ErrInvalidKind)
	err = r.DeviceRegister(d, dpll.DeviceKindEEC, nil, nil, "ice")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDeviceRegisterNonComparablePriv(t *testing.T) {
	r := New(Options{})

	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)

	// Registrations are matched with ==, so priv must be comparable.
	err = r.DeviceRegister(d, dpll.DeviceKindEEC, &DeviceOps{}, []int{1}, "ice")
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, d.registrations)
}

func TestDeviceRegisterKindConflict(t *testing.T) {
	r := New(Options{})

	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)
	require.NoError(t, r.DeviceRegister(d, dpll.DeviceKindEEC, &DeviceOps{}, nil, "ice"))

	err = r.DeviceRegister(d, dpll.DeviceKindPPS, &DeviceOps{}, nil, "ice")
	require.ErrorIs(t, err, ErrInvalidKind)
}

func TestDeviceMultiOwnerVisibilityLifetime(t *testing.T) {
	sink := &recordingNotifier{}
	r := New(Options{Notifier: sink})

	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)

	opsA, opsB := &DeviceOps{}, &DeviceOps{}
	require.NoError(t, r.DeviceRegister(d, dpll.DeviceKindEEC, opsA, "a", "ice"))
	require.NoError(t, r.DeviceRegister(d, dpll.DeviceKindEEC, opsB, "b", "ice"))

	r.DeviceUnregister(d, opsA, "a")
	_, err = r.DeviceByID(d.ID())
	require.NoError(t, err, "device stays visible while an owner remains")
	assert.Equal(t, 0, sink.count(EventDeleted), "no deleted event before the last owner leaves")

	r.DeviceUnregister(d, opsB, "b")
	_, err = r.DeviceByID(d.ID())
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, sink.count(EventDeleted), "exactly one deleted event per visibility cycle")
}

func TestDeviceUnregisterNeverRegisteredPanics(t *testing.T) {
	r := New(Options{})

	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)

	require.Panics(t, func() {
		r.DeviceUnregister(d, &DeviceOps{}, nil)
	})
	_, err = r.DeviceByID(d.ID())
	require.ErrorIs(t, err, ErrNotFound, "visibility table unchanged after the assertion")
}

func TestDeviceUnregisterUnknownOwnerPanics(t *testing.T) {
	r := New(Options{})

	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)
	require.NoError(t, r.DeviceRegister(d, dpll.DeviceKindEEC, &DeviceOps{}, nil, "ice"))

	require.Panics(t, func() {
		r.DeviceUnregister(d, &DeviceOps{}, nil)
	})
	got, err := r.DeviceByID(d.ID())
	require.NoError(t, err, "registry stays usable after the assertion")
	assert.Same(t, d, got)
}

func TestDevicePutWhileRegisteredPanics(t *testing.T) {
	r := New(Options{})

	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)
	require.NoError(t, r.DeviceRegister(d, dpll.DeviceKindEEC, &DeviceOps{}, nil, "ice"))

	require.Panics(t, func() { r.DevicePut(d) }, "freeing a registered device must not be silent")
}

func TestDeviceUnbalancedPutPanics(t *testing.T) {
	r := New(Options{})

	d, err := r.DeviceGet(testClock, 0, "ice")
	require.NoError(t, err)
	r.DevicePut(d)

	require.Panics(t, func() { r.DevicePut(d) })
}

// TestDeviceSharedAcrossDrivers follows two driver instances sharing
// one physical clock: B rediscovers A's device, A's registration makes
// it visible exactly once, B's identical registration is rejected.
func TestDeviceSharedAcrossDrivers(t *testing.T) {
	sink := &recordingNotifier{}
	r := New(Options{Notifier: sink})

	// Driver A creates the device.
	dA, err := r.DeviceGet(7, 0, "ice")
	require.NoError(t, err)
	assert.Equal(t, 1, dA.refcount)

	// Driver B attaches to the same hardware.
	dB, err := r.DeviceGet(7, 0, "ice")
	require.NoError(t, err)
	require.Same(t, dA, dB)
	assert.Equal(t, 2, dA.refcount)

	opsA := &DeviceOps{}
	require.NoError(t, r.DeviceRegister(dA, dpll.DeviceKindEEC, opsA, "privA", "ownerA"))
	assert.Equal(t, 1, sink.count(EventCreated))

	err = r.DeviceRegister(dB, dpll.DeviceKindEEC, opsA, "privA", "ownerA")
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, 1, sink.count(EventCreated), "rejected duplicate fires nothing")

	r.DeviceUnregister(dA, opsA, "privA")
	r.DevicePut(dB)
	r.DevicePut(dA)
	assert.Equal(t, 0, r.DeviceCount())
}
