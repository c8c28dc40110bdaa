package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clocksync/dpll-go/pkg/dpll"
	"github.com/clocksync/dpll-go/pkg/notify"
	"github.com/clocksync/dpll-go/pkg/registry"
)

// writeSampleCapture produces a capture with device, pin and change
// events for one small board.
func writeSampleCapture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "registry.dcap")
	capture, err := notify.NewCaptureFile(path)
	require.NoError(t, err)

	r := registry.New(registry.Options{Notifier: capture})
	d, err := r.DeviceGet(0xaabbccddeeff0011, 0, "ice")
	require.NoError(t, err)
	require.NoError(t, r.DeviceRegister(d, dpll.DeviceKindEEC, &registry.DeviceOps{}, nil, "ice"))

	pinOps := &registry.PinOps{
		PrioritySet: func(*registry.Pin, any, *registry.Device, any, uint32, *dpll.ErrorContext) error {
			return nil
		},
	}
	p, err := r.PinGet(0xaabbccddeeff0011, 0, "ice", dpll.PinProperties{
		Label:        "SMA1",
		Kind:         dpll.PinKindExt,
		Capabilities: dpll.CapPriorityCanChange,
	})
	require.NoError(t, err)
	require.NoError(t, r.PinRegister(d, p, pinOps, nil, ""))
	require.NoError(t, r.PinPrioritySet(d, p, 2, nil))
	r.PinUnregister(d, p, pinOps, nil)

	require.NoError(t, capture.Close())
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunView(t *testing.T) {
	path := writeSampleCapture(t)

	var buf bytes.Buffer
	require.NoError(t, RunView(path, ViewFilter{}, &buf))

	out := buf.String()
	assert.Contains(t, out, "CREATED DEVICE")
	assert.Contains(t, out, "CREATED PIN")
	assert.Contains(t, out, "CHANGED PIN")
	assert.Contains(t, out, `Pin: "SMA1"`)
	assert.Contains(t, out, "Clock: aabbccddeeff0011")
}

func TestRunViewFiltered(t *testing.T) {
	path := writeSampleCapture(t)

	object := notify.ObjectDevice
	var buf bytes.Buffer
	require.NoError(t, RunView(path, ViewFilter{Object: &object}, &buf))

	out := buf.String()
	assert.Contains(t, out, "DEVICE")
	assert.NotContains(t, out, "SMA1")
}

func TestRunExportJSONL(t *testing.T) {
	path := writeSampleCapture(t)
	out := filepath.Join(t.TempDir(), "events.jsonl")

	require.NoError(t, RunExport(path, "jsonl", out))

	data := readFile(t, out)
	lines := strings.Split(strings.TrimSpace(data), "\n")
	assert.Len(t, lines, 4, "device created, pin created, pin changed, pin deleted")
	assert.Contains(t, lines[0], `"Name"`)
}

func TestRunExportCSV(t *testing.T) {
	path := writeSampleCapture(t)
	out := filepath.Join(t.TempDir(), "events.csv")

	require.NoError(t, RunExport(path, "csv", out))

	data := readFile(t, out)
	lines := strings.Split(strings.TrimSpace(data), "\n")
	require.Len(t, lines, 5, "header plus four events")
	assert.True(t, strings.HasPrefix(lines[0], "timestamp,session_id,object,change"))
	assert.Contains(t, data, "SMA1")
}

func TestRunExportUnknownFormat(t *testing.T) {
	path := writeSampleCapture(t)
	require.Error(t, RunExport(path, "xml", ""))
}

func TestRunFilter(t *testing.T) {
	path := writeSampleCapture(t)
	out := filepath.Join(t.TempDir(), "filtered.dcap")

	require.NoError(t, RunFilter(path, FilterOptions{Output: out, Object: "pin"}))

	reader, err := notify.NewReader(out)
	require.NoError(t, err)
	defer reader.Close()
	count := 0
	for {
		e, err := reader.Next()
		if err != nil {
			break
		}
		assert.Equal(t, notify.ObjectPin, e.Object)
		count++
	}
	assert.Equal(t, 3, count, "pin created, changed, deleted")
}

func TestRunFilterBadFlags(t *testing.T) {
	path := writeSampleCapture(t)
	out := filepath.Join(t.TempDir(), "filtered.dcap")

	require.Error(t, RunFilter(path, FilterOptions{Output: out, Object: "zone"}))
	require.Error(t, RunFilter(path, FilterOptions{Output: out, Change: "mutated"}))
	require.Error(t, RunFilter(path, FilterOptions{Output: out, TimeStart: "yesterday"}))
}

func TestRunStats(t *testing.T) {
	path := writeSampleCapture(t)

	var buf bytes.Buffer
	require.NoError(t, RunStats(path, &buf))

	out := buf.String()
	assert.Contains(t, out, "Total Events: 4")
	assert.Contains(t, out, "DEVICE:")
	assert.Contains(t, out, "PIN:")
	assert.Contains(t, out, "CREATED:")
	assert.Contains(t, out, "Devices: 1")
	assert.Contains(t, out, "Pins: 1")
}

func TestParseFlags(t *testing.T) {
	o, err := ParseObjectFlag("PIN-ON-PIN")
	require.NoError(t, err)
	assert.Equal(t, notify.ObjectPinOnPin, o)

	c, err := ParseChangeFlag("Deleted")
	require.NoError(t, err)
	assert.Equal(t, registry.EventDeleted, c)

	_, err = ParseObjectFlag("edge")
	require.Error(t, err)
	_, err = ParseChangeFlag("renamed")
	require.Error(t, err)
}
