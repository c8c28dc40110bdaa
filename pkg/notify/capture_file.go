package notify

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/clocksync/dpll-go/pkg/registry"
)

// CaptureFile writes registry events to a file in CBOR format.
// It is safe for concurrent use from multiple goroutines.
type CaptureFile struct {
	sessionID string
	file      *os.File
	encoder   *cbor.Encoder
	mu        sync.Mutex
	closed    bool
}

// NewCaptureFile creates a CaptureFile that writes to the specified path.
// If the file exists, new events are appended. The file is created with
// permissions 0644 if it doesn't exist. Each CaptureFile stamps its
// events with a fresh session ID.
func NewCaptureFile(path string) (*CaptureFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &CaptureFile{
		sessionID: uuid.New().String(),
		file:      f,
		encoder:   NewEncoder(f),
	}, nil
}

// SessionID returns the session identifier stamped on every event.
func (c *CaptureFile) SessionID() string {
	return c.sessionID
}

// DeviceChange records a device lifecycle or attribute event.
func (c *CaptureFile) DeviceChange(event registry.EventType, d *registry.Device) {
	c.write(newEvent(c.sessionID, ObjectDevice, event, d, nil, nil))
}

// PinChange records a device-pin lifecycle or attribute event.
func (c *CaptureFile) PinChange(event registry.EventType, d *registry.Device, p *registry.Pin) {
	c.write(newEvent(c.sessionID, ObjectPin, event, d, p, nil))
}

// PinOnPinChange records an event for a pin nested under a mux parent.
func (c *CaptureFile) PinOnPinChange(event registry.EventType, d *registry.Device, p, parent *registry.Pin) {
	c.write(newEvent(c.sessionID, ObjectPinOnPin, event, d, p, parent))
}

// write appends one event to the capture file.
// This method is safe for concurrent use.
func (c *CaptureFile) write(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	// Ignore encoding errors - capture must not disrupt the registry
	_ = c.encoder.Encode(event)
}

// Close closes the capture file.
// It is safe to call Close multiple times.
// After Close is called, subsequent events are silently dropped.
func (c *CaptureFile) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	return c.file.Close()
}

// Compile-time interface satisfaction check.
var _ registry.Notifier = (*CaptureFile)(nil)
