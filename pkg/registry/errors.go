package registry

import "errors"

// Registry errors.
var (
	// ErrInvalidArgument reports a nil entity, empty module name or an
	// out-of-range attribute value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidKind reports an unknown device/pin kind, a kind that
	// conflicts with an earlier registration, or a non-mux parent pin.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrNotFound reports a lookup miss by id, index, name or label.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyRegistered reports a duplicate device-level
	// registration of an identical (ops, priv) pair.
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrUnsupported reports an operation absent from the registered
	// ops table, or forbidden by the pin's capabilities.
	ErrUnsupported = errors.New("operation not supported")

	// ErrResourceExhausted reports that a configured capacity limit
	// was reached.
	ErrResourceExhausted = errors.New("resource exhausted")
)

// invariant panics with a registry-tagged message when cond is false.
// Assertion failures mean unbalanced register/unregister or get/put
// calls; the graph cannot be trusted afterwards, so they are loud
// rather than recoverable.
func invariant(cond bool, msg string) {
	if !cond {
		panic("registry: " + msg)
	}
}
