package dpll

import "fmt"

// ErrorContext carries an extended, human-readable failure description
// from a driver operation back to the command layer, alongside the
// error value itself. It mirrors the extended-ack mechanism of the
// netlink command layer this registry feeds.
//
// All methods are nil-safe: drivers may be handed a nil context when
// the caller has no use for the message.
type ErrorContext struct {
	msg string
}

// SetMessage records the failure description. A later call replaces
// an earlier one; the last writer wins.
func (e *ErrorContext) SetMessage(msg string) {
	if e == nil {
		return
	}
	e.msg = msg
}

// SetMessagef records a formatted failure description.
func (e *ErrorContext) SetMessagef(format string, args ...any) {
	if e == nil {
		return
	}
	e.msg = fmt.Sprintf(format, args...)
}

// Message returns the recorded description, or "" if none was set.
func (e *ErrorContext) Message() string {
	if e == nil {
		return ""
	}
	return e.msg
}
