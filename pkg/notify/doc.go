// Package notify provides event capture for registry notifications.
//
// The registry reports object lifecycle and attribute changes through
// its Notifier interface. This package supplies ready-made notifier
// implementations: CaptureFile persists events to a CBOR-encoded file
// for later analysis, Slog mirrors events into an slog.Logger for
// development, and Multi fans one notification out to several sinks.
// It is separate from operational logging - a capture file is a
// complete machine-readable trace of registry activity.
//
// # Basic Usage
//
// Applications pick a notifier when building the registry:
//
//	// For development: mirror events into the console logger
//	opts.Notifier = notify.NewSlog(slog.Default())
//
//	// For production: write a binary capture file
//	opts.Notifier, _ = notify.NewCaptureFile("/var/log/dpll/registry.dcap")
//
//	// Both at once
//	opts.Notifier = notify.NewMulti(
//	    notify.NewSlog(slog.Default()),
//	    capture,
//	)
//
// # File Format
//
// Capture files use CBOR encoding with the .dcap extension. Reader
// streams a capture back, optionally filtered by object, change type,
// device or time window. Every event in one capture carries the same
// session ID, so captures from several runs can be merged and split
// again.
package notify
