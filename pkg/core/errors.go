package core

import "fmt"

// ConfigError indicates bad generation parameters or a malformed distribution
// table. It is fatal and raised before any sink interaction.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
}

// TransientDeliveryError wraps a network or timeout failure during upload.
// Deliveries failing with it are retried; the error surfaces only when the
// retry budget for a chunk is exhausted.
type TransientDeliveryError struct {
	Chunk int
	Err   error
}

func (e *TransientDeliveryError) Error() string {
	return fmt.Sprintf("transient delivery error on chunk %d: %v", e.Chunk, e.Err)
}

func (e *TransientDeliveryError) Unwrap() error {
	return e.Err
}

// PermanentDeliveryError wraps a non-retryable upload failure such as an auth
// rejection or a schema mismatch. It aborts the upload immediately.
type PermanentDeliveryError struct {
	Chunk int
	Err   error
}

func (e *PermanentDeliveryError) Error() string {
	return fmt.Sprintf("permanent delivery error on chunk %d: %v", e.Chunk, e.Err)
}

func (e *PermanentDeliveryError) Unwrap() error {
	return e.Err
}
