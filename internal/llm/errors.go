// ABOUTME: Error types surfaced by routing calls
// ABOUTME: ConfigurationError for a missing credential, TransportError for everything on the wire
package llm

import (
	"errors"
	"fmt"
)

// ConfigurationError means the call could not be attempted at all
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// TransportError wraps a network, service or response-shape failure
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err contains a ConfigurationError
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsTransportError reports whether err contains a TransportError
func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}
