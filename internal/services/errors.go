package services

import "fmt"

type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

type MethodNotAllowedError struct{ Method string }

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed", e.Method)
}

// ConfigurationError is returned when the provider credential is missing.
type ConfigurationError struct{ Setting string }

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Setting)
}

// UpstreamError carries the provider's non-success status. Detail holds
// the provider's error text for logging only.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: status %d", e.Provider, e.StatusCode)
}

// InternalError wraps transport and decoding failures.
type InternalError struct{ Err error }

func (e *InternalError) Error() string { return "internal error: " + e.Err.Error() }

func (e *InternalError) Unwrap() error { return e.Err }
