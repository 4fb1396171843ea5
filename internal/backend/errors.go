package backend

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey is returned when a backend is resolved without credentials.
var ErrNoAPIKey = errors.New("no API key configured")

// UpstreamError reports a failed call to an upstream AI provider.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s upstream returned %d: %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s upstream request failed: %s", e.Provider, msg)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
