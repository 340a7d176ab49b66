package hubapi

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is returned when an endpoint is unreachable or answers with something we cannot read.
	ErrNetwork = errors.New("network error")
	// ErrSessionInvalid is returned by Verify when the server no longer accepts the token.
	ErrSessionInvalid = errors.New("session invalid")
)

// ValidationError is returned when the server rejected a request with an {"error": ...} body.
type ValidationError struct {
	StatusCode int
	Message    string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request rejected with status %d", e.StatusCode)
	}
	return e.Message
}

// ServerMessage extracts the server provided message from err, if any.
func ServerMessage(err error) (string, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) && vErr.Message != "" {
		return vErr.Message, true
	}
	return "", false
}
