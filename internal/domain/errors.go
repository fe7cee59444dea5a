package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNetwork signals that the feed request could not be completed.
	ErrNetwork = errors.New("network error")
	// ErrServer signals a non-success status from the feed service.
	ErrServer = errors.New("server error")
	// ErrMalformedResponse signals a body that is not a document array.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrDocumentNotFound signals a document id absent from the current snapshot.
	ErrDocumentNotFound = errors.New("document not found")
)

// StatusError wraps ErrServer with the HTTP status returned by the feed service.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%s: unexpected status %s", ErrServer.Error(), e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %d", ErrServer.Error(), e.Code)
}

func (e *StatusError) Unwrap() error { return ErrServer }

// NewStatusError creates a server error for the given status.
func NewStatusError(code int, status string) error {
	return &StatusError{Code: code, Status: status}
}

// Fetch error kinds, used for error banners and metric labels.
const (
	KindNetwork   = "network"
	KindTimeout   = "timeout"
	KindServer    = "server"
	KindMalformed = "malformed"
	KindUnknown   = "unknown"
)

// FetchErrorKind classifies a fetch error. Timeouts are reported separately
// from other network failures.
func FetchErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrServer):
		return KindServer
	case errors.Is(err, ErrMalformedResponse):
		return KindMalformed
	default:
		return KindUnknown
	}
}
