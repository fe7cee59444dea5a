package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFetchErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"timeout", fmt.Errorf("%w: get: %w", ErrNetwork, context.DeadlineExceeded), KindTimeout},
		{"network", fmt.Errorf("%w: connection refused", ErrNetwork), KindNetwork},
		{"status", NewStatusError(http.StatusBadGateway, "502 Bad Gateway"), KindServer},
		{"malformed", fmt.Errorf("%w: not an array", ErrMalformedResponse), KindMalformed},
		{"other", errors.New("boom"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FetchErrorKind(tt.err); got != tt.want {
				t.Errorf("FetchErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusError(t *testing.T) {
	err := NewStatusError(http.StatusInternalServerError, "500 Internal Server Error")
	if !errors.Is(err, ErrServer) {
		t.Error("expected StatusError to unwrap to ErrServer")
	}

	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("errors.As failed: %v", err)
	}
	if got := err.Error(); got != "server error: unexpected status 500 Internal Server Error" {
		t.Errorf("Error() = %q", got)
	}

	bare := &StatusError{Code: http.StatusTeapot}
	if got := bare.Error(); got != "server error: unexpected status 418" {
		t.Errorf("Error() = %q", got)
	}
}
