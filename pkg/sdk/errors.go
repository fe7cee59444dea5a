package riskfeed

import (
	"github.com/kailas-cloud/riskfeed/internal/domain"
	"github.com/kailas-cloud/riskfeed/internal/usecase/dashboard"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNetwork           = domain.ErrNetwork
	ErrServer            = domain.ErrServer
	ErrMalformedResponse = domain.ErrMalformedResponse
	ErrDocumentNotFound  = domain.ErrDocumentNotFound
	ErrSuperseded        = dashboard.ErrSuperseded
)

// StatusError carries the HTTP status of a failed feed response.
type StatusError = domain.StatusError
