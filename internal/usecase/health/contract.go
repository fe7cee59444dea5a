package health

import "context"

// FeedProber reports whether the last feed fetch succeeded.
type FeedProber interface {
	Probe(ctx context.Context) error
}

// NotifierChecker checks alert destination availability.
type NotifierChecker interface {
	HealthCheck(ctx context.Context) error
}
