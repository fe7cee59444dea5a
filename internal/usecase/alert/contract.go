package alert

import "context"

// Notifier delivers a high-risk alert to one destination.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, a Alert) error
}
