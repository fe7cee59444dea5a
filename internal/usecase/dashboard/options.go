package dashboard

import (
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskfeed/internal/domain/risk"
)

// Option configures the Controller.
type Option interface {
	apply(*Controller)
}

type optionFunc func(*Controller)

func (f optionFunc) apply(c *Controller) { f(c) }

// WithLogger sets the controller logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithSynthesizer overrides the analysis synthesizer (custom narratives).
func WithSynthesizer(s *risk.Synthesizer) Option {
	return optionFunc(func(c *Controller) {
		if s != nil {
			c.synth = s
		}
	})
}

// WithSnapshotHook registers a callback run after each applied snapshot.
// Hooks run in the fetching goroutine after the state lock is released:
// Refresh and Wait return only once they do, so slow work should be queued.
func WithSnapshotHook(fn SnapshotHook) Option {
	return optionFunc(func(c *Controller) {
		if fn != nil {
			c.hooks = append(c.hooks, fn)
		}
	})
}

// WithClock overrides the time source used for FetchedAt.
func WithClock(now func() time.Time) Option {
	return optionFunc(func(c *Controller) {
		if now != nil {
			c.now = now
		}
	})
}
