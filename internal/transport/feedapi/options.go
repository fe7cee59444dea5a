package feedapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Defaults for the feed client.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxBodyBytes = 16 << 20
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	httpClient   *http.Client
	timeout      time.Duration
	maxBodyBytes int64
	logger       *zap.Logger
}

// WithHTTPClient sets the underlying HTTP client. Its own Timeout is left as-is;
// the per-call deadline comes from WithTimeout. nil keeps the default client.
func WithHTTPClient(c *http.Client) Option {
	return optionFunc(func(cfg *clientConfig) {
		if c != nil {
			cfg.httpClient = c
		}
	})
}

// WithTimeout bounds every fetch. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(cfg *clientConfig) {
		if d > 0 {
			cfg.timeout = d
		}
	})
}

// WithMaxBodyBytes caps the response size. Larger bodies are malformed responses.
func WithMaxBodyBytes(n int64) Option {
	return optionFunc(func(cfg *clientConfig) {
		if n > 0 {
			cfg.maxBodyBytes = n
		}
	})
}

// WithLogger enables structured logging for fetches.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(cfg *clientConfig) {
		if l != nil {
			cfg.logger = l
		}
	})
}
