package riskfeed

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	feedURL      string
	httpClient   *http.Client
	timeout      time.Duration
	maxBodyBytes int64

	narratives Narratives
	onSnapshot func(Snapshot)

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// Narratives overrides the wording of synthesized findings per band.
// Empty entries keep the built-in wording.
type Narratives struct {
	High   string
	Medium string
	Low    string
}

// WithFeedURL sets the feed service base URL, e.g. http://localhost:8001/api/v1.
func WithFeedURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.feedURL = url
	})
}

// WithHTTPClient sets the HTTP client used for feed requests.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout bounds each fetch. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithMaxBodyBytes caps the feed response size. Default: 16 MiB.
func WithMaxBodyBytes(n int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxBodyBytes = n
	})
}

// WithNarratives sets custom finding narratives.
func WithNarratives(n Narratives) Option {
	return optionFunc(func(c *clientConfig) {
		c.narratives = n
	})
}

// WithSnapshotHandler registers fn to run after every applied refresh.
// fn receives its own copy of the documents.
func WithSnapshotHandler(fn func(Snapshot)) Option {
	return optionFunc(func(c *clientConfig) {
		c.onSnapshot = fn
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
