// Package feedapi is the HTTP gateway to the document feed service.
package feedapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskfeed/internal/domain"
	"github.com/kailas-cloud/riskfeed/internal/domain/document"
	"github.com/kailas-cloud/riskfeed/internal/metrics"
)

// documentsPath is appended to the configured base URL.
const documentsPath = "/documents"

// Client fetches the full document collection from the feed service.
type Client struct {
	endpoint     string
	http         *http.Client
	timeout      time.Duration
	maxBodyBytes int64
	logger       *zap.Logger
}

// New creates a feed client for the given base URL (e.g. http://localhost:8001/api/v1).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("feedapi: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("feedapi: base url must be http(s), got %q", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("feedapi: base url has no host: %q", baseURL)
	}

	cfg := &clientConfig{
		httpClient:   &http.Client{},
		timeout:      DefaultTimeout,
		maxBodyBytes: DefaultMaxBodyBytes,
		logger:       zap.NewNop(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	return &Client{
		endpoint:     strings.TrimRight(u.String(), "/") + documentsPath,
		http:         cfg.httpClient,
		timeout:      cfg.timeout,
		maxBodyBytes: cfg.maxBodyBytes,
		logger:       cfg.logger,
	}, nil
}

// Endpoint returns the resolved collection URL.
func (c *Client) Endpoint() string { return c.endpoint }

// FetchDocuments issues one GET for the whole collection. The response body
// becomes the new collection as-is: no pagination, no merge.
func (c *Client) FetchDocuments(ctx context.Context) (docs []document.Document, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() { c.observe(start, len(docs), err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get documents: %w", domain.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// drain a little so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4<<10)
		return nil, domain.NewStatusError(resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrNetwork, err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrMalformedResponse, c.maxBodyBytes)
	}

	return decodeDocuments(body)
}

// decodeDocuments accepts only a JSON array of document objects.
func decodeDocuments(body []byte) ([]document.Document, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", domain.ErrMalformedResponse)
	}
	if !gjson.ParseBytes(body).IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array of documents", domain.ErrMalformedResponse)
	}

	docs := make([]document.Document, 0)
	if err := json.Unmarshal(body, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode documents: %w", domain.ErrMalformedResponse, err)
	}
	return docs, nil
}

func (c *Client) observe(start time.Time, n int, err error) {
	dur := time.Since(start)
	metrics.FeedFetchDuration.Observe(dur.Seconds())

	if err != nil {
		kind := domain.FetchErrorKind(err)
		metrics.FeedFetchTotal.WithLabelValues(kind).Inc()
		c.logger.Debug("Feed fetch failed",
			zap.String("endpoint", c.endpoint),
			zap.String("kind", kind),
			zap.Duration("duration", dur),
			zap.Error(err),
		)
		return
	}

	metrics.FeedFetchTotal.WithLabelValues("success").Inc()
	c.logger.Debug("Feed fetch completed",
		zap.String("endpoint", c.endpoint),
		zap.Int("documents", n),
		zap.Duration("duration", dur),
	)
}
