package riskfeed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/riskfeed/internal/domain/risk"
	"github.com/kailas-cloud/riskfeed/internal/transport/feedapi"
	"github.com/kailas-cloud/riskfeed/internal/usecase/dashboard"
	healthuc "github.com/kailas-cloud/riskfeed/internal/usecase/health"
)

// Internal interface for substitution in tests.
type dashboardUseCase interface {
	Refresh(ctx context.Context) error
	View() dashboard.View
	SetSearchTerm(term string)
	Select(id int64) (dashboard.Inspection, error)
	Deselect()
	Inspect(id int64) (dashboard.Inspection, error)
	DismissError()
}

// Client is the riskfeed SDK entry point. It is safe for concurrent use.
type Client struct {
	dash      dashboardUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. No request is made until Refresh.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.feedURL == "" {
		return nil, errors.New("riskfeed: feed url required (use WithFeedURL)")
	}

	feedOpts := []feedapi.Option{
		feedapi.WithTimeout(cfg.timeout),
		feedapi.WithMaxBodyBytes(cfg.maxBodyBytes),
	}
	if cfg.httpClient != nil {
		feedOpts = append(feedOpts, feedapi.WithHTTPClient(cfg.httpClient))
	}
	gw, err := feedapi.New(cfg.feedURL, feedOpts...)
	if err != nil {
		return nil, fmt.Errorf("riskfeed: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	dashOpts := []dashboard.Option{
		dashboard.WithSynthesizer(risk.NewSynthesizer(risk.Narratives(cfg.narratives))),
	}
	if cfg.onSnapshot != nil {
		fn := cfg.onSnapshot
		dashOpts = append(dashOpts, dashboard.WithSnapshotHook(func(_ context.Context, s dashboard.Snapshot) {
			fn(s)
		}))
	}
	dash := dashboard.New(gw, dashOpts...)

	return &Client{
		dash:      dash,
		healthSvc: healthuc.New(dash, nil),
		obs:       obs,
	}, nil
}

// Refresh fetches the collection and applies it. On failure the previous
// collection stays in place and View reports the error.
func (c *Client) Refresh(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("refresh", start, err) }()

	return c.dash.Refresh(ctx)
}

// View returns the current render model.
func (c *Client) View() View {
	return c.dash.View()
}

// Search sets the search term and returns the filtered view.
// An empty term shows the whole collection.
func (c *Client) Search(term string) View {
	c.dash.SetSearchTerm(term)
	return c.dash.View()
}

// Select marks the document as selected and returns its analysis.
func (c *Client) Select(id int64) (in Inspection, err error) {
	start := time.Now()
	defer func() { c.obs.observe("select", start, err) }()

	in, err = c.dash.Select(id)
	if err != nil {
		return Inspection{}, fmt.Errorf("select: %w", err)
	}
	return in, nil
}

// Deselect clears the selection.
func (c *Client) Deselect() {
	c.dash.Deselect()
}

// Analyze returns the analysis of a document without changing the selection.
func (c *Client) Analyze(id int64) (in Inspection, err error) {
	start := time.Now()
	defer func() { c.obs.observe("analyze", start, err) }()

	in, err = c.dash.Inspect(id)
	if err != nil {
		return Inspection{}, fmt.Errorf("analyze: %w", err)
	}
	return in, nil
}

// DismissError hides the current fetch error.
func (c *Client) DismissError() {
	c.dash.DismissError()
}
