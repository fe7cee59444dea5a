// Package dashboard owns the risk-feed view state: the fetched collection,
// the search term, the selection and the fetch lifecycle.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskfeed/internal/domain"
	"github.com/kailas-cloud/riskfeed/internal/domain/document"
	"github.com/kailas-cloud/riskfeed/internal/domain/risk"
	"github.com/kailas-cloud/riskfeed/internal/domain/search/filter"
	"github.com/kailas-cloud/riskfeed/internal/domain/stats"
	"github.com/kailas-cloud/riskfeed/internal/metrics"
)

// ErrSuperseded is returned by Refresh when a newer fetch was issued before
// this one completed. Its result was discarded.
var ErrSuperseded = errors.New("fetch superseded by a newer refresh")

// Controller is the single owner of view state. Fetches run without the
// lock held; a response is applied only if it belongs to the latest issued
// generation.
type Controller struct {
	gw     Gateway
	synth  *risk.Synthesizer
	logger *zap.Logger
	hooks  []SnapshotHook
	now    func() time.Time

	wg sync.WaitGroup

	mu        sync.RWMutex
	baseCtx   context.Context
	state     FetchState
	docs      []document.Document
	fetchedAt time.Time
	issued    uint64
	applied   uint64
	term      filter.Term
	selected  int64
	hasSel    bool
	lastErr   error
	banner    *Banner
}

// New creates a Controller in the idle state with an empty collection.
func New(gw Gateway, opts ...Option) *Controller {
	c := &Controller{
		gw:      gw,
		synth:   risk.NewSynthesizer(risk.DefaultNarratives),
		logger:  zap.NewNop(),
		now:     time.Now,
		baseCtx: context.Background(),
		state:   StateIdle,
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

// Start records ctx as the parent of background fetches and triggers the
// initial load. The state is Loading when Start returns.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.baseCtx = ctx
	c.mu.Unlock()

	c.Trigger()
}

// Trigger issues a new fetch generation and runs it in the background.
func (c *Controller) Trigger() uint64 {
	gen, ctx := c.issue()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_ = c.run(ctx, gen)
	}()
	return gen
}

// Refresh issues a new fetch generation and runs it in the caller's goroutine.
func (c *Controller) Refresh(ctx context.Context) error {
	gen, _ := c.issue()
	return c.run(ctx, gen)
}

// Wait blocks until all background fetches have finished.
func (c *Controller) Wait() { c.wg.Wait() }

func (c *Controller) issue() (uint64, context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issued++
	c.state = StateLoading
	return c.issued, c.baseCtx
}

func (c *Controller) run(ctx context.Context, gen uint64) error {
	docs, err := c.gw.FetchDocuments(ctx)
	return c.complete(ctx, gen, docs, err)
}

func (c *Controller) complete(ctx context.Context, gen uint64, docs []document.Document, err error) error {
	c.mu.Lock()

	if gen != c.issued {
		latest := c.issued
		c.mu.Unlock()

		metrics.FeedSupersededTotal.Inc()
		c.logger.Debug("Discarding superseded fetch",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", latest),
			zap.Error(err),
		)
		return ErrSuperseded
	}

	if err != nil {
		kind := domain.FetchErrorKind(err)
		c.state = StateLoadError
		c.lastErr = err
		c.banner = &Banner{Kind: kind, Message: err.Error(), Generation: gen}
		kept := len(c.docs)
		c.mu.Unlock()

		c.logger.Warn("Feed fetch failed, keeping previous collection",
			zap.Uint64("generation", gen),
			zap.String("kind", kind),
			zap.Int("kept_documents", kept),
			zap.Error(err),
		)
		return fmt.Errorf("fetch documents: %w", err)
	}

	snap := Snapshot{
		Generation: gen,
		FetchedAt:  c.now(),
		Documents:  document.Clone(docs),
		Stats:      stats.Compute(docs),
	}
	if snap.Documents == nil {
		snap.Documents = []document.Document{}
	}

	c.docs = snap.Documents
	c.fetchedAt = snap.FetchedAt
	c.applied = gen
	c.state = StateReady
	c.lastErr = nil
	c.banner = nil
	if c.hasSel {
		if _, ok := document.FindByID(c.docs, c.selected); !ok {
			c.hasSel = false
			c.selected = 0
		}
	}
	c.mu.Unlock()

	exportSnapshot(snap.Stats)
	c.logger.Info("Feed snapshot applied",
		zap.Uint64("generation", gen),
		zap.Int("documents", snap.Stats.Total),
		zap.Int("high_risk", snap.Stats.HighRisk),
		zap.Int("average_score", snap.Stats.Average),
	)

	for _, h := range c.hooks {
		h(ctx, Snapshot{
			Generation: snap.Generation,
			FetchedAt:  snap.FetchedAt,
			Documents:  document.Clone(snap.Documents),
			Stats:      snap.Stats,
		})
	}
	return nil
}

func exportSnapshot(s stats.Summary) {
	metrics.SnapshotDocuments.WithLabelValues("all").Set(float64(s.Total))
	metrics.SnapshotDocuments.WithLabelValues("high").Set(float64(s.HighRisk))
	metrics.SnapshotAverageScore.Set(float64(s.Average))
}

// SetSearchTerm replaces the live search term. The collection is untouched.
func (c *Controller) SetSearchTerm(term string) {
	t := filter.NewTerm(term)

	c.mu.Lock()
	c.term = t
	c.mu.Unlock()
}

// SearchTerm returns the current search term as entered.
func (c *Controller) SearchTerm() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.term.Raw()
}

// Select marks a document as selected and returns its inspection.
func (c *Controller) Select(id int64) (Inspection, error) {
	c.mu.Lock()
	d, ok := document.FindByID(c.docs, id)
	if ok {
		c.selected = id
		c.hasSel = true
	}
	c.mu.Unlock()

	if !ok {
		return Inspection{}, fmt.Errorf("%w: id %d", domain.ErrDocumentNotFound, id)
	}
	return newInspection(c.synth, d), nil
}

// Deselect clears the selection. It is a no-op when nothing is selected.
func (c *Controller) Deselect() {
	c.mu.Lock()
	c.hasSel = false
	c.selected = 0
	c.mu.Unlock()
}

// Inspect analyzes any document of the current collection without changing
// the selection.
func (c *Controller) Inspect(id int64) (Inspection, error) {
	c.mu.RLock()
	d, ok := document.FindByID(c.docs, id)
	c.mu.RUnlock()

	if !ok {
		return Inspection{}, fmt.Errorf("%w: id %d", domain.ErrDocumentNotFound, id)
	}
	return newInspection(c.synth, d), nil
}

// DismissError hides the error banner. The fetch state is unchanged.
func (c *Controller) DismissError() {
	c.mu.Lock()
	c.banner = nil
	c.mu.Unlock()
}

// Probe reports the last fetch error while the controller is in LoadError.
func (c *Controller) Probe(_ context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state == StateLoadError && c.lastErr != nil {
		return fmt.Errorf("feed: %w", c.lastErr)
	}
	return nil
}

// View derives the render model from the current state.
func (c *Controller) View() View {
	c.mu.RLock()
	v := View{
		State:      c.state,
		Loading:    c.state == StateLoading,
		Generation: c.applied,
		SearchTerm: c.term.Raw(),
	}
	docs := c.docs
	term := c.term
	selID, hasSel := c.selected, c.hasSel
	if !c.fetchedAt.IsZero() {
		at := c.fetchedAt
		v.FetchedAt = &at
	}
	if c.banner != nil {
		b := *c.banner
		v.Error = &b
	}
	c.mu.RUnlock()

	// docs is never mutated after being applied, so it is safe to read unlocked.
	v.Stats = stats.Compute(docs)

	visible := term.Apply(docs)
	v.Rows = make([]Row, 0, len(visible))
	for _, d := range visible {
		v.Rows = append(v.Rows, newRow(d))
	}

	if hasSel {
		if d, ok := document.FindByID(docs, selID); ok {
			in := newInspection(c.synth, d)
			v.Selected = &in
		}
	}
	return v
}
