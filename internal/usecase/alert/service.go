// Package alert raises one notification per HIGH-band document.
package alert

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskfeed/internal/domain/document"
	"github.com/kailas-cloud/riskfeed/internal/domain/risk"
	"github.com/kailas-cloud/riskfeed/internal/metrics"
)

// Alert is a single high-risk notification.
type Alert struct {
	Generation uint64
	Document   document.Document
	Finding    risk.Finding
}

// Text renders the alert as a plain-text message.
func (a Alert) Text() string {
	msg := fmt.Sprintf("🚨 High risk detected: %q score=%d source=%s\n%s",
		a.Document.Title, a.Document.RiskScore, a.Document.Source, a.Finding.Narrative)
	if a.Document.URL != "" {
		msg += "\n" + a.Document.URL
	}
	return msg
}

// Service tracks which documents were already alerted. Ids absent from the
// latest snapshot or scored below HIGH are forgotten, so a document that
// drops out and returns to HIGH is alerted again.
type Service struct {
	notifiers []Notifier
	synth     *risk.Synthesizer
	logger    *zap.Logger

	mu      sync.Mutex
	seen    map[int64]struct{}
	lastGen uint64

	qmu   sync.RWMutex
	queue chan Alert
	wg    sync.WaitGroup
}

// DefaultQueueSize bounds the alerts waiting for background delivery.
const DefaultQueueSize = 64

// New creates a Service. synth can be nil (default narratives).
func New(logger *zap.Logger, synth *risk.Synthesizer, notifiers ...Notifier) *Service {
	if synth == nil {
		synth = risk.NewSynthesizer(risk.DefaultNarratives)
	}
	return &Service{
		notifiers: notifiers,
		synth:     synth,
		logger:    logger,
		seen:      make(map[int64]struct{}),
	}
}

// Process scans a snapshot and notifies about HIGH-band documents not seen
// before. Snapshots older than the last processed one are ignored. Returns
// the alerts that were raised.
func (s *Service) Process(ctx context.Context, gen uint64, docs []document.Document) []Alert {
	alerts := s.collect(gen, docs)
	for _, a := range alerts {
		s.dispatch(ctx, a)
	}
	return alerts
}

// Start delivers alerts passed to Submit on a background goroutine until Stop.
// Non-positive sizes use DefaultQueueSize.
func (s *Service) Start(ctx context.Context, size int) {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	if s.queue != nil {
		return
	}
	if size <= 0 {
		size = DefaultQueueSize
	}
	q := make(chan Alert, size)
	s.queue = q

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for a := range q {
			s.dispatch(ctx, a)
		}
	}()
}

// Submit records the snapshot like Process but hands delivery to the
// background worker, so slow notifiers do not hold up the caller. Without
// Start, or after Stop, alerts are delivered inline. Alerts that do not fit
// in the queue are dropped and counted.
func (s *Service) Submit(ctx context.Context, gen uint64, docs []document.Document) []Alert {
	alerts := s.collect(gen, docs)
	for _, a := range alerts {
		if !s.enqueue(a) {
			s.dispatch(ctx, a)
		}
	}
	return alerts
}

// Stop waits until every queued alert is delivered.
func (s *Service) Stop() {
	s.qmu.Lock()
	if s.queue != nil {
		close(s.queue)
		s.queue = nil
	}
	s.qmu.Unlock()
	s.wg.Wait()
}

// enqueue reports false when no worker is running.
func (s *Service) enqueue(a Alert) bool {
	s.qmu.RLock()
	defer s.qmu.RUnlock()
	if s.queue == nil {
		return false
	}

	select {
	case s.queue <- a:
	default:
		for _, n := range s.notifiers {
			metrics.AlertsSentTotal.WithLabelValues(n.Name(), "dropped").Inc()
		}
		s.logger.Warn("Alert queue full, alert dropped",
			zap.Int64("document_id", a.Document.ID),
			zap.Uint64("generation", a.Generation),
		)
	}
	return true
}

func (s *Service) collect(gen uint64, docs []document.Document) []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen < s.lastGen {
		return nil
	}
	s.lastGen = gen

	present := make(map[int64]struct{}, len(docs))
	var alerts []Alert
	for _, d := range docs {
		present[d.ID] = struct{}{}
		if !risk.IsHigh(d.RiskScore) {
			delete(s.seen, d.ID)
			continue
		}
		if _, ok := s.seen[d.ID]; ok {
			continue
		}
		s.seen[d.ID] = struct{}{}
		alerts = append(alerts, Alert{Generation: gen, Document: d, Finding: s.synth.Synthesize(d)})
	}

	for id := range s.seen {
		if _, ok := present[id]; !ok {
			delete(s.seen, id)
		}
	}
	return alerts
}

func (s *Service) dispatch(ctx context.Context, a Alert) {
	for _, n := range s.notifiers {
		if err := n.Notify(ctx, a); err != nil {
			metrics.AlertsSentTotal.WithLabelValues(n.Name(), "error").Inc()
			s.logger.Error("Alert delivery failed",
				zap.String("notifier", n.Name()),
				zap.Int64("document_id", a.Document.ID),
				zap.Error(err),
			)
			continue
		}
		metrics.AlertsSentTotal.WithLabelValues(n.Name(), "success").Inc()
	}
}

// Tracked reports how many alerted documents are currently remembered.
func (s *Service) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
