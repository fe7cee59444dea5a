package alert

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes alerts to the service log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Name implements Notifier.
func (n *LogNotifier) Name() string { return "log" }

// Notify implements Notifier.
func (n *LogNotifier) Notify(_ context.Context, a Alert) error {
	n.logger.Warn("High risk detected",
		zap.Uint64("generation", a.Generation),
		zap.Int64("document_id", a.Document.ID),
		zap.String("title", a.Document.Title),
		zap.String("source", a.Document.Source),
		zap.Int("risk_score", a.Document.RiskScore),
		zap.Strings("tags", a.Finding.Tags),
	)
	return nil
}
