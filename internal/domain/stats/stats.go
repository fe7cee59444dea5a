// Package stats derives aggregate figures from a collection snapshot.
package stats

import (
	"math"

	"github.com/kailas-cloud/riskfeed/internal/domain/document"
	"github.com/kailas-cloud/riskfeed/internal/domain/risk"
)

// Summary holds aggregate statistics over the whole, unfiltered collection.
type Summary struct {
	Total    int `json:"total_count"`
	HighRisk int `json:"high_risk_count"`
	Average  int `json:"average_score"`
}

// Compute derives the summary from scratch. Average is the arithmetic mean
// rounded half up, or 0 for an empty collection.
func Compute(docs []document.Document) Summary {
	s := Summary{Total: len(docs)}
	if s.Total == 0 {
		return s
	}

	var sum int64
	for _, d := range docs {
		sum += int64(d.RiskScore)
		if risk.IsHigh(d.RiskScore) {
			s.HighRisk++
		}
	}

	mean := float64(sum) / float64(s.Total)
	s.Average = int(math.Floor(mean + 0.5))
	return s
}

// HighRiskShare is the high-risk fraction of the collection in [0, 1].
func (s Summary) HighRiskShare() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.HighRisk) / float64(s.Total)
}
