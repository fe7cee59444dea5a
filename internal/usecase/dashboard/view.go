package dashboard

import (
	"time"

	"github.com/kailas-cloud/riskfeed/internal/domain/document"
	"github.com/kailas-cloud/riskfeed/internal/domain/risk"
	"github.com/kailas-cloud/riskfeed/internal/domain/stats"
)

// FetchState is the lifecycle of the current collection.
type FetchState string

// Fetch states.
const (
	StateIdle      FetchState = "idle"
	StateLoading   FetchState = "loading"
	StateReady     FetchState = "ready"
	StateLoadError FetchState = "load_error"
)

// Row is one rendered document in the filtered list.
type Row struct {
	Document    document.Document `json:"document"`
	Band        risk.Band         `json:"band"`
	Category    risk.Category     `json:"category"`
	Color       string            `json:"color"`
	Alert       bool              `json:"alert"`
	Embedded    bool              `json:"embedded"`
	DisplayDate string            `json:"display_date"`
}

// Inspection is the detail panel for a single document.
type Inspection struct {
	Document    document.Document `json:"document"`
	Category    risk.Category     `json:"category"`
	DisplayDate string            `json:"display_date"`
	risk.Finding
}

// Banner is the user-visible fetch error.
type Banner struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Generation uint64 `json:"generation"`
}

// View is the render model. Everything in it is derived from a single
// consistent read of controller state.
type View struct {
	State      FetchState    `json:"state"`
	Loading    bool          `json:"loading"`
	Generation uint64        `json:"generation"`
	FetchedAt  *time.Time    `json:"fetched_at,omitempty"`
	Stats      stats.Summary `json:"stats"`
	SearchTerm string        `json:"search_term"`
	Rows       []Row         `json:"rows"`
	Selected   *Inspection   `json:"selected"`
	Error      *Banner       `json:"error"`
}

// Snapshot is an applied collection as handed to hooks.
type Snapshot struct {
	Generation uint64
	FetchedAt  time.Time
	Documents  []document.Document
	Stats      stats.Summary
}

func newRow(d document.Document) Row {
	band := risk.Classify(d.RiskScore)
	cat := band.Category()
	return Row{
		Document:    d,
		Band:        band,
		Category:    cat,
		Color:       cat.Color(),
		Alert:       cat.ShowsAlert(),
		Embedded:    d.Status.IsEmbedded(),
		DisplayDate: d.DisplayDate(),
	}
}

func newInspection(s *risk.Synthesizer, d document.Document) Inspection {
	f := s.Synthesize(d)
	return Inspection{
		Document:    d,
		Category:    f.Band.Category(),
		DisplayDate: d.DisplayDate(),
		Finding:     f,
	}
}
