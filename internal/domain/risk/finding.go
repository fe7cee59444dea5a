package risk

import (
	"slices"

	"github.com/kailas-cloud/riskfeed/internal/domain/document"
)

// Signal tags attached to a finding.
const (
	TagGoingConcern        = "Going Concern Warning"
	TagSolvency            = "Solvency Risk"
	TagMarketVolatility    = "Market Volatility"
	TagFinancialDisclosure = "Financial Disclosure"
)

// VolatilityThreshold is independent of (and lower than) HighThreshold.
const VolatilityThreshold = 30

// Narratives holds the per-band wording of a finding.
type Narratives struct {
	High   string
	Medium string
	Low    string
}

// DefaultNarratives is the built-in wording.
var DefaultNarratives = Narratives{
	High: "Critical distress signals detected. The filing contains language consistent with " +
		"going-concern doubt and solvency pressure; immediate analyst review is recommended.",
	Medium: "Elevated risk indicators present. Disclosures reference material uncertainty " +
		"that warrants monitoring over the next reporting cycle.",
	Low: "Stable profile. No material risk flags were raised in this disclosure.",
}

// withDefaults fills empty entries from DefaultNarratives.
func (n Narratives) withDefaults() Narratives {
	if n.High == "" {
		n.High = DefaultNarratives.High
	}
	if n.Medium == "" {
		n.Medium = DefaultNarratives.Medium
	}
	if n.Low == "" {
		n.Low = DefaultNarratives.Low
	}
	return n
}

// Finding is the synthesized explanation of a document's risk band.
type Finding struct {
	Band      Band     `json:"band"`
	Narrative string   `json:"narrative"`
	Tags      []string `json:"tags"`
}

// HasTag reports whether the finding carries the tag.
func (f Finding) HasTag(tag string) bool {
	return slices.Contains(f.Tags, tag)
}

// Synthesizer builds findings with a fixed set of narratives.
type Synthesizer struct {
	narratives Narratives
}

// NewSynthesizer creates a Synthesizer. Empty narratives fall back to the defaults.
func NewSynthesizer(n Narratives) *Synthesizer {
	return &Synthesizer{narratives: n.withDefaults()}
}

var defaultSynthesizer = NewSynthesizer(DefaultNarratives)

// Synthesize explains a document using the default narratives.
func Synthesize(doc document.Document) Finding {
	return defaultSynthesizer.Synthesize(doc)
}

// Synthesize explains the document's score. Only the score is read, so equal
// scores always produce equal findings.
func (s *Synthesizer) Synthesize(doc document.Document) Finding {
	score := doc.RiskScore
	band := Classify(score)

	var narrative string
	switch band {
	case High:
		narrative = s.narratives.High
	case Medium:
		narrative = s.narratives.Medium
	default:
		narrative = s.narratives.Low
	}

	return Finding{
		Band:      band,
		Narrative: narrative,
		Tags:      tagsFor(score),
	}
}

// tagsFor accumulates tags; rules are cumulative, not exclusive.
func tagsFor(score int) []string {
	tags := make([]string, 0, 4)
	if Classify(score) == High {
		tags = append(tags, TagGoingConcern, TagSolvency)
	}
	if score >= VolatilityThreshold {
		tags = append(tags, TagMarketVolatility)
	}
	return append(tags, TagFinancialDisclosure)
}
