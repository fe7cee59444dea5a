// Package risk holds the authoritative score classification and the
// rule-based explanation built on top of it. Nothing else in the module
// compares scores against band thresholds.
package risk

// Band is the discretized severity of a risk score.
type Band string

// Band constants.
const (
	Low    Band = "LOW"
	Medium Band = "MEDIUM"
	High   Band = "HIGH"
)

// Band thresholds (inclusive lower bounds).
const (
	HighThreshold   = 75
	MediumThreshold = 50
)

// Classify maps a score to its band. It is total: any int lands in exactly one band.
func Classify(score int) Band {
	switch {
	case score >= HighThreshold:
		return High
	case score >= MediumThreshold:
		return Medium
	default:
		return Low
	}
}

// IsHigh reports whether the score falls into the HIGH band.
func IsHigh(score int) bool { return Classify(score) == High }

// IsValid checks if the band is one of the supported values.
func (b Band) IsValid() bool {
	return b == Low || b == Medium || b == High
}

// Category is the presentation category rendered wherever a score is shown.
type Category string

// Category constants.
const (
	CategoryStable   Category = "stable"
	CategoryWarning  Category = "warning"
	CategoryCritical Category = "critical"
)

// Category returns the presentation category for the band.
func (b Band) Category() Category {
	switch b {
	case High:
		return CategoryCritical
	case Medium:
		return CategoryWarning
	default:
		return CategoryStable
	}
}

// Color returns the palette identifier for the category.
func (c Category) Color() string {
	switch c {
	case CategoryCritical:
		return "rose"
	case CategoryWarning:
		return "amber"
	default:
		return "emerald"
	}
}

// ShowsAlert reports whether rows in this category carry the alert marker.
func (c Category) ShowsAlert() bool { return c == CategoryCritical }
