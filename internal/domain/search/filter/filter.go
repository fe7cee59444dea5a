package filter

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/kailas-cloud/riskfeed/internal/domain/document"
)

// Term is a case-insensitive search term matched against title and source.
type Term struct {
	raw    string
	folded string
}

// NewTerm folds the raw term once so matching does not repeat the work per row.
func NewTerm(raw string) Term {
	return Term{raw: raw, folded: fold(raw)}
}

// Raw returns the term as typed.
func (t Term) Raw() string { return t.raw }

// IsEmpty reports whether the term matches everything.
func (t Term) IsEmpty() bool { return t.raw == "" }

// Matches reports whether the term is a substring of the title or the source.
func (t Term) Matches(d document.Document) bool {
	if t.IsEmpty() {
		return true
	}
	return strings.Contains(fold(d.Title), t.folded) ||
		strings.Contains(fold(d.Source), t.folded)
}

// Apply returns the matching documents in input order.
func (t Term) Apply(docs []document.Document) []document.Document {
	if t.IsEmpty() {
		return document.Clone(docs)
	}
	out := make([]document.Document, 0, len(docs))
	for _, d := range docs {
		if t.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}

// Documents filters the collection by a raw search term.
func Documents(docs []document.Document, term string) []document.Document {
	return NewTerm(term).Apply(docs)
}

// fold applies Unicode case folding. A Caser keeps state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
