package document

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is the processing stage reported by the feed service.
type Status string

// StatusEmbedded marks a document that finished vectorization and indexing.
// Every other status is treated as pending.
const StatusEmbedded Status = "EMBEDDED"

// IsEmbedded reports whether the document finished downstream indexing.
func (s Status) IsEmbedded() bool { return s == StatusEmbedded }

// Document is one monitored filing or news item as served by the feed.
// No field is validated: malformed records are carried through as received.
type Document struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Source        string          `json:"source"`
	URL           string          `json:"url"`
	RiskScore     int             `json:"risk_score"`
	Status        Status          `json:"status"`
	PublishedDate string          `json:"published_date,omitempty"`
	ExtraMetadata json.RawMessage `json:"extra_metadata,omitempty"`
}

// publishedLayouts covers the ISO-8601 flavours the backend emits
// (timezone-aware and naive datetimes, plain dates).
var publishedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// PublishedAt parses published_date. Naive values are read as UTC.
func (d Document) PublishedAt() (time.Time, bool) {
	raw := strings.TrimSpace(d.PublishedDate)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DisplayDate returns the date shown for the document. It always derives
// from published_date; an unparseable value is returned verbatim.
func (d Document) DisplayDate() string {
	if t, ok := d.PublishedAt(); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return strings.TrimSpace(d.PublishedDate)
}

// FindByID returns the first document with the given id.
func FindByID(docs []Document, id int64) (Document, bool) {
	for _, d := range docs {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

// Clone returns a copy of the collection so callers cannot alias snapshot storage.
func Clone(docs []Document) []Document {
	if docs == nil {
		return nil
	}
	out := make([]Document, len(docs))
	copy(out, docs)
	return out
}
