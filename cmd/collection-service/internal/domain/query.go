package domain

import "time"

// CollectionQuery is the stored, declarative filter of a smart collection.
type CollectionQuery struct {
	Filters QueryFilters `json:"filters"`
}

// QueryFilters holds the filterable fields of a smart query.
//
// Category, Visibility and DocumentType accept arrays on the wire, but only
// the first element is honored when the query executes; the rest are
// silently dropped. Multi-value semantics (AND vs OR) were never defined
// for these fields, so the single-value behavior is preserved as-is rather
// than extended. Tags is the exception: it is evaluated as "any of".
type QueryFilters struct {
	Category     []string   `json:"category,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Visibility   []string   `json:"visibility,omitempty"`
	DocumentType []string   `json:"documentType,omitempty"`
	DateRange    *DateRange `json:"dateRange,omitempty"`
}

// DateRange bounds matches by creation time. Either side may be open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// IsEmpty reports whether the query carries no constraints at all. An empty
// smart query matches every active document of the tenant, which is almost
// never what the caller wants; creation rejects it upstream.
func (q *CollectionQuery) IsEmpty() bool {
	f := q.Filters
	return len(f.Category) == 0 &&
		len(f.Tags) == 0 &&
		len(f.Visibility) == 0 &&
		len(f.DocumentType) == 0 &&
		(f.DateRange == nil || (f.DateRange.Start == nil && f.DateRange.End == nil))
}
