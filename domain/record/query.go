package record

// ListOption applies a modification to a ListQuery.
type ListOption func(ListQuery) ListQuery

// ListQuery holds equality filters, ordering, and a limit for record
// listings. Filters and sorting apply to fields of the decoded record data,
// not to row columns.
type ListQuery struct {
	filters []Filter
	sortBy  string
	desc    bool
	limit   int
}

// BuildListQuery creates a ListQuery from a set of options.
func BuildListQuery(options ...ListOption) ListQuery {
	q := ListQuery{}
	for _, opt := range options {
		q = opt(q)
	}
	return q
}

// Filters returns the equality filters.
func (q ListQuery) Filters() []Filter {
	result := make([]Filter, len(q.filters))
	copy(result, q.filters)
	return result
}

// SortBy returns the data field to sort by, or "" for insertion order.
func (q ListQuery) SortBy() string { return q.sortBy }

// Descending returns true when sort order is newest-first.
func (q ListQuery) Descending() bool { return q.desc }

// LimitValue returns the limit (0 means no limit).
func (q ListQuery) LimitValue() int { return q.limit }

// Filter is a single field = value equality condition on record data.
type Filter struct {
	field string
	value any
}

// Field returns the filter field name.
func (f Filter) Field() string { return f.field }

// Value returns the filter value.
func (f Filter) Value() any { return f.value }

// WithFilter adds a field = value equality condition on record data.
func WithFilter(field string, value any) ListOption {
	return func(q ListQuery) ListQuery {
		q.filters = append(q.filters, Filter{field: field, value: value})
		return q
	}
}

// WithSort sets the data field to sort by.
func WithSort(field string, descending bool) ListOption {
	return func(q ListQuery) ListQuery {
		q.sortBy = field
		q.desc = descending
		return q
	}
}

// WithLimit sets the maximum number of results.
func WithLimit(n int) ListOption {
	return func(q ListQuery) ListQuery {
		q.limit = n
		return q
	}
}
