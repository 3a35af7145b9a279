package domain

import (
	"strings"
	"time"
)

// OrderField names a column a task listing can be sorted by.
type OrderField string

// Sortable task fields.
const (
	OrderByCreationDate OrderField = "creation_date"
	OrderByTitle        OrderField = "title"
)

// OrderTerm is one component of an ordering expression.
type OrderTerm struct {
	Field OrderField
	Desc  bool
}

// String renders the term the way clients write it, e.g. "-creation_date".
func (o OrderTerm) String() string {
	if o.Desc {
		return "-" + string(o.Field)
	}
	return string(o.Field)
}

// DefaultOrdering lists the newest tasks first.
var DefaultOrdering = []OrderTerm{{Field: OrderByCreationDate, Desc: true}}

// TaskQuery refines a listing of the caller's own tasks. The zero value
// matches every owned task in the default order. It can never widen the set
// beyond the owner's tasks: ownership is applied by the store separately.
type TaskQuery struct {
	// Search is a case-insensitive substring matched against title or description.
	Search      string
	IsCompleted *bool
	// CreatedFrom and CreatedTo are inclusive bounds on CreationDate.
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Ordering    []OrderTerm
}

// ParseOrdering reads a comma-separated ordering parameter such as
// "title,-creation_date". Unknown or repeated fields are skipped; if nothing
// usable remains the default ordering is returned.
func ParseOrdering(raw string) []OrderTerm {
	var terms []OrderTerm
	seen := make(map[OrderField]bool)

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		field := OrderField(strings.TrimPrefix(part, "-"))

		if !field.valid() || seen[field] {
			continue
		}
		seen[field] = true
		terms = append(terms, OrderTerm{Field: field, Desc: desc})
	}

	if len(terms) == 0 {
		return DefaultOrdering
	}
	return terms
}

func (f OrderField) valid() bool {
	return f == OrderByCreationDate || f == OrderByTitle
}

// EffectiveOrdering returns the query's ordering, or the default when empty.
func (q TaskQuery) EffectiveOrdering() []OrderTerm {
	if len(q.Ordering) == 0 {
		return DefaultOrdering
	}
	return q.Ordering
}

// Matches reports whether t satisfies the query's filters. Ordering is ignored.
func (q TaskQuery) Matches(t *Task) bool {
	if q.IsCompleted != nil && t.IsCompleted != *q.IsCompleted {
		return false
	}
	if q.CreatedFrom != nil && t.CreationDate.Before(*q.CreatedFrom) {
		return false
	}
	if q.CreatedTo != nil && t.CreationDate.After(*q.CreatedTo) {
		return false
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		needle := strings.ToLower(search)
		if !strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.Description), needle) {
			return false
		}
	}
	return true
}
