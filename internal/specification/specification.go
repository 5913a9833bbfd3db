// Package specification describes queries against the catalog and order
// stores as plain values: filter conditions, relation includes, an ordering
// and a pagination window. A Query carries no SQL and no connection; the
// postgres evaluator turns it into a statement.
package specification

import (
	"fmt"

	"github.com/FaysilAlshareef/TalabatProject/pkg/errors"
)

// Op is a comparison operator usable in a Condition.
type Op string

// Supported condition operators.
const (
	OpEq   Op = "="
	OpNeq  Op = "!="
	OpGt   Op = ">"
	OpGte  Op = ">="
	OpLt   Op = "<"
	OpLte  Op = "<="
	OpLike Op = "LIKE"
	OpIn   Op = "IN"
)

// Condition is a single column filter. All conditions on a Query are
// combined with AND.
type Condition struct {
	Column string
	Op     Op
	Value  any
}

// Ordering names the column results are sorted by.
type Ordering struct {
	Column     string
	Descending bool
}

// Window is a pagination window in row offsets.
type Window struct {
	Offset int
	Limit  int
}

// Query is an immutable description of a read. Zero value means
// "everything": no filter, no includes, storage order, no paging.
type Query struct {
	conditions []Condition
	includes   []string
	order      *Ordering
	page       *Window
}

// New returns an empty query.
func New() Query {
	return Query{}
}

// Where appends a condition. The receiver is not modified.
func (q Query) Where(column string, op Op, value any) Query {
	conditions := make([]Condition, len(q.conditions), len(q.conditions)+1)
	copy(conditions, q.conditions)
	q.conditions = append(conditions, Condition{Column: column, Op: op, Value: value})
	return q
}

// Include requests that the named relation is loaded with the results.
func (q Query) Include(relation string) Query {
	includes := make([]string, len(q.includes), len(q.includes)+1)
	copy(includes, q.includes)
	q.includes = append(includes, relation)
	return q
}

// OrderBy sets the ordering column, replacing any previous ordering.
func (q Query) OrderBy(column string) Query {
	q.order = &Ordering{Column: column}
	return q
}

// OrderByDescending sets a descending ordering, replacing any previous one.
func (q Query) OrderByDescending(column string) Query {
	q.order = &Ordering{Column: column, Descending: true}
	return q
}

// Paginate sets the pagination window, replacing any previous one.
func (q Query) Paginate(offset, limit int) Query {
	q.page = &Window{Offset: offset, Limit: limit}
	return q
}

// Conditions returns the filter conditions in the order they were added.
func (q Query) Conditions() []Condition { return q.conditions }

// Includes returns the requested relation names in the order they were added.
func (q Query) Includes() []string { return q.includes }

// Order returns the ordering, or nil when none was set.
func (q Query) Order() *Ordering { return q.order }

// Page returns the pagination window, or nil when none was set.
func (q Query) Page() *Window { return q.page }

// Validate checks the query for windows that can never be satisfied.
func (q Query) Validate() error {
	if q.page != nil {
		if q.page.Limit <= 0 {
			return errors.InvalidInput(fmt.Sprintf("page limit must be positive, got %d", q.page.Limit))
		}
		if q.page.Offset < 0 {
			return errors.InvalidInput(fmt.Sprintf("page offset must not be negative, got %d", q.page.Offset))
		}
	}
	for _, c := range q.conditions {
		if c.Column == "" {
			return errors.InvalidInput("condition column must not be empty")
		}
	}
	return nil
}
