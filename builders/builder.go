// Package builders holds the query-builder backends the feature pipeline
// drives. A Builder accumulates predicates, ordering and bounds and can be
// executed for rows or for a row count.
package builders

import (
	"anyFeatures/types"
	"context"
)

// Builder is a mutable query under construction. Predicates added through
// Where and WhereAny are combined with AND.
type Builder interface {
	Where(column string, op types.Op, value any)
	// WhereAny adds one parenthesized group; conditions added to the group
	// are combined with OR.
	WhereAny(fn func(g Group))
	OrderBy(column string, dir types.SortDir)
	Limit(n int)
	Offset(n int)

	// Clone returns an independent copy. Mutating either side never
	// affects the other.
	Clone() Builder
	ClearOrder()
	ClearSelect()

	// Count returns the number of rows matching the current predicates.
	// Ordering, projection and bounds do not take part.
	Count(ctx context.Context) (int64, error)
	// Rows executes the query.
	Rows(ctx context.Context) ([]types.Row, error)
}

// Group collects the members of an OR group.
type Group interface {
	Where(column string, op types.Op, value any)
}

type condGroup struct {
	conds []types.Condition
}

func (g *condGroup) Where(column string, op types.Op, value any) {
	g.conds = append(g.conds, types.Condition{Field: column, Op: op, Value: value})
}
