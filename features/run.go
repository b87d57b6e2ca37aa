package features

import (
	"anyFeatures/builders"
	"anyFeatures/types"
	"context"
)

// Plan is the per-resource configuration of a pipeline run.
type Plan struct {
	SearchFields  []string
	AllowedFields []string
	DefaultSort   string
	// DefaultLimit <= 0 disables pagination.
	DefaultLimit int
}

// Run applies search, filter, sort and paginate in that order and fetches
// the rows.
func Run(ctx context.Context, b builders.Builder, req types.Request, plan Plan, opts ...Option) (types.Result, error) {
	p := New(b, req, opts...).
		Search(plan.SearchFields...).
		Filter(plan.AllowedFields...).
		Sort(plan.DefaultSort)
	if plan.DefaultLimit > 0 {
		if _, err := p.Paginate(ctx, plan.DefaultLimit); err != nil {
			return types.Result{}, err
		}
	}
	return p.Get(ctx)
}
