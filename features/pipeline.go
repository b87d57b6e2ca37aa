// Package features turns raw query parameters into search, filter, sort and
// pagination operations on a builders.Builder.
//
// A Pipeline is request-scoped and not safe for concurrent use. Stages
// mutate the builder in place, in call order. Paginate must complete before
// Get when pagination metadata is wanted.
package features

import (
	"anyFeatures/builders"
	"anyFeatures/types"
	"anyFeatures/utils"
	"context"
	"log/slog"
	"strings"
)

// Request keys read by the stages.
const (
	KeyQuery  = "q"
	KeySearch = "search"
	KeySort   = "sort"
	KeyPage   = "page"
	KeyLimit  = "limit"

	MinPrefix = "min_"
	MaxPrefix = "max_"
)

type Pipeline struct {
	b          builders.Builder
	req        types.Request
	pagination *types.Pagination
	logger     *slog.Logger
}

type Option func(*Pipeline)

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func New(b builders.Builder, req types.Request, opts ...Option) *Pipeline {
	p := &Pipeline{
		b:      b,
		req:    req,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	p.logger = p.logger.With("component", "features")
	return p
}

// Search adds one OR group matching the q (or search) term against every
// field. No-op without a term or fields.
func (p *Pipeline) Search(fields ...string) *Pipeline {
	term, ok := p.req.First(KeyQuery, KeySearch)
	if !ok || len(fields) == 0 {
		return p
	}
	p.b.WhereAny(func(g builders.Group) {
		for _, f := range fields {
			g.Where(f, types.OpContains, term)
		}
	})
	p.logger.Debug("search applied", "fields", fields)
	return p
}

// Filter adds f = v, f >= min_f and f <= max_f predicates for each allowed
// field that has a non-empty value. Request keys outside allowed are never
// read.
func (p *Pipeline) Filter(allowed ...string) *Pipeline {
	n := 0
	for _, f := range allowed {
		if v, ok := p.req.Lookup(f); ok {
			p.b.Where(f, types.OpEq, v)
			n++
		}
		if v, ok := p.req.Lookup(MinPrefix + f); ok {
			p.b.Where(f, types.OpGte, v)
			n++
		}
		if v, ok := p.req.Lookup(MaxPrefix + f); ok {
			p.b.Where(f, types.OpLte, v)
			n++
		}
	}
	if n > 0 {
		p.logger.Debug("filters applied", "predicates", n)
	}
	return p
}

// Sort orders by the request's sort key, or def when it is empty. Tokens are
// comma separated; a leading '-' sorts descending. Columns are not checked
// against an allow-list.
func (p *Pipeline) Sort(def string) *Pipeline {
	spec, ok := p.req.Lookup(KeySort)
	if !ok {
		spec = def
	}
	sorts := ParseSort(spec)
	for _, s := range sorts {
		p.b.OrderBy(s.Field, s.Dir)
	}
	if len(sorts) > 0 {
		p.logger.Debug("sort applied", "sort", spec)
	}
	return p
}

// ParseSort splits a "-price,name" style spec. Blank tokens and a bare "-"
// are skipped.
func ParseSort(spec string) []types.Sort {
	if spec == "" {
		return nil
	}
	var out []types.Sort
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		dir := types.Asc
		if strings.HasPrefix(tok, "-") {
			dir = types.Desc
			tok = strings.TrimSpace(tok[1:])
		}
		if tok == "" {
			continue
		}
		out = append(out, types.Sort{Field: tok, Dir: dir})
	}
	return out
}

// Paginate counts the rows matched so far on a clone of the builder, then
// bounds the original builder to the requested page. Builder errors are
// returned unchanged and leave the pipeline unpaginated.
func (p *Pipeline) Paginate(ctx context.Context, defaultLimit int) (*Pipeline, error) {
	limit := utils.PositiveInt(p.req.Get(KeyLimit), defaultLimit)
	page := utils.ClampPage(utils.PositiveInt(p.req.Get(KeyPage), 1), limit)
	offset := utils.Offset(page, limit)

	cb := p.b.Clone()
	cb.ClearOrder()
	cb.ClearSelect()
	total, err := cb.Count(ctx)
	if err != nil {
		return p, err
	}
	if total < 0 {
		total = 0
	}

	p.b.Limit(limit)
	p.b.Offset(offset)
	p.pagination = &types.Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: utils.Pages(total, limit),
	}
	p.logger.Debug("paginated",
		"total", total,
		"page", page,
		"limit", limit,
		"offset", offset,
	)
	return p, nil
}

// Pagination returns the last Paginate result, or nil.
func (p *Pipeline) Pagination() *types.Pagination {
	if p.pagination == nil {
		return nil
	}
	cp := *p.pagination
	return &cp
}

// Get executes the builder. Pagination is nil unless Paginate ran first.
func (p *Pipeline) Get(ctx context.Context) (types.Result, error) {
	rows, err := p.b.Rows(ctx)
	if err != nil {
		return types.Result{}, err
	}
	if rows == nil {
		rows = []types.Row{}
	}
	return types.Result{Data: rows, Pagination: p.Pagination()}, nil
}
