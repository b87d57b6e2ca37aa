package builders

import (
	"anyFeatures/schemas"
	"anyFeatures/types"
	"context"

	"github.com/jackc/pgx/v5"
)

// SpecBuilder accumulates a types.QuerySpec and renders it with BuildSelect
// and BuildCount, so every column it touches is checked against the schema.
// Rendering errors surface from Count, Rows and ToSQL.
type SpecBuilder struct {
	db     schemas.DBTX
	schema schemas.Schema
	spec   types.QuerySpec
}

func NewSpecBuilder(db schemas.DBTX, sch schemas.Schema, table string, cols ...string) *SpecBuilder {
	return &SpecBuilder{
		db:     db,
		schema: sch,
		spec:   types.QuerySpec{Table: table, Select: append([]string(nil), cols...)},
	}
}

func (b *SpecBuilder) Where(column string, op types.Op, value any) {
	b.spec.Where = append(b.spec.Where, types.Condition{Field: column, Op: op, Value: value})
}

func (b *SpecBuilder) WhereAny(fn func(g Group)) {
	g := &condGroup{}
	fn(g)
	b.spec.Where = append(b.spec.Where, types.Condition{Op: types.OpAny, Any: g.conds})
}

func (b *SpecBuilder) OrderBy(column string, dir types.SortDir) {
	b.spec.Sort = append(b.spec.Sort, types.Sort{Field: column, Dir: dir})
}

func (b *SpecBuilder) Limit(n int) {
	b.window().Limit = n
}

func (b *SpecBuilder) Offset(n int) {
	b.window().Offset = n
}

func (b *SpecBuilder) window() *types.Window {
	if b.spec.Page == nil {
		b.spec.Page = &types.Window{}
	}
	return b.spec.Page
}

func (b *SpecBuilder) Clone() Builder {
	cp := *b
	cp.spec.Select = append([]string(nil), b.spec.Select...)
	cp.spec.Where = cloneConds(b.spec.Where)
	cp.spec.Sort = append([]types.Sort(nil), b.spec.Sort...)
	if b.spec.Page != nil {
		w := *b.spec.Page
		cp.spec.Page = &w
	}
	return &cp
}

func cloneConds(in []types.Condition) []types.Condition {
	if in == nil {
		return nil
	}
	out := make([]types.Condition, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Any = cloneConds(c.Any)
	}
	return out
}

func (b *SpecBuilder) ClearOrder()  { b.spec.Sort = nil }
func (b *SpecBuilder) ClearSelect() { b.spec.Select = nil }

// Spec returns the accumulated query.
func (b *SpecBuilder) Spec() types.QuerySpec { return b.spec }

// ToSQL renders the row query.
func (b *SpecBuilder) ToSQL() (string, []any, error) {
	return BuildSelect(b.spec, b.schema)
}

func (b *SpecBuilder) Count(ctx context.Context) (int64, error) {
	sql, args, err := BuildCount(b.spec, b.schema)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := b.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (b *SpecBuilder) Rows(ctx context.Context) ([]types.Row, error) {
	sql, args, err := b.ToSQL()
	if err != nil {
		return nil, err
	}
	rows, err := b.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	out := make([]types.Row, len(maps))
	for i, m := range maps {
		out[i] = m
	}
	return out, nil
}
