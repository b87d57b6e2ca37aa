package builders

import (
	"anyFeatures/types"
	"anyFeatures/utils"
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lann/builder"
)

// SQLQueryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type SQLQueryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SquirrelBuilder drives a squirrel SelectBuilder over database/sql. It has
// no schema: identifiers are quoted, never checked.
type SquirrelBuilder struct {
	db  SQLQueryer
	sel sq.SelectBuilder
	err error
}

// NewSquirrelBuilder selects cols (or * when none) from table. Use
// sq.Question for SQLite and sq.Dollar for PostgreSQL. Identifiers are
// double-quoted, so dialects that read "x" as a string literal are not
// supported.
func NewSquirrelBuilder(db SQLQueryer, table string, ph sq.PlaceholderFormat, cols ...string) *SquirrelBuilder {
	quoted := make([]string, 0, len(cols))
	for _, c := range cols {
		quoted = append(quoted, utils.QuoteIdentPG(c))
	}
	if len(quoted) == 0 {
		quoted = append(quoted, "*")
	}
	return &SquirrelBuilder{
		db:  db,
		sel: sq.StatementBuilder.PlaceholderFormat(ph).Select(quoted...).From(utils.QuoteIdentPG(table)),
	}
}

func (b *SquirrelBuilder) Where(column string, op types.Op, value any) {
	pred, err := sqCond(column, op, value)
	if err != nil {
		b.fail(err)
		return
	}
	b.sel = b.sel.Where(pred)
}

func (b *SquirrelBuilder) WhereAny(fn func(g Group)) {
	g := &condGroup{}
	fn(g)
	if len(g.conds) == 0 {
		b.sel = b.sel.Where(sq.Expr("1=0"))
		return
	}
	or := make(sq.Or, 0, len(g.conds))
	for _, c := range g.conds {
		pred, err := sqCond(c.Field, c.Op, c.Value)
		if err != nil {
			b.fail(err)
			return
		}
		or = append(or, pred)
	}
	b.sel = b.sel.Where(or)
}

func (b *SquirrelBuilder) OrderBy(column string, dir types.SortDir) {
	d := " ASC"
	if dir == types.Desc {
		d = " DESC"
	}
	b.sel = b.sel.OrderBy(utils.QuoteIdentPG(column) + d)
}

func (b *SquirrelBuilder) Limit(n int) {
	if n < 0 {
		b.fail(fmt.Errorf("negative limit %d", n))
		return
	}
	b.sel = b.sel.Limit(uint64(n))
}

func (b *SquirrelBuilder) Offset(n int) {
	if n < 0 {
		b.fail(fmt.Errorf("negative offset %d", n))
		return
	}
	b.sel = b.sel.Offset(uint64(n))
}

// Clone is a plain copy: squirrel builders are persistent values.
func (b *SquirrelBuilder) Clone() Builder {
	cp := *b
	return &cp
}

func (b *SquirrelBuilder) ClearOrder() {
	b.sel = builder.Delete(b.sel, "OrderByParts").(sq.SelectBuilder)
}

func (b *SquirrelBuilder) ClearSelect() {
	b.sel = builder.Delete(b.sel, "Columns").(sq.SelectBuilder)
}

// ToSQL renders the row query.
func (b *SquirrelBuilder) ToSQL() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	return b.sel.ToSql()
}

func (b *SquirrelBuilder) Count(ctx context.Context) (int64, error) {
	if b.err != nil {
		return 0, b.err
	}
	c := b.sel
	for _, part := range []string{"OrderByParts", "Columns", "Limit", "Offset"} {
		c = builder.Delete(c, part).(sq.SelectBuilder)
	}
	query, args, err := c.Columns("count(*) AS count").ToSql()
	if err != nil {
		return 0, err
	}
	rows, err := b.query(ctx, query, args)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return utils.CountFromRow(rows[0]), nil
}

func (b *SquirrelBuilder) Rows(ctx context.Context) ([]types.Row, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return nil, err
	}
	return b.query(ctx, query, args)
}

func (b *SquirrelBuilder) query(ctx context.Context, query string, args []any) ([]types.Row, error) {
	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

// fail keeps the first error; it is returned by the next execution.
func (b *SquirrelBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func sqCond(column string, op types.Op, value any) (sq.Sqlizer, error) {
	ident := utils.QuoteIdentPG(column)
	switch op {
	case types.OpEq, types.OpIn:
		return sq.Eq{ident: value}, nil
	case types.OpGte:
		return sq.GtOrEq{ident: value}, nil
	case types.OpLte:
		return sq.LtOrEq{ident: value}, nil
	case types.OpLikePrefix:
		return sq.Like{ident: fmt.Sprintf("%v%%", value)}, nil
	case types.OpILikePrefix:
		return sq.ILike{ident: fmt.Sprintf("%v%%", value)}, nil
	case types.OpContains:
		return sq.Like{ident: fmt.Sprintf("%%%v%%", value)}, nil
	default:
		return nil, fmt.Errorf("unsupported op %v", op)
	}
}

func scanRows(rows *sql.Rows) ([]types.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := make([]types.Row, 0)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(types.Row, len(cols))
		for i, c := range cols {
			if bs, ok := vals[i].([]byte); ok {
				row[c] = string(bs)
				continue
			}
			row[c] = vals[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
