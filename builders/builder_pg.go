package builders

import (
	"anyFeatures/schemas"
	"anyFeatures/types"
	"anyFeatures/utils"
	"fmt"
	"strings"
)

func BuildSelect(spec types.QuerySpec, sch schemas.Schema) (string, []any, error) {
	tab, ok := sch.Tables[spec.Table]
	if !ok {
		return "", nil, fmt.Errorf("table %q not allowed", spec.Table)
	}

	// SELECT
	cols := make([]string, 0, len(spec.Select))
	if len(spec.Select) == 0 {
		for _, name := range tab.ColumnNames() {
			cols = append(cols, utils.QuoteIdentPG(name))
		}
	} else {
		for _, c := range spec.Select {
			if !tab.Has(c) {
				return "", nil, fmt.Errorf("unknown column %q", c)
			}
			cols = append(cols, utils.QuoteIdentPG(c))
		}
	}

	var sb strings.Builder
	args := make([]any, 0, 16)
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(cols, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(utils.QuoteIdentPG(tab.Name))
	sb.WriteString(" WHERE 1=1")

	// WHERE
	for _, w := range spec.Where {
		frag, err := renderCond(tab, w, &args)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" AND ")
		sb.WriteString(frag)
	}

	// ORDER BY
	if len(spec.Sort) > 0 {
		sb.WriteString(" ORDER BY ")
		for k, s := range spec.Sort {
			if !tab.Has(s.Field) {
				return "", nil, fmt.Errorf("unknown sort %q", s.Field)
			}
			if k > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(utils.QuoteIdentPG(s.Field))
			if s.Dir == types.Desc {
				sb.WriteString(" DESC")
			} else {
				sb.WriteString(" ASC")
			}
		}
		// tie-break по PK
		if tab.PrimaryKey != "" && spec.Sort[len(spec.Sort)-1].Field != tab.PrimaryKey {
			sb.WriteString(", ")
			sb.WriteString(utils.QuoteIdentPG(tab.PrimaryKey))
			sb.WriteString(" ASC")
		}
	}

	// LIMIT/OFFSET
	if spec.Page != nil {
		if spec.Page.Limit < 0 || spec.Page.Offset < 0 {
			return "", nil, fmt.Errorf("negative window %+v", *spec.Page)
		}
		if spec.Page.Limit > 0 {
			args = append(args, spec.Page.Limit)
			sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
		}
		if spec.Page.Offset > 0 {
			args = append(args, spec.Page.Offset)
			sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
		}
	}

	return sb.String(), args, nil
}

func BuildCount(spec types.QuerySpec, sch schemas.Schema) (string, []any, error) {
	// тот же WHERE, без ORDER/LIMIT, SELECT count(*)
	spec2 := spec
	spec2.Select = nil
	spec2.Sort = nil
	spec2.Page = nil
	sql, args, err := BuildSelect(spec2, sch)
	if err != nil {
		return "", nil, err
	}
	return "SELECT count(*) AS count FROM (" + sql + ") t", args, nil
}

// renderCond renders one predicate, appending its arguments. Placeholder
// numbers continue from len(*args).
func renderCond(tab schemas.Table, w types.Condition, args *[]any) (string, error) {
	if w.Op == types.OpAny {
		if len(w.Any) == 0 {
			return "1=0", nil
		}
		parts := make([]string, 0, len(w.Any))
		for _, c := range w.Any {
			frag, err := renderCond(tab, c, args)
			if err != nil {
				return "", err
			}
			parts = append(parts, frag)
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	}

	col, ok := tab.Columns[w.Field]
	if !ok {
		return "", fmt.Errorf("unknown where column %q", w.Field)
	}
	ident := utils.QuoteIdentPG(col.Name)
	next := func(v any) string {
		*args = append(*args, v)
		return fmt.Sprintf("$%d", len(*args))
	}

	switch w.Op {
	case types.OpEq:
		return ident + " = " + next(w.Value), nil
	case types.OpGte:
		return ident + " >= " + next(w.Value), nil
	case types.OpLte:
		return ident + " <= " + next(w.Value), nil
	case types.OpIn:
		slice, ok := toSlice(w.Value)
		if !ok || len(slice) == 0 {
			return "1=0", nil
		}
		ph := make([]string, len(slice))
		for k := range slice {
			ph[k] = next(slice[k])
		}
		return ident + " IN (" + strings.Join(ph, ",") + ")", nil
	case types.OpLikePrefix, types.OpILikePrefix:
		if col.Type != types.ColText {
			return "", fmt.Errorf("LIKE prefix on non-text %q", col.Name)
		}
		if w.Op == types.OpILikePrefix {
			return ident + " ILIKE " + next(fmt.Sprintf("%v%%", w.Value)), nil
		}
		return ident + " LIKE " + next(fmt.Sprintf("%v%%", w.Value)), nil
	case types.OpContains:
		if col.Type != types.ColText {
			ident = "CAST(" + ident + " AS TEXT)"
		}
		return ident + " LIKE " + next(fmt.Sprintf("%%%v%%", w.Value)), nil
	default:
		return "", fmt.Errorf("unsupported op %v", w.Op)
	}
}

func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []int:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []int64:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []string:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	default:
		return nil, false
	}
}
