package anylize

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"anyFeatures/schemas"
)

// Renderer is implemented by builders that can show their SQL.
type Renderer interface {
	ToSQL() (string, []any, error)
}

// ExplainBuilder runs EXPLAIN ANALYZE on the row query a builder would issue.
func ExplainBuilder(ctx context.Context, db schemas.DBTX, r Renderer) (plan string, ms float64, err error) {
	sqlStr, args, err := r.ToSQL()
	if err != nil {
		return "", 0, err
	}
	return ExplainAnalyze(ctx, db, sqlStr, args...)
}

func ExplainAnalyze(ctx context.Context, db schemas.DBTX, sqlStr string, args ...any) (plan string, ms float64, err error) {
	q := "EXPLAIN (ANALYZE, BUFFERS, FORMAT TEXT) " + sqlStr
	rows, err := db.Query(ctx, q, args...)
	if err != nil {
		return "", 0, err
	}
	defer rows.Close()
	var b strings.Builder
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return "", 0, err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	plan = b.String()
	ms = parseExec(plan)
	return plan, ms, rows.Err()
}

var execRe = regexp.MustCompile(`Execution Time:\s+([0-9.]+)\s+ms`)

func parseExec(plan string) float64 {
	m := execRe.FindStringSubmatch(plan)
	if len(m) == 2 {
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}
