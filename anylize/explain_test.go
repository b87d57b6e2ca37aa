package anylize

import (
	"context"
	"errors"
	"testing"
)

func TestParseExec(t *testing.T) {
	plan := `Limit  (cost=0.00..1.10 rows=10 width=36) (actual time=0.010..0.012 rows=10 loops=1)
  ->  Seq Scan on deliveries  (cost=0.00..25.88 rows=6 width=36)
Planning Time: 0.080 ms
Execution Time: 0.031 ms
`
	if got := parseExec(plan); got != 0.031 {
		t.Errorf("parseExec = %v, want 0.031", got)
	}
	if got := parseExec("Seq Scan on deliveries"); got != 0 {
		t.Errorf("parseExec without timing = %v, want 0", got)
	}
	if got := parseExec("Execution Time: 1.2.3 ms"); got != 0 {
		t.Errorf("parseExec with malformed timing = %v, want 0", got)
	}
}

type badRenderer struct{ err error }

func (r badRenderer) ToSQL() (string, []any, error) { return "", nil, r.err }

func TestExplainBuilder_RenderErrorShortCircuits(t *testing.T) {
	boom := errors.New("unknown sort")
	// A nil DBTX would panic if it were reached.
	if _, _, err := ExplainBuilder(context.Background(), nil, badRenderer{boom}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}
