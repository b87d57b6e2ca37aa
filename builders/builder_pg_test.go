package builders

import (
	"anyFeatures/schemas"
	"anyFeatures/types"
	"reflect"
	"strings"
	"testing"
)

func testSchema() schemas.Schema {
	return schemas.FromTables(schemas.NewTable("deliveries", "id", map[string]types.ColType{
		"id":        types.ColNumeric,
		"client_id": types.ColNumeric,
		"name":      types.ColText,
		"voucher":   types.ColText,
		"price":     types.ColNumeric,
	}))
}

func TestBuildSelect_WhereSortWindow(t *testing.T) {
	spec := types.QuerySpec{
		Table:  "deliveries",
		Select: []string{"id", "name"},
		Where: []types.Condition{
			{Field: "client_id", Op: types.OpEq, Value: "7"},
			{Field: "price", Op: types.OpGte, Value: "10"},
			{Field: "price", Op: types.OpLte, Value: "20"},
		},
		Sort: []types.Sort{{Field: "price", Dir: types.Desc}, {Field: "name", Dir: types.Asc}},
		Page: &types.Window{Limit: 10, Offset: 10},
	}

	sql, args, err := BuildSelect(spec, testSchema())
	if err != nil {
		t.Fatalf("BuildSelect: %v", err)
	}
	want := `SELECT "id", "name" FROM "deliveries" WHERE 1=1 AND "client_id" = $1 AND "price" >= $2 AND "price" <= $3` +
		` ORDER BY "price" DESC, "name" ASC, "id" ASC LIMIT $4 OFFSET $5`
	if sql != want {
		t.Errorf("sql =\n%s\nwant\n%s", sql, want)
	}
	wantArgs := []any{"7", "10", "20", 10, 10}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("args = %v, want %v", args, wantArgs)
	}
}

func TestBuildSelect_GroupIsParenthesized(t *testing.T) {
	spec := types.QuerySpec{
		Table:  "deliveries",
		Select: []string{"id"},
		Where: []types.Condition{
			{Field: "client_id", Op: types.OpEq, Value: "7"},
			{Op: types.OpAny, Any: []types.Condition{
				{Field: "name", Op: types.OpContains, Value: "abc"},
				{Field: "price", Op: types.OpContains, Value: "abc"},
			}},
		},
	}

	sql, args, err := BuildSelect(spec, testSchema())
	if err != nil {
		t.Fatalf("BuildSelect: %v", err)
	}
	want := `SELECT "id" FROM "deliveries" WHERE 1=1 AND "client_id" = $1 AND ("name" LIKE $2 OR CAST("price" AS TEXT) LIKE $3)`
	if sql != want {
		t.Errorf("sql =\n%s\nwant\n%s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"7", "%abc%", "%abc%"}) {
		t.Errorf("args = %v", args)
	}
}

func TestBuildSelect_RejectsUnknownColumns(t *testing.T) {
	sch := testSchema()
	tests := []struct {
		name string
		spec types.QuerySpec
	}{
		{"table", types.QuerySpec{Table: "users"}},
		{"select", types.QuerySpec{Table: "deliveries", Select: []string{"secret_column"}}},
		{"where", types.QuerySpec{Table: "deliveries", Where: []types.Condition{{Field: "secret_column", Value: "x"}}}},
		{"group", types.QuerySpec{Table: "deliveries", Where: []types.Condition{{Op: types.OpAny, Any: []types.Condition{{Field: "secret_column", Op: types.OpContains, Value: "x"}}}}}},
		{"sort", types.QuerySpec{Table: "deliveries", Sort: []types.Sort{{Field: "secret_column"}}}},
		{"prefix on numeric", types.QuerySpec{Table: "deliveries", Where: []types.Condition{{Field: "price", Op: types.OpLikePrefix, Value: "1"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := BuildSelect(tt.spec, sch); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestBuildSelect_DefaultColumnsAreSorted(t *testing.T) {
	sql, _, err := BuildSelect(types.QuerySpec{Table: "deliveries"}, testSchema())
	if err != nil {
		t.Fatalf("BuildSelect: %v", err)
	}
	if !strings.HasPrefix(sql, `SELECT "client_id", "id", "name", "price", "voucher" FROM`) {
		t.Errorf("unexpected column list: %s", sql)
	}
}

func TestBuildCount_DropsOrderAndWindow(t *testing.T) {
	spec := types.QuerySpec{
		Table:  "deliveries",
		Select: []string{"id"},
		Where:  []types.Condition{{Field: "client_id", Op: types.OpEq, Value: "7"}},
		Sort:   []types.Sort{{Field: "price", Dir: types.Desc}},
		Page:   &types.Window{Limit: 10, Offset: 10},
	}

	sql, args, err := BuildCount(spec, testSchema())
	if err != nil {
		t.Fatalf("BuildCount: %v", err)
	}
	if !strings.HasPrefix(sql, "SELECT count(*) AS count FROM (") {
		t.Errorf("unexpected count sql: %s", sql)
	}
	for _, bad := range []string{"ORDER BY", "LIMIT", "OFFSET"} {
		if strings.Contains(sql, bad) {
			t.Errorf("count sql contains %s: %s", bad, sql)
		}
	}
	if !reflect.DeepEqual(args, []any{"7"}) {
		t.Errorf("args = %v, want [7]", args)
	}
}

func TestSpecBuilder_CloneIsIndependent(t *testing.T) {
	b := NewSpecBuilder(nil, testSchema(), "deliveries", "id")
	b.Where("client_id", types.OpEq, "7")
	b.WhereAny(func(g Group) {
		g.Where("name", types.OpContains, "a")
	})
	b.OrderBy("price", types.Desc)

	c := b.Clone().(*SpecBuilder)
	c.ClearOrder()
	c.ClearSelect()
	c.Where("price", types.OpGte, "10")
	c.Limit(5)

	orig := b.Spec()
	if len(orig.Where) != 2 || len(orig.Sort) != 1 || len(orig.Select) != 1 || orig.Page != nil {
		t.Errorf("original mutated by clone: %+v", orig)
	}
	cl := c.Spec()
	if len(cl.Where) != 3 || cl.Sort != nil || cl.Select != nil || cl.Page == nil || cl.Page.Limit != 5 {
		t.Errorf("clone state unexpected: %+v", cl)
	}

	b.Offset(20)
	if c.Spec().Page.Offset != 0 {
		t.Error("window shared between original and clone")
	}
}

func TestSpecBuilder_ToSQL(t *testing.T) {
	b := NewSpecBuilder(nil, testSchema(), "deliveries", "id")
	b.Where("client_id", types.OpEq, "7")
	b.Limit(10)
	b.Offset(0)

	sql, args, err := b.ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}
	want := `SELECT "id" FROM "deliveries" WHERE 1=1 AND "client_id" = $1 LIMIT $2`
	if sql != want {
		t.Errorf("sql = %s, want %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"7", 10}) {
		t.Errorf("args = %v", args)
	}
}
