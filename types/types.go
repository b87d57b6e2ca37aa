package types

type ColType int

const (
	ColUnknown ColType = iota
	ColText
	ColNumeric
	ColBool
	ColTime
	ColUUID
	ColJSON
)

type Op int

const (
	OpEq Op = iota
	OpIn
	OpGte
	OpLte
	OpLikePrefix
	OpILikePrefix
	OpContains
	OpAny
)

type SortDir int

const (
	Asc SortDir = iota
	Desc
)

// Condition is one predicate. For OpAny, Any holds the disjunction members
// and Field/Value are unused.
type Condition struct {
	Field string
	Op    Op
	Value any // для OpIn ожидается slice
	Any   []Condition
}

type Sort struct {
	Field string
	Dir   SortDir
}

// Window bounds a row fetch.
type Window struct {
	Limit  int
	Offset int
}

type QuerySpec struct {
	Table  string
	Select []string
	Where  []Condition
	Sort   []Sort
	Page   *Window
}

// Row is one result row keyed by column name.
type Row map[string]any

// Pagination describes the window produced by a paginated fetch.
// Pages is never below 1, even when Total is 0.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// Result is the envelope returned by a pipeline fetch. Pagination is nil
// when the fetch was not paginated.
type Result struct {
	Data       []Row       `json:"data"`
	Pagination *Pagination `json:"pagination"`
}
