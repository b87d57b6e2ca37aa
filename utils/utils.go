package utils

import (
	"math"
	"strconv"
	"strings"
)

// QuoteIdentPG — безопасный квотинг идентификатора для PostgreSQL: "na""me"
func QuoteIdentPG(s string) string {
	if s == "" {
		return `""`
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// PositiveInt parses s as a base-10 integer. Anything that does not parse
// to a value >= 1 yields def, and def itself is raised to 1 if needed.
func PositiveInt(s string, def int) int {
	if def < 1 {
		def = 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Pages is ceil(total/limit), never below 1.
func Pages(total int64, limit int) int {
	if limit < 1 {
		limit = 1
	}
	if total <= 0 {
		return 1
	}
	p := (total + int64(limit) - 1) / int64(limit)
	if p < 1 {
		return 1
	}
	return int(p)
}

// MaxPage is the largest page whose offset fits in an int for limit.
func MaxPage(limit int) int {
	if limit < 1 {
		limit = 1
	}
	m := math.MaxInt / limit
	if m < math.MaxInt {
		m++
	}
	return m
}

// ClampPage bounds page to [1, MaxPage(limit)].
func ClampPage(page, limit int) int {
	if page < 1 {
		return 1
	}
	if m := MaxPage(limit); page > m {
		return m
	}
	return page
}

// Offset is (page-1)*limit with page clamped by ClampPage, so it never
// overflows.
func Offset(page, limit int) int {
	if limit < 1 {
		limit = 1
	}
	return (ClampPage(page, limit) - 1) * limit
}
