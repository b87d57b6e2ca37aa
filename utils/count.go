package utils

import (
	"math"
	"strconv"
	"strings"
)

// countKeys are the column names a count(*) aggregate is looked up under,
// in order. Drivers differ on whether the alias survives.
var countKeys = []string{"count", "count(*)", "total", "COUNT(*)"}

// CountFromRow extracts a row count from an aggregate row. A missing row,
// missing key or unparsable value yields 0.
func CountFromRow(row map[string]any) int64 {
	if row == nil {
		return 0
	}
	for _, k := range countKeys {
		if v, ok := row[k]; ok {
			return CountValue(v)
		}
	}
	if len(row) == 1 {
		for _, v := range row {
			return CountValue(v)
		}
	}
	return 0
}

// CountValue converts a driver value to a non-negative count.
func CountValue(v any) int64 {
	var n int64
	switch x := v.(type) {
	case nil:
		return 0
	case int64:
		n = x
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return math.MaxInt64
		}
		n = int64(x)
	case float64:
		n = int64(x)
	case []byte:
		n = parseCount(string(x))
	case string:
		n = parseCount(x)
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return n
}

func parseCount(s string) int64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
