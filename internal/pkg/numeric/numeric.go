// Package numeric normalizes the loosely typed quantity fields found on
// legacy medication records. Values were written by several client versions:
// some stored numbers, some strings like "10 tablets". Normalization never
// fails; anything unparseable is treated as zero.
package numeric

import (
	"strconv"
	"strings"
)

// Normalize coerces v to a non-negative dose/inventory count.
// Numbers pass through (truncated); strings are stripped of every non-digit
// rune before parsing; anything else yields 0.
func Normalize(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float32:
		return int(n)
	case float64:
		return int(n)
	case string:
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, n)
		parsed, err := strconv.Atoi(digits)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
