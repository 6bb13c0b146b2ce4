package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeScalar coerces a heterogeneous leaf value (string, number, boolean)
// into its canonical string form. Image maps arrive from JSON where a tag like
// 1.21 may decode as a float, and document values arrive as raw YAML scalar
// text, so both sides are normalized before comparison and writing.
func NormalizeScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		// 'f' with -1 precision renders 1.0 as "1" and 1.21 as "1.21",
		// matching how an operator would have typed the tag.
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}
