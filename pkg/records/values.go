package records

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// NormalizeValue converts a raw driver value into the restricted cell set.
// kind is the declared column kind and decides how []byte payloads (decimal
// columns in go-mssqldb and go-sql-driver/mysql) are interpreted.
func NormalizeValue(v any, kind Kind) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case []byte:
		s := string(t)
		switch kind {
		case KindFloat:
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f
			}
		case KindInt:
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return n
			}
		}
		return s
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return float64(t)
		}
		return int64(t)
	case float32:
		return float64(t)
	case float64:
		return t
	case bool:
		if kind == KindInt {
			if t {
				return int64(1)
			}
			return int64(0)
		}
		return t
	case time.Time:
		return t
	case fmt.Stringer:
		// pgtype.Numeric and similar driver-specific numerics.
		return NormalizeValue([]byte(t.String()), kind)
	default:
		return fmt.Sprint(t)
	}
}

// AsInt64 interprets v as an integer. Floats are accepted only when they have
// no fractional part; strings must parse as base-10 integers (surrounding
// whitespace allowed) or as integral decimals such as "42.0".
func AsInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) && !math.IsNaN(t) {
			return int64(t), true
		}
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return AsInt64(f)
		}
	}
	return 0, false
}

// AsFloat64 interprets v as a float.
func AsFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return 0, false
		}
		return t, true
	case int64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Format renders v as text. nil renders as "".
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(t)
	}
}
