// Package flatten holds the value rules shared by every row mapper: nested
// object lookup, scalar coercion toward a column type, and opaque JSON text.
//
// Every helper returns either nil (SQL NULL) or a value; none of them fail.
// Values that cannot be coerced are returned unchanged so the warehouse can
// report them as row errors.
package flatten

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/riskibarqy/sportsdata-ingest/internal/platform/codec"
)

// Object returns the nested object stored under key. A missing key, a null
// value, an empty object or a non-object value all yield nil, so lookups on
// the result read as absent.
func Object(src map[string]any, key string) map[string]any {
	if src == nil {
		return nil
	}
	obj, ok := src[key].(map[string]any)
	if !ok || len(obj) == 0 {
		return nil
	}
	return obj
}

// String coerces scalars to their text form for STRING columns.
func String(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		return typed
	case json.Number:
		return typed.String()
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return value
	}
}

// Int coerces integral numbers for INTEGER columns.
func Int(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case int64:
		return typed
	case int:
		return int64(typed)
	case json.Number:
		if v, err := typed.Int64(); err == nil {
			return v
		}
		if v, err := typed.Float64(); err == nil && isIntegral(v) {
			return int64(v)
		}
		return typed.String()
	case float64:
		if isIntegral(typed) {
			return int64(typed)
		}
		return typed
	case string:
		if v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64); err == nil {
			return v
		}
		return typed
	default:
		return value
	}
}

// Float coerces numbers for FLOAT columns.
func Float(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case float64:
		return typed
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	case json.Number:
		if v, err := typed.Float64(); err == nil {
			return v
		}
		return typed.String()
	case string:
		if v, err := strconv.ParseFloat(strings.TrimSpace(typed), 64); err == nil {
			return v
		}
		return typed
	default:
		return value
	}
}

// Bool passes booleans through for BOOLEAN columns.
func Bool(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case bool:
		return typed
	default:
		return value
	}
}

// JSONText serializes an arbitrary substructure to canonical JSON text. Only
// a missing or null value maps to nil; empty lists and objects are kept.
func JSONText(value any) any {
	if value == nil {
		return nil
	}
	raw, err := codec.Canonical(value)
	if err != nil {
		return value
	}
	return string(raw)
}

func isIntegral(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v) && v == math.Trunc(v) && math.Abs(v) < 1<<63
}
