package types

import (
	"math"
	"strconv"
)

// Values maps field identifiers to scalar cell values. Supported value
// types are string, bool, the Go integer types, float32 and float64.
// A nil value is treated as absent.
type Values map[FieldID]any

// Clone returns a shallow copy. Scalars need no deep copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Record is one row of a category.
type Record struct {
	ID     string `json:"id"`
	Values Values `json:"values"`
}

// RawRecord is an imported row that has not been assigned an id yet.
type RawRecord = Values

// Clone returns a copy of the record that shares no map with r.
func (r Record) Clone() Record {
	return Record{ID: r.ID, Values: r.Values.Clone()}
}

// Lookup returns the value for field and whether it is present.
// Nil values count as absent.
func (r Record) Lookup(field FieldID) (any, bool) {
	v, ok := r.Values[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// IsSupportedValue reports whether v may be stored in a record.
func IsSupportedValue(v any) bool {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

// NumericValue returns v as a float64 when v is a Go number.
func NumericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// FormatValue returns the display string of a cell value. Numbers use the
// shortest representation ("3", "2.5"), nil renders as "".
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatFloat(t, 64)
	case float32:
		return formatFloat(float64(t), 32)
	}
	if n, ok := NumericValue(v); ok {
		if i, isInt := v.(int64); isInt {
			return strconv.FormatInt(i, 10)
		}
		if u, isUint := v.(uint64); isUint {
			return strconv.FormatUint(u, 10)
		}
		return formatFloat(n, 64)
	}
	return ""
}

func formatFloat(f float64, bits int) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
