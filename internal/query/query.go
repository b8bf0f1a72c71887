// Package query computes the visible rows of a category: free-text search,
// per-column filters and a single-key sort. View is pure; it reads only the
// fields listed in the schema and never modifies its arguments.
package query

import (
	"sort"
	"strings"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// View returns the records that pass filter, ordered by sorting. The
// result is a new slice of copies on every call.
//
// A record passes when the search term (if any) occurs in the value of any
// schema field and every active column filter occurs in that column. All
// matching is case-insensitive substring matching on FormatValue output. A
// record without a value for a filtered column fails that filter.
func View(records []types.Record, schema types.Schema, filter types.FilterState, sorting types.SortState) []types.Record {
	m := newMatcher(schema, filter)
	out := make([]types.Record, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r.Clone())
		}
	}
	if sorting.Active() && schema.Has(sorting.Key) {
		sortRecords(out, sorting.Key, sorting.Desc)
	}
	return out
}

type columnFilter struct {
	field  types.FieldID
	needle string
}

type matcher struct {
	fields  []types.FieldID
	search  string
	columns []columnFilter
}

func newMatcher(schema types.Schema, filter types.FilterState) matcher {
	m := matcher{
		fields: schema.Fields,
		search: strings.ToLower(strings.TrimSpace(filter.Search)),
	}
	for _, f := range filter.Active() {
		if !schema.Has(f) {
			continue
		}
		m.columns = append(m.columns, columnFilter{field: f, needle: strings.ToLower(filter.Columns[f])})
	}
	return m
}

func (m matcher) match(r types.Record) bool {
	for _, c := range m.columns {
		v, ok := r.Lookup(c.field)
		if !ok || !contains(v, c.needle) {
			return false
		}
	}
	if m.search == "" {
		return true
	}
	for _, f := range m.fields {
		if v, ok := r.Lookup(f); ok && contains(v, m.search) {
			return true
		}
	}
	return false
}

func contains(v any, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(types.FormatValue(v)), lowerNeedle)
}

// sortRecords orders records by key. Numbers compare numerically when every
// present value is a number, otherwise values compare as strings. Records
// without a value always go last, whatever the direction.
func sortRecords(records []types.Record, key types.FieldID, desc bool) {
	numeric := true
	for _, r := range records {
		if v, ok := r.Lookup(key); ok {
			if _, isNum := types.NumericValue(v); !isNum {
				numeric = false
				break
			}
		}
	}

	less := func(a, b any) bool {
		if numeric {
			x, _ := types.NumericValue(a)
			y, _ := types.NumericValue(b)
			return x < y
		}
		return types.FormatValue(a) < types.FormatValue(b)
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, aok := records[i].Lookup(key)
		b, bok := records[j].Lookup(key)
		switch {
		case !aok || !bok:
			return aok && !bok
		case desc:
			return less(b, a)
		default:
			return less(a, b)
		}
	})
}
