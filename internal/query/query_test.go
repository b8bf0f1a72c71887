package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

func schemaOf(t *testing.T, ids ...types.FieldID) types.Schema {
	t.Helper()
	s, err := types.NewSchema(ids...)
	require.NoError(t, err)
	return s
}

func rec(id string, values types.Values) types.Record {
	return types.Record{ID: id, Values: values}
}

func ids(records []types.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func column(records []types.Record, f types.FieldID) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r.Values[f]
	}
	return out
}

func TestSortToggling(t *testing.T) {
	s := schemaOf(t, "n")
	records := []types.Record{
		rec("r1", types.Values{"n": "B"}),
		rec("r2", types.Values{"n": "A"}),
		rec("r3", types.Values{"n": "C"}),
	}

	sorting := types.SortState{}.Toggle("n")
	assert.Equal(t, []any{"A", "B", "C"}, column(View(records, s, types.FilterState{}, sorting), "n"))

	sorting = sorting.Toggle("n")
	assert.True(t, sorting.Desc)
	assert.Equal(t, []any{"C", "B", "A"}, column(View(records, s, types.FilterState{}, sorting), "n"))

	assert.Equal(t, []string{"r1", "r2", "r3"}, ids(View(records, s, types.FilterState{}, sorting.Clear())),
		"no sort keeps insertion order")
}

func TestSearchAcrossFields(t *testing.T) {
	s := schemaOf(t, "title", "notes")
	records := []types.Record{rec("r1", types.Values{"title": "Buy milk", "notes": "urgent"})}

	assert.Len(t, View(records, s, types.FilterState{Search: "urg"}, types.SortState{}), 1)
	assert.Len(t, View(records, s, types.FilterState{Search: "URG"}, types.SortState{}), 1)
	assert.Empty(t, View(records, s, types.FilterState{Search: "eggs"}, types.SortState{}))
	assert.Len(t, View(records, s, types.FilterState{Search: "   "}, types.SortState{}), 1)
}

func TestSearchIgnoresHiddenData(t *testing.T) {
	s := schemaOf(t, "title")
	records := []types.Record{rec("secret-id", types.Values{"title": "Buy milk", "old": "needle"})}

	assert.Empty(t, View(records, s, types.FilterState{Search: "needle"}, types.SortState{}))
	assert.Empty(t, View(records, s, types.FilterState{Search: "secret"}, types.SortState{}))
}

func TestSearchFormatsNonStrings(t *testing.T) {
	s := schemaOf(t, "qty", "done")
	records := []types.Record{
		rec("r1", types.Values{"qty": 2.5, "done": true}),
		rec("r2", types.Values{"qty": 40, "done": false}),
	}
	assert.Equal(t, []string{"r1"}, ids(View(records, s, types.FilterState{Search: "2.5"}, types.SortState{})))
	assert.Equal(t, []string{"r2"}, ids(View(records, s, types.FilterState{Search: "fals"}, types.SortState{})))
}

func TestColumnFilters(t *testing.T) {
	s := schemaOf(t, "title", "status", "owner")
	records := []types.Record{
		rec("r1", types.Values{"title": "Plan", "status": "Open", "owner": "Sam"}),
		rec("r2", types.Values{"title": "Ship", "status": "Done", "owner": "Sam"}),
		rec("r3", types.Values{"title": "Test", "status": "open"}),
		rec("r4", types.Values{"title": "Open house", "status": "Done", "owner": "Ana"}),
	}

	tests := []struct {
		name   string
		filter types.FilterState
		want   []string
	}{
		{"case-insensitive", types.FilterState{}.WithColumn("status", "OPEN"), []string{"r1", "r3"}},
		{"missing value fails", types.FilterState{}.WithColumn("owner", "a"), []string{"r1", "r2", "r4"}},
		{"and across columns", types.FilterState{}.WithColumn("status", "open").WithColumn("owner", "sam"), []string{"r1"}},
		{"and with search", types.FilterState{Search: "open"}.WithColumn("status", "done"), []string{"r4"}},
		{"empty filter inactive", types.FilterState{Columns: map[types.FieldID]string{"owner": ""}}, []string{"r1", "r2", "r3", "r4"}},
		{"unknown column ignored", types.FilterState{}.WithColumn("ghost", "x"), []string{"r1", "r2", "r3", "r4"}},
		{"reset", types.FilterState{Search: "zzz"}.WithColumn("status", "x").Reset(), []string{"r1", "r2", "r3", "r4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(View(records, s, tt.filter, types.SortState{})))
		})
	}
}

func TestFilterAndIsMonotonic(t *testing.T) {
	s := schemaOf(t, "a", "b")
	var records []types.Record
	letters := []string{"x", "y", "xy", "", "yx"}
	for i, a := range letters {
		for j, b := range letters {
			v := types.Values{}
			if a != "" {
				v["a"] = a
			}
			if b != "" {
				v["b"] = b
			}
			records = append(records, rec(string(rune('a'+i))+string(rune('a'+j)), v))
		}
	}

	for _, na := range []string{"x", "y", "xy"} {
		for _, nb := range []string{"x", "y", "yx"} {
			onlyA := View(records, s, types.FilterState{}.WithColumn("a", na), types.SortState{})
			onlyB := View(records, s, types.FilterState{}.WithColumn("b", nb), types.SortState{})
			both := View(records, s, types.FilterState{}.WithColumn("a", na).WithColumn("b", nb), types.SortState{})
			assert.LessOrEqual(t, len(both), len(onlyA))
			assert.LessOrEqual(t, len(both), len(onlyB))
		}
	}
}

func TestSortNumericAndMissing(t *testing.T) {
	s := schemaOf(t, "qty")
	records := []types.Record{
		rec("r1", types.Values{"qty": 10.0}),
		rec("r2", types.Values{}),
		rec("r3", types.Values{"qty": 9}),
		rec("r4", types.Values{"qty": 100.0}),
		rec("r5", types.Values{"qty": nil}),
	}

	asc := View(records, s, types.FilterState{}, types.SortState{Key: "qty"})
	assert.Equal(t, []string{"r3", "r1", "r4", "r2", "r5"}, ids(asc), "numeric order, missing last in insertion order")

	desc := View(records, s, types.FilterState{}, types.SortState{Key: "qty", Desc: true})
	assert.Equal(t, []string{"r4", "r1", "r3", "r2", "r5"}, ids(desc), "missing still last when descending")
}

func TestSortMixedFallsBackToStrings(t *testing.T) {
	s := schemaOf(t, "v")
	records := []types.Record{
		rec("r1", types.Values{"v": 10.0}),
		rec("r2", types.Values{"v": "9"}),
		rec("r3", types.Values{"v": 100.0}),
	}
	got := View(records, s, types.FilterState{}, types.SortState{Key: "v"})
	assert.Equal(t, []string{"r1", "r3", "r2"}, ids(got), `"10" < "100" < "9"`)
}

func TestSortIsStable(t *testing.T) {
	s := schemaOf(t, "status", "title")
	records := []types.Record{
		rec("r1", types.Values{"status": "b", "title": "1"}),
		rec("r2", types.Values{"status": "a", "title": "2"}),
		rec("r3", types.Values{"status": "b", "title": "3"}),
		rec("r4", types.Values{"status": "a", "title": "4"}),
	}
	got := View(records, s, types.FilterState{}, types.SortState{Key: "status"})
	assert.Equal(t, []string{"r2", "r4", "r1", "r3"}, ids(got))
	got = View(records, s, types.FilterState{}, types.SortState{Key: "status", Desc: true})
	assert.Equal(t, []string{"r1", "r3", "r2", "r4"}, ids(got))
}

func TestSortOnHiddenFieldIsIgnored(t *testing.T) {
	s := schemaOf(t, "title")
	records := []types.Record{
		rec("r1", types.Values{"title": "b", "old": "2"}),
		rec("r2", types.Values{"title": "a", "old": "1"}),
	}
	got := View(records, s, types.FilterState{}, types.SortState{Key: "old"})
	assert.Equal(t, []string{"r1", "r2"}, ids(got))
}

func TestViewIsPure(t *testing.T) {
	s := schemaOf(t, "title", "status")
	records := []types.Record{
		rec("r1", types.Values{"title": "Plan", "status": "Open"}),
		rec("r2", types.Values{"title": "Ship", "status": "Done"}),
		rec("r3", types.Values{"title": "Test"}),
	}
	filter := types.FilterState{Search: "a"}.WithColumn("status", "o")
	sorting := types.SortState{Key: "title", Desc: true}

	recordsBefore := make([]types.Record, len(records))
	for i, r := range records {
		recordsBefore[i] = r.Clone()
	}
	schemaBefore := s.Clone()
	filterBefore := filter.WithSearch(filter.Search)

	first := View(records, s, filter, sorting)
	second := View(records, s, filter, sorting)

	assert.Equal(t, first, second)
	assert.Equal(t, recordsBefore, records)
	assert.Equal(t, schemaBefore, s)
	assert.Equal(t, filterBefore, filter)

	// The result shares nothing with the input.
	require.NotEmpty(t, first)
	first[0].Values["title"] = "changed"
	assert.Equal(t, recordsBefore, records)
}
