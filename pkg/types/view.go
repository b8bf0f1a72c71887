package types

import (
	"sort"
	"strings"
)

// FilterState holds the transient filters of a view session: one free-text
// term searched across all fields and one substring per column. Filters are
// case-insensitive. Methods return new values and never modify the receiver.
type FilterState struct {
	Search  string             `json:"search,omitempty"`
	Columns map[FieldID]string `json:"columns,omitempty"`
}

// WithSearch returns a copy with the free-text term set.
func (f FilterState) WithSearch(term string) FilterState {
	out := f.clone()
	out.Search = term
	return out
}

// WithColumn returns a copy with the filter for field set. An empty value
// clears the filter.
func (f FilterState) WithColumn(field FieldID, value string) FilterState {
	out := f.clone()
	if value == "" {
		delete(out.Columns, field)
		return out
	}
	out.Columns[field] = value
	return out
}

// ClearColumn returns a copy without the filter for field.
func (f FilterState) ClearColumn(field FieldID) FilterState {
	return f.WithColumn(field, "")
}

// Reset returns the empty filter state.
func (f FilterState) Reset() FilterState {
	return FilterState{}
}

// Active returns the fields with a non-empty column filter, sorted.
func (f FilterState) Active() []FieldID {
	var out []FieldID
	for field, v := range f.Columns {
		if v != "" {
			out = append(out, field)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsZero reports whether no filter is active.
func (f FilterState) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && len(f.Active()) == 0
}

func (f FilterState) clone() FilterState {
	out := FilterState{Search: f.Search, Columns: make(map[FieldID]string, len(f.Columns))}
	for k, v := range f.Columns {
		out.Columns[k] = v
	}
	return out
}

// SortState is the single active sort key of a view session. An empty Key
// means insertion order.
type SortState struct {
	Key  FieldID `json:"key,omitempty"`
	Desc bool    `json:"desc,omitempty"`
}

// Toggle selects key. Selecting the active key flips the direction;
// selecting a different key sorts it ascending.
func (s SortState) Toggle(key FieldID) SortState {
	if s.Key == key && key != "" {
		return SortState{Key: key, Desc: !s.Desc}
	}
	return SortState{Key: key}
}

// Clear returns the unsorted state.
func (s SortState) Clear() SortState { return SortState{} }

// Active reports whether a sort key is set.
func (s SortState) Active() bool { return s.Key != "" }
