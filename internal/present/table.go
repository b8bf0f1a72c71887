// Package present maps a schema and an ordered record list onto a
// renderable table. It owns no data: row actions are passed back to the
// caller through Actions.
package present

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// Presentation errors.
var (
	ErrNoAction = errors.New("no handler for row action")
	ErrRowIndex = errors.New("row index out of range")
)

// Column is one displayed field.
type Column struct {
	ID    types.FieldID `json:"id"`
	Label string        `json:"label"`
}

// Row is one displayed record. Cells line up with Table.Columns.
type Row struct {
	RecordID string   `json:"id"`
	Cells    []string `json:"cells"`
}

// Actions are the callbacks a table invokes for row actions.
type Actions struct {
	OnEdit   func(types.Record) error
	OnDelete func(id string) error
}

// Table is a rendered view.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`

	Actions Actions `json:"-"`
}

// Render builds a table for records in the given order. Only schema fields
// are shown; a missing value renders as an empty cell.
func Render(schema types.Schema, records []types.Record) Table {
	t := Table{
		Columns: make([]Column, len(schema.Fields)),
		Rows:    make([]Row, len(records)),
	}
	for i, f := range schema.Fields {
		t.Columns[i] = Column{ID: f, Label: types.FieldLabel(f)}
	}
	for i, r := range records {
		cells := make([]string, len(schema.Fields))
		for j, f := range schema.Fields {
			if v, ok := r.Lookup(f); ok {
				cells[j] = types.FormatValue(v)
			}
		}
		t.Rows[i] = Row{RecordID: r.ID, Cells: cells}
	}
	return t
}

// WithActions returns a copy of t wired to a.
func (t Table) WithActions(a Actions) Table {
	t.Actions = a
	return t
}

// Edit sends the record at row, with values, to the OnEdit callback.
func (t Table) Edit(row int, values types.Values) error {
	if t.Actions.OnEdit == nil {
		return ErrNoAction
	}
	id, err := t.recordID(row)
	if err != nil {
		return err
	}
	return t.Actions.OnEdit(types.Record{ID: id, Values: values.Clone()})
}

// Delete sends the id of the record at row to the OnDelete callback.
func (t Table) Delete(row int) error {
	if t.Actions.OnDelete == nil {
		return ErrNoAction
	}
	id, err := t.recordID(row)
	if err != nil {
		return err
	}
	return t.Actions.OnDelete(id)
}

func (t Table) recordID(row int) (string, error) {
	if row < 0 || row >= len(t.Rows) {
		return "", fmt.Errorf("%w: %d of %d", ErrRowIndex, row, len(t.Rows))
	}
	return t.Rows[row].RecordID, nil
}

// Blank returns the values of an empty entry form: one empty string per
// schema field.
func Blank(schema types.Schema) types.Values {
	out := make(types.Values, len(schema.Fields))
	for _, f := range schema.Fields {
		out[f] = ""
	}
	return out
}
