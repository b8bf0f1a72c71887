package store

import (
	"github.com/mesh-intelligence/notebook/internal/schema"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

// RenameOptions controls how RenameField treats existing data.
type RenameOptions struct {
	// MigrateData moves values from the old id to the new one. When false
	// the old values stay under the old id, hidden from views.
	MigrateData bool
}

// AddField appends the normalized form of label to the category schema and
// returns the new schema. Records that still hold values under the same id
// (from an earlier removal) show them again.
func (n *Notebook) AddField(categoryID, label string) (types.Schema, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	c, err := n.lookup(categoryID)
	if err != nil {
		return types.Schema{}, err
	}
	next, err := schema.AddField(c.meta.Schema, label)
	if err != nil {
		return types.Schema{}, err
	}
	c.meta.Schema = next
	n.logger.Debug("field added", "category", c.meta.Name, "field", next.Fields[next.Len()-1])
	return next.Clone(), nil
}

// RemoveField drops id from the category schema. Record data under id is
// kept in storage but no longer visible.
func (n *Notebook) RemoveField(categoryID string, id types.FieldID) (types.Schema, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	c, err := n.lookup(categoryID)
	if err != nil {
		return types.Schema{}, err
	}
	next, err := schema.RemoveField(c.meta.Schema, id)
	if err != nil {
		return types.Schema{}, err
	}
	c.meta.Schema = next
	n.logger.Debug("field removed", "category", c.meta.Name, "field", id)
	return next.Clone(), nil
}

// MoveField changes the display position of a field. Out-of-range indexes
// leave the schema unchanged.
func (n *Notebook) MoveField(categoryID string, from, to int) (types.Schema, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	c, err := n.lookup(categoryID)
	if err != nil {
		return types.Schema{}, err
	}
	c.meta.Schema = schema.Reorder(c.meta.Schema, from, to)
	return c.meta.Schema.Clone(), nil
}

// RenameField gives field id a new identifier derived from label, in place.
// By default existing values are orphaned under the old id; see
// RenameOptions.
func (n *Notebook) RenameField(categoryID string, id types.FieldID, label string, opts RenameOptions) (types.Schema, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	c, err := n.lookup(categoryID)
	if err != nil {
		return types.Schema{}, err
	}
	next, err := schema.RenameField(c.meta.Schema, id, label)
	if err != nil {
		return types.Schema{}, err
	}
	newID := next.Fields[c.meta.Schema.Index(id)]
	c.meta.Schema = next

	if opts.MigrateData && newID != id {
		for _, rec := range recordsOf(c) {
			v, ok := rec.Values[id]
			if !ok {
				continue
			}
			e, _ := c.records.Get(rec.ID)
			values := e.record.Values.Clone()
			values[newID] = v
			delete(values, id)
			e.record = types.Record{ID: rec.ID, Values: values}
			c.records.Replace(rec.ID, e)
		}
	}
	n.logger.Debug("field renamed", "category", c.meta.Name, "from", id, "to", newID, "migrated", opts.MigrateData)
	return next.Clone(), nil
}
