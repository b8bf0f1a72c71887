package store

import (
	"fmt"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// Create stores a new record under the category and returns it with its
// freshly assigned id. Every key of values must be a field of the category
// schema.
func (n *Notebook) Create(categoryID string, values types.Values) (types.Record, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	c, err := n.lookup(categoryID)
	if err != nil {
		return types.Record{}, err
	}
	if err := checkValues(c.meta.Schema, values); err != nil {
		return types.Record{}, err
	}
	rec := types.Record{ID: n.newID(), Values: compact(values)}
	if rec.ID == "" {
		return types.Record{}, types.ErrInvalidID
	}
	if !n.insertLocked(c, rec) {
		return types.Record{}, fmt.Errorf("%w: id %q already in use", types.ErrInvalidID, rec.ID)
	}
	n.logger.Debug("record created", "category", c.meta.Name, "id", rec.ID)
	return rec.Clone(), nil
}

// insertLocked appends a checked record to c. It reports false when the id
// is already taken. The caller must hold the write lock.
func (n *Notebook) insertLocked(c *category, rec types.Record) bool {
	if _, taken := c.records.Get(rec.ID); taken {
		return false
	}
	n.seq++
	return c.records.Insert(rec.ID, entry{seq: n.seq, record: rec})
}

// Update replaces the values of the record's schema fields with values.
// Schema fields missing from values are cleared. Values held under fields
// that are no longer in the schema are kept, so a removed column that is
// added back still shows its data.
// Returns a *types.RecordNotFoundError if id is not in the category.
func (n *Notebook) Update(categoryID, id string, values types.Values) (types.Record, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	c, err := n.lookup(categoryID)
	if err != nil {
		return types.Record{}, err
	}
	e, ok := c.records.Get(id)
	if !ok {
		return types.Record{}, &types.RecordNotFoundError{CategoryID: categoryID, RecordID: id}
	}
	if err := checkValues(c.meta.Schema, values); err != nil {
		return types.Record{}, err
	}

	next := compact(values)
	for k, v := range e.record.Values {
		if !c.meta.Schema.Has(k) {
			next[k] = v
		}
	}
	e.record = types.Record{ID: id, Values: next}
	c.records.Replace(id, e)
	n.logger.Debug("record updated", "category", c.meta.Name, "id", id)
	return e.record.Clone(), nil
}

// Delete removes the record. Deleting an id that does not exist is not an
// error.
func (n *Notebook) Delete(categoryID, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	c, err := n.lookup(categoryID)
	if err != nil {
		return err
	}
	if _, ok := c.records.Get(id); !ok {
		return nil
	}
	c.records.Delete(id)
	n.logger.Debug("record deleted", "category", c.meta.Name, "id", id)
	return nil
}

// Get returns one record.
// Returns a *types.RecordNotFoundError if id is not in the category.
func (n *Notebook) Get(categoryID, id string) (types.Record, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	c, err := n.lookup(categoryID)
	if err != nil {
		return types.Record{}, err
	}
	e, ok := c.records.Get(id)
	if !ok {
		return types.Record{}, &types.RecordNotFoundError{CategoryID: categoryID, RecordID: id}
	}
	return e.record.Clone(), nil
}

// List returns every record of the category in insertion order. The result
// is never nil.
func (n *Notebook) List(categoryID string) ([]types.Record, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	c, err := n.lookup(categoryID)
	if err != nil {
		return nil, err
	}
	return recordsOf(c), nil
}
