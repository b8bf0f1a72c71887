package store

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// Snapshot returns a deep copy of the notebook state. Records keep values
// under fields that are no longer in their schema.
func (n *Notebook) Snapshot() types.Snapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()

	snap := types.Snapshot{Categories: make([]types.CategorySnapshot, 0, len(n.order))}
	for _, id := range n.order {
		c := n.categories[id]
		snap.Categories = append(snap.Categories, types.CategorySnapshot{
			Category: c.meta.Clone(),
			Records:  recordsOf(c),
		})
	}
	return snap
}

// Restore replaces the whole notebook with snap. The snapshot is validated
// first: category ids and names must be unique, schemas must satisfy their
// invariants, and record ids must be unique within a category. On error the
// notebook is unchanged.
func (n *Notebook) Restore(snap types.Snapshot) error {
	categories := make(map[string]*category, len(snap.Categories))
	order := make([]string, 0, len(snap.Categories))
	names := make(map[string]bool, len(snap.Categories))
	var seq uint64

	for _, cs := range snap.Categories {
		meta := cs.Category.Clone()
		if meta.ID == "" {
			return fmt.Errorf("restore: %w: empty category id", types.ErrInvalidCategory)
		}
		if _, dup := categories[meta.ID]; dup {
			return fmt.Errorf("restore: %w: duplicate category id %q", types.ErrInvalidCategory, meta.ID)
		}
		key := strings.ToLower(strings.TrimSpace(meta.Name))
		if names[key] {
			return fmt.Errorf("restore: %w: %q", types.ErrDuplicateCategory, meta.Name)
		}
		if err := n.validateSpec(CategorySpec{Name: meta.Name, Icon: meta.Icon}); err != nil {
			return fmt.Errorf("restore: %w", err)
		}
		if err := meta.Schema.Validate(); err != nil {
			return fmt.Errorf("restore %q: %w", meta.Name, err)
		}
		names[key] = true

		c := &category{meta: meta, records: newRecordSet()}
		for _, rec := range cs.Records {
			if rec.ID == "" {
				return fmt.Errorf("restore %q: %w", meta.Name, types.ErrInvalidID)
			}
			for k, v := range rec.Values {
				if k == types.ReservedField || !types.IsSupportedValue(v) {
					return fmt.Errorf("restore %q record %q: %w: field %q", meta.Name, rec.ID, types.ErrInvalidValue, k)
				}
			}
			seq++
			if !c.records.Insert(rec.ID, entry{seq: seq, record: types.Record{ID: rec.ID, Values: compact(rec.Values)}}) {
				return fmt.Errorf("restore %q: %w: duplicate record id %q", meta.Name, types.ErrInvalidID, rec.ID)
			}
		}
		categories[meta.ID] = c
		order = append(order, meta.ID)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.categories = categories
	n.order = order
	n.seq = seq
	n.logger.Debug("notebook restored", "categories", len(order))
	return nil
}
