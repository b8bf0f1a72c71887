package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// Save replaces the stored notebook with snap in one transaction.
func (b *Backend) Save(snap types.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"record_values", "records", "category_fields", "categories"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for pos, cs := range snap.Categories {
		if err := insertCategory(tx, pos, cs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

func insertCategory(tx *sql.Tx, pos int, cs types.CategorySnapshot) error {
	c := cs.Category
	if _, err := tx.Exec(
		"INSERT INTO categories (category_id, name, icon, position) VALUES (?, ?, ?, ?)",
		c.ID, c.Name, c.Icon, pos,
	); err != nil {
		return fmt.Errorf("inserting category %q: %w", c.Name, err)
	}
	for i, f := range c.Schema.Fields {
		if _, err := tx.Exec(
			"INSERT INTO category_fields (category_id, position, field_id) VALUES (?, ?, ?)",
			c.ID, i, string(f),
		); err != nil {
			return fmt.Errorf("inserting field %q of %q: %w", f, c.Name, err)
		}
	}

	valueStmt, err := tx.Prepare(
		"INSERT INTO record_values (category_id, record_id, field_id, value_type, value) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing value insert: %w", err)
	}
	defer valueStmt.Close()

	for seq, rec := range cs.Records {
		if _, err := tx.Exec(
			"INSERT INTO records (category_id, record_id, seq) VALUES (?, ?, ?)",
			c.ID, rec.ID, seq,
		); err != nil {
			return fmt.Errorf("inserting record %q of %q: %w", rec.ID, c.Name, err)
		}
		for field, v := range rec.Values {
			if v == nil {
				continue
			}
			vt, text, err := encodeValue(v)
			if err != nil {
				return fmt.Errorf("record %q field %q: %w", rec.ID, field, err)
			}
			if _, err := valueStmt.Exec(c.ID, rec.ID, string(field), vt, text); err != nil {
				return fmt.Errorf("inserting value %q of record %q: %w", field, rec.ID, err)
			}
		}
	}
	return nil
}

// Load reads the stored notebook: categories in saved order, fields in
// schema order and records in insertion order.
func (b *Backend) Load() (types.Snapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.Snapshot{}, types.ErrDetached
	}

	snap := types.Snapshot{Categories: []types.CategorySnapshot{}}
	index := make(map[string]int)

	rows, err := b.db.Query("SELECT category_id, name, icon FROM categories ORDER BY position")
	if err != nil {
		return types.Snapshot{}, fmt.Errorf("querying categories: %w", err)
	}
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon); err != nil {
			rows.Close()
			return types.Snapshot{}, fmt.Errorf("scanning category: %w", err)
		}
		index[c.ID] = len(snap.Categories)
		snap.Categories = append(snap.Categories, types.CategorySnapshot{Category: c, Records: []types.Record{}})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return types.Snapshot{}, err
	}

	if err := b.loadFields(&snap, index); err != nil {
		return types.Snapshot{}, err
	}
	if err := b.loadRecords(&snap, index); err != nil {
		return types.Snapshot{}, err
	}
	return snap, nil
}

func (b *Backend) loadFields(snap *types.Snapshot, index map[string]int) error {
	rows, err := b.db.Query("SELECT category_id, field_id FROM category_fields ORDER BY category_id, position")
	if err != nil {
		return fmt.Errorf("querying fields: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var catID, field string
		if err := rows.Scan(&catID, &field); err != nil {
			return fmt.Errorf("scanning field: %w", err)
		}
		i, ok := index[catID]
		if !ok {
			continue
		}
		s := &snap.Categories[i].Category.Schema
		s.Fields = append(s.Fields, types.FieldID(field))
	}
	return rows.Err()
}

func (b *Backend) loadRecords(snap *types.Snapshot, index map[string]int) error {
	rows, err := b.db.Query(`
		SELECT r.category_id, r.record_id, v.field_id, v.value_type, v.value
		FROM records r
		LEFT JOIN record_values v
		  ON v.category_id = r.category_id AND v.record_id = r.record_id
		ORDER BY r.category_id, r.seq`)
	if err != nil {
		return fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	// Rows of one record arrive together; pos tracks the record being built
	// for each category.
	pos := make(map[string]int)
	for rows.Next() {
		var catID, recID string
		var field, valueType, text sql.NullString
		if err := rows.Scan(&catID, &recID, &field, &valueType, &text); err != nil {
			return fmt.Errorf("scanning record: %w", err)
		}
		i, ok := index[catID]
		if !ok {
			continue
		}
		cs := &snap.Categories[i]
		p, seen := pos[catID]
		if !seen || cs.Records[p].ID != recID {
			cs.Records = append(cs.Records, types.Record{ID: recID, Values: types.Values{}})
			p = len(cs.Records) - 1
			pos[catID] = p
		}
		if !field.Valid {
			continue
		}
		v, err := decodeValue(valueType.String, text.String)
		if err != nil {
			return fmt.Errorf("record %q field %q: %w", recID, field.String, err)
		}
		cs.Records[p].Values[types.FieldID(field.String)] = v
	}
	return rows.Err()
}
