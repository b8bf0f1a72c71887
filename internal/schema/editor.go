// Package schema implements the schema editor: pure functions that return
// a modified copy of a category schema. Record data is never touched here;
// removing a field only hides its values, and renaming a field introduces a
// new identifier without migrating the old values.
package schema

import (
	"github.com/mesh-intelligence/notebook/pkg/types"
)

// AddField normalizes label and appends it to s.
// Returns a *types.DuplicateFieldError when the normalized id already exists,
// types.ErrInvalidField when label normalizes to nothing, and
// types.ErrReservedField for "id".
func AddField(s types.Schema, label string) (types.Schema, error) {
	out := s.Clone()
	if err := out.Append(types.NormalizeField(label)); err != nil {
		return s, err
	}
	return out, nil
}

// RemoveField drops id from the schema. Values stored under id stay in the
// records, so adding the same id again brings them back.
// Returns types.ErrFieldNotFound if id is not in s.
func RemoveField(s types.Schema, id types.FieldID) (types.Schema, error) {
	idx := s.Index(id)
	if idx < 0 {
		return s, types.ErrFieldNotFound
	}
	out := s.Clone()
	if err := out.Remove(idx); err != nil {
		return s, err
	}
	return out, nil
}

// Reorder moves the field at from to position to. Only display order
// changes. Out-of-range indexes leave the schema as it is.
func Reorder(s types.Schema, from, to int) types.Schema {
	out := s.Clone()
	_ = out.Move(from, to)
	return out
}

// RenameField replaces id with the normalized form of label at the same
// position. Values stored under the old id are not carried over: they become
// orphaned exactly as if the field had been removed and a new one added.
func RenameField(s types.Schema, id types.FieldID, label string) (types.Schema, error) {
	idx := s.Index(id)
	if idx < 0 {
		return s, types.ErrFieldNotFound
	}
	out := s.Clone()
	if err := out.Rename(idx, types.NormalizeField(label)); err != nil {
		return s, err
	}
	return out, nil
}
