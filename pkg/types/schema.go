package types

// Schema is the ordered set of fields of a category. Order determines column
// display order. A Schema never holds duplicates or the reserved "id" field.
type Schema struct {
	Fields []FieldID `json:"fields"`
}

// NewSchema builds a Schema from ids, rejecting invalid or duplicate ids.
func NewSchema(ids ...FieldID) (Schema, error) {
	var s Schema
	for _, id := range ids {
		if err := s.Append(id); err != nil {
			return Schema{}, err
		}
	}
	return s, nil
}

// Len returns the number of fields.
func (s Schema) Len() int { return len(s.Fields) }

// Index returns the position of id, or -1.
func (s Schema) Index(id FieldID) int {
	for i, f := range s.Fields {
		if f == id {
			return i
		}
	}
	return -1
}

// Has reports whether id is in the schema.
func (s Schema) Has(id FieldID) bool { return s.Index(id) >= 0 }

// Clone returns a copy that shares no storage with s.
func (s Schema) Clone() Schema {
	if s.Fields == nil {
		return Schema{}
	}
	out := make([]FieldID, len(s.Fields))
	copy(out, s.Fields)
	return Schema{Fields: out}
}

// Validate checks the uniqueness and reserved-name invariants.
func (s Schema) Validate() error {
	seen := make(map[FieldID]bool, len(s.Fields))
	for _, f := range s.Fields {
		if err := ValidateFieldID(f); err != nil {
			return err
		}
		if seen[f] {
			return &DuplicateFieldError{Field: f}
		}
		seen[f] = true
	}
	return nil
}

// Append adds id at the end. The schema is unchanged on error.
// Mutations never write into the backing array of a previous value.
func (s *Schema) Append(id FieldID) error {
	if err := ValidateFieldID(id); err != nil {
		return err
	}
	if s.Has(id) {
		return &DuplicateFieldError{Field: id}
	}
	out := make([]FieldID, len(s.Fields), len(s.Fields)+1)
	copy(out, s.Fields)
	s.Fields = append(out, id)
	return nil
}

// Remove deletes the field at index.
// Returns ErrFieldIndex if index is out of range.
func (s *Schema) Remove(index int) error {
	if index < 0 || index >= len(s.Fields) {
		return ErrFieldIndex
	}
	out := make([]FieldID, 0, len(s.Fields)-1)
	out = append(out, s.Fields[:index]...)
	s.Fields = append(out, s.Fields[index+1:]...)
	return nil
}

// Move relocates the field at from to position to. Either index being out
// of range makes Move a no-op.
func (s *Schema) Move(from, to int) error {
	n := len(s.Fields)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return nil
	}
	out := make([]FieldID, 0, n)
	moved := s.Fields[from]
	for i, f := range s.Fields {
		if i != from {
			out = append(out, f)
		}
	}
	out = append(out[:to], append([]FieldID{moved}, out[to:]...)...)
	s.Fields = out
	return nil
}

// Rename replaces the identifier at index with id, keeping its position.
// Renaming a field to its current id is a no-op.
func (s *Schema) Rename(index int, id FieldID) error {
	if index < 0 || index >= len(s.Fields) {
		return ErrFieldIndex
	}
	if err := ValidateFieldID(id); err != nil {
		return err
	}
	if s.Fields[index] == id {
		return nil
	}
	if s.Has(id) {
		return &DuplicateFieldError{Field: id}
	}
	out := s.Clone()
	out.Fields[index] = id
	s.Fields = out.Fields
	return nil
}
