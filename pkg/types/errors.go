package types

import (
	"errors"
	"fmt"
	"strings"
)

// Schema errors.
var (
	ErrDuplicateField = errors.New("duplicate field")
	ErrInvalidField   = errors.New("invalid field identifier")
	ErrReservedField  = errors.New("field identifier is reserved")
	ErrFieldNotFound  = errors.New("field not found")
	ErrFieldIndex     = errors.New("field index out of range")
)

// Store errors.
var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrRecordNotFound    = errors.New("record not found")
	ErrInvalidID         = errors.New("invalid record ID")
	ErrUnknownField      = errors.New("field not in schema")
	ErrInvalidValue      = errors.New("unsupported field value")
)

// Import errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptySheet        = errors.New("sheet is empty")
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrSchemaMismatch    = errors.New("import columns do not match category schema")
)

// DuplicateFieldError reports a schema mutation that would introduce a
// second copy of Field.
type DuplicateFieldError struct {
	Field FieldID
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("duplicate field %q", e.Field)
}

func (e *DuplicateFieldError) Unwrap() error { return ErrDuplicateField }

// RecordNotFoundError reports a reference to a record id that does not
// exist in the category.
type RecordNotFoundError struct {
	CategoryID string
	RecordID   string
}

func (e *RecordNotFoundError) Error() string {
	return fmt.Sprintf("record %q not found in category %q", e.RecordID, e.CategoryID)
}

func (e *RecordNotFoundError) Unwrap() error { return ErrRecordNotFound }

// UnknownFieldError reports record values keyed by fields that are not in
// the category schema.
type UnknownFieldError struct {
	Fields []FieldID
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("fields not in schema: %s", joinFields(e.Fields))
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// UnsupportedFormatError reports a file that is not a recognised tabular
// format.
type UnsupportedFormatError struct {
	Name string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %q (expected .csv, .xlsx or .xls)", e.Name)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// EmptySheetError reports a sheet with no header row to infer a schema from.
type EmptySheetError struct {
	Sheet string
}

func (e *EmptySheetError) Error() string {
	return fmt.Sprintf("sheet %q has no rows", e.Sheet)
}

func (e *EmptySheetError) Unwrap() error { return ErrEmptySheet }

// SchemaMismatchError reports imported columns that are missing from the
// schema of the existing target category.
type SchemaMismatchError struct {
	Category string
	Extra    []FieldID
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("import into %q: columns not in schema: %s", e.Category, joinFields(e.Extra))
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

func joinFields(fields []FieldID) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
