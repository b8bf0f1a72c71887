// Package types defines the entities of the notebook records engine:
// field identifiers and schemas, categories, records, view state
// (filters and sorting), snapshots, configuration, and the standard
// error values returned by every engine package.
//
// A Category owns exactly one Schema and one record collection. The Schema
// is an ordered, duplicate-free list of FieldIDs; records map FieldIDs to
// scalar values and carry a system-assigned id that never appears in the
// Schema.
package types
