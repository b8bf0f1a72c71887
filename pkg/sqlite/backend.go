// Package sqlite provides the public API for the SQLite notebook backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/notebook/internal/sqlite"
)

// Backend persists notebook snapshots in a SQLite database file.
type Backend = sqlite.Backend

// DBFile is the database file name created inside the data directory.
const DBFile = sqlite.DBFile

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: dir,
//	})
//	defer backend.Detach()
//	snap, err := backend.Load()
func NewBackend() *Backend {
	return sqlite.NewBackend()
}
