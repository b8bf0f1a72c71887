package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

func TestNewBackend(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	assert.FileExists(t, filepath.Join(dir, DBFile))
	snap, err := b.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Categories)
}
