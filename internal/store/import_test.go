package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

func TestImportCreatesCategory(t *testing.T) {
	nb := New()
	res, err := nb.Import(ImportRequest{
		Name:    "Inventory",
		Headers: []types.FieldID{"item", "qty"},
		Rows: []types.RawRecord{
			{"item": "bolts", "qty": 40.0},
			{"item": "nuts"},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, types.DefaultIcon, res.Category.Icon)
	assert.Equal(t, []types.FieldID{"item", "qty"}, res.Category.Schema.Fields)
	require.Len(t, res.Records, 2)

	list, err := nb.List(res.Category.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Records, list)
}

func TestImportAppendsToExistingCategory(t *testing.T) {
	nb := New()
	tasks := mustCategory(t, nb, "Tasks", "title", "status", "priority")
	_, err := nb.Create(tasks.ID, types.Values{"title": "existing"})
	require.NoError(t, err)

	res, err := nb.Import(ImportRequest{
		Name:    "tasks",
		Headers: []types.FieldID{"status", "title"},
		Rows:    []types.RawRecord{{"title": "imported", "status": "open"}},
	})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, tasks.ID, res.Category.ID)
	assert.Equal(t, []types.FieldID{"title", "status", "priority"}, res.Category.Schema.Fields,
		"existing schema order wins")

	list, _ := nb.List(tasks.ID)
	require.Len(t, list, 2)
	assert.Equal(t, "imported", list[1].Values["title"])
	assert.Len(t, nb.Categories(), 1)
}

func TestImportRejectsExtraColumns(t *testing.T) {
	nb := New()
	tasks := mustCategory(t, nb, "Tasks", "title")

	_, err := nb.Import(ImportRequest{
		Name:    "Tasks",
		Headers: []types.FieldID{"title", "owner", "due"},
		Rows:    []types.RawRecord{{"title": "x", "owner": "me"}},
	})
	var mismatch *types.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "Tasks", mismatch.Category)
	assert.Equal(t, []types.FieldID{"owner", "due"}, mismatch.Extra)
	assert.ErrorIs(t, err, types.ErrSchemaMismatch)

	list, _ := nb.List(tasks.ID)
	assert.Empty(t, list)
	got, _ := nb.Category(tasks.ID)
	assert.Equal(t, []types.FieldID{"title"}, got.Schema.Fields)
}

func TestImportIsAtomic(t *testing.T) {
	nb := New()
	_, err := nb.Import(ImportRequest{
		Name:    "Broken",
		Headers: []types.FieldID{"a"},
		Rows: []types.RawRecord{
			{"a": "ok"},
			{"a": "ok", "b": "stray"},
		},
	})
	assert.ErrorIs(t, err, types.ErrUnknownField)
	assert.Empty(t, nb.Categories(), "no category created for a failed import")

	_, err = nb.Import(ImportRequest{Name: "Dup", Headers: []types.FieldID{"a", "a"}})
	assert.ErrorIs(t, err, types.ErrDuplicateField)
}

func TestImportRejectsRepeatedGeneratedIDs(t *testing.T) {
	nb := New(WithIDGenerator(scriptedIDs("cat", "r1", "r1")))
	_, err := nb.Import(ImportRequest{
		Name:    "Twice",
		Headers: []types.FieldID{"a"},
		Rows:    []types.RawRecord{{"a": "1"}, {"a": "2"}},
	})
	assert.ErrorIs(t, err, types.ErrInvalidID)
	assert.Empty(t, nb.Categories())
}

func TestImportRejectsReusedCategoryID(t *testing.T) {
	nb := New(WithIDGenerator(scriptedIDs("c1", "c1", "r1")))
	mustCategory(t, nb, "Books", "title")

	_, err := nb.Import(ImportRequest{
		Name:    "Films",
		Headers: []types.FieldID{"title"},
		Rows:    []types.RawRecord{{"title": "Alien"}},
	})
	assert.ErrorIs(t, err, types.ErrInvalidID)
	require.Len(t, nb.Categories(), 1)
	assert.Equal(t, "Books", nb.Categories()[0].Name)
}
