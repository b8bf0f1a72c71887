package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/notebook/internal/importer"
	"github.com/mesh-intelligence/notebook/pkg/sqlite"
	"github.com/mesh-intelligence/notebook/internal/store"
	"github.com/mesh-intelligence/notebook/internal/templates"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

// withNotebook attaches the backend, loads the saved notebook and runs fn.
// When save is true and fn succeeds the notebook is written back before
// the backend is detached.
func (a *app) withNotebook(save bool, fn func(nb *store.Notebook) error) (err error) {
	backend := sqlite.NewBackend()
	if err := backend.Attach(a.backendConfig()); err != nil {
		return sysErr(fmt.Errorf("attach backend: %w", err))
	}
	defer func() {
		if derr := backend.Detach(); derr != nil && err == nil {
			err = sysErr(fmt.Errorf("detach backend: %w", derr))
		}
	}()

	snap, err := backend.Load()
	if err != nil {
		return sysErr(fmt.Errorf("load notebook: %w", err))
	}
	nb := store.New(store.WithLogger(a.logger))
	if err := nb.Restore(snap); err != nil {
		return sysErr(fmt.Errorf("restore notebook: %w", err))
	}

	if err := fn(nb); err != nil {
		return err
	}
	if !save {
		return nil
	}
	if err := backend.Save(nb.Snapshot()); err != nil {
		return sysErr(fmt.Errorf("save notebook: %w", err))
	}
	return nil
}

// templates loads the built-in templates merged with the user file.
func (a *app) templates() (*templates.Set, error) {
	set, err := templates.Load(a.templatesPath())
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return set, nil
}

// categoryArg looks a category up by name (ignoring case), falling back to
// its id.
func categoryArg(nb *store.Notebook, arg string) (types.Category, error) {
	cat, err := nb.CategoryByName(arg)
	if err == nil {
		return cat, nil
	}
	if byID, idErr := nb.Category(arg); idErr == nil {
		return byID, nil
	}
	return types.Category{}, fmt.Errorf("%w: %q", err, arg)
}

// fieldArg resolves a field given either as its id or as a label.
func fieldArg(schema types.Schema, arg string) (types.FieldID, error) {
	if id := types.FieldID(arg); schema.Has(id) {
		return id, nil
	}
	if id := types.NormalizeField(arg); schema.Has(id) {
		return id, nil
	}
	return "", fmt.Errorf("%w: %q", types.ErrFieldNotFound, arg)
}

// parseAssignments turns key=value arguments into record values. Keys are
// labels or ids and are normalized. Values are typed like spreadsheet
// cells; an empty value maps to nil, which clears the field on update.
func parseAssignments(schema types.Schema, args []string) (types.Values, error) {
	values := make(types.Values, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		field, err := fieldArg(schema, strings.TrimSpace(key))
		if err != nil {
			field = types.NormalizeField(key)
			if field == "" {
				return nil, fmt.Errorf("%w: %q", types.ErrInvalidField, key)
			}
		}
		v, ok := importer.CellValue(raw)
		if !ok {
			values[field] = nil
			continue
		}
		values[field] = v
	}
	return values, nil
}

// parseFieldList splits a comma-separated list of field labels.
func parseFieldList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
