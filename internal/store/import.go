package store

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// ImportRequest is a parsed spreadsheet batch ready to be committed.
type ImportRequest struct {
	Name    string            // target category name; usually the sheet name
	Icon    string            // icon for a newly created category
	Headers []types.FieldID   // imported columns in sheet order
	Rows    []types.RawRecord // one entry per data row
}

// ImportResult describes a committed import.
type ImportResult struct {
	Category types.Category
	Created  bool // true when the import created the category
	Records  []types.Record
}

// Import commits a parsed batch. When no category matches req.Name
// (case-insensitively) a new one is created with req.Headers as its schema.
// When one exists, the batch is appended under that category's current
// schema; any imported column the schema does not have rejects the whole
// import with a *types.SchemaMismatchError. Nothing is written unless every
// row is accepted.
func (n *Notebook) Import(req ImportRequest) (ImportResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	headers, err := types.NewSchema(req.Headers...)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import headers: %w", err)
	}
	for i, row := range req.Rows {
		if err := checkValues(headers, row); err != nil {
			return ImportResult{}, fmt.Errorf("import row %d: %w", i+1, err)
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	target := n.lookupName(req.Name)
	created := target == nil
	var categoryID string
	if created {
		spec := CategorySpec{Name: req.Name, Icon: req.Icon}
		if spec.Icon == "" {
			spec.Icon = types.DefaultIcon
		}
		if err := n.validateSpec(spec); err != nil {
			return ImportResult{}, err
		}
		categoryID = n.newID()
		if err := n.checkCategoryIDLocked(categoryID); err != nil {
			return ImportResult{}, err
		}
	} else {
		var extra []types.FieldID
		for _, h := range headers.Fields {
			if !target.meta.Schema.Has(h) {
				extra = append(extra, h)
			}
		}
		if len(extra) > 0 {
			return ImportResult{}, &types.SchemaMismatchError{Category: target.meta.Name, Extra: extra}
		}
	}

	ids := make([]string, len(req.Rows))
	seen := make(map[string]bool, len(req.Rows))
	for i := range req.Rows {
		id := n.newID()
		if id == "" || seen[id] {
			return ImportResult{}, fmt.Errorf("%w: generated id %q is not unique", types.ErrInvalidID, id)
		}
		if target != nil {
			if _, taken := target.records.Get(id); taken {
				return ImportResult{}, fmt.Errorf("%w: generated id %q is not unique", types.ErrInvalidID, id)
			}
		}
		seen[id] = true
		ids[i] = id
	}

	if created {
		icon := req.Icon
		if icon == "" {
			icon = types.DefaultIcon
		}
		if target, err = n.addCategoryLocked(categoryID, req.Name, icon, headers); err != nil {
			return ImportResult{}, err
		}
	}

	out := ImportResult{Created: created, Records: make([]types.Record, 0, len(req.Rows))}
	for i, row := range req.Rows {
		rec := types.Record{ID: ids[i], Values: compact(row)}
		n.insertLocked(target, rec)
		out.Records = append(out.Records, rec.Clone())
	}
	out.Category = target.meta.Clone()
	n.logger.Info("import committed",
		"category", target.meta.Name, "created", created, "records", len(out.Records))
	return out, nil
}
