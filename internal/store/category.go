package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// CreateCategory validates spec and adds a new, empty category. The schema
// is built from spec.Fields in order. Names are unique case-insensitively.
func (n *Notebook) CreateCategory(spec CategorySpec) (types.Category, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	if err := n.validateSpec(spec); err != nil {
		return types.Category{}, err
	}
	if spec.Icon == "" {
		spec.Icon = types.DefaultIcon
	}

	var schema types.Schema
	for _, label := range spec.Fields {
		if err := schema.Append(types.NormalizeField(label)); err != nil {
			return types.Category{}, fmt.Errorf("field %q: %w", label, err)
		}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.lookupName(spec.Name) != nil {
		return types.Category{}, fmt.Errorf("%w: %q", types.ErrDuplicateCategory, spec.Name)
	}
	c, err := n.addCategoryLocked(n.newID(), spec.Name, spec.Icon, schema)
	if err != nil {
		return types.Category{}, err
	}
	return c.meta.Clone(), nil
}

// checkCategoryIDLocked rejects an empty id or one already in use.
func (n *Notebook) checkCategoryIDLocked(id string) error {
	if _, taken := n.categories[id]; id == "" || taken {
		return fmt.Errorf("%w: category id %q is not unique", types.ErrInvalidID, id)
	}
	return nil
}

// addCategoryLocked registers a validated category under id. The caller
// must hold the write lock.
func (n *Notebook) addCategoryLocked(id, name, icon string, schema types.Schema) (*category, error) {
	if err := n.checkCategoryIDLocked(id); err != nil {
		return nil, err
	}
	c := &category{
		meta: types.Category{
			ID:     id,
			Name:   name,
			Icon:   icon,
			Schema: schema.Clone(),
		},
		records: newRecordSet(),
	}
	n.categories[c.meta.ID] = c
	n.order = append(n.order, c.meta.ID)
	n.logger.Debug("category created", "category", name, "id", c.meta.ID, "fields", len(schema.Fields))
	return c, nil
}

// Category returns the category with id.
// Returns types.ErrCategoryNotFound if no such category exists.
func (n *Notebook) Category(id string) (types.Category, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	c, err := n.lookup(id)
	if err != nil {
		return types.Category{}, err
	}
	return c.meta.Clone(), nil
}

// CategoryByName returns the category whose name matches name,
// ignoring case and surrounding space.
func (n *Notebook) CategoryByName(name string) (types.Category, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	c := n.lookupName(name)
	if c == nil {
		return types.Category{}, types.ErrCategoryNotFound
	}
	return c.meta.Clone(), nil
}

// Categories returns every category in creation order.
func (n *Notebook) Categories() []types.Category {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]types.Category, 0, len(n.order))
	for _, id := range n.order {
		out = append(out, n.categories[id].meta.Clone())
	}
	return out
}

// RenameCategory changes the display name and icon of a category. Empty
// arguments keep the current value.
func (n *Notebook) RenameCategory(id, name, icon string) (types.Category, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	c, err := n.lookup(id)
	if err != nil {
		return types.Category{}, err
	}
	spec := CategorySpec{Name: strings.TrimSpace(name), Icon: icon}
	if spec.Name == "" {
		spec.Name = c.meta.Name
	}
	if spec.Icon == "" {
		spec.Icon = c.meta.Icon
	}
	if err := n.validateSpec(spec); err != nil {
		return types.Category{}, err
	}
	if other := n.lookupName(spec.Name); other != nil && other != c {
		return types.Category{}, fmt.Errorf("%w: %q", types.ErrDuplicateCategory, spec.Name)
	}
	c.meta.Name = spec.Name
	c.meta.Icon = spec.Icon
	n.logger.Debug("category updated", "category", c.meta.Name, "id", id)
	return c.meta.Clone(), nil
}

// DeleteCategory removes a category together with its schema and records.
// Returns types.ErrCategoryNotFound if no such category exists.
func (n *Notebook) DeleteCategory(id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	c, err := n.lookup(id)
	if err != nil {
		return err
	}
	delete(n.categories, id)
	for i, cid := range n.order {
		if cid == id {
			n.order = append(n.order[:i:i], n.order[i+1:]...)
			break
		}
	}
	n.logger.Debug("category deleted", "category", c.meta.Name, "id", id)
	return nil
}

func sortFields(fields []types.FieldID) {
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
}
