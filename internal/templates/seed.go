package templates

import (
	"errors"
	"fmt"

	"github.com/mesh-intelligence/notebook/internal/store"
	"github.com/mesh-intelligence/notebook/pkg/types"
)

// Seed creates one category per template in s, filled with the template's
// sample rows. Templates whose name is already taken are skipped. It
// returns the categories it created.
func Seed(nb *store.Notebook, s *Set) ([]types.Category, error) {
	var created []types.Category
	for _, t := range s.All() {
		cat, err := nb.CreateCategory(t.Spec())
		if errors.Is(err, types.ErrDuplicateCategory) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seeding %q: %w", t.Name, err)
		}
		for i, sample := range t.Samples {
			values := make(types.Values, len(sample))
			for k, v := range sample {
				values[types.FieldID(k)] = v
			}
			if _, err := nb.Create(cat.ID, values); err != nil {
				return created, fmt.Errorf("seeding %q sample %d: %w", t.Name, i+1, err)
			}
		}
		created = append(created, cat)
	}
	return created, nil
}
