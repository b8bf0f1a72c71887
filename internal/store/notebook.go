// Package store holds the categories of a notebook and their records.
// It is the single source of truth for schemas and record data: the record
// store, the category registry, schema mutation, spreadsheet import commit,
// and snapshot/restore for persistence adapters all live here.
//
// Every exported method runs under the notebook lock and either applies
// completely or leaves the state unchanged.
package store

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	sorted "github.com/tobshub/go-sortedmap"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// Notebook is an in-memory collection of categories.
type Notebook struct {
	mu         sync.RWMutex
	categories map[string]*category
	order      []string // category ids in creation order
	seq        uint64   // last record sequence number handed out

	newID    func() string
	logger   *slog.Logger
	validate *validator.Validate
}

// category is the stored form of a Category with its records.
type category struct {
	meta    types.Category
	records *sorted.SortedMap[string, entry]
}

// entry is a stored record plus its insertion sequence number, which fixes
// its position in List output.
type entry struct {
	seq    uint64
	record types.Record
}

func entryLess(a, b entry) bool { return a.seq < b.seq }

func newRecordSet() *sorted.SortedMap[string, entry] {
	return sorted.New[string, entry](0, entryLess)
}

// Option configures a Notebook.
type Option func(*Notebook)

// WithLogger sets the logger used for mutation events.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notebook) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new categories and
// records.
func WithIDGenerator(gen func() string) Option {
	return func(n *Notebook) {
		if gen != nil {
			n.newID = gen
		}
	}
}

// WithValidator replaces the validator used for category input.
func WithValidator(v *validator.Validate) Option {
	return func(n *Notebook) {
		if v != nil {
			n.validate = v
		}
	}
}

// New creates an empty notebook.
func New(opts ...Option) *Notebook {
	n := &Notebook{
		categories: make(map[string]*category),
		newID:      generateUUID,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.validate == nil {
		n.validate = NewValidator()
	}
	return n
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// lookup returns the category with id. The caller must hold n.mu.
func (n *Notebook) lookup(id string) (*category, error) {
	c, ok := n.categories[id]
	if !ok {
		return nil, types.ErrCategoryNotFound
	}
	return c, nil
}

// lookupName finds a category by case-insensitive name. The caller must
// hold n.mu.
func (n *Notebook) lookupName(name string) *category {
	name = strings.TrimSpace(name)
	for _, id := range n.order {
		c := n.categories[id]
		if strings.EqualFold(c.meta.Name, name) {
			return c
		}
	}
	return nil
}

// recordsOf returns the records of c in insertion order. The caller must
// hold n.mu.
func recordsOf(c *category) []types.Record {
	out := []types.Record{}
	iter, err := c.records.IterCh()
	if err != nil {
		// An empty map has nothing to iterate.
		return out
	}
	for rec := range iter.Records() {
		out = append(out, rec.Val.record.Clone())
	}
	return out
}
