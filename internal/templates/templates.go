// Package templates provides starting schemas for new categories. The
// built-in set is embedded; a user file can extend or override it.
package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/notebook/internal/store"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrTemplateNotFound is returned by Set.Get for unknown names.
var ErrTemplateNotFound = errors.New("template not found")

// Template describes a category to create: its name, icon, field labels
// and optional sample rows keyed by normalized field id.
type Template struct {
	Name    string           `yaml:"name" json:"name" validate:"required,max=64"`
	Icon    string           `yaml:"icon" json:"icon" validate:"omitempty,icon"`
	Fields  []string         `yaml:"fields" json:"fields" validate:"dive,required"`
	Samples []map[string]any `yaml:"samples,omitempty" json:"samples,omitempty"`
}

// Spec returns the category input for t.
func (t Template) Spec() store.CategorySpec {
	return store.CategorySpec{Name: t.Name, Icon: t.Icon, Fields: append([]string(nil), t.Fields...)}
}

type file struct {
	Templates []Template `yaml:"templates"`
}

// Set is an ordered collection of templates with unique names.
type Set struct {
	list []Template
}

// Defaults returns the built-in templates.
func Defaults() (*Set, error) {
	s := &Set{}
	if err := s.merge(defaultsYAML, "built-in templates"); err != nil {
		return nil, err
	}
	return s, nil
}

// Load returns the built-in templates merged with the file at path. A
// template in the file replaces a built-in one with the same name (ignoring
// case); others are appended. An empty path or a missing file yields the
// built-ins.
func Load(path string) (*Set, error) {
	s, err := Defaults()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading templates: %w", err)
	}
	if err := s.merge(data, path); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Set) merge(data []byte, source string) error {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing %s: %w", source, err)
	}
	v := store.NewValidator()
	for i, t := range f.Templates {
		t.Name = strings.TrimSpace(t.Name)
		if err := v.Struct(t); err != nil {
			return fmt.Errorf("%s: template %d: %w", source, i+1, err)
		}
		if idx := s.index(t.Name); idx >= 0 {
			s.list[idx] = t
			continue
		}
		s.list = append(s.list, t)
	}
	return nil
}

func (s *Set) index(name string) int {
	name = strings.TrimSpace(name)
	for i, t := range s.list {
		if strings.EqualFold(t.Name, name) {
			return i
		}
	}
	return -1
}

// Get returns the template called name, ignoring case.
func (s *Set) Get(name string) (Template, error) {
	if i := s.index(name); i >= 0 {
		return s.list[i], nil
	}
	return Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
}

// Names returns the template names sorted alphabetically.
func (s *Set) Names() []string {
	names := make([]string, len(s.list))
	for i, t := range s.list {
		names[i] = t.Name
	}
	sort.Strings(names)
	return names
}

// All returns the templates in definition order.
func (s *Set) All() []Template {
	return append([]Template(nil), s.list...)
}

// WithoutSamples returns a copy of s whose templates carry no sample rows.
func (s *Set) WithoutSamples() *Set {
	out := &Set{list: make([]Template, len(s.list))}
	for i, t := range s.list {
		t.Samples = nil
		out.list[i] = t
	}
	return out
}
