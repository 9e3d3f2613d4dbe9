// Package catalog holds the default view of every known collection screen and
// the query params each one accepts as filters.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"

	"viewsync/internal/domain"
	"viewsync/internal/fuzzy"
)

var ErrUnknownSlug = errors.New("unknown view")

type Entry struct {
	Slug         string      `yaml:"slug"`
	Title        string      `yaml:"title,omitempty"`
	DefaultView  domain.View `yaml:"default_view"`
	FilterFields []string    `yaml:"filter_fields,omitempty"`
	// SortFields are the fields a view can be sorted by, in cycling order.
	SortFields []string `yaml:"sort_fields,omitempty"`
}

type Catalog struct {
	entries map[string]Entry
}

type file struct {
	Views []Entry `yaml:"views"`
}

func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Slug == "" {
			return nil, domain.ErrEmptySlug
		}
		if _, dup := c.entries[e.Slug]; dup {
			return nil, fmt.Errorf("view %q is defined twice", e.Slug)
		}
		if e.DefaultView.Page == 0 {
			e.DefaultView.Page = domain.DefaultPage
		}
		if err := e.DefaultView.Validate(); err != nil {
			return nil, fmt.Errorf("default view for %q: %w", e.Slug, err)
		}
		c.entries[e.Slug] = e
	}
	return c, nil
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read views file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse views file: %w", err)
	}
	return New(f.Views...)
}

// LoadOrBuiltin loads path when set, the built-in catalog otherwise.
func LoadOrBuiltin(path string) (*Catalog, error) {
	if path == "" {
		return Builtin(), nil
	}
	return Load(path)
}

func (c *Catalog) Get(slug string) (Entry, error) {
	e, ok := c.entries[slug]
	if !ok {
		if suggestion, found := fuzzy.Closest(slug, c.Slugs()); found {
			return Entry{}, fmt.Errorf("%w %q, did you mean %q?", ErrUnknownSlug, slug, suggestion)
		}
		return Entry{}, fmt.Errorf("%w %q", ErrUnknownSlug, slug)
	}

	e.DefaultView = e.DefaultView.Clone()
	e.FilterFields = slices.Clone(e.FilterFields)
	e.SortFields = slices.Clone(e.SortFields)
	return e, nil
}

func (c *Catalog) Slugs() []string {
	slugs := make([]string, 0, len(c.entries))
	for slug := range c.entries {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Marshal renders the catalog in the views file format.
func (c *Catalog) Marshal() ([]byte, error) {
	var f file
	for _, slug := range c.Slugs() {
		f.Views = append(f.Views, c.entries[slug])
	}
	return yaml.Marshal(f)
}
