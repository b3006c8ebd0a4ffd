// Package taxonomy holds the static category catalog and scores text
// against it. Categories are configuration data, not code: the default
// catalog is an embedded TOML file and deployments can point the
// gateway at their own.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed taxonomy.toml
var defaultTaxonomy []byte

// Template is a reusable board layout recommended when its category matches.
type Template struct {
	Name        string `toml:"name" json:"name"`
	URL         string `toml:"url" json:"url"`
	Description string `toml:"description" json:"description"`
}

// Category is a named cluster of domain keywords with a template catalog.
// Declaration order in the TOML file is significant: it breaks scoring ties.
type Category struct {
	Key         string     `toml:"key" json:"key"`
	Display     string     `toml:"display" json:"display"`
	Description string     `toml:"description" json:"description"`
	Weight      float64    `toml:"weight" json:"weight"`
	Keywords    []string   `toml:"keywords" json:"keywords"`
	Templates   []Template `toml:"template" json:"templates"`
}

// Taxonomy is an ordered, immutable category catalog.
type Taxonomy struct {
	Categories []Category `toml:"category"`
}

// Default returns the embedded catalog.
func Default() (*Taxonomy, error) {
	return parse(defaultTaxonomy)
}

// Load reads a catalog from a TOML file.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	tax, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse taxonomy %s: %w", path, err)
	}
	return tax, nil
}

func parse(data []byte) (*Taxonomy, error) {
	var tax Taxonomy
	if err := toml.Unmarshal(data, &tax); err != nil {
		return nil, err
	}
	if len(tax.Categories) == 0 {
		return nil, fmt.Errorf("taxonomy has no categories")
	}

	seen := make(map[string]bool, len(tax.Categories))
	for i := range tax.Categories {
		c := &tax.Categories[i]
		c.Key = strings.ToLower(strings.TrimSpace(c.Key))
		if c.Key == "" {
			return nil, fmt.Errorf("category %d has no key", i)
		}
		if seen[c.Key] {
			return nil, fmt.Errorf("duplicate category key %q", c.Key)
		}
		seen[c.Key] = true
		if len(c.Keywords) == 0 {
			return nil, fmt.Errorf("category %q has no keywords", c.Key)
		}
		for j, kw := range c.Keywords {
			c.Keywords[j] = strings.ToLower(strings.TrimSpace(kw))
			if c.Keywords[j] == "" {
				return nil, fmt.Errorf("category %q has an empty keyword", c.Key)
			}
		}
		if c.Weight == 0 {
			c.Weight = 1.0
		}
	}
	return &tax, nil
}

// Category returns the category with the given key, or nil.
func (t *Taxonomy) Category(key string) *Category {
	for i := range t.Categories {
		if t.Categories[i].Key == key {
			return &t.Categories[i]
		}
	}
	return nil
}
