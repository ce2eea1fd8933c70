// Package taxonomy provides the static treatment reference data used by the
// recommendation engine and the category drilldown flow. The document is
// loaded once at startup, validated, and read-only for the process lifetime.
package taxonomy

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed treatments.yaml
var dataFS embed.FS

// Treatment is a single bookable treatment within a category.
type Treatment struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Benefits    []string `yaml:"benefits"`
	SuitableFor []string `yaml:"suitable_for"`
}

// Category groups treatments under a stable identifier. Categories keep their
// declared document order, which drives both the selection carousel layout and
// recommendation ordering.
type Category struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Treatments  []Treatment `yaml:"treatments"`
}

// KeywordEntry maps one consultation keyword to the category ids it triggers.
// Entries are an ordered list rather than a map so that matcher results are
// deterministic across runs.
type KeywordEntry struct {
	Keyword    string   `yaml:"keyword"`
	Categories []string `yaml:"categories"`
}

// Taxonomy is the loaded, validated reference document.
type Taxonomy struct {
	Categories []Category        `yaml:"categories"`
	Keywords   []KeywordEntry    `yaml:"keywords"`
	Reasons    map[string]string `yaml:"reasons"`

	byID map[string]*Category
}

// Load parses and validates the embedded treatment document. Any category id
// referenced by a keyword entry or a reason that does not exist in the
// category list is a fatal error: the process must not serve traffic with a
// partially consistent taxonomy.
func Load() (*Taxonomy, error) {
	raw, err := dataFS.ReadFile("treatments.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded treatment data: %w", err)
	}
	return Parse(raw)
}

// Parse builds a Taxonomy from a YAML document. Split out from Load so tests
// can feed alternative documents.
func Parse(raw []byte) (*Taxonomy, error) {
	t := &Taxonomy{}
	if err := yaml.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("failed to parse treatment data: %w", err)
	}

	if len(t.Categories) == 0 {
		return nil, fmt.Errorf("treatment data contains no categories")
	}

	t.byID = make(map[string]*Category, len(t.Categories))
	for i := range t.Categories {
		c := &t.Categories[i]
		if c.ID == "" {
			return nil, fmt.Errorf("category %q has an empty id", c.Name)
		}
		if _, dup := t.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %q", c.ID)
		}
		t.byID[c.ID] = c
	}

	for _, entry := range t.Keywords {
		if entry.Keyword == "" {
			return nil, fmt.Errorf("keyword mapping contains an empty keyword")
		}
		for _, id := range entry.Categories {
			if _, ok := t.byID[id]; !ok {
				return nil, fmt.Errorf("keyword %q references unknown category %q", entry.Keyword, id)
			}
		}
	}
	for id := range t.Reasons {
		if _, ok := t.byID[id]; !ok {
			return nil, fmt.Errorf("reason entry references unknown category %q", id)
		}
	}

	return t, nil
}

// Category returns the category for id, or nil when absent.
func (t *Taxonomy) Category(id string) *Category {
	return t.byID[id]
}

// Reason returns the configured recommendation reason for a category id and
// whether one exists.
func (t *Taxonomy) Reason(id string) (string, bool) {
	r, ok := t.Reasons[id]
	return r, ok
}
