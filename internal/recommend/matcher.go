// Package recommend implements the keyword matcher and the treatment
// recommendation engine. Both are pure lookups over the loaded taxonomy; all
// matching is substring containment, intentionally coarse.
package recommend

import (
	"strings"

	"github.com/flosclinic/benmeibot/internal/taxonomy"
)

// fallbackRule is a broader second-pass check used only when no configured
// keyword matched. Rules are evaluated in declaration order and every matching
// rule contributes its categories.
type fallbackRule struct {
	match      func(text string) bool
	categories []string
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

var fallbackRules = []fallbackRule{
	{
		// Dull or dark complexion terms.
		match:      func(s string) bool { return containsAny(s, "暗沉", "黑", "白") },
		categories: []string{"laser", "iv_drip"},
	},
	{
		// Wrinkle terms.
		match:      func(s string) bool { return containsAny(s, "皺", "紋") },
		categories: []string{"botox", "rf_ultrasound"},
	},
	{
		// Sagging terms.
		match:      func(s string) bool { return containsAny(s, "鬆", "垂") },
		categories: []string{"rf_ultrasound"},
	},
	{
		// Hair terms, but pore complaints (毛孔) are not about hair removal.
		match:      func(s string) bool { return strings.Contains(s, "毛") && !strings.Contains(s, "毛孔") },
		categories: []string{"hair_removal"},
	},
}

// Matcher maps free text to candidate category ids via the taxonomy's keyword
// mapping, with the fallback heuristics as a recall-raising second pass.
type Matcher struct {
	tax *taxonomy.Taxonomy
}

// NewMatcher returns a matcher over the given taxonomy.
func NewMatcher(tax *taxonomy.Taxonomy) *Matcher {
	return &Matcher{tax: tax}
}

// Match returns the category ids triggered by text, deduplicated and in
// deterministic order: keyword entries in declaration order first, then
// fallback rules in rule order. Empty text yields an empty slice.
func (m *Matcher) Match(text string) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, entry := range m.tax.Keywords {
		if strings.Contains(text, entry.Keyword) {
			for _, id := range entry.Categories {
				add(id)
			}
		}
	}
	if len(ids) > 0 {
		return ids
	}

	for _, rule := range fallbackRules {
		if rule.match(text) {
			for _, id := range rule.categories {
				add(id)
			}
		}
	}
	return ids
}
