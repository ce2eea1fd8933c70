package recommend

import (
	"github.com/flosclinic/benmeibot/internal/taxonomy"
)

const (
	maxRecommendations        = 2
	maxTreatmentsPerCategory  = 3
	genericRecommendationNote = "專業療程，為您量身打造"
)

// Recommendation pairs a matched category with the treatments to surface and
// the reason shown to the user.
type Recommendation struct {
	Category   *taxonomy.Category
	Treatments []taxonomy.Treatment
	Reason     string
}

// Engine produces ranked category recommendations for consultation messages.
type Engine struct {
	tax     *taxonomy.Taxonomy
	matcher *Matcher
}

// NewEngine returns an engine over the given taxonomy.
func NewEngine(tax *taxonomy.Taxonomy) *Engine {
	return &Engine{tax: tax, matcher: NewMatcher(tax)}
}

// Recommend maps free text to at most two category recommendations, each with
// at most three treatments in the category's stored order. Category ids that
// no longer resolve are skipped. An empty result is the caller's cue to send
// the generic "please consult us" reply; it is never an error.
func (e *Engine) Recommend(text string) []Recommendation {
	ids := e.matcher.Match(text)

	recs := make([]Recommendation, 0, maxRecommendations)
	for _, id := range ids {
		if len(recs) == maxRecommendations {
			break
		}
		cat := e.tax.Category(id)
		if cat == nil {
			continue
		}

		treatments := cat.Treatments
		if len(treatments) > maxTreatmentsPerCategory {
			treatments = treatments[:maxTreatmentsPerCategory]
		}

		reason, ok := e.tax.Reason(id)
		if !ok {
			reason = genericRecommendationNote
		}

		recs = append(recs, Recommendation{
			Category:   cat,
			Treatments: treatments,
			Reason:     reason,
		})
	}
	return recs
}
