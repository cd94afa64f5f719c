package types

// Preferences maps a taste dimension name to a Likert rating in [1,5].
type Preferences map[string]int

// Neutral is the Likert rating assumed for unrated dimensions.
const Neutral = 3

// Rating returns the rating for dim, defaulting to Neutral and clamping to [1,5].
func (p Preferences) Rating(dim string) int {
	v, ok := p[dim]
	if !ok {
		return Neutral
	}
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// ScoringResult is the coverage analysis of one query against user preferences.
// BlockScores, WeightedScores and CoverageScore use different normalizations;
// WeightedScores do not sum to CoverageScore.
type ScoringResult struct {
	CoverageScore   float64             `json:"coverage_score"`
	BlockScores     map[string]float64  `json:"block_scores"`
	WeightedScores  map[string]float64  `json:"weighted_scores"`
	MatchedKeywords map[string][]string `json:"matched_keywords"`
	ProfileSummary  string              `json:"profile_summary"`
	Recommendations []string            `json:"recommendations"`
	EnrichedQuery   string              `json:"enriched_query"`
}

// RelevanceStatus is the outcome of the relevance guardrail.
type RelevanceStatus string

// Relevance outcomes.
const (
	RelevanceOK    RelevanceStatus = "ok"
	RelevanceError RelevanceStatus = "error"
)

// RelevanceResult is the guardrail decision for a query.
type RelevanceResult struct {
	Status     RelevanceStatus `json:"status"`
	Similarity float64         `json:"similarity"`
	Message    string          `json:"message,omitempty"`
}

// Accepted reports whether the query passed the guardrail.
func (r RelevanceResult) Accepted() bool {
	return r.Status == RelevanceOK
}
