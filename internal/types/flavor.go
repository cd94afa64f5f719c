// Package types defines the shared records exchanged between components.
package types

import (
	"math"
	"time"
)

// Bounds of every flavor dimension.
const (
	MinFlavor = 1.5
	MaxFlavor = 5.0
)

// Category is the coarse role of an ingredient in a drink.
type Category string

// Ingredient categories.
const (
	CategorySpirit   Category = "spirit"
	CategoryMixer    Category = "mixer"
	CategoryModifier Category = "modifier"
	CategoryGarnish  Category = "garnish"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySpirit, CategoryMixer, CategoryModifier, CategoryGarnish:
		return true
	}
	return false
}

// Source records which resolution tier produced a profile.
type Source string

// Profile sources, ordered roughly by trust.
const (
	SourceKnown      Source = "known"
	SourceCache      Source = "cache"
	SourceSimilarity Source = "similarity"
	SourceGemini     Source = "gemini"
	SourceFallback   Source = "fallback"
)

// FlavorProfile is the five-dimension flavor description of one ingredient.
type FlavorProfile struct {
	Sweetness  float64  `json:"sweetness"`
	Acidity    float64  `json:"acidity"`
	Bitterness float64  `json:"bitterness"`
	Strength   float64  `json:"strength"`
	Freshness  float64  `json:"freshness"`
	Category   Category `json:"category"`
	Source     Source   `json:"source"`

	SimilarityScore *float64   `json:"similarity_score,omitempty"`
	SimilarTo       string     `json:"similar_to,omitempty"`
	NameFR          string     `json:"name_fr,omitempty"`
	NameEN          []string   `json:"name_en,omitempty"`
	Type            string     `json:"type,omitempty"`
	Model           string     `json:"model,omitempty"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
}

// ClampFlavor bounds v to [MinFlavor, MaxFlavor]. NaN maps to MinFlavor.
func ClampFlavor(v float64) float64 {
	if math.IsNaN(v) {
		return MinFlavor
	}
	return math.Max(MinFlavor, math.Min(MaxFlavor, v))
}

// Clamp bounds every numeric dimension in place and reports whether any value changed.
func (p *FlavorProfile) Clamp() bool {
	changed := false
	for _, f := range []*float64{&p.Sweetness, &p.Acidity, &p.Bitterness, &p.Strength, &p.Freshness} {
		c := ClampFlavor(*f)
		if c != *f {
			*f = c
			changed = true
		}
	}
	return changed
}

// WithSource returns a copy of p tagged with src. Slices and pointers are copied.
func (p FlavorProfile) WithSource(src Source) FlavorProfile {
	out := p
	out.Source = src
	if p.NameEN != nil {
		out.NameEN = append([]string(nil), p.NameEN...)
	}
	if p.SimilarityScore != nil {
		s := *p.SimilarityScore
		out.SimilarityScore = &s
	}
	return out
}

// Values returns the five dimensions in canonical order.
func (p FlavorProfile) Values() [5]float64 {
	return [5]float64{p.Sweetness, p.Acidity, p.Bitterness, p.Strength, p.Freshness}
}

// SameValues reports whether two profiles carry identical numeric dimensions.
func (p FlavorProfile) SameValues(o FlavorProfile) bool {
	return p.Values() == o.Values()
}
