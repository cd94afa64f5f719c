// Package scoring measures how well a free-text drink request covers the
// taste dimensions a user cares about.
package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cocktail-advisor/internal/embedding"
	"github.com/jonathan/cocktail-advisor/internal/logging"
	"github.com/jonathan/cocktail-advisor/internal/metrics"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

const (
	// MatchThreshold is the similarity above which a keyword counts as matched.
	MatchThreshold = 0.3
	topK           = 3

	dominantScore    = 60.0
	explorationScore = 40.0
	maxDominant      = 3
	maxStrongPrefs   = 2
	maxRecommended   = 3
)

// Scorer computes coverage scores. It is safe for concurrent use.
type Scorer struct {
	provider embedding.Provider

	mu       sync.Mutex
	keywords [][]embedding.Vector
}

// New returns a scorer that embeds with provider.
func New(provider embedding.Provider) *Scorer {
	return &Scorer{provider: provider}
}

// keywordMatrix encodes every block's keywords in a single batch, once.
func (s *Scorer) keywordMatrix(ctx context.Context) ([][]embedding.Vector, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keywords != nil {
		return s.keywords, nil
	}

	var all []string
	for _, b := range blocks {
		all = append(all, b.Keywords...)
	}
	vecs, err := s.provider.EncodeBatch(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to encode taste keywords: %w", err)
	}
	if len(vecs) != len(all) {
		return nil, fmt.Errorf("encoded %d of %d taste keywords", len(vecs), len(all))
	}

	out := make([][]embedding.Vector, len(blocks))
	offset := 0
	for i, b := range blocks {
		out[i] = vecs[offset : offset+len(b.Keywords)]
		offset += len(b.Keywords)
	}
	s.keywords = out
	return out, nil
}

type blockEval struct {
	raw     float64
	matched []string
}

func evalBlock(q embedding.Vector, b Block, kw []embedding.Vector) blockEval {
	sims := embedding.CosineRow(q, kw)

	type kwSim struct {
		kw  string
		sim float64
	}
	var hits []kwSim
	for i, sim := range sims {
		if sim > MatchThreshold {
			hits = append(hits, kwSim{b.Keywords[i], sim})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].sim > hits[j].sim })

	matched := make([]string, len(hits))
	for i, h := range hits {
		matched[i] = h.kw
	}

	raw := math.Max(0, math.Min(1, embedding.TopKMean(sims, topK)))
	return blockEval{raw: raw, matched: matched}
}

// Score computes the coverage of query against prefs. Missing preferences are
// neutral.
func (s *Scorer) Score(ctx context.Context, query string, prefs types.Preferences) (types.ScoringResult, error) {
	kw, err := s.keywordMatrix(ctx)
	if err != nil {
		return types.ScoringResult{}, err
	}
	q, err := s.provider.Encode(ctx, query)
	if err != nil {
		return types.ScoringResult{}, fmt.Errorf("failed to encode query: %w", err)
	}

	evals := make([]blockEval, len(blocks))
	var g errgroup.Group
	for i, b := range blocks {
		g.Go(func() error {
			evals[i] = evalBlock(q, b, kw[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.ScoringResult{}, err
	}

	res := types.ScoringResult{
		BlockScores:     make(map[string]float64, len(blocks)),
		WeightedScores:  make(map[string]float64, len(blocks)),
		MatchedKeywords: make(map[string][]string, len(blocks)),
		EnrichedQuery:   query,
	}
	var num, den float64
	for i, b := range blocks {
		fw := FinalWeight(b, prefs.Rating(b.Name))
		raw := evals[i].raw
		res.BlockScores[b.Name] = round1(raw * 100)
		res.WeightedScores[b.Name] = round1(raw * fw * 100)
		res.MatchedKeywords[b.Name] = evals[i].matched
		num += raw * fw
		den += fw
	}
	if den > 0 {
		res.CoverageScore = round1(num / den * 100)
	}
	res.ProfileSummary = Summary(res.BlockScores, prefs)
	res.Recommendations = Recommendations(res.BlockScores, prefs)

	metrics.CoverageScore.Observe(res.CoverageScore)
	logging.Ctx(ctx).Debug().Float64("coverage", res.CoverageScore).Str("query", query).Msg("Query scored")
	return res, nil
}

// FinalWeight scales a block's intrinsic weight by a Likert rating, where 3 is neutral.
func FinalWeight(b Block, rating int) float64 {
	return b.Weight * float64(rating) / float64(types.Neutral)
}

// Summary describes dominant dimensions and strong preferences.
func Summary(blockScores map[string]float64, prefs types.Preferences) string {
	var dominant, strong []string
	for _, b := range blocks {
		if blockScores[b.Name] > dominantScore && len(dominant) < maxDominant {
			dominant = append(dominant, b.Name)
		}
		if prefs.Rating(b.Name) >= 4 && len(strong) < maxStrongPrefs {
			strong = append(strong, b.Name)
		}
	}

	var sb strings.Builder
	if len(dominant) > 0 {
		sb.WriteString("Profil oriente vers: " + strings.Join(dominant, ", ") + ". ")
	} else {
		sb.WriteString("Profil equilibre avec des gouts varies. ")
	}
	if len(strong) > 0 {
		sb.WriteString("Preferences marquees pour: " + strings.Join(strong, ", ") + ".")
	}
	return sb.String()
}

// Recommendations flags preferred dimensions the query barely covers. With no
// such gap it suggests the two weakest dimensions.
func Recommendations(blockScores map[string]float64, prefs types.Preferences) []string {
	var recs []string
	for _, b := range blocks {
		if prefs.Rating(b.Name) >= 4 && blockScores[b.Name] < explorationScore {
			recs = append(recs, "Explorer des cocktails plus marques en "+strings.ToLower(b.Name))
			if len(recs) == maxRecommended {
				return recs
			}
		}
	}
	if len(recs) > 0 {
		return recs
	}

	for _, name := range weakest(blockScores, 2) {
		recs = append(recs, "Decouvrir la dimension "+name)
	}
	return recs
}

// weakest returns the n lowest-scoring blocks; ties keep catalog order.
func weakest(blockScores map[string]float64, n int) []string {
	names := BlockNames()
	sort.SliceStable(names, func(i, j int) bool {
		return blockScores[names[i]] < blockScores[names[j]]
	})
	if n > len(names) {
		n = len(names)
	}
	return names[:n]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
