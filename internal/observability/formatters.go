// Package observability provides formatted text output for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/cocktail-advisor/internal/profiler"
	"github.com/jonathan/cocktail-advisor/internal/recipes"
	"github.com/jonathan/cocktail-advisor/internal/scoring"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for text mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines wrap
// on word boundaries.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, l := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, l)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// wrap splits s into lines of at most n runes, keeping the leading indent on
// continuation lines. Words longer than n are truncated.
func wrap(s string, n int) []string {
	if utf8.RuneCountInString(s) <= n {
		return []string{s}
	}
	indent := s[:len(s)-len(strings.TrimLeft(s, " "))]
	var lines []string
	cur := indent
	for _, w := range strings.Fields(s) {
		switch {
		case strings.TrimSpace(cur) == "":
			cur = indent + w
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(w) <= n:
			cur += " " + w
		default:
			lines = append(lines, truncate(cur, n))
			cur = indent + "  " + w
		}
	}
	return append(lines, truncate(cur, n))
}

// PrintRelevance outputs the guardrail decision.
func (p *Printer) PrintRelevance(res types.RelevanceResult) {
	var sb strings.Builder
	if res.Accepted() {
		sb.WriteString("✓ Accepted\n")
	} else {
		sb.WriteString("✗ Rejected\n")
	}
	sb.WriteString(fmt.Sprintf("Similarity: %.3f", res.Similarity))
	if res.Message != "" {
		sb.WriteString("\n" + res.Message)
	}
	p.printBox("RELEVANCE", sb.String())
}

// PrintScoring outputs coverage, per-block scores and recommendations.
func (p *Printer) PrintScoring(res *types.ScoringResult) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Query:     %s\n", res.EnrichedQuery))
	sb.WriteString(fmt.Sprintf("Coverage:  %.1f%%\n\n", res.CoverageScore))

	for _, name := range scoring.BlockNames() {
		score := res.BlockScores[name]
		bar := strings.Repeat("█", int(score/10))
		sb.WriteString(fmt.Sprintf("%-11s %5.1f  %s\n", name, score, bar))
		if kws := res.MatchedKeywords[name]; len(kws) > 0 {
			count := min(len(kws), 3)
			sb.WriteString(fmt.Sprintf("            [%s]\n", strings.Join(kws[:count], ", ")))
		}
	}

	if res.ProfileSummary != "" {
		sb.WriteString("\n" + res.ProfileSummary + "\n")
	}
	if len(res.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, r := range res.Recommendations {
			sb.WriteString(fmt.Sprintf("  • %s\n", r))
		}
	}

	p.printBox("TASTE COVERAGE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecipe outputs a recipe card followed by the progression plan and
// taste bio when present.
func (p *Printer) PrintRecipe(res *recipes.Result) {
	if res == nil || res.Recipe == nil {
		return
	}
	r := res.Recipe

	var sb strings.Builder
	if r.Description != "" {
		sb.WriteString(r.Description + "\n\n")
	}
	sb.WriteString("Ingredients:\n")
	for _, ing := range r.Ingredients {
		sb.WriteString(fmt.Sprintf("  • %s\n", ing))
	}
	sb.WriteString("\nInstructions:\n")
	for i, step := range r.Instructions {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
	}
	if r.Glass != "" {
		sb.WriteString(fmt.Sprintf("\nVerre:     %s\n", r.Glass))
	}
	if r.Garnish != "" {
		sb.WriteString(fmt.Sprintf("Garniture: %s\n", r.Garnish))
	}
	origin := string(r.Source)
	if r.Model != "" {
		origin += " (" + r.Model + ")"
	}
	if res.Cached {
		origin += ", cached"
	}
	sb.WriteString(fmt.Sprintf("Source:    %s", origin))

	p.printBox(strings.ToUpper(r.Name), sb.String())

	if res.ProgressionPlan != nil {
		p.printBox("PROGRESSION", res.ProgressionPlan.String())
	}
	if res.TasteBio != nil {
		p.printBox("TASTE BIO", res.TasteBio.String())
	}
}

// PrintProfiles outputs resolved ingredient profiles, one row each.
func (p *Printer) PrintProfiles(profiles []profiler.NamedProfile) {
	if len(profiles) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-14s %3s %3s %3s %3s %3s  %s\n", "", "SUC", "ACI", "AME", "FOR", "FRA", "SOURCE"))
	for _, np := range profiles {
		f := np.Profile
		src := string(f.Source)
		if f.SimilarTo != "" {
			src += "→" + f.SimilarTo
		}
		sb.WriteString(fmt.Sprintf("%-14s %3.1f %3.1f %3.1f %3.1f %3.1f  %s\n",
			truncate(np.Name, 14), f.Sweetness, f.Acidity, f.Bitterness, f.Strength, f.Freshness, src))
	}

	p.printBox("INGREDIENT PROFILES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResolutionStats outputs profiler counters sorted by source name.
func (p *Printer) PrintResolutionStats(st profiler.Stats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Known ingredients: %d\n", st.KnownCount))
	sb.WriteString(fmt.Sprintf("Cached profiles:   %d\n", st.CacheSize))
	sb.WriteString(fmt.Sprintf("Tiers:             %s\n", strings.Join(st.Tiers, " → ")))

	if len(st.Resolutions) > 0 {
		sources := make([]string, 0, len(st.Resolutions))
		for s := range st.Resolutions {
			sources = append(sources, string(s))
		}
		sort.Strings(sources)
		sb.WriteString("\nResolutions:\n")
		count := min(len(sources), maxItemsToShow)
		for _, s := range sources[:count] {
			sb.WriteString(fmt.Sprintf("  • %-10s %d\n", s, st.Resolutions[types.Source(s)]))
		}
	}

	p.printBox("PROFILER", strings.TrimSuffix(sb.String(), "\n"))
}
