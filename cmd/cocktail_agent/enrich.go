package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cocktail-advisor/internal/advisor"
	"github.com/jonathan/cocktail-advisor/internal/logging"
	"github.com/jonathan/cocktail-advisor/internal/profiler"
	"github.com/jonathan/cocktail-advisor/internal/storage"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

var (
	enrichInput  string
	enrichOutput string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Compute taste profiles for a cocktail dataset",
	Long: "Reads a JSON array of cocktails ({name, ingredients, instructions, category}), resolves every " +
		"ingredient and writes the dataset back with a quantity-weighted taste profile, a difficulty and a prep time.",
	Args: cobra.NoArgs,
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().StringVarP(&enrichInput, "in", "i", "", "Path to input cocktails JSON file (required)")
	enrichCmd.Flags().StringVarP(&enrichOutput, "out", "o", "", "Path to output enriched JSON file (required)")

	if err := enrichCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := enrichCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(enrichCmd)
}

// datasetCocktail is one input row.
type datasetCocktail struct {
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// enrichedCocktail is one output row.
type enrichedCocktail struct {
	datasetCocktail
	Difficulty   string             `json:"difficulty"`
	PrepTime     int                `json:"prep_time"`
	TasteProfile map[string]float64 `json:"taste_profile"`
}

// difficulty grades a cocktail by ingredient count.
func difficulty(ingredients int) string {
	switch {
	case ingredients <= 3:
		return "Facile"
	case ingredients <= 6:
		return "Moyen"
	default:
		return "Difficile"
	}
}

// prepTime estimates minutes from the instruction length.
func prepTime(instructions string) int {
	n := len(instructions)
	switch {
	case n < 100:
		return 3
	case n < 200:
		return 4
	case n < 300:
		return 5
	default:
		return 6
	}
}

func runEnrich(cmd *cobra.Command, _ []string) error {
	var rows []datasetCocktail
	found, err := storage.ReadJSON(enrichInput, &rows)
	if err != nil {
		return fmt.Errorf("failed to read cocktails from %s: %w", enrichInput, err)
	}
	if !found {
		return fmt.Errorf("input file not found: %s", enrichInput)
	}

	return withAdvisor(cmd.Context(), func(adv *advisor.Advisor) error {
		out := make([]enrichedCocktail, 0, len(rows))
		for i, row := range rows {
			flavor, err := adv.Profiler.CocktailProfile(cmd.Context(), row.Ingredients)
			if err != nil {
				logging.Warn().Err(err).Str("cocktail", row.Name).Msg("Failed to enrich cocktail")
				continue
			}
			out = append(out, enrichedCocktail{
				datasetCocktail: row,
				Difficulty:      difficulty(len(row.Ingredients)),
				PrepTime:        prepTime(row.Instructions),
				TasteProfile:    tasteMap(flavor),
			})
			if (i+1)%50 == 0 {
				logging.Info().Int("done", i+1).Int("total", len(rows)).Msg("Enrichment progress")
			}
		}

		if err := storage.WriteJSONAtomic(enrichOutput, out); err != nil {
			return err
		}

		st := adv.Profiler.Stats()
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Enriched %d/%d cocktails to %s\n", len(out), len(rows), enrichOutput)
		for _, src := range []types.Source{types.SourceKnown, types.SourceCache, types.SourceSimilarity, types.SourceGemini, types.SourceFallback} {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %d\n", src, st.Resolutions[src])
		}
		return nil
	})
}

func tasteMap(f profiler.CocktailFlavor) map[string]float64 {
	return map[string]float64{
		"Douceur":   f.Douceur,
		"Acidite":   f.Acidite,
		"Amertume":  f.Amertume,
		"Force":     f.Force,
		"Fraicheur": f.Fraicheur,
	}
}
