package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cocktail-advisor/internal/advisor"
	"github.com/jonathan/cocktail-advisor/internal/observability"
	"github.com/jonathan/cocktail-advisor/internal/scoring"
	"github.com/jonathan/cocktail-advisor/internal/types"
)

var (
	scorePrefs  map[string]int
	scoreEnrich bool
)

var scoreCmd = &cobra.Command{
	Use:   "score <query>",
	Short: "Score a query against taste preferences",
	Long: "Computes block scores, weighted scores and the coverage score of a query " +
		"over the seven taste blocks. Preferences are Likert ratings from 1 to 5.",
	Example: "  cocktail_agent score \"un mojito\" --pref Fraicheur=5 --pref Force=2 --enrich",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runScore,
}

func init() {
	scoreCmd.Flags().StringToIntVar(&scorePrefs, "pref", nil, "Taste preference as Block=rating (repeatable)")
	scoreCmd.Flags().BoolVar(&scoreEnrich, "enrich", false, "Enrich short queries with preference descriptors")
	rootCmd.AddCommand(scoreCmd)
}

// parsePreferences checks block names and rating range.
func parsePreferences(in map[string]int) (types.Preferences, error) {
	prefs := make(types.Preferences, len(in))
	for name, v := range in {
		if !scoring.IsBlock(name) {
			return nil, fmt.Errorf("unknown taste block %q (expected one of %s)", name, strings.Join(scoring.BlockNames(), ", "))
		}
		if v < 1 || v > 5 {
			return nil, fmt.Errorf("rating for %s must be between 1 and 5, got %d", name, v)
		}
		prefs[name] = v
	}
	return prefs, nil
}

func runScore(cmd *cobra.Command, args []string) error {
	prefs, err := parsePreferences(scorePrefs)
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	if scoreEnrich {
		query = scoring.EnrichShortQuery(query, prefs)
	}

	return withAdvisor(cmd.Context(), func(adv *advisor.Advisor) error {
		res, err := adv.Scorer.Score(cmd.Context(), query, prefs)
		if err != nil {
			return err
		}
		if textOutput {
			observability.NewPrinter(cmd.OutOrStdout()).PrintScoring(&res)
			return nil
		}
		return printJSON(cmd.OutOrStdout(), res)
	})
}
