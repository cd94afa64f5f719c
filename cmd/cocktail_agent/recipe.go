package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cocktail-advisor/internal/advisor"
	"github.com/jonathan/cocktail-advisor/internal/observability"
)

var recipePrefs map[string]int

var recipeCmd = &cobra.Command{
	Use:   "recipe <query>",
	Short: "Generate (or fetch from cache) a cocktail recipe",
	Long: "Runs the relevance check, then serves the recipe from the cache or generates it, " +
		"falling back to a house recipe when no model answers.",
	Args: cobra.MinimumNArgs(1),
	RunE: runRecipe,
}

func init() {
	recipeCmd.Flags().StringToIntVar(&recipePrefs, "pref", nil, "Taste preference as Block=rating (repeatable)")
	rootCmd.AddCommand(recipeCmd)
}

func runRecipe(cmd *cobra.Command, args []string) error {
	prefs, err := parsePreferences(recipePrefs)
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")

	return withAdvisor(cmd.Context(), func(adv *advisor.Advisor) error {
		res, err := adv.Recipes.Recipe(cmd.Context(), query, prefs)
		if err != nil {
			return err
		}
		if res.Recipe == nil {
			return errors.New(res.Message)
		}
		if textOutput {
			observability.NewPrinter(cmd.OutOrStdout()).PrintRecipe(&res)
			return nil
		}
		return printJSON(cmd.OutOrStdout(), res)
	})
}
