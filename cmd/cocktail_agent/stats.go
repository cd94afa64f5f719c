package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/cocktail-advisor/internal/advisor"
	"github.com/jonathan/cocktail-advisor/internal/observability"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base, cache and profiler statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	return withAdvisor(cmd.Context(), func(adv *advisor.Advisor) error {
		st := adv.Stats(cmd.Context())
		if textOutput {
			observability.NewPrinter(cmd.OutOrStdout()).PrintResolutionStats(st.Profiler)
			return nil
		}
		return printJSON(cmd.OutOrStdout(), st)
	})
}
