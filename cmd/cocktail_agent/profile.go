package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/cocktail-advisor/internal/advisor"
	"github.com/jonathan/cocktail-advisor/internal/observability"
)

var profileCmd = &cobra.Command{
	Use:   "profile <ingredient>...",
	Short: "Resolve flavor profiles for ingredients",
	Long:  "Resolves each ingredient through the knowledge base, similarity, generative and fallback tiers.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	return withAdvisor(cmd.Context(), func(adv *advisor.Advisor) error {
		out, err := adv.Profiler.ProfileBatch(cmd.Context(), args)
		if err != nil {
			return err
		}
		if textOutput {
			observability.NewPrinter(cmd.OutOrStdout()).PrintProfiles(out)
			return nil
		}
		return printJSON(cmd.OutOrStdout(), out)
	})
}
