package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cocktail-advisor/internal/advisor"
	"github.com/jonathan/cocktail-advisor/internal/observability"
)

var checkCmd = &cobra.Command{
	Use:   "check <query>",
	Short: "Check whether a query is about drinks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	return withAdvisor(cmd.Context(), func(adv *advisor.Advisor) error {
		res, err := adv.Guardrail.Check(cmd.Context(), query)
		if err != nil {
			return err
		}
		if textOutput {
			observability.NewPrinter(cmd.OutOrStdout()).PrintRelevance(res)
			return nil
		}
		return printJSON(cmd.OutOrStdout(), res)
	})
}
