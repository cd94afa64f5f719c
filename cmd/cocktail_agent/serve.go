package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/cocktail-advisor/internal/advisor"
	"github.com/jonathan/cocktail-advisor/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the relevance, scoring, profiling and recipe endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	return withAdvisor(cmd.Context(), func(adv *advisor.Advisor) error {
		if servePort > 0 {
			adv.Config.Server.Port = servePort
		}
		return server.New(adv).Start(cmd.Context())
	})
}
