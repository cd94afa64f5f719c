// Package main provides the cocktail_agent CLI and HTTP API server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/cocktail-advisor/internal/advisor"
	"github.com/jonathan/cocktail-advisor/internal/config"
	"github.com/jonathan/cocktail-advisor/internal/logging"
)

var (
	configPath string
	textOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "cocktail_agent",
	Short: "Cocktail advisor: taste scoring, ingredient profiling and recipe generation",
	Long: "cocktail_agent scores drink requests against taste preferences, resolves " +
		"ingredient flavor profiles and generates cocktail recipes, from the command line or over HTTP.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: $COCKTAIL_CONFIG or ./cocktail.yaml)")
	rootCmd.PersistentFlags().BoolVar(&textOutput, "text", false, "Print human-readable boxes instead of JSON")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and initializes logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Caller:    cfg.Log.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	return cfg, nil
}

// withAdvisor builds the advisor, runs fn and closes it.
func withAdvisor(ctx context.Context, fn func(*advisor.Advisor) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	adv, err := advisor.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to start advisor: %w", err)
	}
	defer func() {
		if err := adv.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close advisor")
		}
	}()
	return fn(adv)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
