package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fixtures/config"
	"fixtures/internal/output"
	"fixtures/internal/pipeline"
	"fixtures/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "query",
	Short: "Print the order report from the relational store",
	Long: `Open the store read-only and print every order line joined with its user
and product, newest orders first.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger.Init("query", cfg.LogLevel)

		n, err := pipeline.Query(cmd.Context(), cfg, output.Stdout())
		if err != nil {
			return err
		}
		log.Debug().Int("rows", n).Msg("Report printed")
		return nil
	},
}

func main() {
	logger.Init("query", "")

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Query failed")
		os.Exit(1)
	}
}
