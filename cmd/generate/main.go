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
	Use:   "generate",
	Short: "Generate a synthetic e-commerce dataset as CSV files",
	Long: `Generate users, products, orders, order items and payments with consistent
references and totals, and write them to one CSV file per entity in DATA_DIR.

Sizes come from GEN_NUM_USERS, GEN_NUM_PRODUCTS and GEN_NUM_ORDERS. Set
GEN_SEED to a non-zero value for a reproducible dataset.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	logger.Init("generate", "")

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Generation failed")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Init("generate", cfg.LogLevel)

	log.Info().
		Int("users", cfg.Generator.NumUsers).
		Int("products", cfg.Generator.NumProducts).
		Int("orders", cfg.Generator.NumOrders).
		Uint64("seed", cfg.Generator.Seed).
		Msg("✓ Configuration loaded")

	ds, err := pipeline.Generate(cfg)
	if err != nil {
		return err
	}
	output.Stdout().Success("Generated %d users, %d products, %d orders, %d order items and %d payments",
		len(ds.Users), len(ds.Products), len(ds.Orders), len(ds.OrderItems), len(ds.Payments))
	return nil
}
