package pipeline

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"fixtures/config"
	"fixtures/internal/csvfile"
	"fixtures/internal/generator"
	"fixtures/models"
)

// Generate builds a synthetic dataset from the generator settings and writes
// it as delimited files into the data directory.
func Generate(cfg *config.Config, opts ...generator.Option) (*models.Dataset, error) {
	gen := generator.New(cfg.Generator.Seed, opts...)
	ds, err := gen.Generate(generator.Sizes{
		NumUsers:    cfg.Generator.NumUsers,
		NumProducts: cfg.Generator.NumProducts,
		NumOrders:   cfg.Generator.NumOrders,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate dataset: %w", err)
	}

	log.Debug().
		Int("users", len(ds.Users)).
		Int("products", len(ds.Products)).
		Int("orders", len(ds.Orders)).
		Int("order_items", len(ds.OrderItems)).
		Int("payments", len(ds.Payments)).
		Msg("Dataset generated")

	if err := csvfile.WriteDataset(cfg.Data.Dir, models.ToRecords(ds)); err != nil {
		return nil, err
	}

	log.Info().Str("dir", cfg.Data.Dir).Msgf("✓ Synthetic CSV data generated in %s", cfg.Data.Dir)
	return ds, nil
}
