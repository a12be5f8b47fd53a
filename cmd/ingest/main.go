package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fixtures/config"
	"fixtures/internal/clickhouse"
	"fixtures/internal/output"
	"fixtures/internal/pipeline"
	"fixtures/internal/rabbitmq"
	"fixtures/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the CSV dataset into the relational store",
	Long: `Read the CSV files from DATA_DIR, create the schema if it is missing and
insert every row in dependency order: users, products, orders, order items,
payments.

With CLICKHOUSE_ENABLED=true the loaded order lines are mirrored into the
fact_order_line table. With RABBITMQ_ENABLED=true one event per loaded order
is published to RABBITMQ_ORDER_QUEUE. Neither sink can fail the ingest.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func main() {
	logger.Init("ingest", "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("Error during ingestion")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger.Init("ingest", cfg.LogLevel)

	log.Info().
		Str("data_dir", cfg.Data.Dir).
		Str("driver", cfg.Store.Driver).
		Bool("clickhouse", cfg.ClickHouse.Enabled).
		Bool("rabbitmq", cfg.RabbitMQ.Enabled).
		Msg("✓ Configuration loaded")

	var deps pipeline.IngestDeps

	if cfg.ClickHouse.Enabled {
		chClient, err := clickhouse.NewClient(cfg.ClickHouse)
		if err != nil {
			log.Warn().Err(err).Msg("ClickHouse unavailable, warehouse sync disabled")
		} else {
			defer chClient.Close()
			deps.Warehouse = chClient
			log.Info().Msgf("✓ Connected to ClickHouse %s:%d/%s", cfg.ClickHouse.Host, cfg.ClickHouse.Port, cfg.ClickHouse.Database)
		}
	}

	if cfg.RabbitMQ.Enabled {
		publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, order events disabled")
		} else {
			defer publisher.Close()
			deps.Events = publisher
			log.Info().Str("queue", cfg.RabbitMQ.OrderQueue).Msg("✓ Connected to RabbitMQ")
		}
	}

	res, err := pipeline.Ingest(ctx, cfg, deps)
	if err != nil {
		return err
	}

	log.Info().
		Str("run_id", res.RunID).
		Int("users", res.Rows.Users).
		Int("products", res.Rows.Products).
		Int("orders", res.Rows.Orders).
		Int("order_items", res.Rows.OrderItems).
		Int("payments", res.Rows.Payments).
		Int("total_mismatches", res.Mismatches).
		Msg("Load summary")

	out := output.Stdout()
	out.Success("Ingestion completed: %d rows loaded", res.Rows.Total())
	out.Info("Run %s", res.RunID)
	if res.Mismatches > 0 {
		out.Warning("%d stored orders have totals that do not match their items", res.Mismatches)
	}
	return nil
}
