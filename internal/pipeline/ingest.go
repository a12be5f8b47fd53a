package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"fixtures/config"
	"fixtures/internal/csvfile"
	"fixtures/internal/store"
	"fixtures/models"
)

// Warehouse mirrors loaded order lines into an analytics store.
type Warehouse interface {
	EnsureSchema(ctx context.Context) error
	InsertOrderLines(ctx context.Context, runID string, loadedAt time.Time, lines []models.OrderLine) (int, error)
}

// EventPublisher announces loaded orders to downstream consumers.
type EventPublisher interface {
	PublishOrderEvents(ctx context.Context, events []models.OrderLoadedEvent) (int, error)
}

// IngestDeps holds the optional sinks of an ingest run. Nil fields are
// skipped.
type IngestDeps struct {
	Warehouse Warehouse
	Events    EventPublisher
	Now       func() time.Time
}

type IngestResult struct {
	RunID string
	Rows  store.LoadResult

	// Mismatches counts stored orders whose total differs from the sum of
	// their stored items.
	Mismatches int

	WarehouseRows   int
	EventsPublished int
}

// Ingest loads the data directory into the store. A failure while reading
// the files, opening the store or loading rows aborts the run; rows already
// inserted stay. Warehouse and event failures are logged only.
func Ingest(ctx context.Context, cfg *config.Config, deps IngestDeps) (IngestResult, error) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	id, err := uuid.NewV4()
	if err != nil {
		return IngestResult{}, fmt.Errorf("failed to create run id: %w", err)
	}
	res := IngestResult{RunID: id.String()}
	logger := log.With().Str("run_id", res.RunID).Logger()

	records, err := csvfile.ReadDataset(cfg.Data.Dir)
	if err != nil {
		return res, err
	}

	client, err := store.Open(cfg.Store, store.Options{})
	if err != nil {
		return res, err
	}
	defer client.Close()
	logger.Info().Str("driver", client.Dialect()).Msg("✓ Connected to store")

	if err := client.EnsureSchema(ctx); err != nil {
		return res, err
	}

	res.Rows, err = client.Load(ctx, records)
	if err != nil {
		return res, err
	}

	res.Mismatches, err = verifyTotals(ctx, client)
	if err != nil {
		return res, err
	}

	loadedAt := now().UTC()
	if deps.Warehouse != nil {
		res.WarehouseRows = syncWarehouse(ctx, client, deps.Warehouse, res.RunID, loadedAt, records)
	}
	if deps.Events != nil {
		res.EventsPublished = publishEvents(ctx, deps.Events, res.RunID, loadedAt, records)
	}

	logger.Info().Int("rows", res.Rows.Total()).Msg("Ingestion completed.")
	return res, nil
}

// verifyTotals compares every stored order total with the stepwise total of
// its stored items. It reads the numeric columns only, so timestamps the
// store accepted as text never fail the check.
func verifyTotals(ctx context.Context, client *store.Client) (int, error) {
	stored, err := client.Records(ctx)
	if err != nil {
		return 0, err
	}

	totals := make(map[int64]float64, len(stored.Orders))
	for _, it := range stored.OrderItems {
		totals[it.OrderID] = models.AddLine(totals[it.OrderID], models.LineTotal(it.ItemPrice, it.Quantity))
	}

	mismatches := 0
	for _, o := range stored.Orders {
		want := totals[o.ID]
		if o.TotalAmount != want {
			mismatches++
			log.Warn().
				Int64("order_id", o.ID).
				Float64("total_amount", o.TotalAmount).
				Float64("items_total", want).
				Msg("Stored order total does not match its items")
		}
	}
	return mismatches, nil
}

func syncWarehouse(ctx context.Context, client *store.Client, wh Warehouse, runID string, loadedAt time.Time, records *models.Records) int {
	lines, err := client.Report(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Warehouse sync skipped")
		return 0
	}
	lines = loadedLines(lines, records)

	if err := wh.EnsureSchema(ctx); err != nil {
		log.Warn().Err(err).Msg("Warehouse sync skipped")
		return 0
	}
	n, err := wh.InsertOrderLines(ctx, runID, loadedAt, lines)
	if err != nil {
		log.Warn().Err(err).Msg("Warehouse sync failed")
		return 0
	}
	log.Info().Int("rows", n).Msgf("✓ Synced %d order lines to warehouse", n)
	return n
}

// loadedLines keeps the report lines of the orders loaded by this run.
func loadedLines(lines []models.OrderLine, records *models.Records) []models.OrderLine {
	loaded := make(map[int64]struct{}, len(records.Orders))
	for _, o := range records.Orders {
		loaded[o.ID] = struct{}{}
	}
	out := make([]models.OrderLine, 0, len(lines))
	for _, l := range lines {
		if _, ok := loaded[l.OrderID]; ok {
			out = append(out, l)
		}
	}
	return out
}

func publishEvents(ctx context.Context, pub EventPublisher, runID string, loadedAt time.Time, records *models.Records) int {
	ds, err := records.Dataset()
	if err != nil {
		log.Warn().Err(err).Msg("Order events skipped")
		return 0
	}
	n, err := pub.PublishOrderEvents(ctx, models.NewOrderLoadedEvents(ds, runID, loadedAt))
	if err != nil {
		log.Warn().Err(err).Int("published", n).Msg("Publishing order events failed")
		return n
	}
	log.Info().Int("events", n).Msgf("✓ Published %d order events", n)
	return n
}
