package pipeline

import (
	"context"

	"fixtures/config"
	"fixtures/internal/output"
	"fixtures/internal/store"
)

// Query opens the store read-only, runs the order report and prints it.
// It returns the number of report rows.
func Query(ctx context.Context, cfg *config.Config, p *output.Printer) (int, error) {
	client, err := store.Open(cfg.Store, store.Options{ReadOnly: true})
	if err != nil {
		return 0, err
	}
	defer client.Close()

	lines, err := client.Report(ctx)
	if err != nil {
		return 0, err
	}

	p.OrderLines(lines)
	return len(lines), nil
}
