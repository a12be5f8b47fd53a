package clickhouse

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"fixtures/config"
	"fixtures/models"
)

// FactTable holds one row per loaded order line.
const FactTable = "fact_order_line"

type Client struct {
	conn     driver.Conn
	database string
}

func NewClient(cfg config.ClickHouseConfig) (*Client, error) {
	opts := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		DialTimeout:  30 * time.Second,
	}

	// 8443 is the HTTPS port, the native port 9000 runs without TLS
	if cfg.Port == 8443 {
		opts.TLS = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Client{
		conn:     conn,
		database: cfg.Database,
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func createFactTableSQL(database string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.%s (
			run_id String,
			order_id Int64,
			user_id Int64,
			user_name String,
			order_date DateTime64(3, 'UTC'),
			product_name String,
			quantity Int32,
			item_price Float64,
			total_amount Float64,
			line_revenue Float64,
			loaded_at DateTime64(3, 'UTC')
		) ENGINE = MergeTree
		ORDER BY (order_date, order_id)
	`, database, FactTable)
}

// EnsureSchema creates the fact table when it is absent.
func (c *Client) EnsureSchema(ctx context.Context) error {
	if err := c.conn.Exec(ctx, createFactTableSQL(c.database)); err != nil {
		return fmt.Errorf("failed to create %s: %w", FactTable, err)
	}
	return nil
}

// FactRow is one row of the fact table.
type FactRow struct {
	RunID       string
	OrderID     int64
	UserID      int64
	UserName    string
	OrderDate   time.Time
	ProductName string
	Quantity    int32
	ItemPrice   float64
	TotalAmount float64
	LineRevenue float64
	LoadedAt    time.Time
}

// FactRows converts report lines into fact rows stamped with the run id.
func FactRows(runID string, loadedAt time.Time, lines []models.OrderLine) ([]FactRow, error) {
	rows := make([]FactRow, 0, len(lines))
	for _, l := range lines {
		orderDate, err := models.ParseTimestamp(l.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("order %d: invalid order_date %q: %w", l.OrderID, l.OrderDate, err)
		}
		rows = append(rows, FactRow{
			RunID:       runID,
			OrderID:     l.OrderID,
			UserID:      l.UserID,
			UserName:    l.UserName,
			OrderDate:   orderDate,
			ProductName: l.ProductName,
			Quantity:    int32(l.Quantity),
			ItemPrice:   l.ItemPrice,
			TotalAmount: l.TotalAmount,
			LineRevenue: models.LineTotal(l.ItemPrice, l.Quantity),
			LoadedAt:    loadedAt.UTC(),
		})
	}
	return rows, nil
}

// InsertOrderLines appends every line to the fact table in a single batch,
// stamped with the run id and load time, and returns the number of rows sent.
func (c *Client) InsertOrderLines(ctx context.Context, runID string, loadedAt time.Time, lines []models.OrderLine) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}

	rows, err := FactRows(runID, loadedAt, lines)
	if err != nil {
		return 0, err
	}

	batch, err := c.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s.%s", c.database, FactTable))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, r := range rows {
		if err := batch.Append(
			r.RunID,
			r.OrderID,
			r.UserID,
			r.UserName,
			r.OrderDate,
			r.ProductName,
			r.Quantity,
			r.ItemPrice,
			r.TotalAmount,
			r.LineRevenue,
			r.LoadedAt,
		); err != nil {
			_ = batch.Abort()
			return 0, fmt.Errorf("failed to append order %d: %w", r.OrderID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}
	return len(rows), nil
}
