package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixtures/config"
	"fixtures/internal/generator"
	"fixtures/internal/store"
	"fixtures/models"
)

func sqliteConfig(t *testing.T) config.StoreConfig {
	t.Helper()
	return config.StoreConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "ecommerce.db"),
	}
}

func openStore(t *testing.T, cfg config.StoreConfig) *store.Client {
	t.Helper()
	c, err := store.Open(cfg, store.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.EnsureSchema(context.Background()))
	return c
}

func generated(t *testing.T, sizes generator.Sizes) *models.Dataset {
	t.Helper()
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	ds, err := generator.New(21, generator.WithClock(now)).Generate(sizes)
	require.NoError(t, err)
	return ds
}

func TestClient_EnsureSchemaIsIdempotent(t *testing.T) {
	c := openStore(t, sqliteConfig(t))
	ctx := context.Background()

	_, err := c.Load(ctx, models.ToRecords(generated(t, generator.Sizes{NumUsers: 2, NumProducts: 2, NumOrders: 1})))
	require.NoError(t, err)

	require.NoError(t, c.EnsureSchema(ctx))
	n, err := c.CountRows(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestClient_LoadRoundTrip(t *testing.T) {
	c := openStore(t, sqliteConfig(t))
	ctx := context.Background()
	want := models.ToRecords(generated(t, generator.Sizes{NumUsers: 10, NumProducts: 6, NumOrders: 25}))

	res, err := c.Load(ctx, want)
	require.NoError(t, err)
	assert.Equal(t, store.LoadResult{
		Users:      10,
		Products:   6,
		Orders:     25,
		OrderItems: len(want.OrderItems),
		Payments:   25,
	}, res)

	got, err := c.Records(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("store round trip mismatch (-want +got):\n%s", diff)
	}

	ds, err := got.Dataset()
	require.NoError(t, err)
	assert.NoError(t, ds.Validate())
}

func TestClient_LoadEmpty(t *testing.T) {
	c := openStore(t, sqliteConfig(t))
	ctx := context.Background()

	res, err := c.Load(ctx, &models.Records{})
	require.NoError(t, err)
	assert.Equal(t, store.LoadResult{}, res)
	assert.Zero(t, res.Total())

	for _, table := range store.Tables {
		n, err := c.CountRows(ctx, table)
		require.NoError(t, err)
		assert.Zero(t, n, table)
	}
}

func TestClient_LoadForeignKeyViolation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.Records)
		wantErr string
		want    func(r *models.Records) store.LoadResult
	}{
		{
			name:    "order_with_unknown_user",
			mutate:  func(r *models.Records) { r.Orders[0].UserID = 404 },
			wantErr: "failed to insert orders row 1",
			want: func(r *models.Records) store.LoadResult {
				return store.LoadResult{Users: 2, Products: 2}
			},
		},
		{
			name:    "item_with_unknown_product",
			mutate:  func(r *models.Records) { r.OrderItems[0].ProductID = 404 },
			wantErr: "failed to insert order_items row 1",
			want: func(r *models.Records) store.LoadResult {
				return store.LoadResult{Users: 2, Products: 2, Orders: 2}
			},
		},
		{
			name:    "payment_with_unknown_order",
			mutate:  func(r *models.Records) { r.Payments[1].OrderID = 404 },
			wantErr: "failed to insert payments row 2",
			want: func(r *models.Records) store.LoadResult {
				return store.LoadResult{Users: 2, Products: 2, Orders: 2, OrderItems: len(r.OrderItems), Payments: 1}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := openStore(t, sqliteConfig(t))
			r := models.ToRecords(generated(t, generator.Sizes{NumUsers: 2, NumProducts: 2, NumOrders: 2}))
			tt.mutate(r)

			res, err := c.Load(context.Background(), r)
			require.Error(t, err)
			assert.ErrorIs(t, err, store.ErrForeignKeyViolation)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, tt.want(r), res)
		})
	}
}

func TestClient_LoadOutOfDependencyOrderFails(t *testing.T) {
	c := openStore(t, sqliteConfig(t))
	r := models.ToRecords(generated(t, generator.Sizes{NumUsers: 1, NumProducts: 1, NumOrders: 1}))

	// children only, parents never inserted
	_, err := c.Load(context.Background(), &models.Records{OrderItems: r.OrderItems})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrForeignKeyViolation)
}

func TestClient_DuplicateIDIsNotForeignKeyViolation(t *testing.T) {
	c := openStore(t, sqliteConfig(t))
	r := models.ToRecords(generated(t, generator.Sizes{NumUsers: 2}))
	r.Users[1].ID = r.Users[0].ID

	_, err := c.Load(context.Background(), r)
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrForeignKeyViolation)
}

func TestClient_Report(t *testing.T) {
	c := openStore(t, sqliteConfig(t))
	ctx := context.Background()
	ds := generated(t, generator.Sizes{NumUsers: 5, NumProducts: 4, NumOrders: 12})

	_, err := c.Load(ctx, models.ToRecords(ds))
	require.NoError(t, err)

	lines, err := c.Report(ctx)
	require.NoError(t, err)
	require.Len(t, lines, len(ds.OrderItems))

	for i := 1; i < len(lines); i++ {
		assert.GreaterOrEqual(t, lines[i-1].OrderDate, lines[i].OrderDate)
	}
	if diff := cmp.Diff(models.BuildOrderLines(ds), lines); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_ReportEmpty(t *testing.T) {
	c := openStore(t, sqliteConfig(t))

	lines, err := c.Report(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestClient_ReadOnly(t *testing.T) {
	cfg := sqliteConfig(t)
	rw := openStore(t, cfg)
	ctx := context.Background()
	_, err := rw.Load(ctx, models.ToRecords(generated(t, generator.Sizes{NumUsers: 1, NumProducts: 1, NumOrders: 1})))
	require.NoError(t, err)
	require.NoError(t, rw.Close())

	ro, err := store.Open(cfg, store.Options{ReadOnly: true})
	require.NoError(t, err)
	defer ro.Close()

	lines, err := ro.Report(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, lines)

	_, err = ro.Load(ctx, &models.Records{Users: []models.UserRecord{{ID: 99, Name: "x", Email: "x@example.com", CreatedAt: "2025-01-01T00:00:00.000Z"}}})
	assert.Error(t, err)
}

func TestOpen_ReadOnlyMissingStore(t *testing.T) {
	cfg := sqliteConfig(t)

	_, err := store.Open(cfg, store.Options{ReadOnly: true})
	assert.Error(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := store.Open(config.StoreConfig{Driver: "oracle"}, store.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported store driver "oracle"`)
}

func TestClient_CountRowsUnknownTable(t *testing.T) {
	c := openStore(t, sqliteConfig(t))

	_, err := c.CountRows(context.Background(), "sqlite_master; DROP TABLE users")
	assert.Error(t, err)
}

func TestClient_RecordsEmpty(t *testing.T) {
	c := openStore(t, sqliteConfig(t))

	got, err := c.Records(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(&models.Records{}, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("expected empty records (-want +got):\n%s", diff)
	}
}
