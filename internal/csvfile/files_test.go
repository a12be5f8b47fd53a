package csvfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixtures/internal/csvfile"
	"fixtures/models"
)

func sampleRecords() *models.Records {
	return &models.Records{
		Users: []models.UserRecord{
			{ID: 1, Name: "Doe, Jane", Email: "jane@example.com", CreatedAt: "2025-02-03T04:05:06.789Z"},
			{ID: 2, Name: `He said "hi", ok`, Email: "quote@example.com", CreatedAt: "2025-02-04T00:00:00.000Z"},
		},
		Products: []models.ProductRecord{
			{ID: 1, Name: "Small, Steel Chair", Category: "Home", Price: 120.5},
		},
		Orders: []models.OrderRecord{
			{ID: 1, UserID: 2, OrderDate: "2025-03-01T10:00:00.000Z", TotalAmount: 241},
		},
		OrderItems: []models.OrderItemRecord{
			{ID: 1, OrderID: 1, ProductID: 1, Quantity: 2, ItemPrice: 120.5},
		},
		Payments: []models.PaymentRecord{
			{ID: 1, OrderID: 1, PaymentMethod: "bank_transfer", PaymentStatus: "paid", PaymentDate: "2025-03-01T11:00:00.000Z"},
		},
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
}

func TestWriteDataset_Headers(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, csvfile.WriteDataset(dir, sampleRecords()))

	tests := []struct {
		file   string
		header string
	}{
		{csvfile.UsersFile, "id,name,email,created_at"},
		{csvfile.ProductsFile, "id,name,category,price"},
		{csvfile.OrdersFile, "id,user_id,order_date,total_amount"},
		{csvfile.OrderItemsFile, "id,order_id,product_id,quantity,item_price"},
		{csvfile.PaymentsFile, "id,order_id,payment_method,payment_status,payment_date"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			lines := readLines(t, filepath.Join(dir, tt.file))
			assert.Equal(t, tt.header, lines[0])
		})
	}
}

func TestWriteDataset_Quoting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, csvfile.WriteDataset(dir, sampleRecords()))

	users := readLines(t, filepath.Join(dir, csvfile.UsersFile))
	require.Len(t, users, 3)
	assert.Equal(t, `1,"Doe, Jane",jane@example.com,2025-02-03T04:05:06.789Z`, users[1])
	assert.Equal(t, `2,"He said ""hi"", ok",quote@example.com,2025-02-04T00:00:00.000Z`, users[2])

	items := readLines(t, filepath.Join(dir, csvfile.OrderItemsFile))
	assert.Equal(t, "1,1,1,2,120.5", items[1])
}

func TestReadDataset_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := sampleRecords()
	require.NoError(t, csvfile.WriteDataset(dir, want))

	got, err := csvfile.ReadDataset(dir)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDataset_EmptyCollections(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, csvfile.WriteDataset(dir, &models.Records{}))

	// zero-byte and blank files are empty collections too
	require.NoError(t, os.WriteFile(filepath.Join(dir, csvfile.PaymentsFile), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, csvfile.OrdersFile), []byte("\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, csvfile.UsersFile), []byte("\r\n\n"), 0o644))

	got, err := csvfile.ReadDataset(dir)
	require.NoError(t, err)
	if diff := cmp.Diff(&models.Records{}, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("expected empty records (-want +got):\n%s", diff)
	}
}

func TestReadDataset_MissingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, csvfile.WriteDataset(dir, sampleRecords()))
	require.NoError(t, os.Remove(filepath.Join(dir, csvfile.OrdersFile)))

	_, err := csvfile.ReadDataset(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "orders.csv")
}

func TestReadDataset_BadNumber(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, csvfile.WriteDataset(dir, sampleRecords()))
	bad := "id,name,category,price\n1,Lamp,Home,cheap\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, csvfile.ProductsFile), []byte(bad), 0o644))

	_, err := csvfile.ReadDataset(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "products.csv")
}

func TestWriteDataset_UnwritableDir(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := csvfile.WriteDataset(filepath.Join(blocker, "data"), sampleRecords())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create data dir")
}
