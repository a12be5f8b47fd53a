// Package csvfile reads and writes the five entity collections as
// comma-separated files with a header row, one file per entity.
package csvfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"fixtures/models"
)

const (
	UsersFile      = "users.csv"
	ProductsFile   = "products.csv"
	OrdersFile     = "orders.csv"
	OrderItemsFile = "order_items.csv"
	PaymentsFile   = "payments.csv"
)

// WriteDataset writes every collection of r into dir, creating dir when it
// does not exist. The first failure aborts the run; files already written
// are left in place.
func WriteDataset(dir string, r *models.Records) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}

	files := []struct {
		name string
		rows interface{}
	}{
		{UsersFile, &r.Users},
		{ProductsFile, &r.Products},
		{OrdersFile, &r.Orders},
		{OrderItemsFile, &r.OrderItems},
		{PaymentsFile, &r.Payments},
	}
	for _, f := range files {
		if err := writeFile(filepath.Join(dir, f.name), f.rows); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, rows interface{}) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if err := gocsv.MarshalFile(rows, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadDataset reads the five files from dir. Quoted fields and doubled
// quotes are decoded, so it is the exact inverse of WriteDataset.
func ReadDataset(dir string) (*models.Records, error) {
	r := &models.Records{}

	files := []struct {
		name string
		rows interface{}
	}{
		{UsersFile, &r.Users},
		{ProductsFile, &r.Products},
		{OrdersFile, &r.Orders},
		{OrderItemsFile, &r.OrderItems},
		{PaymentsFile, &r.Payments},
	}
	for _, f := range files {
		if err := readFile(filepath.Join(dir, f.name), f.rows); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func readFile(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	// empty file: empty collection
	if info.Size() == 0 {
		return nil
	}

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		// blank lines only: empty collection
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil
		}
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
