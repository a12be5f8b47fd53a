package store

import (
	"context"
	"fmt"
	"slices"

	"fixtures/config"
)

// Tables in dependency order: every table only references tables before it.
var Tables = []string{"users", "products", "orders", "order_items", "payments"}

type columnTypes struct {
	integer string
	text    string
	money   string
}

var dialectTypes = map[string]columnTypes{
	config.DriverSQLite:   {integer: "INTEGER", text: "TEXT", money: "REAL"},
	config.DriverPostgres: {integer: "BIGINT", text: "TEXT", money: "DOUBLE PRECISION"},
}

func schemaDDL(dialect string) ([]string, error) {
	t, ok := dialectTypes[dialect]
	if !ok {
		return nil, fmt.Errorf("no schema for dialect %q", dialect)
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %[1]s PRIMARY KEY,
			name %[2]s,
			email %[2]s,
			created_at %[2]s
		)`, t.integer, t.text),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS products (
			id %[1]s PRIMARY KEY,
			name %[2]s,
			category %[2]s,
			price %[3]s
		)`, t.integer, t.text, t.money),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS orders (
			id %[1]s PRIMARY KEY,
			user_id %[1]s,
			order_date %[2]s,
			total_amount %[3]s,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`, t.integer, t.text, t.money),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS order_items (
			id %[1]s PRIMARY KEY,
			order_id %[1]s,
			product_id %[1]s,
			quantity %[1]s,
			item_price %[2]s,
			FOREIGN KEY (order_id) REFERENCES orders(id),
			FOREIGN KEY (product_id) REFERENCES products(id)
		)`, t.integer, t.money),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS payments (
			id %[1]s PRIMARY KEY,
			order_id %[1]s,
			payment_method %[2]s,
			payment_status %[2]s,
			payment_date %[2]s,
			FOREIGN KEY (order_id) REFERENCES orders(id)
		)`, t.integer, t.text),
	}, nil
}

// EnsureSchema creates the five tables when they are absent. Existing tables
// and their rows are left untouched.
func (c *Client) EnsureSchema(ctx context.Context) error {
	stmts, err := schemaDDL(c.dialect)
	if err != nil {
		return err
	}
	for i, stmt := range stmts {
		if err := c.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create table %s: %w", Tables[i], err)
		}
	}
	return nil
}

// CountRows returns the number of rows in one of the five tables.
func (c *Client) CountRows(ctx context.Context, table string) (int64, error) {
	if !slices.Contains(Tables, table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int64
	if err := c.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
