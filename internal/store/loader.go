package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"fixtures/models"
)

// LoadResult counts the rows inserted per table.
type LoadResult struct {
	Users      int
	Products   int
	Orders     int
	OrderItems int
	Payments   int
}

func (r LoadResult) Total() int {
	return r.Users + r.Products + r.Orders + r.OrderItems + r.Payments
}

// Load inserts r table by table in dependency order: users, products,
// orders, order items, payments. Rows go in one at a time in slice order,
// each insert completing before the next starts. There is no transaction
// across tables: on error the rows inserted so far stay in the store and the
// partial result is returned with the error.
func (c *Client) Load(ctx context.Context, r *models.Records) (LoadResult, error) {
	var res LoadResult
	db := c.db.WithContext(ctx).Session(&gorm.Session{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	})

	var err error
	if res.Users, err = insertRows(db, "users", r.Users, func(u models.UserRecord) int64 { return u.ID }); err != nil {
		return res, err
	}
	if res.Products, err = insertRows(db, "products", r.Products, func(p models.ProductRecord) int64 { return p.ID }); err != nil {
		return res, err
	}
	if res.Orders, err = insertRows(db, "orders", r.Orders, func(o models.OrderRecord) int64 { return o.ID }); err != nil {
		return res, err
	}
	if res.OrderItems, err = insertRows(db, "order_items", r.OrderItems, func(it models.OrderItemRecord) int64 { return it.ID }); err != nil {
		return res, err
	}
	if res.Payments, err = insertRows(db, "payments", r.Payments, func(p models.PaymentRecord) int64 { return p.ID }); err != nil {
		return res, err
	}
	return res, nil
}

func insertRows[T any](db *gorm.DB, table string, rows []T, id func(T) int64) (int, error) {
	for i := range rows {
		if err := db.Create(&rows[i]).Error; err != nil {
			if isForeignKeyViolation(err) {
				return i, fmt.Errorf("failed to insert %s row %d: %w: %w", table, id(rows[i]), ErrForeignKeyViolation, err)
			}
			return i, fmt.Errorf("failed to insert %s row %d: %w", table, id(rows[i]), err)
		}
	}

	log.Info().Str("table", table).Int("rows", len(rows)).Msgf("Inserted %d rows into %s", len(rows), table)
	return len(rows), nil
}
