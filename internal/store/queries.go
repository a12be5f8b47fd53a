package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"fixtures/models"
)

const orderReportSQL = `
	SELECT
		u.id AS user_id,
		u.name AS user_name,
		o.id AS order_id,
		o.order_date,
		p.name AS product_name,
		oi.quantity,
		oi.item_price,
		o.total_amount
	FROM orders o
	JOIN users u ON o.user_id = u.id
	JOIN order_items oi ON oi.order_id = o.id
	JOIN products p ON p.id = oi.product_id
	ORDER BY o.order_date DESC, oi.id ASC
`

// Report runs the order report join. It only reads.
func (c *Client) Report(ctx context.Context) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := c.db.WithContext(ctx).Raw(orderReportSQL).Scan(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to run order report: %w", err)
	}
	return lines, nil
}

// Records reads every table back, each ordered by id.
func (c *Client) Records(ctx context.Context) (*models.Records, error) {
	db := c.db.WithContext(ctx)
	r := &models.Records{}

	if err := readAll(db, "users", &r.Users); err != nil {
		return nil, err
	}
	if err := readAll(db, "products", &r.Products); err != nil {
		return nil, err
	}
	if err := readAll(db, "orders", &r.Orders); err != nil {
		return nil, err
	}
	if err := readAll(db, "order_items", &r.OrderItems); err != nil {
		return nil, err
	}
	if err := readAll(db, "payments", &r.Payments); err != nil {
		return nil, err
	}
	return r, nil
}

func readAll[T any](db *gorm.DB, table string, out *[]T) error {
	if err := db.Order("id").Find(out).Error; err != nil {
		return fmt.Errorf("failed to read %s: %w", table, err)
	}
	return nil
}
