package models

import (
	"errors"
	"fmt"
	"sort"
)

// Dataset holds the five entity collections of one generation run, each in
// creation order.
type Dataset struct {
	Users      []User
	Products   []Product
	Orders     []Order
	OrderItems []OrderItem
	Payments   []Payment
}

// ItemsByOrder groups order items by order id, keeping their relative order.
func (d *Dataset) ItemsByOrder() map[int64][]OrderItem {
	out := make(map[int64][]OrderItem, len(d.Orders))
	for _, it := range d.OrderItems {
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out
}

// Validate checks referential integrity, item and quantity bounds, derived
// totals and causal timestamp order. All violations are returned joined.
func (d *Dataset) Validate() error {
	var errs []error

	users := make(map[int64]User, len(d.Users))
	for _, u := range d.Users {
		users[u.ID] = u
	}
	products := make(map[int64]struct{}, len(d.Products))
	for _, p := range d.Products {
		products[p.ID] = struct{}{}
	}
	orders := make(map[int64]Order, len(d.Orders))
	for _, o := range d.Orders {
		orders[o.ID] = o
		u, ok := users[o.UserID]
		if !ok {
			errs = append(errs, fmt.Errorf("order %d: unknown user %d", o.ID, o.UserID))
			continue
		}
		if o.OrderDate.Before(u.CreatedAt) {
			errs = append(errs, fmt.Errorf("order %d: order_date before user %d created_at", o.ID, u.ID))
		}
	}

	for _, it := range d.OrderItems {
		if _, ok := orders[it.OrderID]; !ok {
			errs = append(errs, fmt.Errorf("order item %d: unknown order %d", it.ID, it.OrderID))
		}
		if _, ok := products[it.ProductID]; !ok {
			errs = append(errs, fmt.Errorf("order item %d: unknown product %d", it.ID, it.ProductID))
		}
		if it.Quantity < 1 || it.Quantity > 5 {
			errs = append(errs, fmt.Errorf("order item %d: quantity %d out of range 1-5", it.ID, it.Quantity))
		}
	}

	items := d.ItemsByOrder()
	for _, o := range d.Orders {
		n := len(items[o.ID])
		if n < 1 || n > 5 {
			errs = append(errs, fmt.Errorf("order %d: %d items, want 1-5", o.ID, n))
		}
		if want := OrderTotal(items[o.ID]); want != o.TotalAmount {
			errs = append(errs, fmt.Errorf("order %d: total_amount %.2f, items sum to %.2f", o.ID, o.TotalAmount, want))
		}
	}

	paid := make(map[int64]int, len(d.Payments))
	for _, p := range d.Payments {
		paid[p.OrderID]++
		o, ok := orders[p.OrderID]
		if !ok {
			errs = append(errs, fmt.Errorf("payment %d: unknown order %d", p.ID, p.OrderID))
			continue
		}
		if p.PaymentDate.Before(o.OrderDate) {
			errs = append(errs, fmt.Errorf("payment %d: payment_date before order %d order_date", p.ID, o.ID))
		}
	}
	for _, o := range d.Orders {
		if paid[o.ID] != 1 {
			errs = append(errs, fmt.Errorf("order %d: %d payments, want exactly 1", o.ID, paid[o.ID]))
		}
	}

	return errors.Join(errs...)
}

// BuildOrderLines computes the order report join in memory, ordered by order
// date descending. Rows of the same order keep item order.
func BuildOrderLines(d *Dataset) []OrderLine {
	users := make(map[int64]User, len(d.Users))
	for _, u := range d.Users {
		users[u.ID] = u
	}
	products := make(map[int64]Product, len(d.Products))
	for _, p := range d.Products {
		products[p.ID] = p
	}
	orders := make(map[int64]Order, len(d.Orders))
	for _, o := range d.Orders {
		orders[o.ID] = o
	}

	lines := make([]OrderLine, 0, len(d.OrderItems))
	for _, it := range d.OrderItems {
		o, ok := orders[it.OrderID]
		if !ok {
			continue
		}
		u, ok := users[o.UserID]
		if !ok {
			continue
		}
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		lines = append(lines, OrderLine{
			UserID:      u.ID,
			UserName:    u.Name,
			OrderID:     o.ID,
			OrderDate:   FormatTimestamp(o.OrderDate),
			ProductName: p.Name,
			Quantity:    it.Quantity,
			ItemPrice:   it.ItemPrice,
			TotalAmount: o.TotalAmount,
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].OrderDate > lines[j].OrderDate
	})
	return lines
}
