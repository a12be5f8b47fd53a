package models

import (
	"math"
	"time"
)

// TimestampLayout is the fixed-width ISO-8601 form used wherever a timestamp
// is stored as text. Fixed width keeps lexical and chronological order equal.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// RoundCurrency rounds to whole cents.
func RoundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}

// LineTotal is the rounded price of one order item.
func LineTotal(itemPrice float64, quantity int) float64 {
	return RoundCurrency(itemPrice * float64(quantity))
}

// AddLine adds a line total to a running order total, rounding after every step.
func AddLine(running, line float64) float64 {
	return RoundCurrency(running + line)
}

// OrderTotal recomputes an order total from its items with the same stepwise
// rounding used at generation time. Items are summed in slice order.
func OrderTotal(items []OrderItem) float64 {
	total := 0.0
	for _, it := range items {
		total = AddLine(total, LineTotal(it.ItemPrice, it.Quantity))
	}
	return total
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
