package models

import "time"

// Event types published for loaded orders
const (
	EventOrderCreated = "created"
)

// OrderLoadedEvent is the message payload published to RabbitMQ for every
// order written by an ingest run.
type OrderLoadedEvent struct {
	Event       string    `json:"event"`        // created
	RunID       string    `json:"run_id"`       // ingest run
	OrderID     int64     `json:"order_id"`     // ID in the store
	UserID      int64     `json:"user_id"`      // ID in the store
	TotalAmount float64   `json:"total_amount"` // derived order total
	ItemCount   int       `json:"item_count"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// NewOrderLoadedEvents builds one created event per order in d.
func NewOrderLoadedEvents(d *Dataset, runID string, loadedAt time.Time) []OrderLoadedEvent {
	items := d.ItemsByOrder()
	out := make([]OrderLoadedEvent, 0, len(d.Orders))
	for _, o := range d.Orders {
		out = append(out, OrderLoadedEvent{
			Event:       EventOrderCreated,
			RunID:       runID,
			OrderID:     o.ID,
			UserID:      o.UserID,
			TotalAmount: o.TotalAmount,
			ItemCount:   len(items[o.ID]),
			LoadedAt:    loadedAt,
		})
	}
	return out
}
