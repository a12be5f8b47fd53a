package models

import "time"

// Product categories
var Categories = []string{"Electronics", "Home", "Toys", "Books", "Fashion", "Sports"}

// Payment enumerations
var (
	PaymentMethods  = []string{"card", "paypal", "bank_transfer", "apple_pay", "google_pay"}
	PaymentStatuses = []string{"paid", "pending", "failed", "refunded"}
)

// User is a customer account. Ids are sequential from 1.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

type Product struct {
	ID       int64
	Name     string
	Category string
	Price    float64
}

// Order is a finalized order; TotalAmount is derived from its items.
type Order struct {
	ID          int64
	UserID      int64
	OrderDate   time.Time
	TotalAmount float64
}

// OrderItem ItemPrice is a snapshot of the product price when the item was created.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	ItemPrice float64
}

type Payment struct {
	ID            int64
	OrderID       int64
	PaymentMethod string
	PaymentStatus string
	PaymentDate   time.Time
}

// OrderLine is one row of the order report: an order item joined with its
// order, the ordering user and the product.
type OrderLine struct {
	UserID      int64   `gorm:"column:user_id"`
	UserName    string  `gorm:"column:user_name"`
	OrderID     int64   `gorm:"column:order_id"`
	OrderDate   string  `gorm:"column:order_date"`
	ProductName string  `gorm:"column:product_name"`
	Quantity    int     `gorm:"column:quantity"`
	ItemPrice   float64 `gorm:"column:item_price"`
	TotalAmount float64 `gorm:"column:total_amount"`
}
