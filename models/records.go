package models

import (
	"fmt"
)

// Records are the flat, serialized form of a Dataset as it appears in the
// delimited files and in the store: numbers stay numeric, timestamps are
// ISO-8601 text in TimestampLayout.
type Records struct {
	Users      []UserRecord
	Products   []ProductRecord
	Orders     []OrderRecord
	OrderItems []OrderItemRecord
	Payments   []PaymentRecord
}

type UserRecord struct {
	ID        int64  `csv:"id" gorm:"column:id;primaryKey;autoIncrement:false"`
	Name      string `csv:"name" gorm:"column:name"`
	Email     string `csv:"email" gorm:"column:email"`
	CreatedAt string `csv:"created_at" gorm:"column:created_at"`
}

func (UserRecord) TableName() string { return "users" }

type ProductRecord struct {
	ID       int64   `csv:"id" gorm:"column:id;primaryKey;autoIncrement:false"`
	Name     string  `csv:"name" gorm:"column:name"`
	Category string  `csv:"category" gorm:"column:category"`
	Price    float64 `csv:"price" gorm:"column:price"`
}

func (ProductRecord) TableName() string { return "products" }

type OrderRecord struct {
	ID          int64   `csv:"id" gorm:"column:id;primaryKey;autoIncrement:false"`
	UserID      int64   `csv:"user_id" gorm:"column:user_id"`
	OrderDate   string  `csv:"order_date" gorm:"column:order_date"`
	TotalAmount float64 `csv:"total_amount" gorm:"column:total_amount"`
}

func (OrderRecord) TableName() string { return "orders" }

type OrderItemRecord struct {
	ID        int64   `csv:"id" gorm:"column:id;primaryKey;autoIncrement:false"`
	OrderID   int64   `csv:"order_id" gorm:"column:order_id"`
	ProductID int64   `csv:"product_id" gorm:"column:product_id"`
	Quantity  int     `csv:"quantity" gorm:"column:quantity"`
	ItemPrice float64 `csv:"item_price" gorm:"column:item_price"`
}

func (OrderItemRecord) TableName() string { return "order_items" }

type PaymentRecord struct {
	ID            int64  `csv:"id" gorm:"column:id;primaryKey;autoIncrement:false"`
	OrderID       int64  `csv:"order_id" gorm:"column:order_id"`
	PaymentMethod string `csv:"payment_method" gorm:"column:payment_method"`
	PaymentStatus string `csv:"payment_status" gorm:"column:payment_status"`
	PaymentDate   string `csv:"payment_date" gorm:"column:payment_date"`
}

func (PaymentRecord) TableName() string { return "payments" }

// ToRecords flattens d, preserving collection order.
func ToRecords(d *Dataset) *Records {
	r := &Records{
		Users:      make([]UserRecord, 0, len(d.Users)),
		Products:   make([]ProductRecord, 0, len(d.Products)),
		Orders:     make([]OrderRecord, 0, len(d.Orders)),
		OrderItems: make([]OrderItemRecord, 0, len(d.OrderItems)),
		Payments:   make([]PaymentRecord, 0, len(d.Payments)),
	}
	for _, u := range d.Users {
		r.Users = append(r.Users, UserRecord{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: FormatTimestamp(u.CreatedAt)})
	}
	for _, p := range d.Products {
		r.Products = append(r.Products, ProductRecord(p))
	}
	for _, o := range d.Orders {
		r.Orders = append(r.Orders, OrderRecord{ID: o.ID, UserID: o.UserID, OrderDate: FormatTimestamp(o.OrderDate), TotalAmount: o.TotalAmount})
	}
	for _, it := range d.OrderItems {
		r.OrderItems = append(r.OrderItems, OrderItemRecord(it))
	}
	for _, p := range d.Payments {
		r.Payments = append(r.Payments, PaymentRecord{
			ID:            p.ID,
			OrderID:       p.OrderID,
			PaymentMethod: p.PaymentMethod,
			PaymentStatus: p.PaymentStatus,
			PaymentDate:   FormatTimestamp(p.PaymentDate),
		})
	}
	return r
}

// Dataset parses the timestamps of r back into a typed Dataset.
func (r *Records) Dataset() (*Dataset, error) {
	d := &Dataset{
		Users:      make([]User, 0, len(r.Users)),
		Products:   make([]Product, 0, len(r.Products)),
		Orders:     make([]Order, 0, len(r.Orders)),
		OrderItems: make([]OrderItem, 0, len(r.OrderItems)),
		Payments:   make([]Payment, 0, len(r.Payments)),
	}
	for _, u := range r.Users {
		ts, err := ParseTimestamp(u.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("user %d: invalid created_at %q: %w", u.ID, u.CreatedAt, err)
		}
		d.Users = append(d.Users, User{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: ts})
	}
	for _, p := range r.Products {
		d.Products = append(d.Products, Product(p))
	}
	for _, o := range r.Orders {
		ts, err := ParseTimestamp(o.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("order %d: invalid order_date %q: %w", o.ID, o.OrderDate, err)
		}
		d.Orders = append(d.Orders, Order{ID: o.ID, UserID: o.UserID, OrderDate: ts, TotalAmount: o.TotalAmount})
	}
	for _, it := range r.OrderItems {
		d.OrderItems = append(d.OrderItems, OrderItem(it))
	}
	for _, p := range r.Payments {
		ts, err := ParseTimestamp(p.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("payment %d: invalid payment_date %q: %w", p.ID, p.PaymentDate, err)
		}
		d.Payments = append(d.Payments, Payment{
			ID:            p.ID,
			OrderID:       p.OrderID,
			PaymentMethod: p.PaymentMethod,
			PaymentStatus: p.PaymentStatus,
			PaymentDate:   ts,
		})
	}
	return d, nil
}
