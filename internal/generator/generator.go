package generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"fixtures/models"
)

var ErrInvalidSizes = errors.New("invalid dataset sizes")

const (
	minItemsPerOrder = 1
	maxItemsPerOrder = 5
	minQuantity      = 1
	maxQuantity      = 5
	minPrice         = 5.0
	maxPrice         = 500.0
	userHistory      = 2 // years
)

type Sizes struct {
	NumUsers    int
	NumProducts int
	NumOrders   int
}

func (s Sizes) validate() error {
	if s.NumUsers < 0 || s.NumProducts < 0 || s.NumOrders < 0 {
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidSizes)
	}
	if s.NumOrders > 0 && (s.NumUsers == 0 || s.NumProducts == 0) {
		return fmt.Errorf("%w: orders need at least one user and one product", ErrInvalidSizes)
	}
	return nil
}

// Generator is the context of a single generation pass. It owns the random
// source, the clock and the running id counters; it is not safe for
// concurrent use.
type Generator struct {
	faker *gofakeit.Faker
	now   time.Time

	nextItemID    int64
	nextPaymentID int64
}

type Option func(*Generator)

// WithClock fixes "now" for the generation pass.
func WithClock(now time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New returns a generator seeded with seed. A zero seed draws a random one.
func New(seed uint64, opts ...Option) *Generator {
	g := &Generator{
		faker: gofakeit.New(seed),
		now:   time.Now(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.now = g.now.UTC().Truncate(time.Millisecond)
	return g
}

// Now is the upper bound of every generated timestamp.
func (g *Generator) Now() time.Time {
	return g.now
}

// Generate produces a complete dataset in dependency order: users, products,
// orders with their items, then payments. Every call numbers all ids from 1.
func (g *Generator) Generate(sizes Sizes) (*models.Dataset, error) {
	if err := sizes.validate(); err != nil {
		return nil, err
	}
	g.nextItemID = 1
	g.nextPaymentID = 1

	users := g.users(sizes.NumUsers)
	products := g.products(sizes.NumProducts)
	drafts := g.orderDrafts(sizes.NumOrders, users)
	orders, items := g.finalizeOrders(drafts, products)
	payments := g.payments(orders)

	return &models.Dataset{
		Users:      users,
		Products:   products,
		Orders:     orders,
		OrderItems: items,
		Payments:   payments,
	}, nil
}

func (g *Generator) users(n int) []models.User {
	from := g.now.AddDate(-userHistory, 0, 0)
	users := make([]models.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, models.User{
			ID:        int64(i),
			Name:      g.faker.Name(),
			Email:     g.faker.Email(),
			CreatedAt: g.between(from, g.now),
		})
	}
	return users
}

func (g *Generator) products(n int) []models.Product {
	products := make([]models.Product, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, models.Product{
			ID:       int64(i),
			Name:     g.faker.ProductName(),
			Category: g.faker.RandomString(models.Categories),
			Price:    models.RoundCurrency(g.faker.Float64Range(minPrice, maxPrice)),
		})
	}
	return products
}

// orderDraft is an order whose total is not known yet.
type orderDraft struct {
	id        int64
	userID    int64
	orderDate time.Time
}

func (d orderDraft) finalize(total float64) models.Order {
	return models.Order{
		ID:          d.id,
		UserID:      d.userID,
		OrderDate:   d.orderDate,
		TotalAmount: total,
	}
}

func (g *Generator) orderDrafts(n int, users []models.User) []orderDraft {
	drafts := make([]orderDraft, 0, n)
	for i := 1; i <= n; i++ {
		u := users[g.faker.IntRange(0, len(users)-1)]
		drafts = append(drafts, orderDraft{
			id:        int64(i),
			userID:    u.ID,
			orderDate: g.between(u.CreatedAt, g.now),
		})
	}
	return drafts
}

// finalizeOrders draws the items of every draft and returns the finalized
// orders with totals accumulated in item order, rounding at each step.
func (g *Generator) finalizeOrders(drafts []orderDraft, products []models.Product) ([]models.Order, []models.OrderItem) {
	orders := make([]models.Order, 0, len(drafts))
	items := make([]models.OrderItem, 0, len(drafts)*3)

	for _, d := range drafts {
		count := g.faker.IntRange(minItemsPerOrder, maxItemsPerOrder)
		total := 0.0
		for j := 0; j < count; j++ {
			p := products[g.faker.IntRange(0, len(products)-1)]
			it := models.OrderItem{
				ID:        g.nextItemID,
				OrderID:   d.id,
				ProductID: p.ID,
				Quantity:  g.faker.IntRange(minQuantity, maxQuantity),
				ItemPrice: p.Price,
			}
			g.nextItemID++

			total = models.AddLine(total, models.LineTotal(it.ItemPrice, it.Quantity))
			items = append(items, it)
		}
		orders = append(orders, d.finalize(total))
	}
	return orders, items
}

func (g *Generator) payments(orders []models.Order) []models.Payment {
	payments := make([]models.Payment, 0, len(orders))
	for _, o := range orders {
		payments = append(payments, models.Payment{
			ID:            g.nextPaymentID,
			OrderID:       o.ID,
			PaymentMethod: g.faker.RandomString(models.PaymentMethods),
			PaymentStatus: g.faker.RandomString(models.PaymentStatuses),
			PaymentDate:   g.between(o.OrderDate, g.now),
		})
		g.nextPaymentID++
	}
	return payments
}

// between draws a millisecond-precision instant uniformly from [from, to].
func (g *Generator) between(from, to time.Time) time.Time {
	lo := from.UnixMilli()
	hi := to.UnixMilli()
	if hi <= lo {
		return time.UnixMilli(lo).UTC()
	}
	return time.UnixMilli(int64(g.faker.IntRange(int(lo), int(hi)))).UTC()
}
