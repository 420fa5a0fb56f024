package gen

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Fixed synthetic calendar. The generator never reads the wall clock.
var (
	signupEpoch    = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	orderDateEpoch = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
)

const (
	DefaultUserCount    = 95
	DefaultProductCount = 32

	signupWindowDays = 640
	orderWindowDays  = 450
)

var (
	firstNames = []string{"Ava", "Ethan", "Maya", "Noah", "Liam", "Zara", "Leo", "Isla", "Aria", "Mila"}
	lastNames  = []string{"Reed", "Patel", "Nguyen", "Garcia", "Chen", "Walker", "Singh", "Kim", "Silva", "Lopez"}
	countries  = []string{"US", "CA", "DE", "IN", "GB", "AU", "BR", "NL", "FR"}

	productCategories = []string{"Electronics", "Home", "Outdoors", "Apparel", "Beauty"}
	productNames      = map[string][]string{
		"Electronics": {"Smart Speaker", "Noise-canceling Headphones", "Drone Mini"},
		"Home":        {"Air Purifier", "Smart Thermostat", "Espresso Maker"},
		"Outdoors":    {"Trail Backpack", "Compact Tent", "Thermal Bottle"},
		"Apparel":     {"Performance Hoodie", "Trail Shoes", "Travel Jacket"},
		"Beauty":      {"Serum Duo", "Hydration Kit", "Vegan Cleanser"},
	}
	variantSuffixes = []string{"Plus", "Mini", "XL"}

	shippingMethods = []string{"standard", "express", "priority"}
	paymentMethods  = []string{"card", "ach", "paypal", "wallet"}
	paymentStatuses = []string{"succeeded", "failed", "refunded"}

	segmentChoice     = newWeightedChoice([]string{"consumer", "business", "vip"}, []float64{0.7, 0.2, 0.1})
	orderStatusChoice = newWeightedChoice([]string{"processing", "completed", "cancelled"}, []float64{0.2, 0.7, 0.1})
)

// Generator produces the five entity collections from a single seeded rand
// source. Every draw goes through g.rng; there is no other randomness.
type Generator struct {
	rng *rand.Rand
}

func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Build runs a full generation pass: users, products, then orders with
// their items and payments.
func Build(seed int64, userCount, productCount int) (*Collections, error) {
	g := New(seed)

	users := g.Users(userCount)
	products := g.Products(productCount)

	orders, items, payments, err := g.Orders(users, products)
	if err != nil {
		return nil, err
	}

	return &Collections{
		Users:      users,
		Products:   products,
		Orders:     orders,
		OrderItems: items,
		Payments:   payments,
	}, nil
}

func entityID(prefix string, idx int) string {
	return fmt.Sprintf("%s-%05d", prefix, idx)
}

func (g *Generator) Users(count int) []User {
	users := make([]User, 0, count)
	for idx := 1; idx <= count; idx++ {
		first := pick(g.rng, firstNames)
		last := pick(g.rng, lastNames)
		users = append(users, User{
			ID:           entityID("USR", idx),
			FirstName:    first,
			LastName:     last,
			Email:        fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), idx),
			Country:      pick(g.rng, countries),
			SignupDate:   signupEpoch.AddDate(0, 0, g.intn(0, signupWindowDays)),
			Segment:      segmentChoice.pick(g.rng),
			IsActive:     g.rng.Float64() > 0.1,
			LoyaltyScore: g.intn(100, 980),
		})
	}
	return users
}

func (g *Generator) Products(targetCount int) []Product {
	products := make([]Product, 0, targetCount)
	idx := 1
	for _, category := range productCategories {
		for _, name := range productNames[category] {
			products = append(products, Product{
				ID:             entityID("PRD", idx),
				Name:           name,
				Category:       category,
				Price:          round2(g.uniform(25, 480)),
				Currency:       "USD",
				InventoryCount: g.intn(20, 500),
				IsActive:       g.rng.Float64() > 0.05,
			})
			idx++
		}
	}

	// Synthesize variants from the base catalog until the target is hit.
	for len(products) < targetCount {
		base := products[g.rng.Intn(len(products))]
		price := math.Max(12.0, base.Price*g.uniform(0.8, 1.25))
		products = append(products, Product{
			ID:             entityID("PRD", len(products)+1),
			Name:           base.Name + " " + pick(g.rng, variantSuffixes),
			Category:       base.Category,
			Price:          round2(price),
			Currency:       "USD",
			InventoryCount: g.intn(15, 420),
			IsActive:       true,
		})
	}

	return products[:targetCount]
}

// Orders generates orders, order items and payments for every user. Each
// item references a generated product and each payment references its
// order, so referential integrity holds by construction.
func (g *Generator) Orders(users []User, products []Product) ([]Order, []OrderItem, []Payment, error) {
	if len(users) == 0 || len(products) == 0 {
		return nil, nil, nil, fmt.Errorf("cannot generate orders: need at least one user and one product (got %d users, %d products)", len(users), len(products))
	}

	var (
		orders   []Order
		items    []OrderItem
		payments []Payment
	)

	orderIdx, itemIdx, paymentIdx := 1, 1, 1
	for _, user := range users {
		maxOrders := 5
		if user.Segment == "vip" {
			maxOrders = 7
		}
		orderCount := g.intn(0, maxOrders)

		for n := 0; n < orderCount; n++ {
			orderDate := orderDateEpoch.AddDate(0, 0, g.intn(0, orderWindowDays))
			order := Order{
				ID:             entityID("ORD", orderIdx),
				UserID:         user.ID,
				OrderDate:      orderDate,
				Status:         orderStatusChoice.pick(g.rng),
				ShippingMethod: pick(g.rng, shippingMethods),
				DiscountAmount: round2(g.uniform(0, 45)),
				Currency:       "USD",
			}

			itemCount := g.intn(1, 4)
			subtotal := 0.0
			for m := 0; m < itemCount; m++ {
				product := products[g.rng.Intn(len(products))]
				quantity := g.intn(1, 3)
				lineTotal := round2(product.Price * float64(quantity))
				items = append(items, OrderItem{
					ID:        entityID("ITM", itemIdx),
					OrderID:   order.ID,
					ProductID: product.ID,
					Quantity:  quantity,
					UnitPrice: product.Price,
					LineTotal: lineTotal,
				})
				subtotal += lineTotal
				itemIdx++
			}

			// Total is computed only after all items exist; the discount is
			// clamped so the total never goes negative.
			order.TotalAmount = round2(math.Max(0, subtotal-order.DiscountAmount))
			orders = append(orders, order)

			payments = append(payments, g.payment(paymentIdx, order))
			paymentIdx++
			orderIdx++
		}
	}

	return orders, items, payments, nil
}

// payment derives the single payment of an order. Non-succeeded payments
// carry a fractional amount on purpose; the report's anomaly detector
// feeds on them.
func (g *Generator) payment(idx int, order Order) Payment {
	status := "succeeded"
	if order.Status == "cancelled" || g.rng.Float64() <= 0.08 {
		status = pick(g.rng, paymentStatuses)
	}

	amount := order.TotalAmount
	if status != "succeeded" {
		amount = round2(order.TotalAmount * g.uniform(0.1, 0.9))
	}

	return Payment{
		ID:                   entityID("PAY", idx),
		OrderID:              order.ID,
		PaymentDate:          order.OrderDate.AddDate(0, 0, g.intn(0, 5)),
		Amount:               amount,
		Status:               status,
		Method:               pick(g.rng, paymentMethods),
		TransactionReference: fmt.Sprintf("TXN%d", g.intn(100000, 999999)),
	}
}

// intn draws an integer uniformly from [lo, hi] inclusive.
func (g *Generator) intn(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
