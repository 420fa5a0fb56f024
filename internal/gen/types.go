package gen

import (
	"strconv"
	"time"
)

const dateFormat = "2006-01-02"

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Country      string
	SignupDate   time.Time
	Segment      string
	IsActive     bool
	LoyaltyScore int
}

type Product struct {
	ID             string
	Name           string
	Category       string
	Price          float64
	Currency       string
	InventoryCount int
	IsActive       bool
}

type Order struct {
	ID             string
	UserID         string
	OrderDate      time.Time
	Status         string
	ShippingMethod string
	DiscountAmount float64
	TotalAmount    float64
	Currency       string
}

type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

type Payment struct {
	ID                   string
	OrderID              string
	PaymentDate          time.Time
	Amount               float64
	Status               string
	Method               string
	TransactionReference string
}

// Collections holds one generation run. Slices are in generation order,
// which is also the insertion order the IDs were assigned in.
type Collections struct {
	Users      []User
	Products   []Product
	Orders     []Order
	OrderItems []OrderItem
	Payments   []Payment
}

func (u User) record() []string {
	return []string{
		u.ID,
		u.FirstName,
		u.LastName,
		u.Email,
		u.Country,
		u.SignupDate.Format(dateFormat),
		u.Segment,
		formatBool(u.IsActive),
		strconv.Itoa(u.LoyaltyScore),
	}
}

func (p Product) record() []string {
	return []string{
		p.ID,
		p.Name,
		p.Category,
		formatMoney(p.Price),
		p.Currency,
		strconv.Itoa(p.InventoryCount),
		formatBool(p.IsActive),
	}
}

func (o Order) record() []string {
	return []string{
		o.ID,
		o.UserID,
		o.OrderDate.Format(dateFormat),
		o.Status,
		o.ShippingMethod,
		formatMoney(o.DiscountAmount),
		formatMoney(o.TotalAmount),
		o.Currency,
	}
}

func (i OrderItem) record() []string {
	return []string{
		i.ID,
		i.OrderID,
		i.ProductID,
		strconv.Itoa(i.Quantity),
		formatMoney(i.UnitPrice),
		formatMoney(i.LineTotal),
	}
}

func (p Payment) record() []string {
	return []string{
		p.ID,
		p.OrderID,
		p.PaymentDate.Format(dateFormat),
		formatMoney(p.Amount),
		p.Status,
		p.Method,
		p.TransactionReference,
	}
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
