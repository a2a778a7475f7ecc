package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPlaced         = "Order Placed"
	StatusPacking        = "Packing"
	StatusShipped        = "Shipped"
	StatusOutForDelivery = "Out for delivery"
	StatusDelivered      = "Delivered"
)

// Statuses lists every status an admin may set, in fulfilment order.
var Statuses = []string{StatusPlaced, StatusPacking, StatusShipped, StatusOutForDelivery, StatusDelivered}

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

const PaymentCOD = "COD"

type Order struct {
	ID            string          `json:"_id"`
	UserID        string          `json:"userId"`
	Items         []Item          `json:"items"`
	Amount        decimal.Decimal `json:"amount"`
	Address       Address         `json:"address"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	Payment       bool            `json:"payment"`
	CreatedAt     time.Time       `json:"date"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Item is a snapshot of the product at the time the order was placed.
type Item struct {
	ProductID string          `json:"_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

type Address struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"omitempty,email"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}
