package product

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxPrice is the exclusive upper bound of the NUMERIC(12,2) price column.
var MaxPrice = decimal.New(1, 10)

var (
	ErrPriceNotPositive = errors.New("price must be a positive number")
	ErrPricePrecision   = errors.New("price must have at most 2 decimal places")
	ErrPriceTooLarge    = errors.New("price must be below 10000000000")
)

// ValidatePrice checks that p fits the stored column without rounding.
func ValidatePrice(p decimal.Decimal) error {
	switch {
	case !p.IsPositive():
		return ErrPriceNotPositive
	case !p.Equal(p.Round(2)):
		return ErrPricePrecision
	case p.GreaterThanOrEqual(MaxPrice):
		return ErrPriceTooLarge
	}
	return nil
}

// CanonicalID parses any accepted UUID form (upper case, braces, urn) and
// returns the lower-case hyphenated form stored in the database.
func CanonicalID(raw string) (string, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"image"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	Sizes       []string        `json:"sizes"`
	Bestseller  bool            `json:"bestseller"`
	CreatedAt   time.Time       `json:"date"`
}

// HasSize reports whether size is one of the product's sizes. Products without
// sizes accept any size.
func (p *Product) HasSize(size string) bool {
	if len(p.Sizes) == 0 {
		return true
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	Success bool `json:"success" example:"true"`
	// search query applied
	Q        string `json:"q,omitempty"`
	Category string `json:"category,omitempty"`
	// limit applied
	Limit int `json:"limit"`
	// offset applied
	Offset   int       `json:"offset"`
	Products []Product `json:"products"`
}

// IDRequest selects one product.
// swagger:model IDRequest
type IDRequest struct {
	ID string `json:"id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	// ProductID is accepted as an alias of ID.
	ProductID string `json:"productId"`
}

func (r IDRequest) Value() string {
	if r.ID != "" {
		return r.ID
	}
	return r.ProductID
}
