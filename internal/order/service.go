package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/aura-store/internal/product"
)

var (
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrInvalidQuantity = errors.New("item quantity must be greater than zero")
	ErrInvalidStatus   = errors.New("unknown order status")
	ErrUnknownProduct  = errors.New("product not found")
	ErrInvalidSize     = errors.New("size not available for product")
)

// Catalog resolves ordered products to their current catalogue entry.
type Catalog interface {
	GetMany(ctx context.Context, ids []string) (map[string]*product.Product, error)
}

type Service struct {
	repo        Repository
	catalog     Catalog
	deliveryFee decimal.Decimal
}

func NewService(repo Repository, catalog Catalog, deliveryFee decimal.Decimal) *Service {
	return &Service{repo: repo, catalog: catalog, deliveryFee: deliveryFee}
}

// Place prices the request from the catalogue and stores a cash-on-delivery
// order. The caller's cart is cleared in the same transaction.
func (s *Service) Place(ctx context.Context, userID string, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]string, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, it.Product())
		}
		id, ok := product.CanonicalID(it.Product())
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, it.Product())
		}
		ids = append(ids, id)
	}

	found, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	total := decimal.Zero
	items := make([]Item, 0, len(req.Items))
	for i, it := range req.Items {
		p, ok := found[ids[i]]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, ids[i])
		}
		size := strings.TrimSpace(it.Size)
		if !p.HasSize(size) {
			return nil, fmt.Errorf("%w: %s %q", ErrInvalidSize, p.Name, size)
		}
		var image string
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		items = append(items, Item{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Size:      size,
			Quantity:  it.Quantity,
			Image:     image,
		})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	o := &Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Items:         items,
		Amount:        total.Add(s.deliveryFee),
		Address:       req.Address,
		Status:        StatusPlaced,
		PaymentMethod: PaymentCOD,
		Payment:       false,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	log.Info().Str("order_id", o.ID).Str("user_id", userID).Str("amount", o.Amount.String()).Msg("order placed")
	return o, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	canonical, ok := product.CanonicalID(id)
	if !ok {
		return ErrNotFound
	}
	return s.repo.UpdateStatus(ctx, canonical, status)
}
