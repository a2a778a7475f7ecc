// Package cart stores per-user cart lines keyed by product and size.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/MikeMC777/aura-store/internal/db"
)

var ErrInvalidQuantity = errors.New("quantity must not be negative")

// Data maps product id to size to quantity.
type Data map[string]map[string]int

func (d Data) Set(productID, size string, qty int) {
	if qty <= 0 {
		if sizes, ok := d[productID]; ok {
			delete(sizes, size)
			if len(sizes) == 0 {
				delete(d, productID)
			}
		}
		return
	}
	sizes, ok := d[productID]
	if !ok {
		sizes = map[string]int{}
		d[productID] = sizes
	}
	sizes[size] = qty
}

// Count is the total number of units in the cart.
func (d Data) Count() int {
	n := 0
	for _, sizes := range d {
		for _, q := range sizes {
			n += q
		}
	}
	return n
}

type Repository interface {
	Get(ctx context.Context, userID string) (Data, error)
	Add(ctx context.Context, userID, productID, size string) error
	SetQuantity(ctx context.Context, userID, productID, size string, qty int) error
}

type PGRepo struct{ db db.DBTX }

func NewPGRepo(pool db.DBTX) *PGRepo { return &PGRepo{db: pool} }

func (r *PGRepo) Get(ctx context.Context, userID string) (Data, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT product_id, size, quantity
		FROM cart_items WHERE user_id=$1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := Data{}
	for rows.Next() {
		var (
			productID, size string
			qty             int
		)
		if err := rows.Scan(&productID, &size, &qty); err != nil {
			return nil, err
		}
		out.Set(productID, size, qty)
	}
	return out, rows.Err()
}

func (r *PGRepo) Add(ctx context.Context, userID, productID, size string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, size, quantity)
		VALUES ($1,$2,$3,1)
		ON CONFLICT (user_id, product_id, size)
		DO UPDATE SET quantity = cart_items.quantity + 1
	`, userID, productID, size)
	return err
}

// SetQuantity overwrites a line; zero removes it.
func (r *PGRepo) SetQuantity(ctx context.Context, userID, productID, size string, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if qty == 0 {
		_, err := r.db.Exec(ctx, `
			DELETE FROM cart_items WHERE user_id=$1 AND product_id=$2 AND size=$3
		`, userID, productID, size)
		return err
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, size, quantity)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id, product_id, size)
		DO UPDATE SET quantity = EXCLUDED.quantity
	`, userID, productID, size, qty)
	return err
}
