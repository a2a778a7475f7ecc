package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/aura-store/internal/db"
)

var (
	ErrNotFound = errors.New("order not found")
)

type Repository interface {
	// Create stores the order and empties the owner's cart atomically.
	Create(ctx context.Context, o *Order) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type PGRepo struct{ db db.DBTX }

func NewPGRepo(pool db.DBTX) *PGRepo { return &PGRepo{db: pool} }

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, items, amount, address, status, payment_method, payment, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW(),NOW())
		RETURNING created_at, updated_at
	`, o.ID, o.UserID, o.Items, o.Amount.String(), o.Address, o.Status, o.PaymentMethod, o.Payment).
		Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, o.UserID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const selectColumns = `id, user_id, items, amount::text, address, status, payment_method, payment, created_at, updated_at`

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *PGRepo) ListAll(ctx context.Context) ([]Order, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var (
			o      Order
			amount string
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.Items, &amount, &o.Address, &o.Status,
			&o.PaymentMethod, &o.Payment, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		if o.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
