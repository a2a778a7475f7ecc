// Package product provides the repository interface and PostgreSQL implementation for managing products.
package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/aura-store/internal/db"
)

var (
	ErrNotFound = errors.New("product not found")
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

type Query struct {
	Q        string
	Category string
	Limit    int
	Offset   int
}

// Normalize clamps limit and offset to the accepted range.
func (q Query) Normalize() Query {
	if q.Limit <= 0 || q.Limit > MaxLimit {
		q.Limit = DefaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Q = strings.TrimSpace(q.Q)
	q.Category = strings.TrimSpace(q.Category)
	return q
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]*Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db db.DBTX }

func NewPGRepo(pool db.DBTX) *PGRepo { return &PGRepo{db: pool} }

const selectColumns = `id, name, description, price::text, images, category, sub_category, sizes, bestseller, created_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		p     Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Images, &p.Category,
		&p.SubCategory, &p.Sizes, &p.Bestseller, &p.CreatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	p.Price = d
	return &p, nil
}

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO products (id, name, description, price, images, category, sub_category, sizes, bestseller, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW())
		RETURNING created_at
	`, p.ID, p.Name, p.Description, p.Price.String(), p.Images, p.Category, p.SubCategory, p.Sizes, p.Bestseller).
		Scan(&p.CreatedAt)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetMany returns the products found among ids, keyed by id. Missing ids are
// simply absent from the map.
func (r *PGRepo) GetMany(ctx context.Context, ids []string) (map[string]*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+selectColumns+` FROM products WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	q = q.Normalize()
	rows, err := r.db.Query(ctx, `
		SELECT `+selectColumns+`
		FROM products
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%')
		  AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, q.Q, q.Category, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}
