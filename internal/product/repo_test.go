package product

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productColumns = []string{"id", "name", "description", "price", "images", "category", "sub_category", "sizes", "bestseller", "created_at"}

func newMockRepo(t *testing.T) (*PGRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPGRepo(mock), mock
}

func TestPGRepoList_FiltersAndOrdersNewestFirst(t *testing.T) {
	repo, mock := newMockRepo(t)
	newer := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	id1, id2 := uuid.NewString(), uuid.NewString()

	mock.ExpectQuery(`(?s)name ILIKE .* description ILIKE .*category = \$2.*ORDER BY created_at DESC.*LIMIT \$3 OFFSET \$4`).
		WithArgs("shirt", "Men", DefaultLimit, 0).
		WillReturnRows(pgxmock.NewRows(productColumns).
			AddRow(id1, "Shirt B", "", "25.00", []string{"https://img/b.png"}, "Men", "Topwear", []string{"M"}, false, newer).
			AddRow(id2, "Shirt A", "", "19.90", []string{}, "Men", "Topwear", []string{}, true, older))

	got, err := repo.List(context.Background(), Query{Q: " shirt ", Category: "Men", Limit: 0, Offset: -1})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, id1, got[0].ID)
	assert.True(t, got[1].Price.Equal(decimal.RequireFromString("19.90")))
	assert.True(t, got[1].Bestseller)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.NewString()

	mock.ExpectQuery(`FROM products WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoDelete(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.NewString()

	mock.ExpectExec(`DELETE FROM products WHERE id=\$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM products WHERE id=\$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
