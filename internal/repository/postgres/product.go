package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
)

// ProductRepository is the generic repository for products plus the guarded
// stock decrement used at checkout.
type ProductRepository struct {
	*Repository[domain.Product]
}

func newProductRepository(uow *UnitOfWork) *ProductRepository {
	return &ProductRepository{Repository: newRepository(uow, productMapping())}
}

// DecrementStock stages an atomic stock decrement guarded against going
// negative. Concurrent checkouts race on the same row; the guard makes the
// database the arbiter, so losers fail their commit instead of overselling.
func (r *ProductRepository) DecrementStock(id int64, quantity int) {
	r.uow.stage(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		if quantity <= 0 {
			return 0, apperrors.InvalidInput(fmt.Sprintf("decrement quantity must be positive, got %d", quantity))
		}

		query := `
			UPDATE products
			SET stock = stock - $1, updated_at = now()
			WHERE id = $2 AND stock >= $1`

		ct, err := tx.Exec(ctx, query, quantity, id)
		if err != nil {
			return 0, fmt.Errorf("decrement stock: %w", err)
		}
		if ct.RowsAffected() > 0 {
			return ct.RowsAffected(), nil
		}

		// Zero rows means the product is gone or the stock cannot cover
		// the quantity. Tell them apart for the caller.
		var exists bool
		err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("check product existence: %w", err)
		}
		if !exists {
			return 0, apperrors.NotFound("product", strconv.FormatInt(id, 10))
		}
		return 0, apperrors.InsufficientStock(strconv.FormatInt(id, 10))
	})
}

// RestoreStock stages the inverse adjustment. Restores never fail on the
// quantity guard; a missing product still aborts the commit.
func (r *ProductRepository) RestoreStock(id int64, quantity int) {
	r.uow.stage(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		if quantity <= 0 {
			return 0, apperrors.InvalidInput(fmt.Sprintf("restore quantity must be positive, got %d", quantity))
		}

		query := `
			UPDATE products
			SET stock = stock + $1, updated_at = now()
			WHERE id = $2`

		ct, err := tx.Exec(ctx, query, quantity, id)
		if err != nil {
			return 0, fmt.Errorf("restore stock: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return 0, apperrors.NotFound("product", strconv.FormatInt(id, 10))
		}
		return ct.RowsAffected(), nil
	})
}
