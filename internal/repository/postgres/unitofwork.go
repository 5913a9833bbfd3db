package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
	"github.com/FaysilAlshareef/TalabatProject/internal/repository"
	"github.com/FaysilAlshareef/TalabatProject/pkg/database"
	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
)

var commitTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "unit_of_work_commits_total",
		Help: "Unit of work completions by result.",
	},
	[]string{"result"},
)

// stagedChange is one pending write, applied inside the commit transaction.
// It returns the number of rows it affected.
type stagedChange func(ctx context.Context, tx pgx.Tx) (int64, error)

// Store creates units of work against a PostgreSQL pool.
type Store struct {
	db database.DBTX
}

// NewStore creates a Store over the given pool.
func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

// NewUnitOfWork returns a fresh unit of work with an empty change set.
func (s *Store) NewUnitOfWork() repository.UnitOfWork {
	return &UnitOfWork{db: s.db}
}

// UnitOfWork collects staged changes from its repositories and applies them
// in a single transaction. Repository accessors lazily create one repository
// per entity type and reuse it, so all staged changes share the same set.
// A UnitOfWork is not safe for concurrent use.
type UnitOfWork struct {
	db        database.DBTX
	staged    []stagedChange
	completed bool

	products        *ProductRepository
	brands          *Repository[domain.Brand]
	types           *Repository[domain.ProductType]
	deliveryMethods *Repository[domain.DeliveryMethod]
	orders          *Repository[domain.Order]
}

// Products returns the product repository bound to this unit of work.
func (u *UnitOfWork) Products() repository.ProductRepository {
	if u.products == nil {
		u.products = newProductRepository(u)
	}
	return u.products
}

// Brands returns the brand repository bound to this unit of work.
func (u *UnitOfWork) Brands() repository.Repository[domain.Brand] {
	if u.brands == nil {
		u.brands = newRepository(u, brandMapping())
	}
	return u.brands
}

// Types returns the product type repository bound to this unit of work.
func (u *UnitOfWork) Types() repository.Repository[domain.ProductType] {
	if u.types == nil {
		u.types = newRepository(u, typeMapping())
	}
	return u.types
}

// DeliveryMethods returns the delivery method repository bound to this unit
// of work.
func (u *UnitOfWork) DeliveryMethods() repository.Repository[domain.DeliveryMethod] {
	if u.deliveryMethods == nil {
		u.deliveryMethods = newRepository(u, deliveryMethodMapping())
	}
	return u.deliveryMethods
}

// Orders returns the order repository bound to this unit of work.
func (u *UnitOfWork) Orders() repository.Repository[domain.Order] {
	if u.orders == nil {
		u.orders = newRepository(u, orderMapping())
	}
	return u.orders
}

func (u *UnitOfWork) stage(change stagedChange) {
	u.staged = append(u.staged, change)
}

// Complete applies all staged changes in stage order within one transaction
// and returns the total number of affected rows. Any failure rolls the
// transaction back and discards the staged set. Business errors raised by a
// staged change (insufficient stock, missing row) pass through unchanged;
// infrastructure failures surface as persistence errors. A completed unit of
// work refuses further use.
func (u *UnitOfWork) Complete(ctx context.Context) (int64, error) {
	if u.completed {
		return 0, apperrors.InvalidInput("unit of work already completed")
	}
	u.completed = true

	staged := u.staged
	u.staged = nil
	if len(staged) == 0 {
		return 0, nil
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		commitTotal.WithLabelValues("error").Inc()
		return 0, apperrors.Persistence(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	var affected int64
	for _, change := range staged {
		n, err := change(ctx, tx)
		if err != nil {
			commitTotal.WithLabelValues("rollback").Inc()
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				return 0, err
			}
			return 0, apperrors.Persistence(err)
		}
		affected += n
	}

	if err := tx.Commit(ctx); err != nil {
		commitTotal.WithLabelValues("error").Inc()
		return 0, apperrors.Persistence(fmt.Errorf("commit transaction: %w", err))
	}

	commitTotal.WithLabelValues("ok").Inc()
	return affected, nil
}
