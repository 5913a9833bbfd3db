// Package repository defines the persistence interfaces consumed by the
// service layer. Reads are expressed as specifications; writes are staged on
// a unit of work and committed atomically.
package repository

import (
	"context"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
	"github.com/FaysilAlshareef/TalabatProject/internal/specification"
)

// Repository is a generic read/write repository over one entity type.
// Reads execute immediately; Add, Update and Remove stage changes on the
// owning unit of work and take effect only when it completes.
type Repository[T any] interface {
	// ListBySpec returns all entities matching the specification.
	ListBySpec(ctx context.Context, query specification.Query) ([]T, error)

	// FirstBySpec returns the first entity matching the specification,
	// or a not-found error when nothing matches.
	FirstBySpec(ctx context.Context, query specification.Query) (*T, error)

	// CountBySpec returns the number of entities matching the
	// specification's filter, ignoring any pagination window.
	CountBySpec(ctx context.Context, query specification.Query) (int64, error)

	// Add stages an insert. The entity's ID is populated on commit.
	Add(entity *T)

	// Update stages a full update of an existing entity.
	Update(entity *T)

	// Remove stages a delete by id.
	Remove(id int64)
}

// ProductRepository extends Repository with a guarded stock decrement.
type ProductRepository interface {
	Repository[domain.Product]

	// DecrementStock stages an atomic, guarded stock decrement. The commit
	// fails with an insufficient-stock error if the product's stock cannot
	// cover the quantity at that moment.
	DecrementStock(id int64, quantity int)

	// RestoreStock stages the inverse adjustment, used when a checkout
	// retry replaces an order whose stock was already taken.
	RestoreStock(id int64, quantity int)
}

// UnitOfWork coordinates a set of repositories sharing one pending change
// set. Accessors return the same repository instance on repeated calls. A
// unit of work is not safe for concurrent use and cannot be completed twice.
type UnitOfWork interface {
	Products() ProductRepository
	Brands() Repository[domain.Brand]
	Types() Repository[domain.ProductType]
	DeliveryMethods() Repository[domain.DeliveryMethod]
	Orders() Repository[domain.Order]

	// Complete applies all staged changes in a single transaction, in the
	// order they were staged, and returns the total number of affected
	// rows. On any failure the transaction is rolled back, the staged set
	// is discarded, and the error is returned.
	Complete(ctx context.Context) (int64, error)
}

// Store creates units of work against the backing database.
type Store interface {
	NewUnitOfWork() UnitOfWork
}

// CartStore is the cache-backed basket store. Carts expire on their own;
// an absent or expired cart surfaces as a not-found error.
type CartStore interface {
	// Get retrieves the cart with the given id.
	Get(ctx context.Context, id string) (*domain.Cart, error)

	// Put stores the cart, overwriting any previous value and refreshing
	// its expiry.
	Put(ctx context.Context, cart *domain.Cart) (*domain.Cart, error)

	// Delete removes the cart and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}
