package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Relation describes an optional eager-load a specification can request by
// name. Activating a relation adds its join and select expressions to the
// generated statement; the entity's Scan function picks up the extra columns.
type Relation struct {
	// Join is the full join clause, e.g. "LEFT JOIN brands b ON b.id = p.brand_id".
	// Empty when the relation is loaded through a select expression alone.
	Join string

	// Columns are the select expressions the join contributes.
	Columns []string
}

// Mapping binds an entity type to its table: the columns to select, the
// filterable column names a specification may reference, the relations it
// may include, and the functions that move data between rows and the entity.
type Mapping[T any] struct {
	// Name is the entity name used in error messages, e.g. "product".
	Name string

	// Table is the FROM clause including the alias, e.g. "products p".
	Table string

	// IDColumn is the qualified primary key column, e.g. "p.id".
	IDColumn string

	// Columns is the base select list, qualified with the table alias.
	Columns []string

	// Filterable maps specification column names to qualified SQL columns.
	// Conditions and orderings may only reference these.
	Filterable map[string]string

	// Relations maps include names to their join definitions. Relation
	// order in the select list follows the order includes were requested.
	Relations map[string]Relation

	// ID returns the entity's primary key value.
	ID func(entity *T) int64

	// Scan reads one row into a new entity. includes holds the requested
	// relation names in request order, which is also the order their
	// columns follow the base columns in the row.
	Scan func(rows pgx.Rows, includes []string) (*T, error)

	// Insert writes the entity inside the transaction and populates its
	// generated id. Returns the number of affected rows.
	Insert func(ctx context.Context, tx pgx.Tx, entity *T) (int64, error)

	// Update rewrites the entity's row inside the transaction.
	Update func(ctx context.Context, tx pgx.Tx, entity *T) (int64, error)

	// Delete removes the row with the given id inside the transaction.
	Delete func(ctx context.Context, tx pgx.Tx, id int64) (int64, error)
}
