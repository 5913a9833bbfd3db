package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/FaysilAlshareef/TalabatProject/internal/specification"
	"github.com/FaysilAlshareef/TalabatProject/pkg/database"
	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
)

// Repository is the generic PostgreSQL repository. Reads run immediately
// against the pool through the specification evaluator; Add, Update and
// Remove stage closures on the owning unit of work.
type Repository[T any] struct {
	db   database.DBTX
	uow  *UnitOfWork
	meta Mapping[T]
}

func newRepository[T any](uow *UnitOfWork, meta Mapping[T]) *Repository[T] {
	return &Repository[T]{db: uow.db, uow: uow, meta: meta}
}

// ListBySpec returns all entities matching the specification.
func (r *Repository[T]) ListBySpec(ctx context.Context, query specification.Query) (entities []T, err error) {
	stmt, args, err := BuildSelect(r.meta, query)
	if err != nil {
		return nil, err
	}

	ctx, end := database.TraceQuery(ctx, "list "+r.meta.Name, stmt)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.meta.Name, err)
	}
	defer rows.Close()

	includes := query.Includes()
	entities = make([]T, 0)
	for rows.Next() {
		entity, scanErr := r.meta.Scan(rows, includes)
		if scanErr != nil {
			err = fmt.Errorf("scan %s row: %w", r.meta.Name, scanErr)
			return nil, err
		}
		entities = append(entities, *entity)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		err = fmt.Errorf("iterate %s rows: %w", r.meta.Name, rowsErr)
		return nil, err
	}

	return entities, nil
}

// FirstBySpec returns the first entity matching the specification.
func (r *Repository[T]) FirstBySpec(ctx context.Context, query specification.Query) (*T, error) {
	if query.Page() == nil {
		query = query.Paginate(0, 1)
	}

	entities, err := r.ListBySpec(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, apperrors.NotFound(r.meta.Name, describeFilter(query))
	}
	return &entities[0], nil
}

// CountBySpec returns the number of entities matching the specification's
// filter, ignoring pagination.
func (r *Repository[T]) CountBySpec(ctx context.Context, query specification.Query) (count int64, err error) {
	stmt, args, err := BuildCount(r.meta, query)
	if err != nil {
		return 0, err
	}

	ctx, end := database.TraceQuery(ctx, "count "+r.meta.Name, stmt)
	defer func() { end(err) }()

	if err = r.db.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		err = fmt.Errorf("count %s: %w", r.meta.Name, err)
		return 0, err
	}
	return count, nil
}

// Add stages an insert on the owning unit of work.
func (r *Repository[T]) Add(entity *T) {
	r.uow.stage(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		return r.meta.Insert(ctx, tx, entity)
	})
}

// Update stages a full update on the owning unit of work.
func (r *Repository[T]) Update(entity *T) {
	r.uow.stage(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		affected, err := r.meta.Update(ctx, tx, entity)
		if err != nil {
			return 0, err
		}
		if affected == 0 {
			return 0, apperrors.NotFound(r.meta.Name, strconv.FormatInt(r.meta.ID(entity), 10))
		}
		return affected, nil
	})
}

// Remove stages a delete by id on the owning unit of work.
func (r *Repository[T]) Remove(id int64) {
	r.uow.stage(func(ctx context.Context, tx pgx.Tx) (int64, error) {
		affected, err := r.meta.Delete(ctx, tx, id)
		if err != nil {
			return 0, err
		}
		if affected == 0 {
			return 0, apperrors.NotFound(r.meta.Name, strconv.FormatInt(id, 10))
		}
		return affected, nil
	})
}

// describeFilter renders a specification's conditions for error messages.
func describeFilter(query specification.Query) string {
	conditions := query.Conditions()
	if len(conditions) == 0 {
		return "any"
	}
	parts := make([]string, 0, len(conditions))
	for _, c := range conditions {
		parts = append(parts, fmt.Sprintf("%s %s %v", c.Column, c.Op, c.Value))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
