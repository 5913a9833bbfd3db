package postgres

import (
	"fmt"
	"strings"

	"github.com/FaysilAlshareef/TalabatProject/internal/specification"
	"github.com/FaysilAlshareef/TalabatProject/pkg/errors"
)

// BuildSelect turns a specification into a SELECT statement with positional
// arguments. Conditions are ANDed in the order they were added; includes
// contribute their joins and columns in request order; any ordering gets the
// primary key as a secondary sort so pagination is deterministic.
func BuildSelect[T any](m Mapping[T], query specification.Query) (string, []any, error) {
	if err := query.Validate(); err != nil {
		return "", nil, err
	}

	columns := make([]string, 0, len(m.Columns))
	columns = append(columns, m.Columns...)

	var joins []string
	for _, name := range query.Includes() {
		rel, ok := m.Relations[name]
		if !ok {
			return "", nil, errors.InvalidInput(fmt.Sprintf("unknown relation %q for %s", name, m.Name))
		}
		if rel.Join != "" {
			joins = append(joins, rel.Join)
		}
		columns = append(columns, rel.Columns...)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(columns, ", "), m.Table)
	for _, join := range joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}

	whereClause, args, err := buildWhere(m, query, 1)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(whereClause)

	orderClause, err := buildOrder(m, query)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(orderClause)

	if page := query.Page(); page != nil {
		fmt.Fprintf(&sb, " LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, page.Limit, page.Offset)
	}

	return sb.String(), args, nil
}

// BuildCount turns a specification into a count statement honoring only the
// filter conditions. Includes, ordering and pagination are ignored so the
// count always reflects the full filtered set.
func BuildCount[T any](m Mapping[T], query specification.Query) (string, []any, error) {
	if err := query.Validate(); err != nil {
		return "", nil, err
	}

	whereClause, args, err := buildWhere(m, query, 1)
	if err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("SELECT count(*) FROM %s%s", m.Table, whereClause), args, nil
}

func buildWhere[T any](m Mapping[T], query specification.Query, argIndex int) (string, []any, error) {
	specConditions := query.Conditions()
	if len(specConditions) == 0 {
		return "", nil, nil
	}

	var (
		conditions []string
		args       []any
	)
	for _, c := range specConditions {
		column, ok := m.Filterable[c.Column]
		if !ok {
			return "", nil, errors.InvalidInput(fmt.Sprintf("unknown column %q for %s", c.Column, m.Name))
		}

		switch c.Op {
		case specification.OpIn:
			conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", column, argIndex))
		case specification.OpEq, specification.OpNeq, specification.OpGt,
			specification.OpGte, specification.OpLt, specification.OpLte,
			specification.OpLike:
			conditions = append(conditions, fmt.Sprintf("%s %s $%d", column, c.Op, argIndex))
		default:
			return "", nil, errors.InvalidInput(fmt.Sprintf("unknown operator %q", c.Op))
		}
		args = append(args, c.Value)
		argIndex++
	}

	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func buildOrder[T any](m Mapping[T], query specification.Query) (string, error) {
	order := query.Order()
	if order == nil {
		// Paged reads still need a stable order.
		if query.Page() != nil {
			return fmt.Sprintf(" ORDER BY %s ASC", m.IDColumn), nil
		}
		return "", nil
	}

	column, ok := m.Filterable[order.Column]
	if !ok {
		return "", errors.InvalidInput(fmt.Sprintf("unknown column %q for %s", order.Column, m.Name))
	}

	direction := "ASC"
	if order.Descending {
		direction = "DESC"
	}
	if column == m.IDColumn {
		return fmt.Sprintf(" ORDER BY %s %s", column, direction), nil
	}
	return fmt.Sprintf(" ORDER BY %s %s, %s ASC", column, direction, m.IDColumn), nil
}
