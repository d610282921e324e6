package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/ordering"
	"atelier/internal/storage/postgresql"
)

// Общие запросы для таблиц с display_order и slug.

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

func selectOrders(ctx context.Context, db *pgxpool.Pool, sb sq.StatementBuilderType, table, op string) ([]int, error) {
	query, args, err := sb.Select("display_order").From(table).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := postgresql.Conn(ctx, db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	orders := make([]int, 0)
	for rows.Next() {
		var o int
		if err := rows.Scan(&o); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}

	return orders, rows.Err()
}

func selectIDs(ctx context.Context, db *pgxpool.Pool, sb sq.StatementBuilderType, table, op string) ([]uuid.UUID, error) {
	query, args, err := sb.Select("id").From(table).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := postgresql.Conn(ctx, db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func slugExists(ctx context.Context, db *pgxpool.Pool, sb sq.StatementBuilderType, table, slug string, excludeID uuid.UUID, op string) (bool, error) {
	builder := sb.Select("1").
		Prefix("SELECT EXISTS (").
		From(table).
		Where(sq.Eq{"slug": slug}).
		Suffix(")")
	if excludeID != uuid.Nil {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var exists bool
	if err := postgresql.Conn(ctx, db).QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, wrap(op, err)
	}

	return exists, nil
}

func updateOrders(ctx context.Context, db *pgxpool.Pool, sb sq.StatementBuilderType, table string, assignments []ordering.Assignment, op string) error {
	conn := postgresql.Conn(ctx, db)

	for _, a := range assignments {
		query, args, err := sb.Update(table).
			Set("display_order", a.DisplayOrder).
			Where(sq.Eq{"id": a.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		tag, err := conn.Exec(ctx, query, args...)
		if err != nil {
			return wrap(op, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%s: %s: %w", op, a.ID, errs.ErrNotFound)
		}
	}

	return nil
}
