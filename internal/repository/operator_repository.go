package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"atelier/internal/domain/models"
	"atelier/internal/storage/postgresql"
)

const operatorsTable = "operators"

type OperatorRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewOperatorRepository(db *pgxpool.Pool) *OperatorRepo {
	return &OperatorRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *OperatorRepo) SaveOperator(ctx context.Context, o models.Operator) (uuid.UUID, error) {
	const op = "repository.OperatorRepo.SaveOperator"

	query, args, err := r.sb.Insert(operatorsTable).
		Columns("email", "name", "password").
		Values(strings.ToLower(o.Email), o.Name, o.PasswordHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err := postgresql.Conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, wrap(op, err)
	}

	return id, nil
}

func (r *OperatorRepo) OperatorByEmail(ctx context.Context, email string) (models.Operator, error) {
	return r.getOperator(ctx, "repository.OperatorRepo.OperatorByEmail", sq.Expr("lower(email) = ?", strings.ToLower(email)))
}

func (r *OperatorRepo) OperatorByID(ctx context.Context, id uuid.UUID) (models.Operator, error) {
	return r.getOperator(ctx, "repository.OperatorRepo.OperatorByID", sq.Eq{"id": id})
}

func (r *OperatorRepo) getOperator(ctx context.Context, op string, where sq.Sqlizer) (models.Operator, error) {
	query, args, err := r.sb.Select("id", "email", "name", "password", "created_at", "last_login").
		From(operatorsTable).
		Where(where).
		ToSql()
	if err != nil {
		return models.Operator{}, fmt.Errorf("%s: %w", op, err)
	}

	var o models.Operator
	err = postgresql.Conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(
		&o.ID,
		&o.Email,
		&o.Name,
		&o.PasswordHash,
		&o.CreatedAt,
		&o.LastLogin,
	)
	if err != nil {
		return models.Operator{}, wrap(op, err)
	}

	return o, nil
}

func (r *OperatorRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	const op = "repository.OperatorRepo.UpdateLastLogin"

	query, args, err := r.sb.Update(operatorsTable).
		Set("last_login", at).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := postgresql.Conn(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return wrap(op, err)
	}

	return nil
}
