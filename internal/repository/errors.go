package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"atelier/internal/domain/errs"
	"atelier/internal/storage/postgresql"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// wrap приводит ошибки PostgreSQL к доменным: нет строки - ErrNotFound,
// уникальный индекс - ErrConflict, внешний ключ - ErrReferential.
func wrap(op string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	case postgresql.IsCode(err, postgresql.UniqueViolation):
		return fmt.Errorf("%s: %w: %s", op, errs.ErrConflict, postgresql.ConstraintMessage(err))
	case postgresql.IsCode(err, postgresql.ForeignKeyViolation):
		return fmt.Errorf("%s: %w: %s", op, errs.ErrReferential, postgresql.ConstraintMessage(err))
	}
	return fmt.Errorf("%s: %w", op, err)
}
