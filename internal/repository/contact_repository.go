package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
	"atelier/internal/storage/postgresql"
)

const contactTable = "contact_submissions"

type ContactRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewContactRepository(db *pgxpool.Pool) *ContactRepo {
	return &ContactRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ContactRepo) SaveSubmission(ctx context.Context, s models.ContactSubmission) (models.ContactSubmission, error) {
	const op = "repository.ContactRepo.SaveSubmission"

	query, args, err := r.sb.Insert(contactTable).
		Columns("name", "email", "subject", "message", "read").
		Values(s.Name, s.Email, s.Subject, s.Message, false).
		Suffix("RETURNING id, created_at, read").
		ToSql()
	if err != nil {
		return models.ContactSubmission{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := postgresql.Conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&s.ID, &s.CreatedAt, &s.Read); err != nil {
		return models.ContactSubmission{}, wrap(op, err)
	}

	return s, nil
}

// ListSubmissions возвращает сообщения, новые первыми
func (r *ContactRepo) ListSubmissions(ctx context.Context) ([]models.ContactSubmission, error) {
	const op = "repository.ContactRepo.ListSubmissions"

	query, args, err := r.sb.Select("id", "name", "email", "subject", "message", "created_at", "read").
		From(contactTable).
		OrderBy("created_at DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := postgresql.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	list := make([]models.ContactSubmission, 0)
	for rows.Next() {
		var s models.ContactSubmission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Subject, &s.Message, &s.CreatedAt, &s.Read); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		list = append(list, s)
	}

	return list, rows.Err()
}

func (r *ContactRepo) MarkSubmissionRead(ctx context.Context, id uuid.UUID) error {
	const op = "repository.ContactRepo.MarkSubmissionRead"

	query, args, err := r.sb.Update(contactTable).
		Set("read", true).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := postgresql.Conn(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}

	return nil
}

func (r *ContactRepo) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	const op = "repository.ContactRepo.DeleteSubmission"

	query, args, err := r.sb.Delete(contactTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := postgresql.Conn(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}

	return nil
}
