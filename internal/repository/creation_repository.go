package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
	"atelier/internal/domain/ordering"
	"atelier/internal/storage/postgresql"
)

const creationsTable = "creations"

var creationColumns = []string{
	"id",
	"title",
	"slug",
	"description",
	"category_id",
	"materials",
	"sizes",
	"colors",
	"featured",
	"status",
	"published_at",
	"display_order",
	"created_at",
	"updated_at",
}

// CreationFilter - условия выборки изделий. Нулевое значение - все изделия
// в порядке вывода.
type CreationFilter struct {
	Status       models.Status
	CategoryID   *uuid.UUID
	FeaturedOnly bool
	// NewestFirst сортирует по published_at DESC вместо display_order.
	NewestFirst bool
	Limit  uint64
}

type CreationRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewCreationRepository(db *pgxpool.Pool) *CreationRepo {
	return &CreationRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanCreation(row scanner, c *models.Creation) error {
	var status string

	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Slug,
		&c.Description,
		&c.CategoryID,
		&c.Materials,
		&c.Sizes,
		&c.Colors,
		&c.Featured,
		&status,
		&c.PublishedAt,
		&c.DisplayOrder,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	c.Status = models.Status(status)

	return err
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// SaveCreation создает изделие (без изображений)
func (r *CreationRepo) SaveCreation(ctx context.Context, c models.Creation) (models.Creation, error) {
	const op = "repository.CreationRepo.SaveCreation"

	query, args, err := r.sb.Insert(creationsTable).
		Columns(
			"title",
			"slug",
			"description",
			"category_id",
			"materials",
			"sizes",
			"colors",
			"featured",
			"status",
			"published_at",
			"display_order",
		).
		Values(
			c.Title,
			c.Slug,
			c.Description,
			c.CategoryID,
			nonNil(c.Materials),
			nonNil(c.Sizes),
			nonNil(c.Colors),
			c.Featured,
			string(c.Status),
			c.PublishedAt,
			c.DisplayOrder,
		).
		Suffix("RETURNING " + joinColumns(creationColumns)).
		ToSql()
	if err != nil {
		return models.Creation{}, fmt.Errorf("%s: %w", op, err)
	}

	var saved models.Creation
	if err := scanCreation(postgresql.Conn(ctx, r.db).QueryRow(ctx, query, args...), &saved); err != nil {
		return models.Creation{}, wrap(op, err)
	}

	return saved, nil
}

// UpdateCreation перезаписывает изменяемые поля. display_order меняется только через UpdateCreationOrders.
func (r *CreationRepo) UpdateCreation(ctx context.Context, c models.Creation) (models.Creation, error) {
	const op = "repository.CreationRepo.UpdateCreation"

	query, args, err := r.sb.Update(creationsTable).
		Set("title", c.Title).
		Set("slug", c.Slug).
		Set("description", c.Description).
		Set("category_id", c.CategoryID).
		Set("materials", nonNil(c.Materials)).
		Set("sizes", nonNil(c.Sizes)).
		Set("colors", nonNil(c.Colors)).
		Set("featured", c.Featured).
		Set("status", string(c.Status)).
		Set("published_at", c.PublishedAt).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": c.ID}).
		Suffix("RETURNING " + joinColumns(creationColumns)).
		ToSql()
	if err != nil {
		return models.Creation{}, fmt.Errorf("%s: %w", op, err)
	}

	var saved models.Creation
	if err := scanCreation(postgresql.Conn(ctx, r.db).QueryRow(ctx, query, args...), &saved); err != nil {
		return models.Creation{}, wrap(op, err)
	}

	return saved, nil
}

// DeleteCreation удаляет строку изделия. Изображения удаляются заранее.
func (r *CreationRepo) DeleteCreation(ctx context.Context, id uuid.UUID) error {
	const op = "repository.CreationRepo.DeleteCreation"

	query, args, err := r.sb.Delete(creationsTable).
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

func (r *CreationRepo) GetCreationByID(ctx context.Context, id uuid.UUID) (models.Creation, error) {
	return r.getCreation(ctx, "repository.CreationRepo.GetCreationByID", sq.Eq{"id": id})
}

func (r *CreationRepo) GetCreationBySlug(ctx context.Context, slug string) (models.Creation, error) {
	return r.getCreation(ctx, "repository.CreationRepo.GetCreationBySlug", sq.Eq{"slug": slug})
}

func (r *CreationRepo) getCreation(ctx context.Context, op string, where sq.Eq) (models.Creation, error) {
	query, args, err := r.sb.Select(creationColumns...).
		From(creationsTable).
		Where(where).
		ToSql()
	if err != nil {
		return models.Creation{}, fmt.Errorf("%s: %w", op, err)
	}

	var c models.Creation
	if err := scanCreation(postgresql.Conn(ctx, r.db).QueryRow(ctx, query, args...), &c); err != nil {
		return models.Creation{}, wrap(op, err)
	}

	return c, nil
}

func (r *CreationRepo) ListCreations(ctx context.Context, filter CreationFilter) ([]models.Creation, error) {
	const op = "repository.CreationRepo.ListCreations"

	builder := r.sb.Select(creationColumns...).From(creationsTable)

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.CategoryID != nil {
		builder = builder.Where(sq.Eq{"category_id": *filter.CategoryID})
	}
	if filter.FeaturedOnly {
		builder = builder.Where(sq.Eq{"featured": true})
	}
	if filter.NewestFirst {
		builder = builder.OrderBy("published_at DESC NULLS LAST", "created_at DESC", "id ASC")
	} else {
		builder = builder.OrderBy(ordering.OrderByClause...)
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := postgresql.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	creations := make([]models.Creation, 0)
	for rows.Next() {
		var c models.Creation
		if err := scanCreation(rows, &c); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		creations = append(creations, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return creations, nil
}

func (r *CreationRepo) CreationOrders(ctx context.Context) ([]int, error) {
	return selectOrders(ctx, r.db, r.sb, creationsTable, "repository.CreationRepo.CreationOrders")
}

func (r *CreationRepo) CreationIDs(ctx context.Context) ([]uuid.UUID, error) {
	return selectIDs(ctx, r.db, r.sb, creationsTable, "repository.CreationRepo.CreationIDs")
}

func (r *CreationRepo) CreationSlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return slugExists(ctx, r.db, r.sb, creationsTable, slug, excludeID, "repository.CreationRepo.CreationSlugExists")
}

func (r *CreationRepo) UpdateCreationOrders(ctx context.Context, assignments []ordering.Assignment) error {
	return updateOrders(ctx, r.db, r.sb, creationsTable, assignments, "repository.CreationRepo.UpdateCreationOrders")
}
