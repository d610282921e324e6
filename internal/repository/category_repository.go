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

const categoriesTable = "categories"

var categoryColumns = []string{
	"id",
	"name",
	"slug",
	"description",
	"image_url",
	"display_order",
	"created_at",
	"updated_at",
}

type CategoryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepo {
	return &CategoryRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanCategory(row scanner, c *models.Category) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.ImageURL,
		&c.DisplayOrder,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

// SaveCategory создает категорию и возвращает сохранённую строку
func (r *CategoryRepo) SaveCategory(ctx context.Context, c models.Category) (models.Category, error) {
	const op = "repository.CategoryRepo.SaveCategory"

	query, args, err := r.sb.Insert(categoriesTable).
		Columns("name", "slug", "description", "image_url", "display_order").
		Values(c.Name, c.Slug, c.Description, c.ImageURL, c.DisplayOrder).
		Suffix("RETURNING " + joinColumns(categoryColumns)).
		ToSql()
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	var saved models.Category
	if err := scanCategory(postgresql.Conn(ctx, r.db).QueryRow(ctx, query, args...), &saved); err != nil {
		return models.Category{}, wrap(op, err)
	}

	return saved, nil
}

func (r *CategoryRepo) UpdateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	const op = "repository.CategoryRepo.UpdateCategory"

	query, args, err := r.sb.Update(categoriesTable).
		Set("name", c.Name).
		Set("slug", c.Slug).
		Set("description", c.Description).
		Set("image_url", c.ImageURL).
		Set("display_order", c.DisplayOrder).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": c.ID}).
		Suffix("RETURNING " + joinColumns(categoryColumns)).
		ToSql()
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	var saved models.Category
	if err := scanCategory(postgresql.Conn(ctx, r.db).QueryRow(ctx, query, args...), &saved); err != nil {
		return models.Category{}, wrap(op, err)
	}

	return saved, nil
}

func (r *CategoryRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	const op = "repository.CategoryRepo.DeleteCategory"

	query, args, err := r.sb.Delete(categoriesTable).
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

func (r *CategoryRepo) GetCategoryByID(ctx context.Context, id uuid.UUID) (models.Category, error) {
	return r.getCategory(ctx, "repository.CategoryRepo.GetCategoryByID", sq.Eq{"id": id})
}

func (r *CategoryRepo) GetCategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	return r.getCategory(ctx, "repository.CategoryRepo.GetCategoryBySlug", sq.Eq{"slug": slug})
}

func (r *CategoryRepo) getCategory(ctx context.Context, op string, where sq.Eq) (models.Category, error) {
	query, args, err := r.sb.Select(categoryColumns...).
		From(categoriesTable).
		Where(where).
		ToSql()
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	var c models.Category
	if err := scanCategory(postgresql.Conn(ctx, r.db).QueryRow(ctx, query, args...), &c); err != nil {
		return models.Category{}, wrap(op, err)
	}

	return c, nil
}

// ListCategories возвращает все категории в порядке вывода
func (r *CategoryRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "repository.CategoryRepo.ListCategories"

	query, args, err := r.sb.Select(categoryColumns...).
		From(categoriesTable).
		OrderBy(ordering.OrderByClause...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := postgresql.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return categories, nil
}

func (r *CategoryRepo) CategoryOrders(ctx context.Context) ([]int, error) {
	return selectOrders(ctx, r.db, r.sb, categoriesTable, "repository.CategoryRepo.CategoryOrders")
}

func (r *CategoryRepo) CategorySlugExists(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	return slugExists(ctx, r.db, r.sb, categoriesTable, slug, excludeID, "repository.CategoryRepo.CategorySlugExists")
}

func (r *CategoryRepo) UpdateCategoryOrders(ctx context.Context, assignments []ordering.Assignment) error {
	return updateOrders(ctx, r.db, r.sb, categoriesTable, assignments, "repository.CategoryRepo.UpdateCategoryOrders")
}

// CountCreations - количество изделий, ссылающихся на категорию
func (r *CategoryRepo) CountCreations(ctx context.Context, categoryID uuid.UUID) (int, error) {
	const op = "repository.CategoryRepo.CountCreations"

	query, args, err := r.sb.Select("COUNT(*)").
		From(creationsTable).
		Where(sq.Eq{"category_id": categoryID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	if err := postgresql.Conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, wrap(op, err)
	}

	return count, nil
}

func (r *CategoryRepo) CategoryIDs(ctx context.Context) ([]uuid.UUID, error) {
	return selectIDs(ctx, r.db, r.sb, categoriesTable, "repository.CategoryRepo.CategoryIDs")
}
