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

const imagesTable = "creation_images"

var imageColumns = []string{
	"id",
	"creation_id",
	"url",
	"alt_text",
	"is_primary",
	"display_order",
	"storage_path",
	"created_at",
}

type ImageRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewImageRepository(db *pgxpool.Pool) *ImageRepo {
	return &ImageRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func scanImage(row scanner, img *models.CreationImage) error {
	return row.Scan(
		&img.ID,
		&img.CreationID,
		&img.URL,
		&img.AltText,
		&img.IsPrimary,
		&img.DisplayOrder,
		&img.StoragePath,
		&img.CreatedAt,
	)
}

// ListImages возвращает изображения изделия в порядке вывода
func (r *ImageRepo) ListImages(ctx context.Context, creationID uuid.UUID) ([]models.CreationImage, error) {
	const op = "repository.ImageRepo.ListImages"

	byCreation, err := r.listImages(ctx, op, sq.Eq{"creation_id": creationID})
	if err != nil {
		return nil, err
	}

	images := byCreation[creationID]
	if images == nil {
		images = []models.CreationImage{}
	}

	return images, nil
}

// ListImagesFor загружает изображения нескольких изделий одним запросом
func (r *ImageRepo) ListImagesFor(ctx context.Context, creationIDs []uuid.UUID) (map[uuid.UUID][]models.CreationImage, error) {
	const op = "repository.ImageRepo.ListImagesFor"

	if len(creationIDs) == 0 {
		return map[uuid.UUID][]models.CreationImage{}, nil
	}

	return r.listImages(ctx, op, sq.Eq{"creation_id": creationIDs})
}

func (r *ImageRepo) listImages(ctx context.Context, op string, where sq.Eq) (map[uuid.UUID][]models.CreationImage, error) {
	query, args, err := r.sb.Select(imageColumns...).
		From(imagesTable).
		Where(where).
		OrderBy("creation_id", "display_order ASC", "created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := postgresql.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]models.CreationImage)
	for rows.Next() {
		var img models.CreationImage
		if err := scanImage(rows, &img); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out[img.CreationID] = append(out[img.CreationID], img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (r *ImageRepo) SaveImage(ctx context.Context, img models.CreationImage) (models.CreationImage, error) {
	const op = "repository.ImageRepo.SaveImage"

	query, args, err := r.sb.Insert(imagesTable).
		Columns("creation_id", "url", "alt_text", "is_primary", "display_order", "storage_path").
		Values(img.CreationID, img.URL, img.AltText, img.IsPrimary, img.DisplayOrder, img.StoragePath).
		Suffix("RETURNING " + joinColumns(imageColumns)).
		ToSql()
	if err != nil {
		return models.CreationImage{}, fmt.Errorf("%s: %w", op, err)
	}

	var saved models.CreationImage
	if err := scanImage(postgresql.Conn(ctx, r.db).QueryRow(ctx, query, args...), &saved); err != nil {
		return models.CreationImage{}, wrap(op, err)
	}

	return saved, nil
}

// UpdateImage обновляет alt, флаг основного и позицию существующего изображения.
// url и storage_path после вставки не меняются.
func (r *ImageRepo) UpdateImage(ctx context.Context, img models.CreationImage) error {
	const op = "repository.ImageRepo.UpdateImage"

	query, args, err := r.sb.Update(imagesTable).
		Set("alt_text", img.AltText).
		Set("is_primary", img.IsPrimary).
		Set("display_order", img.DisplayOrder).
		Where(sq.Eq{"id": img.ID, "creation_id": img.CreationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := postgresql.Conn(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %s: %w", op, img.ID, errs.ErrNotFound)
	}

	return nil
}

// DeleteImages удаляет строки изображений изделия. Файлы в хранилище не трогает.
func (r *ImageRepo) DeleteImages(ctx context.Context, creationID uuid.UUID, ids []uuid.UUID) error {
	const op = "repository.ImageRepo.DeleteImages"

	if len(ids) == 0 {
		return nil
	}

	query, args, err := r.sb.Delete(imagesTable).
		Where(sq.Eq{"creation_id": creationID, "id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := postgresql.Conn(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return wrap(op, err)
	}

	return nil
}

func (r *ImageRepo) DeleteImagesByCreation(ctx context.Context, creationID uuid.UUID) error {
	const op = "repository.ImageRepo.DeleteImagesByCreation"

	query, args, err := r.sb.Delete(imagesTable).
		Where(sq.Eq{"creation_id": creationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := postgresql.Conn(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return wrap(op, err)
	}

	return nil
}
