package services

import (
	"context"
	"fmt"
	"log/slog"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/imageset"
	"atelier/internal/domain/models"
	"atelier/internal/lib/logger/sl"

	"github.com/google/uuid"
)

// ImageResult - набор изображений изделия после изменения.
type ImageResult struct {
	Images   []models.CreationImage `json:"images"`
	Warnings []string               `json:"warnings,omitempty"`
}

// AddImage добавляет уже загруженный файл в конец набора.
func (s *CreationService) AddImage(ctx context.Context, creationID uuid.UUID, img models.CreationImage) (ImageResult, error) {
	const op = "services.CreationService.AddImage"

	return s.curate(ctx, op, creationID, func(set []models.CreationImage) ([]models.CreationImage, *imageset.Removal, error) {
		if img.URL == "" {
			return nil, nil, errs.NewValidation("url", "required")
		}
		img.ID = uuid.Nil
		img.CreationID = creationID
		return imageset.Add(set, img), nil, nil
	})
}

// RemoveImage удаляет изображение. Если оно было основным, основным
// становится первое из оставшихся.
func (s *CreationService) RemoveImage(ctx context.Context, creationID, imageID uuid.UUID) (ImageResult, error) {
	const op = "services.CreationService.RemoveImage"

	return s.curate(ctx, op, creationID, func(set []models.CreationImage) ([]models.CreationImage, *imageset.Removal, error) {
		idx := imageset.IndexOf(set, imageID)
		if idx < 0 {
			return nil, nil, fmt.Errorf("image %s: %w", imageID, errs.ErrNotFound)
		}
		if len(set) == 1 {
			return nil, nil, errs.NewValidation("images", "at least one image is required")
		}

		out, removal, err := imageset.Remove(set, idx)
		if err != nil {
			return nil, nil, err
		}
		return out, &removal, nil
	})
}

func (s *CreationService) SetPrimaryImage(ctx context.Context, creationID, imageID uuid.UUID) (ImageResult, error) {
	const op = "services.CreationService.SetPrimaryImage"

	return s.curate(ctx, op, creationID, func(set []models.CreationImage) ([]models.CreationImage, *imageset.Removal, error) {
		idx := imageset.IndexOf(set, imageID)
		if idx < 0 {
			return nil, nil, fmt.Errorf("image %s: %w", imageID, errs.ErrNotFound)
		}

		out, err := imageset.SetPrimary(set, idx)
		return out, nil, err
	})
}

// MoveImage переносит изображение с позиции from на позицию to.
func (s *CreationService) MoveImage(ctx context.Context, creationID uuid.UUID, from, to int) (ImageResult, error) {
	const op = "services.CreationService.MoveImage"

	return s.curate(ctx, op, creationID, func(set []models.CreationImage) ([]models.CreationImage, *imageset.Removal, error) {
		out, err := imageset.Move(set, from, to)
		return out, nil, err
	})
}

type curateFunc func(set []models.CreationImage) ([]models.CreationImage, *imageset.Removal, error)

// curate загружает набор изображений, применяет к нему fn и сохраняет
// изменившиеся строки в одной транзакции. Файл удалённого изображения
// удаляется после коммита.
func (s *CreationService) curate(ctx context.Context, op string, creationID uuid.UUID, fn curateFunc) (ImageResult, error) {
	if _, err := s.guard.Require(ctx); err != nil {
		return ImageResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("creation_id", creationID.String()),
	)

	var (
		result  []models.CreationImage
		removal *imageset.Removal
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.creations.GetCreationByID(ctx, creationID); err != nil {
			return err
		}

		before, err := s.images.ListImages(ctx, creationID)
		if err != nil {
			return err
		}

		after, rm, err := fn(imageset.Normalize(before))
		if err != nil {
			return err
		}
		if err := imageset.Check(after); err != nil {
			return err
		}
		removal = rm

		if rm != nil && rm.Persisted() {
			if err := s.images.DeleteImages(ctx, creationID, []uuid.UUID{rm.ImageID}); err != nil {
				return err
			}
		}

		for i := range after {
			if after[i].Persisted() {
				continue
			}
			saved, err := s.images.SaveImage(ctx, after[i])
			if err != nil {
				return err
			}
			after[i] = saved
		}

		if err := s.persistChanges(ctx, before, after); err != nil {
			return err
		}

		result = after
		return nil
	})
	if err != nil {
		log.Error("image operation failed", sl.Err(err))
		return ImageResult{}, fmt.Errorf("%s: %w", op, err)
	}

	var warnings []string
	if removal != nil {
		warnings = s.cleaner.DeleteBlobs(ctx, op, []string{removal.Path})
	}

	s.invalidate()
	log.Info("images updated", slog.Int("count", len(result)))

	return ImageResult{Images: result, Warnings: warnings}, nil
}

// persistChanges обновляет сохранённые изображения, у которых изменились
// порядок, флаг основного или alt. Несохранённые пропускаются.
func (s *CreationService) persistChanges(ctx context.Context, before, after []models.CreationImage) error {
	prev := make(map[uuid.UUID]models.CreationImage, len(before))
	for _, img := range before {
		prev[img.ID] = img
	}

	for _, img := range after {
		old, ok := prev[img.ID]
		if !ok || (old.IsPrimary == img.IsPrimary && old.DisplayOrder == img.DisplayOrder && old.AltText == img.AltText) {
			continue
		}
		if err := s.images.UpdateImage(ctx, img); err != nil {
			return err
		}
	}

	return nil
}
