package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/imageset"
	"atelier/internal/domain/models"
	"atelier/internal/domain/ordering"
	"atelier/internal/lib/logger/sl"
	"atelier/internal/lib/optional"
	"atelier/internal/lib/slug"
	"atelier/internal/repository"

	"github.com/google/uuid"
)

type Authorizer interface {
	Require(ctx context.Context) (models.Operator, error)
}

type Invalidator interface {
	Invalidate()
}

// BlobCleaner удаляет файлы после коммита и возвращает предупреждения
// о тех, что удалить не удалось.
type BlobCleaner interface {
	DeleteBlobs(ctx context.Context, op string, paths []string) []string
}

type CreationInput struct {
	Title       string
	Description string
	CategoryID  *uuid.UUID
	Materials   []string
	Sizes       []string
	Colors      []string
	Featured    bool
	Status      models.Status
	Images      []models.CreationImage
}

// CreationPatch - частичное обновление изделия. Изображения из
// ImagesToDelete удаляются, Images дополняет оставшиеся: с id обновляет,
// без id добавляет. Не упомянутые изображения не меняются.
type CreationPatch struct {
	Title          optional.Field[string]                 `json:"title"`
	Description    optional.Field[string]                 `json:"description"`
	CategoryID     optional.Field[*uuid.UUID]             `json:"category_id"`
	Materials      optional.Field[[]string]               `json:"materials"`
	Sizes          optional.Field[[]string]               `json:"sizes"`
	Colors         optional.Field[[]string]               `json:"colors"`
	Featured       optional.Field[bool]                   `json:"featured"`
	Status         optional.Field[models.Status]          `json:"status"`
	Images         optional.Field[[]models.CreationImage] `json:"images"`
	ImagesToDelete []uuid.UUID                            `json:"images_to_delete"`
}

// WriteResult - итог изменения. Warnings содержит ошибки удаления файлов,
// которые не помешали записи.
type WriteResult struct {
	Creation models.Creation `json:"creation"`
	Warnings []string        `json:"warnings,omitempty"`
}

type CreationService struct {
	log        *slog.Logger
	guard      Authorizer
	tx         repository.Transactor
	creations  repository.CreationRepository
	images     repository.ImageRepository
	categories repository.CategoryRepository
	cleaner    BlobCleaner
	cache      Invalidator
	now        func() time.Time
}

func NewCreationService(
	log *slog.Logger,
	guard Authorizer,
	tx repository.Transactor,
	creations repository.CreationRepository,
	images repository.ImageRepository,
	categories repository.CategoryRepository,
	cleaner BlobCleaner,
	cache Invalidator,
) *CreationService {
	return &CreationService{
		log:        log,
		guard:      guard,
		tx:         tx,
		creations:  creations,
		images:     images,
		categories: categories,
		cleaner:    cleaner,
		cache:      cache,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateCreation сохраняет изделие вместе с изображениями в одной транзакции.
func (s *CreationService) CreateCreation(ctx context.Context, in CreationInput) (WriteResult, error) {
	const op = "services.CreationService.CreateCreation"

	if _, err := s.guard.Require(ctx); err != nil {
		return WriteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", in.Title),
	)

	title := strings.TrimSpace(in.Title)
	status := in.Status
	if status == "" {
		status = models.StatusDraft
	}

	verr := &errs.ValidationError{}
	base := checkTitle(verr, title)
	if !status.Valid() {
		verr.Add("status", "must be draft or published")
	}
	images := withURL(in.Images)
	if len(images) == 0 {
		verr.Add("images", "at least one image is required")
	}
	if verr.HasErrors() {
		return WriteResult{}, fmt.Errorf("%s: %w", op, verr)
	}

	var created models.Creation
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkCategory(ctx, in.CategoryID); err != nil {
			return err
		}

		free, err := s.freeSlug(ctx, base, uuid.Nil)
		if err != nil {
			return err
		}

		orders, err := s.creations.CreationOrders(ctx)
		if err != nil {
			return err
		}

		c := models.Creation{
			Title:        title,
			Slug:         free,
			Description:  strings.TrimSpace(in.Description),
			CategoryID:   in.CategoryID,
			Materials:    cleanTags(in.Materials),
			Sizes:        cleanTags(in.Sizes),
			Colors:       cleanTags(in.Colors),
			Featured:     in.Featured,
			Status:       status,
			DisplayOrder: ordering.NextForAppend(orders),
		}
		if status == models.StatusPublished {
			now := s.now()
			c.PublishedAt = &now
		}

		created, err = s.creations.SaveCreation(ctx, c)
		if err != nil {
			return err
		}

		created.Images, err = s.insertImages(ctx, created.ID, imageset.Normalize(images))
		return err
	})
	if err != nil {
		log.Error("failed to create creation", sl.Err(err))
		return WriteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate()
	log.Info("creation created",
		slog.String("id", created.ID.String()),
		slog.String("slug", created.Slug),
		slog.Int("images", len(created.Images)),
	)

	return WriteResult{Creation: created}, nil
}

// UpdateCreation применяет переданные поля. published_at выставляется
// только при первой публикации и больше не меняется.
func (s *CreationService) UpdateCreation(ctx context.Context, id uuid.UUID, patch CreationPatch) (WriteResult, error) {
	const op = "services.CreationService.UpdateCreation"

	if _, err := s.guard.Require(ctx); err != nil {
		return WriteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	verr := &errs.ValidationError{}
	var base string
	if patch.Title.Set {
		base = checkTitle(verr, strings.TrimSpace(patch.Title.Value))
	}
	if patch.Status.Set && !patch.Status.Value.Valid() {
		verr.Add("status", "must be draft or published")
	}
	for _, img := range patch.Images.Value {
		if !img.Persisted() && strings.TrimSpace(img.URL) == "" {
			verr.Add("images", "image url is required")
			break
		}
	}
	if verr.HasErrors() {
		return WriteResult{}, fmt.Errorf("%s: %w", op, verr)
	}

	var (
		updated models.Creation
		orphans []string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.creations.GetCreationByID(ctx, id)
		if err != nil {
			return err
		}

		next := current
		if patch.Title.Set {
			title := strings.TrimSpace(patch.Title.Value)
			if title != current.Title {
				if next.Slug, err = s.freeSlug(ctx, base, id); err != nil {
					return err
				}
			}
			next.Title = title
		}
		if patch.CategoryID.Set {
			if err := s.checkCategory(ctx, patch.CategoryID.Value); err != nil {
				return err
			}
			next.CategoryID = patch.CategoryID.Value
		}
		next.Description = strings.TrimSpace(patch.Description.Get(current.Description))
		next.Materials = cleanTags(patch.Materials.Get(current.Materials))
		next.Sizes = cleanTags(patch.Sizes.Get(current.Sizes))
		next.Colors = cleanTags(patch.Colors.Get(current.Colors))
		next.Featured = patch.Featured.Get(current.Featured)
		next.Status = patch.Status.Get(current.Status)

		if next.Status == models.StatusPublished && current.PublishedAt == nil {
			now := s.now()
			next.PublishedAt = &now
		}

		updated, err = s.creations.UpdateCreation(ctx, next)
		if err != nil {
			return err
		}

		existing, err := s.images.ListImages(ctx, id)
		if err != nil {
			return err
		}

		updated.Images, orphans, err = s.syncImages(ctx, id, existing, patch)
		return err
	})
	if err != nil {
		log.Error("failed to update creation", sl.Err(err))
		return WriteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	warnings := s.cleaner.DeleteBlobs(ctx, op, orphans)

	s.invalidate()
	log.Info("creation updated",
		slog.String("slug", updated.Slug),
		slog.String("status", string(updated.Status)),
		slog.Int("warnings", len(warnings)),
	)

	return WriteResult{Creation: updated, Warnings: warnings}, nil
}

// syncImages удаляет imagesToDelete, затем накладывает Images на
// оставшийся набор: изображения с id обновляются на месте, без id
// добавляются. Возвращает итоговый набор и пути файлов удалённых изображений.
func (s *CreationService) syncImages(
	ctx context.Context,
	creationID uuid.UUID,
	existing []models.CreationImage,
	patch CreationPatch,
) ([]models.CreationImage, []string, error) {
	drop := make(map[uuid.UUID]struct{}, len(patch.ImagesToDelete))
	for _, imgID := range patch.ImagesToDelete {
		if imageset.IndexOf(existing, imgID) < 0 {
			return nil, nil, fmt.Errorf("image %s: %w", imgID, errs.ErrNotFound)
		}
		drop[imgID] = struct{}{}
	}

	var (
		dropIDs []uuid.UUID
		orphans []string
		rest    []models.CreationImage
	)
	for _, img := range existing {
		if _, ok := drop[img.ID]; ok {
			dropIDs = append(dropIDs, img.ID)
			orphans = append(orphans, img.BlobPath())
			continue
		}
		rest = append(rest, img)
	}

	merged, err := upsertImages(creationID, rest, patch.Images.Value, drop)
	if err != nil {
		return nil, nil, err
	}
	if len(merged) == 0 {
		return nil, nil, errs.NewValidation("images", "at least one image is required")
	}

	if len(dropIDs) > 0 {
		if err := s.images.DeleteImages(ctx, creationID, dropIDs); err != nil {
			return nil, nil, err
		}
	}

	final := imageset.Normalize(merged)
	if err := imageset.Check(final); err != nil {
		return nil, nil, err
	}

	if err := s.persistChanges(ctx, existing, final); err != nil {
		return nil, nil, err
	}
	for i := range final {
		if final[i].Persisted() {
			continue
		}
		saved, err := s.images.SaveImage(ctx, final[i])
		if err != nil {
			return nil, nil, err
		}
		final[i] = saved
	}

	return final, orphans, nil
}

// upsertImages накладывает присланные изображения на сохранённые.
// У сохранённого изображения меняются только alt, флаг основного и позиция,
// url и файл остаются прежними. Если основным отмечено присланное
// изображение, флаг с остальных снимается.
func upsertImages(
	creationID uuid.UUID,
	rest []models.CreationImage,
	incoming []models.CreationImage,
	drop map[uuid.UUID]struct{},
) ([]models.CreationImage, error) {
	merged := make([]models.CreationImage, len(rest), len(rest)+len(incoming))
	copy(merged, rest)

	for _, img := range incoming {
		if img.IsPrimary {
			for i := range merged {
				merged[i].IsPrimary = false
			}
			break
		}
	}

	for _, img := range incoming {
		if !img.Persisted() {
			img.CreationID = creationID
			img.URL = strings.TrimSpace(img.URL)
			merged = append(merged, img)
			continue
		}

		if _, ok := drop[img.ID]; ok {
			return nil, errs.NewValidation("images", "image "+img.ID.String()+" is both kept and deleted")
		}
		i := imageset.IndexOf(merged, img.ID)
		if i < 0 {
			return nil, fmt.Errorf("image %s: %w", img.ID, errs.ErrNotFound)
		}
		if url := strings.TrimSpace(img.URL); url != "" && url != merged[i].URL {
			return nil, errs.NewValidation("images", "url of stored image "+img.ID.String()+" cannot change")
		}

		merged[i].AltText = img.AltText
		merged[i].IsPrimary = img.IsPrimary
		merged[i].DisplayOrder = img.DisplayOrder
	}

	return merged, nil
}

// DeleteCreation удаляет изделие и его изображения. Файлы удаляются после
// коммита, ошибки удаления возвращаются как предупреждения.
func (s *CreationService) DeleteCreation(ctx context.Context, id uuid.UUID) (WriteResult, error) {
	const op = "services.CreationService.DeleteCreation"

	if _, err := s.guard.Require(ctx); err != nil {
		return WriteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	var (
		deleted models.Creation
		paths   []string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = s.creations.GetCreationByID(ctx, id)
		if err != nil {
			return err
		}

		images, err := s.images.ListImages(ctx, id)
		if err != nil {
			return err
		}
		for _, img := range images {
			paths = append(paths, img.BlobPath())
		}

		if err := s.images.DeleteImagesByCreation(ctx, id); err != nil {
			return err
		}

		return s.creations.DeleteCreation(ctx, id)
	})
	if err != nil {
		log.Error("failed to delete creation", sl.Err(err))
		return WriteResult{}, fmt.Errorf("%s: %w", op, err)
	}

	warnings := s.cleaner.DeleteBlobs(ctx, op, paths)

	s.invalidate()
	log.Info("creation deleted", slog.Int("blobs", len(paths)), slog.Int("warnings", len(warnings)))

	return WriteResult{Creation: deleted, Warnings: warnings}, nil
}

func (s *CreationService) ReorderCreations(ctx context.Context, ids []uuid.UUID) error {
	const op = "services.CreationService.ReorderCreations"

	if _, err := s.guard.Require(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.Int("count", len(ids)),
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.creations.CreationIDs(ctx)
		if err != nil {
			return err
		}
		if err := ordering.ValidatePermutation(ids, existing); err != nil {
			return err
		}

		return s.creations.UpdateCreationOrders(ctx, ordering.Assign(ids))
	})
	if err != nil {
		log.Error("failed to reorder creations", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate()
	log.Info("creations reordered")

	return nil
}

// GetCreation возвращает изделие с изображениями и категорией.
func (s *CreationService) GetCreation(ctx context.Context, id uuid.UUID) (models.Creation, error) {
	const op = "services.CreationService.GetCreation"

	c, err := s.creations.GetCreationByID(ctx, id)
	if err != nil {
		return models.Creation{}, fmt.Errorf("%s: %w", op, err)
	}

	if c.Images, err = s.images.ListImages(ctx, id); err != nil {
		return models.Creation{}, fmt.Errorf("%s: %w", op, err)
	}

	if c.CategoryID != nil {
		category, err := s.categories.GetCategoryByID(ctx, *c.CategoryID)
		switch {
		case err == nil:
			c.Category = &category
		case !errors.Is(err, errs.ErrNotFound):
			return models.Creation{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	return c, nil
}

// ListCreations - список для админки: все статусы, порядок вывода.
func (s *CreationService) ListCreations(ctx context.Context) ([]models.Creation, error) {
	const op = "services.CreationService.ListCreations"

	list, err := s.creations.ListCreations(ctx, repository.CreationFilter{})
	if err != nil {
		s.log.Error("failed to list creations", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(list) == 0 {
		return list, nil
	}

	ids := make([]uuid.UUID, len(list))
	for i := range list {
		ids[i] = list[i].ID
	}

	images, err := s.images.ListImagesFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range list {
		list[i].Images = images[list[i].ID]
	}

	return list, nil
}

func (s *CreationService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}

	_, err := s.categories.GetCategoryByID(ctx, *id)
	if errors.Is(err, errs.ErrNotFound) {
		return errs.NewValidation("category_id", "unknown category")
	}
	return err
}

func (s *CreationService) freeSlug(ctx context.Context, base string, exclude uuid.UUID) (string, error) {
	free, err := slug.Unique(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
		return s.creations.CreationSlugExists(ctx, candidate, exclude)
	})
	if errors.Is(err, slug.ErrExhausted) {
		return "", fmt.Errorf("%w: %w", errs.ErrConflict, err)
	}
	return free, err
}

func (s *CreationService) insertImages(ctx context.Context, creationID uuid.UUID, set []models.CreationImage) ([]models.CreationImage, error) {
	out := make([]models.CreationImage, 0, len(set))
	for _, img := range set {
		img.ID = uuid.Nil
		img.CreationID = creationID

		saved, err := s.images.SaveImage(ctx, img)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, nil
}

func (s *CreationService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func checkTitle(verr *errs.ValidationError, title string) string {
	if title == "" {
		verr.Add("title", "required")
		return ""
	}

	base := slug.Make(title)
	if base == "" {
		verr.Add("title", "must contain letters or digits")
	}
	return base
}

func withURL(images []models.CreationImage) []models.CreationImage {
	out := make([]models.CreationImage, 0, len(images))
	for _, img := range images {
		img.URL = strings.TrimSpace(img.URL)
		if img.URL != "" {
			out = append(out, img)
		}
	}
	return out
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ParseTags разбирает строку "Wolle, Baumwolle ,," в ["Wolle", "Baumwolle"].
func ParseTags(raw string) []string {
	return cleanTags(strings.Split(raw, ","))
}
