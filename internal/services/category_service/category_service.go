package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
	"atelier/internal/domain/ordering"
	"atelier/internal/lib/logger/sl"
	"atelier/internal/lib/optional"
	"atelier/internal/lib/slug"
	"atelier/internal/repository"

	"github.com/google/uuid"
)

// Authorizer проверяет оператора в контексте до обращения к хранилищу.
type Authorizer interface {
	Require(ctx context.Context) (models.Operator, error)
}

// Invalidator сбрасывает кэш публичного каталога после изменений.
type Invalidator interface {
	Invalidate()
}

// CategoryInput: без DisplayOrder категория встаёт в конец списка.
type CategoryInput struct {
	Name         string
	Description  string
	ImageURL     *string
	DisplayOrder *int
}

type CategoryPatch struct {
	Name         optional.Field[string]  `json:"name"`
	Description  optional.Field[string]  `json:"description"`
	ImageURL     optional.Field[*string] `json:"image_url"`
	DisplayOrder optional.Field[int]     `json:"display_order"`
}

type CategoryService struct {
	log        *slog.Logger
	guard      Authorizer
	tx         repository.Transactor
	categories repository.CategoryRepository
	cache      Invalidator
}

func NewCategoryService(
	log *slog.Logger,
	guard Authorizer,
	tx repository.Transactor,
	categories repository.CategoryRepository,
	cache Invalidator,
) *CategoryService {
	return &CategoryService{
		log:        log,
		guard:      guard,
		tx:         tx,
		categories: categories,
		cache:      cache,
	}
}

// CreateCategory создаёт категорию с заданной позицией или в конце списка.
func (s *CategoryService) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	const op = "services.CategoryService.CreateCategory"

	if _, err := s.guard.Require(ctx); err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("name", in.Name),
	)

	name := strings.TrimSpace(in.Name)
	base, err := categorySlug(name)
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	if in.DisplayOrder != nil {
		if err := checkOrder(*in.DisplayOrder); err != nil {
			return models.Category{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	var created models.Category
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		free, err := s.freeSlug(ctx, base, uuid.Nil)
		if err != nil {
			return err
		}

		order, err := s.createOrder(ctx, in.DisplayOrder)
		if err != nil {
			return err
		}

		created, err = s.categories.SaveCategory(ctx, models.Category{
			Name:         name,
			Slug:         free,
			Description:  strings.TrimSpace(in.Description),
			ImageURL:     in.ImageURL,
			DisplayOrder: order,
		})
		return err
	})
	if err != nil {
		log.Error("failed to create category", sl.Err(err))
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate()
	log.Info("category created", slog.String("id", created.ID.String()), slog.String("slug", created.Slug))

	return created, nil
}

// UpdateCategory применяет только переданные поля. Slug пересчитывается,
// только если изменилось имя.
func (s *CategoryService) UpdateCategory(ctx context.Context, id uuid.UUID, patch CategoryPatch) (models.Category, error) {
	const op = "services.CategoryService.UpdateCategory"

	if _, err := s.guard.Require(ctx); err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	if patch.Name.Set {
		if _, err := categorySlug(strings.TrimSpace(patch.Name.Value)); err != nil {
			return models.Category{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	if patch.DisplayOrder.Set {
		if err := checkOrder(patch.DisplayOrder.Value); err != nil {
			return models.Category{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	var updated models.Category
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.categories.GetCategoryByID(ctx, id)
		if err != nil {
			return err
		}

		next := current
		if patch.Name.Set {
			name := strings.TrimSpace(patch.Name.Value)
			if name != current.Name {
				base, err := categorySlug(name)
				if err != nil {
					return err
				}
				if next.Slug, err = s.freeSlug(ctx, base, id); err != nil {
					return err
				}
			}
			next.Name = name
		}
		next.Description = strings.TrimSpace(patch.Description.Get(current.Description))
		next.ImageURL = patch.ImageURL.Get(current.ImageURL)
		next.DisplayOrder = patch.DisplayOrder.Get(current.DisplayOrder)

		updated, err = s.categories.UpdateCategory(ctx, next)
		return err
	})
	if err != nil {
		log.Error("failed to update category", sl.Err(err))
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate()
	log.Info("category updated", slog.String("slug", updated.Slug))

	return updated, nil
}

// DeleteCategory отказывает, пока на категорию ссылается хотя бы одно изделие.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	const op = "services.CategoryService.DeleteCategory"

	if _, err := s.guard.Require(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.categories.CountCreations(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: category is used by %d creation(s)", errs.ErrReferential, n)
		}

		return s.categories.DeleteCategory(ctx, id)
	})
	if err != nil {
		log.Error("failed to delete category", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate()
	log.Info("category deleted")

	return nil
}

// ReorderCategories выставляет display_order = позиция id в списке.
func (s *CategoryService) ReorderCategories(ctx context.Context, ids []uuid.UUID) error {
	const op = "services.CategoryService.ReorderCategories"

	if _, err := s.guard.Require(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.Int("count", len(ids)),
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.categories.CategoryIDs(ctx)
		if err != nil {
			return err
		}
		if err := ordering.ValidatePermutation(ids, existing); err != nil {
			return err
		}

		return s.categories.UpdateCategoryOrders(ctx, ordering.Assign(ids))
	})
	if err != nil {
		log.Error("failed to reorder categories", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidate()
	log.Info("categories reordered")

	return nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uuid.UUID) (models.Category, error) {
	const op = "services.CategoryService.GetCategory"

	c, err := s.categories.GetCategoryByID(ctx, id)
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "services.CategoryService.ListCategories"

	list, err := s.categories.ListCategories(ctx)
	if err != nil {
		s.log.Error("failed to list categories", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *CategoryService) freeSlug(ctx context.Context, base string, exclude uuid.UUID) (string, error) {
	free, err := slug.Unique(ctx, base, func(ctx context.Context, candidate string) (bool, error) {
		return s.categories.CategorySlugExists(ctx, candidate, exclude)
	})
	if errors.Is(err, slug.ErrExhausted) {
		return "", fmt.Errorf("%w: %w", errs.ErrConflict, err)
	}
	return free, err
}

func (s *CategoryService) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func categorySlug(name string) (string, error) {
	if name == "" {
		return "", errs.NewValidation("name", "required")
	}

	base := slug.Make(name)
	if base == "" {
		return "", errs.NewValidation("name", "must contain letters or digits")
	}

	return base, nil
}

func (s *CategoryService) createOrder(ctx context.Context, explicit *int) (int, error) {
	if explicit != nil {
		return *explicit, nil
	}

	orders, err := s.categories.CategoryOrders(ctx)
	if err != nil {
		return 0, err
	}
	return ordering.NextForAppend(orders), nil
}

func checkOrder(order int) error {
	if order < 0 {
		return errs.NewValidation("display_order", "must not be negative")
	}
	return nil
}
