package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"atelier/internal/domain/catalog"
	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
	"atelier/internal/lib/logger/sl"
	"atelier/internal/metrics"
	"atelier/internal/repository"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	FeaturedLimit = 6
	LatestLimit   = 6
)

const (
	keyCategories = "categories"
	keyPublished  = "published"
	keyLatest     = "latest"
	prefixSlug    = "creation:"
)

// CatalogPage - страница публичного каталога.
type CatalogPage struct {
	catalog.Page[models.Creation]
	Window   []catalog.PageItem `json:"window"`
	Counts   map[uuid.UUID]int  `json:"counts"`
	Category *models.Category   `json:"category,omitempty"`
}

type SitemapData struct {
	Categories []models.Category
	Creations  []models.Creation
}

// CatalogService отдаёт публичные данные витрины. Чтения кэшируются
// в памяти, любое изменение в админке сбрасывает кэш через Invalidate.
type CatalogService struct {
	log        *slog.Logger
	categories repository.CategoryRepository
	creations  repository.CreationRepository
	images     repository.ImageRepository
	cache      *cache.Cache
	pageSize   int
}

func NewCatalogService(
	log *slog.Logger,
	categories repository.CategoryRepository,
	creations repository.CreationRepository,
	images repository.ImageRepository,
	ttl time.Duration,
	pageSize int,
) *CatalogService {
	if pageSize < 1 {
		pageSize = catalog.DefaultPageSize
	}

	return &CatalogService{
		log:        log,
		categories: categories,
		creations:  creations,
		images:     images,
		cache:      cache.New(ttl, 2*ttl),
		pageSize:   pageSize,
	}
}

func (s *CatalogService) Invalidate() {
	s.cache.Flush()
	s.log.Debug("catalog cache flushed")
}

// Categories - все категории в порядке вывода.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	const op = "services.CatalogService.Categories"

	list, err := cached(s, keyCategories, func() ([]models.Category, error) {
		return s.categories.ListCategories(ctx)
	})
	if err != nil {
		s.log.Error("failed to load categories", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

func (s *CatalogService) CategoryBySlug(ctx context.Context, slug string) (models.Category, error) {
	const op = "services.CatalogService.CategoryBySlug"

	list, err := s.Categories(ctx)
	if err != nil {
		return models.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, c := range list {
		if c.Slug == slug {
			return c, nil
		}
	}

	return models.Category{}, fmt.Errorf("%s: category %q: %w", op, slug, errs.ErrNotFound)
}

// Creations возвращает страницу опубликованных изделий, при непустом
// categorySlug - только из этой категории. Counts считается по всем
// опубликованным изделиям.
func (s *CatalogService) Creations(ctx context.Context, categorySlug string, page int) (CatalogPage, error) {
	const op = "services.CatalogService.Creations"

	published, err := s.published(ctx)
	if err != nil {
		return CatalogPage{}, fmt.Errorf("%s: %w", op, err)
	}

	var result CatalogPage
	var categoryID *uuid.UUID

	if categorySlug != "" {
		category, err := s.CategoryBySlug(ctx, categorySlug)
		if err != nil {
			return CatalogPage{}, fmt.Errorf("%s: %w", op, err)
		}
		categoryID = &category.ID
		result.Category = &category
	}

	result.Page = catalog.Paginate(catalog.FilterByCategory(published, categoryID), page, s.pageSize)
	result.Window = catalog.PageWindow(result.Page.Page, result.TotalPages)
	result.Counts = catalog.CountByCategory(published)

	return result, nil
}

// Featured - до шести отмеченных изделий, новые первыми.
func (s *CatalogService) Featured(ctx context.Context) ([]models.Creation, error) {
	const op = "services.CatalogService.Featured"

	published, err := s.published(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return catalog.FilterFeatured(published, FeaturedLimit), nil
}

// Latest - последние опубликованные изделия.
func (s *CatalogService) Latest(ctx context.Context) ([]models.Creation, error) {
	const op = "services.CatalogService.Latest"

	list, err := cached(s, keyLatest, func() ([]models.Creation, error) {
		return s.load(ctx, repository.CreationFilter{
			Status:      models.StatusPublished,
			NewestFirst: true,
			Limit:       LatestLimit,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// CreationBySlug отдаёт только опубликованное изделие, черновик не найден.
func (s *CatalogService) CreationBySlug(ctx context.Context, slug string) (models.Creation, error) {
	const op = "services.CatalogService.CreationBySlug"

	c, err := cached(s, prefixSlug+slug, func() (models.Creation, error) {
		c, err := s.creations.GetCreationBySlug(ctx, slug)
		if err != nil {
			return models.Creation{}, err
		}
		if c.Status != models.StatusPublished {
			return models.Creation{}, errs.ErrNotFound
		}

		if c.Images, err = s.images.ListImages(ctx, c.ID); err != nil {
			return models.Creation{}, err
		}

		if c.CategoryID != nil {
			if category, err := s.categories.GetCategoryByID(ctx, *c.CategoryID); err == nil {
				c.Category = &category
			}
		}

		return c, nil
	})
	if err != nil {
		return models.Creation{}, fmt.Errorf("%s: %q: %w", op, slug, err)
	}
	return c, nil
}

func (s *CatalogService) Sitemap(ctx context.Context) (SitemapData, error) {
	const op = "services.CatalogService.Sitemap"

	categories, err := s.Categories(ctx)
	if err != nil {
		return SitemapData{}, fmt.Errorf("%s: %w", op, err)
	}

	published, err := s.published(ctx)
	if err != nil {
		return SitemapData{}, fmt.Errorf("%s: %w", op, err)
	}

	return SitemapData{Categories: categories, Creations: published}, nil
}

func (s *CatalogService) published(ctx context.Context) ([]models.Creation, error) {
	return cached(s, keyPublished, func() ([]models.Creation, error) {
		return s.load(ctx, repository.CreationFilter{Status: models.StatusPublished, NewestFirst: true})
	})
}

// load читает изделия и их изображения двумя запросами.
func (s *CatalogService) load(ctx context.Context, filter repository.CreationFilter) ([]models.Creation, error) {
	list, err := s.creations.ListCreations(ctx, filter)
	if err != nil {
		return nil, err
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
		return nil, err
	}
	for i := range list {
		list[i].Images = images[list[i].ID]
	}

	return list, nil
}

// cached возвращает значение из кэша или загружает и кладёт его туда.
// Ошибки не кэшируются.
func cached[T any](s *CatalogService, key string, load func() (T, error)) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			metrics.CatalogCacheRequests.WithLabelValues("hit").Inc()
			return typed, nil
		}
	}
	metrics.CatalogCacheRequests.WithLabelValues("miss").Inc()

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	s.cache.SetDefault(key, v)
	return v, nil
}
