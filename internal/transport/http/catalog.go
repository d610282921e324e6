package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"atelier/internal/domain/errs"
	"atelier/internal/lib/logger/sl"
	"atelier/internal/lib/sitemap"

	"github.com/labstack/echo/v4"
)

// PublicCategories godoc
// @Summary Категории витрины
// @Description Все категории в порядке отображения.
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Category}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/categories [get]
func (r *Routers) PublicCategories(c echo.Context) error {
	const op = "http.routers.PublicCategories"

	log := r.log.With(slog.String("op", op))

	list, err := r.CatalogService.Categories(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, list)
}

// PublicCategory godoc
// @Summary Категория по slug
// @Tags catalog
// @Produce json
// @Param slug path string true "Slug категории"
// @Success 200 {object} response.Response{data=models.Category}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/categories/{slug} [get]
func (r *Routers) PublicCategory(c echo.Context) error {
	const op = "http.routers.PublicCategory"

	log := r.log.With(
		slog.String("op", op),
		slog.String("slug", c.Param("slug")),
	)

	category, err := r.CatalogService.CategoryBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, category)
}

// PublicCreations godoc
// @Summary Опубликованные изделия
// @Description Постраничный список опубликованных изделий, опционально по категории.
// @Tags catalog
// @Produce json
// @Param category query string false "Slug категории"
// @Param page query int false "Номер страницы (с 1)"
// @Success 200 {object} response.Response{data=services.CatalogPage}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/creations [get]
func (r *Routers) PublicCreations(c echo.Context) error {
	const op = "http.routers.PublicCreations"

	log := r.log.With(slog.String("op", op))

	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return r.fail(c, log, errs.NewValidation("page", "muss eine Zahl sein"))
		}
		page = n
	}

	result, err := r.CatalogService.Creations(c.Request().Context(), c.QueryParam("category"), page)
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, result)
}

// FeaturedCreations godoc
// @Summary Избранные изделия для главной
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Creation}
// @Router /api/v1/creations/featured [get]
func (r *Routers) FeaturedCreations(c echo.Context) error {
	const op = "http.routers.FeaturedCreations"

	log := r.log.With(slog.String("op", op))

	list, err := r.CatalogService.Featured(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, list)
}

// LatestCreations godoc
// @Summary Последние опубликованные изделия
// @Tags catalog
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Creation}
// @Router /api/v1/creations/latest [get]
func (r *Routers) LatestCreations(c echo.Context) error {
	const op = "http.routers.LatestCreations"

	log := r.log.With(slog.String("op", op))

	list, err := r.CatalogService.Latest(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, list)
}

// PublicCreation godoc
// @Summary Изделие по slug
// @Description Только опубликованные изделия, с изображениями и категорией.
// @Tags catalog
// @Produce json
// @Param slug path string true "Slug изделия"
// @Success 200 {object} response.Response{data=models.Creation}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/creations/{slug} [get]
func (r *Routers) PublicCreation(c echo.Context) error {
	const op = "http.routers.PublicCreation"

	log := r.log.With(
		slog.String("op", op),
		slog.String("slug", c.Param("slug")),
	)

	creation, err := r.CatalogService.CreationBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, creation)
}

// Sitemap godoc
// @Summary sitemap.xml
// @Tags catalog
// @Produce xml
// @Success 200 {string} string
// @Router /sitemap.xml [get]
func (r *Routers) Sitemap(c echo.Context) error {
	const op = "http.routers.Sitemap"

	log := r.log.With(slog.String("op", op))

	data, err := r.CatalogService.Sitemap(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	set := sitemap.Build(r.siteURL, time.Now(), data.Categories, data.Creations)

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationXMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	if _, err := set.WriteTo(c.Response()); err != nil {
		log.Error("failed to write sitemap", sl.Err(err))
	}

	return nil
}

// Health godoc
// @Summary Проверка живости
// @Description Пингует PostgreSQL.
// @Tags system
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	const op = "http.routers.Health"

	if r.db != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := r.db.HealthCheck(ctx); err != nil {
			r.log.Warn("database is not reachable", slog.String("op", op), sl.Err(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
