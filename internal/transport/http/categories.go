package http

import (
	"log/slog"
	"net/http"

	"atelier/internal/transport/http/dto"

	"github.com/labstack/echo/v4"
)

// ListCategories godoc
// @Summary Категории (админка)
// @Tags admin-categories
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Category}
// @Failure 401 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/categories [get]
func (r *Routers) ListCategories(c echo.Context) error {
	const op = "http.routers.ListCategories"

	log := r.log.With(slog.String("op", op))

	list, err := r.CategoryService.ListCategories(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, list)
}

// GetCategory godoc
// @Summary Категория по ID
// @Tags admin-categories
// @Produce json
// @Param id path string true "ID категории" format(uuid)
// @Success 200 {object} response.Response{data=models.Category}
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/categories/{id} [get]
func (r *Routers) GetCategory(c echo.Context) error {
	const op = "http.routers.GetCategory"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	category, err := r.CategoryService.GetCategory(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, category)
}

// CreateCategory godoc
// @Summary Создание категории
// @Description Slug строится из названия, категория добавляется в конец списка.
// @Tags admin-categories
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Категория"
// @Success 201 {object} response.Response{data=models.Category}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/categories [post]
func (r *Routers) CreateCategory(c echo.Context) error {
	const op = "http.routers.CreateCategory"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateCategoryRequest
	if err := r.bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	category, err := r.CategoryService.CreateCategory(c.Request().Context(), req.Input())
	if err != nil {
		return r.fail(c, log, err)
	}

	log.Info("category created", slog.String("id", category.ID.String()))

	return success(c, http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Изменение категории
// @Tags admin-categories
// @Accept json
// @Produce json
// @Param id path string true "ID категории" format(uuid)
// @Param request body dto.UpdateCategoryRequest true "Изменяемые поля"
// @Success 200 {object} response.Response{data=models.Category}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/categories/{id} [put]
func (r *Routers) UpdateCategory(c echo.Context) error {
	const op = "http.routers.UpdateCategory"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return r.badRequest(c, log, err)
	}

	category, err := r.CategoryService.UpdateCategory(c.Request().Context(), id, req.Patch())
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Удаление категории
// @Description Категорию, к которой привязаны изделия, удалить нельзя.
// @Tags admin-categories
// @Param id path string true "ID категории" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/categories/{id} [delete]
func (r *Routers) DeleteCategory(c echo.Context) error {
	const op = "http.routers.DeleteCategory"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.CategoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	log.Info("category deleted", slog.String("id", id.String()))

	return c.NoContent(http.StatusNoContent)
}

// ReorderCategories godoc
// @Summary Порядок категорий
// @Description Принимает все ID категорий в новом порядке.
// @Tags admin-categories
// @Accept json
// @Param request body dto.ReorderRequest true "ID в новом порядке"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/categories/order [put]
func (r *Routers) ReorderCategories(c echo.Context) error {
	const op = "http.routers.ReorderCategories"

	log := r.log.With(slog.String("op", op))

	var req dto.ReorderRequest
	if err := r.bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	if err := r.CategoryService.ReorderCategories(c.Request().Context(), req.IDs); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
