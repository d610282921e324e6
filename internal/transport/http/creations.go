package http

import (
	"log/slog"
	"net/http"

	"atelier/internal/transport/http/dto"

	"github.com/labstack/echo/v4"
)

// ListCreations godoc
// @Summary Все изделия, включая черновики
// @Tags admin-creations
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Creation}
// @Security ApiKeyAuth
// @Router /admin/creations [get]
func (r *Routers) ListCreations(c echo.Context) error {
	const op = "http.routers.ListCreations"

	log := r.log.With(slog.String("op", op))

	list, err := r.CreationService.ListCreations(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, list)
}

// GetCreation godoc
// @Summary Изделие по ID
// @Tags admin-creations
// @Produce json
// @Param id path string true "ID изделия" format(uuid)
// @Success 200 {object} response.Response{data=models.Creation}
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/creations/{id} [get]
func (r *Routers) GetCreation(c echo.Context) error {
	const op = "http.routers.GetCreation"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	creation, err := r.CreationService.GetCreation(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, creation)
}

// CreateCreation godoc
// @Summary Создание изделия
// @Description Нужно хотя бы одно изображение. Первое становится главным, если главное не отмечено.
// @Tags admin-creations
// @Accept json
// @Produce json
// @Param request body dto.CreateCreationRequest true "Изделие"
// @Success 201 {object} response.Response{data=WithWarnings}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/creations [post]
func (r *Routers) CreateCreation(c echo.Context) error {
	const op = "http.routers.CreateCreation"

	log := r.log.With(slog.String("op", op))

	var req dto.CreateCreationRequest
	if err := r.bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	res, err := r.CreationService.CreateCreation(c.Request().Context(), req.Input())
	if err != nil {
		return r.fail(c, log, err)
	}

	log.Info("creation created", slog.String("id", res.Creation.ID.String()))

	return success(c, http.StatusCreated, WithWarnings{Item: res.Creation, Warnings: res.Warnings})
}

// UpdateCreation godoc
// @Summary Изменение изделия
// @Description Частичное обновление. images_to_delete удаляются, images с id обновляются, без id добавляются.
// @Tags admin-creations
// @Accept json
// @Produce json
// @Param id path string true "ID изделия" format(uuid)
// @Param request body dto.UpdateCreationRequest true "Изменяемые поля"
// @Success 200 {object} response.Response{data=WithWarnings}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/creations/{id} [put]
func (r *Routers) UpdateCreation(c echo.Context) error {
	const op = "http.routers.UpdateCreation"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.UpdateCreationRequest
	if err := c.Bind(&req); err != nil {
		return r.badRequest(c, log, err)
	}

	res, err := r.CreationService.UpdateCreation(c.Request().Context(), id, req.Patch())
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, WithWarnings{Item: res.Creation, Warnings: res.Warnings})
}

// DeleteCreation godoc
// @Summary Удаление изделия вместе с изображениями
// @Tags admin-creations
// @Produce json
// @Param id path string true "ID изделия" format(uuid)
// @Success 200 {object} response.Response{data=WithWarnings}
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/creations/{id} [delete]
func (r *Routers) DeleteCreation(c echo.Context) error {
	const op = "http.routers.DeleteCreation"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	res, err := r.CreationService.DeleteCreation(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	log.Info("creation deleted", slog.String("id", id.String()), slog.Int("warnings", len(res.Warnings)))

	return success(c, http.StatusOK, WithWarnings{Item: id, Warnings: res.Warnings})
}

// ReorderCreations godoc
// @Summary Порядок изделий
// @Tags admin-creations
// @Accept json
// @Param request body dto.ReorderRequest true "ID в новом порядке"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/creations/order [put]
func (r *Routers) ReorderCreations(c echo.Context) error {
	const op = "http.routers.ReorderCreations"

	log := r.log.With(slog.String("op", op))

	var req dto.ReorderRequest
	if err := r.bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	if err := r.CreationService.ReorderCreations(c.Request().Context(), req.IDs); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AddImage godoc
// @Summary Добавить изображение к изделию
// @Tags admin-images
// @Accept json
// @Produce json
// @Param id path string true "ID изделия" format(uuid)
// @Param request body dto.AddImageRequest true "Изображение"
// @Success 201 {object} response.Response{data=services.ImageResult}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/creations/{id}/images [post]
func (r *Routers) AddImage(c echo.Context) error {
	const op = "http.routers.AddImage"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.AddImageRequest
	if err := r.bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	res, err := r.CreationService.AddImage(c.Request().Context(), id, req.Model())
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusCreated, res)
}

// RemoveImage godoc
// @Summary Удалить изображение
// @Description Последнее изображение удалить нельзя. Если удалено главное, главным становится первое.
// @Tags admin-images
// @Produce json
// @Param id path string true "ID изделия" format(uuid)
// @Param image_id path string true "ID изображения" format(uuid)
// @Success 200 {object} response.Response{data=services.ImageResult}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/creations/{id}/images/{image_id} [delete]
func (r *Routers) RemoveImage(c echo.Context) error {
	const op = "http.routers.RemoveImage"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}
	imageID, err := pathID(c, "image_id")
	if err != nil {
		return r.fail(c, log, err)
	}

	res, err := r.CreationService.RemoveImage(c.Request().Context(), id, imageID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, res)
}

// SetPrimaryImage godoc
// @Summary Сделать изображение главным
// @Tags admin-images
// @Produce json
// @Param id path string true "ID изделия" format(uuid)
// @Param image_id path string true "ID изображения" format(uuid)
// @Success 200 {object} response.Response{data=services.ImageResult}
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/creations/{id}/images/{image_id}/primary [put]
func (r *Routers) SetPrimaryImage(c echo.Context) error {
	const op = "http.routers.SetPrimaryImage"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}
	imageID, err := pathID(c, "image_id")
	if err != nil {
		return r.fail(c, log, err)
	}

	res, err := r.CreationService.SetPrimaryImage(c.Request().Context(), id, imageID)
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, res)
}

// MoveImage godoc
// @Summary Переместить изображение
// @Tags admin-images
// @Accept json
// @Produce json
// @Param id path string true "ID изделия" format(uuid)
// @Param request body dto.MoveImageRequest true "Позиции from/to"
// @Success 200 {object} response.Response{data=services.ImageResult}
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/creations/{id}/images/move [put]
func (r *Routers) MoveImage(c echo.Context) error {
	const op = "http.routers.MoveImage"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.MoveImageRequest
	if err := r.bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	res, err := r.CreationService.MoveImage(c.Request().Context(), id, req.From, req.To)
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, res)
}
