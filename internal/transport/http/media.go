package http

import (
	"errors"
	"log/slog"
	"net/http"

	"atelier/internal/domain/errs"
	"atelier/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// UploadMedia godoc
// @Summary Загрузка изображений
// @Description Один или несколько файлов в поле file (JPEG, PNG, WebP, до 5 MB каждый).
// @Description При частичном успехе возвращается 207 со списком загруженных файлов.
// @Tags admin-media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Изображение"
// @Success 201 {object} response.Response{data=[]services.Uploaded}
// @Success 207 {object} response.Response{data=[]services.Uploaded}
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/media [post]
func (r *Routers) UploadMedia(c echo.Context) error {
	const op = "http.routers.UploadMedia"

	log := r.log.With(slog.String("op", op))

	form, err := c.MultipartForm()
	if err != nil {
		return r.badRequest(c, log, err)
	}

	files := form.File["file"]
	if len(files) == 0 {
		return r.fail(c, log, errs.NewValidation("file", "Keine Datei hochgeladen"))
	}

	uploaded, err := r.MediaService.UploadBatch(c.Request().Context(), files)
	if err != nil && !errors.Is(err, errs.ErrPartialFailure) {
		return r.fail(c, log, err)
	}

	if err != nil {
		_, body := response.FromError(err)
		log.Warn("upload partially failed", slog.Int("uploaded", len(uploaded)), slog.Int("files", len(files)))
		return c.JSON(http.StatusMultiStatus, response.Response{
			Status:  "partial",
			Data:    uploaded,
			Message: body.Details,
		})
	}

	log.Info("media uploaded", slog.Int("files", len(uploaded)))

	return success(c, http.StatusCreated, uploaded)
}

// DeleteMedia godoc
// @Summary Удаление загруженного файла
// @Description Для файлов, ещё не привязанных к изделию или категории.
// @Tags admin-media
// @Param path query string true "Путь в хранилище"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/media [delete]
func (r *Routers) DeleteMedia(c echo.Context) error {
	const op = "http.routers.DeleteMedia"

	log := r.log.With(
		slog.String("op", op),
		slog.String("path", c.QueryParam("path")),
	)

	path := c.QueryParam("path")
	if path == "" {
		return r.fail(c, log, errs.NewValidation("path", "erforderlich"))
	}

	if err := r.MediaService.Delete(c.Request().Context(), path); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
