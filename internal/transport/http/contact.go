package http

import (
	"log/slog"
	"net/http"

	contact "atelier/internal/services/contact_service"

	"github.com/labstack/echo/v4"
)

// SubmitContact godoc
// @Summary Сообщение через контактную форму
// @Tags contact
// @Accept json
// @Produce json
// @Param request body services.ContactInput true "Сообщение"
// @Success 201 {object} response.Response{data=models.ContactSubmission}
// @Failure 400 {object} response.ErrorResponse
// @Router /api/v1/contact [post]
func (r *Routers) SubmitContact(c echo.Context) error {
	const op = "http.routers.SubmitContact"

	log := r.log.With(slog.String("op", op))

	// проверка полей на стороне сервиса, с сообщениями для посетителя
	var req contact.ContactInput
	if err := c.Bind(&req); err != nil {
		return r.badRequest(c, log, err)
	}

	submission, err := r.ContactService.Submit(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusCreated, submission)
}

// ListMessages godoc
// @Summary Входящие сообщения, новые сверху
// @Tags admin-messages
// @Produce json
// @Success 200 {object} response.Response{data=[]models.ContactSubmission}
// @Security ApiKeyAuth
// @Router /admin/messages [get]
func (r *Routers) ListMessages(c echo.Context) error {
	const op = "http.routers.ListMessages"

	log := r.log.With(slog.String("op", op))

	list, err := r.ContactService.ListSubmissions(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, list)
}

// MarkMessageRead godoc
// @Summary Отметить сообщение прочитанным
// @Tags admin-messages
// @Param id path string true "ID сообщения" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/messages/{id}/read [put]
func (r *Routers) MarkMessageRead(c echo.Context) error {
	const op = "http.routers.MarkMessageRead"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.ContactService.MarkRead(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteMessage godoc
// @Summary Удалить сообщение
// @Tags admin-messages
// @Param id path string true "ID сообщения" format(uuid)
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/messages/{id} [delete]
func (r *Routers) DeleteMessage(c echo.Context) error {
	const op = "http.routers.DeleteMessage"

	log := r.log.With(slog.String("op", op))

	id, err := pathID(c, "id")
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.ContactService.DeleteSubmission(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
