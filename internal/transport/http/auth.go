package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
	"atelier/internal/lib/logger/sl"
	"atelier/internal/transport/http/dto/request"
	"atelier/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	sessionName       = "session"
	sessionOperatorID = "operator_id"
)

// Login godoc
// @Summary Вход оператора
// @Description Вход по email и паролю. Возвращает пару JWT-токенов и открывает сессию.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Данные для входа"
// @Success 200 {object} response.Response{data=models.TokenPair} "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Неверный формат запроса"
// @Failure 401 {object} response.ErrorResponse "Ошибка аутентификации"
// @Router /api/v1/auth/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest
	if err := r.bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	tokens, operator, err := r.AuthService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrUnauthenticated) {
			log.Warn("login failed", slog.String("email", req.Email))
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}
		return r.fail(c, log, err)
	}

	sess, err := session.Get(sessionName, c)
	if err != nil {
		log.Warn("session unavailable", sl.Err(err))
	} else {
		sess.Values[sessionOperatorID] = operator.ID.String()
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			log.Warn("failed to save session", sl.Err(err))
		}
	}

	log.Info("operator logged in", slog.String("operator_id", operator.ID.String()))

	return success(c, http.StatusOK, tokens)
}

// Refresh godoc
// @Summary Обновление токенов
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh-токен"
// @Success 200 {object} response.Response{data=models.TokenPair}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.RefreshRequest
	if err := r.bind(c, &req); err != nil {
		return r.badRequest(c, log, err)
	}

	tokens, err := r.AuthService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return r.fail(c, log, err)
	}

	return success(c, http.StatusOK, tokens)
}

// Logout godoc
// @Summary Выход оператора
// @Description Отзывает refresh-токен (если передан) и сбрасывает сессию.
// @Tags auth
// @Accept json
// @Param request body request.LogoutRequest false "Refresh-токен"
// @Success 204
// @Router /api/v1/auth/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LogoutRequest
	if err := c.Bind(&req); err != nil {
		return r.badRequest(c, log, err)
	}

	if req.RefreshToken != "" {
		if err := r.AuthService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
			log.Warn("failed to revoke refresh token", sl.Err(err))
		}
	}

	if sess, err := session.Get(sessionName, c); err == nil {
		delete(sess.Values, sessionOperatorID)
		if sess.Options != nil {
			sess.Options.MaxAge = -1
		}
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			log.Warn("failed to clear session", sl.Err(err))
		}
	}

	return c.NoContent(http.StatusNoContent)
}

// RequireOperator пропускает запрос, только если есть действующий оператор:
// Bearer access-токен или сессия после входа. Оператор кладётся в контекст запроса.
func (r *Routers) RequireOperator(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		const op = "http.routers.RequireOperator"

		log := r.log.With(
			slog.String("op", op),
			slog.String("path", c.Path()),
		)

		operator, err := r.operator(c)
		if err != nil {
			if errors.Is(err, errs.ErrUnauthenticated) {
				log.Debug("operator required", sl.Err(err))
				return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
			}
			return r.fail(c, log, err)
		}

		ctx := models.WithOperator(c.Request().Context(), operator)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

func (r *Routers) operator(c echo.Context) (models.Operator, error) {
	ctx := c.Request().Context()

	if header := c.Request().Header.Get(echo.HeaderAuthorization); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return models.Operator{}, errs.ErrUnauthenticated
		}
		return r.AuthService.Authenticate(ctx, token)
	}

	sess, err := session.Get(sessionName, c)
	if err != nil {
		return models.Operator{}, errs.ErrUnauthenticated
	}

	raw, _ := sess.Values[sessionOperatorID].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return models.Operator{}, errs.ErrUnauthenticated
	}

	return r.AuthService.OperatorByID(ctx, id)
}
