package response

import (
	"errors"
	"net/http"

	"atelier/internal/domain/errs"
)

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Ungültiges Anfrageformat",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status:  "error",
		Error:   "authentication_failed",
		Details: "E-Mail oder Passwort ist falsch",
	}

	ErrAuthenticationRequired = ErrorResponse{
		Status:  "error",
		Error:   "unauthenticated",
		Details: "Nicht authentifiziert",
	}
)

// FromError переводит ошибку сервиса в HTTP-статус и тело ответа.
// Неклассифицированные ошибки отдаются как 500 с исходным сообщением.
func FromError(err error) (int, ErrorResponse) {
	var code int
	var kind string

	switch {
	case errors.Is(err, errs.ErrPartialFailure):
		code, kind = http.StatusMultiStatus, "partial_failure"
	case errors.Is(err, errs.ErrUnauthenticated):
		code, kind = http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, errs.ErrValidation):
		code, kind = http.StatusBadRequest, "validation_failed"
	case errors.Is(err, errs.ErrReferential):
		code, kind = http.StatusConflict, "referenced"
	case errors.Is(err, errs.ErrConflict):
		code, kind = http.StatusConflict, "conflict"
	case errors.Is(err, errs.ErrNotFound):
		code, kind = http.StatusNotFound, "not_found"
	default:
		code, kind = http.StatusInternalServerError, "internal_error"
		err = errs.Unexpected(err)
	}

	return code, ErrorResponseWithDetails(kind, errs.Message(err))
}
