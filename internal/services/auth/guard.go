package auth

import (
	"context"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
)

// Guard проверяет, что в контексте запроса есть аутентифицированный оператор.
// Сервисы вызывают Require до любого обращения к хранилищу.
type Guard struct{}

func (Guard) Require(ctx context.Context) (models.Operator, error) {
	operator, ok := models.OperatorFromContext(ctx)
	if !ok {
		return models.Operator{}, errs.ErrUnauthenticated
	}
	return operator, nil
}
