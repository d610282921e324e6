package models

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Operator - администратор, которому разрешены изменяющие операции.
type Operator struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Name         string     `db:"name" json:"name"`
	PasswordHash []byte     `db:"password_hash" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
}

type TokenPair struct {
	OperatorID   uuid.UUID `json:"operator_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

type operatorCtxKey struct{}

func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, operatorCtxKey{}, op)
}

func OperatorFromContext(ctx context.Context) (Operator, bool) {
	op, ok := ctx.Value(operatorCtxKey{}).(Operator)
	if !ok || op.ID == uuid.Nil {
		return Operator{}, false
	}
	return op, true
}
