package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"atelier/internal/domain/models"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongKind    = errors.New("wrong token kind")
)

type Claims struct {
	OperatorID string `json:"uid"`
	Email      string `json:"email"`
	Kind       string `json:"kind"`
	jwt.RegisteredClaims
}

func NewToken(operator models.Operator, kind, secret string, duration time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		OperatorID: operator.ID.String(),
		Email:      operator.Email,
		Kind:       kind,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti делает refresh-токены уникальными при выдаче в одну секунду
			ID:        uuid.NewString(),
			Subject:   operator.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken проверяет подпись, срок действия и тип токена.
func ParseToken(tokenString, kind, secret string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Kind != kind {
		return nil, ErrWrongKind
	}

	if _, err := uuid.Parse(claims.OperatorID); err != nil {
		return nil, fmt.Errorf("%w: bad uid", ErrInvalidToken)
	}

	return claims, nil
}
