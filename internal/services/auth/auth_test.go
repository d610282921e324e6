package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"atelier/internal/domain/errs"
	"atelier/internal/domain/models"
	"atelier/internal/lib/jwt"
	"atelier/internal/lib/logger/handlers/slogdiscard"
	"atelier/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func newTestAuth() (*Auth, *mocks.OperatorRepository, *mocks.TokenRepository) {
	operators := new(mocks.OperatorRepository)
	tokens := new(mocks.TokenRepository)
	a := New(slogdiscard.NewDiscardLogger(), operators, tokens, testSecret, 15*time.Minute, time.Hour)
	return a, operators, tokens
}

func testOperator(t *testing.T, password string) models.Operator {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return models.Operator{ID: uuid.New(), Email: "admin@example.de", Name: "Admin", PasswordHash: hash}
}

func TestAuth_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		a, operators, tokens := newTestAuth()
		operator := testOperator(t, "geheim123")

		operators.On("OperatorByEmail", ctx, operator.Email).Return(operator, nil)
		operators.On("UpdateLastLogin", ctx, operator.ID, mock.AnythingOfType("time.Time")).Return(nil)
		tokens.On("SaveRefreshToken", ctx, operator.ID.String(), mock.AnythingOfType("string"), time.Hour).Return(nil)

		pair, got, err := a.Login(ctx, operator.Email, "geheim123")
		require.NoError(t, err)
		assert.Equal(t, operator.ID, got.ID)
		assert.Equal(t, operator.ID, pair.OperatorID)

		claims, err := jwt.ParseToken(pair.AccessToken, jwt.KindAccess, testSecret)
		require.NoError(t, err)
		assert.Equal(t, operator.ID.String(), claims.OperatorID)

		operators.AssertExpectations(t)
		tokens.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		a, operators, tokens := newTestAuth()
		operator := testOperator(t, "geheim123")

		operators.On("OperatorByEmail", ctx, operator.Email).Return(operator, nil)

		_, _, err := a.Login(ctx, operator.Email, "falsch")
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		tokens.AssertNotCalled(t, "SaveRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown operator", func(t *testing.T) {
		a, operators, _ := newTestAuth()

		operators.On("OperatorByEmail", ctx, "nobody@example.de").Return(models.Operator{}, errs.ErrNotFound)

		_, _, err := a.Login(ctx, "nobody@example.de", "x")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("store error", func(t *testing.T) {
		a, operators, _ := newTestAuth()
		dbErr := errors.New("connection refused")

		operators.On("OperatorByEmail", ctx, "admin@example.de").Return(models.Operator{}, dbErr)

		_, _, err := a.Login(ctx, "admin@example.de", "x")
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, errs.ErrUnauthenticated)
	})
}

func TestAuth_Refresh(t *testing.T) {
	ctx := context.Background()
	operator := testOperator(t, "geheim123")

	t.Run("rotates token", func(t *testing.T) {
		a, operators, tokens := newTestAuth()

		refresh, err := jwt.NewToken(operator, jwt.KindRefresh, testSecret, time.Hour)
		require.NoError(t, err)

		tokens.On("GetRefreshToken", ctx, operator.ID.String(), refresh).Return(true, nil)
		tokens.On("DeleteRefreshToken", ctx, operator.ID.String(), refresh).Return(nil)
		tokens.On("SaveRefreshToken", ctx, operator.ID.String(), mock.AnythingOfType("string"), time.Hour).Return(nil)
		operators.On("OperatorByID", ctx, operator.ID).Return(operator, nil)

		pair, err := a.Refresh(ctx, refresh)
		require.NoError(t, err)
		assert.NotEqual(t, refresh, pair.RefreshToken)
		tokens.AssertExpectations(t)
	})

	t.Run("revoked token", func(t *testing.T) {
		a, _, tokens := newTestAuth()

		refresh, err := jwt.NewToken(operator, jwt.KindRefresh, testSecret, time.Hour)
		require.NoError(t, err)

		tokens.On("GetRefreshToken", ctx, operator.ID.String(), refresh).Return(false, nil)

		_, err = a.Refresh(ctx, refresh)
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		a, _, tokens := newTestAuth()

		access, err := jwt.NewToken(operator, jwt.KindAccess, testSecret, time.Hour)
		require.NoError(t, err)

		_, err = a.Refresh(ctx, access)
		assert.ErrorIs(t, err, ErrInvalidToken)
		tokens.AssertNotCalled(t, "GetRefreshToken", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuth_RegisterOperator(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		a, operators, _ := newTestAuth()
		id := uuid.New()

		operators.On("SaveOperator", ctx, mock.MatchedBy(func(o models.Operator) bool {
			return o.Email == "neu@example.de" && bcrypt.CompareHashAndPassword(o.PasswordHash, []byte("langesPasswort")) == nil
		})).Return(id, nil)

		got, err := a.RegisterOperator(ctx, "neu@example.de", "Neu", "langesPasswort")
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("validation", func(t *testing.T) {
		a, operators, _ := newTestAuth()

		_, err := a.RegisterOperator(ctx, "kein-email", "", "kurz")
		var verr *errs.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "email")
		assert.Contains(t, verr.Fields, "password")
		operators.AssertNotCalled(t, "SaveOperator", mock.Anything, mock.Anything)
	})

	t.Run("duplicate", func(t *testing.T) {
		a, operators, _ := newTestAuth()

		operators.On("SaveOperator", ctx, mock.Anything).Return(uuid.Nil, errs.ErrConflict)

		_, err := a.RegisterOperator(ctx, "neu@example.de", "Neu", "langesPasswort")
		assert.ErrorIs(t, err, ErrOperatorExists)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestAuth_Authenticate(t *testing.T) {
	ctx := context.Background()
	a, operators, _ := newTestAuth()
	operator := testOperator(t, "geheim123")

	access, err := jwt.NewToken(operator, jwt.KindAccess, testSecret, time.Hour)
	require.NoError(t, err)

	operators.On("OperatorByID", ctx, operator.ID).Return(operator, nil)

	got, err := a.Authenticate(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, operator.ID, got.ID)

	_, err = a.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestGuard_Require(t *testing.T) {
	_, err := Guard{}.Require(context.Background())
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	operator := models.Operator{ID: uuid.New()}
	got, err := Guard{}.Require(models.WithOperator(context.Background(), operator))
	require.NoError(t, err)
	assert.Equal(t, operator.ID, got.ID)
}
