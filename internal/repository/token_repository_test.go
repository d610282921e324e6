package repository_test

import (
	"context"
	"testing"
	"time"

	"atelier/internal/repository"
	redisapp "atelier/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func NewMockClient() (*redisapp.Client, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return &redisapp.Client{Client: db}, mock
}

func setupTokenRepo() (*repository.RedisTokenRepo, redismock.ClientMock) {
	db, mock := NewMockClient()
	return repository.NewRedisTokenRepo(db), mock
}

func refreshTokenKey(operatorID, token string) string {
	return "atelier:refresh:" + operatorID + ":" + token
}

func TestSaveRefreshToken(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTokenRepo()
	operatorID := uuid.New().String()
	token := "test_token"
	exp := 24 * time.Hour

	t.Run("successful save", func(t *testing.T) {
		mock.ExpectSet(refreshTokenKey(operatorID, token), "1", exp).SetVal("OK")
		err := repo.SaveRefreshToken(ctx, operatorID, token, exp)
		assert.NoError(t, err)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectSet(refreshTokenKey(operatorID, token), "1", exp).SetErr(redis.ErrClosed)
		err := repo.SaveRefreshToken(ctx, operatorID, token, exp)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRefreshToken(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTokenRepo()
	operatorID := "op123"
	token := "test_token"

	t.Run("token exists", func(t *testing.T) {
		mock.ExpectGet(refreshTokenKey(operatorID, token)).SetVal("1")
		exists, err := repo.GetRefreshToken(ctx, operatorID, token)
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("token not exists", func(t *testing.T) {
		mock.ExpectGet(refreshTokenKey(operatorID, token)).RedisNil()
		exists, err := repo.GetRefreshToken(ctx, operatorID, token)
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectGet(refreshTokenKey(operatorID, token)).SetErr(redis.ErrClosed)
		_, err := repo.GetRefreshToken(ctx, operatorID, token)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}

func TestDeleteRefreshToken(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTokenRepo()
	operatorID := "op123"
	token := "test_token"

	t.Run("successful delete", func(t *testing.T) {
		mock.ExpectDel(refreshTokenKey(operatorID, token)).SetVal(1)
		err := repo.DeleteRefreshToken(ctx, operatorID, token)
		assert.NoError(t, err)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectDel(refreshTokenKey(operatorID, token)).SetErr(redis.ErrClosed)
		err := repo.DeleteRefreshToken(ctx, operatorID, token)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}

func TestDeleteAllOperatorTokens(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTokenRepo()
	operatorID := "op123"
	pattern := refreshTokenKey(operatorID, "*")

	t.Run("successful delete all", func(t *testing.T) {
		mock.ExpectKeys(pattern).SetVal([]string{"token1", "token2"})
		mock.ExpectDel("token1", "token2").SetVal(2)
		err := repo.DeleteAllOperatorTokens(ctx, operatorID)
		assert.NoError(t, err)
	})

	t.Run("no tokens", func(t *testing.T) {
		mock.ExpectKeys(pattern).SetVal([]string{})
		err := repo.DeleteAllOperatorTokens(ctx, operatorID)
		assert.NoError(t, err)
	})

	t.Run("keys error", func(t *testing.T) {
		mock.ExpectKeys(pattern).SetErr(redis.ErrClosed)
		err := repo.DeleteAllOperatorTokens(ctx, operatorID)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})

	t.Run("del error", func(t *testing.T) {
		mock.ExpectKeys(pattern).SetVal([]string{"token1"})
		mock.ExpectDel("token1").SetErr(redis.ErrClosed)
		err := repo.DeleteAllOperatorTokens(ctx, operatorID)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}
