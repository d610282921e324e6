package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	redisapp "atelier/internal/storage/redis"
)

type RedisTokenRepo struct {
	Client *redisapp.Client
}

func NewRedisTokenRepo(client *redisapp.Client) *RedisTokenRepo {
	return &RedisTokenRepo{Client: client}
}

func (r *RedisTokenRepo) SaveRefreshToken(ctx context.Context, operatorID, token string, exp time.Duration) error {
	return r.Client.Set(ctx, refreshTokenKey(operatorID, token), "1", exp).Err()
}

func (r *RedisTokenRepo) GetRefreshToken(ctx context.Context, operatorID, token string) (bool, error) {
	val, err := r.Client.Get(ctx, refreshTokenKey(operatorID, token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return val == "1", err
}

func (r *RedisTokenRepo) DeleteRefreshToken(ctx context.Context, operatorID, token string) error {
	return r.Client.Del(ctx, refreshTokenKey(operatorID, token)).Err()
}

func (r *RedisTokenRepo) DeleteAllOperatorTokens(ctx context.Context, operatorID string) error {
	keys, err := r.Client.Keys(ctx, refreshTokenKey(operatorID, "*")).Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}

func refreshTokenKey(operatorID, token string) string {
	return "atelier:refresh:" + operatorID + ":" + token
}
