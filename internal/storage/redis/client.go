package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"atelier/internal/config"
)

// Client хранит refresh-токены операторов.
type Client struct {
	*redis.Client
}

func NewClient(cfg config.RedisConf) *Client {
	return &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}),
	}
}

func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
