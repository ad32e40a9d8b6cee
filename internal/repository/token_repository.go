package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"mall-admin-go/pkg/token"
)

// TokenBlacklist 保存已登出但尚未过期的 token。
type TokenBlacklist interface {
	Add(ctx context.Context, tokenString string, ttl time.Duration) error
	Contains(ctx context.Context, tokenString string) (bool, error)
}

type redisTokenBlacklist struct {
	redisClient *redis.Client
}

// NewTokenBlacklist 创建基于 Redis 的 token 黑名单。
func NewTokenBlacklist(redisClient *redis.Client) TokenBlacklist {
	return &redisTokenBlacklist{redisClient: redisClient}
}

// Add 把 token 放入黑名单，ttl 为 token 的剩余有效期。
func (b *redisTokenBlacklist) Add(ctx context.Context, tokenString string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.redisClient.Set(ctx, token.BlacklistKey(tokenString), "true", ttl).Err()
}

func (b *redisTokenBlacklist) Contains(ctx context.Context, tokenString string) (bool, error) {
	n, err := b.redisClient.Exists(ctx, token.BlacklistKey(tokenString)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
