package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"mall-admin-go/internal/config"
	"mall-admin-go/pkg/log"
)

// RDB 保存 token 黑名单、购物车和 Kafka 重试计数。
var RDB *redis.Client

// InitRedis 初始化 Redis 客户端，启动时连不上直接退出。
func InitRedis(cfg config.RedisConfig) {
	RDB = redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to redis", err)
	}
	log.Infow("Redis client connected", "addr", cfg.Addr, "db", cfg.DB)
}
