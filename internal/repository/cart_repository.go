// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"mall-admin-go/internal/model"
)

// cartTTL 是购物车在最后一次修改后的保留时间。
const cartTTL = 30 * 24 * time.Hour

// CartRepository 定义了购物车的存取接口，数据保存在 Redis hash 中（field 为 skuID，value 为数量）。
type CartRepository interface {
	GetItems(ctx context.Context, userID uint) ([]model.CartItem, error)
	GetQuantity(ctx context.Context, userID, skuID uint) (int, error)
	SetQuantity(ctx context.Context, userID, skuID uint, quantity int) error
	AddQuantity(ctx context.Context, userID, skuID uint, delta int) (int, error)
	RemoveItem(ctx context.Context, userID, skuID uint) error
	Clear(ctx context.Context, userID uint) error
}

type redisCartRepository struct {
	redisClient *redis.Client
}

// NewCartRepository 创建一个新的 CartRepository 实例。
func NewCartRepository(redisClient *redis.Client) CartRepository {
	return &redisCartRepository{redisClient: redisClient}
}

func cartKey(userID uint) string {
	return fmt.Sprintf("cart:%d", userID)
}

// GetItems 返回用户购物车中的全部条目，按 skuID 升序。
func (r *redisCartRepository) GetItems(ctx context.Context, userID uint) ([]model.CartItem, error) {
	fields, err := r.redisClient.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	items := make([]model.CartItem, 0, len(fields))
	for f, v := range fields {
		skuID, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(v)
		if err != nil || qty <= 0 {
			continue
		}
		items = append(items, model.CartItem{SkuID: uint(skuID), Quantity: qty})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].SkuID < items[j].SkuID })
	return items, nil
}

// GetQuantity 返回购物车中某个 SKU 的数量，不存在时为 0。
func (r *redisCartRepository) GetQuantity(ctx context.Context, userID, skuID uint) (int, error) {
	v, err := r.redisClient.HGet(ctx, cartKey(userID), strconv.FormatUint(uint64(skuID), 10)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get cart item: %w", err)
	}
	return v, nil
}

// SetQuantity 设置某个 SKU 的数量。
func (r *redisCartRepository) SetQuantity(ctx context.Context, userID, skuID uint, quantity int) error {
	key := cartKey(userID)
	pipe := r.redisClient.TxPipeline()
	pipe.HSet(ctx, key, strconv.FormatUint(uint64(skuID), 10), quantity)
	pipe.Expire(ctx, key, cartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set cart item: %w", err)
	}
	return nil
}

// AddQuantity 原子地增加某个 SKU 的数量并返回新值。
func (r *redisCartRepository) AddQuantity(ctx context.Context, userID, skuID uint, delta int) (int, error) {
	key := cartKey(userID)
	pipe := r.redisClient.TxPipeline()
	incr := pipe.HIncrBy(ctx, key, strconv.FormatUint(uint64(skuID), 10), int64(delta))
	pipe.Expire(ctx, key, cartTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to add cart item: %w", err)
	}
	return int(incr.Val()), nil
}

// RemoveItem 从购物车中移除某个 SKU。
func (r *redisCartRepository) RemoveItem(ctx context.Context, userID, skuID uint) error {
	if err := r.redisClient.HDel(ctx, cartKey(userID), strconv.FormatUint(uint64(skuID), 10)).Err(); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// Clear 清空购物车。
func (r *redisCartRepository) Clear(ctx context.Context, userID uint) error {
	if err := r.redisClient.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
