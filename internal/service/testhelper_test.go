package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mall-admin-go/internal/model"
	"mall-admin-go/pkg/tasks"
)

// setupTestDB 创建内存数据库。只保留一个连接，否则每个连接会看到各自独立的库。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Department{}, &model.Permission{}, &model.Category{},
		&model.Role{}, &model.MemberLevel{}, &model.User{},
		&model.Product{}, &model.Sku{},
	))
	return db
}

func int8Ptr(v int8) *int8 { return &v }

// recordingPublisher 记录发布的事件。
type recordingPublisher struct {
	mu     sync.Mutex
	events []tasks.CatalogEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e tasks.CatalogEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []tasks.CatalogEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]tasks.CatalogEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// memoryCart 是 CartRepository 的内存实现。
type memoryCart struct {
	items map[uint]map[uint]int
	// removeErr 非空时 RemoveItem 返回该错误
	removeErr error
}

func newMemoryCart() *memoryCart {
	return &memoryCart{items: make(map[uint]map[uint]int)}
}

func (m *memoryCart) user(userID uint) map[uint]int {
	if m.items[userID] == nil {
		m.items[userID] = make(map[uint]int)
	}
	return m.items[userID]
}

func (m *memoryCart) GetItems(_ context.Context, userID uint) ([]model.CartItem, error) {
	out := make([]model.CartItem, 0)
	for sku, q := range m.user(userID) {
		out = append(out, model.CartItem{SkuID: sku, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SkuID < out[j].SkuID })
	return out, nil
}

func (m *memoryCart) GetQuantity(_ context.Context, userID, skuID uint) (int, error) {
	return m.user(userID)[skuID], nil
}

func (m *memoryCart) SetQuantity(_ context.Context, userID, skuID uint, quantity int) error {
	m.user(userID)[skuID] = quantity
	return nil
}

func (m *memoryCart) AddQuantity(_ context.Context, userID, skuID uint, delta int) (int, error) {
	u := m.user(userID)
	u[skuID] += delta
	if u[skuID] <= 0 {
		delete(u, skuID)
		return 0, nil
	}
	return u[skuID], nil
}

func (m *memoryCart) RemoveItem(_ context.Context, userID, skuID uint) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	delete(m.user(userID), skuID)
	return nil
}

func (m *memoryCart) Clear(_ context.Context, userID uint) error {
	delete(m.items, userID)
	return nil
}
