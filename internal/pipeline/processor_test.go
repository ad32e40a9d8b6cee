package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mall-admin-go/internal/config"
	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/tasks"
)

// memoryIndex 记录写入索引的文档。
type memoryIndex struct {
	docs map[uint]model.ProductDocument
}

func (m *memoryIndex) Index(_ context.Context, doc model.ProductDocument) error {
	m.docs[doc.ProductID] = doc
	return nil
}

func (m *memoryIndex) Delete(_ context.Context, productID uint) error {
	delete(m.docs, productID)
	return nil
}

type fixture struct {
	db         *gorm.DB
	index      *memoryIndex
	categories service.CategoryService
	processor  *Processor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.Category{}, &model.Product{}, &model.Sku{}))

	productRepo := repository.NewProductRepository(db)
	categories := service.NewCategoryService(db, repository.NewTreeRepository[model.Category](db), productRepo, nil, config.TreeKindConfig{})
	index := &memoryIndex{docs: make(map[uint]model.ProductDocument)}
	return &fixture{db: db, index: index, categories: categories, processor: NewProcessor(productRepo, categories, index)}
}

func (f *fixture) product(t *testing.T, categoryID, name string, prices ...int64) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, CategoryID: categoryID, Status: model.StatusEnabled}
	require.NoError(t, f.db.Create(p).Error)
	for i, price := range prices {
		sku := &model.Sku{ProductID: p.ID, SkuCode: name + string(rune('A'+i)), Price: price, Stock: 1, Status: model.StatusEnabled}
		require.NoError(t, f.db.Create(sku).Error)
	}
	return p
}

func TestBuildDocument_PriceRangeSkipsDisabledSkus(t *testing.T) {
	p := model.Product{
		ID: 7, Name: "耳机", CategoryID: "c", Status: model.StatusEnabled,
		Skus: []model.Sku{
			{Price: 19900, Status: model.StatusEnabled},
			{Price: 100, Status: model.StatusDisabled},
			{Price: 29900, Status: model.StatusEnabled},
		},
	}
	doc := BuildDocument(p, "数码 / 耳机")
	assert.EqualValues(t, 19900, doc.MinPrice)
	assert.EqualValues(t, 29900, doc.MaxPrice)
	assert.Equal(t, "数码 / 耳机", doc.CategoryPath)
	assert.False(t, doc.UpdatedAt.IsZero())

	empty := BuildDocument(model.Product{ID: 8}, "")
	assert.Zero(t, empty.MinPrice)
	assert.Zero(t, empty.MaxPrice)
}

func TestProcess_ProductEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.categories.Create(ctx, service.CategoryInput{Name: "数码"})
	require.NoError(t, err)
	child, err := f.categories.Create(ctx, service.CategoryInput{ParentID: root.ID, Name: "耳机"})
	require.NoError(t, err)
	p := f.product(t, child.ID, "降噪耳机", 39900, 45900)

	require.NoError(t, f.processor.Process(ctx, tasks.NewProductEvent(tasks.ProductUpserted, p.ID)))
	doc, ok := f.index.docs[p.ID]
	require.True(t, ok)
	assert.Equal(t, "数码 / 耳机", doc.CategoryPath)
	assert.EqualValues(t, 39900, doc.MinPrice)

	require.NoError(t, f.processor.Process(ctx, tasks.NewProductEvent(tasks.ProductDeleted, p.ID)))
	assert.NotContains(t, f.index.docs, p.ID)

	// 商品已被删除时，更新事件等同于删除
	f.index.docs[999] = model.ProductDocument{ProductID: 999}
	require.NoError(t, f.processor.Process(ctx, tasks.NewProductEvent(tasks.ProductUpserted, 999)))
	assert.NotContains(t, f.index.docs, uint(999))

	require.NoError(t, f.processor.Process(ctx, tasks.CatalogEvent{Type: "unknown"}))
}

func TestProcess_CategoryRenameRefreshesSubtree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	root, err := f.categories.Create(ctx, service.CategoryInput{Name: "数码"})
	require.NoError(t, err)
	child, err := f.categories.Create(ctx, service.CategoryInput{ParentID: root.ID, Name: "耳机"})
	require.NoError(t, err)
	other, err := f.categories.Create(ctx, service.CategoryInput{Name: "服装"})
	require.NoError(t, err)
	p1 := f.product(t, child.ID, "耳机A", 100)
	p2 := f.product(t, other.ID, "T恤", 200)

	n, err := f.processor.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = f.categories.Update(ctx, root.ID, service.CategoryInput{Name: "数码家电"})
	require.NoError(t, err)
	require.NoError(t, f.processor.Process(ctx, tasks.NewCategoryEvent(root.ID)))

	assert.Equal(t, "数码家电 / 耳机", f.index.docs[p1.ID].CategoryPath)
	assert.Equal(t, "服装", f.index.docs[p2.ID].CategoryPath)

	require.NoError(t, f.processor.Process(ctx, tasks.NewCategoryEvent("gone")))
}
