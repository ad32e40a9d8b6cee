package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-admin-go/internal/config"
	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/tasks"
)

// memoryObjects 是内存版的对象存储。
type memoryObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryObjects) Put(_ context.Context, objectName string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = data
	return nil
}

func (m *memoryObjects) Remove(_ context.Context, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectName)
	return nil
}

func (m *memoryObjects) PresignedURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "http://minio.local/mall-images/" + objectName + "?sig=test", nil
}

func (m *memoryObjects) has(objectName string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[objectName]
	return ok
}

type productFixture struct {
	svc      ProductService
	events   *recordingPublisher
	images   *memoryObjects
	apparel  *model.Category
	menswear *model.Category
	footwear *model.Category
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	db := setupTestDB(t)
	ctx := context.Background()
	productRepo := repository.NewProductRepository(db)
	categories := NewCategoryService(db, repository.NewTreeRepository[model.Category](db), productRepo, &recordingPublisher{},
		config.TreeKindConfig{Strict: true, MaxDepth: 3})

	apparel, err := categories.Create(ctx, CategoryInput{Name: "服装"})
	require.NoError(t, err)
	menswear, err := categories.Create(ctx, CategoryInput{ParentID: apparel.ID, Name: "男装"})
	require.NoError(t, err)
	footwear, err := categories.Create(ctx, CategoryInput{Name: "鞋靴"})
	require.NoError(t, err)

	f := &productFixture{
		events:   &recordingPublisher{},
		images:   &memoryObjects{objects: map[string][]byte{}},
		apparel:  apparel,
		menswear: menswear,
		footwear: footwear,
	}
	f.svc = NewProductService(productRepo, categories, f.images, f.events)
	return f
}

func TestProduct_ListFiltersCategorySubtree(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	shirt, err := f.svc.Create(ctx, ProductInput{Name: "衬衫", CategoryID: f.menswear.ID})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, ProductInput{Name: "跑鞋", CategoryID: f.footwear.ID})
	require.NoError(t, err)

	page, err := f.svc.List(ctx, ProductListQuery{CategoryID: f.apparel.ID})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, shirt.ID, page.Content[0].ID)
	assert.EqualValues(t, 1, page.TotalElements)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 10, page.Size)

	all, err := f.svc.List(ctx, ProductListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, all.TotalElements)

	_, err = f.svc.List(ctx, ProductListQuery{CategoryID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProduct_CreateValidatesCategory(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, ProductInput{Name: "帽子", CategoryID: "missing"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = f.svc.Create(ctx, ProductInput{Name: "帽子", CategoryID: f.apparel.ID, Status: int8Ptr(5)})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, f.events.types())
}

func TestProduct_SkuLifecycle(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	p, err := f.svc.Create(ctx, ProductInput{Name: "衬衫", CategoryID: f.menswear.ID})
	require.NoError(t, err)

	sku, err := f.svc.CreateSku(ctx, p.ID, SkuInput{SkuCode: "SH-M", Spec: "M", Price: 12900, Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, model.StatusEnabled, sku.Status)

	_, err = f.svc.CreateSku(ctx, p.ID, SkuInput{SkuCode: "SH-M", Price: 1})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	_, err = f.svc.CreateSku(ctx, p.ID, SkuInput{SkuCode: "SH-L", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = f.svc.CreateSku(ctx, 999, SkuInput{SkuCode: "X"})
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := f.svc.UpdateSku(ctx, sku.ID, SkuInput{SkuCode: "SH-M", Spec: "M", Price: 9900, Stock: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 9900, updated.Price)

	skus, err := f.svc.ListSkus(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, skus, 1)
	assert.Equal(t, 10, skus[0].Stock)

	require.NoError(t, f.svc.DeleteSku(ctx, sku.ID))
	assert.ErrorIs(t, f.svc.DeleteSku(ctx, sku.ID), ErrNotFound)

	for _, typ := range f.events.types() {
		assert.Equal(t, tasks.ProductUpserted, typ)
	}
	assert.Len(t, f.events.types(), 4)
}

func TestProduct_ImageUploadReplacesOldObject(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	p, err := f.svc.Create(ctx, ProductInput{Name: "衬衫", CategoryID: f.menswear.ID})
	require.NoError(t, err)

	_, err = f.svc.ImageURL(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.UploadImage(ctx, p.ID, ImageUpload{FileName: "a.txt", ContentType: "text/plain", Size: 3, Reader: strings.NewReader("abc")})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = f.svc.UploadImage(ctx, p.ID, ImageUpload{FileName: "big.png", ContentType: "image/png", Size: MaxImageSize + 1, Reader: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	first, err := f.svc.UploadImage(ctx, p.ID, ImageUpload{FileName: "a.png", ContentType: "image/png", Size: 3, Reader: strings.NewReader("png")})
	require.NoError(t, err)
	firstObject := first.ImageObject
	assert.True(t, strings.HasSuffix(firstObject, ".png"))
	assert.True(t, f.images.has(firstObject))

	second, err := f.svc.UploadImage(ctx, p.ID, ImageUpload{FileName: "b.jpg", ContentType: "image/jpeg", Size: 3, Reader: strings.NewReader("jpg")})
	require.NoError(t, err)
	assert.False(t, f.images.has(firstObject))
	assert.True(t, f.images.has(second.ImageObject))

	u, err := f.svc.ImageURL(ctx, p.ID)
	require.NoError(t, err)
	assert.Contains(t, u, second.ImageObject)

	require.NoError(t, f.svc.Delete(ctx, p.ID))
	assert.False(t, f.images.has(second.ImageObject))
	assert.Equal(t, tasks.ProductDeleted, f.events.types()[len(f.events.types())-1])
}
