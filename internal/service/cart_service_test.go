package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/log"
)

func TestApplyDiscount(t *testing.T) {
	cases := []struct {
		amount   int64
		discount int
		want     int64
	}{
		{amount: 10000, discount: 100, want: 10000},
		{amount: 10000, discount: 95, want: 9500},
		{amount: 999, discount: 85, want: 849}, // 849.15
		{amount: 1, discount: 50, want: 1},     // 0.5 四舍五入
		{amount: 0, discount: 80, want: 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ApplyDiscount(c.amount, c.discount), "amount=%d discount=%d", c.amount, c.discount)
	}
}

type cartFixture struct {
	db    *gorm.DB
	cart  *memoryCart
	svc   CartService
	user  *model.User
	sku   *model.Sku
	other *model.Sku
}

func newCartFixture(t *testing.T, discount int) *cartFixture {
	t.Helper()
	db := setupTestDB(t)

	level := &model.MemberLevel{Name: "黄金会员", Discount: discount, Status: model.StatusEnabled}
	require.NoError(t, db.Create(level).Error)
	user := &model.User{Username: "dave", Password: "x", MemberLevelID: &level.ID, Status: model.StatusEnabled}
	require.NoError(t, db.Create(user).Error)

	product := &model.Product{Name: "T恤", CategoryID: "c1", Status: model.StatusEnabled}
	require.NoError(t, db.Create(product).Error)
	sku := &model.Sku{ProductID: product.ID, SkuCode: "TS-M", Spec: "M", Price: 5900, Stock: 5, Status: model.StatusEnabled}
	require.NoError(t, db.Create(sku).Error)
	other := &model.Sku{ProductID: product.ID, SkuCode: "TS-L", Spec: "L", Price: 6900, Stock: 1, Status: model.StatusEnabled}
	require.NoError(t, db.Create(other).Error)

	cart := newMemoryCart()
	svc := NewCartService(cart, repository.NewProductRepository(db), repository.NewUserRepository(db), repository.NewMemberLevelRepository(db))
	return &cartFixture{db: db, cart: cart, svc: svc, user: user, sku: sku, other: other}
}

func TestCart_TotalsApplyMemberDiscount(t *testing.T) {
	f := newCartFixture(t, 90)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.user.ID, f.sku.ID, 2)
	require.NoError(t, err)
	view, err := f.svc.AddItem(ctx, f.user.ID, f.other.ID, 1)
	require.NoError(t, err)

	require.Len(t, view.Lines, 2)
	assert.Equal(t, 3, view.TotalQuantity)
	assert.EqualValues(t, 2*5900+6900, view.Subtotal)
	assert.Equal(t, 90, view.Discount)
	assert.EqualValues(t, 16830, view.Total)
}

func TestCart_AddBeyondStockRollsBack(t *testing.T) {
	f := newCartFixture(t, 100)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.user.ID, f.sku.ID, 4)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.user.ID, f.sku.ID, 2)
	assert.ErrorIs(t, err, ErrOutOfStock)

	q, err := f.cart.GetQuantity(ctx, f.user.ID, f.sku.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, q)

	_, err = f.svc.UpdateItem(ctx, f.user.ID, f.sku.ID, 6)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestCart_UnavailableLinesExcludedFromTotals(t *testing.T) {
	f := newCartFixture(t, 100)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.user.ID, f.sku.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, f.user.ID, f.other.ID, 1)
	require.NoError(t, err)

	// 加入购物车后 SKU 下架
	require.NoError(t, f.db.Model(&model.Sku{}).Where("id = ?", f.other.ID).Update("status", model.StatusDisabled).Error)

	view, err := f.svc.Get(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.True(t, view.Lines[0].Available)
	assert.False(t, view.Lines[1].Available)
	assert.EqualValues(t, 5900, view.Subtotal)
	assert.Equal(t, 1, view.TotalQuantity)
}

func TestCart_DisabledLevelMeansFullPrice(t *testing.T) {
	f := newCartFixture(t, 80)
	ctx := context.Background()
	require.NoError(t, f.db.Model(&model.MemberLevel{}).Where("id = ?", *f.user.MemberLevelID).Update("status", model.StatusDisabled).Error)

	view, err := f.svc.AddItem(ctx, f.user.ID, f.sku.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, view.Discount)
	assert.EqualValues(t, 5900, view.Total)
}

func TestCart_UpdateToZeroRemoves(t *testing.T) {
	f := newCartFixture(t, 100)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.user.ID, f.sku.ID, 1)
	require.NoError(t, err)
	view, err := f.svc.UpdateItem(ctx, f.user.ID, f.sku.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	_, err = f.svc.AddItem(ctx, f.user.ID, 999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCart_DisabledProductCannotBeAdded(t *testing.T) {
	f := newCartFixture(t, 100)
	ctx := context.Background()
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", f.sku.ProductID).Update("status", model.StatusDisabled).Error)

	_, err := f.svc.AddItem(ctx, f.user.ID, f.sku.ID, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = f.svc.UpdateItem(ctx, f.user.ID, f.sku.ID, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	q, err := f.cart.GetQuantity(ctx, f.user.ID, f.sku.ID)
	require.NoError(t, err)
	assert.Zero(t, q)
}

func TestCart_StaleSkuCleanupFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	defer log.Replace(zap.New(core))()

	f := newCartFixture(t, 100)
	ctx := context.Background()
	require.NoError(t, f.cart.SetQuantity(ctx, f.user.ID, 999, 2))
	f.cart.removeErr = errors.New("redis down")

	view, err := f.svc.Get(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "redis down")
}
