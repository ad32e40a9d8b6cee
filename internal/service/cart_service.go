package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/log"
)

// fullPrice 表示不打折。
const fullPrice = 100

// CartService 接口定义了购物车相关的业务操作。
type CartService interface {
	Get(ctx context.Context, userID uint) (*model.CartView, error)
	AddItem(ctx context.Context, userID, skuID uint, quantity int) (*model.CartView, error)
	UpdateItem(ctx context.Context, userID, skuID uint, quantity int) (*model.CartView, error)
	RemoveItem(ctx context.Context, userID, skuID uint) (*model.CartView, error)
	Clear(ctx context.Context, userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	levelRepo   repository.MemberLevelRepository
}

// NewCartService 创建一个新的 CartService 实例。
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository, levelRepo repository.MemberLevelRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo, userRepo: userRepo, levelRepo: levelRepo}
}

// Get 返回购物车视图。失效（下架或库存不足）的条目仍然展示，但不计入金额。
func (s *cartService) Get(ctx context.Context, userID uint) (*model.CartView, error) {
	items, err := s.cartRepo.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	skuIDs := make([]uint, 0, len(items))
	for _, it := range items {
		skuIDs = append(skuIDs, it.SkuID)
	}
	skus, err := s.productRepo.FindSkusByIDs(ctx, skuIDs)
	if err != nil {
		return nil, err
	}
	skuByID := make(map[uint]model.Sku, len(skus))
	for _, sku := range skus {
		skuByID[sku.ID] = sku
	}
	products := make(map[uint]*model.Product)

	view := &model.CartView{Lines: make([]model.CartLine, 0, len(items)), Discount: fullPrice}
	for _, it := range items {
		sku, ok := skuByID[it.SkuID]
		if !ok {
			// SKU 已被删除，顺手清理
			if err := s.cartRepo.RemoveItem(ctx, userID, it.SkuID); err != nil {
				log.Warnf("[CartService] 清理失效 SKU 失败: user=%d sku=%d err=%v", userID, it.SkuID, err)
			}
			continue
		}
		p, ok := products[sku.ProductID]
		if !ok {
			p, err = s.productRepo.FindByID(ctx, sku.ProductID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			products[sku.ProductID] = p
		}

		line := model.CartLine{
			SkuID:     sku.ID,
			SkuCode:   sku.SkuCode,
			ProductID: sku.ProductID,
			Spec:      sku.Spec,
			UnitPrice: sku.Price,
			Quantity:  it.Quantity,
			Amount:    sku.Price * int64(it.Quantity),
		}
		if p != nil {
			line.ProductName = p.Name
		}
		line.Available = p != nil && p.Status == model.StatusEnabled &&
			sku.Status == model.StatusEnabled && sku.Stock >= it.Quantity
		if line.Available {
			view.TotalQuantity += it.Quantity
			view.Subtotal += line.Amount
		}
		view.Lines = append(view.Lines, line)
	}

	discount, err := s.discountFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	view.Discount = discount
	view.Total = ApplyDiscount(view.Subtotal, discount)
	return view, nil
}

// AddItem 增加 SKU 数量，累计数量超过库存时拒绝并回滚本次增加。
func (s *cartService) AddItem(ctx context.Context, userID, skuID uint, quantity int) (*model.CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidArgument
	}
	sku, err := s.sellableSku(ctx, skuID)
	if err != nil {
		return nil, err
	}
	total, err := s.cartRepo.AddQuantity(ctx, userID, skuID, quantity)
	if err != nil {
		return nil, err
	}
	if total > sku.Stock {
		if _, err := s.cartRepo.AddQuantity(ctx, userID, skuID, -quantity); err != nil {
			return nil, err
		}
		return nil, ErrOutOfStock
	}
	return s.Get(ctx, userID)
}

// UpdateItem 设置 SKU 数量，数量为 0 时移除该条目。
func (s *cartService) UpdateItem(ctx context.Context, userID, skuID uint, quantity int) (*model.CartView, error) {
	if quantity < 0 {
		return nil, ErrInvalidArgument
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, skuID)
	}
	sku, err := s.sellableSku(ctx, skuID)
	if err != nil {
		return nil, err
	}
	if quantity > sku.Stock {
		return nil, ErrOutOfStock
	}
	if err := s.cartRepo.SetQuantity(ctx, userID, skuID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, skuID uint) (*model.CartView, error) {
	if err := s.cartRepo.RemoveItem(ctx, userID, skuID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *cartService) Clear(ctx context.Context, userID uint) error {
	return s.cartRepo.Clear(ctx, userID)
}

func (s *cartService) sellableSku(ctx context.Context, skuID uint) (*model.Sku, error) {
	sku, err := s.productRepo.FindSkuByID(ctx, skuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if sku.Status != model.StatusEnabled {
		return nil, ErrInvalidArgument
	}
	// 商品下架后其下的 SKU 也不可购买
	p, err := s.productRepo.FindByID(ctx, sku.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidArgument
		}
		return nil, err
	}
	if p.Status != model.StatusEnabled {
		return nil, ErrInvalidArgument
	}
	return sku, nil
}

// discountFor 返回用户当前会员等级的折扣，没有等级或等级已停用时不打折。
func (s *cartService) discountFor(ctx context.Context, userID uint) (int, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fullPrice, nil
		}
		return 0, err
	}
	if user.MemberLevelID == nil {
		return fullPrice, nil
	}
	level, err := s.levelRepo.FindByID(ctx, *user.MemberLevelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fullPrice, nil
		}
		return 0, err
	}
	if level.Status != model.StatusEnabled || level.Discount < 1 || level.Discount > fullPrice {
		return fullPrice, nil
	}
	return level.Discount, nil
}

// ApplyDiscount 按百分比折扣计算金额（分），四舍五入到分。
func ApplyDiscount(amount int64, discount int) int64 {
	return (amount*int64(discount) + fullPrice/2) / fullPrice
}
