package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/log"
	"mall-admin-go/pkg/storage"
	"mall-admin-go/pkg/tasks"
)

// 商品图片限制。
const (
	MaxImageSize    = 5 * 1024 * 1024
	imageURLExpires = time.Hour
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ProductInput 是创建或更新商品时的输入。
type ProductInput struct {
	Name        string
	CategoryID  string
	Description string
	Status      *int8
}

// SkuInput 是创建或更新 SKU 时的输入，价格以分为单位。
type SkuInput struct {
	SkuCode string
	Spec    string
	Price   int64
	Stock   int
	Status  *int8
}

// ProductListQuery 是商品列表的查询条件。CategoryID 会展开为该分类及其全部子分类。
type ProductListQuery struct {
	Page       int
	Size       int
	Name       string
	CategoryID string
	Status     *int8
}

// ProductPage 是商品分页结果。
type ProductPage struct {
	Content       []model.Product `json:"content"`
	TotalElements int64           `json:"totalElements"`
	Size          int             `json:"size"`
	Number        int             `json:"number"`
}

// ImageUpload 是一次商品图片上传。
type ImageUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ProductService 接口定义了商品、SKU 与商品图片相关的业务操作。
type ProductService interface {
	List(ctx context.Context, q ProductListQuery) (*ProductPage, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	Create(ctx context.Context, in ProductInput) (*model.Product, error)
	Update(ctx context.Context, id uint, in ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id uint) error

	ListSkus(ctx context.Context, productID uint) ([]model.Sku, error)
	CreateSku(ctx context.Context, productID uint, in SkuInput) (*model.Sku, error)
	UpdateSku(ctx context.Context, skuID uint, in SkuInput) (*model.Sku, error)
	DeleteSku(ctx context.Context, skuID uint) error

	UploadImage(ctx context.Context, productID uint, img ImageUpload) (*model.Product, error)
	ImageURL(ctx context.Context, productID uint) (string, error)
}

type productService struct {
	productRepo repository.ProductRepository
	categories  CategoryService
	images      storage.ObjectStore
	events      CatalogEventPublisher
}

// NewProductService 创建一个新的 ProductService 实例。images 与 events 可以为 nil。
func NewProductService(productRepo repository.ProductRepository, categories CategoryService, images storage.ObjectStore, events CatalogEventPublisher) ProductService {
	return &productService{
		productRepo: productRepo,
		categories:  categories,
		images:      images,
		events:      events,
	}
}

// List 分页查询商品。
func (s *productService) List(ctx context.Context, q ProductListQuery) (*ProductPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 || q.Size > 100 {
		q.Size = 10
	}
	query := repository.ProductQuery{
		Name:   q.Name,
		Status: q.Status,
		Offset: (q.Page - 1) * q.Size,
		Limit:  q.Size,
	}
	if q.CategoryID != "" {
		ids, err := s.categories.SubtreeIDs(ctx, q.CategoryID)
		if err != nil {
			return nil, err
		}
		query.CategoryIDs = ids
	}
	products, total, err := s.productRepo.FindPage(ctx, query)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Content: products, TotalElements: total, Size: q.Size, Number: q.Page}, nil
}

func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	p := &model.Product{}
	if err := s.applyProductInput(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.events, tasks.NewProductEvent(tasks.ProductUpserted, p.ID))
	return p, nil
}

func (s *productService) Update(ctx context.Context, id uint, in ProductInput) (*model.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProductInput(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.events, tasks.NewProductEvent(tasks.ProductUpserted, p.ID))
	return p, nil
}

// Delete 删除商品及其 SKU，并尽力删除商品图片。
func (s *productService) Delete(ctx context.Context, id uint) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	if p.ImageObject != "" && s.images != nil {
		if err := s.images.Remove(ctx, p.ImageObject); err != nil {
			log.Warnf("[ProductService] 删除商品图片失败: object=%s err=%v", p.ImageObject, err)
		}
	}
	publishEvent(ctx, s.events, tasks.NewProductEvent(tasks.ProductDeleted, id))
	return nil
}

func (s *productService) ListSkus(ctx context.Context, productID uint) ([]model.Sku, error) {
	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}
	return s.productRepo.FindSkusByProductID(ctx, productID)
}

func (s *productService) CreateSku(ctx context.Context, productID uint, in SkuInput) (*model.Sku, error) {
	if _, err := s.Get(ctx, productID); err != nil {
		return nil, err
	}
	sku := &model.Sku{ProductID: productID}
	if err := applySkuInput(sku, in); err != nil {
		return nil, err
	}
	if err := s.productRepo.CreateSku(ctx, sku); err != nil {
		return nil, translateDuplicate(err)
	}
	publishEvent(ctx, s.events, tasks.NewProductEvent(tasks.ProductUpserted, productID))
	return sku, nil
}

func (s *productService) UpdateSku(ctx context.Context, skuID uint, in SkuInput) (*model.Sku, error) {
	sku, err := s.findSku(ctx, skuID)
	if err != nil {
		return nil, err
	}
	if err := applySkuInput(sku, in); err != nil {
		return nil, err
	}
	if err := s.productRepo.UpdateSku(ctx, sku); err != nil {
		return nil, translateDuplicate(err)
	}
	publishEvent(ctx, s.events, tasks.NewProductEvent(tasks.ProductUpserted, sku.ProductID))
	return sku, nil
}

func (s *productService) DeleteSku(ctx context.Context, skuID uint) error {
	sku, err := s.findSku(ctx, skuID)
	if err != nil {
		return err
	}
	if err := s.productRepo.DeleteSku(ctx, skuID); err != nil {
		return err
	}
	publishEvent(ctx, s.events, tasks.NewProductEvent(tasks.ProductUpserted, sku.ProductID))
	return nil
}

// UploadImage 把商品主图写入对象存储并替换旧图。
func (s *productService) UploadImage(ctx context.Context, productID uint, img ImageUpload) (*model.Product, error) {
	if s.images == nil {
		return nil, errors.New("对象存储未配置")
	}
	ext, ok := allowedImageTypes[strings.ToLower(img.ContentType)]
	if !ok || img.Size <= 0 || img.Size > MaxImageSize {
		return nil, ErrInvalidArgument
	}
	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}

	objectName := path.Join("products", fmt.Sprint(productID), uuid.NewString()+ext)
	if err := s.images.Put(ctx, objectName, img.Reader, img.Size, img.ContentType); err != nil {
		log.Errorf("[ProductService] 上传商品图片失败: product=%d file=%s err=%v", productID, img.FileName, err)
		return nil, fmt.Errorf("上传商品图片失败: %w", err)
	}

	old := p.ImageObject
	p.ImageObject = objectName
	if err := s.productRepo.Update(ctx, p); err != nil {
		_ = s.images.Remove(ctx, objectName)
		return nil, err
	}
	if old != "" {
		if err := s.images.Remove(ctx, old); err != nil {
			log.Warnf("[ProductService] 删除旧商品图片失败: object=%s err=%v", old, err)
		}
	}
	return p, nil
}

// ImageURL 返回商品主图的临时访问地址。
func (s *productService) ImageURL(ctx context.Context, productID uint) (string, error) {
	if s.images == nil {
		return "", errors.New("对象存储未配置")
	}
	p, err := s.Get(ctx, productID)
	if err != nil {
		return "", err
	}
	if p.ImageObject == "" {
		return "", ErrNotFound
	}
	return s.images.PresignedURL(ctx, p.ImageObject, imageURLExpires)
}

func (s *productService) findSku(ctx context.Context, skuID uint) (*model.Sku, error) {
	sku, err := s.productRepo.FindSkuByID(ctx, skuID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return sku, err
}

func (s *productService) applyProductInput(ctx context.Context, p *model.Product, in ProductInput) error {
	status, err := statusOrDefault(in.Status)
	if err != nil {
		return err
	}
	if in.CategoryID != p.CategoryID {
		if _, err := s.categories.Get(ctx, in.CategoryID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrInvalidArgument
			}
			return err
		}
	}
	p.Name = in.Name
	p.CategoryID = in.CategoryID
	p.Description = in.Description
	p.Status = status
	return nil
}

func applySkuInput(sku *model.Sku, in SkuInput) error {
	if in.Price < 0 || in.Stock < 0 {
		return ErrInvalidArgument
	}
	status, err := statusOrDefault(in.Status)
	if err != nil {
		return err
	}
	sku.SkuCode = in.SkuCode
	sku.Spec = in.Spec
	sku.Price = in.Price
	sku.Stock = in.Stock
	sku.Status = status
	return nil
}

func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}
