package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/log"
)

// ProductHandler 负责处理商品、SKU 与商品图片相关的 API 请求。
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler 创建一个新的 ProductHandler 实例。
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductRequest 定义了创建和更新商品 API 的请求体结构。
type ProductRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	CategoryID  string `json:"categoryId" binding:"required"`
	Description string `json:"description"`
	Status      *int8  `json:"status"`
}

func (r ProductRequest) input() service.ProductInput {
	return service.ProductInput{Name: r.Name, CategoryID: r.CategoryID, Description: r.Description, Status: r.Status}
}

// SkuRequest 定义了创建和更新 SKU API 的请求体结构，price 以分为单位。
type SkuRequest struct {
	SkuCode string `json:"skuCode" binding:"required,max=64"`
	Spec    string `json:"spec" binding:"max=255"`
	Price   int64  `json:"price" binding:"min=0"`
	Stock   int    `json:"stock" binding:"min=0"`
	Status  *int8  `json:"status"`
}

func (r SkuRequest) input() service.SkuInput {
	return service.SkuInput{SkuCode: r.SkuCode, Spec: r.Spec, Price: r.Price, Stock: r.Stock, Status: r.Status}
}

// List 分页查询商品，categoryId 会匹配整棵分类子树。
func (h *ProductHandler) List(c *gin.Context) {
	status, valid := optionalStatus(c)
	if !valid {
		return
	}
	p, size := page(c)
	res, err := h.productService.List(c.Request.Context(), service.ProductListQuery{
		Page:       p,
		Size:       size,
		Name:       c.Query("name"),
		CategoryID: c.Query("categoryId"),
		Status:     status,
	})
	if err != nil {
		fail(c, "ListProducts", err)
		return
	}
	ok(c, res)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	p, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, "GetProduct", err)
		return
	}
	ok(c, p)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateProduct: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	p, err := h.productService.Create(c.Request.Context(), req.input())
	if err != nil {
		fail(c, "CreateProduct", err)
		return
	}
	ok(c, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateProduct: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	p, err := h.productService.Update(c.Request.Context(), id, req.input())
	if err != nil {
		fail(c, "UpdateProduct", err)
		return
	}
	ok(c, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		fail(c, "DeleteProduct", err)
		return
	}
	ok(c, nil)
}

func (h *ProductHandler) ListSkus(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	skus, err := h.productService.ListSkus(c.Request.Context(), id)
	if err != nil {
		fail(c, "ListSkus", err)
		return
	}
	ok(c, skus)
}

func (h *ProductHandler) CreateSku(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req SkuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateSku: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	sku, err := h.productService.CreateSku(c.Request.Context(), id, req.input())
	if err != nil {
		fail(c, "CreateSku", err)
		return
	}
	ok(c, sku)
}

func (h *ProductHandler) UpdateSku(c *gin.Context) {
	skuID, valid := uintParam(c, "skuId")
	if !valid {
		return
	}
	var req SkuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateSku: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	sku, err := h.productService.UpdateSku(c.Request.Context(), skuID, req.input())
	if err != nil {
		fail(c, "UpdateSku", err)
		return
	}
	ok(c, sku)
}

func (h *ProductHandler) DeleteSku(c *gin.Context) {
	skuID, valid := uintParam(c, "skuId")
	if !valid {
		return
	}
	if err := h.productService.DeleteSku(c.Request.Context(), skuID); err != nil {
		fail(c, "DeleteSku", err)
		return
	}
	ok(c, nil)
}

// UploadImage 处理商品主图上传，表单字段为 file。
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageSize+1<<20)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "文件参数缺失")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "无法读取上传的文件")
		return
	}
	defer file.Close()

	p, err := h.productService.UploadImage(c.Request.Context(), id, service.ImageUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
	})
	if err != nil {
		fail(c, "UploadProductImage", err)
		return
	}
	ok(c, p)
}

// ImageURL 返回商品主图的临时访问地址。
func (h *ProductHandler) ImageURL(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	u, err := h.productService.ImageURL(c.Request.Context(), id)
	if err != nil {
		fail(c, "ProductImageURL", err)
		return
	}
	ok(c, gin.H{"url": u})
}
