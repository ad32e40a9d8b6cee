package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/service"
)

// ReindexTrigger 在后台启动一次全量索引重建，已有重建在执行时返回 false。
type ReindexTrigger interface {
	TryStart() bool
}

// SearchHandler 负责处理商品搜索与索引维护请求。
type SearchHandler struct {
	searchService service.SearchService
	reindex       ReindexTrigger
}

// NewSearchHandler 创建一个新的 SearchHandler 实例。
func NewSearchHandler(searchService service.SearchService, reindex ReindexTrigger) *SearchHandler {
	return &SearchHandler{searchService: searchService, reindex: reindex}
}

// SearchProducts 处理 GET /search/products?q=&categoryId=&page=&size= 请求。
func (h *SearchHandler) SearchProducts(c *gin.Context) {
	p, size := page(c)
	hits, err := h.searchService.SearchProducts(c.Request.Context(), service.ProductSearchQuery{
		Keyword:         c.Query("q"),
		CategoryID:      c.Query("categoryId"),
		Page:            p,
		Size:            size,
		IncludeDisabled: c.Query("includeDisabled") == "true",
	})
	if err != nil {
		fail(c, "SearchProducts", err)
		return
	}
	ok(c, hits)
}

// Reindex 在后台触发一次全量重建，请求立即返回。
func (h *SearchHandler) Reindex(c *gin.Context) {
	if !h.reindex.TryStart() {
		respond(c, http.StatusConflict, "已有索引重建正在执行", nil)
		return
	}
	respond(c, http.StatusAccepted, "索引重建已触发", nil)
}
