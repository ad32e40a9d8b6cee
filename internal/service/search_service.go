package service

import (
	"context"
	"fmt"
	"strings"

	"mall-admin-go/pkg/es"
	"mall-admin-go/pkg/log"
)

// ProductSearcher 是商品检索后端，由 es.ProductIndex 实现。
type ProductSearcher interface {
	Search(ctx context.Context, q es.ProductQuery) (*es.ProductHits, error)
}

// ProductSearchQuery 是商品搜索的输入。
type ProductSearchQuery struct {
	Keyword    string
	CategoryID string
	Page       int
	Size       int
	// IncludeDisabled 为 true 时返回已下架商品，仅后台使用。
	IncludeDisabled bool
}

// SearchService 接口定义了搜索操作。
type SearchService interface {
	SearchProducts(ctx context.Context, q ProductSearchQuery) (*es.ProductHits, error)
}

type searchService struct {
	searcher   ProductSearcher
	categories CategoryService
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(searcher ProductSearcher, categories CategoryService) SearchService {
	return &searchService{searcher: searcher, categories: categories}
}

// SearchProducts 在 Elasticsearch 中检索商品，指定分类时匹配整棵分类子树。
func (s *searchService) SearchProducts(ctx context.Context, q ProductSearchQuery) (*es.ProductHits, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 || q.Size > 100 {
		q.Size = 10
	}
	query := es.ProductQuery{
		Keyword:     strings.TrimSpace(q.Keyword),
		OnlyEnabled: !q.IncludeDisabled,
		From:        (q.Page - 1) * q.Size,
		Size:        q.Size,
	}
	if q.CategoryID != "" {
		ids, err := s.categories.SubtreeIDs(ctx, q.CategoryID)
		if err != nil {
			return nil, err
		}
		query.CategoryIDs = ids
	}

	log.Infof("[SearchService] 搜索商品, keyword: '%s', categories: %d, page: %d", query.Keyword, len(query.CategoryIDs), q.Page)
	hits, err := s.searcher.Search(ctx, query)
	if err != nil {
		log.Errorf("[SearchService] 搜索商品失败: %v", err)
		return nil, fmt.Errorf("搜索商品失败: %w", err)
	}
	return hits, nil
}
