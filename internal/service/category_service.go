package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mall-admin-go/internal/config"
	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/tasks"
	"mall-admin-go/pkg/tree"
)

// CategoryInput 是创建或更新商品分类时的输入。
type CategoryInput struct {
	ParentID    string
	Name        string
	Icon        string
	Description string
	SortOrder   int
	Status      *int8
}

// CategoryService 接口定义了商品分类管理相关的业务操作。
type CategoryService interface {
	Tree(ctx context.Context, filter model.TreeFilter) ([]*model.CategoryNode, error)
	List(ctx context.Context, filter model.TreeFilter) ([]model.Category, error)
	Get(ctx context.Context, id string) (*model.Category, error)
	Path(ctx context.Context, id string) (string, error)
	Paths(ctx context.Context, ids []string) (map[string]string, error)
	DescendantIDs(ctx context.Context, id string) ([]string, error)
	SubtreeIDs(ctx context.Context, id string) ([]string, error)
	Create(ctx context.Context, in CategoryInput) (*model.Category, error)
	Update(ctx context.Context, id string, in CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	*Hierarchy[model.Category]
	events CatalogEventPublisher
}

// NewCategoryService 创建商品分类服务。分类下仍有商品时不允许删除；
// 改名或移动后发出事件，让索引重建子树下商品的分类路径。
func NewCategoryService(db *gorm.DB, repo repository.TreeRepository[model.Category], productRepo repository.ProductRepository, events CatalogEventPublisher, cfg config.TreeKindConfig) CategoryService {
	refs := func(ctx context.Context, tx *gorm.DB, id string) (int64, error) {
		return productRepo.WithTx(tx).CountByCategory(ctx, id)
	}
	return &categoryService{
		Hierarchy: NewHierarchy(db, repo, refs, NewHierarchyOptions("category", "products", cfg)),
		events:    events,
	}
}

// Tree 返回分类树，Level 从 1 开始。
func (s *categoryService) Tree(ctx context.Context, filter model.TreeFilter) ([]*model.CategoryNode, error) {
	f, err := s.Forest(ctx, filter)
	if err != nil {
		return nil, err
	}
	return categoryNodes(f.Roots, 1), nil
}

func categoryNodes(nodes []*tree.Node[model.Category], level int) []*model.CategoryNode {
	out := make([]*model.CategoryNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &model.CategoryNode{
			Category: n.Record,
			Level:    level,
			Children: categoryNodes(n.Children, level+1),
		})
	}
	return out
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*model.Category, error) {
	status, err := statusOrDefault(in.Status)
	if err != nil {
		return nil, err
	}
	c := &model.Category{
		TreeBase: model.TreeBase{
			ID:        uuid.NewString(),
			ParentID:  parentPtr(in.ParentID),
			Name:      in.Name,
			SortOrder: in.SortOrder,
			Status:    status,
		},
		Icon:        in.Icon,
		Description: in.Description,
	}
	if err := s.Hierarchy.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id string, in CategoryInput) (*model.Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	status, err := statusOrDefault(in.Status)
	if err != nil {
		return nil, err
	}
	pathChanged := c.Name != in.Name || c.TreeParentID() != in.ParentID

	c.ParentID = parentPtr(in.ParentID)
	c.Name = in.Name
	c.Icon = in.Icon
	c.Description = in.Description
	c.SortOrder = in.SortOrder
	c.Status = status
	if err := s.Hierarchy.Update(ctx, c); err != nil {
		return nil, err
	}
	if pathChanged {
		publishEvent(ctx, s.events, tasks.NewCategoryEvent(c.ID))
	}
	return c, nil
}
