package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mall-admin-go/internal/config"
	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/tree"
)

// DepartmentInput 是创建或更新部门时的输入。
type DepartmentInput struct {
	ParentID  string
	Name      string
	SortOrder int
	Status    *int8
	Leader    string
	Phone     string
	Email     string
}

// DepartmentService 接口定义了部门管理相关的业务操作。
type DepartmentService interface {
	Tree(ctx context.Context, filter model.TreeFilter) ([]*model.DepartmentNode, error)
	List(ctx context.Context, filter model.TreeFilter) ([]model.Department, error)
	Get(ctx context.Context, id string) (*model.Department, error)
	Path(ctx context.Context, id string) (string, error)
	Paths(ctx context.Context, ids []string) (map[string]string, error)
	DescendantIDs(ctx context.Context, id string) ([]string, error)
	SubtreeIDs(ctx context.Context, id string) ([]string, error)
	Create(ctx context.Context, in DepartmentInput) (*model.Department, error)
	Update(ctx context.Context, id string, in DepartmentInput) (*model.Department, error)
	Delete(ctx context.Context, id string) error
}

type departmentService struct {
	*Hierarchy[model.Department]
}

// NewDepartmentService 创建部门服务。部门下仍有用户时不允许删除。
func NewDepartmentService(db *gorm.DB, repo repository.TreeRepository[model.Department], userRepo repository.UserRepository, cfg config.TreeKindConfig) DepartmentService {
	refs := func(ctx context.Context, tx *gorm.DB, id string) (int64, error) {
		return userRepo.WithTx(tx).CountByDept(ctx, id)
	}
	return &departmentService{
		Hierarchy: NewHierarchy(db, repo, refs, NewHierarchyOptions("department", "users", cfg)),
	}
}

// Tree 返回部门树。
func (s *departmentService) Tree(ctx context.Context, filter model.TreeFilter) ([]*model.DepartmentNode, error) {
	f, err := s.Forest(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapForest(f.Roots, func(n *tree.Node[model.Department], children []*model.DepartmentNode) *model.DepartmentNode {
		return &model.DepartmentNode{Department: n.Record, Children: children}
	}), nil
}

func (s *departmentService) Create(ctx context.Context, in DepartmentInput) (*model.Department, error) {
	status, err := statusOrDefault(in.Status)
	if err != nil {
		return nil, err
	}
	dept := &model.Department{
		TreeBase: model.TreeBase{
			ID:        uuid.NewString(),
			ParentID:  parentPtr(in.ParentID),
			Name:      in.Name,
			SortOrder: in.SortOrder,
			Status:    status,
		},
		Leader: in.Leader,
		Phone:  in.Phone,
		Email:  in.Email,
	}
	if err := s.Hierarchy.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *departmentService) Update(ctx context.Context, id string, in DepartmentInput) (*model.Department, error) {
	dept, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	status, err := statusOrDefault(in.Status)
	if err != nil {
		return nil, err
	}
	dept.ParentID = parentPtr(in.ParentID)
	dept.Name = in.Name
	dept.SortOrder = in.SortOrder
	dept.Status = status
	dept.Leader = in.Leader
	dept.Phone = in.Phone
	dept.Email = in.Email
	if err := s.Hierarchy.Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}
