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

// PermissionInput 是创建或更新权限时的输入。
type PermissionInput struct {
	ParentID  string
	Name      string
	Code      string
	Type      string
	Path      string
	Component string
	Icon      string
	SortOrder int
	Status    *int8
}

// PermissionService 接口定义了权限（菜单、按钮、接口）管理相关的业务操作。
type PermissionService interface {
	Tree(ctx context.Context, filter model.TreeFilter) ([]*model.PermissionNode, error)
	List(ctx context.Context, filter model.TreeFilter) ([]model.Permission, error)
	Get(ctx context.Context, id string) (*model.Permission, error)
	Path(ctx context.Context, id string) (string, error)
	DescendantIDs(ctx context.Context, id string) ([]string, error)
	Create(ctx context.Context, in PermissionInput) (*model.Permission, error)
	Update(ctx context.Context, id string, in PermissionInput) (*model.Permission, error)
	Delete(ctx context.Context, id string) error
}

type permissionService struct {
	*Hierarchy[model.Permission]
	policies *PolicyService
}

// NewPermissionService 创建权限服务。权限被角色引用时不允许删除，写入后刷新 casbin 策略。
func NewPermissionService(db *gorm.DB, repo repository.TreeRepository[model.Permission], roleRepo repository.RoleRepository, policies *PolicyService, cfg config.TreeKindConfig) PermissionService {
	refs := func(ctx context.Context, tx *gorm.DB, id string) (int64, error) {
		return roleRepo.WithTx(tx).CountByPermission(ctx, id)
	}
	return &permissionService{
		Hierarchy: NewHierarchy(db, repo, refs, NewHierarchyOptions("permission", "roles", cfg)),
		policies:  policies,
	}
}

func (s *permissionService) Tree(ctx context.Context, filter model.TreeFilter) ([]*model.PermissionNode, error) {
	f, err := s.Forest(ctx, filter)
	if err != nil {
		return nil, err
	}
	return mapForest(f.Roots, func(n *tree.Node[model.Permission], children []*model.PermissionNode) *model.PermissionNode {
		return &model.PermissionNode{Permission: n.Record, Children: children}
	}), nil
}

func (s *permissionService) Create(ctx context.Context, in PermissionInput) (*model.Permission, error) {
	p := &model.Permission{TreeBase: model.TreeBase{ID: uuid.NewString()}}
	if err := applyPermissionInput(p, in); err != nil {
		return nil, err
	}
	if err := s.Hierarchy.Create(ctx, p); err != nil {
		return nil, err
	}
	s.policies.reloadAfterWrite(ctx)
	return p, nil
}

func (s *permissionService) Update(ctx context.Context, id string, in PermissionInput) (*model.Permission, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyPermissionInput(p, in); err != nil {
		return nil, err
	}
	if err := s.Hierarchy.Update(ctx, p); err != nil {
		return nil, err
	}
	s.policies.reloadAfterWrite(ctx)
	return p, nil
}

func (s *permissionService) Delete(ctx context.Context, id string) error {
	if err := s.Hierarchy.Delete(ctx, id); err != nil {
		return err
	}
	s.policies.reloadAfterWrite(ctx)
	return nil
}

func applyPermissionInput(p *model.Permission, in PermissionInput) error {
	switch in.Type {
	case model.PermissionTypeMenu, model.PermissionTypeButton, model.PermissionTypeAPI:
	default:
		return ErrInvalidArgument
	}
	status, err := statusOrDefault(in.Status)
	if err != nil {
		return err
	}
	p.ParentID = parentPtr(in.ParentID)
	p.Name = in.Name
	p.Code = in.Code
	p.Type = in.Type
	p.Path = in.Path
	p.Component = in.Component
	p.Icon = in.Icon
	p.SortOrder = in.SortOrder
	p.Status = status
	return nil
}
