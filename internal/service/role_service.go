package service

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/log"
	"mall-admin-go/pkg/tree"
)

// RoleInput 是创建或更新角色时的输入。
type RoleInput struct {
	Name      string
	Code      string
	SortOrder int
	Status    *int8
	Remark    string
}

// RoleService 接口定义了角色管理及角色授权相关的业务操作。
type RoleService interface {
	List(ctx context.Context) ([]model.Role, error)
	Get(ctx context.Context, id uint) (*model.Role, error)
	Create(ctx context.Context, in RoleInput) (*model.Role, error)
	Update(ctx context.Context, id uint, in RoleInput) (*model.Role, error)
	Delete(ctx context.Context, id uint) error
	PermissionIDs(ctx context.Context, id uint) ([]string, error)
	AssignPermissions(ctx context.Context, id uint, permissionIDs []string) error
}

type roleService struct {
	db       *gorm.DB
	roleRepo repository.RoleRepository
	permRepo repository.TreeRepository[model.Permission]
	userRepo repository.UserRepository
	policies *PolicyService
}

// NewRoleService 创建一个新的 RoleService 实例。
func NewRoleService(db *gorm.DB, roleRepo repository.RoleRepository, permRepo repository.TreeRepository[model.Permission], userRepo repository.UserRepository, policies *PolicyService) RoleService {
	return &roleService{db: db, roleRepo: roleRepo, permRepo: permRepo, userRepo: userRepo, policies: policies}
}

func (s *roleService) List(ctx context.Context) ([]model.Role, error) {
	return s.roleRepo.FindAll(ctx)
}

func (s *roleService) Get(ctx context.Context, id uint) (*model.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return role, err
}

func (s *roleService) Create(ctx context.Context, in RoleInput) (*model.Role, error) {
	status, err := statusOrDefault(in.Status)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, in.Code, 0); err != nil {
		return nil, err
	}
	role := &model.Role{Name: in.Name, Code: in.Code, SortOrder: in.SortOrder, Status: status, Remark: in.Remark}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) Update(ctx context.Context, id uint, in RoleInput) (*model.Role, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	status, err := statusOrDefault(in.Status)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, in.Code, id); err != nil {
		return nil, err
	}
	role.Name = in.Name
	role.Code = in.Code
	role.SortOrder = in.SortOrder
	role.Status = status
	role.Remark = in.Remark
	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}
	s.policies.reloadAfterWrite(ctx)
	return role, nil
}

// Delete 删除角色。仍有用户使用该角色时拒绝删除。
func (s *roleService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roleRepo := s.roleRepo.WithTx(tx)
		role, err := roleRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		users, err := s.userRepo.WithTx(tx).CountByRole(ctx, id)
		if err != nil {
			return err
		}
		if err := tree.ValidateDeletable(strconv.FormatUint(uint64(id), 10), 0, users, "users"); err != nil {
			return err
		}
		return roleRepo.Delete(ctx, role)
	})
	if err != nil {
		return err
	}
	s.policies.reloadAfterWrite(ctx)
	return nil
}

// PermissionIDs 返回角色已分配的权限 id。
func (s *roleService) PermissionIDs(ctx context.Context, id uint) ([]string, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// AssignPermissions 用 permissionIDs 替换角色的权限，任何一个 id 不存在都会整体失败。
func (s *roleService) AssignPermissions(ctx context.Context, id uint, permissionIDs []string) error {
	permissionIDs = dedupe(permissionIDs)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roleRepo := s.roleRepo.WithTx(tx)
		role, err := roleRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		perms, err := s.permRepo.WithTx(tx).FindByIDs(ctx, permissionIDs)
		if err != nil {
			return err
		}
		if len(perms) != len(permissionIDs) {
			return ErrInvalidArgument
		}
		return roleRepo.ReplacePermissions(ctx, role, perms)
	})
	if err != nil {
		return err
	}
	log.Infof("[RoleService] 角色 %d 已分配 %d 个权限", id, len(permissionIDs))
	s.policies.reloadAfterWrite(ctx)
	return nil
}

func (s *roleService) ensureCodeFree(ctx context.Context, code string, selfID uint) error {
	existing, err := s.roleRepo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrAlreadyExists
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
