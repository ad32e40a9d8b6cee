package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/log"
)

// UserListResponse 定义了用户列表 API 的响应结构。
type UserListResponse struct {
	Content       []UserDetailResponse `json:"content"`
	TotalElements int64                `json:"totalElements"`
	TotalPages    int                  `json:"totalPages"`
	Size          int                  `json:"size"`
	Number        int                  `json:"number"`
}

// UserDetailResponse 定义了用户列表项的详细结构。
type UserDetailResponse struct {
	UserID        uint           `json:"userId"`
	Username      string         `json:"username"`
	Nickname      string         `json:"nickname"`
	RoleCode      string         `json:"roleCode"`
	DeptID        string         `json:"deptId"`
	DeptPath      string         `json:"deptPath"`
	MemberLevelID *uint          `json:"memberLevelId"`
	Status        int8           `json:"status"`
	CreatedAt     model.DateTime `json:"createdAt"`
}

// UserListQuery 是后台用户列表的查询条件。DeptID 非空时包含其全部下级部门的用户。
type UserListQuery struct {
	Page     int
	Size     int
	Username string
	DeptID   string
	Status   *int8
}

// AdminService 接口定义了后台用户管理相关的业务操作。
type AdminService interface {
	ListUsers(ctx context.Context, q UserListQuery) (*UserListResponse, error)
	AssignRole(ctx context.Context, userID uint, roleID *uint) error
	AssignDepartment(ctx context.Context, userID uint, deptID string) error
	AssignMemberLevel(ctx context.Context, userID uint, levelID *uint) error
	SetStatus(ctx context.Context, userID uint, status int8) error
}

// adminService 是 AdminService 接口的实现。
type adminService struct {
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	levelRepo repository.MemberLevelRepository
	depts     DepartmentService
}

// NewAdminService 创建一个新的 AdminService 实例。
func NewAdminService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, levelRepo repository.MemberLevelRepository, depts DepartmentService) AdminService {
	return &adminService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		levelRepo: levelRepo,
		depts:     depts,
	}
}

// ListUsers 以分页的形式返回用户列表，并附带部门的完整路径。
func (s *adminService) ListUsers(ctx context.Context, q UserListQuery) (*UserListResponse, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 || q.Size > 100 {
		q.Size = 10
	}

	query := repository.UserQuery{
		Username: q.Username,
		Status:   q.Status,
		Offset:   (q.Page - 1) * q.Size,
		Limit:    q.Size,
	}
	if q.DeptID != "" {
		ids, err := s.depts.SubtreeIDs(ctx, q.DeptID)
		if err != nil {
			return nil, err
		}
		query.DeptIDs = ids
	}

	users, total, err := s.userRepo.FindWithPagination(ctx, query)
	if err != nil {
		return nil, err
	}

	deptIDs := make([]string, 0, len(users))
	for _, u := range users {
		if u.DeptID != nil {
			deptIDs = append(deptIDs, *u.DeptID)
		}
	}
	paths := map[string]string{}
	if len(deptIDs) > 0 {
		if paths, err = s.depts.Paths(ctx, dedupe(deptIDs)); err != nil {
			// 部门数据损坏不影响用户列表本身
			log.Warnf("[AdminService] 计算部门路径失败: %v", err)
			paths = map[string]string{}
		}
	}

	content := make([]UserDetailResponse, 0, len(users))
	for _, u := range users {
		item := UserDetailResponse{
			UserID:        u.ID,
			Username:      u.Username,
			Nickname:      u.Nickname,
			RoleCode:      u.RoleCode(),
			MemberLevelID: u.MemberLevelID,
			Status:        u.Status,
			CreatedAt:     model.DateTime(u.CreatedAt),
		}
		if u.DeptID != nil {
			item.DeptID = *u.DeptID
			item.DeptPath = paths[*u.DeptID]
		}
		content = append(content, item)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (int(total) + q.Size - 1) / q.Size
	}
	return &UserListResponse{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          q.Size,
		Number:        q.Page,
	}, nil
}

// AssignRole 为用户分配角色，roleID 为 nil 表示取消角色。
func (s *adminService) AssignRole(ctx context.Context, userID uint, roleID *uint) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if roleID != nil {
		if _, err := s.roleRepo.FindByID(ctx, *roleID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidArgument
			}
			return err
		}
	}
	user.RoleID = roleID
	user.Role = nil
	return s.userRepo.Update(ctx, user)
}

// AssignDepartment 调整用户所属部门，deptID 为空表示不属于任何部门。
func (s *adminService) AssignDepartment(ctx context.Context, userID uint, deptID string) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if deptID != "" {
		if _, err := s.depts.Get(ctx, deptID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrInvalidArgument
			}
			return err
		}
	}
	user.DeptID = parentPtr(deptID)
	return s.userRepo.Update(ctx, user)
}

// AssignMemberLevel 调整用户会员等级。
func (s *adminService) AssignMemberLevel(ctx context.Context, userID uint, levelID *uint) error {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if levelID != nil {
		if _, err := s.levelRepo.FindByID(ctx, *levelID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidArgument
			}
			return err
		}
	}
	user.MemberLevelID = levelID
	return s.userRepo.Update(ctx, user)
}

// SetStatus 启用或禁用用户。被禁用的用户持有的 token 会在鉴权中间件中被拒绝。
func (s *adminService) SetStatus(ctx context.Context, userID uint, status int8) error {
	if status != model.StatusEnabled && status != model.StatusDisabled {
		return ErrInvalidArgument
	}
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Status = status
	return s.userRepo.Update(ctx, user)
}

func (s *adminService) findUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}
