package service

import (
	"context"
	"fmt"

	"mall-admin-go/internal/repository"
	"mall-admin-go/pkg/authz"
	"mall-admin-go/pkg/log"
)

// PolicyService 把数据库中的角色权限关系同步到 casbin。
type PolicyService struct {
	roleRepo   repository.RoleRepository
	authorizer *authz.Authorizer
}

// NewPolicyService 创建策略同步服务。
func NewPolicyService(roleRepo repository.RoleRepository, authorizer *authz.Authorizer) *PolicyService {
	return &PolicyService{roleRepo: roleRepo, authorizer: authorizer}
}

// Reload 重新读取全部授权关系并替换 enforcer 中的策略。
func (s *PolicyService) Reload(ctx context.Context) error {
	rows, err := s.roleRepo.ListPolicies(ctx)
	if err != nil {
		return fmt.Errorf("读取角色权限失败: %w", err)
	}
	policies := make([]authz.Policy, 0, len(rows))
	for _, r := range rows {
		policies = append(policies, authz.Policy{RoleCode: r.RoleCode, PermissionCode: r.PermissionCode})
	}
	if err := s.authorizer.Load(policies); err != nil {
		return fmt.Errorf("加载 casbin 策略失败: %w", err)
	}
	log.Infof("[PolicyService] 已加载 %d 条授权策略", len(policies))
	return nil
}

// reloadAfterWrite 在写入成功后刷新策略，失败只记录日志，下一次写入或重启时会再次同步。
func (s *PolicyService) reloadAfterWrite(ctx context.Context) {
	if s == nil {
		return
	}
	if err := s.Reload(ctx); err != nil {
		log.Errorf("[PolicyService] 刷新授权策略失败: %v", err)
	}
}
