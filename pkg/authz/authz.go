// Package authz 基于 casbin 实现 "角色编码 -> 权限编码" 的访问控制。
package authz

import (
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// modelText 中 keyMatch 让 "product:*" 这样的权限编码匹配 "product:create"。
const modelText = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch(r.obj, p.obj)
`

// Policy 是一条授权记录。
type Policy struct {
	RoleCode       string
	PermissionCode string
}

// Authorizer 持有当前生效的 casbin enforcer。Load 会整体替换策略，
// 读写之间用读写锁隔离，请求处理中的判断不会看到一半的策略。
type Authorizer struct {
	mu        sync.RWMutex
	enforcer  *casbin.Enforcer
	superRole string
}

// NewAuthorizer 创建一个没有任何策略的 Authorizer。superRole 为空时不启用超级角色。
func NewAuthorizer(superRole string) (*Authorizer, error) {
	e, err := newEnforcer(nil)
	if err != nil {
		return nil, err
	}
	return &Authorizer{enforcer: e, superRole: SubjectFromRoleCode(superRole)}, nil
}

// Load 用 policies 替换当前全部策略。
func (a *Authorizer) Load(policies []Policy) error {
	e, err := newEnforcer(policies)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.enforcer = e
	a.mu.Unlock()
	return nil
}

// Enforce 判断角色是否拥有权限编码。
func (a *Authorizer) Enforce(roleCode, permissionCode string) (bool, error) {
	sub := SubjectFromRoleCode(roleCode)
	if sub == "" {
		return false, nil
	}
	if a.superRole != "" && sub == a.superRole {
		return true, nil
	}
	a.mu.RLock()
	e := a.enforcer
	a.mu.RUnlock()
	return e.Enforce(sub, strings.TrimSpace(permissionCode))
}

// IsSuperRole 判断角色编码是否为超级角色。
func (a *Authorizer) IsSuperRole(roleCode string) bool {
	return a.superRole != "" && SubjectFromRoleCode(roleCode) == a.superRole
}

// SubjectFromRoleCode 规范化角色编码。
func SubjectFromRoleCode(roleCode string) string {
	return strings.ToLower(strings.TrimSpace(roleCode))
}

func newEnforcer(policies []Policy) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	rules := make([][]string, 0, len(policies))
	seen := make(map[Policy]struct{}, len(policies))
	for _, p := range policies {
		p = Policy{RoleCode: SubjectFromRoleCode(p.RoleCode), PermissionCode: strings.TrimSpace(p.PermissionCode)}
		if p.RoleCode == "" || p.PermissionCode == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		rules = append(rules, []string{p.RoleCode, p.PermissionCode})
	}
	if len(rules) > 0 {
		if _, err := e.AddPolicies(rules); err != nil {
			return nil, err
		}
	}
	return e, nil
}
