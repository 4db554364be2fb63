package srv

import (
	"strings"
	"sync"

	"github.com/mikespook/gorbac/v2"
)

const (
	// 超级管理员角色标识
	RoleAdmin = "admin"
	// 所有权限
	AllPermission = "*:*:*"
)

// Grant 角色拥有的菜单权限标识
type Grant struct {
	Role       string
	Permission string
}

func SetupRBACSrv() *RBACSrv {
	return &RBACSrv{
		rbac: gorbac.New(),
	}
}

type RBACSrv struct {
	mu   sync.RWMutex
	rbac *gorbac.RBAC
}

// Reload 使用最新的角色权限重建鉴权实例
func (a *RBACSrv) Reload(grants []Grant) {
	rbac := gorbac.New()
	roles := make(map[string]*gorbac.StdRole)
	for _, g := range grants {
		if g.Role == "" {
			continue
		}
		role, exist := roles[g.Role]
		if !exist {
			role = gorbac.NewStdRole(g.Role)
			roles[g.Role] = role
		}
		// sys_menu.perms 允许以逗号分隔多个权限
		for _, p := range strings.Split(g.Permission, ",") {
			if p = strings.TrimSpace(p); p != "" {
				role.Assign(gorbac.NewStdPermission(p))
			}
		}
	}
	for _, role := range roles {
		rbac.Add(role)
	}

	a.mu.Lock()
	a.rbac = rbac
	a.mu.Unlock()
}

// CheckPermission 任一角色拥有该权限即通过
func (a *RBACSrv) CheckPermission(roleKeys []string, permission string) bool {
	if permission == "" {
		return false
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, role := range roleKeys {
		if role == RoleAdmin {
			return true
		}
		if a.rbac.IsGranted(role, gorbac.NewStdPermission(AllPermission), nil) ||
			a.rbac.IsGranted(role, gorbac.NewStdPermission(permission), nil) {
			return true
		}
	}
	return false
}

// CheckAnyPermission 对应 hasAnyPermi, 多个权限以逗号分隔
func (a *RBACSrv) CheckAnyPermission(roleKeys []string, permissions string) bool {
	for _, p := range strings.Split(permissions, ",") {
		if a.CheckPermission(roleKeys, strings.TrimSpace(p)) {
			return true
		}
	}
	return false
}

// HasRole 对应 hasRole
func HasRole(roleKeys []string, role string) bool {
	for _, r := range roleKeys {
		if r == RoleAdmin || r == strings.TrimSpace(role) {
			return true
		}
	}
	return false
}
