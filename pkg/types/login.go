package types

import (
	"slices"
	"strings"
)

// LoginUser 登录会话, 以 login_tokens:<token> 保存在 redis 中
type LoginUser struct {
	UserID        int64    `json:"userId"`
	DeptID        int64    `json:"deptId"`
	Token         string   `json:"token"`
	LoginTime     int64    `json:"loginTime"`
	ExpireTime    int64    `json:"expireTime"`
	Ipaddr        string   `json:"ipaddr"`
	LoginLocation string   `json:"loginLocation"`
	Browser       string   `json:"browser"`
	OS            string   `json:"os"`
	Permissions   []string `json:"permissions"`
	User          SysUser  `json:"user"`
	DeptName      string   `json:"deptName"`
}

func (u *LoginUser) IsAdmin() bool {
	if u == nil {
		return false
	}
	if IsAdminUser(u.UserID) {
		return true
	}
	return slices.ContainsFunc(u.User.Roles, func(r SysRole) bool {
		return r.RoleKey == ADMIN_ROLE_KEY
	})
}

func (u *LoginUser) UserName() string {
	if u == nil {
		return ""
	}
	return u.User.UserName
}

func (u *LoginUser) RoleKeys() []string {
	var keys []string
	for _, r := range u.User.Roles {
		if r.Status != "" && r.Status != STATUS_NORMAL {
			continue
		}
		keys = append(keys, r.RoleKey)
	}
	return keys
}

// DataScope 当前登录用户的数据权限
func (u *LoginUser) DataScope() *DataScope {
	scope := &DataScope{
		UserID:  u.UserID,
		DeptID:  u.DeptID,
		IsAdmin: u.IsAdmin(),
	}
	for _, r := range u.User.Roles {
		scope.Roles = append(scope.Roles, ScopeRole{
			RoleID:    r.RoleID,
			DataScope: r.DataScope,
			Status:    r.Status,
		})
	}
	return scope
}

// SysUserOnline 在线用户
type SysUserOnline struct {
	TokenID       string `json:"tokenId"`
	DeptName      string `json:"deptName"`
	UserName      string `json:"userName"`
	Ipaddr        string `json:"ipaddr"`
	LoginLocation string `json:"loginLocation"`
	Browser       string `json:"browser"`
	OS            string `json:"os"`
	LoginTime     int64  `json:"loginTime"`
}

// RouterVo 前端路由
type RouterVo struct {
	Name       string     `json:"name,omitempty"`
	Path       string     `json:"path"`
	Hidden     bool       `json:"hidden"`
	Redirect   string     `json:"redirect,omitempty"`
	Component  string     `json:"component,omitempty"`
	Query      string     `json:"query,omitempty"`
	AlwaysShow bool       `json:"alwaysShow,omitempty"`
	Meta       *MetaVo    `json:"meta,omitempty"`
	Children   []RouterVo `json:"children,omitempty"`
}

type MetaVo struct {
	Title   string `json:"title"`
	Icon    string `json:"icon"`
	NoCache bool   `json:"noCache"`
	Link    string `json:"link,omitempty"`
}

// TreeSelect 部门/菜单下拉树
type TreeSelect struct {
	ID       int64        `json:"id"`
	Label    string       `json:"label"`
	Disabled bool         `json:"disabled"`
	Children []TreeSelect `json:"children,omitempty"`
}

func IsHTTP(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}
