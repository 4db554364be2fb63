package v1

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/i18n"
	"github.com/exb-museum/exb-admin/pkg/types"
)

type _userInfo struct {
	ctx  context.Context
	core *core.Core
	u    *types.LoginUser
}

func (u *_userInfo) GetLoginUser() *types.LoginUser {
	return u.u
}

// OperName 写入 create_by / update_by
func (u *_userInfo) OperName() string {
	return u.u.UserName()
}

func (u *_userInfo) IsAdmin() bool {
	return u.u.IsAdmin()
}

// checkUserDataScope 非管理员只能操作数据权限范围内的用户
func (u *_userInfo) checkUserDataScope(userID int64) error {
	if u.u.IsAdmin() || userID == 0 {
		return nil
	}
	c := &types.Criterion{
		Rule:  types.CriterionRule{DeptColumn: "d.dept_id", UserColumn: "u.user_id", UseScope: true},
		Scope: u.u.DataScope(),
	}
	total, err := u.core.Store().SysUserStore().Total(u.ctx, types.ListSysUserOptions{UserID: userID}, c)
	if err != nil {
		return errors.New("checkUserDataScope.SysUserStore.Total", i18n.ERROR_INTERNAL, err)
	}
	if total == 0 {
		return errors.Service("checkUserDataScope", "没有权限访问用户数据！").Code(http.StatusForbidden)
	}
	return nil
}

func (u *_userInfo) checkRoleDataScope(roleIDs ...int64) error {
	if u.u.IsAdmin() {
		return nil
	}
	for _, roleID := range roleIDs {
		c := &types.Criterion{
			Rule:  types.CriterionRule{DeptColumn: "d.dept_id", UserColumn: "u.user_id", UseScope: true},
			Scope: u.u.DataScope(),
		}
		total, err := u.core.Store().SysRoleStore().Total(u.ctx, types.ListSysRoleOptions{RoleID: roleID}, c)
		if err != nil {
			return errors.New("checkRoleDataScope.SysRoleStore.Total", i18n.ERROR_INTERNAL, err)
		}
		if total == 0 {
			return errors.Service("checkRoleDataScope", "没有权限访问角色数据！").Code(http.StatusForbidden)
		}
	}
	return nil
}

func (u *_userInfo) checkDeptDataScope(deptID int64) error {
	if u.u.IsAdmin() || deptID == 0 {
		return nil
	}
	c := &types.Criterion{
		Rule:  types.CriterionRule{DeptColumn: "dept_id", UseScope: true},
		Scope: u.u.DataScope(),
	}
	list, err := u.core.Store().SysDeptStore().List(u.ctx, types.ListSysDeptOptions{DeptID: deptID}, c)
	if err != nil {
		return errors.New("checkDeptDataScope.SysDeptStore.List", i18n.ERROR_INTERNAL, err)
	}
	if len(list) == 0 {
		return errors.Service("checkDeptDataScope", "没有权限访问部门数据！").Code(http.StatusForbidden)
	}
	return nil
}

func SetupUserInfo(ctx context.Context, core *core.Core) UserInfo {
	user, ok := InjectLoginUser(ctx)
	if !ok {
		slog.Error("Not found login user in context", slog.String("component", "logic.v1.setupUserInfo"))
		user = &types.LoginUser{}
	}
	return &_userInfo{
		ctx:  ctx,
		u:    user,
		core: core,
	}
}

type UserInfo interface {
	GetLoginUser() *types.LoginUser
	OperName() string
	IsAdmin() bool
	checkUserDataScope(userID int64) error
	checkRoleDataScope(roleIDs ...int64) error
	checkDeptDataScope(deptID int64) error
}
