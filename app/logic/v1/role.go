package v1

import (
	"context"
	"fmt"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
)

type RoleLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewRoleLogic(ctx context.Context, core *core.Core) *RoleLogic {
	return &RoleLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func checkRoleAllowed(roleID int64) error {
	if types.IsAdminRole(roleID) {
		return errors.Service("checkRoleAllowed", "不允许操作超级管理员角色")
	}
	return nil
}

func (l *RoleLogic) List(opts types.ListSysRoleOptions, c *types.Criterion) ([]types.SysRole, int64, error) {
	list, err := l.core.Store().SysRoleStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("RoleLogic.List.SysRoleStore.List", err)
	}
	total, err := l.core.Store().SysRoleStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("RoleLogic.List.SysRoleStore.Total", err)
	}
	return list, total, nil
}

// OptionSelect 角色下拉, 同样受数据权限限制
func (l *RoleLogic) OptionSelect() ([]types.SysRole, error) {
	c := &types.Criterion{
		Rule:  types.CriterionRule{DeptColumn: "d.dept_id", UserColumn: "u.user_id", UseScope: true},
		Scope: l.GetLoginUser().DataScope(),
	}
	list, err := l.core.Store().SysRoleStore().List(l.ctx, types.ListSysRoleOptions{}, c)
	if err != nil {
		return nil, internal("RoleLogic.OptionSelect.SysRoleStore.List", err)
	}
	return list, nil
}

func (l *RoleLogic) Get(roleID int64) (*types.SysRole, error) {
	if err := l.checkRoleDataScope(roleID); err != nil {
		return nil, err
	}
	role, err := l.core.Store().SysRoleStore().Get(l.ctx, roleID)
	if err != nil {
		return nil, notFoundOr("RoleLogic.Get.SysRoleStore.Get", err, "角色不存在")
	}
	return role, nil
}

func (l *RoleLogic) validate(role types.SysRole, action string) error {
	exist, err := l.core.Store().SysRoleStore().GetByName(l.ctx, role.RoleName)
	if err != nil && !isNotFound(err) {
		return internal("RoleLogic.validate.SysRoleStore.GetByName", err)
	}
	if exist != nil && exist.RoleID != role.RoleID {
		return errors.Service("RoleLogic.validate", fmt.Sprintf("%s角色'%s'失败，角色名称已存在", action, role.RoleName))
	}
	exist, err = l.core.Store().SysRoleStore().GetByKey(l.ctx, role.RoleKey)
	if err != nil && !isNotFound(err) {
		return internal("RoleLogic.validate.SysRoleStore.GetByKey", err)
	}
	if exist != nil && exist.RoleID != role.RoleID {
		return errors.Service("RoleLogic.validate", fmt.Sprintf("%s角色'%s'失败，角色权限已存在", action, role.RoleName))
	}
	return nil
}

func (l *RoleLogic) Create(role types.SysRole) error {
	if err := l.validate(role, "新增"); err != nil {
		return err
	}
	role.Created(l.OperName())
	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		roleID, err := l.core.Store().SysRoleStore().Create(ctx, role)
		if err != nil {
			return internal("RoleLogic.Create.SysRoleStore.Create", err)
		}
		if err = l.core.Store().SysRoleMenuStore().Create(ctx, roleID, role.MenuIDs); err != nil {
			return internal("RoleLogic.Create.SysRoleMenuStore.Create", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return l.core.ReloadRBAC(l.ctx)
}

func (l *RoleLogic) Update(role types.SysRole) error {
	if err := checkRoleAllowed(role.RoleID); err != nil {
		return err
	}
	if err := l.checkRoleDataScope(role.RoleID); err != nil {
		return err
	}
	if err := l.validate(role, "修改"); err != nil {
		return err
	}
	role.Updated(l.OperName())
	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().SysRoleStore().Update(ctx, role); err != nil {
			return internal("RoleLogic.Update.SysRoleStore.Update", err)
		}
		if err := l.core.Store().SysRoleMenuStore().DeleteByRoles(ctx, []int64{role.RoleID}); err != nil {
			return internal("RoleLogic.Update.SysRoleMenuStore.DeleteByRoles", err)
		}
		if err := l.core.Store().SysRoleMenuStore().Create(ctx, role.RoleID, role.MenuIDs); err != nil {
			return internal("RoleLogic.Update.SysRoleMenuStore.Create", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err = l.core.ReloadRBAC(l.ctx); err != nil {
		return err
	}
	return l.refreshSession()
}

// refreshSession 修改角色后刷新当前用户缓存的权限
func (l *RoleLogic) refreshSession() error {
	u := l.GetLoginUser()
	if u.IsAdmin() || u.Token == "" {
		return nil
	}
	user, err := l.core.Store().SysUserStore().Get(l.ctx, u.UserID)
	if err != nil {
		return internal("RoleLogic.refreshSession.SysUserStore.Get", err)
	}
	fresh, err := BuildLoginUser(l.ctx, l.core, user)
	if err != nil {
		return err
	}
	u.User = fresh.User
	u.Permissions = fresh.Permissions
	return l.core.Tokens().SetLoginUser(l.ctx, u)
}

// UpdateDataScope 仅自定义数据权限需要维护角色部门关联
func (l *RoleLogic) UpdateDataScope(role types.SysRole) error {
	if err := checkRoleAllowed(role.RoleID); err != nil {
		return err
	}
	if err := l.checkRoleDataScope(role.RoleID); err != nil {
		return err
	}
	role.Updated(l.OperName())
	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().SysRoleStore().UpdateDataScope(ctx, role); err != nil {
			return internal("RoleLogic.UpdateDataScope.SysRoleStore.UpdateDataScope", err)
		}
		if err := l.core.Store().SysRoleDeptStore().DeleteByRoles(ctx, []int64{role.RoleID}); err != nil {
			return internal("RoleLogic.UpdateDataScope.SysRoleDeptStore.DeleteByRoles", err)
		}
		if role.DataScope != types.DATA_SCOPE_CUSTOM {
			return nil
		}
		if err := l.core.Store().SysRoleDeptStore().Create(ctx, role.RoleID, role.DeptIDs); err != nil {
			return internal("RoleLogic.UpdateDataScope.SysRoleDeptStore.Create", err)
		}
		return nil
	})
}

func (l *RoleLogic) ChangeStatus(roleID int64, status string) error {
	if err := checkRoleAllowed(roleID); err != nil {
		return err
	}
	if err := l.checkRoleDataScope(roleID); err != nil {
		return err
	}
	if err := l.core.Store().SysRoleStore().UpdateStatus(l.ctx, roleID, status, l.OperName()); err != nil {
		return internal("RoleLogic.ChangeStatus.SysRoleStore.UpdateStatus", err)
	}
	return l.core.ReloadRBAC(l.ctx)
}

func (l *RoleLogic) Delete(roleIDs []int64) error {
	for _, id := range roleIDs {
		if err := checkRoleAllowed(id); err != nil {
			return err
		}
		role, err := l.Get(id)
		if err != nil {
			return err
		}
		count, err := l.core.Store().SysUserRoleStore().CountByRole(l.ctx, id)
		if err != nil {
			return internal("RoleLogic.Delete.SysUserRoleStore.CountByRole", err)
		}
		if count > 0 {
			return errors.Service("RoleLogic.Delete", fmt.Sprintf("%s已分配,不能删除", role.RoleName))
		}
	}
	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().SysRoleMenuStore().DeleteByRoles(ctx, roleIDs); err != nil {
			return internal("RoleLogic.Delete.SysRoleMenuStore.DeleteByRoles", err)
		}
		if err := l.core.Store().SysRoleDeptStore().DeleteByRoles(ctx, roleIDs); err != nil {
			return internal("RoleLogic.Delete.SysRoleDeptStore.DeleteByRoles", err)
		}
		if err := l.core.Store().SysRoleStore().Delete(ctx, roleIDs, l.OperName()); err != nil {
			return internal("RoleLogic.Delete.SysRoleStore.Delete", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return l.core.ReloadRBAC(l.ctx)
}

// AuthUsers 已分配(allocated=true)或未分配该角色的用户
func (l *RoleLogic) AuthUsers(roleID int64, allocated bool, opts types.ListSysUserOptions, c *types.Criterion) ([]types.SysUserWithDept, int64, error) {
	if allocated {
		opts.AllocatedRoleID = roleID
	} else {
		opts.UnallocatedRoleID = roleID
	}
	list, err := l.core.Store().SysUserStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("RoleLogic.AuthUsers.SysUserStore.List", err)
	}
	total, err := l.core.Store().SysUserStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("RoleLogic.AuthUsers.SysUserStore.Total", err)
	}
	return list, total, nil
}

func (l *RoleLogic) CancelAuthUsers(roleID int64, userIDs []int64) error {
	if err := l.core.Store().SysUserRoleStore().DeleteByRoleUsers(l.ctx, roleID, userIDs); err != nil {
		return internal("RoleLogic.CancelAuthUsers.SysUserRoleStore.DeleteByRoleUsers", err)
	}
	return nil
}

func (l *RoleLogic) SelectAuthUsers(roleID int64, userIDs []int64) error {
	if err := l.checkRoleDataScope(roleID); err != nil {
		return err
	}
	if err := l.core.Store().SysUserRoleStore().CreateByRole(l.ctx, roleID, userIDs); err != nil {
		return internal("RoleLogic.SelectAuthUsers.SysUserRoleStore.CreateByRole", err)
	}
	return nil
}
