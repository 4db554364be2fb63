package v1

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/excel"
	"github.com/exb-museum/exb-admin/pkg/security"
	"github.com/exb-museum/exb-admin/pkg/types"
)

type UserLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewUserLogic(ctx context.Context, core *core.Core) *UserLogic {
	return &UserLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func checkUserAllowed(userID int64) error {
	if types.IsAdminUser(userID) {
		return errors.Service("checkUserAllowed", "不允许操作超级管理员用户")
	}
	return nil
}

func (l *UserLogic) List(opts types.ListSysUserOptions, c *types.Criterion) ([]types.SysUserWithDept, int64, error) {
	list, err := l.core.Store().SysUserStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("UserLogic.List.SysUserStore.List", err)
	}
	total, err := l.core.Store().SysUserStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("UserLogic.List.SysUserStore.Total", err)
	}
	for i := range list {
		list[i].Dept = &types.SysDept{DeptID: list[i].DeptID, DeptName: list[i].DeptName, Leader: list[i].DeptLeader}
	}
	return list, total, nil
}

type UserDetail struct {
	User    *types.SysUser
	Roles   []types.SysRole
	Posts   []types.SysPost
	RoleIDs []int64
	PostIDs []int64
}

// roleOptions 可分配的角色, 非管理员看不到超级管理员角色
func (l *UserLogic) roleOptions() ([]types.SysRole, error) {
	roles, err := NewRoleLogic(l.ctx, l.core).OptionSelect()
	if err != nil {
		return nil, err
	}
	if l.IsAdmin() {
		return roles, nil
	}
	return lo.Filter(roles, func(r types.SysRole, _ int) bool { return !r.IsAdmin() }), nil
}

// Detail 新增时 userID 为 0, 只返回角色与岗位选项
func (l *UserLogic) Detail(userID int64) (*UserDetail, error) {
	if err := l.checkUserDataScope(userID); err != nil {
		return nil, err
	}
	roles, err := l.roleOptions()
	if err != nil {
		return nil, err
	}
	posts, err := l.core.Store().SysPostStore().List(l.ctx, types.ListSysPostOptions{}, nil)
	if err != nil {
		return nil, internal("UserLogic.Detail.SysPostStore.List", err)
	}
	res := &UserDetail{Roles: roles, Posts: posts}
	if userID == 0 {
		return res, nil
	}

	if res.User, err = l.Get(userID); err != nil {
		return nil, err
	}
	res.RoleIDs = lo.Map(res.User.Roles, func(r types.SysRole, _ int) int64 { return r.RoleID })
	userPosts, err := l.core.Store().SysPostStore().List(l.ctx, types.ListSysPostOptions{UserID: userID}, nil)
	if err != nil {
		return nil, internal("UserLogic.Detail.SysPostStore.List", err)
	}
	res.PostIDs = lo.Map(userPosts, func(p types.SysPost, _ int) int64 { return p.PostID })
	return res, nil
}

// Get 用户连带部门与角色
func (l *UserLogic) Get(userID int64) (*types.SysUser, error) {
	user, err := l.core.Store().SysUserStore().Get(l.ctx, userID)
	if err != nil {
		return nil, notFoundOr("UserLogic.Get.SysUserStore.Get", err, "用户不存在")
	}
	if user.Roles, err = l.core.Store().SysRoleStore().List(l.ctx, types.ListSysRoleOptions{UserID: userID}, nil); err != nil {
		return nil, internal("UserLogic.Get.SysRoleStore.List", err)
	}
	if user.DeptID != 0 {
		dept, err := l.core.Store().SysDeptStore().Get(l.ctx, user.DeptID)
		if err != nil && !isNotFound(err) {
			return nil, internal("UserLogic.Get.SysDeptStore.Get", err)
		}
		user.Dept = dept
	}
	return user, nil
}

// checkUnique 登录账号、手机号码、邮箱唯一
func (l *UserLogic) checkUnique(user types.SysUser, action string) error {
	if user.UserName != "" {
		exist, err := l.core.Store().SysUserStore().GetByUserName(l.ctx, user.UserName, false)
		if err != nil && !isNotFound(err) {
			return internal("UserLogic.checkUnique.SysUserStore.GetByUserName", err)
		}
		if exist != nil && exist.UserID != user.UserID {
			return errors.Service("UserLogic.checkUnique", fmt.Sprintf("%s用户'%s'失败，登录账号已存在", action, user.UserName))
		}
	}
	if user.Phonenumber != "" {
		exist, err := l.core.Store().SysUserStore().GetByPhonenumber(l.ctx, user.Phonenumber)
		if err != nil && !isNotFound(err) {
			return internal("UserLogic.checkUnique.SysUserStore.GetByPhonenumber", err)
		}
		if exist != nil && exist.UserID != user.UserID {
			return errors.Service("UserLogic.checkUnique", fmt.Sprintf("%s用户'%s'失败，手机号码已存在", action, user.UserName))
		}
	}
	if user.Email != "" {
		exist, err := l.core.Store().SysUserStore().GetByEmail(l.ctx, user.Email)
		if err != nil && !isNotFound(err) {
			return internal("UserLogic.checkUnique.SysUserStore.GetByEmail", err)
		}
		if exist != nil && exist.UserID != user.UserID {
			return errors.Service("UserLogic.checkUnique", fmt.Sprintf("%s用户'%s'失败，邮箱账号已存在", action, user.UserName))
		}
	}
	return nil
}

func (l *UserLogic) rewriteLinks(ctx context.Context, userID int64, roleIDs, postIDs []int64) error {
	if err := l.core.Store().SysUserRoleStore().DeleteByUsers(ctx, []int64{userID}); err != nil {
		return internal("UserLogic.rewriteLinks.SysUserRoleStore.DeleteByUsers", err)
	}
	if err := l.core.Store().SysUserRoleStore().Create(ctx, userID, roleIDs); err != nil {
		return internal("UserLogic.rewriteLinks.SysUserRoleStore.Create", err)
	}
	if err := l.core.Store().SysUserPostStore().DeleteByUsers(ctx, []int64{userID}); err != nil {
		return internal("UserLogic.rewriteLinks.SysUserPostStore.DeleteByUsers", err)
	}
	if err := l.core.Store().SysUserPostStore().Create(ctx, userID, postIDs); err != nil {
		return internal("UserLogic.rewriteLinks.SysUserPostStore.Create", err)
	}
	return nil
}

func (l *UserLogic) Create(user types.SysUser, password string) error {
	if err := l.checkDeptDataScope(user.DeptID); err != nil {
		return err
	}
	if err := l.checkRoleDataScope(user.RoleIDs...); err != nil {
		return err
	}
	if err := l.checkUnique(user, "新增"); err != nil {
		return err
	}
	encoded, err := security.EncryptPassword(password)
	if err != nil {
		return internal("UserLogic.Create.EncryptPassword", err)
	}
	user.Password = encoded
	user.Created(l.OperName())

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		userID, err := l.core.Store().SysUserStore().Create(ctx, user)
		if err != nil {
			return internal("UserLogic.Create.SysUserStore.Create", err)
		}
		return l.rewriteLinks(ctx, userID, user.RoleIDs, user.PostIDs)
	})
}

func (l *UserLogic) Update(user types.SysUser) error {
	if err := checkUserAllowed(user.UserID); err != nil {
		return err
	}
	if err := l.checkUserDataScope(user.UserID); err != nil {
		return err
	}
	if err := l.checkDeptDataScope(user.DeptID); err != nil {
		return err
	}
	if err := l.checkRoleDataScope(user.RoleIDs...); err != nil {
		return err
	}
	if err := l.checkUnique(user, "修改"); err != nil {
		return err
	}
	user.Updated(l.OperName())

	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().SysUserStore().Update(ctx, user); err != nil {
			return internal("UserLogic.Update.SysUserStore.Update", err)
		}
		return l.rewriteLinks(ctx, user.UserID, user.RoleIDs, user.PostIDs)
	})
}

func (l *UserLogic) Delete(userIDs []int64) error {
	if slices.Contains(userIDs, l.GetLoginUser().UserID) {
		return errors.Service("UserLogic.Delete", "当前用户不能删除")
	}
	for _, id := range userIDs {
		if err := checkUserAllowed(id); err != nil {
			return err
		}
		if err := l.checkUserDataScope(id); err != nil {
			return err
		}
	}
	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().SysUserRoleStore().DeleteByUsers(ctx, userIDs); err != nil {
			return internal("UserLogic.Delete.SysUserRoleStore.DeleteByUsers", err)
		}
		if err := l.core.Store().SysUserPostStore().DeleteByUsers(ctx, userIDs); err != nil {
			return internal("UserLogic.Delete.SysUserPostStore.DeleteByUsers", err)
		}
		if err := l.core.Store().SysUserStore().Delete(ctx, userIDs, l.OperName()); err != nil {
			return internal("UserLogic.Delete.SysUserStore.Delete", err)
		}
		return nil
	})
}

func (l *UserLogic) ResetPwd(userID int64, password string) error {
	if err := checkUserAllowed(userID); err != nil {
		return err
	}
	if err := l.checkUserDataScope(userID); err != nil {
		return err
	}
	encoded, err := security.EncryptPassword(password)
	if err != nil {
		return internal("UserLogic.ResetPwd.EncryptPassword", err)
	}
	if err = l.core.Store().SysUserStore().UpdatePassword(l.ctx, userID, encoded, l.OperName()); err != nil {
		return internal("UserLogic.ResetPwd.SysUserStore.UpdatePassword", err)
	}
	return nil
}

func (l *UserLogic) ChangeStatus(userID int64, status string) error {
	if err := checkUserAllowed(userID); err != nil {
		return err
	}
	if err := l.checkUserDataScope(userID); err != nil {
		return err
	}
	if err := l.core.Store().SysUserStore().UpdateStatus(l.ctx, userID, status, l.OperName()); err != nil {
		return internal("UserLogic.ChangeStatus.SysUserStore.UpdateStatus", err)
	}
	return nil
}

// AuthRole 用户信息与全部角色, 已分配的角色 flag 为 true
func (l *UserLogic) AuthRole(userID int64) (*types.SysUser, []types.SysRole, error) {
	if err := l.checkUserDataScope(userID); err != nil {
		return nil, nil, err
	}
	user, err := l.Get(userID)
	if err != nil {
		return nil, nil, err
	}
	roles, err := l.roleOptions()
	if err != nil {
		return nil, nil, err
	}
	owned := lo.SliceToMap(user.Roles, func(r types.SysRole) (int64, bool) { return r.RoleID, true })
	for i := range roles {
		roles[i].Flag = owned[roles[i].RoleID]
	}
	return user, roles, nil
}

func (l *UserLogic) InsertAuthRole(userID int64, roleIDs []int64) error {
	if err := l.checkUserDataScope(userID); err != nil {
		return err
	}
	if err := l.checkRoleDataScope(roleIDs...); err != nil {
		return err
	}
	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().SysUserRoleStore().DeleteByUsers(ctx, []int64{userID}); err != nil {
			return internal("UserLogic.InsertAuthRole.SysUserRoleStore.DeleteByUsers", err)
		}
		if err := l.core.Store().SysUserRoleStore().Create(ctx, userID, roleIDs); err != nil {
			return internal("UserLogic.InsertAuthRole.SysUserRoleStore.Create", err)
		}
		return nil
	})
}

// Import 逐行导入, updateSupport 为 true 时按登录账号覆盖已存在的用户
func (l *UserLogic) Import(r io.Reader, updateSupport bool) (string, error) {
	rows, err := excel.Import[types.SysUser](r, "用户数据")
	if err != nil {
		return "", errors.New("UserLogic.Import.excel.Import", err.Error(), err)
	}
	if len(rows) == 0 {
		return "", errors.Service("UserLogic.Import", "导入用户数据不能为空！")
	}
	initPassword, err := GetConfigValue(l.ctx, l.core, types.CONFIG_INIT_PASSWORD)
	if err != nil {
		return "", err
	}

	var res ImportResult
	for _, row := range rows {
		row.UserName = strings.TrimSpace(row.UserName)
		if err := l.importRow(row, updateSupport, initPassword, &res); err != nil {
			msg := err.Error()
			if ce, ok := errors.As(err); ok {
				msg = ce.Message()
			}
			res.Failure("账号 %s 导入失败：%s", row.UserName, msg)
		}
	}
	return res.UserMessage("UserLogic.Import")
}

func (l *UserLogic) importRow(row types.SysUser, updateSupport bool, initPassword string, res *ImportResult) error {
	if row.UserName == "" {
		return fmt.Errorf("登录名称不能为空")
	}
	exist, err := l.core.Store().SysUserStore().GetByUserName(l.ctx, row.UserName, false)
	if err != nil && !isNotFound(err) {
		return internal("UserLogic.importRow.SysUserStore.GetByUserName", err)
	}
	switch {
	case exist == nil:
		if err = l.checkDeptDataScope(row.DeptID); err != nil {
			return err
		}
		if err = l.checkUnique(row, "新增"); err != nil {
			return err
		}
		if row.Password, err = security.EncryptPassword(initPassword); err != nil {
			return internal("UserLogic.importRow.EncryptPassword", err)
		}
		row.Created(l.OperName())
		if _, err = l.core.Store().SysUserStore().Create(l.ctx, row); err != nil {
			return internal("UserLogic.importRow.SysUserStore.Create", err)
		}
		res.Success("账号 %s 导入成功", row.UserName)
	case updateSupport:
		if err = checkUserAllowed(exist.UserID); err != nil {
			return err
		}
		if err = l.checkUserDataScope(exist.UserID); err != nil {
			return err
		}
		if err = l.checkDeptDataScope(row.DeptID); err != nil {
			return err
		}
		row.UserID = exist.UserID
		if err = l.checkUnique(row, "修改"); err != nil {
			return err
		}
		row.Updated(l.OperName())
		if err = l.core.Store().SysUserStore().Update(l.ctx, row); err != nil {
			return internal("UserLogic.importRow.SysUserStore.Update", err)
		}
		res.Success("账号 %s 更新成功", row.UserName)
	default:
		res.Failure("账号 %s 已存在", row.UserName)
	}
	return nil
}

// Profile 个人中心
type Profile struct {
	User      *types.SysUser
	RoleGroup string
	PostGroup string
}

func (l *UserLogic) Profile() (*Profile, error) {
	user, err := l.Get(l.GetLoginUser().UserID)
	if err != nil {
		return nil, err
	}
	posts, err := l.core.Store().SysPostStore().List(l.ctx, types.ListSysPostOptions{UserID: user.UserID}, nil)
	if err != nil {
		return nil, internal("UserLogic.Profile.SysPostStore.List", err)
	}
	return &Profile{
		User:      user,
		RoleGroup: strings.Join(lo.Map(user.Roles, func(r types.SysRole, _ int) string { return r.RoleName }), ","),
		PostGroup: strings.Join(lo.Map(posts, func(p types.SysPost, _ int) string { return p.PostName }), ","),
	}, nil
}

// refreshLoginUser 个人信息变更后同步会话缓存
func (l *UserLogic) refreshLoginUser(update func(u *types.LoginUser)) error {
	u := l.GetLoginUser()
	update(u)
	if err := l.core.Tokens().SetLoginUser(l.ctx, u); err != nil {
		return internal("UserLogic.refreshLoginUser.Tokens.SetLoginUser", err)
	}
	return nil
}

func (l *UserLogic) UpdateProfile(user types.SysUser) error {
	current := l.GetLoginUser()
	user.UserID = current.UserID
	user.UserName = current.UserName()
	if err := l.checkUnique(user, "修改"); err != nil {
		return err
	}
	user.Updated(l.OperName())
	if err := l.core.Store().SysUserStore().UpdateProfile(l.ctx, user); err != nil {
		return internal("UserLogic.UpdateProfile.SysUserStore.UpdateProfile", err)
	}
	return l.refreshLoginUser(func(u *types.LoginUser) {
		u.User.NickName = user.NickName
		u.User.Phonenumber = user.Phonenumber
		u.User.Email = user.Email
		u.User.Sex = user.Sex
	})
}

func (l *UserLogic) UpdatePwd(oldPassword, newPassword string) error {
	user, err := l.core.Store().SysUserStore().Get(l.ctx, l.GetLoginUser().UserID)
	if err != nil {
		return notFoundOr("UserLogic.UpdatePwd.SysUserStore.Get", err, "用户不存在")
	}
	if !security.MatchesPassword(oldPassword, user.Password) {
		return errors.Service("UserLogic.UpdatePwd", "修改密码失败，旧密码错误")
	}
	if security.MatchesPassword(newPassword, user.Password) {
		return errors.Service("UserLogic.UpdatePwd", "新密码不能与旧密码相同")
	}
	encoded, err := security.EncryptPassword(newPassword)
	if err != nil {
		return internal("UserLogic.UpdatePwd.EncryptPassword", err)
	}
	if err = l.core.Store().SysUserStore().UpdatePassword(l.ctx, user.UserID, encoded, l.OperName()); err != nil {
		return internal("UserLogic.UpdatePwd.SysUserStore.UpdatePassword", err)
	}
	return nil
}

// UpdateAvatar 只允许图片, 旧头像保存在本系统时一并删除
func (l *UserLogic) UpdateAvatar(fh *multipart.FileHeader) (string, error) {
	uploader := NewUploadLogic(l.ctx, l.core)
	file, err := uploader.Upload(fh, UPLOAD_DIR_AVATAR, "bmp", "gif", "jpg", "jpeg", "png")
	if err != nil {
		return "", err
	}
	u := l.GetLoginUser()
	if err = l.core.Store().SysUserStore().UpdateAvatar(l.ctx, u.UserID, file.URL); err != nil {
		return "", internal("UserLogic.UpdateAvatar.SysUserStore.UpdateAvatar", err)
	}
	if old := u.User.Avatar; old != "" {
		uploader.Remove(old)
	}
	if err = l.refreshLoginUser(func(u *types.LoginUser) { u.User.Avatar = file.URL }); err != nil {
		return "", err
	}
	return file.URL, nil
}
