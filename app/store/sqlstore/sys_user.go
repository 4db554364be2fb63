package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/exb-museum/exb-admin/pkg/register"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.SysUserStore = NewSysUserStore(provider)
	})
}

// SysUserStore 处理 sys_user 表
type SysUserStore struct {
	CommonFields
}

func NewSysUserStore(provider SqlProviderAchieve) *SysUserStore {
	repo := &SysUserStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_USER)
	repo.SetAllColumns("user_id", "dept_id", "user_name", "nick_name", "user_type", "email", "phonenumber", "sex", "avatar",
		"password", "status", "del_flag", "login_ip", "login_date", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

// Create 新增用户, 返回用户ID
func (s *SysUserStore) Create(ctx context.Context, data types.SysUser) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	if data.UserType == "" {
		data.UserType = "00"
	}
	if data.Status == "" {
		data.Status = types.STATUS_NORMAL
	}
	query := sq.Insert(s.GetTable()).
		Columns("dept_id", "user_name", "nick_name", "user_type", "email", "phonenumber", "sex", "avatar", "password",
			"status", "del_flag", "create_by", "create_time", "remark").
		Values(data.DeptID, data.UserName, data.NickName, data.UserType, data.Email, data.Phonenumber, data.Sex, data.Avatar, data.Password,
			data.Status, types.SYS_NOT_DELETE, data.CreateBy, data.CreateTime, data.Remark)

	return insertReturning(s.GetMaster(ctx), query, "user_id")
}

// Update 更新用户基本信息, 不包含密码与头像
func (s *SysUserStore) Update(ctx context.Context, data types.SysUser) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"dept_id":     data.DeptID,
			"nick_name":   data.NickName,
			"email":       data.Email,
			"phonenumber": data.Phonenumber,
			"sex":         data.Sex,
			"status":      data.Status,
			"remark":      data.Remark,
			"update_by":   data.UpdateBy,
			"update_time": time.Now(),
		}).
		Where(sq.Eq{"user_id": data.UserID})

	return exec(s.GetMaster(ctx), query)
}

func (s *SysUserStore) Get(ctx context.Context, userID int64) (*types.SysUser, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"user_id": userID, "del_flag": types.SYS_NOT_DELETE})
	return getOne[types.SysUser](s.GetReplica(ctx), query)
}

func (s *SysUserStore) GetByUserName(ctx context.Context, userName string, withDeleted bool) (*types.SysUser, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"user_name": userName})
	if !withDeleted {
		query = query.Where(sq.Eq{"del_flag": types.SYS_NOT_DELETE})
	}
	// 同名时优先返回未删除的记录
	query = query.OrderBy("del_flag ASC", "user_id DESC").Limit(1)
	return getOne[types.SysUser](s.GetReplica(ctx), query)
}

func (s *SysUserStore) GetByPhonenumber(ctx context.Context, phonenumber string) (*types.SysUser, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"phonenumber": phonenumber, "del_flag": types.SYS_NOT_DELETE}).Limit(1)
	return getOne[types.SysUser](s.GetReplica(ctx), query)
}

func (s *SysUserStore) GetByEmail(ctx context.Context, email string) (*types.SysUser, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"email": email, "del_flag": types.SYS_NOT_DELETE}).Limit(1)
	return getOne[types.SysUser](s.GetReplica(ctx), query)
}

func (s *SysUserStore) joined(columns ...string) sq.SelectBuilder {
	return sq.Select(columns...).
		From(s.GetTable() + " u").
		LeftJoin(types.TABLE_SYS_DEPT.Name() + " d ON d.dept_id = u.dept_id")
}

// List 用户列表, 联表部门名称
func (s *SysUserStore) List(ctx context.Context, opts types.ListSysUserOptions, c *types.Criterion) ([]types.SysUserWithDept, error) {
	columns := append(s.GetAllColumnsWithPrefix("u"), "COALESCE(d.dept_name, '') AS dept_name", "COALESCE(d.leader, '') AS dept_leader")
	query := s.joined(columns...)
	opts.Apply(&query)
	c.Apply(&query)

	return selectAll[types.SysUserWithDept](s.GetReplica(ctx), query)
}

func (s *SysUserStore) Total(ctx context.Context, opts types.ListSysUserOptions, c *types.Criterion) (int64, error) {
	query := s.joined("COUNT(*)")
	opts.Apply(&query)
	c.Count(&query)

	return countOf(s.GetReplica(ctx), query)
}

func (s *SysUserStore) UpdateStatus(ctx context.Context, userID int64, status, updateBy string) error {
	query := sq.Update(s.GetTable()).
		Set("status", status).
		Set("update_by", updateBy).
		Set("update_time", time.Now()).
		Where(sq.Eq{"user_id": userID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysUserStore) UpdatePassword(ctx context.Context, userID int64, password, updateBy string) error {
	query := sq.Update(s.GetTable()).
		Set("password", password).
		Set("update_by", updateBy).
		Set("update_time", time.Now()).
		Where(sq.Eq{"user_id": userID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysUserStore) UpdateAvatar(ctx context.Context, userID int64, avatar string) error {
	query := sq.Update(s.GetTable()).
		Set("avatar", avatar).
		Set("update_time", time.Now()).
		Where(sq.Eq{"user_id": userID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysUserStore) UpdateLoginInfo(ctx context.Context, userID int64, ip string, loginDate time.Time) error {
	query := sq.Update(s.GetTable()).
		Set("login_ip", ip).
		Set("login_date", loginDate).
		Where(sq.Eq{"user_id": userID})
	return exec(s.GetMaster(ctx), query)
}

// UpdateProfile 个人中心可修改的字段
func (s *SysUserStore) UpdateProfile(ctx context.Context, data types.SysUser) error {
	query := sq.Update(s.GetTable()).
		Set("nick_name", data.NickName).
		Set("phonenumber", data.Phonenumber).
		Set("email", data.Email).
		Set("sex", data.Sex).
		Set("update_by", data.UpdateBy).
		Set("update_time", time.Now()).
		Where(sq.Eq{"user_id": data.UserID})
	return exec(s.GetMaster(ctx), query)
}

// Delete 逻辑删除
func (s *SysUserStore) Delete(ctx context.Context, userIDs []int64, updateBy string) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := sq.Update(s.GetTable()).
		Set("del_flag", types.SYS_DELETED).
		Set("update_by", updateBy).
		Set("update_time", time.Now()).
		Where(sq.Eq{"user_id": userIDs})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysUserStore) CountByDept(ctx context.Context, deptID int64) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable()).
		Where(sq.Eq{"dept_id": deptID, "del_flag": types.SYS_NOT_DELETE})
	return countOf(s.GetReplica(ctx), query)
}
