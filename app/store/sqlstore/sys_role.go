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
		provider.stores.SysRoleStore = NewSysRoleStore(provider)
	})
}

type SysRoleStore struct {
	CommonFields
}

func NewSysRoleStore(provider SqlProviderAchieve) *SysRoleStore {
	repo := &SysRoleStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_ROLE)
	repo.SetAllColumns("role_id", "role_name", "role_key", "role_sort", "data_scope", "menu_check_strictly", "dept_check_strictly",
		"status", "del_flag", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *SysRoleStore) Create(ctx context.Context, data types.SysRole) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	if data.DataScope == "" {
		data.DataScope = types.DATA_SCOPE_ALL
	}
	if data.Status == "" {
		data.Status = types.STATUS_NORMAL
	}
	query := sq.Insert(s.GetTable()).
		Columns("role_name", "role_key", "role_sort", "data_scope", "menu_check_strictly", "dept_check_strictly",
			"status", "del_flag", "create_by", "create_time", "remark").
		Values(data.RoleName, data.RoleKey, data.RoleSort, data.DataScope, data.MenuCheckStrictly, data.DeptCheckStrictly,
			data.Status, types.SYS_NOT_DELETE, data.CreateBy, data.CreateTime, data.Remark)

	return insertReturning(s.GetMaster(ctx), query, "role_id")
}

func (s *SysRoleStore) Update(ctx context.Context, data types.SysRole) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"role_name":           data.RoleName,
			"role_key":            data.RoleKey,
			"role_sort":           data.RoleSort,
			"menu_check_strictly": data.MenuCheckStrictly,
			"dept_check_strictly": data.DeptCheckStrictly,
			"status":              data.Status,
			"remark":              data.Remark,
			"update_by":           data.UpdateBy,
			"update_time":         time.Now(),
		}).
		Where(sq.Eq{"role_id": data.RoleID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysRoleStore) Get(ctx context.Context, roleID int64) (*types.SysRole, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"role_id": roleID, "del_flag": types.SYS_NOT_DELETE})
	return getOne[types.SysRole](s.GetReplica(ctx), query)
}

func (s *SysRoleStore) GetByName(ctx context.Context, roleName string) (*types.SysRole, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"role_name": roleName, "del_flag": types.SYS_NOT_DELETE}).Limit(1)
	return getOne[types.SysRole](s.GetReplica(ctx), query)
}

func (s *SysRoleStore) GetByKey(ctx context.Context, roleKey string) (*types.SysRole, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"role_key": roleKey, "del_flag": types.SYS_NOT_DELETE}).Limit(1)
	return getOne[types.SysRole](s.GetReplica(ctx), query)
}

// joined 数据权限按角色下用户的部门过滤, 联表后需要去重
func (s *SysRoleStore) joined(columns ...string) sq.SelectBuilder {
	return sq.Select(columns...).
		From(s.GetTable() + " r").
		LeftJoin(types.TABLE_SYS_USER_ROLE.Name() + " ur ON ur.role_id = r.role_id").
		LeftJoin(types.TABLE_SYS_USER.Name() + " u ON u.user_id = ur.user_id").
		LeftJoin(types.TABLE_SYS_DEPT.Name() + " d ON d.dept_id = u.dept_id")
}

func (s *SysRoleStore) List(ctx context.Context, opts types.ListSysRoleOptions, c *types.Criterion) ([]types.SysRole, error) {
	columns := s.GetAllColumnsWithPrefix("r")
	columns[0] = "DISTINCT " + columns[0]
	query := s.joined(columns...)
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("r.role_sort ASC")
	}
	return selectAll[types.SysRole](s.GetReplica(ctx), query)
}

func (s *SysRoleStore) Total(ctx context.Context, opts types.ListSysRoleOptions, c *types.Criterion) (int64, error) {
	query := s.joined("COUNT(DISTINCT r.role_id)")
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *SysRoleStore) UpdateStatus(ctx context.Context, roleID int64, status, updateBy string) error {
	query := sq.Update(s.GetTable()).
		Set("status", status).
		Set("update_by", updateBy).
		Set("update_time", time.Now()).
		Where(sq.Eq{"role_id": roleID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysRoleStore) UpdateDataScope(ctx context.Context, data types.SysRole) error {
	query := sq.Update(s.GetTable()).
		Set("data_scope", data.DataScope).
		Set("dept_check_strictly", data.DeptCheckStrictly).
		Set("update_by", data.UpdateBy).
		Set("update_time", time.Now()).
		Where(sq.Eq{"role_id": data.RoleID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysRoleStore) Delete(ctx context.Context, roleIDs []int64, updateBy string) error {
	if len(roleIDs) == 0 {
		return nil
	}
	query := sq.Update(s.GetTable()).
		Set("del_flag", types.SYS_DELETED).
		Set("update_by", updateBy).
		Set("update_time", time.Now()).
		Where(sq.Eq{"role_id": roleIDs})
	return exec(s.GetMaster(ctx), query)
}
