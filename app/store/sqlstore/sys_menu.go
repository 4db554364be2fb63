package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/exb-museum/exb-admin/app/store"
	"github.com/exb-museum/exb-admin/pkg/register"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.SysMenuStore = NewSysMenuStore(provider)
	})
}

type SysMenuStore struct {
	CommonFields
}

func NewSysMenuStore(provider SqlProviderAchieve) *SysMenuStore {
	repo := &SysMenuStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_MENU)
	repo.SetAllColumns("menu_id", "menu_name", "parent_id", "order_num", "path", "component", "query", "is_frame", "is_cache",
		"menu_type", "visible", "status", "perms", "icon", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *SysMenuStore) Create(ctx context.Context, data types.SysMenu) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("menu_name", "parent_id", "order_num", "path", "component", "query", "is_frame", "is_cache",
			"menu_type", "visible", "status", "perms", "icon", "create_by", "create_time", "remark").
		Values(data.MenuName, data.ParentID, data.OrderNum, data.Path, data.Component, data.Query, data.IsFrame, data.IsCache,
			data.MenuType, data.Visible, data.Status, data.Perms, data.Icon, data.CreateBy, data.CreateTime, data.Remark)

	return insertReturning(s.GetMaster(ctx), query, "menu_id")
}

func (s *SysMenuStore) Update(ctx context.Context, data types.SysMenu) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"menu_name":   data.MenuName,
			"parent_id":   data.ParentID,
			"order_num":   data.OrderNum,
			"path":        data.Path,
			"component":   data.Component,
			"query":       data.Query,
			"is_frame":    data.IsFrame,
			"is_cache":    data.IsCache,
			"menu_type":   data.MenuType,
			"visible":     data.Visible,
			"status":      data.Status,
			"perms":       data.Perms,
			"icon":        data.Icon,
			"remark":      data.Remark,
			"update_by":   data.UpdateBy,
			"update_time": time.Now(),
		}).
		Where(sq.Eq{"menu_id": data.MenuID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysMenuStore) Get(ctx context.Context, menuID int64) (*types.SysMenu, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"menu_id": menuID})
	return getOne[types.SysMenu](s.GetReplica(ctx), query)
}

func (s *SysMenuStore) GetByName(ctx context.Context, parentID int64, menuName string) (*types.SysMenu, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"parent_id": parentID, "menu_name": menuName}).Limit(1)
	return getOne[types.SysMenu](s.GetReplica(ctx), query)
}

func (s *SysMenuStore) List(ctx context.Context, opts types.ListSysMenuOptions) ([]types.SysMenu, error) {
	query := sq.Select(s.GetAllColumnsWithPrefix("m")...).From(s.GetTable() + " m")
	opts.Apply(&query)
	query = query.OrderBy("m.parent_id ASC", "m.order_num ASC")
	return selectAll[types.SysMenu](s.GetReplica(ctx), query)
}

func (s *SysMenuStore) CountChildren(ctx context.Context, menuID int64) (int64, error) {
	return countOf(s.GetReplica(ctx), sq.Select("COUNT(*)").From(s.GetTable()).Where(sq.Eq{"parent_id": menuID}))
}

func (s *SysMenuStore) Delete(ctx context.Context, menuID int64) error {
	return exec(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Eq{"menu_id": menuID}))
}

func (s *SysMenuStore) ListIDsByRole(ctx context.Context, roleID int64, checkStrictly bool) ([]int64, error) {
	query := sq.Select("m.menu_id").From(s.GetTable()+" m").
		Join(types.TABLE_SYS_ROLE_MENU.Name()+" rm ON rm.menu_id = m.menu_id").
		Where(sq.Eq{"rm.role_id": roleID})
	if checkStrictly {
		query = query.Where(sq.Expr("m.menu_id NOT IN (SELECT m2.parent_id FROM "+s.GetTable()+" m2 JOIN "+
			types.TABLE_SYS_ROLE_MENU.Name()+" rm2 ON rm2.menu_id = m2.menu_id AND rm2.role_id = ?)", roleID))
	}
	query = query.OrderBy("m.parent_id", "m.order_num")
	return selectAll[int64](s.GetReplica(ctx), query)
}

// ListPermsByUser 用户所有正常角色下正常菜单的权限标识
func (s *SysMenuStore) ListPermsByUser(ctx context.Context, userID int64) ([]string, error) {
	query := sq.Select("DISTINCT m.perms").From(s.GetTable()+" m").
		Join(types.TABLE_SYS_ROLE_MENU.Name()+" rm ON rm.menu_id = m.menu_id").
		Join(types.TABLE_SYS_USER_ROLE.Name()+" ur ON ur.role_id = rm.role_id").
		Join(types.TABLE_SYS_ROLE.Name()+" r ON r.role_id = ur.role_id").
		Where(sq.Eq{"ur.user_id": userID, "m.status": types.STATUS_NORMAL, "r.status": types.STATUS_NORMAL, "r.del_flag": types.SYS_NOT_DELETE}).
		Where(sq.NotEq{"m.perms": ""})
	return selectAll[string](s.GetReplica(ctx), query)
}

// ListRolePermissions 用于构建 RBAC 授权表
func (s *SysMenuStore) ListRolePermissions(ctx context.Context) ([]store.RolePermission, error) {
	query := sq.Select("r.role_key", "m.perms").From(s.GetTable()+" m").
		Join(types.TABLE_SYS_ROLE_MENU.Name()+" rm ON rm.menu_id = m.menu_id").
		Join(types.TABLE_SYS_ROLE.Name()+" r ON r.role_id = rm.role_id").
		Where(sq.Eq{"m.status": types.STATUS_NORMAL, "r.status": types.STATUS_NORMAL, "r.del_flag": types.SYS_NOT_DELETE}).
		Where(sq.NotEq{"m.perms": ""})
	return selectAll[store.RolePermission](s.GetReplica(ctx), query)
}
