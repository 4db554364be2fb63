package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/exb-museum/exb-admin/pkg/register"
	"github.com/exb-museum/exb-admin/pkg/types"
)

// 用户-角色, 用户-岗位, 角色-菜单, 角色-部门 关联表

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.SysUserRoleStore = NewSysUserRoleStore(provider)
		provider.stores.SysUserPostStore = NewSysUserPostStore(provider)
		provider.stores.SysRoleMenuStore = NewSysRoleMenuStore(provider)
		provider.stores.SysRoleDeptStore = NewSysRoleDeptStore(provider)
	})
}

// linkStore 两列主键的关联表
type linkStore struct {
	CommonFields
	left  string
	right string
}

func newLinkStore(provider SqlProviderAchieve, table types.TableName, left, right string) linkStore {
	repo := linkStore{left: left, right: right}
	repo.SetProvider(provider)
	repo.SetTable(table)
	repo.SetAllColumns(left, right)
	return repo
}

func (s *linkStore) insert(ctx context.Context, pairs [][2]int64) error {
	if len(pairs) == 0 {
		return nil
	}
	query := sq.Insert(s.GetTable()).Columns(s.left, s.right)
	for _, p := range pairs {
		query = query.Values(p[0], p[1])
	}
	query = query.Suffix("ON CONFLICT DO NOTHING")
	return exec(s.GetMaster(ctx), query)
}

func (s *linkStore) insertByLeft(ctx context.Context, left int64, rights []int64) error {
	pairs := make([][2]int64, 0, len(rights))
	for _, r := range rights {
		pairs = append(pairs, [2]int64{left, r})
	}
	return s.insert(ctx, pairs)
}

func (s *linkStore) deleteBy(ctx context.Context, column string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Eq{column: ids}))
}

func (s *linkStore) countBy(ctx context.Context, column string, id int64) (int64, error) {
	return countOf(s.GetReplica(ctx), sq.Select("COUNT(*)").From(s.GetTable()).Where(sq.Eq{column: id}))
}

type SysUserRoleStore struct {
	linkStore
}

func NewSysUserRoleStore(provider SqlProviderAchieve) *SysUserRoleStore {
	return &SysUserRoleStore{linkStore: newLinkStore(provider, types.TABLE_SYS_USER_ROLE, "user_id", "role_id")}
}

func (s *SysUserRoleStore) Create(ctx context.Context, userID int64, roleIDs []int64) error {
	return s.insertByLeft(ctx, userID, roleIDs)
}

// CreateByRole 批量给用户授予同一角色
func (s *SysUserRoleStore) CreateByRole(ctx context.Context, roleID int64, userIDs []int64) error {
	pairs := make([][2]int64, 0, len(userIDs))
	for _, u := range userIDs {
		pairs = append(pairs, [2]int64{u, roleID})
	}
	return s.insert(ctx, pairs)
}

func (s *SysUserRoleStore) DeleteByUsers(ctx context.Context, userIDs []int64) error {
	return s.deleteBy(ctx, "user_id", userIDs)
}

func (s *SysUserRoleStore) DeleteByRoleUsers(ctx context.Context, roleID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"role_id": roleID, "user_id": userIDs})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysUserRoleStore) CountByRole(ctx context.Context, roleID int64) (int64, error) {
	return s.countBy(ctx, "role_id", roleID)
}

type SysUserPostStore struct {
	linkStore
}

func NewSysUserPostStore(provider SqlProviderAchieve) *SysUserPostStore {
	return &SysUserPostStore{linkStore: newLinkStore(provider, types.TABLE_SYS_USER_POST, "user_id", "post_id")}
}

func (s *SysUserPostStore) Create(ctx context.Context, userID int64, postIDs []int64) error {
	return s.insertByLeft(ctx, userID, postIDs)
}

func (s *SysUserPostStore) DeleteByUsers(ctx context.Context, userIDs []int64) error {
	return s.deleteBy(ctx, "user_id", userIDs)
}

func (s *SysUserPostStore) CountByPost(ctx context.Context, postID int64) (int64, error) {
	return s.countBy(ctx, "post_id", postID)
}

type SysRoleMenuStore struct {
	linkStore
}

func NewSysRoleMenuStore(provider SqlProviderAchieve) *SysRoleMenuStore {
	return &SysRoleMenuStore{linkStore: newLinkStore(provider, types.TABLE_SYS_ROLE_MENU, "role_id", "menu_id")}
}

func (s *SysRoleMenuStore) Create(ctx context.Context, roleID int64, menuIDs []int64) error {
	return s.insertByLeft(ctx, roleID, menuIDs)
}

func (s *SysRoleMenuStore) DeleteByRoles(ctx context.Context, roleIDs []int64) error {
	return s.deleteBy(ctx, "role_id", roleIDs)
}

func (s *SysRoleMenuStore) CountByMenu(ctx context.Context, menuID int64) (int64, error) {
	return s.countBy(ctx, "menu_id", menuID)
}

type SysRoleDeptStore struct {
	linkStore
}

func NewSysRoleDeptStore(provider SqlProviderAchieve) *SysRoleDeptStore {
	return &SysRoleDeptStore{linkStore: newLinkStore(provider, types.TABLE_SYS_ROLE_DEPT, "role_id", "dept_id")}
}

func (s *SysRoleDeptStore) Create(ctx context.Context, roleID int64, deptIDs []int64) error {
	return s.insertByLeft(ctx, roleID, deptIDs)
}

func (s *SysRoleDeptStore) DeleteByRoles(ctx context.Context, roleIDs []int64) error {
	return s.deleteBy(ctx, "role_id", roleIDs)
}
