package store

import (
	"context"
	"time"

	"github.com/exb-museum/exb-admin/pkg/types"
)

// SysUserStore 系统用户
type SysUserStore interface {
	Create(ctx context.Context, data types.SysUser) (int64, error)
	Update(ctx context.Context, data types.SysUser) error
	Get(ctx context.Context, userID int64) (*types.SysUser, error)
	// GetByUserName withDeleted 为 true 时包含已删除的用户, 登录时用于区分已删除与不存在
	GetByUserName(ctx context.Context, userName string, withDeleted bool) (*types.SysUser, error)
	GetByPhonenumber(ctx context.Context, phonenumber string) (*types.SysUser, error)
	GetByEmail(ctx context.Context, email string) (*types.SysUser, error)
	List(ctx context.Context, opts types.ListSysUserOptions, c *types.Criterion) ([]types.SysUserWithDept, error)
	Total(ctx context.Context, opts types.ListSysUserOptions, c *types.Criterion) (int64, error)
	UpdateStatus(ctx context.Context, userID int64, status, updateBy string) error
	UpdatePassword(ctx context.Context, userID int64, password, updateBy string) error
	UpdateAvatar(ctx context.Context, userID int64, avatar string) error
	UpdateLoginInfo(ctx context.Context, userID int64, ip string, loginDate time.Time) error
	UpdateProfile(ctx context.Context, data types.SysUser) error
	Delete(ctx context.Context, userIDs []int64, updateBy string) error
	CountByDept(ctx context.Context, deptID int64) (int64, error)
}

type SysUserRoleStore interface {
	Create(ctx context.Context, userID int64, roleIDs []int64) error
	CreateByRole(ctx context.Context, roleID int64, userIDs []int64) error
	DeleteByUsers(ctx context.Context, userIDs []int64) error
	DeleteByRoleUsers(ctx context.Context, roleID int64, userIDs []int64) error
	CountByRole(ctx context.Context, roleID int64) (int64, error)
}

type SysUserPostStore interface {
	Create(ctx context.Context, userID int64, postIDs []int64) error
	DeleteByUsers(ctx context.Context, userIDs []int64) error
	CountByPost(ctx context.Context, postID int64) (int64, error)
}

type SysRoleMenuStore interface {
	Create(ctx context.Context, roleID int64, menuIDs []int64) error
	DeleteByRoles(ctx context.Context, roleIDs []int64) error
	CountByMenu(ctx context.Context, menuID int64) (int64, error)
}

type SysRoleDeptStore interface {
	Create(ctx context.Context, roleID int64, deptIDs []int64) error
	DeleteByRoles(ctx context.Context, roleIDs []int64) error
}

type SysDeptStore interface {
	Create(ctx context.Context, data types.SysDept) (int64, error)
	Update(ctx context.Context, data types.SysDept) error
	Get(ctx context.Context, deptID int64) (*types.SysDept, error)
	GetByName(ctx context.Context, parentID int64, deptName string) (*types.SysDept, error)
	List(ctx context.Context, opts types.ListSysDeptOptions, c *types.Criterion) ([]types.SysDept, error)
	// ListChildren 所有下级部门(不含自身)
	ListChildren(ctx context.Context, deptID int64) ([]types.SysDept, error)
	CountChildren(ctx context.Context, deptID int64) (int64, error)
	CountNormalChildren(ctx context.Context, deptID int64) (int64, error)
	UpdateAncestors(ctx context.Context, deptID int64, ancestors string) error
	UpdateStatusNormal(ctx context.Context, deptIDs []int64) error
	Delete(ctx context.Context, deptID int64, updateBy string) error
	ListIDsByRole(ctx context.Context, roleID int64, checkStrictly bool) ([]int64, error)
}

type SysRoleStore interface {
	Create(ctx context.Context, data types.SysRole) (int64, error)
	Update(ctx context.Context, data types.SysRole) error
	Get(ctx context.Context, roleID int64) (*types.SysRole, error)
	GetByName(ctx context.Context, roleName string) (*types.SysRole, error)
	GetByKey(ctx context.Context, roleKey string) (*types.SysRole, error)
	List(ctx context.Context, opts types.ListSysRoleOptions, c *types.Criterion) ([]types.SysRole, error)
	Total(ctx context.Context, opts types.ListSysRoleOptions, c *types.Criterion) (int64, error)
	UpdateStatus(ctx context.Context, roleID int64, status, updateBy string) error
	UpdateDataScope(ctx context.Context, data types.SysRole) error
	Delete(ctx context.Context, roleIDs []int64, updateBy string) error
}

// RolePermission 角色与其被授予的权限标识
type RolePermission struct {
	RoleKey string `db:"role_key"`
	Perms   string `db:"perms"`
}

type SysMenuStore interface {
	Create(ctx context.Context, data types.SysMenu) (int64, error)
	Update(ctx context.Context, data types.SysMenu) error
	Get(ctx context.Context, menuID int64) (*types.SysMenu, error)
	GetByName(ctx context.Context, parentID int64, menuName string) (*types.SysMenu, error)
	List(ctx context.Context, opts types.ListSysMenuOptions) ([]types.SysMenu, error)
	CountChildren(ctx context.Context, menuID int64) (int64, error)
	Delete(ctx context.Context, menuID int64) error
	ListIDsByRole(ctx context.Context, roleID int64, checkStrictly bool) ([]int64, error)
	ListPermsByUser(ctx context.Context, userID int64) ([]string, error)
	ListRolePermissions(ctx context.Context) ([]RolePermission, error)
}

type SysPostStore interface {
	Create(ctx context.Context, data types.SysPost) (int64, error)
	Update(ctx context.Context, data types.SysPost) error
	Get(ctx context.Context, postID int64) (*types.SysPost, error)
	GetByName(ctx context.Context, postName string) (*types.SysPost, error)
	GetByCode(ctx context.Context, postCode string) (*types.SysPost, error)
	List(ctx context.Context, opts types.ListSysPostOptions, c *types.Criterion) ([]types.SysPost, error)
	Total(ctx context.Context, opts types.ListSysPostOptions, c *types.Criterion) (int64, error)
	Delete(ctx context.Context, postIDs []int64) error
}

type SysDictTypeStore interface {
	Create(ctx context.Context, data types.SysDictType) (int64, error)
	Update(ctx context.Context, data types.SysDictType) error
	Get(ctx context.Context, dictID int64) (*types.SysDictType, error)
	GetByType(ctx context.Context, dictType string) (*types.SysDictType, error)
	List(ctx context.Context, opts types.ListSysDictTypeOptions, c *types.Criterion) ([]types.SysDictType, error)
	Total(ctx context.Context, opts types.ListSysDictTypeOptions, c *types.Criterion) (int64, error)
	Delete(ctx context.Context, dictIDs []int64) error
}

type SysDictDataStore interface {
	Create(ctx context.Context, data types.SysDictData) (int64, error)
	Update(ctx context.Context, data types.SysDictData) error
	Get(ctx context.Context, dictCode int64) (*types.SysDictData, error)
	List(ctx context.Context, opts types.ListSysDictDataOptions, c *types.Criterion) ([]types.SysDictData, error)
	Total(ctx context.Context, opts types.ListSysDictDataOptions, c *types.Criterion) (int64, error)
	// ListNormalByType 启用状态的字典数据, 按 dict_sort 排序
	ListNormalByType(ctx context.Context, dictType string) ([]types.SysDictData, error)
	CountByType(ctx context.Context, dictType string) (int64, error)
	UpdateType(ctx context.Context, oldType, newType string) error
	Delete(ctx context.Context, dictCodes []int64) error
}

type SysConfigStore interface {
	Create(ctx context.Context, data types.SysConfig) (int64, error)
	Update(ctx context.Context, data types.SysConfig) error
	Get(ctx context.Context, configID int64) (*types.SysConfig, error)
	GetByKey(ctx context.Context, configKey string) (*types.SysConfig, error)
	List(ctx context.Context, opts types.ListSysConfigOptions, c *types.Criterion) ([]types.SysConfig, error)
	Total(ctx context.Context, opts types.ListSysConfigOptions, c *types.Criterion) (int64, error)
	Delete(ctx context.Context, configIDs []int64) error
}

type SysNoticeStore interface {
	Create(ctx context.Context, data types.SysNotice) (int64, error)
	Update(ctx context.Context, data types.SysNotice) error
	Get(ctx context.Context, noticeID int64) (*types.SysNotice, error)
	List(ctx context.Context, opts types.ListSysNoticeOptions, c *types.Criterion) ([]types.SysNotice, error)
	Total(ctx context.Context, opts types.ListSysNoticeOptions, c *types.Criterion) (int64, error)
	Delete(ctx context.Context, noticeIDs []int64) error
}

type SysLogininforStore interface {
	Create(ctx context.Context, data types.SysLogininfor) error
	List(ctx context.Context, opts types.ListSysLogininforOptions, c *types.Criterion) ([]types.SysLogininfor, error)
	Total(ctx context.Context, opts types.ListSysLogininforOptions, c *types.Criterion) (int64, error)
	Delete(ctx context.Context, infoIDs []int64) error
	Clean(ctx context.Context) error
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

type SysOperLogStore interface {
	Create(ctx context.Context, data types.SysOperLog) error
	Get(ctx context.Context, operID int64) (*types.SysOperLog, error)
	List(ctx context.Context, opts types.ListSysOperLogOptions, c *types.Criterion) ([]types.SysOperLog, error)
	Total(ctx context.Context, opts types.ListSysOperLogOptions, c *types.Criterion) (int64, error)
	Delete(ctx context.Context, operIDs []int64) error
	Clean(ctx context.Context) error
}

type SysJobStore interface {
	Create(ctx context.Context, data types.SysJob) (int64, error)
	Update(ctx context.Context, data types.SysJob) error
	Get(ctx context.Context, jobID int64) (*types.SysJob, error)
	List(ctx context.Context, opts types.ListSysJobOptions, c *types.Criterion) ([]types.SysJob, error)
	Total(ctx context.Context, opts types.ListSysJobOptions, c *types.Criterion) (int64, error)
	UpdateStatus(ctx context.Context, jobID int64, status, updateBy string) error
	Delete(ctx context.Context, jobIDs []int64) error
}

type SysJobLogStore interface {
	Create(ctx context.Context, data types.SysJobLog) error
	Get(ctx context.Context, jobLogID int64) (*types.SysJobLog, error)
	List(ctx context.Context, opts types.ListSysJobLogOptions, c *types.Criterion) ([]types.SysJobLog, error)
	Total(ctx context.Context, opts types.ListSysJobLogOptions, c *types.Criterion) (int64, error)
	Delete(ctx context.Context, jobLogIDs []int64) error
	Clean(ctx context.Context) error
}

type ExbMuseumStore interface {
	Create(ctx context.Context, data types.ExbMuseum) (int64, error)
	Update(ctx context.Context, data types.ExbMuseum) error
	Get(ctx context.Context, museumID int64) (*types.ExbMuseum, error)
	GetByAppID(ctx context.Context, appID string) (*types.ExbMuseum, error)
	List(ctx context.Context, opts types.ListExbMuseumOptions, c *types.Criterion) ([]types.ExbMuseum, error)
	Total(ctx context.Context, opts types.ListExbMuseumOptions, c *types.Criterion) (int64, error)
	Delete(ctx context.Context, museumIDs []int64, updateBy string) error
}

type ExbMuseumHallStore interface {
	Create(ctx context.Context, data types.ExbMuseumHall) (int64, error)
	Update(ctx context.Context, data types.ExbMuseumHall) error
	Get(ctx context.Context, hallID int64) (*types.ExbMuseumHall, error)
	List(ctx context.Context, opts types.ListExbMuseumHallOptions, c *types.Criterion) ([]types.ExbMuseumHall, error)
	Total(ctx context.Context, opts types.ListExbMuseumHallOptions, c *types.Criterion) (int64, error)
	Delete(ctx context.Context, hallIDs []int64, updateBy string) error
}

type ExbExhibitionStore interface {
	Create(ctx context.Context, data types.ExbExhibition) (int64, error)
	Update(ctx context.Context, data types.ExbExhibition) error
	Get(ctx context.Context, exhibitionID int64) (*types.ExbExhibition, error)
	List(ctx context.Context, opts types.ListExbExhibitionOptions, c *types.Criterion) ([]types.ExbExhibition, error)
	Total(ctx context.Context, opts types.ListExbExhibitionOptions, c *types.Criterion) (int64, error)
	Delete(ctx context.Context, exhibitionIDs []int64, updateBy string) error
}

type ExbExhibitionUnitStore interface {
	Create(ctx context.Context, data types.ExbExhibitionUnit) (int64, error)
	Update(ctx context.Context, data types.ExbExhibitionUnit) error
	Get(ctx context.Context, unitID int64) (*types.ExbExhibitionUnit, error)
	List(ctx context.Context, opts types.ListExbExhibitionUnitOptions, c *types.Criterion) ([]types.ExbExhibitionUnit, error)
	Total(ctx context.Context, opts types.ListExbExhibitionUnitOptions, c *types.Criterion) (int64, error)
	// MaxSortOrder 同一展览同一章节下最大的顺序号, 没有记录时为 0
	MaxSortOrder(ctx context.Context, exhibitionID int64, section string) (int, error)
	Delete(ctx context.Context, unitIDs []int64, updateBy string) error
}

type ExbCollectionStore interface {
	Create(ctx context.Context, data types.ExbCollection) (int64, error)
	Update(ctx context.Context, data types.ExbCollection) error
	Get(ctx context.Context, collectionID int64) (*types.ExbCollection, error)
	List(ctx context.Context, opts types.ListExbCollectionOptions, c *types.Criterion) ([]types.ExbCollection, error)
	Total(ctx context.Context, opts types.ListExbCollectionOptions, c *types.Criterion) (int64, error)
	Delete(ctx context.Context, collectionIDs []int64, updateBy string) error
}

type ExbActivityStore interface {
	Create(ctx context.Context, data types.ExbActivity) (int64, error)
	Update(ctx context.Context, data types.ExbActivity) error
	Get(ctx context.Context, activityID int64) (*types.ExbActivity, error)
	// GetForUpdate 事务内锁定活动行
	GetForUpdate(ctx context.Context, activityID int64) (*types.ExbActivity, error)
	List(ctx context.Context, opts types.ListExbActivityOptions, c *types.Criterion) ([]types.ExbActivity, error)
	Total(ctx context.Context, opts types.ListExbActivityOptions, c *types.Criterion) (int64, error)
	UpdateRegistrationCount(ctx context.Context, activityID int64, count int) error
	Delete(ctx context.Context, activityIDs []int64, updateBy string) error
	ListIDs(ctx context.Context) ([]int64, error)
}

type ExbReservationStore interface {
	Create(ctx context.Context, data types.ExbActivityReservation) (int64, error)
	Get(ctx context.Context, reservationID int64) (*types.ExbActivityReservation, error)
	GetByActivityUser(ctx context.Context, activityID, wxUserID int64) (*types.ExbActivityReservation, error)
	List(ctx context.Context, opts types.ListExbReservationOptions, c *types.Criterion) ([]types.ExbReservationDetail, error)
	Total(ctx context.Context, opts types.ListExbReservationOptions, c *types.Criterion) (int64, error)
	ListActivityIDsByUser(ctx context.Context, wxUserID int64, activityIDs []int64) ([]int64, error)
	CountByActivity(ctx context.Context, activityID int64) (int64, error)
	Delete(ctx context.Context, reservationID int64) error
}

type ExbMuseumMediaStore interface {
	Create(ctx context.Context, data types.ExbMuseumMedia) (int64, error)
	Update(ctx context.Context, data types.ExbMuseumMedia) error
	Get(ctx context.Context, mediaID int64) (*types.ExbMuseumMedia, error)
	List(ctx context.Context, opts types.ListExbMuseumMediaOptions, c *types.Criterion) ([]types.ExbMuseumMedia, error)
	Total(ctx context.Context, opts types.ListExbMuseumMediaOptions, c *types.Criterion) (int64, error)
	// ClearCover 同一对象只保留一张封面
	ClearCover(ctx context.Context, objectType string, objectID, exceptMediaID int64) error
	// CountByURL 仍引用该文件的有效记录数, 单元复制藏品媒体时会共用文件
	CountByURL(ctx context.Context, url string) (int64, error)
	Delete(ctx context.Context, mediaID int64) error
}

type ExbWxUserStore interface {
	Create(ctx context.Context, data types.ExbWxUser) (int64, error)
	Get(ctx context.Context, id int64) (*types.ExbWxUser, error)
	GetByOpenID(ctx context.Context, appID, openID string) (*types.ExbWxUser, error)
}
