package sqlstore

import (
	"context"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/exb-museum/exb-admin/pkg/register"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.SysDeptStore = NewSysDeptStore(provider)
	})
}

type SysDeptStore struct {
	CommonFields
}

func NewSysDeptStore(provider SqlProviderAchieve) *SysDeptStore {
	repo := &SysDeptStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_DEPT)
	repo.SetAllColumns("dept_id", "parent_id", "ancestors", "dept_name", "order_num", "leader", "phone", "email",
		"status", "del_flag", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *SysDeptStore) Create(ctx context.Context, data types.SysDept) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	if data.Status == "" {
		data.Status = types.STATUS_NORMAL
	}
	query := sq.Insert(s.GetTable()).
		Columns("parent_id", "ancestors", "dept_name", "order_num", "leader", "phone", "email", "status", "del_flag", "create_by", "create_time").
		Values(data.ParentID, data.Ancestors, data.DeptName, data.OrderNum, data.Leader, data.Phone, data.Email, data.Status,
			types.SYS_NOT_DELETE, data.CreateBy, data.CreateTime)

	return insertReturning(s.GetMaster(ctx), query, "dept_id")
}

func (s *SysDeptStore) Update(ctx context.Context, data types.SysDept) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"parent_id":   data.ParentID,
			"ancestors":   data.Ancestors,
			"dept_name":   data.DeptName,
			"order_num":   data.OrderNum,
			"leader":      data.Leader,
			"phone":       data.Phone,
			"email":       data.Email,
			"status":      data.Status,
			"update_by":   data.UpdateBy,
			"update_time": time.Now(),
		}).
		Where(sq.Eq{"dept_id": data.DeptID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysDeptStore) Get(ctx context.Context, deptID int64) (*types.SysDept, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"dept_id": deptID, "del_flag": types.SYS_NOT_DELETE})
	return getOne[types.SysDept](s.GetReplica(ctx), query)
}

func (s *SysDeptStore) GetByName(ctx context.Context, parentID int64, deptName string) (*types.SysDept, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"parent_id": parentID, "dept_name": deptName, "del_flag": types.SYS_NOT_DELETE}).Limit(1)
	return getOne[types.SysDept](s.GetReplica(ctx), query)
}

func (s *SysDeptStore) List(ctx context.Context, opts types.ListSysDeptOptions, c *types.Criterion) ([]types.SysDept, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil || (len(c.Sort) == 0 && len(c.Rule.DefaultSort) == 0) {
		query = query.OrderBy("parent_id ASC", "order_num ASC")
	}
	return selectAll[types.SysDept](s.GetReplica(ctx), query)
}

func (s *SysDeptStore) ListChildren(ctx context.Context, deptID int64) ([]types.SysDept, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Expr("? = ANY(string_to_array(ancestors, ','))", strconv.FormatInt(deptID, 10)))
	return selectAll[types.SysDept](s.GetReplica(ctx), query)
}

// CountChildren 直接下级(未删除)
func (s *SysDeptStore) CountChildren(ctx context.Context, deptID int64) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable()).
		Where(sq.Eq{"parent_id": deptID, "del_flag": types.SYS_NOT_DELETE})
	return countOf(s.GetReplica(ctx), query)
}

// CountNormalChildren 所有正常状态的下级
func (s *SysDeptStore) CountNormalChildren(ctx context.Context, deptID int64) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable()).
		Where(sq.Eq{"status": types.STATUS_NORMAL, "del_flag": types.SYS_NOT_DELETE}).
		Where(sq.Expr("? = ANY(string_to_array(ancestors, ','))", strconv.FormatInt(deptID, 10)))
	return countOf(s.GetReplica(ctx), query)
}

func (s *SysDeptStore) UpdateAncestors(ctx context.Context, deptID int64, ancestors string) error {
	query := sq.Update(s.GetTable()).Set("ancestors", ancestors).Where(sq.Eq{"dept_id": deptID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysDeptStore) UpdateStatusNormal(ctx context.Context, deptIDs []int64) error {
	if len(deptIDs) == 0 {
		return nil
	}
	query := sq.Update(s.GetTable()).Set("status", types.STATUS_NORMAL).Where(sq.Eq{"dept_id": deptIDs})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysDeptStore) Delete(ctx context.Context, deptID int64, updateBy string) error {
	query := sq.Update(s.GetTable()).
		Set("del_flag", types.SYS_DELETED).
		Set("update_by", updateBy).
		Set("update_time", time.Now()).
		Where(sq.Eq{"dept_id": deptID})
	return exec(s.GetMaster(ctx), query)
}

// ListIDsByRole checkStrictly 时只返回叶子节点, 前端树据此回显父子联动的勾选状态
func (s *SysDeptStore) ListIDsByRole(ctx context.Context, roleID int64, checkStrictly bool) ([]int64, error) {
	query := sq.Select("d.dept_id").From(s.GetTable()+" d").
		Join(types.TABLE_SYS_ROLE_DEPT.Name()+" rd ON rd.dept_id = d.dept_id").
		Where(sq.Eq{"rd.role_id": roleID})
	if checkStrictly {
		query = query.Where(sq.Expr("d.dept_id NOT IN (SELECT d2.parent_id FROM "+s.GetTable()+" d2 JOIN "+
			types.TABLE_SYS_ROLE_DEPT.Name()+" rd2 ON rd2.dept_id = d2.dept_id AND rd2.role_id = ?)", roleID))
	}
	query = query.OrderBy("d.parent_id", "d.order_num")
	return selectAll[int64](s.GetReplica(ctx), query)
}
