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
		provider.stores.SysLogininforStore = NewSysLogininforStore(provider)
		provider.stores.SysOperLogStore = NewSysOperLogStore(provider)
	})
}

// SysLogininforStore 登录日志
type SysLogininforStore struct {
	CommonFields
}

func NewSysLogininforStore(provider SqlProviderAchieve) *SysLogininforStore {
	repo := &SysLogininforStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_LOGININFOR)
	repo.SetAllColumns("info_id", "user_name", "ipaddr", "login_location", "browser", "os", "status", "msg", "login_time")
	return repo
}

func (s *SysLogininforStore) Create(ctx context.Context, data types.SysLogininfor) error {
	if data.LoginTime.IsZero() {
		data.LoginTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("user_name", "ipaddr", "login_location", "browser", "os", "status", "msg", "login_time").
		Values(data.UserName, data.Ipaddr, data.LoginLocation, data.Browser, data.OS, data.Status, data.Msg, data.LoginTime)
	return exec(s.GetMaster(ctx), query)
}

func (s *SysLogininforStore) List(ctx context.Context, opts types.ListSysLogininforOptions, c *types.Criterion) ([]types.SysLogininfor, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("info_id DESC")
	}
	return selectAll[types.SysLogininfor](s.GetReplica(ctx), query)
}

func (s *SysLogininforStore) Total(ctx context.Context, opts types.ListSysLogininforOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *SysLogininforStore) Delete(ctx context.Context, infoIDs []int64) error {
	if len(infoIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Eq{"info_id": infoIDs}))
}

func (s *SysLogininforStore) Clean(ctx context.Context) error {
	_, err := s.GetMaster(ctx).Exec("TRUNCATE TABLE " + s.GetTable())
	return err
}

// DeleteBefore 清理过期登录日志, 返回删除条数
func (s *SysLogininforStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	return execAffected(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Lt{"login_time": before}))
}

// SysOperLogStore 操作日志
type SysOperLogStore struct {
	CommonFields
}

func NewSysOperLogStore(provider SqlProviderAchieve) *SysOperLogStore {
	repo := &SysOperLogStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_OPER_LOG)
	repo.SetAllColumns("oper_id", "title", "business_type", "method", "request_method", "operator_type", "oper_name", "dept_name",
		"oper_url", "oper_ip", "oper_location", "oper_param", "json_result", "status", "error_msg", "oper_time", "cost_time")
	return repo
}

func (s *SysOperLogStore) Create(ctx context.Context, data types.SysOperLog) error {
	if data.OperTime.IsZero() {
		data.OperTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("title", "business_type", "method", "request_method", "operator_type", "oper_name", "dept_name",
			"oper_url", "oper_ip", "oper_location", "oper_param", "json_result", "status", "error_msg", "oper_time", "cost_time").
		Values(data.Title, data.BusinessType, data.Method, data.RequestMethod, data.OperatorType, data.OperName, data.DeptName,
			data.OperURL, data.OperIP, data.OperLocation, data.OperParam, data.JSONResult, data.Status, data.ErrorMsg, data.OperTime, data.CostTime)
	return exec(s.GetMaster(ctx), query)
}

func (s *SysOperLogStore) Get(ctx context.Context, operID int64) (*types.SysOperLog, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"oper_id": operID})
	return getOne[types.SysOperLog](s.GetReplica(ctx), query)
}

func (s *SysOperLogStore) List(ctx context.Context, opts types.ListSysOperLogOptions, c *types.Criterion) ([]types.SysOperLog, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("oper_id DESC")
	}
	return selectAll[types.SysOperLog](s.GetReplica(ctx), query)
}

func (s *SysOperLogStore) Total(ctx context.Context, opts types.ListSysOperLogOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *SysOperLogStore) Delete(ctx context.Context, operIDs []int64) error {
	if len(operIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Eq{"oper_id": operIDs}))
}

func (s *SysOperLogStore) Clean(ctx context.Context) error {
	_, err := s.GetMaster(ctx).Exec("TRUNCATE TABLE " + s.GetTable())
	return err
}
