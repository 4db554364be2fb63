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
		provider.stores.SysJobStore = NewSysJobStore(provider)
		provider.stores.SysJobLogStore = NewSysJobLogStore(provider)
	})
}

type SysJobStore struct {
	CommonFields
}

func NewSysJobStore(provider SqlProviderAchieve) *SysJobStore {
	repo := &SysJobStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_JOB)
	repo.SetAllColumns("job_id", "job_name", "job_group", "invoke_target", "cron_expression", "misfire_policy", "concurrent",
		"status", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *SysJobStore) Create(ctx context.Context, data types.SysJob) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("job_name", "job_group", "invoke_target", "cron_expression", "misfire_policy", "concurrent", "status", "create_by", "create_time", "remark").
		Values(data.JobName, data.JobGroup, data.InvokeTarget, data.CronExpression, data.MisfirePolicy, data.Concurrent, data.Status,
			data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "job_id")
}

func (s *SysJobStore) Update(ctx context.Context, data types.SysJob) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"job_name":        data.JobName,
			"job_group":       data.JobGroup,
			"invoke_target":   data.InvokeTarget,
			"cron_expression": data.CronExpression,
			"misfire_policy":  data.MisfirePolicy,
			"concurrent":      data.Concurrent,
			"status":          data.Status,
			"remark":          data.Remark,
			"update_by":       data.UpdateBy,
			"update_time":     time.Now(),
		}).
		Where(sq.Eq{"job_id": data.JobID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysJobStore) Get(ctx context.Context, jobID int64) (*types.SysJob, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"job_id": jobID})
	return getOne[types.SysJob](s.GetReplica(ctx), query)
}

func (s *SysJobStore) List(ctx context.Context, opts types.ListSysJobOptions, c *types.Criterion) ([]types.SysJob, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("job_id ASC")
	}
	return selectAll[types.SysJob](s.GetReplica(ctx), query)
}

func (s *SysJobStore) Total(ctx context.Context, opts types.ListSysJobOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *SysJobStore) UpdateStatus(ctx context.Context, jobID int64, status, updateBy string) error {
	query := sq.Update(s.GetTable()).
		Set("status", status).
		Set("update_by", updateBy).
		Set("update_time", time.Now()).
		Where(sq.Eq{"job_id": jobID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysJobStore) Delete(ctx context.Context, jobIDs []int64) error {
	if len(jobIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Eq{"job_id": jobIDs}))
}

type SysJobLogStore struct {
	CommonFields
}

func NewSysJobLogStore(provider SqlProviderAchieve) *SysJobLogStore {
	repo := &SysJobLogStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_JOB_LOG)
	repo.SetAllColumns("job_log_id", "job_name", "job_group", "invoke_target", "job_message", "status", "exception_info", "create_time")
	return repo
}

func (s *SysJobLogStore) Create(ctx context.Context, data types.SysJobLog) error {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("job_name", "job_group", "invoke_target", "job_message", "status", "exception_info", "create_time").
		Values(data.JobName, data.JobGroup, data.InvokeTarget, data.JobMessage, data.Status, data.ExceptionInfo, data.CreateTime)
	return exec(s.GetMaster(ctx), query)
}

func (s *SysJobLogStore) Get(ctx context.Context, jobLogID int64) (*types.SysJobLog, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"job_log_id": jobLogID})
	return getOne[types.SysJobLog](s.GetReplica(ctx), query)
}

func (s *SysJobLogStore) List(ctx context.Context, opts types.ListSysJobLogOptions, c *types.Criterion) ([]types.SysJobLog, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("job_log_id DESC")
	}
	return selectAll[types.SysJobLog](s.GetReplica(ctx), query)
}

func (s *SysJobLogStore) Total(ctx context.Context, opts types.ListSysJobLogOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *SysJobLogStore) Delete(ctx context.Context, jobLogIDs []int64) error {
	if len(jobLogIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Eq{"job_log_id": jobLogIDs}))
}

func (s *SysJobLogStore) Clean(ctx context.Context) error {
	_, err := s.GetMaster(ctx).Exec("TRUNCATE TABLE " + s.GetTable())
	return err
}
