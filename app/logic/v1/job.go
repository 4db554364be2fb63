package v1

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/types/protocol"
)

// JobFunc 可被定时任务调用的函数, args 为调用目标字符串中解析出的参数
type JobFunc func(ctx context.Context, core *core.Core, args ...any) (string, error)

var (
	jobFuncs   = map[string]JobFunc{}
	jobFuncsMu sync.RWMutex
)

// RegisterJobFunc 登记调用目标, 同名覆盖
func RegisterJobFunc(name string, fn JobFunc) {
	jobFuncsMu.Lock()
	defer jobFuncsMu.Unlock()
	jobFuncs[name] = fn
}

func lookupJobFunc(name string) (JobFunc, bool) {
	jobFuncsMu.RLock()
	defer jobFuncsMu.RUnlock()
	fn, ok := jobFuncs[name]
	return fn, ok
}

// JobFuncNames 已登记的调用目标
func JobFuncNames() []string {
	jobFuncsMu.RLock()
	defer jobFuncsMu.RUnlock()
	names := lo.Keys(jobFuncs)
	sort.Strings(names)
	return names
}

var invokeTargetPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*)\s*(?:\((.*)\))?$`)

type InvokeTarget struct {
	Name string
	Args []any
}

// ParseInvokeTarget 解析 name 或 name('a', true, 2L, 1.5D, 3) 形式的调用目标
func ParseInvokeTarget(target string) (*InvokeTarget, error) {
	m := invokeTargetPattern.FindStringSubmatch(strings.TrimSpace(target))
	if m == nil {
		return nil, fmt.Errorf("invalid invoke target: %s", target)
	}
	res := &InvokeTarget{Name: m[1]}
	params, err := splitParams(m[2])
	if err != nil {
		return nil, err
	}
	for _, p := range params {
		v, err := parseParam(p)
		if err != nil {
			return nil, err
		}
		res.Args = append(res.Args, v)
	}
	return res, nil
}

// splitParams 按逗号切分, 引号内的逗号不切
func splitParams(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var (
		res   []string
		cur   strings.Builder
		quote rune
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			cur.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			cur.WriteRune(r)
		case r == ',':
			res = append(res, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", s)
	}
	return append(res, strings.TrimSpace(cur.String())), nil
}

func parseParam(p string) (any, error) {
	if p == "" {
		return nil, fmt.Errorf("empty param")
	}
	if n := len(p); n >= 2 && (p[0] == '\'' || p[0] == '"') && p[n-1] == p[0] {
		return p[1 : n-1], nil
	}
	switch strings.ToLower(p) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if s, ok := strings.CutSuffix(p, "L"); ok {
		return strconv.ParseInt(s, 10, 64)
	}
	if s, ok := strings.CutSuffix(p, "D"); ok {
		return strconv.ParseFloat(s, 64)
	}
	if v, err := strconv.Atoi(p); err == nil {
		return v, nil
	}
	if v, err := strconv.ParseFloat(p, 64); err == nil {
		return v, nil
	}
	return nil, fmt.Errorf("unsupported param: %s", p)
}

var cronParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCron 兼容 quartz 表达式, 第七位年份忽略
func ParseCron(expr string) (cron.Schedule, error) {
	fields := strings.Fields(expr)
	if len(fields) == 7 {
		fields = fields[:6]
	}
	return cronParser.Parse(strings.ReplaceAll(strings.Join(fields, " "), "?", "*"))
}

// NextValidTime 下一次执行时间, 表达式非法时返回零值
func NextValidTime(expr string) time.Time {
	s, err := ParseCron(expr)
	if err != nil {
		return time.Time{}
	}
	return s.Next(time.Now())
}

// RunJob 执行一次任务并记录调度日志
func RunJob(ctx context.Context, c *core.Core, job types.SysJob) error {
	if job.Concurrent == types.JOB_CONCURRENT_FORBID {
		lock, err := c.Locker().Obtain(ctx, protocol.GenJobLockKey(job.JobID), time.Hour, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			slog.Info("job is running, skip", slog.Int64("job_id", job.JobID), slog.String("job_name", job.JobName))
			return nil
		}
		if err != nil {
			return err
		}
		defer func() {
			if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				slog.Warn("failed to release job lock", slog.Int64("job_id", job.JobID), slog.Any("error", err))
			}
		}()
	}

	start := time.Now()
	record := types.SysJobLog{
		JobName:      job.JobName,
		JobGroup:     job.JobGroup,
		InvokeTarget: job.InvokeTarget,
		Status:       types.STATUS_NORMAL,
		CreateTime:   types.DateTime{Time: start},
	}

	msg, err := invoke(ctx, c, job.InvokeTarget)
	cost := time.Since(start).Milliseconds()
	if err != nil {
		record.Status = types.STATUS_DISABLE
		record.ExceptionInfo = lo.Substring(err.Error(), 0, 2000)
		record.JobMessage = fmt.Sprintf("%s 总共耗时：%d毫秒", job.JobName, cost)
		slog.Error("job failed", slog.Int64("job_id", job.JobID), slog.String("invoke_target", job.InvokeTarget), slog.Any("error", err))
	} else {
		record.JobMessage = fmt.Sprintf("%s 总共耗时：%d毫秒", job.JobName, cost)
		if msg != "" {
			record.JobMessage += ", " + msg
		}
	}
	c.Metrics().JobInc(job.JobGroup, record.Status)

	if lerr := c.Store().SysJobLogStore().Create(context.Background(), record); lerr != nil {
		slog.Error("failed to record job log", slog.Int64("job_id", job.JobID), slog.Any("error", lerr))
	}
	return err
}

func invoke(ctx context.Context, c *core.Core, target string) (msg string, err error) {
	t, err := ParseInvokeTarget(target)
	if err != nil {
		return "", err
	}
	fn, ok := lookupJobFunc(t.Name)
	if !ok {
		return "", fmt.Errorf("job func %s not registered", t.Name)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, c, t.Args...)
}

type JobLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewJobLogic(ctx context.Context, core *core.Core) *JobLogic {
	return &JobLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *JobLogic) nextTime(job *types.SysJob) {
	if job.Status != types.JOB_STATUS_NORMAL {
		return
	}
	var next time.Time
	if s := l.core.Scheduler(); s != nil {
		next = s.NextTime(job.JobID)
	}
	if next.IsZero() {
		next = NextValidTime(job.CronExpression)
	}
	job.NextValidTime = types.DateTime{Time: next}
}

func (l *JobLogic) List(opts types.ListSysJobOptions, c *types.Criterion) ([]types.SysJob, int64, error) {
	list, err := l.core.Store().SysJobStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("JobLogic.List.SysJobStore.List", err)
	}
	total, err := l.core.Store().SysJobStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("JobLogic.List.SysJobStore.Total", err)
	}
	for i := range list {
		l.nextTime(&list[i])
	}
	return list, total, nil
}

func (l *JobLogic) Get(jobID int64) (*types.SysJob, error) {
	job, err := l.core.Store().SysJobStore().Get(l.ctx, jobID)
	if err != nil {
		return nil, notFoundOr("JobLogic.Get.SysJobStore.Get", err, "任务不存在")
	}
	l.nextTime(job)
	return job, nil
}

// CheckInvokeTarget 调用目标必须已登记且参数可解析
func CheckInvokeTarget(target string) bool {
	t, err := ParseInvokeTarget(target)
	if err != nil {
		return false
	}
	_, ok := lookupJobFunc(t.Name)
	return ok
}

func (l *JobLogic) validate(job types.SysJob, action string) error {
	trace := "JobLogic.validate"
	if _, err := ParseCron(job.CronExpression); err != nil {
		return errors.Service(trace, fmt.Sprintf("%s任务'%s'失败，Cron表达式不正确", action, job.JobName))
	}
	lower := strings.ToLower(job.InvokeTarget)
	for _, s := range []string{"rmi:", "ldap:", "ldaps:", "http://", "https://"} {
		if strings.Contains(lower, s) {
			return errors.Service(trace, fmt.Sprintf("%s任务'%s'失败，目标字符串不允许'%s'调用", action, job.JobName, strings.TrimSuffix(s, "://")))
		}
	}
	if !CheckInvokeTarget(job.InvokeTarget) {
		return errors.Service(trace, fmt.Sprintf("%s任务'%s'失败，目标字符串不在白名单内", action, job.JobName))
	}
	return nil
}

func (l *JobLogic) schedule(job types.SysJob) error {
	s := l.core.Scheduler()
	if s == nil {
		return nil
	}
	if err := s.Schedule(job); err != nil {
		return internal("JobLogic.schedule.Scheduler.Schedule", err)
	}
	return nil
}

// notifyChanged 提交后广播, 其他调度进程收到后按库中最新状态重新登记
func (l *JobLogic) notifyChanged(jobIDs ...int64) {
	for _, id := range jobIDs {
		if err := l.core.Cache().Publish(l.ctx, protocol.JOB_CHANGED_CHANNEL, strconv.FormatInt(id, 10)); err != nil {
			slog.Warn("failed to publish job change", slog.Int64("job_id", id), slog.Any("error", err))
		}
	}
}

func (l *JobLogic) Create(job types.SysJob) error {
	if err := l.validate(job, "新增"); err != nil {
		return err
	}
	job.Created(l.OperName())
	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		id, err := l.core.Store().SysJobStore().Create(ctx, job)
		if err != nil {
			return internal("JobLogic.Create.SysJobStore.Create", err)
		}
		job.JobID = id
		return l.schedule(job)
	})
	if err != nil {
		return err
	}
	l.notifyChanged(job.JobID)
	return nil
}

func (l *JobLogic) Update(job types.SysJob) error {
	if err := l.validate(job, "修改"); err != nil {
		return err
	}
	if _, err := l.Get(job.JobID); err != nil {
		return err
	}
	job.Updated(l.OperName())
	err := l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().SysJobStore().Update(ctx, job); err != nil {
			return internal("JobLogic.Update.SysJobStore.Update", err)
		}
		return l.schedule(job)
	})
	if err != nil {
		return err
	}
	l.notifyChanged(job.JobID)
	return nil
}

func (l *JobLogic) ChangeStatus(jobID int64, status string) error {
	if status != types.JOB_STATUS_NORMAL && status != types.JOB_STATUS_PAUSE {
		return errors.Service("JobLogic.ChangeStatus", "任务状态不正确")
	}
	job, err := l.Get(jobID)
	if err != nil {
		return err
	}
	job.Status = status
	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.core.Store().SysJobStore().UpdateStatus(ctx, jobID, status, l.OperName()); err != nil {
			return internal("JobLogic.ChangeStatus.SysJobStore.UpdateStatus", err)
		}
		return l.schedule(*job)
	})
	if err != nil {
		return err
	}
	l.notifyChanged(jobID)
	return nil
}

// Run 立即执行一次, 不影响调度计划
func (l *JobLogic) Run(jobID int64) error {
	job, err := l.Get(jobID)
	if err != nil {
		return err
	}
	if err = l.core.Enqueue(l.ctx, core.TASK_JOB_RUN, job); err == nil {
		return nil
	}
	slog.Warn("enqueue job run failed, run directly", slog.Int64("job_id", jobID), slog.Any("error", err))
	if s := l.core.Scheduler(); s != nil {
		err = s.Execute(context.Background(), *job)
	} else {
		err = RunJob(context.Background(), l.core, *job)
	}
	if err != nil {
		return errors.New("JobLogic.Run", "任务执行失败", err).Code(500)
	}
	return nil
}

func (l *JobLogic) Delete(jobIDs []int64) error {
	if err := l.core.Store().SysJobStore().Delete(l.ctx, jobIDs); err != nil {
		return internal("JobLogic.Delete.SysJobStore.Delete", err)
	}
	if s := l.core.Scheduler(); s != nil {
		for _, id := range jobIDs {
			s.Unschedule(id)
		}
	}
	l.notifyChanged(jobIDs...)
	return nil
}

type JobLogLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewJobLogLogic(ctx context.Context, core *core.Core) *JobLogLogic {
	return &JobLogLogic{
		ctx:  ctx,
		core: core,
	}
}

func (l *JobLogLogic) List(opts types.ListSysJobLogOptions, c *types.Criterion) ([]types.SysJobLog, int64, error) {
	list, err := l.core.Store().SysJobLogStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("JobLogLogic.List.SysJobLogStore.List", err)
	}
	total, err := l.core.Store().SysJobLogStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("JobLogLogic.List.SysJobLogStore.Total", err)
	}
	return list, total, nil
}

func (l *JobLogLogic) Get(jobLogID int64) (*types.SysJobLog, error) {
	log, err := l.core.Store().SysJobLogStore().Get(l.ctx, jobLogID)
	if err != nil {
		return nil, notFoundOr("JobLogLogic.Get.SysJobLogStore.Get", err, "调度日志不存在")
	}
	return log, nil
}

func (l *JobLogLogic) Delete(jobLogIDs []int64) error {
	if err := l.core.Store().SysJobLogStore().Delete(l.ctx, jobLogIDs); err != nil {
		return internal("JobLogLogic.Delete.SysJobLogStore.Delete", err)
	}
	return nil
}

func (l *JobLogLogic) Clean() error {
	if err := l.core.Store().SysJobLogStore().Clean(l.ctx); err != nil {
		return internal("JobLogLogic.Clean.SysJobLogStore.Clean", err)
	}
	return nil
}
