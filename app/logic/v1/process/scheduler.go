package process

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/robfig/cron/v3"

	"github.com/exb-museum/exb-admin/app/core"
	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/types/protocol"
)

// jobTickTTL 只需覆盖各进程间的时钟偏差, 锁不主动释放
const jobTickTTL = time.Minute

type tickLocker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

// JobScheduler sys_job 的进程内调度, 每个任务对应一个 cron entry
type JobScheduler struct {
	core   *core.Core
	cron   *cron.Cron
	locker tickLocker

	lock    sync.Mutex
	entries map[int64]cron.EntryID
}

func NewJobScheduler(c *core.Core, cr *cron.Cron) *JobScheduler {
	s := &JobScheduler{
		core:    c,
		cron:    cr,
		entries: make(map[int64]cron.EntryID),
	}
	if c != nil {
		s.locker = c.Locker()
	}
	return s
}

// Load 启动时登记所有正常状态的任务, 单个任务失败不影响其他任务
func (s *JobScheduler) Load(ctx context.Context) error {
	jobs, err := s.core.Store().SysJobStore().List(ctx, types.ListSysJobOptions{Status: types.JOB_STATUS_NORMAL}, nil)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if err := s.Schedule(job); err != nil {
			slog.Error("failed to schedule job", slog.Int64("job_id", job.JobID), slog.String("cron", job.CronExpression), slog.Any("error", err))
		}
	}
	slog.Info("scheduled jobs loaded", slog.Int("count", len(s.entries)))
	return nil
}

func (s *JobScheduler) Schedule(job types.SysJob) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.remove(job.JobID)
	if job.Status != types.JOB_STATUS_NORMAL {
		return nil
	}
	schedule, err := v1.ParseCron(job.CronExpression)
	if err != nil {
		return err
	}
	s.entries[job.JobID] = s.cron.Schedule(schedule, WrapJob(job, s.runner(job)))
	return nil
}

// Reload job 为 nil 表示任务已删除
func (s *JobScheduler) Reload(jobID int64, job *types.SysJob) error {
	if job == nil {
		s.Unschedule(jobID)
		return nil
	}
	return s.Schedule(*job)
}

// Watch 订阅任务变更, 直到 ctx 结束
func (s *JobScheduler) Watch(ctx context.Context) {
	sub := s.core.Cache().Subscribe(ctx, protocol.JOB_CHANGED_CHANNEL)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.handleChange(ctx, msg.Payload)
		}
	}
}

func (s *JobScheduler) handleChange(ctx context.Context, payload string) {
	jobID, err := ParseJobChange(payload)
	if err != nil {
		slog.Warn("invalid job change message", slog.String("payload", payload), slog.Any("error", err))
		return
	}
	job, err := s.core.Store().SysJobStore().Get(ctx, jobID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to load changed job", slog.Int64("job_id", jobID), slog.Any("error", err))
		return
	}
	if err = s.Reload(jobID, job); err != nil {
		slog.Error("failed to reschedule job", slog.Int64("job_id", jobID), slog.Any("error", err))
		return
	}
	slog.Debug("job rescheduled", slog.Int64("job_id", jobID))
}

func ParseJobChange(payload string) (int64, error) {
	jobID, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return 0, err
	}
	if jobID <= 0 {
		return 0, errors.New("job id must be positive")
	}
	return jobID, nil
}

// JobTick 触发时刻取整到秒, 容忍进程间亚秒级的时钟偏差
func JobTick(now time.Time) int64 {
	return now.Round(time.Second).Unix()
}

// claimTick service 与 process 同时运行调度时, 同一任务的同一次触发只在一个进程执行
func (s *JobScheduler) claimTick(ctx context.Context, jobID int64, now time.Time) bool {
	_, err := s.locker.Obtain(ctx, protocol.GenJobTickLockKey(jobID, JobTick(now)), jobTickTTL, nil)
	if err == nil {
		return true
	}
	if errors.Is(err, redislock.ErrNotObtained) {
		slog.Debug("job tick claimed by another scheduler", slog.Int64("job_id", jobID))
		return false
	}
	slog.Warn("failed to claim job tick, run locally", slog.Int64("job_id", jobID), slog.Any("error", err))
	return true
}

func (s *JobScheduler) Unschedule(jobID int64) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.remove(jobID)
}

func (s *JobScheduler) remove(jobID int64) {
	if id, ok := s.entries[jobID]; ok {
		s.cron.Remove(id)
		delete(s.entries, jobID)
	}
}

func (s *JobScheduler) Execute(ctx context.Context, job types.SysJob) error {
	return v1.RunJob(ctx, s.core, job)
}

// NextTime 调度器未启动或任务未登记时返回零值
func (s *JobScheduler) NextTime(jobID int64) time.Time {
	s.lock.Lock()
	id, ok := s.entries[jobID]
	s.lock.Unlock()
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

func (s *JobScheduler) runner(job types.SysJob) cron.Job {
	return cron.FuncJob(func() {
		ctx := context.Background()
		if !s.claimTick(ctx, job.JobID, time.Now()) {
			return
		}
		if err := v1.RunJob(ctx, s.core, job); err != nil {
			slog.Warn("scheduled job failed", slog.Int64("job_id", job.JobID), slog.String("job_name", job.JobName), slog.Any("error", err))
		}
	})
}

// WrapJob 禁止并发的任务在上一次未结束时按计划策略处理错过的触发:
// 放弃执行直接跳过, 执行一次则合并为一次补执行, 其余按顺序补执行
func WrapJob(job types.SysJob, j cron.Job) cron.Job {
	if job.Concurrent != types.JOB_CONCURRENT_FORBID {
		return j
	}
	switch job.MisfirePolicy {
	case types.MISFIRE_DO_NOTHING:
		return cron.SkipIfStillRunning(cronLogger{})(j)
	case types.MISFIRE_FIRE_ONCE:
		return &coalesceJob{job: j}
	default:
		return cron.DelayIfStillRunning(cronLogger{})(j)
	}
}

// coalesceJob 运行期间的多次触发只补执行一次
type coalesceJob struct {
	job cron.Job

	mu      sync.Mutex
	running bool
	pending bool
}

func (c *coalesceJob) Run() {
	c.mu.Lock()
	if c.running {
		c.pending = true
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	for {
		c.job.Run()

		c.mu.Lock()
		if !c.pending {
			c.running = false
			c.mu.Unlock()
			return
		}
		c.pending = false
		c.mu.Unlock()
	}
}
