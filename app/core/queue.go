package core

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/exb-museum/exb-admin/pkg/types"
)

// 异步任务类型
const (
	TASK_OPERLOG_RECORD    = "operlog:record"
	TASK_LOGININFOR_RECORD = "logininfor:record"
	TASK_JOB_RUN           = "job:run"

	QUEUE_DEFAULT = "default"
	QUEUE_LOG     = "log"
)

func (r RedisConfig) AsynqOpt() asynq.RedisConnOpt {
	if r.Cluster && len(r.ClusterAddrs) > 0 {
		return asynq.RedisClusterClientOpt{
			Addrs:    r.ClusterAddrs,
			Password: r.ClusterPasswd,
		}
	}
	return asynq.RedisClientOpt{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
	}
}

func setupQueue(core *Core) {
	core.queue = asynq.NewClient(core.cfg.Redis.AsynqOpt())
}

func (s *Core) Queue() *asynq.Client {
	return s.queue
}

// Enqueue payload 以 json 序列化
func (s *Core) Enqueue(ctx context.Context, taskType string, payload any, opts ...asynq.Option) error {
	if s.queue == nil {
		return fmt.Errorf("queue is not ready")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	opts = append([]asynq.Option{asynq.MaxRetry(3), asynq.Timeout(time.Minute)}, opts...)
	_, err = s.queue.EnqueueContext(ctx, asynq.NewTask(taskType, raw), opts...)
	return err
}

// Scheduler 定时任务调度器, 由 process 启动时注册
type Scheduler interface {
	// Schedule 按任务当前状态重新登记, 暂停的任务会被移除
	Schedule(job types.SysJob) error
	Unschedule(jobID int64)
	// Execute 立即执行一次
	Execute(ctx context.Context, job types.SysJob) error
	NextTime(jobID int64) time.Time
}

func (s *Core) SetScheduler(scheduler Scheduler) {
	s.scheduler = scheduler
}

func (s *Core) Scheduler() Scheduler {
	return s.scheduler
}

// QueueLog 日志类任务使用独立队列, 避免挤占任务执行
func QueueLog() asynq.Option {
	return asynq.Queue(QUEUE_LOG)
}
