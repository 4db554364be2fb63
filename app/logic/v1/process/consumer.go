package process

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/exb-museum/exb-admin/app/core"
	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/pkg/register"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func init() {
	register.RegisterFunc[*Process](ProcessKey{}, func(p *Process) {
		mux := p.AsynqServerMux()
		mux.HandleFunc(core.TASK_OPERLOG_RECORD, HandleOperLog(p.Core()))
		mux.HandleFunc(core.TASK_LOGININFOR_RECORD, HandleLogininfor(p.Core()))
		mux.HandleFunc(core.TASK_JOB_RUN, HandleJobRun(p.Core()))
		slog.Info("log and job consumers registered")
	})
}

// decodePayload 无法解析的任务不再重试
func decodePayload[T any](task *asynq.Task) (T, error) {
	var payload T
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal %s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
	}
	return payload, nil
}

func HandleOperLog(c *core.Core) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		record, err := decodePayload[types.SysOperLog](task)
		if err != nil {
			slog.Error("invalid operlog task", slog.Any("error", err))
			return err
		}
		return c.Store().SysOperLogStore().Create(ctx, record)
	}
}

func HandleLogininfor(c *core.Core) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		record, err := decodePayload[types.SysLogininfor](task)
		if err != nil {
			slog.Error("invalid logininfor task", slog.Any("error", err))
			return err
		}
		return c.Store().SysLogininforStore().Create(ctx, record)
	}
}

// HandleJobRun 手动执行一次任务, 执行结果记录在调度日志中, 失败不重试
func HandleJobRun(c *core.Core) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		job, err := decodePayload[types.SysJob](task)
		if err != nil {
			slog.Error("invalid job run task", slog.Any("error", err))
			return err
		}
		if err = v1.RunJob(ctx, c, job); err != nil {
			return fmt.Errorf("job %d failed: %v: %w", job.JobID, err, asynq.SkipRetry)
		}
		return nil
	}
}
