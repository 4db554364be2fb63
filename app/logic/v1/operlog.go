package v1

import (
	"context"
	"log/slog"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/safe"
	"github.com/exb-museum/exb-admin/pkg/types"
)

// RecordOperLog 操作日志异步写入, 队列不可用时直接写库
func RecordOperLog(c *core.Core, record types.SysOperLog) {
	if err := c.Enqueue(context.Background(), core.TASK_OPERLOG_RECORD, record, core.QueueLog()); err != nil {
		slog.Warn("enqueue operlog failed, write directly", slog.Any("error", err))
		go safe.Run(func() {
			if err := c.Store().SysOperLogStore().Create(context.Background(), record); err != nil {
				slog.Error("failed to record operlog", slog.String("title", record.Title), slog.Any("error", err))
			}
		})
	}
}

type OperLogLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewOperLogLogic(ctx context.Context, core *core.Core) *OperLogLogic {
	return &OperLogLogic{
		ctx:  ctx,
		core: core,
	}
}

func (l *OperLogLogic) List(opts types.ListSysOperLogOptions, c *types.Criterion) ([]types.SysOperLog, int64, error) {
	list, err := l.core.Store().SysOperLogStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("OperLogLogic.List.SysOperLogStore.List", err)
	}
	total, err := l.core.Store().SysOperLogStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("OperLogLogic.List.SysOperLogStore.Total", err)
	}
	return list, total, nil
}

func (l *OperLogLogic) Get(operID int64) (*types.SysOperLog, error) {
	log, err := l.core.Store().SysOperLogStore().Get(l.ctx, operID)
	if err != nil {
		return nil, notFoundOr("OperLogLogic.Get.SysOperLogStore.Get", err, "操作日志不存在")
	}
	return log, nil
}

func (l *OperLogLogic) Delete(operIDs []int64) error {
	if err := l.core.Store().SysOperLogStore().Delete(l.ctx, operIDs); err != nil {
		return internal("OperLogLogic.Delete.SysOperLogStore.Delete", err)
	}
	return nil
}

func (l *OperLogLogic) Clean() error {
	if err := l.core.Store().SysOperLogStore().Clean(l.ctx); err != nil {
		return internal("OperLogLogic.Clean.SysOperLogStore.Clean", err)
	}
	return nil
}
