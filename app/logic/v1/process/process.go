package process

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/register"
)

type Process struct {
	cron        *cron.Cron
	core        *core.Core
	scheduler   *JobScheduler
	asynqServer *asynq.Server
	asynqMux    *asynq.ServeMux
	stopWatch   context.CancelFunc
}

type ProcessKey struct{}

func NewProcess(c *core.Core) *Process {
	p := &Process{
		cron: cron.New(cron.WithLogger(cronLogger{}), cron.WithChain(cron.Recover(cronLogger{}))),
		core: c,
	}
	p.scheduler = NewJobScheduler(c, p.cron)
	c.SetScheduler(p.scheduler)

	// 日志写入与手动执行任务共用一个 worker, 日志队列优先级更低
	p.asynqServer = asynq.NewServer(c.Cfg().Redis.AsynqOpt(), asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			core.QUEUE_DEFAULT: 6,
			core.QUEUE_LOG:     4,
		},
		Logger:   asynqLogger{},
		LogLevel: asynq.WarnLevel,
	})
	p.asynqMux = asynq.NewServeMux()

	for _, h := range register.ResolveFuncHandlers[*Process](ProcessKey{}) {
		h(p)
	}

	return p
}

func (p *Process) Cron() *cron.Cron {
	return p.cron
}

func (p *Process) Core() *core.Core {
	return p.core
}

func (p *Process) Scheduler() *JobScheduler {
	return p.scheduler
}

func (p *Process) AsynqServerMux() *asynq.ServeMux {
	return p.asynqMux
}

func (p *Process) Start() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := p.scheduler.Load(ctx); err != nil {
		slog.Error("failed to load scheduled jobs", slog.Any("error", err))
	}
	p.cron.Start()

	watchCtx, stopWatch := context.WithCancel(context.Background())
	p.stopWatch = stopWatch
	go p.scheduler.Watch(watchCtx)

	go func() {
		if err := p.asynqServer.Run(p.asynqMux); err != nil {
			slog.Error("asynq server stopped", slog.Any("error", err))
		}
	}()
}

func (p *Process) Stop() {
	if p.stopWatch != nil {
		p.stopWatch()
	}
	if p.cron != nil {
		ctx := p.cron.Stop()
		<-ctx.Done()
	}
	if p.asynqServer != nil {
		p.asynqServer.Shutdown()
	}
}
