package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/exb-museum/exb-admin/app/core"
	v1 "github.com/exb-museum/exb-admin/app/logic/v1"
	"github.com/exb-museum/exb-admin/app/logic/v1/process"
	"github.com/exb-museum/exb-admin/pkg/plugins"
)

type Options struct {
	ConfigPath string
	Init       string
	// Process service 命令是否同时运行定时调度与任务消费
	Process bool
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	// Add flags for generic options
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config")
	flagSet.StringVarP(&o.Init, "init", "i", "selfhost", "start service after initialize")
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "admin api service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	cmd.Flags().BoolVar(&opts.Process, "process", true, "run job scheduler and task consumers in this process, disable when the process command is deployed")
	return cmd
}

func setup(opts *Options) *core.Core {
	app := core.MustSetupCore(core.MustLoadBaseConfig(opts.ConfigPath))
	plugins.Setup(app.InstallPlugins, opts.Init)
	return app
}

// warmup 启动时加载字典、参数缓存与角色权限
func warmup(app *core.Core) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := v1.LoadDictCache(ctx, app); err != nil {
		slog.Error("failed to load dict cache", slog.Any("error", err))
	}
	if err := v1.LoadConfigCache(ctx, app); err != nil {
		slog.Error("failed to load config cache", slog.Any("error", err))
	}
	if err := app.ReloadRBAC(ctx); err != nil {
		slog.Error("failed to load role permissions", slog.Any("error", err))
	}
}

func Run(opts *Options) error {
	app := setup(opts)
	warmup(app)
	if opts.Process {
		process.NewProcess(app).Start()
	} else {
		slog.Info("job scheduler disabled, jobs run in the process command")
	}
	serve(app)

	return nil
}

func NewProcessCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "process",
		Short: "scheduler and log consumers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunProcess(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func RunProcess(opts *Options) error {
	app := setup(opts)
	p := process.NewProcess(app)
	p.Start()
	fmt.Println("Process starting...")
	sigs := make(chan os.Signal, 1)
	// 监听 os.Interrupt (Ctrl+C) 和 syscall.SIGTERM (kill)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	// 阻塞等待信号
	<-sigs
	p.Stop()
	return nil
}
