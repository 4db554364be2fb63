package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/exb-museum/exb-admin/app/core/srv"
	"github.com/exb-museum/exb-admin/app/store/sqlstore"
	"github.com/exb-museum/exb-admin/pkg/auth"
	"github.com/exb-museum/exb-admin/pkg/wechat"
)

type Core struct {
	cfg       CoreConfig
	srv       *srv.Srv
	startTime time.Time

	stores     func() *sqlstore.Provider
	redis      redis.UniversalClient
	locker     *redislock.Client
	semaphores *SemaphoreManager
	queue      *asynq.Client
	scheduler  Scheduler
	tokens     *auth.TokenService
	wechat     *wechat.Client
	httpClient *http.Client
	httpEngine *gin.Engine

	metrics *Metrics
	Plugins
}

func MustSetupCore(cfg CoreConfig) *Core {
	{
		var writer io.Writer = os.Stdout
		if cfg.Log.Path != "" {
			writer = &lumberjack.Logger{
				Filename:   cfg.Log.Path,
				MaxSize:    500, // megabytes
				MaxBackups: 3,
				MaxAge:     28,   //days
				Compress:   true, // disabled by default
			}
		}
		l := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: cfg.Log.SlogLevel(),
		}))
		slog.SetDefault(l)
	}

	core := &Core{
		cfg:        cfg,
		startTime:  time.Now(),
		httpClient: &http.Client{Timeout: time.Second * 3},
		metrics:    NewMetrics("exb", "admin"),
		httpEngine: gin.New(),
	}

	// setup store
	setupSqlStore(core)
	setupRedis(core)
	setupQueue(core)
	core.semaphores = NewSemaphoreManager(core)
	core.tokens = auth.NewTokenService(core.Cache(), cfg.Token.Secret, cfg.Token.Expire())
	core.wechat = wechat.NewClient(cfg.Wechat.APIBase, 5*time.Second)

	return core
}

func (s *Core) Cfg() CoreConfig {
	return s.cfg
}

func (s *Core) HttpEngine() *gin.Engine {
	return s.httpEngine
}

func (s *Core) HttpClient() *http.Client {
	return s.httpClient
}

func (s *Core) Metrics() *Metrics {
	return s.metrics
}

// StartTime 服务启动时间, 服务监控展示运行时长
func (s *Core) StartTime() time.Time {
	return s.startTime
}

func setupSqlStore(core *Core) {
	core.stores = sqlstore.MustSetup(core.cfg.Postgres)
	// 执行数据库表初始化
	if err := core.stores().Install(); err != nil {
		panic(err)
	}
	fmt.Println("setupSqlStore done")
}

func (s *Core) Store() *sqlstore.Provider {
	return s.stores()
}

func (s *Core) Srv() *srv.Srv {
	return s.srv
}

func (s *Core) Redis() redis.UniversalClient {
	return s.redis
}

// Locker 基于 redis 的分布式锁
func (s *Core) Locker() *redislock.Client {
	return s.locker
}

// Tokens 后台登录会话
func (s *Core) Tokens() *auth.TokenService {
	return s.tokens
}

// Wechat 小程序服务端接口
func (s *Core) Wechat() *wechat.Client {
	return s.wechat
}

func (s *Core) Semaphores() *SemaphoreManager {
	return s.semaphores
}

// ReloadRBAC 角色或菜单变更后重新加载权限
func (s *Core) ReloadRBAC(ctx context.Context) error {
	grants, err := s.Store().SysMenuStore().ListRolePermissions(ctx)
	if err != nil {
		return err
	}
	s.srv.RBAC().Reload(toGrants(grants))
	return nil
}
