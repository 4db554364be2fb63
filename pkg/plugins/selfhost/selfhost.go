package selfhost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/time/rate"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/plugins"
	"github.com/exb-museum/exb-admin/pkg/plugins/selfhost/srv"
	"github.com/exb-museum/exb-admin/pkg/safe"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/types/protocol"
	"github.com/exb-museum/exb-admin/pkg/utils"
)

func init() {
	plugins.RegisterProvider("selfhost", newSelfHostMode())
}

var _ core.Plugins = (*SelfHostPlugin)(nil)

func newSelfHostMode() *SelfHostPlugin {
	return &SelfHostPlugin{
		limiter: cmap.New[*rate.Limiter](),
	}
}

type SelfHostPlugin struct {
	core    *srv.PluginCore
	storage core.FileStorage
	limiter cmap.ConcurrentMap[string, *rate.Limiter]
}

func (s *SelfHostPlugin) Name() string {
	return "selfhost"
}

func (s *SelfHostPlugin) Install(c *core.Core) error {
	fmt.Println("Start initialize.")
	utils.SetupIDWorker(1)

	var err error
	if s.core, err = srv.NewPluginCore(c); err != nil {
		return err
	}

	var userCount int
	if err = c.Store().GetMaster().Get(&userCount, "SELECT COUNT(*) FROM "+types.TABLE_SYS_USER.Name()+" WHERE del_flag = '0'"); err != nil {
		return fmt.Errorf("Initialize sql error: %w", err)
	}
	if userCount == 0 {
		return fmt.Errorf("no user found, the seed migration may have failed")
	}
	fmt.Println("System is already initialized. Skip.")
	return nil
}

// TryLock 获取分布式锁, ctx 结束时自动释放
func (s *SelfHostPlugin) TryLock(ctx context.Context, key string) (bool, error) {
	ttl := 10 * time.Minute
	if deadline, ok := ctx.Deadline(); ok {
		ttl = time.Until(deadline)
	}
	if ttl <= 0 {
		return false, context.DeadlineExceeded
	}

	lock, err := s.core.AppCore.Locker().Obtain(ctx, protocol.GenLockKey(key), ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	go safe.Run(func() {
		<-ctx.Done()
		releaseCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			slog.Warn("failed to release lock", slog.String("key", key), slog.String("error", err.Error()))
		}
	})
	return true, nil
}

// UseLimiter 令牌桶, 默认每分钟 DefaultRateLimit 次
func (s *SelfHostPlugin) UseLimiter(c *gin.Context, key string, method string, opts ...core.LimitOption) core.Limiter {
	cfg := &core.LimitConfig{
		Limit: s.core.Cfg.DefaultRateLimit,
		Every: time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 1
	}

	limitKey := fmt.Sprintf("%s:%s", method, key)
	s.limiter.SetIfAbsent(limitKey, rate.NewLimiter(rate.Every(cfg.Every/time.Duration(cfg.Limit)), cfg.Limit))
	l, _ := s.limiter.Get(limitKey)
	return l
}

func (s *SelfHostPlugin) FileStorage() core.FileStorage {
	if s.storage != nil {
		return s.storage
	}

	s.storage = plugins.SetupObjectStorage(s.core.AppCore.Cfg().ObjectStorage)

	return s.storage
}

func (s *SelfHostPlugin) EncryptData(data []byte) ([]byte, error) {
	if s.core.Cfg.EncryptKey == "" {
		return data, nil
	}

	return utils.EncryptCFB(data, []byte(s.core.Cfg.EncryptKey))
}

func (s *SelfHostPlugin) DecryptData(data []byte) ([]byte, error) {
	if s.core.Cfg.EncryptKey == "" {
		return data, nil
	}

	return utils.DecryptCFB(data, []byte(s.core.Cfg.EncryptKey))
}
