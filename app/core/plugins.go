package core

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/exb-museum/exb-admin/pkg/object-storage/s3"
	"github.com/exb-museum/exb-admin/pkg/types"
)

type Plugins interface {
	Name() string
	Install(*Core) error
	TryLock(ctx context.Context, key string) (bool, error)
	UseLimiter(c *gin.Context, key string, method string, opts ...LimitOption) Limiter
	FileStorage() FileStorage
	EncryptData(data []byte) ([]byte, error)
	DecryptData(data []byte) ([]byte, error)
}

type LimitConfig struct {
	Limit int
	Every time.Duration
}

type LimitOption func(l *LimitConfig)

func WithLimit(limit int) LimitOption {
	return func(l *LimitConfig) {
		l.Limit = limit
	}
}

func WithRange(r time.Duration) LimitOption {
	return func(l *LimitConfig) {
		l.Every = r
	}
}

// FileStorage 上传文件与媒体资源的存储
type FileStorage interface {
	GetStaticDomain() string
	SaveFile(ctx context.Context, fullPath, contentType string, content []byte) error
	DeleteFile(ctx context.Context, fullPath string) error
	GenGetObjectPreSignURL(ctx context.Context, url string) (string, error)
	DownloadFile(ctx context.Context, fullPath string) (*s3.GetObjectResult, error)
}

type Limiter interface {
	Allow() bool
}

type SetupFunc func() Plugins

func (c *Core) InstallPlugins(p Plugins) {
	if err := p.Install(c); err != nil {
		panic(err)
	}
	c.Plugins = p

	// after plugins installed
	SetupSrv(c)
	// 为 sqlstore.Provider 设置 cache 函数
	c.stores().SetCacheFunc(func() types.Cache {
		return c.Cache()
	})
}

func (c *Core) Cache() *Cache {
	return &Cache{
		redis: c.Redis(),
	}
}

type Cache struct {
	redis redis.UniversalClient
}

func (c *Cache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.redis.Expire(ctx, key, expiration).Err()
}

func (c *Cache) SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error {
	return c.redis.SetEx(ctx, key, value, expiresAt).Err()
}

// Get 键不存在时返回空字符串
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	res, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return res, err
}

// GetDel 原子地读取并删除, 键不存在时返回空字符串
func (c *Cache) GetDel(ctx context.Context, key string) (string, error) {
	res, err := c.redis.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return res, err
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Del(ctx, keys...).Err()
}

func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.redis.TTL(ctx, key).Result()
}

func (c *Cache) Incr(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	n, err := c.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err = c.redis.Expire(ctx, key, expiration).Err(); err != nil {
			slog.Warn("failed to set counter expiration", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
	return n, nil
}

// SetNX 不存在时写入, 用于防重放
func (c *Cache) SetNX(ctx context.Context, key, value string, expiration time.Duration) (bool, error) {
	return c.redis.SetNX(ctx, key, value, expiration).Result()
}

func (c *Cache) Publish(ctx context.Context, channel, message string) error {
	return c.redis.Publish(ctx, channel, message).Err()
}

func (c *Cache) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return c.redis.Subscribe(ctx, channels...)
}

// Keys 使用 SCAN 遍历匹配的键, 避免 KEYS 阻塞
func (c *Cache) Keys(ctx context.Context, pattern string) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := c.redis.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if cursor = next; cursor == 0 {
			break
		}
	}
	return keys, nil
}

// DelPattern 删除匹配的所有键
func (c *Cache) DelPattern(ctx context.Context, pattern string) error {
	keys, err := c.Keys(ctx, pattern)
	if err != nil {
		return err
	}
	return c.Del(ctx, keys...)
}

// Info 对应 redis INFO 命令, section 为空时返回全部
func (c *Cache) Info(ctx context.Context, sections ...string) (string, error) {
	return c.redis.Info(ctx, sections...).Result()
}

func (c *Cache) DBSize(ctx context.Context) (int64, error) {
	return c.redis.DBSize(ctx).Result()
}

// CommandStats INFO commandstats 中的 cmdstat_xxx:calls=n 行
func (c *Cache) CommandStats(ctx context.Context) (map[string]string, error) {
	raw, err := c.Info(ctx, "commandstats")
	if err != nil {
		return nil, err
	}
	return ParseRedisInfo(raw), nil
}

// ParseRedisInfo 解析 INFO 返回的 key:value 文本
func ParseRedisInfo(raw string) map[string]string {
	res := make(map[string]string)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, ":"); ok {
			res[k] = v
		}
	}
	return res
}
