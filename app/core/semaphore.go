package core

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/exb-museum/exb-admin/pkg/types/protocol"
)

var (
	acquireScript = redis.NewScript(`
		local key = KEYS[1]
		local max_permits = tonumber(ARGV[1])
		local timeout = tonumber(ARGV[2])

		local current = tonumber(redis.call('GET', key) or '0')

		if current < max_permits then
			redis.call('INCR', key)
			redis.call('EXPIRE', key, timeout)
			return 1
		else
			return 0
		end
	`)

	// 避免减到负数
	releaseScript = redis.NewScript(`
		local key = KEYS[1]
		local current = tonumber(redis.call('GET', key) or '0')

		if current > 0 then
			redis.call('DECR', key)
			return 1
		else
			return 0
		end
	`)
)

// DistributedSemaphore 分布式信号量，基于 Redis 实现
type DistributedSemaphore struct {
	redis      redis.UniversalClient
	key        string
	maxPermits int
	timeout    time.Duration
}

func NewDistributedSemaphore(redis redis.UniversalClient, key string, maxPermits int, timeout time.Duration) *DistributedSemaphore {
	return &DistributedSemaphore{
		redis:      redis,
		key:        key,
		maxPermits: maxPermits,
		timeout:    timeout,
	}
}

// TryAcquire 尝试获取信号量许可
func (s *DistributedSemaphore) TryAcquire(ctx context.Context) bool {
	result, err := acquireScript.Run(ctx, s.redis, []string{s.key}, s.maxPermits, int(s.timeout.Seconds())).Int()
	if err != nil {
		return false
	}
	return result == 1
}

func (s *DistributedSemaphore) Release(ctx context.Context) {
	releaseScript.Run(ctx, s.redis, []string{s.key})
}

// GetCurrent 获取当前已使用的许可数
func (s *DistributedSemaphore) GetCurrent(ctx context.Context) int {
	result, err := s.redis.Get(ctx, s.key).Int()
	if err != nil {
		return 0
	}
	return result
}

type SemaphoreManager struct {
	core        *Core
	aiCrawl     *DistributedSemaphore
	aiCrawlOnce sync.Once
}

func NewSemaphoreManager(core *Core) *SemaphoreManager {
	return &SemaphoreManager{
		core: core,
	}
}

// AICrawl 限制同时进行的网页抓取数量, 浏览器与大模型调用都比较重
func (m *SemaphoreManager) AICrawl() *DistributedSemaphore {
	m.aiCrawlOnce.Do(func() {
		maxConcurrency := DEFAULT_CRAWL_CONCURRENCY
		if m.core.cfg.AICrawl.MaxConcurrency > 0 {
			maxConcurrency = m.core.cfg.AICrawl.MaxConcurrency
		}

		m.aiCrawl = NewDistributedSemaphore(
			m.core.Redis(),
			protocol.GenSemaphoreKey("aicrawl"),
			maxConcurrency,
			time.Minute*5,
		)
	})
	return m.aiCrawl
}
