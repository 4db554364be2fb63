package core

import (
	"context"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

func (r RedisConfig) universalOptions() *redis.UniversalOptions {
	opts := &redis.UniversalOptions{
		Addrs:        []string{r.Addr},
		Password:     r.Password,
		DB:           r.DB,
		PoolSize:     r.PoolSize,
		MinIdleConns: r.MinIdleConns,
		MaxRetries:   r.MaxRetries,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	if r.Cluster && len(r.ClusterAddrs) > 0 {
		opts.Addrs = r.ClusterAddrs
		opts.Password = r.ClusterPasswd
		// 集群模式不支持选库
		opts.DB = 0
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = 10
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if r.DialTimeout > 0 {
		opts.DialTimeout = time.Duration(r.DialTimeout) * time.Second
	}
	if r.ReadTimeout > 0 {
		opts.ReadTimeout = time.Duration(r.ReadTimeout) * time.Second
	}
	if r.WriteTimeout > 0 {
		opts.WriteTimeout = time.Duration(r.WriteTimeout) * time.Second
	}
	return opts
}

func setupRedis(core *Core) {
	if core.cfg.Redis.Addr == "" && len(core.cfg.Redis.ClusterAddrs) == 0 {
		panic("redis address is required")
	}
	core.redis = redis.NewUniversalClient(core.cfg.Redis.universalOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := core.redis.Ping(ctx).Err(); err != nil {
		panic(fmt.Errorf("failed to connect redis: %w", err))
	}
	core.locker = redislock.New(core.redis)
	fmt.Println("setupRedis done")
}
