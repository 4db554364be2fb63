package v1

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/types/protocol"
)

// 参数缓存不设置过期, 写操作时刷新
const configCacheTTL = 0

type ConfigLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewConfigLogic(ctx context.Context, core *core.Core) *ConfigLogic {
	return &ConfigLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// GetConfigValue 先读缓存, 未命中时回源并写入缓存. 未登录的接口(验证码/注册)也会调用
func GetConfigValue(ctx context.Context, c *core.Core, key string) (string, error) {
	cacheKey := protocol.GenSysConfigKey(key)
	if val, err := c.Redis().Get(ctx, cacheKey).Result(); err == nil {
		return val, nil
	}

	conf, err := c.Store().SysConfigStore().GetByKey(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", internal("GetConfigValue.SysConfigStore.GetByKey", err)
	}
	if err = c.Redis().Set(ctx, cacheKey, conf.ConfigValue, configCacheTTL).Err(); err != nil {
		slog.Warn("failed to cache sys config", slog.String("key", key), slog.Any("error", err))
	}
	return conf.ConfigValue, nil
}

// CaptchaEnabled 参数不存在时默认开启
func CaptchaEnabled(ctx context.Context, c *core.Core) bool {
	val, err := GetConfigValue(ctx, c, types.CONFIG_CAPTCHA_ENABLED)
	if err != nil || val == "" {
		return true
	}
	return val == "true"
}

func (l *ConfigLogic) GetConfigByKey(key string) (string, error) {
	return GetConfigValue(l.ctx, l.core, key)
}

func (l *ConfigLogic) List(opts types.ListSysConfigOptions, c *types.Criterion) ([]types.SysConfig, int64, error) {
	list, err := l.core.Store().SysConfigStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("ConfigLogic.List.SysConfigStore.List", err)
	}
	total, err := l.core.Store().SysConfigStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("ConfigLogic.List.SysConfigStore.Total", err)
	}
	return list, total, nil
}

func (l *ConfigLogic) Get(configID int64) (*types.SysConfig, error) {
	conf, err := l.core.Store().SysConfigStore().Get(l.ctx, configID)
	if err != nil {
		return nil, notFoundOr("ConfigLogic.Get.SysConfigStore.Get", err, "参数不存在")
	}
	return conf, nil
}

func (l *ConfigLogic) checkKeyUnique(conf types.SysConfig) (bool, error) {
	exist, err := l.core.Store().SysConfigStore().GetByKey(l.ctx, conf.ConfigKey)
	if err != nil {
		if isNotFound(err) {
			return true, nil
		}
		return false, internal("ConfigLogic.checkKeyUnique.SysConfigStore.GetByKey", err)
	}
	return exist.ConfigID == conf.ConfigID, nil
}

func (l *ConfigLogic) Create(conf types.SysConfig) error {
	unique, err := l.checkKeyUnique(conf)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Service("ConfigLogic.Create", fmt.Sprintf("新增参数'%s'失败，参数键名已存在", conf.ConfigName))
	}
	conf.Created(l.OperName())
	if _, err = l.core.Store().SysConfigStore().Create(l.ctx, conf); err != nil {
		return internal("ConfigLogic.Create.SysConfigStore.Create", err)
	}
	return l.core.Redis().Set(l.ctx, protocol.GenSysConfigKey(conf.ConfigKey), conf.ConfigValue, configCacheTTL).Err()
}

func (l *ConfigLogic) Update(conf types.SysConfig) error {
	unique, err := l.checkKeyUnique(conf)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Service("ConfigLogic.Update", fmt.Sprintf("修改参数'%s'失败，参数键名已存在", conf.ConfigName))
	}
	old, err := l.Get(conf.ConfigID)
	if err != nil {
		return err
	}
	conf.Updated(l.OperName())
	if err = l.core.Store().SysConfigStore().Update(l.ctx, conf); err != nil {
		return internal("ConfigLogic.Update.SysConfigStore.Update", err)
	}
	if old.ConfigKey != conf.ConfigKey {
		l.core.Cache().Del(l.ctx, protocol.GenSysConfigKey(old.ConfigKey))
	}
	return l.core.Redis().Set(l.ctx, protocol.GenSysConfigKey(conf.ConfigKey), conf.ConfigValue, configCacheTTL).Err()
}

func (l *ConfigLogic) Delete(configIDs []int64) error {
	var keys []string
	for _, id := range configIDs {
		conf, err := l.Get(id)
		if err != nil {
			return err
		}
		if conf.ConfigType == types.YES {
			return errors.Service("ConfigLogic.Delete", fmt.Sprintf("内置参数【%s】不能删除", conf.ConfigKey))
		}
		keys = append(keys, protocol.GenSysConfigKey(conf.ConfigKey))
	}
	if err := l.core.Store().SysConfigStore().Delete(l.ctx, configIDs); err != nil {
		return internal("ConfigLogic.Delete.SysConfigStore.Delete", err)
	}
	return l.core.Cache().Del(l.ctx, keys...)
}

// RefreshCache 清空后重新加载全部参数
func (l *ConfigLogic) RefreshCache() error {
	return LoadConfigCache(l.ctx, l.core)
}

func LoadConfigCache(ctx context.Context, c *core.Core) error {
	if err := c.Cache().DelPattern(ctx, protocol.GenSysConfigKey("*")); err != nil {
		return internal("LoadConfigCache.DelPattern", err)
	}
	list, err := c.Store().SysConfigStore().List(ctx, types.ListSysConfigOptions{}, nil)
	if err != nil {
		return internal("LoadConfigCache.SysConfigStore.List", err)
	}
	pipe := c.Redis().Pipeline()
	for _, conf := range list {
		pipe.Set(ctx, protocol.GenSysConfigKey(conf.ConfigKey), conf.ConfigValue, configCacheTTL)
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err = pipe.Exec(ctx); err != nil {
		return internal("LoadConfigCache.Pipeline.Exec", err)
	}
	return nil
}
