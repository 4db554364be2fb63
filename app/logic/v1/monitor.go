package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/types/protocol"
)

type OnlineLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewOnlineLogic(ctx context.Context, core *core.Core) *OnlineLogic {
	return &OnlineLogic{
		ctx:  ctx,
		core: core,
	}
}

// List 扫描 login_tokens:* 得到在线会话, ipaddr 与 userName 为精确匹配
func (l *OnlineLogic) List(ipaddr, userName string) ([]types.SysUserOnline, error) {
	keys, err := l.core.Cache().Keys(l.ctx, protocol.GenLoginTokenKey("*"))
	if err != nil {
		return nil, internal("OnlineLogic.List.Cache.Keys", err)
	}
	list := make([]types.SysUserOnline, 0, len(keys))
	for _, key := range keys {
		raw, err := l.core.Cache().Get(l.ctx, key)
		if err != nil || raw == "" {
			continue
		}
		var u types.LoginUser
		if err = json.Unmarshal([]byte(raw), &u); err != nil {
			slog.Warn("invalid login session", slog.String("key", key), slog.Any("error", err))
			continue
		}
		if ipaddr != "" && u.Ipaddr != ipaddr {
			continue
		}
		if userName != "" && u.UserName() != userName {
			continue
		}
		list = append(list, types.SysUserOnline{
			TokenID:       u.Token,
			DeptName:      u.DeptName,
			UserName:      u.UserName(),
			Ipaddr:        u.Ipaddr,
			LoginLocation: u.LoginLocation,
			Browser:       u.Browser,
			OS:            u.OS,
			LoginTime:     u.LoginTime,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].LoginTime > list[j].LoginTime })
	return list, nil
}

// ForceLogout 强退
func (l *OnlineLogic) ForceLogout(tokenID string) error {
	if err := l.core.Tokens().DelLoginUser(l.ctx, tokenID); err != nil {
		return internal("OnlineLogic.ForceLogout.Tokens.DelLoginUser", err)
	}
	return nil
}

type CacheLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewCacheLogic(ctx context.Context, core *core.Core) *CacheLogic {
	return &CacheLogic{
		ctx:  ctx,
		core: core,
	}
}

type CommandStat struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type CacheInfo struct {
	Info         map[string]string `json:"info"`
	DBSize       int64             `json:"dbSize"`
	CommandStats []CommandStat     `json:"commandStats"`
}

type SysCache struct {
	CacheName  string `json:"cacheName"`
	CacheKey   string `json:"cacheKey"`
	CacheValue string `json:"cacheValue"`
	Remark     string `json:"remark"`
}

func (l *CacheLogic) Info() (*CacheInfo, error) {
	raw, err := l.core.Cache().Info(l.ctx)
	if err != nil {
		return nil, internal("CacheLogic.Info.Cache.Info", err)
	}
	size, err := l.core.Cache().DBSize(l.ctx)
	if err != nil {
		return nil, internal("CacheLogic.Info.Cache.DBSize", err)
	}
	stats, err := l.core.Cache().CommandStats(l.ctx)
	if err != nil {
		return nil, internal("CacheLogic.Info.Cache.CommandStats", err)
	}
	return &CacheInfo{
		Info:         core.ParseRedisInfo(raw),
		DBSize:       size,
		CommandStats: ParseCommandStats(stats),
	}, nil
}

// ParseCommandStats cmdstat_get -> calls=10,usec=... 转为 {name: get, value: 10}
func ParseCommandStats(stats map[string]string) []CommandStat {
	res := make([]CommandStat, 0, len(stats))
	for k, v := range stats {
		name, ok := strings.CutPrefix(k, "cmdstat_")
		if !ok {
			continue
		}
		calls := ""
		for _, item := range strings.Split(v, ",") {
			if c, ok := strings.CutPrefix(item, "calls="); ok {
				calls = c
				break
			}
		}
		res = append(res, CommandStat{Name: name, Value: cast.ToString(cast.ToInt64(calls))})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res
}

func (l *CacheLogic) Names() []SysCache {
	res := make([]SysCache, 0, len(protocol.CacheNames))
	for _, n := range protocol.CacheNames {
		res = append(res, SysCache{CacheName: n.CacheName, Remark: n.Remark})
	}
	return res
}

func (l *CacheLogic) Keys(cacheName string) ([]string, error) {
	keys, err := l.core.Cache().Keys(l.ctx, cacheName+"*")
	if err != nil {
		return nil, internal("CacheLogic.Keys.Cache.Keys", err)
	}
	slices.Sort(keys)
	return keys, nil
}

func (l *CacheLogic) Value(cacheName, cacheKey string) (*SysCache, error) {
	val, err := l.core.Cache().Get(l.ctx, cacheKey)
	if err != nil {
		return nil, internal("CacheLogic.Value.Cache.Get", err)
	}
	return &SysCache{
		CacheName:  cacheName,
		CacheKey:   strings.TrimPrefix(cacheKey, cacheName),
		CacheValue: val,
	}, nil
}

func (l *CacheLogic) ClearName(cacheName string) error {
	if err := l.core.Cache().DelPattern(l.ctx, cacheName+"*"); err != nil {
		return internal("CacheLogic.ClearName.Cache.DelPattern", err)
	}
	return nil
}

func (l *CacheLogic) ClearKey(cacheKey string) error {
	if err := l.core.Cache().Del(l.ctx, cacheKey); err != nil {
		return internal("CacheLogic.ClearKey.Cache.Del", err)
	}
	return nil
}

// ClearAll 只清理缓存监控中列出的分组
func (l *CacheLogic) ClearAll() error {
	for _, n := range protocol.CacheNames {
		if err := l.ClearName(n.CacheName); err != nil {
			return err
		}
	}
	return nil
}
