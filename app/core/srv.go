package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/exb-museum/exb-admin/app/core/srv"
	"github.com/exb-museum/exb-admin/app/store"
)

func SetupSrv(core *Core) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var opts []srv.ApplyFunc
	// 初始化时加载角色权限
	grants, err := core.Store().SysMenuStore().ListRolePermissions(ctx)
	if err != nil {
		slog.Error("failed to load role permissions", slog.String("error", err.Error()))
	} else {
		opts = append(opts, srv.ApplyGrants(toGrants(grants)))
	}

	crawl := core.cfg.AICrawl
	opts = append(opts, srv.ApplyCrawl(srv.CrawlConfig{
		QwenAPIKey:  crawl.Qwen.APIKey,
		QwenBaseURL: crawl.Qwen.BaseURL,
		QwenModel:   crawl.Qwen.ModelName,
		WSEndpoint:  crawl.Chromium.WSEndpoint,
		Timeout:     time.Duration(crawl.Chromium.Timeout) * time.Second,
	}))

	core.srv = srv.SetupSrvs(opts...)
}

func toGrants(list []store.RolePermission) []srv.Grant {
	return lo.Map(list, func(item store.RolePermission, _ int) srv.Grant {
		return srv.Grant{Role: item.RoleKey, Permission: item.Perms}
	})
}
