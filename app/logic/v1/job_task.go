package v1

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cast"

	"github.com/exb-museum/exb-admin/app/core"
)

func init() {
	RegisterJobFunc("ryTask.ryNoParams", ryNoParams)
	RegisterJobFunc("ryTask.ryParams", ryParams)
	RegisterJobFunc("ryTask.ryMultipleParams", ryMultipleParams)
	RegisterJobFunc("exbTask.recountRegistration", recountRegistration)
	RegisterJobFunc("exbTask.cleanExpiredLoginLogs", cleanExpiredLoginLogs)
}

func ryNoParams(ctx context.Context, c *core.Core, args ...any) (string, error) {
	slog.Info("执行无参方法")
	return "", nil
}

func ryParams(ctx context.Context, c *core.Core, args ...any) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("ryParams requires 1 param")
	}
	slog.Info("执行有参方法", slog.String("params", cast.ToString(args[0])))
	return "", nil
}

func ryMultipleParams(ctx context.Context, c *core.Core, args ...any) (string, error) {
	slog.Info("执行多参方法", slog.Any("params", args))
	return fmt.Sprintf("参数个数%d", len(args)), nil
}

// recountRegistration 按预约记录重算所有活动的报名人数
func recountRegistration(ctx context.Context, c *core.Core, args ...any) (string, error) {
	ids, err := c.Store().ExbActivityStore().ListIDs(ctx)
	if err != nil {
		return "", err
	}
	for _, id := range ids {
		if _, err = recountActivity(ctx, c, id); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("重算活动%d个", len(ids)), nil
}

// cleanExpiredLoginLogs 清理 N 天前的登录日志, 默认 30 天
func cleanExpiredLoginLogs(ctx context.Context, c *core.Core, args ...any) (string, error) {
	days := 30
	if len(args) > 0 {
		days = cast.ToInt(args[0])
	}
	if days <= 0 {
		return "", fmt.Errorf("days must be positive, got %d", days)
	}
	n, err := c.Store().SysLogininforStore().DeleteBefore(ctx, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("清理登录日志%d条", n), nil
}
