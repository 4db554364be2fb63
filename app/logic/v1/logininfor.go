package v1

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/mssola/useragent"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/safe"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/types/protocol"
)

const (
	maxRetryCount = 5
	lockDuration  = 10 * time.Minute
)

// ClientInfo 请求来源, 登录日志与在线用户共用
type ClientInfo struct {
	IP       string
	Location string
	Browser  string
	OS       string
}

func ParseClientInfo(ctx context.Context) ClientInfo {
	info := ClientInfo{
		IP:       InjectClientIP(ctx),
		Browser:  "Unknown",
		OS:       "Unknown",
		Location: "未知位置",
	}
	if ua := InjectUserAgent(ctx); ua != "" {
		parsed := useragent.New(ua)
		if name, version := parsed.Browser(); name != "" {
			info.Browser = name + " " + version
		}
		if os := parsed.OS(); os != "" {
			info.OS = os
		}
	}
	if ip := net.ParseIP(info.IP); ip != nil && (ip.IsPrivate() || ip.IsLoopback()) {
		info.Location = "内网IP"
	}
	return info
}

// RecordLogininfor 登录日志异步写入, 队列不可用时直接写库
func RecordLogininfor(ctx context.Context, c *core.Core, userName, status, msg string) {
	client := ParseClientInfo(ctx)
	record := types.SysLogininfor{
		UserName:      userName,
		Ipaddr:        client.IP,
		LoginLocation: client.Location,
		Browser:       client.Browser,
		OS:            client.OS,
		Msg:           msg,
		LoginTime:     types.Now(),
		Status:        types.STATUS_NORMAL,
	}
	if status == types.LOGIN_FAIL {
		record.Status = types.STATUS_DISABLE
	}
	c.Metrics().LoginInc(status)

	if err := c.Enqueue(context.Background(), core.TASK_LOGININFOR_RECORD, record, core.QueueLog()); err != nil {
		slog.Warn("enqueue logininfor failed, write directly", slog.Any("error", err))
		go safe.Run(func() {
			if err := c.Store().SysLogininforStore().Create(context.Background(), record); err != nil {
				slog.Error("failed to record logininfor", slog.String("user_name", userName), slog.Any("error", err))
			}
		})
	}
}

type LogininforLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewLogininforLogic(ctx context.Context, core *core.Core) *LogininforLogic {
	return &LogininforLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *LogininforLogic) List(opts types.ListSysLogininforOptions, c *types.Criterion) ([]types.SysLogininfor, int64, error) {
	list, err := l.core.Store().SysLogininforStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("LogininforLogic.List.SysLogininforStore.List", err)
	}
	total, err := l.core.Store().SysLogininforStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("LogininforLogic.List.SysLogininforStore.Total", err)
	}
	return list, total, nil
}

func (l *LogininforLogic) Delete(infoIDs []int64) error {
	if err := l.core.Store().SysLogininforStore().Delete(l.ctx, infoIDs); err != nil {
		return internal("LogininforLogic.Delete.SysLogininforStore.Delete", err)
	}
	return nil
}

func (l *LogininforLogic) Clean() error {
	if err := l.core.Store().SysLogininforStore().Clean(l.ctx); err != nil {
		return internal("LogininforLogic.Clean.SysLogininforStore.Clean", err)
	}
	return nil
}

// Unlock 清除密码错误次数
func (l *LogininforLogic) Unlock(userName string) error {
	return l.core.Cache().Del(l.ctx, protocol.GenPwdErrCntKey(userName))
}
