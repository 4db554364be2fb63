package v1

import (
	"context"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/types"
)

type NoticeLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewNoticeLogic(ctx context.Context, core *core.Core) *NoticeLogic {
	return &NoticeLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *NoticeLogic) List(opts types.ListSysNoticeOptions, c *types.Criterion) ([]types.SysNotice, int64, error) {
	list, err := l.core.Store().SysNoticeStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("NoticeLogic.List.SysNoticeStore.List", err)
	}
	total, err := l.core.Store().SysNoticeStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("NoticeLogic.List.SysNoticeStore.Total", err)
	}
	return list, total, nil
}

func (l *NoticeLogic) Get(noticeID int64) (*types.SysNotice, error) {
	notice, err := l.core.Store().SysNoticeStore().Get(l.ctx, noticeID)
	if err != nil {
		return nil, notFoundOr("NoticeLogic.Get.SysNoticeStore.Get", err, "通知公告不存在")
	}
	return notice, nil
}

func (l *NoticeLogic) Create(notice types.SysNotice) error {
	notice.Created(l.OperName())
	if _, err := l.core.Store().SysNoticeStore().Create(l.ctx, notice); err != nil {
		return internal("NoticeLogic.Create.SysNoticeStore.Create", err)
	}
	return nil
}

func (l *NoticeLogic) Update(notice types.SysNotice) error {
	notice.Updated(l.OperName())
	if err := l.core.Store().SysNoticeStore().Update(l.ctx, notice); err != nil {
		return internal("NoticeLogic.Update.SysNoticeStore.Update", err)
	}
	return nil
}

func (l *NoticeLogic) Delete(noticeIDs []int64) error {
	if err := l.core.Store().SysNoticeStore().Delete(l.ctx, noticeIDs); err != nil {
		return internal("NoticeLogic.Delete.SysNoticeStore.Delete", err)
	}
	return nil
}
