package v1

import (
	"context"
	"io"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/excel"
	"github.com/exb-museum/exb-admin/pkg/types"
)

type ActivityLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewActivityLogic(ctx context.Context, core *core.Core) *ActivityLogic {
	return &ActivityLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *ActivityLogic) List(opts types.ListExbActivityOptions, c *types.Criterion) ([]types.ExbActivity, int64, error) {
	list, err := l.core.Store().ExbActivityStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("ActivityLogic.List.ExbActivityStore.List", err)
	}
	total, err := l.core.Store().ExbActivityStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("ActivityLogic.List.ExbActivityStore.Total", err)
	}
	return list, total, nil
}

func (l *ActivityLogic) Get(activityID int64) (*types.ExbActivity, error) {
	activity, err := l.core.Store().ExbActivityStore().Get(l.ctx, activityID)
	if err != nil {
		return nil, notFoundOr("ActivityLogic.Get.ExbActivityStore.Get", err, "活动不存在")
	}
	return activity, nil
}

func (l *ActivityLogic) normalize(activity *types.ExbActivity) error {
	if activity.TargetAudience == "" {
		activity.TargetAudience = types.DEFAULT_TARGET_AUDIENCE
	}
	if activity.MaxRegistration < 0 || activity.RegistrationCount < 0 {
		return errors.Service("ActivityLogic.normalize", "报名人数不能小于0")
	}
	if !activity.ActivityStartTime.IsZero() && !activity.ActivityEndTime.IsZero() &&
		activity.ActivityEndTime.Before(activity.ActivityStartTime.Time) {
		return errors.Service("ActivityLogic.normalize", "活动结束时间不能早于开始时间")
	}
	return nil
}

func (l *ActivityLogic) Create(activity types.ExbActivity) error {
	if err := l.normalize(&activity); err != nil {
		return err
	}
	activity.Created(l.OperName())
	if _, err := l.core.Store().ExbActivityStore().Create(l.ctx, activity); err != nil {
		return internal("ActivityLogic.Create.ExbActivityStore.Create", err)
	}
	return nil
}

func (l *ActivityLogic) Update(activity types.ExbActivity) error {
	if err := l.normalize(&activity); err != nil {
		return err
	}
	activity.Updated(l.OperName())
	if err := l.core.Store().ExbActivityStore().Update(l.ctx, activity); err != nil {
		return internal("ActivityLogic.Update.ExbActivityStore.Update", err)
	}
	return nil
}

func (l *ActivityLogic) Delete(activityIDs []int64) error {
	if err := l.core.Store().ExbActivityStore().Delete(l.ctx, activityIDs, l.OperName()); err != nil {
		return internal("ActivityLogic.Delete.ExbActivityStore.Delete", err)
	}
	return nil
}

func (l *ActivityLogic) Import(r io.Reader, updateSupport bool) (string, error) {
	rows, err := excel.Import[types.ExbActivity](r, SHEET_ACTIVITY)
	if err != nil {
		return "", errors.New("ActivityLogic.Import.excel.Import", err.Error(), err)
	}
	return importRows(importSpec[types.ExbActivity]{
		trace:    "ActivityLogic.Import",
		emptyMsg: "导入活动信息表数据不能为空",
		id:       func(a types.ExbActivity) int64 { return a.ActivityID },
		label:    func(a types.ExbActivity) string { return a.ActivityName },
		exists:   existsOf(func(id int64) (*types.ExbActivity, error) { return l.core.Store().ExbActivityStore().Get(l.ctx, id) }),
		create:   l.Create,
		update:   l.Update,
	}, rows, updateSupport)
}

// recountActivity 以有效预约记录为准回写报名人数
func recountActivity(ctx context.Context, c *core.Core, activityID int64) (int, error) {
	count, err := c.Store().ExbReservationStore().CountByActivity(ctx, activityID)
	if err != nil {
		return 0, err
	}
	if err = c.Store().ExbActivityStore().UpdateRegistrationCount(ctx, activityID, int(count)); err != nil {
		return 0, err
	}
	return int(count), nil
}

type ReservationLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewReservationLogic(ctx context.Context, core *core.Core) *ReservationLogic {
	return &ReservationLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *ReservationLogic) List(opts types.ListExbReservationOptions, c *types.Criterion) ([]types.ExbReservationDetail, int64, error) {
	list, err := l.core.Store().ExbReservationStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("ReservationLogic.List.ExbReservationStore.List", err)
	}
	total, err := l.core.Store().ExbReservationStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("ReservationLogic.List.ExbReservationStore.Total", err)
	}
	return list, total, nil
}

// Delete 删除预约并重算活动报名人数
func (l *ReservationLogic) Delete(reservationID int64) error {
	reservation, err := l.core.Store().ExbReservationStore().Get(l.ctx, reservationID)
	if err != nil {
		return notFoundOr("ReservationLogic.Delete.ExbReservationStore.Get", err, "预约记录不存在")
	}
	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if _, err := l.core.Store().ExbActivityStore().GetForUpdate(ctx, reservation.ActivityID); err != nil && !isNotFound(err) {
			return internal("ReservationLogic.Delete.ExbActivityStore.GetForUpdate", err)
		}
		if err := l.core.Store().ExbReservationStore().Delete(ctx, reservationID); err != nil {
			return internal("ReservationLogic.Delete.ExbReservationStore.Delete", err)
		}
		if _, err := recountActivity(ctx, l.core, reservation.ActivityID); err != nil {
			return internal("ReservationLogic.Delete.recountActivity", err)
		}
		return nil
	})
}
