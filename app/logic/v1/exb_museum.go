package v1

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/excel"
	"github.com/exb-museum/exb-admin/pkg/types"
)

// excel 工作表名称, 导出、导入与模板共用
const (
	SHEET_MUSEUM      = "博物馆信息表数据"
	SHEET_HALL        = "展厅信息表数据"
	SHEET_EXHIBITION  = "展览信息表数据"
	SHEET_UNIT        = "展览单元信息表数据"
	SHEET_COLLECTION  = "藏品信息表数据"
	SHEET_ACTIVITY    = "活动信息表数据"
	SHEET_RESERVATION = "活动预约数据"
)

// importSpec 逐行导入: 主键存在时按 updateSupport 决定覆盖或记为失败
type importSpec[T any] struct {
	trace    string
	emptyMsg string
	id       func(T) int64
	label    func(T) string
	exists   func(id int64) (bool, error)
	create   func(T) error
	update   func(T) error
}

func importRows[T any](spec importSpec[T], rows []T, updateSupport bool) (string, error) {
	if len(rows) == 0 {
		return "", errors.Service(spec.trace, spec.emptyMsg)
	}
	var res ImportResult
	for _, row := range rows {
		label := spec.label(row)
		err := func() error {
			if id := spec.id(row); id != 0 {
				ok, err := spec.exists(id)
				if err != nil {
					return err
				}
				if ok {
					if !updateSupport {
						res.Failure("已存在：%s", label)
						return nil
					}
					if err = spec.update(row); err != nil {
						return err
					}
					res.Success("操作成功：%s", label)
					return nil
				}
			}
			if err := spec.create(row); err != nil {
				return err
			}
			res.Success("操作成功：%s", label)
			return nil
		}()
		if err != nil {
			slog.Error("import row failed", slog.String("trace", spec.trace), slog.String("row", label), slog.Any("error", err))
			res.Failure("导入失败，原因：%s", errMessage(err))
		}
	}
	return res.MuseumMessage(spec.trace)
}

func errMessage(err error) string {
	if ce, ok := errors.As(err); ok {
		return ce.Message()
	}
	return err.Error()
}

func existsOf[T any](get func(int64) (*T, error)) func(int64) (bool, error) {
	return func(id int64) (bool, error) {
		_, err := get(id)
		if isNotFound(err) {
			return false, nil
		}
		return err == nil, err
	}
}

type MuseumLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewMuseumLogic(ctx context.Context, core *core.Core) *MuseumLogic {
	return &MuseumLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *MuseumLogic) List(opts types.ListExbMuseumOptions, c *types.Criterion) ([]types.ExbMuseum, int64, error) {
	list, err := l.core.Store().ExbMuseumStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("MuseumLogic.List.ExbMuseumStore.List", err)
	}
	total, err := l.core.Store().ExbMuseumStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("MuseumLogic.List.ExbMuseumStore.Total", err)
	}
	return list, total, nil
}

func (l *MuseumLogic) Get(museumID int64) (*types.ExbMuseum, error) {
	museum, err := l.core.Store().ExbMuseumStore().Get(l.ctx, museumID)
	if err != nil {
		return nil, notFoundOr("MuseumLogic.Get.ExbMuseumStore.Get", err, "博物馆不存在")
	}
	return museum, nil
}

// checkAppID 小程序 AppID 只能绑定一个博物馆
func (l *MuseumLogic) checkAppID(museum types.ExbMuseum) error {
	if museum.AppID == "" {
		return nil
	}
	exist, err := l.core.Store().ExbMuseumStore().GetByAppID(l.ctx, museum.AppID)
	if err != nil && !isNotFound(err) {
		return internal("MuseumLogic.checkAppID.ExbMuseumStore.GetByAppID", err)
	}
	if exist != nil && exist.MuseumID != museum.MuseumID {
		return errors.Service("MuseumLogic.checkAppID", fmt.Sprintf("小程序AppID'%s'已被博物馆'%s'使用", museum.AppID, exist.MuseumName))
	}
	return nil
}

func (l *MuseumLogic) Create(museum types.ExbMuseum) error {
	if err := l.checkAppID(museum); err != nil {
		return err
	}
	museum.Created(l.OperName())
	if _, err := l.core.Store().ExbMuseumStore().Create(l.ctx, museum); err != nil {
		return internal("MuseumLogic.Create.ExbMuseumStore.Create", err)
	}
	return nil
}

func (l *MuseumLogic) Update(museum types.ExbMuseum) error {
	if err := l.checkAppID(museum); err != nil {
		return err
	}
	museum.Updated(l.OperName())
	if err := l.core.Store().ExbMuseumStore().Update(l.ctx, museum); err != nil {
		return internal("MuseumLogic.Update.ExbMuseumStore.Update", err)
	}
	return nil
}

func (l *MuseumLogic) Delete(museumIDs []int64) error {
	if err := l.core.Store().ExbMuseumStore().Delete(l.ctx, museumIDs, l.OperName()); err != nil {
		return internal("MuseumLogic.Delete.ExbMuseumStore.Delete", err)
	}
	return nil
}

func (l *MuseumLogic) Import(r io.Reader, updateSupport bool) (string, error) {
	rows, err := excel.Import[types.ExbMuseum](r, SHEET_MUSEUM)
	if err != nil {
		return "", errors.New("MuseumLogic.Import.excel.Import", err.Error(), err)
	}
	return importRows(importSpec[types.ExbMuseum]{
		trace:    "MuseumLogic.Import",
		emptyMsg: "导入博物馆信息表数据不能为空",
		id:       func(m types.ExbMuseum) int64 { return m.MuseumID },
		label:    func(m types.ExbMuseum) string { return m.MuseumName },
		exists:   existsOf(func(id int64) (*types.ExbMuseum, error) { return l.core.Store().ExbMuseumStore().Get(l.ctx, id) }),
		create:   l.Create,
		update:   l.Update,
	}, rows, updateSupport)
}

type HallLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewHallLogic(ctx context.Context, core *core.Core) *HallLogic {
	return &HallLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *HallLogic) List(opts types.ListExbMuseumHallOptions, c *types.Criterion) ([]types.ExbMuseumHall, int64, error) {
	list, err := l.core.Store().ExbMuseumHallStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("HallLogic.List.ExbMuseumHallStore.List", err)
	}
	total, err := l.core.Store().ExbMuseumHallStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("HallLogic.List.ExbMuseumHallStore.Total", err)
	}
	return list, total, nil
}

func (l *HallLogic) Get(hallID int64) (*types.ExbMuseumHall, error) {
	hall, err := l.core.Store().ExbMuseumHallStore().Get(l.ctx, hallID)
	if err != nil {
		return nil, notFoundOr("HallLogic.Get.ExbMuseumHallStore.Get", err, "展厅不存在")
	}
	return hall, nil
}

func (l *HallLogic) Create(hall types.ExbMuseumHall) error {
	hall.Created(l.OperName())
	if _, err := l.core.Store().ExbMuseumHallStore().Create(l.ctx, hall); err != nil {
		return internal("HallLogic.Create.ExbMuseumHallStore.Create", err)
	}
	return nil
}

func (l *HallLogic) Update(hall types.ExbMuseumHall) error {
	hall.Updated(l.OperName())
	if err := l.core.Store().ExbMuseumHallStore().Update(l.ctx, hall); err != nil {
		return internal("HallLogic.Update.ExbMuseumHallStore.Update", err)
	}
	return nil
}

func (l *HallLogic) Delete(hallIDs []int64) error {
	if err := l.core.Store().ExbMuseumHallStore().Delete(l.ctx, hallIDs, l.OperName()); err != nil {
		return internal("HallLogic.Delete.ExbMuseumHallStore.Delete", err)
	}
	return nil
}

func (l *HallLogic) Import(r io.Reader, updateSupport bool) (string, error) {
	rows, err := excel.Import[types.ExbMuseumHall](r, SHEET_HALL)
	if err != nil {
		return "", errors.New("HallLogic.Import.excel.Import", err.Error(), err)
	}
	return importRows(importSpec[types.ExbMuseumHall]{
		trace:    "HallLogic.Import",
		emptyMsg: "导入展厅信息表数据不能为空",
		id:       func(h types.ExbMuseumHall) int64 { return h.HallID },
		label:    func(h types.ExbMuseumHall) string { return h.HallName },
		exists:   existsOf(func(id int64) (*types.ExbMuseumHall, error) { return l.core.Store().ExbMuseumHallStore().Get(l.ctx, id) }),
		create:   l.Create,
		update:   l.Update,
	}, rows, updateSupport)
}
