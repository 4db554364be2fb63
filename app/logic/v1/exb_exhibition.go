package v1

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/excel"
	"github.com/exb-museum/exb-admin/pkg/types"
)

type ExhibitionLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewExhibitionLogic(ctx context.Context, core *core.Core) *ExhibitionLogic {
	return &ExhibitionLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *ExhibitionLogic) List(opts types.ListExbExhibitionOptions, c *types.Criterion) ([]types.ExbExhibition, int64, error) {
	list, err := l.core.Store().ExbExhibitionStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("ExhibitionLogic.List.ExbExhibitionStore.List", err)
	}
	total, err := l.core.Store().ExbExhibitionStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("ExhibitionLogic.List.ExbExhibitionStore.Total", err)
	}
	return list, total, nil
}

func (l *ExhibitionLogic) Get(exhibitionID int64) (*types.ExbExhibition, error) {
	exhibition, err := l.core.Store().ExbExhibitionStore().Get(l.ctx, exhibitionID)
	if err != nil {
		return nil, notFoundOr("ExhibitionLogic.Get.ExbExhibitionStore.Get", err, "展览不存在")
	}
	return exhibition, nil
}

func (l *ExhibitionLogic) validate(exhibition types.ExbExhibition) error {
	if !exhibition.StartTime.IsZero() && !exhibition.EndTime.IsZero() && exhibition.EndTime.Before(exhibition.StartTime.Time) {
		return errors.Service("ExhibitionLogic.validate", "展览结束时间不能早于开始时间")
	}
	return nil
}

func (l *ExhibitionLogic) Create(exhibition types.ExbExhibition) error {
	if err := l.validate(exhibition); err != nil {
		return err
	}
	exhibition.Created(l.OperName())
	if _, err := l.core.Store().ExbExhibitionStore().Create(l.ctx, exhibition); err != nil {
		return internal("ExhibitionLogic.Create.ExbExhibitionStore.Create", err)
	}
	return nil
}

func (l *ExhibitionLogic) Update(exhibition types.ExbExhibition) error {
	if err := l.validate(exhibition); err != nil {
		return err
	}
	exhibition.Updated(l.OperName())
	if err := l.core.Store().ExbExhibitionStore().Update(l.ctx, exhibition); err != nil {
		return internal("ExhibitionLogic.Update.ExbExhibitionStore.Update", err)
	}
	return nil
}

func (l *ExhibitionLogic) Delete(exhibitionIDs []int64) error {
	if err := l.core.Store().ExbExhibitionStore().Delete(l.ctx, exhibitionIDs, l.OperName()); err != nil {
		return internal("ExhibitionLogic.Delete.ExbExhibitionStore.Delete", err)
	}
	return nil
}

func (l *ExhibitionLogic) Import(r io.Reader, updateSupport bool) (string, error) {
	rows, err := excel.Import[types.ExbExhibition](r, SHEET_EXHIBITION)
	if err != nil {
		return "", errors.New("ExhibitionLogic.Import.excel.Import", err.Error(), err)
	}
	return importRows(importSpec[types.ExbExhibition]{
		trace:    "ExhibitionLogic.Import",
		emptyMsg: "导入展览信息表数据不能为空",
		id:       func(e types.ExbExhibition) int64 { return e.ExhibitionID },
		label:    func(e types.ExbExhibition) string { return e.ExhibitionName },
		exists:   existsOf(func(id int64) (*types.ExbExhibition, error) { return l.core.Store().ExbExhibitionStore().Get(l.ctx, id) }),
		create:   l.Create,
		update:   l.Update,
	}, rows, updateSupport)
}

// ParseCollectionIDs 单元关联藏品, 存储为 JSON 数组, 空串视为无关联
func ParseCollectionIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

type UnitLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewUnitLogic(ctx context.Context, core *core.Core) *UnitLogic {
	return &UnitLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *UnitLogic) List(opts types.ListExbExhibitionUnitOptions, c *types.Criterion) ([]types.ExbExhibitionUnit, int64, error) {
	list, err := l.core.Store().ExbExhibitionUnitStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("UnitLogic.List.ExbExhibitionUnitStore.List", err)
	}
	total, err := l.core.Store().ExbExhibitionUnitStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("UnitLogic.List.ExbExhibitionUnitStore.Total", err)
	}
	return list, total, nil
}

func (l *UnitLogic) Get(unitID int64) (*types.ExbExhibitionUnit, error) {
	unit, err := l.core.Store().ExbExhibitionUnitStore().Get(l.ctx, unitID)
	if err != nil {
		return nil, notFoundOr("UnitLogic.Get.ExbExhibitionUnitStore.Get", err, "展览单元不存在")
	}
	return unit, nil
}

func (l *UnitLogic) validate(unit types.ExbExhibitionUnit) error {
	if _, err := ParseCollectionIDs(unit.Collections); err != nil {
		return errors.Service("UnitLogic.validate", "关联藏品ID列表必须是合法的JSON数组")
	}
	return nil
}

func (l *UnitLogic) Create(unit types.ExbExhibitionUnit) error {
	if err := l.validate(unit); err != nil {
		return err
	}
	unit.Created(l.OperName())
	return l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if unit.SortOrder == 0 {
			maxOrder, err := l.core.Store().ExbExhibitionUnitStore().MaxSortOrder(ctx, unit.ExhibitionID, unit.Section)
			if err != nil {
				return internal("UnitLogic.Create.ExbExhibitionUnitStore.MaxSortOrder", err)
			}
			unit.SortOrder = maxOrder + 1
		}
		id, err := l.core.Store().ExbExhibitionUnitStore().Create(ctx, unit)
		if err != nil {
			return internal("UnitLogic.Create.ExbExhibitionUnitStore.Create", err)
		}
		if unit.CopyCollectionMedia {
			return l.copyCollectionMedia(ctx, id, unit.Collections)
		}
		return nil
	})
}

// copyCollectionMedia 把关联藏品的图片、音视频复制一份挂到单元下
func (l *UnitLogic) copyCollectionMedia(ctx context.Context, unitID int64, collections string) error {
	ids, _ := ParseCollectionIDs(collections)
	if len(ids) == 0 {
		return nil
	}
	medias, err := l.core.Store().ExbMuseumMediaStore().List(ctx, types.ListExbMuseumMediaOptions{
		ObjectType: types.MEDIA_OBJECT_COLLECTION,
		ObjectIDs:  ids,
	}, nil)
	if err != nil {
		return internal("UnitLogic.copyCollectionMedia.ExbMuseumMediaStore.List", err)
	}
	for _, m := range medias {
		m.MediaID = 0
		m.ObjectType = types.MEDIA_OBJECT_UNIT
		m.ObjectID = unitID
		m.IsCover = 0
		m.CreateTime = types.Now()
		if _, err = l.core.Store().ExbMuseumMediaStore().Create(ctx, m); err != nil {
			return internal("UnitLogic.copyCollectionMedia.ExbMuseumMediaStore.Create", err)
		}
	}
	return nil
}

func (l *UnitLogic) Update(unit types.ExbExhibitionUnit) error {
	if err := l.validate(unit); err != nil {
		return err
	}
	unit.Updated(l.OperName())
	if err := l.core.Store().ExbExhibitionUnitStore().Update(l.ctx, unit); err != nil {
		return internal("UnitLogic.Update.ExbExhibitionUnitStore.Update", err)
	}
	return nil
}

func (l *UnitLogic) Delete(unitIDs []int64) error {
	if err := l.core.Store().ExbExhibitionUnitStore().Delete(l.ctx, unitIDs, l.OperName()); err != nil {
		return internal("UnitLogic.Delete.ExbExhibitionUnitStore.Delete", err)
	}
	return nil
}

func (l *UnitLogic) Import(r io.Reader, updateSupport bool) (string, error) {
	rows, err := excel.Import[types.ExbExhibitionUnit](r, SHEET_UNIT)
	if err != nil {
		return "", errors.New("UnitLogic.Import.excel.Import", err.Error(), err)
	}
	return importRows(importSpec[types.ExbExhibitionUnit]{
		trace:    "UnitLogic.Import",
		emptyMsg: "导入展览单元信息表数据不能为空",
		id:       func(u types.ExbExhibitionUnit) int64 { return u.UnitID },
		label:    func(u types.ExbExhibitionUnit) string { return u.UnitName },
		exists:   existsOf(func(id int64) (*types.ExbExhibitionUnit, error) { return l.core.Store().ExbExhibitionUnitStore().Get(l.ctx, id) }),
		create:   l.Create,
		update:   l.Update,
	}, rows, updateSupport)
}

type CollectionLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewCollectionLogic(ctx context.Context, core *core.Core) *CollectionLogic {
	return &CollectionLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *CollectionLogic) List(opts types.ListExbCollectionOptions, c *types.Criterion) ([]types.ExbCollection, int64, error) {
	list, err := l.core.Store().ExbCollectionStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("CollectionLogic.List.ExbCollectionStore.List", err)
	}
	total, err := l.core.Store().ExbCollectionStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("CollectionLogic.List.ExbCollectionStore.Total", err)
	}
	return list, total, nil
}

func (l *CollectionLogic) Get(collectionID int64) (*types.ExbCollection, error) {
	collection, err := l.core.Store().ExbCollectionStore().Get(l.ctx, collectionID)
	if err != nil {
		return nil, notFoundOr("CollectionLogic.Get.ExbCollectionStore.Get", err, "藏品不存在")
	}
	return collection, nil
}

func (l *CollectionLogic) Create(collection types.ExbCollection) error {
	collection.Created(l.OperName())
	if _, err := l.core.Store().ExbCollectionStore().Create(l.ctx, collection); err != nil {
		return internal("CollectionLogic.Create.ExbCollectionStore.Create", err)
	}
	return nil
}

func (l *CollectionLogic) Update(collection types.ExbCollection) error {
	collection.Updated(l.OperName())
	if err := l.core.Store().ExbCollectionStore().Update(l.ctx, collection); err != nil {
		return internal("CollectionLogic.Update.ExbCollectionStore.Update", err)
	}
	return nil
}

func (l *CollectionLogic) Delete(collectionIDs []int64) error {
	if err := l.core.Store().ExbCollectionStore().Delete(l.ctx, collectionIDs, l.OperName()); err != nil {
		return internal("CollectionLogic.Delete.ExbCollectionStore.Delete", err)
	}
	return nil
}

func (l *CollectionLogic) Import(r io.Reader, updateSupport bool) (string, error) {
	rows, err := excel.Import[types.ExbCollection](r, SHEET_COLLECTION)
	if err != nil {
		return "", errors.New("CollectionLogic.Import.excel.Import", err.Error(), err)
	}
	return importRows(importSpec[types.ExbCollection]{
		trace:    "CollectionLogic.Import",
		emptyMsg: "导入藏品信息表数据不能为空",
		id:       func(c types.ExbCollection) int64 { return c.CollectionID },
		label:    func(c types.ExbCollection) string { return c.CollectionName },
		exists:   existsOf(func(id int64) (*types.ExbCollection, error) { return l.core.Store().ExbCollectionStore().Get(l.ctx, id) }),
		create:   l.Create,
		update:   l.Update,
	}, rows, updateSupport)
}
