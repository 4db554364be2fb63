package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/types/protocol"
)

type DictLogic struct {
	ctx  context.Context
	core *core.Core
	UserInfo
}

func NewDictLogic(ctx context.Context, core *core.Core) *DictLogic {
	return &DictLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *DictLogic) ListTypes(opts types.ListSysDictTypeOptions, c *types.Criterion) ([]types.SysDictType, int64, error) {
	list, err := l.core.Store().SysDictTypeStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("DictLogic.ListTypes.SysDictTypeStore.List", err)
	}
	total, err := l.core.Store().SysDictTypeStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("DictLogic.ListTypes.SysDictTypeStore.Total", err)
	}
	return list, total, nil
}

// OptionSelect 全部字典类型
func (l *DictLogic) OptionSelect() ([]types.SysDictType, error) {
	list, err := l.core.Store().SysDictTypeStore().List(l.ctx, types.ListSysDictTypeOptions{}, nil)
	if err != nil {
		return nil, internal("DictLogic.OptionSelect.SysDictTypeStore.List", err)
	}
	return list, nil
}

func (l *DictLogic) GetType(dictID int64) (*types.SysDictType, error) {
	dt, err := l.core.Store().SysDictTypeStore().Get(l.ctx, dictID)
	if err != nil {
		return nil, notFoundOr("DictLogic.GetType.SysDictTypeStore.Get", err, "字典类型不存在")
	}
	return dt, nil
}

func (l *DictLogic) checkTypeUnique(dt types.SysDictType) (bool, error) {
	exist, err := l.core.Store().SysDictTypeStore().GetByType(l.ctx, dt.DictType)
	if err != nil {
		if isNotFound(err) {
			return true, nil
		}
		return false, internal("DictLogic.checkTypeUnique.SysDictTypeStore.GetByType", err)
	}
	return exist.DictID == dt.DictID, nil
}

func (l *DictLogic) CreateType(dt types.SysDictType) error {
	unique, err := l.checkTypeUnique(dt)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Service("DictLogic.CreateType", fmt.Sprintf("新增字典'%s'失败，字典类型已存在", dt.DictName))
	}
	dt.Created(l.OperName())
	if _, err = l.core.Store().SysDictTypeStore().Create(l.ctx, dt); err != nil {
		return internal("DictLogic.CreateType.SysDictTypeStore.Create", err)
	}
	return nil
}

// UpdateType 类型改名时同步修改字典数据
func (l *DictLogic) UpdateType(dt types.SysDictType) error {
	unique, err := l.checkTypeUnique(dt)
	if err != nil {
		return err
	}
	if !unique {
		return errors.Service("DictLogic.UpdateType", fmt.Sprintf("修改字典'%s'失败，字典类型已存在", dt.DictName))
	}
	old, err := l.GetType(dt.DictID)
	if err != nil {
		return err
	}
	dt.Updated(l.OperName())

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if old.DictType != dt.DictType {
			if err := l.core.Store().SysDictDataStore().UpdateType(ctx, old.DictType, dt.DictType); err != nil {
				return internal("DictLogic.UpdateType.SysDictDataStore.UpdateType", err)
			}
		}
		if err := l.core.Store().SysDictTypeStore().Update(ctx, dt); err != nil {
			return internal("DictLogic.UpdateType.SysDictTypeStore.Update", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if old.DictType != dt.DictType {
		l.core.Cache().Del(l.ctx, protocol.GenSysDictKey(old.DictType))
	}
	return l.refreshDictType(dt.DictType)
}

func (l *DictLogic) DeleteTypes(dictIDs []int64) error {
	var keys []string
	for _, id := range dictIDs {
		dt, err := l.GetType(id)
		if err != nil {
			return err
		}
		count, err := l.core.Store().SysDictDataStore().CountByType(l.ctx, dt.DictType)
		if err != nil {
			return internal("DictLogic.DeleteTypes.SysDictDataStore.CountByType", err)
		}
		if count > 0 {
			return errors.Service("DictLogic.DeleteTypes", fmt.Sprintf("%s已分配,不能删除", dt.DictName))
		}
		keys = append(keys, protocol.GenSysDictKey(dt.DictType))
	}
	if err := l.core.Store().SysDictTypeStore().Delete(l.ctx, dictIDs); err != nil {
		return internal("DictLogic.DeleteTypes.SysDictTypeStore.Delete", err)
	}
	return l.core.Cache().Del(l.ctx, keys...)
}

func (l *DictLogic) RefreshCache() error {
	return LoadDictCache(l.ctx, l.core)
}

func (l *DictLogic) ListData(opts types.ListSysDictDataOptions, c *types.Criterion) ([]types.SysDictData, int64, error) {
	list, err := l.core.Store().SysDictDataStore().List(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("DictLogic.ListData.SysDictDataStore.List", err)
	}
	total, err := l.core.Store().SysDictDataStore().Total(l.ctx, opts, c)
	if err != nil {
		return nil, 0, internal("DictLogic.ListData.SysDictDataStore.Total", err)
	}
	return list, total, nil
}

func (l *DictLogic) GetData(dictCode int64) (*types.SysDictData, error) {
	d, err := l.core.Store().SysDictDataStore().Get(l.ctx, dictCode)
	if err != nil {
		return nil, notFoundOr("DictLogic.GetData.SysDictDataStore.Get", err, "字典数据不存在")
	}
	return d, nil
}

// GetDataByType 前端下拉框使用, 优先读取缓存
func (l *DictLogic) GetDataByType(dictType string) ([]types.SysDictData, error) {
	raw, err := l.core.Cache().Get(l.ctx, protocol.GenSysDictKey(dictType))
	if err == nil && raw != "" {
		var list []types.SysDictData
		if err = json.Unmarshal([]byte(raw), &list); err == nil {
			return list, nil
		}
		slog.Warn("invalid dict cache", slog.String("dict_type", dictType), slog.Any("error", err))
	}

	list, err := l.core.Store().SysDictDataStore().ListNormalByType(l.ctx, dictType)
	if err != nil {
		return nil, internal("DictLogic.GetDataByType.SysDictDataStore.ListNormalByType", err)
	}
	if len(list) > 0 {
		setDictCache(l.ctx, l.core, dictType, list)
	}
	return list, nil
}

func (l *DictLogic) CreateData(d types.SysDictData) error {
	d.Created(l.OperName())
	if _, err := l.core.Store().SysDictDataStore().Create(l.ctx, d); err != nil {
		return internal("DictLogic.CreateData.SysDictDataStore.Create", err)
	}
	return l.refreshDictType(d.DictType)
}

func (l *DictLogic) UpdateData(d types.SysDictData) error {
	d.Updated(l.OperName())
	if err := l.core.Store().SysDictDataStore().Update(l.ctx, d); err != nil {
		return internal("DictLogic.UpdateData.SysDictDataStore.Update", err)
	}
	return l.refreshDictType(d.DictType)
}

func (l *DictLogic) DeleteData(dictCodes []int64) error {
	var dictTypes []string
	for _, code := range dictCodes {
		d, err := l.GetData(code)
		if err != nil {
			return err
		}
		dictTypes = append(dictTypes, d.DictType)
	}
	if err := l.core.Store().SysDictDataStore().Delete(l.ctx, dictCodes); err != nil {
		return internal("DictLogic.DeleteData.SysDictDataStore.Delete", err)
	}
	for _, dictType := range dictTypes {
		if err := l.refreshDictType(dictType); err != nil {
			return err
		}
	}
	return nil
}

func (l *DictLogic) refreshDictType(dictType string) error {
	list, err := l.core.Store().SysDictDataStore().ListNormalByType(l.ctx, dictType)
	if err != nil {
		return internal("DictLogic.refreshDictType.SysDictDataStore.ListNormalByType", err)
	}
	if len(list) == 0 {
		return l.core.Cache().Del(l.ctx, protocol.GenSysDictKey(dictType))
	}
	setDictCache(l.ctx, l.core, dictType, list)
	return nil
}

func setDictCache(ctx context.Context, c *core.Core, dictType string, list []types.SysDictData) {
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err = c.Redis().Set(ctx, protocol.GenSysDictKey(dictType), raw, 0).Err(); err != nil {
		slog.Warn("failed to cache dict data", slog.String("dict_type", dictType), slog.Any("error", err))
	}
}

// LoadDictCache 服务启动或手动刷新时重建全部字典缓存
func LoadDictCache(ctx context.Context, c *core.Core) error {
	if err := c.Cache().DelPattern(ctx, protocol.GenSysDictKey("*")); err != nil {
		return internal("LoadDictCache.DelPattern", err)
	}
	list, err := c.Store().SysDictDataStore().List(ctx, types.ListSysDictDataOptions{Status: types.STATUS_NORMAL}, nil)
	if err != nil {
		return internal("LoadDictCache.SysDictDataStore.List", err)
	}
	grouped := make(map[string][]types.SysDictData)
	for _, d := range list {
		grouped[d.DictType] = append(grouped[d.DictType], d)
	}
	for dictType, items := range grouped {
		setDictCache(ctx, c, dictType, items)
	}
	return nil
}
