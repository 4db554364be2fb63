package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/exb-museum/exb-admin/pkg/register"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.SysDictTypeStore = NewSysDictTypeStore(provider)
		provider.stores.SysDictDataStore = NewSysDictDataStore(provider)
	})
}

type SysDictTypeStore struct {
	CommonFields
}

func NewSysDictTypeStore(provider SqlProviderAchieve) *SysDictTypeStore {
	repo := &SysDictTypeStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_DICT_TYPE)
	repo.SetAllColumns("dict_id", "dict_name", "dict_type", "status", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *SysDictTypeStore) Create(ctx context.Context, data types.SysDictType) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("dict_name", "dict_type", "status", "create_by", "create_time", "remark").
		Values(data.DictName, data.DictType, data.Status, data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "dict_id")
}

func (s *SysDictTypeStore) Update(ctx context.Context, data types.SysDictType) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"dict_name":   data.DictName,
			"dict_type":   data.DictType,
			"status":      data.Status,
			"remark":      data.Remark,
			"update_by":   data.UpdateBy,
			"update_time": time.Now(),
		}).
		Where(sq.Eq{"dict_id": data.DictID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysDictTypeStore) Get(ctx context.Context, dictID int64) (*types.SysDictType, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"dict_id": dictID})
	return getOne[types.SysDictType](s.GetReplica(ctx), query)
}

func (s *SysDictTypeStore) GetByType(ctx context.Context, dictType string) (*types.SysDictType, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"dict_type": dictType})
	return getOne[types.SysDictType](s.GetReplica(ctx), query)
}

func (s *SysDictTypeStore) List(ctx context.Context, opts types.ListSysDictTypeOptions, c *types.Criterion) ([]types.SysDictType, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("dict_id ASC")
	}
	return selectAll[types.SysDictType](s.GetReplica(ctx), query)
}

func (s *SysDictTypeStore) Total(ctx context.Context, opts types.ListSysDictTypeOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *SysDictTypeStore) Delete(ctx context.Context, dictIDs []int64) error {
	if len(dictIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Eq{"dict_id": dictIDs}))
}

type SysDictDataStore struct {
	CommonFields
}

func NewSysDictDataStore(provider SqlProviderAchieve) *SysDictDataStore {
	repo := &SysDictDataStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_DICT_DATA)
	repo.SetAllColumns("dict_code", "dict_sort", "dict_label", "dict_value", "dict_type", "css_class", "list_class", "is_default",
		"status", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *SysDictDataStore) Create(ctx context.Context, data types.SysDictData) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	if data.IsDefault == "" {
		data.IsDefault = types.NO
	}
	query := sq.Insert(s.GetTable()).
		Columns("dict_sort", "dict_label", "dict_value", "dict_type", "css_class", "list_class", "is_default",
			"status", "create_by", "create_time", "remark").
		Values(data.DictSort, data.DictLabel, data.DictValue, data.DictType, data.CSSClass, data.ListClass, data.IsDefault,
			data.Status, data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "dict_code")
}

func (s *SysDictDataStore) Update(ctx context.Context, data types.SysDictData) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"dict_sort":   data.DictSort,
			"dict_label":  data.DictLabel,
			"dict_value":  data.DictValue,
			"dict_type":   data.DictType,
			"css_class":   data.CSSClass,
			"list_class":  data.ListClass,
			"is_default":  data.IsDefault,
			"status":      data.Status,
			"remark":      data.Remark,
			"update_by":   data.UpdateBy,
			"update_time": time.Now(),
		}).
		Where(sq.Eq{"dict_code": data.DictCode})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysDictDataStore) Get(ctx context.Context, dictCode int64) (*types.SysDictData, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"dict_code": dictCode})
	return getOne[types.SysDictData](s.GetReplica(ctx), query)
}

func (s *SysDictDataStore) List(ctx context.Context, opts types.ListSysDictDataOptions, c *types.Criterion) ([]types.SysDictData, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("dict_sort ASC")
	}
	return selectAll[types.SysDictData](s.GetReplica(ctx), query)
}

func (s *SysDictDataStore) Total(ctx context.Context, opts types.ListSysDictDataOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *SysDictDataStore) ListNormalByType(ctx context.Context, dictType string) ([]types.SysDictData, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"dict_type": dictType, "status": types.STATUS_NORMAL}).
		OrderBy("dict_sort ASC")
	return selectAll[types.SysDictData](s.GetReplica(ctx), query)
}

func (s *SysDictDataStore) CountByType(ctx context.Context, dictType string) (int64, error) {
	return countOf(s.GetReplica(ctx), sq.Select("COUNT(*)").From(s.GetTable()).Where(sq.Eq{"dict_type": dictType}))
}

// UpdateType 字典类型改名时同步字典数据
func (s *SysDictDataStore) UpdateType(ctx context.Context, oldType, newType string) error {
	query := sq.Update(s.GetTable()).Set("dict_type", newType).Where(sq.Eq{"dict_type": oldType})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysDictDataStore) Delete(ctx context.Context, dictCodes []int64) error {
	if len(dictCodes) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Eq{"dict_code": dictCodes}))
}
