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
		provider.stores.SysConfigStore = NewSysConfigStore(provider)
	})
}

type SysConfigStore struct {
	CommonFields
}

func NewSysConfigStore(provider SqlProviderAchieve) *SysConfigStore {
	repo := &SysConfigStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_CONFIG)
	repo.SetAllColumns("config_id", "config_name", "config_key", "config_value", "config_type", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *SysConfigStore) Create(ctx context.Context, data types.SysConfig) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	if data.ConfigType == "" {
		data.ConfigType = types.NO
	}
	query := sq.Insert(s.GetTable()).
		Columns("config_name", "config_key", "config_value", "config_type", "create_by", "create_time", "remark").
		Values(data.ConfigName, data.ConfigKey, data.ConfigValue, data.ConfigType, data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "config_id")
}

func (s *SysConfigStore) Update(ctx context.Context, data types.SysConfig) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"config_name":  data.ConfigName,
			"config_key":   data.ConfigKey,
			"config_value": data.ConfigValue,
			"config_type":  data.ConfigType,
			"remark":       data.Remark,
			"update_by":    data.UpdateBy,
			"update_time":  time.Now(),
		}).
		Where(sq.Eq{"config_id": data.ConfigID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysConfigStore) Get(ctx context.Context, configID int64) (*types.SysConfig, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"config_id": configID})
	return getOne[types.SysConfig](s.GetReplica(ctx), query)
}

func (s *SysConfigStore) GetByKey(ctx context.Context, configKey string) (*types.SysConfig, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"config_key": configKey}).Limit(1)
	return getOne[types.SysConfig](s.GetReplica(ctx), query)
}

func (s *SysConfigStore) List(ctx context.Context, opts types.ListSysConfigOptions, c *types.Criterion) ([]types.SysConfig, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("config_id ASC")
	}
	return selectAll[types.SysConfig](s.GetReplica(ctx), query)
}

func (s *SysConfigStore) Total(ctx context.Context, opts types.ListSysConfigOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *SysConfigStore) Delete(ctx context.Context, configIDs []int64) error {
	if len(configIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Eq{"config_id": configIDs}))
}
