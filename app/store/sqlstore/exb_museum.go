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
		provider.stores.ExbMuseumStore = NewExbMuseumStore(provider)
		provider.stores.ExbMuseumHallStore = NewExbMuseumHallStore(provider)
	})
}

// softDelete 业务表统一的逻辑删除
func softDelete(table, pk string, ids []int64, updateBy string) sq.UpdateBuilder {
	return sq.Update(table).
		Set("del_flag", types.DELETED).
		Set("update_by", updateBy).
		Set("update_time", time.Now()).
		Where(sq.Eq{pk: ids})
}

type ExbMuseumStore struct {
	CommonFields
}

func NewExbMuseumStore(provider SqlProviderAchieve) *ExbMuseumStore {
	repo := &ExbMuseumStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_EXB_MUSEUM)
	repo.SetAllColumns("museum_id", "museum_name", "address", "description", "status", "del_flag", "app_id", "app_secret", "dept_id",
		"create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *ExbMuseumStore) Create(ctx context.Context, data types.ExbMuseum) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("museum_name", "address", "description", "status", "del_flag", "app_id", "app_secret", "dept_id", "create_by", "create_time", "remark").
		Values(data.MuseumName, data.Address, data.Description, data.Status, types.NOT_DELETE, data.AppID, data.AppSecret, data.DeptID,
			data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "museum_id")
}

func (s *ExbMuseumStore) Update(ctx context.Context, data types.ExbMuseum) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"museum_name": data.MuseumName,
			"address":     data.Address,
			"description": data.Description,
			"status":      data.Status,
			"app_id":      data.AppID,
			"app_secret":  data.AppSecret,
			"dept_id":     data.DeptID,
			"remark":      data.Remark,
			"update_by":   data.UpdateBy,
			"update_time": time.Now(),
		}).
		Where(sq.Eq{"museum_id": data.MuseumID})
	return exec(s.GetMaster(ctx), query)
}

func (s *ExbMuseumStore) Get(ctx context.Context, museumID int64) (*types.ExbMuseum, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"museum_id": museumID, "del_flag": types.NOT_DELETE})
	return getOne[types.ExbMuseum](s.GetReplica(ctx), query)
}

// GetByAppID 小程序端按 appid 定位博物馆
func (s *ExbMuseumStore) GetByAppID(ctx context.Context, appID string) (*types.ExbMuseum, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"app_id": appID, "del_flag": types.NOT_DELETE}).
		OrderBy("museum_id ASC").Limit(1)
	return getOne[types.ExbMuseum](s.GetReplica(ctx), query)
}

func (s *ExbMuseumStore) List(ctx context.Context, opts types.ListExbMuseumOptions, c *types.Criterion) ([]types.ExbMuseum, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("museum_id ASC")
	}
	return selectAll[types.ExbMuseum](s.GetReplica(ctx), query)
}

func (s *ExbMuseumStore) Total(ctx context.Context, opts types.ListExbMuseumOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *ExbMuseumStore) Delete(ctx context.Context, museumIDs []int64, updateBy string) error {
	if len(museumIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), softDelete(s.GetTable(), "museum_id", museumIDs, updateBy))
}

type ExbMuseumHallStore struct {
	CommonFields
}

func NewExbMuseumHallStore(provider SqlProviderAchieve) *ExbMuseumHallStore {
	repo := &ExbMuseumHallStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_EXB_MUSEUM_HALL)
	repo.SetAllColumns("hall_id", "hall_name", "location", "museum_id", "status", "del_flag", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *ExbMuseumHallStore) Create(ctx context.Context, data types.ExbMuseumHall) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("hall_name", "location", "museum_id", "status", "del_flag", "create_by", "create_time", "remark").
		Values(data.HallName, data.Location, data.MuseumID, data.Status, types.NOT_DELETE, data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "hall_id")
}

func (s *ExbMuseumHallStore) Update(ctx context.Context, data types.ExbMuseumHall) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"hall_name":   data.HallName,
			"location":    data.Location,
			"museum_id":   data.MuseumID,
			"status":      data.Status,
			"remark":      data.Remark,
			"update_by":   data.UpdateBy,
			"update_time": time.Now(),
		}).
		Where(sq.Eq{"hall_id": data.HallID})
	return exec(s.GetMaster(ctx), query)
}

func (s *ExbMuseumHallStore) Get(ctx context.Context, hallID int64) (*types.ExbMuseumHall, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"hall_id": hallID, "del_flag": types.NOT_DELETE})
	return getOne[types.ExbMuseumHall](s.GetReplica(ctx), query)
}

func (s *ExbMuseumHallStore) List(ctx context.Context, opts types.ListExbMuseumHallOptions, c *types.Criterion) ([]types.ExbMuseumHall, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("hall_id ASC")
	}
	return selectAll[types.ExbMuseumHall](s.GetReplica(ctx), query)
}

func (s *ExbMuseumHallStore) Total(ctx context.Context, opts types.ListExbMuseumHallOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *ExbMuseumHallStore) Delete(ctx context.Context, hallIDs []int64, updateBy string) error {
	if len(hallIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), softDelete(s.GetTable(), "hall_id", hallIDs, updateBy))
}
