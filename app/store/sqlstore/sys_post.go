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
		provider.stores.SysPostStore = NewSysPostStore(provider)
	})
}

type SysPostStore struct {
	CommonFields
}

func NewSysPostStore(provider SqlProviderAchieve) *SysPostStore {
	repo := &SysPostStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_POST)
	repo.SetAllColumns("post_id", "post_code", "post_name", "post_sort", "status", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *SysPostStore) Create(ctx context.Context, data types.SysPost) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("post_code", "post_name", "post_sort", "status", "create_by", "create_time", "remark").
		Values(data.PostCode, data.PostName, data.PostSort, data.Status, data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "post_id")
}

func (s *SysPostStore) Update(ctx context.Context, data types.SysPost) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"post_code":   data.PostCode,
			"post_name":   data.PostName,
			"post_sort":   data.PostSort,
			"status":      data.Status,
			"remark":      data.Remark,
			"update_by":   data.UpdateBy,
			"update_time": time.Now(),
		}).
		Where(sq.Eq{"post_id": data.PostID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysPostStore) Get(ctx context.Context, postID int64) (*types.SysPost, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"post_id": postID})
	return getOne[types.SysPost](s.GetReplica(ctx), query)
}

func (s *SysPostStore) GetByName(ctx context.Context, postName string) (*types.SysPost, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"post_name": postName}).Limit(1)
	return getOne[types.SysPost](s.GetReplica(ctx), query)
}

func (s *SysPostStore) GetByCode(ctx context.Context, postCode string) (*types.SysPost, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"post_code": postCode}).Limit(1)
	return getOne[types.SysPost](s.GetReplica(ctx), query)
}

func (s *SysPostStore) List(ctx context.Context, opts types.ListSysPostOptions, c *types.Criterion) ([]types.SysPost, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("post_sort ASC")
	}
	return selectAll[types.SysPost](s.GetReplica(ctx), query)
}

func (s *SysPostStore) Total(ctx context.Context, opts types.ListSysPostOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *SysPostStore) Delete(ctx context.Context, postIDs []int64) error {
	if len(postIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Eq{"post_id": postIDs}))
}
