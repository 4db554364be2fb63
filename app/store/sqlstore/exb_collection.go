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
		provider.stores.ExbCollectionStore = NewExbCollectionStore(provider)
	})
}

type ExbCollectionStore struct {
	CommonFields
}

func NewExbCollectionStore(provider SqlProviderAchieve) *ExbCollectionStore {
	repo := &ExbCollectionStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_EXB_COLLECTION)
	repo.SetAllColumns("collection_id", "collection_name", "collection_type", "size_info", "material", "age", "author", "description",
		"exhibition_id", "museum_id", "status", "del_flag", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *ExbCollectionStore) Create(ctx context.Context, data types.ExbCollection) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("collection_name", "collection_type", "size_info", "material", "age", "author", "description",
			"exhibition_id", "museum_id", "status", "del_flag", "create_by", "create_time", "remark").
		Values(data.CollectionName, data.CollectionType, data.SizeInfo, data.Material, data.Age, data.Author, data.Description,
			data.ExhibitionID, data.MuseumID, data.Status, types.NOT_DELETE, data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "collection_id")
}

func (s *ExbCollectionStore) Update(ctx context.Context, data types.ExbCollection) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"collection_name": data.CollectionName,
			"collection_type": data.CollectionType,
			"size_info":       data.SizeInfo,
			"material":        data.Material,
			"age":             data.Age,
			"author":          data.Author,
			"description":     data.Description,
			"exhibition_id":   data.ExhibitionID,
			"museum_id":       data.MuseumID,
			"status":          data.Status,
			"remark":          data.Remark,
			"update_by":       data.UpdateBy,
			"update_time":     time.Now(),
		}).
		Where(sq.Eq{"collection_id": data.CollectionID})
	return exec(s.GetMaster(ctx), query)
}

func (s *ExbCollectionStore) Get(ctx context.Context, collectionID int64) (*types.ExbCollection, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"collection_id": collectionID, "del_flag": types.NOT_DELETE})
	return getOne[types.ExbCollection](s.GetReplica(ctx), query)
}

func (s *ExbCollectionStore) List(ctx context.Context, opts types.ListExbCollectionOptions, c *types.Criterion) ([]types.ExbCollection, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("collection_id ASC")
	}
	return selectAll[types.ExbCollection](s.GetReplica(ctx), query)
}

func (s *ExbCollectionStore) Total(ctx context.Context, opts types.ListExbCollectionOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *ExbCollectionStore) Delete(ctx context.Context, collectionIDs []int64, updateBy string) error {
	if len(collectionIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), softDelete(s.GetTable(), "collection_id", collectionIDs, updateBy))
}
