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
		provider.stores.ExbExhibitionStore = NewExbExhibitionStore(provider)
		provider.stores.ExbExhibitionUnitStore = NewExbExhibitionUnitStore(provider)
	})
}

type ExbExhibitionStore struct {
	CommonFields
}

func NewExbExhibitionStore(provider SqlProviderAchieve) *ExbExhibitionStore {
	repo := &ExbExhibitionStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_EXB_EXHIBITION)
	repo.SetAllColumns("exhibition_id", "exhibition_name", "description", "museum_id", "hall", "start_time", "end_time", "organizer",
		"exhibition_type", "content_tags", "status", "del_flag", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *ExbExhibitionStore) Create(ctx context.Context, data types.ExbExhibition) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("exhibition_name", "description", "museum_id", "hall", "start_time", "end_time", "organizer",
			"exhibition_type", "content_tags", "status", "del_flag", "create_by", "create_time", "remark").
		Values(data.ExhibitionName, data.Description, data.MuseumID, data.Hall, data.StartTime, data.EndTime, data.Organizer,
			data.ExhibitionType, data.ContentTags, data.Status, types.NOT_DELETE, data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "exhibition_id")
}

func (s *ExbExhibitionStore) Update(ctx context.Context, data types.ExbExhibition) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"exhibition_name": data.ExhibitionName,
			"description":     data.Description,
			"museum_id":       data.MuseumID,
			"hall":            data.Hall,
			"start_time":      data.StartTime,
			"end_time":        data.EndTime,
			"organizer":       data.Organizer,
			"exhibition_type": data.ExhibitionType,
			"content_tags":    data.ContentTags,
			"status":          data.Status,
			"remark":          data.Remark,
			"update_by":       data.UpdateBy,
			"update_time":     time.Now(),
		}).
		Where(sq.Eq{"exhibition_id": data.ExhibitionID})
	return exec(s.GetMaster(ctx), query)
}

func (s *ExbExhibitionStore) Get(ctx context.Context, exhibitionID int64) (*types.ExbExhibition, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"exhibition_id": exhibitionID, "del_flag": types.NOT_DELETE})
	return getOne[types.ExbExhibition](s.GetReplica(ctx), query)
}

func (s *ExbExhibitionStore) List(ctx context.Context, opts types.ListExbExhibitionOptions, c *types.Criterion) ([]types.ExbExhibition, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("exhibition_id ASC")
	}
	return selectAll[types.ExbExhibition](s.GetReplica(ctx), query)
}

func (s *ExbExhibitionStore) Total(ctx context.Context, opts types.ListExbExhibitionOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *ExbExhibitionStore) Delete(ctx context.Context, exhibitionIDs []int64, updateBy string) error {
	if len(exhibitionIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), softDelete(s.GetTable(), "exhibition_id", exhibitionIDs, updateBy))
}

type ExbExhibitionUnitStore struct {
	CommonFields
}

func NewExbExhibitionUnitStore(provider SqlProviderAchieve) *ExbExhibitionUnitStore {
	repo := &ExbExhibitionUnitStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_EXB_EXHIBITION_UNIT)
	repo.SetAllColumns("unit_id", "unit_name", "exhibition_id", "exhibit_label", "guide_text", "unit_type", "hall_id", "section",
		"sort_order", "collections", "status", "del_flag", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *ExbExhibitionUnitStore) Create(ctx context.Context, data types.ExbExhibitionUnit) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("unit_name", "exhibition_id", "exhibit_label", "guide_text", "unit_type", "hall_id", "section",
			"sort_order", "collections", "status", "del_flag", "create_by", "create_time", "remark").
		Values(data.UnitName, data.ExhibitionID, data.ExhibitLabel, data.GuideText, data.UnitType, data.HallID, data.Section,
			data.SortOrder, data.Collections, data.Status, types.NOT_DELETE, data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "unit_id")
}

func (s *ExbExhibitionUnitStore) Update(ctx context.Context, data types.ExbExhibitionUnit) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"unit_name":     data.UnitName,
			"exhibition_id": data.ExhibitionID,
			"exhibit_label": data.ExhibitLabel,
			"guide_text":    data.GuideText,
			"unit_type":     data.UnitType,
			"hall_id":       data.HallID,
			"section":       data.Section,
			"sort_order":    data.SortOrder,
			"collections":   data.Collections,
			"status":        data.Status,
			"remark":        data.Remark,
			"update_by":     data.UpdateBy,
			"update_time":   time.Now(),
		}).
		Where(sq.Eq{"unit_id": data.UnitID})
	return exec(s.GetMaster(ctx), query)
}

func (s *ExbExhibitionUnitStore) Get(ctx context.Context, unitID int64) (*types.ExbExhibitionUnit, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"unit_id": unitID, "del_flag": types.NOT_DELETE})
	return getOne[types.ExbExhibitionUnit](s.GetReplica(ctx), query)
}

func (s *ExbExhibitionUnitStore) List(ctx context.Context, opts types.ListExbExhibitionUnitOptions, c *types.Criterion) ([]types.ExbExhibitionUnit, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("exhibition_id ASC", "section ASC", "sort_order ASC")
	}
	return selectAll[types.ExbExhibitionUnit](s.GetReplica(ctx), query)
}

func (s *ExbExhibitionUnitStore) Total(ctx context.Context, opts types.ListExbExhibitionUnitOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *ExbExhibitionUnitStore) MaxSortOrder(ctx context.Context, exhibitionID int64, section string) (int, error) {
	query := sq.Select("COALESCE(MAX(sort_order), 0)").From(s.GetTable()).
		Where(sq.Eq{"exhibition_id": exhibitionID, "section": section, "del_flag": types.NOT_DELETE})
	res, err := countOf(s.GetReplica(ctx), query)
	return int(res), err
}

func (s *ExbExhibitionUnitStore) Delete(ctx context.Context, unitIDs []int64, updateBy string) error {
	if len(unitIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), softDelete(s.GetTable(), "unit_id", unitIDs, updateBy))
}
