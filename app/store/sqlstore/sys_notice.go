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
		provider.stores.SysNoticeStore = NewSysNoticeStore(provider)
	})
}

type SysNoticeStore struct {
	CommonFields
}

func NewSysNoticeStore(provider SqlProviderAchieve) *SysNoticeStore {
	repo := &SysNoticeStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_SYS_NOTICE)
	repo.SetAllColumns("notice_id", "notice_title", "notice_type", "notice_content", "status", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *SysNoticeStore) Create(ctx context.Context, data types.SysNotice) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	query := sq.Insert(s.GetTable()).
		Columns("notice_title", "notice_type", "notice_content", "status", "create_by", "create_time", "remark").
		Values(data.NoticeTitle, data.NoticeType, data.NoticeContent, data.Status, data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "notice_id")
}

func (s *SysNoticeStore) Update(ctx context.Context, data types.SysNotice) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"notice_title":   data.NoticeTitle,
			"notice_type":    data.NoticeType,
			"notice_content": data.NoticeContent,
			"status":         data.Status,
			"remark":         data.Remark,
			"update_by":      data.UpdateBy,
			"update_time":    time.Now(),
		}).
		Where(sq.Eq{"notice_id": data.NoticeID})
	return exec(s.GetMaster(ctx), query)
}

func (s *SysNoticeStore) Get(ctx context.Context, noticeID int64) (*types.SysNotice, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"notice_id": noticeID})
	return getOne[types.SysNotice](s.GetReplica(ctx), query)
}

func (s *SysNoticeStore) List(ctx context.Context, opts types.ListSysNoticeOptions, c *types.Criterion) ([]types.SysNotice, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("notice_id DESC")
	}
	return selectAll[types.SysNotice](s.GetReplica(ctx), query)
}

func (s *SysNoticeStore) Total(ctx context.Context, opts types.ListSysNoticeOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *SysNoticeStore) Delete(ctx context.Context, noticeIDs []int64) error {
	if len(noticeIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Eq{"notice_id": noticeIDs}))
}
