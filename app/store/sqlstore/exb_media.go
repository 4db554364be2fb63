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
		provider.stores.ExbMuseumMediaStore = NewExbMuseumMediaStore(provider)
		provider.stores.ExbWxUserStore = NewExbWxUserStore(provider)
	})
}

type ExbMuseumMediaStore struct {
	CommonFields
}

func NewExbMuseumMediaStore(provider SqlProviderAchieve) *ExbMuseumMediaStore {
	repo := &ExbMuseumMediaStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_EXB_MUSEUM_MEDIA)
	repo.SetAllColumns("media_id", "object_type", "object_id", "media_type", "media_name", "media_url", "cover_url", "duration",
		"sort", "size", "is_cover", "status", "del_flag", "create_time", "update_time")
	return repo
}

func (s *ExbMuseumMediaStore) Create(ctx context.Context, data types.ExbMuseumMedia) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	if data.MediaType == 0 {
		data.MediaType = types.MEDIA_TYPE_IMAGE
	}
	query := sq.Insert(s.GetTable()).
		Columns("object_type", "object_id", "media_type", "media_name", "media_url", "cover_url", "duration",
			"sort", "size", "is_cover", "status", "del_flag", "create_time").
		Values(data.ObjectType, data.ObjectID, data.MediaType, data.MediaName, data.MediaURL, data.CoverURL, data.Duration,
			data.Sort, data.Size, data.IsCover, data.Status, types.NOT_DELETE, data.CreateTime)
	return insertReturning(s.GetMaster(ctx), query, "media_id")
}

func (s *ExbMuseumMediaStore) Update(ctx context.Context, data types.ExbMuseumMedia) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"media_name":  data.MediaName,
			"cover_url":   data.CoverURL,
			"duration":    data.Duration,
			"sort":        data.Sort,
			"is_cover":    data.IsCover,
			"status":      data.Status,
			"update_time": time.Now(),
		}).
		Where(sq.Eq{"media_id": data.MediaID})
	return exec(s.GetMaster(ctx), query)
}

func (s *ExbMuseumMediaStore) Get(ctx context.Context, mediaID int64) (*types.ExbMuseumMedia, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"media_id": mediaID, "del_flag": types.NOT_DELETE})
	return getOne[types.ExbMuseumMedia](s.GetReplica(ctx), query)
}

func (s *ExbMuseumMediaStore) List(ctx context.Context, opts types.ListExbMuseumMediaOptions, c *types.Criterion) ([]types.ExbMuseumMedia, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("sort ASC", "create_time DESC")
	}
	return selectAll[types.ExbMuseumMedia](s.GetReplica(ctx), query)
}

func (s *ExbMuseumMediaStore) Total(ctx context.Context, opts types.ListExbMuseumMediaOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *ExbMuseumMediaStore) ClearCover(ctx context.Context, objectType string, objectID, exceptMediaID int64) error {
	query := sq.Update(s.GetTable()).
		Set("is_cover", 0).
		Set("update_time", time.Now()).
		Where(sq.Eq{"object_type": objectType, "object_id": objectID, "is_cover": 1}).
		Where(sq.NotEq{"media_id": exceptMediaID})
	return exec(s.GetMaster(ctx), query)
}

func (s *ExbMuseumMediaStore) CountByURL(ctx context.Context, url string) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable()).
		Where(sq.Eq{"del_flag": types.NOT_DELETE}).
		Where(sq.Or{sq.Eq{"media_url": url}, sq.Eq{"cover_url": url}})
	return countOf(s.GetReplica(ctx), query)
}

func (s *ExbMuseumMediaStore) Delete(ctx context.Context, mediaID int64) error {
	query := sq.Update(s.GetTable()).
		Set("del_flag", types.DELETED).
		Set("update_time", time.Now()).
		Where(sq.Eq{"media_id": mediaID})
	return exec(s.GetMaster(ctx), query)
}

// ExbWxUserStore 小程序用户, 以 (app_id, open_id) 唯一
type ExbWxUserStore struct {
	CommonFields
}

func NewExbWxUserStore(provider SqlProviderAchieve) *ExbWxUserStore {
	repo := &ExbWxUserStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_EXB_WX_USER)
	repo.SetAllColumns("id", "app_id", "open_id", "union_id", "session_key", "avatar_url", "nickname", "status", "del_flag",
		"create_time", "update_time", "remark")
	return repo
}

// upsert 同一 appid 下 openid 唯一, 再次登录时刷新 session_key, 微信未返回 unionid 时保留原值
func (s *ExbWxUserStore) upsert(data types.ExbWxUser) sq.InsertBuilder {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	table := s.GetTable()
	return sq.Insert(table).
		Columns("app_id", "open_id", "union_id", "session_key", "avatar_url", "nickname", "status", "del_flag", "create_time").
		Values(data.AppID, data.OpenID, data.UnionID, data.SessionKey, data.AvatarURL, data.Nickname, data.Status, types.NOT_DELETE, data.CreateTime).
		Suffix("ON CONFLICT (app_id, open_id) DO UPDATE SET session_key = EXCLUDED.session_key, " +
			"union_id = COALESCE(NULLIF(EXCLUDED.union_id, ''), " + table + ".union_id), update_time = now()")
}

func (s *ExbWxUserStore) Create(ctx context.Context, data types.ExbWxUser) (int64, error) {
	return insertReturning(s.GetMaster(ctx), s.upsert(data), "id")
}

func (s *ExbWxUserStore) Get(ctx context.Context, id int64) (*types.ExbWxUser, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"id": id, "del_flag": types.NOT_DELETE})
	return getOne[types.ExbWxUser](s.GetReplica(ctx), query)
}

func (s *ExbWxUserStore) GetByOpenID(ctx context.Context, appID, openID string) (*types.ExbWxUser, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"app_id": appID, "open_id": openID})
	return getOne[types.ExbWxUser](s.GetReplica(ctx), query)
}

