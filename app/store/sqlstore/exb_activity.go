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
		provider.stores.ExbActivityStore = NewExbActivityStore(provider)
		provider.stores.ExbReservationStore = NewExbReservationStore(provider)
	})
}

type ExbActivityStore struct {
	CommonFields
}

func NewExbActivityStore(provider SqlProviderAchieve) *ExbActivityStore {
	repo := &ExbActivityStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_EXB_ACTIVITY)
	repo.SetAllColumns("activity_id", "activity_name", "introduction", "activity_type", "target_audience", "location",
		"activity_start_time", "activity_end_time", "registration_count", "max_registration", "presenter", "museum_id",
		"status", "del_flag", "create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *ExbActivityStore) Create(ctx context.Context, data types.ExbActivity) (int64, error) {
	if data.CreateTime.IsZero() {
		data.CreateTime = types.Now()
	}
	if data.TargetAudience == "" {
		data.TargetAudience = types.DEFAULT_TARGET_AUDIENCE
	}
	query := sq.Insert(s.GetTable()).
		Columns("activity_name", "introduction", "activity_type", "target_audience", "location",
			"activity_start_time", "activity_end_time", "registration_count", "max_registration", "presenter", "museum_id",
			"status", "del_flag", "create_by", "create_time", "remark").
		Values(data.ActivityName, data.Introduction, data.ActivityType, data.TargetAudience, data.Location,
			data.ActivityStartTime, data.ActivityEndTime, data.RegistrationCount, data.MaxRegistration, data.Presenter, data.MuseumID,
			data.Status, types.NOT_DELETE, data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "activity_id")
}

// Update 报名人数由预约记录维护, 这里不修改
func (s *ExbActivityStore) Update(ctx context.Context, data types.ExbActivity) error {
	query := sq.Update(s.GetTable()).
		SetMap(map[string]interface{}{
			"activity_name":       data.ActivityName,
			"introduction":        data.Introduction,
			"activity_type":       data.ActivityType,
			"target_audience":     data.TargetAudience,
			"location":            data.Location,
			"activity_start_time": data.ActivityStartTime,
			"activity_end_time":   data.ActivityEndTime,
			"max_registration":    data.MaxRegistration,
			"presenter":           data.Presenter,
			"museum_id":           data.MuseumID,
			"status":              data.Status,
			"remark":              data.Remark,
			"update_by":           data.UpdateBy,
			"update_time":         time.Now(),
		}).
		Where(sq.Eq{"activity_id": data.ActivityID})
	return exec(s.GetMaster(ctx), query)
}

func (s *ExbActivityStore) Get(ctx context.Context, activityID int64) (*types.ExbActivity, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"activity_id": activityID, "del_flag": types.NOT_DELETE})
	return getOne[types.ExbActivity](s.GetReplica(ctx), query)
}

func (s *ExbActivityStore) GetForUpdate(ctx context.Context, activityID int64) (*types.ExbActivity, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"activity_id": activityID, "del_flag": types.NOT_DELETE}).
		Suffix("FOR UPDATE")
	return getOne[types.ExbActivity](s.GetReplica(ctx), query)
}

func (s *ExbActivityStore) List(ctx context.Context, opts types.ListExbActivityOptions, c *types.Criterion) ([]types.ExbActivity, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("activity_start_time ASC", "activity_id ASC")
	}
	return selectAll[types.ExbActivity](s.GetReplica(ctx), query)
}

func (s *ExbActivityStore) Total(ctx context.Context, opts types.ListExbActivityOptions, c *types.Criterion) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

func (s *ExbActivityStore) UpdateRegistrationCount(ctx context.Context, activityID int64, count int) error {
	query := sq.Update(s.GetTable()).
		Set("registration_count", count).
		Set("update_time", time.Now()).
		Where(sq.Eq{"activity_id": activityID})
	return exec(s.GetMaster(ctx), query)
}

func (s *ExbActivityStore) Delete(ctx context.Context, activityIDs []int64, updateBy string) error {
	if len(activityIDs) == 0 {
		return nil
	}
	return exec(s.GetMaster(ctx), softDelete(s.GetTable(), "activity_id", activityIDs, updateBy))
}

func (s *ExbActivityStore) ListIDs(ctx context.Context) ([]int64, error) {
	query := sq.Select("activity_id").From(s.GetTable()).Where(sq.Eq{"del_flag": types.NOT_DELETE}).OrderBy("activity_id")
	return selectAll[int64](s.GetReplica(ctx), query)
}

// ExbReservationStore 活动预约, 取消为物理删除
type ExbReservationStore struct {
	CommonFields
}

func NewExbReservationStore(provider SqlProviderAchieve) *ExbReservationStore {
	repo := &ExbReservationStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_EXB_ACTIVITY_RESERVE)
	repo.SetAllColumns("reservation_id", "activity_id", "wx_user_id", "registration_time", "phone_number", "del_flag",
		"create_by", "create_time", "update_by", "update_time", "remark")
	return repo
}

func (s *ExbReservationStore) Create(ctx context.Context, data types.ExbActivityReservation) (int64, error) {
	if data.RegistrationTime.IsZero() {
		data.RegistrationTime = types.Now()
	}
	if data.CreateTime.IsZero() {
		data.CreateTime = data.RegistrationTime
	}
	query := sq.Insert(s.GetTable()).
		Columns("activity_id", "wx_user_id", "registration_time", "phone_number", "del_flag", "create_by", "create_time", "remark").
		Values(data.ActivityID, data.WxUserID, data.RegistrationTime, data.PhoneNumber, types.NOT_DELETE, data.CreateBy, data.CreateTime, data.Remark)
	return insertReturning(s.GetMaster(ctx), query, "reservation_id")
}

func (s *ExbReservationStore) Get(ctx context.Context, reservationID int64) (*types.ExbActivityReservation, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"reservation_id": reservationID})
	return getOne[types.ExbActivityReservation](s.GetReplica(ctx), query)
}

func (s *ExbReservationStore) GetByActivityUser(ctx context.Context, activityID, wxUserID int64) (*types.ExbActivityReservation, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"activity_id": activityID, "wx_user_id": wxUserID})
	return getOne[types.ExbActivityReservation](s.GetReplica(ctx), query)
}

func (s *ExbReservationStore) joined(columns ...string) sq.SelectBuilder {
	return sq.Select(columns...).
		From(s.GetTable() + " r").
		LeftJoin(types.TABLE_EXB_ACTIVITY.Name() + " a ON a.activity_id = r.activity_id").
		LeftJoin(types.TABLE_EXB_WX_USER.Name() + " w ON w.id = r.wx_user_id")
}

func (s *ExbReservationStore) List(ctx context.Context, opts types.ListExbReservationOptions, c *types.Criterion) ([]types.ExbReservationDetail, error) {
	columns := append(s.GetAllColumnsWithPrefix("r"),
		"COALESCE(a.activity_name, '') AS activity_name",
		"COALESCE(a.location, '') AS location",
		"a.activity_start_time",
		"a.activity_end_time",
		"COALESCE(w.nickname, '') AS nickname",
		"COALESCE(w.avatar_url, '') AS avatar_url")
	query := s.joined(columns...)
	opts.Apply(&query)
	c.Apply(&query)
	if c == nil {
		query = query.OrderBy("r.registration_time DESC")
	}
	return selectAll[types.ExbReservationDetail](s.GetReplica(ctx), query)
}

func (s *ExbReservationStore) Total(ctx context.Context, opts types.ListExbReservationOptions, c *types.Criterion) (int64, error) {
	query := s.joined("COUNT(*)")
	opts.Apply(&query)
	c.Count(&query)
	return countOf(s.GetReplica(ctx), query)
}

// ListActivityIDsByUser 在给定活动中, 用户已预约的活动ID
func (s *ExbReservationStore) ListActivityIDsByUser(ctx context.Context, wxUserID int64, activityIDs []int64) ([]int64, error) {
	if len(activityIDs) == 0 {
		return nil, nil
	}
	query := sq.Select("activity_id").From(s.GetTable()).
		Where(sq.Eq{"wx_user_id": wxUserID, "activity_id": activityIDs, "del_flag": types.NOT_DELETE})
	return selectAll[int64](s.GetReplica(ctx), query)
}

func (s *ExbReservationStore) CountByActivity(ctx context.Context, activityID int64) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable()).
		Where(sq.Eq{"activity_id": activityID, "del_flag": types.NOT_DELETE})
	return countOf(s.GetReplica(ctx), query)
}

func (s *ExbReservationStore) Delete(ctx context.Context, reservationID int64) error {
	return exec(s.GetMaster(ctx), sq.Delete(s.GetTable()).Where(sq.Eq{"reservation_id": reservationID}))
}
