package sqlstore

import (
	"context"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/sqlstore"
	"github.com/exb-museum/exb-admin/pkg/testutils"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func TestSoftDeleteSQL(t *testing.T) {
	query, args, err := softDelete("exb_museum", "museum_id", []int64{1, 2}, "admin").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "UPDATE exb_museum SET del_flag = $1, update_by = $2, update_time = $3 WHERE museum_id IN ($4,$5)", query)
	assert.Equal(t, types.DELETED, args[0])
	assert.Equal(t, "admin", args[1])
}

func TestInsertReturningSQL(t *testing.T) {
	query, _, err := sq.Insert("sys_post").Columns("post_code").Values("ceo").Suffix("RETURNING post_id").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO sys_post (post_code) VALUES ($1) RETURNING post_id", query)
}

func TestUserListSQL(t *testing.T) {
	s := NewSysUserStore(nil)
	query := s.joined("COUNT(*)")
	types.ListSysUserOptions{UserName: "adm", Status: "0"}.Apply(&query)

	c := &types.Criterion{
		Rule: types.CriterionRule{DeptColumn: "u.dept_id", UserColumn: "u.user_id", UseScope: true},
		Scope: &types.DataScope{
			UserID: 2,
			DeptID: 105,
			Roles:  []types.ScopeRole{{RoleID: 2, DataScope: types.DATA_SCOPE_SELF}},
		},
	}
	c.Count(&query)

	raw, args, err := query.ToSql()
	require.NoError(t, err)
	assert.Contains(t, raw, "FROM sys_user u LEFT JOIN sys_dept d ON d.dept_id = u.dept_id")
	assert.Contains(t, raw, "u.del_flag = $1")
	assert.Contains(t, raw, "u.user_id = $4")
	assert.NotContains(t, raw, "LIMIT")
	assert.Equal(t, int64(2), args[3])
}

func TestWxUserUpsertSQL(t *testing.T) {
	s := NewExbWxUserStore(nil)
	raw, args, err := s.upsert(types.ExbWxUser{AppID: "wx1", OpenID: "o1", SessionKey: "k1"}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, raw, "ON CONFLICT (app_id, open_id) DO UPDATE SET session_key = EXCLUDED.session_key")
	assert.Contains(t, raw, "union_id = COALESCE(NULLIF(EXCLUDED.union_id, ''), exb_wx_user.union_id)")
	assert.Equal(t, "wx1", args[0])
	assert.Equal(t, "", args[2])
}

func setupProvider(t *testing.T) *Provider {
	env := testutils.RequireEnv(t, "TEST_EXB_POSTGRES_DSN")
	db, err := sqlx.Open("postgres", env["TEST_EXB_POSTGRES_DSN"])
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	p := NewWithSqlProvider(sqlstore.NewProviderWithDB(db))
	require.NoError(t, p.Install())
	return p
}

func TestReservationLifecycle(t *testing.T) {
	p := setupProvider(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	activityID, err := p.ExbActivityStore().Create(ctx, types.ExbActivity{
		ActivityName:    "青铜器修复体验课",
		MaxRegistration: 2,
		AuditFields:     types.AuditFields{CreateBy: "test"},
	})
	require.NoError(t, err)
	defer p.ExbActivityStore().Delete(ctx, []int64{activityID}, "test")

	wxUserID, err := p.ExbWxUserStore().Create(ctx, types.ExbWxUser{AppID: "wx-test", OpenID: uuid.NewString()})
	require.NoError(t, err)

	reservationID, err := p.ExbReservationStore().Create(ctx, types.ExbActivityReservation{
		ActivityID:  activityID,
		WxUserID:    wxUserID,
		PhoneNumber: "13800000000",
	})
	require.NoError(t, err)

	// 同一用户重复预约被唯一约束拒绝
	_, err = p.ExbReservationStore().Create(ctx, types.ExbActivityReservation{ActivityID: activityID, WxUserID: wxUserID})
	assert.Error(t, err)

	count, err := p.ExbReservationStore().CountByActivity(ctx, activityID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	reserved, err := p.ExbReservationStore().ListActivityIDsByUser(ctx, wxUserID, []int64{activityID, activityID + 1000000})
	require.NoError(t, err)
	assert.Equal(t, []int64{activityID}, reserved)

	list, err := p.ExbReservationStore().List(ctx, types.ListExbReservationOptions{ActivityID: activityID}, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "青铜器修复体验课", list[0].ActivityName)

	require.NoError(t, p.ExbReservationStore().Delete(ctx, reservationID))
	count, err = p.ExbReservationStore().CountByActivity(ctx, activityID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWxUserUpsert(t *testing.T) {
	p := setupProvider(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	openID := uuid.NewString()
	id, err := p.ExbWxUserStore().Create(ctx, types.ExbWxUser{AppID: "wx-test", OpenID: openID, SessionKey: "k1"})
	require.NoError(t, err)

	again, err := p.ExbWxUserStore().Create(ctx, types.ExbWxUser{AppID: "wx-test", OpenID: openID, UnionID: "union-1", SessionKey: "k2"})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	user, err := p.ExbWxUserStore().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "union-1", user.UnionID)
	assert.Equal(t, "k2", user.SessionKey)

	// 未返回 unionid 时保留已有的值
	_, err = p.ExbWxUserStore().Create(ctx, types.ExbWxUser{AppID: "wx-test", OpenID: openID, SessionKey: "k3"})
	require.NoError(t, err)
	user, err = p.ExbWxUserStore().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "union-1", user.UnionID)
	assert.Equal(t, "k3", user.SessionKey)
}

func TestMenuPermissions(t *testing.T) {
	p := setupProvider(t)
	ctx := context.Background()

	perms, err := p.SysMenuStore().ListPermsByUser(ctx, 2)
	require.NoError(t, err)
	assert.Contains(t, perms, "exb_museum:museum:list")

	grants, err := p.SysMenuStore().ListRolePermissions(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, grants)
}
