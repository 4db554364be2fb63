package types

import (
	"encoding/json"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRule = CriterionRule{
	Paging: true,
	SortColumns: map[string]string{
		"createTime": "u.create_time",
		"userName":   "u.user_name",
	},
	DefaultSort: []SortItem{{Column: "u.user_id"}},
	TimeColumn:  "u.create_time",
	DeptColumn:  "u.dept_id",
	UserColumn:  "u.user_id",
	UseScope:    true,
}

func TestParseSortColumns(t *testing.T) {
	items, err := ParseSortColumns(userRule, "createTime,userName", "descending")
	require.NoError(t, err)
	assert.Equal(t, []SortItem{{Column: "u.create_time", Desc: true}, {Column: "u.user_name", Desc: true}}, items)

	items, err = ParseSortColumns(userRule, "userName", "")
	require.NoError(t, err)
	assert.False(t, items[0].Desc)

	_, err = ParseSortColumns(userRule, "password", "asc")
	assert.Error(t, err)

	_, err = ParseSortColumns(userRule, "userName", "up")
	assert.Error(t, err)

	items, err = ParseSortColumns(userRule, "", "desc")
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestCriterionApply(t *testing.T) {
	begin := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	c := &Criterion{
		Rule:  userRule,
		Page:  &PageArgs{PageNum: 3, PageSize: 20},
		Begin: &begin,
	}

	query := sq.Select("u.user_id").From("sys_user u").PlaceholderFormat(sq.Dollar)
	c.Apply(&query)
	sql, args, err := query.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT u.user_id FROM sys_user u WHERE u.create_time >= $1 ORDER BY u.user_id ASC LIMIT 20 OFFSET 40", sql)
	assert.Len(t, args, 1)

	count := sq.Select("COUNT(*)").From("sys_user u").PlaceholderFormat(sq.Dollar)
	c.Count(&count)
	sql, _, err = count.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM sys_user u WHERE u.create_time >= $1", sql)

	export := sq.Select("u.user_id").From("sys_user u")
	c.NoPaging().Apply(&export)
	sql, _, err = export.ToSql()
	require.NoError(t, err)
	assert.NotContains(t, sql, "LIMIT")
	assert.NotNil(t, c.Page)
}

func TestDataScopeSqlizer(t *testing.T) {
	admin := &DataScope{UserID: 1, IsAdmin: true}
	assert.Nil(t, admin.Sqlizer("dept_id", "user_id"))

	all := &DataScope{UserID: 2, DeptID: 100, Roles: []ScopeRole{{RoleID: 2, DataScope: DATA_SCOPE_DEPT}, {RoleID: 3, DataScope: DATA_SCOPE_ALL}}}
	assert.Nil(t, all.Sqlizer("dept_id", "user_id"))

	dept := &DataScope{UserID: 2, DeptID: 100, Roles: []ScopeRole{{RoleID: 2, DataScope: DATA_SCOPE_DEPT}, {RoleID: 3, DataScope: DATA_SCOPE_SELF}}}
	sql, args, err := dept.Sqlizer("d.dept_id", "u.user_id").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(d.dept_id = ? OR u.user_id = ?)", sql)
	assert.Equal(t, []any{int64(100), int64(2)}, args)

	noUser := &DataScope{UserID: 2, DeptID: 100, Roles: []ScopeRole{{RoleID: 3, DataScope: DATA_SCOPE_SELF}}}
	sql, _, err = noUser.Sqlizer("d.dept_id", "").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(1 = 0)", sql)

	disabled := &DataScope{UserID: 7, Roles: []ScopeRole{{RoleID: 4, DataScope: DATA_SCOPE_ALL, Status: STATUS_DISABLE}}}
	sql, args, err = disabled.Sqlizer("dept_id", "user_id").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "user_id = ?", sql)
	assert.Equal(t, []any{int64(7)}, args)

	child := &DataScope{UserID: 2, DeptID: 101, Roles: []ScopeRole{{RoleID: 2, DataScope: DATA_SCOPE_DEPT_AND_CHILD}}}
	sql, args, err = child.Sqlizer("dept_id", "user_id").ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "string_to_array(ancestors, ',')")
	assert.Equal(t, []any{int64(101), "101"}, args)
}

func TestDateTimeJSON(t *testing.T) {
	var v struct {
		At DateTime `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"2024-05-01 10:20:30"}`), &v))
	assert.Equal(t, 2024, v.At.Year())

	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"2024-05-01 10:20:30"}`, string(raw))

	v.At = DateTime{}
	raw, err = json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":null}`, string(raw))

	value, err := v.At.Value()
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestActivityFull(t *testing.T) {
	assert.False(t, ExbActivity{MaxRegistration: 0, RegistrationCount: 99}.Full())
	assert.True(t, ExbActivity{MaxRegistration: 10, RegistrationCount: 10}.Full())
	assert.False(t, ExbActivity{MaxRegistration: 10, RegistrationCount: 9}.Full())
}
