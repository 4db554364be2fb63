package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
)

var operLogRule = types.CriterionRule{
	Paging:      true,
	SortColumns: map[string]string{"operTime": "oper_time", "operName": "oper_name"},
	DefaultSort: []types.SortItem{{Column: "oper_id", Desc: true}},
	TimeColumn:  "oper_time",
}

func queryOf(raw string) func(string) string {
	values, _ := url.ParseQuery(raw)
	return values.Get
}

func TestParseCriterionDefaults(t *testing.T) {
	c, err := ParseCriterion(operLogRule, queryOf(""), nil)
	require.NoError(t, err)
	require.NotNil(t, c.Page)
	assert.Equal(t, uint64(1), c.Page.PageNum)
	assert.Equal(t, uint64(10), c.Page.PageSize)
	assert.Empty(t, c.Sort)
	assert.Nil(t, c.Begin)
	assert.Nil(t, c.End)
}

func TestParseCriterion(t *testing.T) {
	raw := "pageNum=3&pageSize=20&orderByColumn=operTime&isAsc=descending" +
		"&params%5BbeginTime%5D=2024-01-01&params%5BendTime%5D=2024-01-31"
	c, err := ParseCriterion(operLogRule, queryOf(raw), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), c.Page.PageNum)
	assert.Equal(t, uint64(20), c.Page.PageSize)
	assert.Equal(t, []types.SortItem{{Column: "oper_time", Desc: true}}, c.Sort)

	require.NotNil(t, c.Begin)
	require.NotNil(t, c.End)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), *c.Begin)
	assert.Equal(t, 23, c.End.Hour())
	assert.Equal(t, 59, c.End.Second())
}

func TestParseCriterionInvalid(t *testing.T) {
	for _, raw := range []string{
		"pageNum=0",
		"pageSize=101",
		"pageSize=abc",
		"pageSize=0x10",
		"pageNum=100001",
		"pageNum=9223372036854775807",
		"pageNum=-1",
		"orderByColumn=password",
		"orderByColumn=operTime&isAsc=up",
		"params%5BbeginTime%5D=yesterday",
	} {
		_, err := ParseCriterion(operLogRule, queryOf(raw), nil)
		require.Error(t, err, raw)
		ce, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, ce.GetCode(), raw)
	}
}

func TestParsePageDecimal(t *testing.T) {
	page, err := parsePage("010", "08")
	require.NoError(t, err)
	assert.EqualValues(t, 10, page.PageNum)
	assert.EqualValues(t, 8, page.PageSize)

	page, err = parsePage(strconv.Itoa(types.MAX_PAGE_NUM), "")
	require.NoError(t, err)
	assert.EqualValues(t, types.MAX_PAGE_NUM, page.PageNum)
	assert.EqualValues(t, types.DEFAULT_PAGE_SIZE, page.PageSize)

	_, err = parsePage(strconv.Itoa(types.MAX_PAGE_NUM+1), "")
	assert.Error(t, err)
}

func TestParseCriterionWithoutPaging(t *testing.T) {
	rule := operLogRule
	rule.Paging = false
	scope := &types.DataScope{UserID: 2}
	c, err := ParseCriterion(rule, queryOf("pageNum=0"), scope)
	require.NoError(t, err)
	assert.Nil(t, c.Page)
	assert.Same(t, scope, c.Scope)
}

func TestMaskParam(t *testing.T) {
	assert.JSONEq(t, `{"userName":"ry"}`, MaskParam([]byte(`{"userName":"ry","password":"admin123"}`)))
	assert.Equal(t, "a=1", MaskParam([]byte("a=1")))
}

func TestWithinWindow(t *testing.T) {
	now := time.Unix(1700000000, 0)
	assert.True(t, WithinWindow(now, now.Unix()-300, 300*time.Second))
	assert.True(t, WithinWindow(now, now.Unix()+10, 300*time.Second))
	assert.False(t, WithinWindow(now, now.Unix()-301, 300*time.Second))
}
