package v1

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func TestParseCollectionIDs(t *testing.T) {
	ids, err := ParseCollectionIDs(" [3, 1, 2] ")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids)

	for _, raw := range []string{"", "null", "  "} {
		ids, err = ParseCollectionIDs(raw)
		require.NoError(t, err)
		assert.Nil(t, ids)
	}

	_, err = ParseCollectionIDs("1,2,3")
	assert.Error(t, err)
}

type fakeMuseumRows struct {
	existing map[int64]bool
	created  []string
	updated  []string
}

func (f *fakeMuseumRows) spec() importSpec[types.ExbMuseum] {
	return importSpec[types.ExbMuseum]{
		trace:    "test",
		emptyMsg: "导入博物馆数据不能为空",
		id:       func(m types.ExbMuseum) int64 { return m.MuseumID },
		label:    func(m types.ExbMuseum) string { return m.MuseumName },
		exists: existsOf(func(id int64) (*types.ExbMuseum, error) {
			if f.existing[id] {
				return &types.ExbMuseum{MuseumID: id}, nil
			}
			return nil, sql.ErrNoRows
		}),
		create: func(m types.ExbMuseum) error {
			if m.MuseumName == "bad" {
				return errors.Service("create", "小程序AppID'wx1'已被博物馆'a'使用")
			}
			f.created = append(f.created, m.MuseumName)
			return nil
		},
		update: func(m types.ExbMuseum) error {
			f.updated = append(f.updated, m.MuseumName)
			return nil
		},
	}
}

func TestImportRows(t *testing.T) {
	f := &fakeMuseumRows{existing: map[int64]bool{1: true}}
	rows := []types.ExbMuseum{
		{MuseumID: 1, MuseumName: "省博"},
		{MuseumName: "市博"},
	}

	msg, err := importRows(f.spec(), rows, true)
	require.NoError(t, err)
	assert.Equal(t, "恭喜您，数据已全部导入成功！共 2 条，数据如下：<br/> 第1条数据，操作成功：省博<br/> 第2条数据，操作成功：市博", msg)
	assert.Equal(t, []string{"省博"}, f.updated)
	assert.Equal(t, []string{"市博"}, f.created)
}

func TestImportRowsFailure(t *testing.T) {
	f := &fakeMuseumRows{existing: map[int64]bool{1: true}}
	rows := []types.ExbMuseum{
		{MuseumID: 1, MuseumName: "省博"},
		{MuseumName: "bad"},
		{MuseumName: "市博"},
	}

	_, err := importRows(f.spec(), rows, false)
	ce, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "导入成功1条，失败2条。<br/> 第1条数据，操作成功：市博<br/><br/> 第1条数据，已存在：省博<br/> 第2条数据，导入失败，原因：小程序AppID'wx1'已被博物馆'a'使用", ce.Message())
	assert.Empty(t, f.updated)

	_, err = importRows(f.spec(), nil, false)
	ce, ok = errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "导入博物馆数据不能为空", ce.Message())
}

func TestExistsOf(t *testing.T) {
	exists := existsOf(func(id int64) (*types.ExbMuseum, error) {
		return nil, fmt.Errorf("conn refused")
	})
	ok, err := exists(1)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestActivityNormalize(t *testing.T) {
	l := &ActivityLogic{}
	a := types.ExbActivity{}
	require.NoError(t, l.normalize(&a))
	assert.Equal(t, types.DEFAULT_TARGET_AUDIENCE, a.TargetAudience)

	a = types.ExbActivity{MaxRegistration: -1}
	ce, ok := errors.As(l.normalize(&a))
	require.True(t, ok)
	assert.Equal(t, "报名人数不能小于0", ce.Message())
}

func TestActivityFull(t *testing.T) {
	assert.False(t, types.ExbActivity{MaxRegistration: 0, RegistrationCount: 100}.Full())
	assert.False(t, types.ExbActivity{MaxRegistration: 10, RegistrationCount: 9}.Full())
	assert.True(t, types.ExbActivity{MaxRegistration: 10, RegistrationCount: 10}.Full())
}

func TestActivityAdmitsUpToMax(t *testing.T) {
	// registration_count 落后于实际预约数时仍以实际数为准
	activity := types.ExbActivity{MaxRegistration: 3, RegistrationCount: 0}
	var reserved int64
	for i := 0; i < 10; i++ {
		if activity.Admits(reserved) {
			reserved++
		}
	}
	assert.EqualValues(t, 3, reserved)
	assert.False(t, activity.Full())

	assert.True(t, types.ExbActivity{MaxRegistration: 0}.Admits(1000))
	assert.False(t, types.ExbActivity{MaxRegistration: 2}.Admits(5))
}
