package v1

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/types"
)

func TestExhibitionStatus(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	day := 24 * time.Hour

	cases := []struct {
		name       string
		start, end time.Time
		status     string
		text       string
	}{
		{"upcoming", now.Add(day), now.Add(10 * day), EXHIBITION_STATUS_UPCOMING, "即将开始"},
		{"ended", now.Add(-10 * day), now.Add(-day), EXHIBITION_STATUS_ENDED, "已结束"},
		{"ongoing", now.Add(-day), now.Add(day), EXHIBITION_STATUS_ONGOING, "正在热展"},
		{"no start", time.Time{}, now.Add(day), EXHIBITION_STATUS_ONGOING, "正在热展"},
		{"no end", now.Add(-day), time.Time{}, EXHIBITION_STATUS_ONGOING, "正在热展"},
		{"no start ended", time.Time{}, now.Add(-day), EXHIBITION_STATUS_ENDED, "已结束"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, text := ExhibitionStatus(now, c.start, c.end)
			assert.Equal(t, c.status, status)
			assert.Equal(t, c.text, text)
		})
	}
}

func TestUnitSections(t *testing.T) {
	units := []types.ExbExhibitionUnit{
		{Section: "第一章"},
		{Section: ""},
		{Section: " 第二章 "},
		{Section: "第一章"},
		{Section: "第三章"},
	}
	assert.Equal(t, []string{"第一章", "第二章", "第三章"}, UnitSections(units))
	assert.Empty(t, UnitSections(nil))
}

func TestCollectionDetail(t *testing.T) {
	c := types.ExbCollection{CollectionID: 7, CollectionName: "青铜鼎", Age: "商", CollectionType: "青铜器"}
	medias := []types.ExbMuseumMedia{
		{ObjectID: 7, MediaURL: "/profile/media/a.png", MediaType: types.MEDIA_TYPE_IMAGE},
		{ObjectID: 7, MediaURL: "/profile/media/b.mp3", MediaType: types.MEDIA_TYPE_AUDIO},
	}
	d := collectionDetail(c, medias)
	assert.Equal(t, int64(7), d.ID)
	assert.Equal(t, "青铜鼎", d.Name)
	assert.Equal(t, "/profile/media/a.png", d.ImageURL)
	require.Len(t, d.MediaList, 2)
	assert.Equal(t, types.MEDIA_TYPE_AUDIO, d.MediaList[1].Type)

	empty := collectionDetail(c, nil)
	assert.Equal(t, "", empty.ImageURL)
	assert.Empty(t, empty.MediaList)
}

func TestFailedWith(t *testing.T) {
	biz := errors.Service("test", "该活动报名人数已达上限")
	assert.Same(t, biz, failedWith(biz, "WxLogic.Reserve", "预约失败,请联系管理员"))

	err := failedWith(internal("store", fmt.Errorf("conn reset")), "WxLogic.Reserve", "预约失败,请联系管理员")
	ce, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "预约失败,请联系管理员", ce.Message())

	err = failedWith(fmt.Errorf("boom"), "WxLogic.Reserve", "预约失败,请联系管理员")
	ce, ok = errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "预约失败,请联系管理员", ce.Message())
}

func TestWxRequireClaims(t *testing.T) {
	l := &WxLogic{}
	_, err := l.requireClaims("test")
	ce, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, 401, ce.GetCode())
}

func TestPublishedCollections(t *testing.T) {
	list := []types.ExbCollection{
		{CollectionID: 1, Status: types.EXB_STATUS_NORMAL},
		{CollectionID: 2, Status: 1},
		{CollectionID: 3, Status: types.EXB_STATUS_NORMAL},
	}
	got := publishedCollections([]int64{3, 2, 9, 1}, list)
	ids := make([]int64, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.CollectionID)
	}
	assert.Equal(t, []int64{3, 1}, ids)

	assert.Empty(t, publishedCollections([]int64{2}, list))
}

func TestPublishedOr(t *testing.T) {
	require.NoError(t, publishedOr("test", types.EXB_STATUS_NORMAL, "藏品不存在"))

	err := publishedOr("test", 1, "藏品不存在")
	require.Error(t, err)
	ce, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "藏品不存在", ce.Message())
}
