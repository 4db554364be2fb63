package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/samber/lo"

	"github.com/exb-museum/exb-admin/app/core"
	cerrors "github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/security"
	"github.com/exb-museum/exb-admin/pkg/types"
	"github.com/exb-museum/exb-admin/pkg/types/protocol"
	"github.com/exb-museum/exb-admin/pkg/utils"
)

// 展览状态
const (
	EXHIBITION_STATUS_UPCOMING = "upcoming"
	EXHIBITION_STATUS_ENDED    = "ended"
	EXHIBITION_STATUS_ONGOING  = "ongoing"

	// 首页展示的教育活动数量
	homeEducationLimit = 4

	reserveLockTTL = 10 * time.Second
)

// ExhibitionStatus 未设置开始时间视为已开始, 未设置结束时间视为长期展出
func ExhibitionStatus(now time.Time, start, end time.Time) (string, string) {
	switch {
	case !start.IsZero() && now.Before(start):
		return EXHIBITION_STATUS_UPCOMING, "即将开始"
	case !end.IsZero() && now.After(end):
		return EXHIBITION_STATUS_ENDED, "已结束"
	default:
		return EXHIBITION_STATUS_ONGOING, "正在热展"
	}
}

func formatDate(t types.DateTime) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

type WxMuseum struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	OpenStatus  string   `json:"openStatus"`
	OpenTime    string   `json:"openTime"`
	BgImageList []string `json:"bgImageList"`
}

type WxCollectionItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Period      string `json:"period"`
	Img         string `json:"img"`
	Description string `json:"description"`
	Material    string `json:"material"`
	SizeInfo    string `json:"sizeInfo"`
	Author      string `json:"author"`
	Type        string `json:"type"`
}

type WxExhibitionItem struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Desc       string `json:"desc"`
	Date       string `json:"date"`
	Place      string `json:"place"`
	Status     string `json:"status"`
	StatusText string `json:"statusText"`
	Img        string `json:"img"`
	Organizer  string `json:"organizer"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

type WxEducationItem struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	Time  string `json:"time"`
	Img   string `json:"img"`
}

type WxHome struct {
	Museum      WxMuseum           `json:"museum"`
	Collections []WxCollectionItem `json:"collections"`
	Exhibitions []WxExhibitionItem `json:"exhibitions"`
	Educations  []WxEducationItem  `json:"educations"`
}

type WxMedia struct {
	URL  string `json:"url"`
	Type int    `json:"type"`
}

type WxCollectionDetail struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Age         string    `json:"age"`
	Description string    `json:"description"`
	Material    string    `json:"material"`
	SizeInfo    string    `json:"sizeInfo"`
	Author      string    `json:"author"`
	Type        string    `json:"type"`
	ImageURL    string    `json:"imageUrl"`
	MediaList   []WxMedia `json:"mediaList"`
}

type WxExhibition struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
	Organizer      string   `json:"organizer"`
	Hall           string   `json:"hall"`
	ExhibitionType int      `json:"exhibitionType"`
	ContentTags    string   `json:"contentTags"`
	Sections       []string `json:"sections"`
	CoverImg       string   `json:"coverImg"`
	GalleryImages  []string `json:"galleryImages"`
}

type WxUnit struct {
	ID                int64                `json:"id"`
	Name              string               `json:"name"`
	Type              int                  `json:"type"`
	Section           string               `json:"section"`
	SortOrder         int                  `json:"sortOrder"`
	ExhibitLabel      string               `json:"exhibitLabel"`
	GuideText         string               `json:"guideText"`
	Collections       string               `json:"collections"`
	CollectionsDetail []WxCollectionDetail `json:"collectionsDetail,omitempty"`
	MediaList         []WxMedia            `json:"mediaList"`
	HasAudio          bool                 `json:"hasAudio"`
	AudioURL          string               `json:"audioUrl"`
}

type WxExhibitionDetail struct {
	Exhibition WxExhibition `json:"exhibition"`
	Units      []WxUnit     `json:"units"`
}

type WxLoginResult struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
	OpenID    string `json:"openId"`
}

type WxActivity struct {
	types.ExbActivity
	Img      string `json:"img"`
	Full     bool   `json:"full"`
	Reserved bool   `json:"reserved"`
}

type WxLogic struct {
	ctx    context.Context
	core   *core.Core
	claims *security.WxClaims
}

func NewWxLogic(ctx context.Context, core *core.Core) *WxLogic {
	claims, _ := InjectWxClaims(ctx)
	return &WxLogic{
		ctx:    ctx,
		core:   core,
		claims: claims,
	}
}

func (l *WxLogic) requireClaims(trace string) (*security.WxClaims, error) {
	if l.claims == nil || l.claims.UID == 0 {
		return nil, cerrors.Service(trace, "登录状态已过期").Code(http.StatusUnauthorized)
	}
	return l.claims, nil
}

// mediaOf 按对象分组的有效媒体, 组内保持 sort 顺序
func (l *WxLogic) mediaOf(objectType string, objectIDs []int64, mediaTypes ...int) (map[int64][]types.ExbMuseumMedia, error) {
	res := map[int64][]types.ExbMuseumMedia{}
	if len(objectIDs) == 0 {
		return res, nil
	}
	status := types.EXB_STATUS_NORMAL
	list, err := l.core.Store().ExbMuseumMediaStore().List(l.ctx, types.ListExbMuseumMediaOptions{
		ObjectType: objectType,
		ObjectIDs:  objectIDs,
		Status:     &status,
	}, nil)
	if err != nil {
		return nil, internal("WxLogic.mediaOf.ExbMuseumMediaStore.List", err)
	}
	for _, m := range list {
		if len(mediaTypes) > 0 && !lo.Contains(mediaTypes, m.MediaType) {
			continue
		}
		res[m.ObjectID] = append(res[m.ObjectID], m)
	}
	return res, nil
}

func firstURL(medias []types.ExbMuseumMedia) string {
	if len(medias) == 0 {
		return ""
	}
	return medias[0].MediaURL
}

func mediaURLs(medias []types.ExbMuseumMedia) []string {
	return lo.Map(medias, func(m types.ExbMuseumMedia, _ int) string { return m.MediaURL })
}

func (l *WxLogic) museumByAppID(trace, appID string) (*types.ExbMuseum, error) {
	museum, err := l.core.Store().ExbMuseumStore().GetByAppID(l.ctx, appID)
	if err != nil {
		return nil, notFoundOr(trace+".ExbMuseumStore.GetByAppID", err, "博物馆不存在")
	}
	if museum.Status != types.EXB_STATUS_NORMAL {
		return nil, cerrors.Service(trace, "博物馆不存在")
	}
	return museum, nil
}

func (l *WxLogic) Home(appID string) (*WxHome, error) {
	museum, err := l.museumByAppID("WxLogic.Home", appID)
	if err != nil {
		return nil, err
	}
	normal := types.EXB_STATUS_NORMAL

	bg, err := l.mediaOf(types.MEDIA_OBJECT_MUSEUM, []int64{museum.MuseumID}, types.MEDIA_TYPE_IMAGE)
	if err != nil {
		return nil, err
	}
	res := &WxHome{
		Museum: WxMuseum{
			Name:        museum.MuseumName,
			Description: museum.Description,
			OpenStatus:  "今日开放",
			OpenTime:    "10:00 - 18:00",
			BgImageList: mediaURLs(bg[museum.MuseumID]),
		},
		Collections: []WxCollectionItem{},
		Exhibitions: []WxExhibitionItem{},
		Educations:  []WxEducationItem{},
	}

	collections, err := l.core.Store().ExbCollectionStore().List(l.ctx, types.ListExbCollectionOptions{MuseumID: museum.MuseumID, Status: &normal}, nil)
	if err != nil {
		return nil, internal("WxLogic.Home.ExbCollectionStore.List", err)
	}
	colMedia, err := l.mediaOf(types.MEDIA_OBJECT_COLLECTION, lo.Map(collections, func(c types.ExbCollection, _ int) int64 { return c.CollectionID }), types.MEDIA_TYPE_IMAGE)
	if err != nil {
		return nil, err
	}
	for _, c := range collections {
		res.Collections = append(res.Collections, WxCollectionItem{
			ID:          c.CollectionID,
			Title:       c.CollectionName,
			Period:      c.Age,
			Img:         firstURL(colMedia[c.CollectionID]),
			Description: c.Description,
			Material:    c.Material,
			SizeInfo:    c.SizeInfo,
			Author:      c.Author,
			Type:        c.CollectionType,
		})
	}

	exhibitions, err := l.core.Store().ExbExhibitionStore().List(l.ctx, types.ListExbExhibitionOptions{MuseumID: museum.MuseumID, Status: &normal}, nil)
	if err != nil {
		return nil, internal("WxLogic.Home.ExbExhibitionStore.List", err)
	}
	exhMedia, err := l.mediaOf(types.MEDIA_OBJECT_EXHIBITION, lo.Map(exhibitions, func(e types.ExbExhibition, _ int) int64 { return e.ExhibitionID }), types.MEDIA_TYPE_IMAGE)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, e := range exhibitions {
		status, text := ExhibitionStatus(now, e.StartTime.Time, e.EndTime.Time)
		res.Exhibitions = append(res.Exhibitions, WxExhibitionItem{
			ID:         e.ExhibitionID,
			Title:      e.ExhibitionName,
			Desc:       e.Description,
			Date:       utils.FormatMonthDayRange(&e.StartTime.Time, &e.EndTime.Time),
			Place:      e.Hall,
			Status:     status,
			StatusText: text,
			Img:        firstURL(exhMedia[e.ExhibitionID]),
			Organizer:  e.Organizer,
			StartTime:  formatDate(e.StartTime),
			EndTime:    formatDate(e.EndTime),
		})
	}

	// 教育活动取尚未结束的活动
	activities, err := l.core.Store().ExbActivityStore().List(l.ctx, types.ListExbActivityOptions{
		MuseumID:       museum.MuseumID,
		Status:         &normal,
		NotEndedBefore: lo.ToPtr(types.NewDateTime(now)),
	}, &types.Criterion{
		Page: &types.PageArgs{PageNum: 1, PageSize: homeEducationLimit},
		Sort: []types.SortItem{{Column: "activity_start_time"}},
	})
	if err != nil {
		return nil, internal("WxLogic.Home.ExbActivityStore.List", err)
	}
	actMedia, err := l.mediaOf(types.MEDIA_OBJECT_ACTIVITY, lo.Map(activities, func(a types.ExbActivity, _ int) int64 { return a.ActivityID }), types.MEDIA_TYPE_IMAGE)
	if err != nil {
		return nil, err
	}
	for _, a := range activities {
		item := WxEducationItem{
			ID:    a.ActivityID,
			Type:  a.ActivityType,
			Title: a.ActivityName,
			Img:   firstURL(actMedia[a.ActivityID]),
		}
		if !a.ActivityStartTime.IsZero() {
			item.Time = a.ActivityStartTime.Format("01月02日 15:04")
		}
		res.Educations = append(res.Educations, item)
	}
	return res, nil
}

func (l *WxLogic) ExhibitionDetail(exhibitionID int64) (*WxExhibitionDetail, error) {
	exhibition, err := l.core.Store().ExbExhibitionStore().Get(l.ctx, exhibitionID)
	if err != nil {
		return nil, notFoundOr("WxLogic.ExhibitionDetail.ExbExhibitionStore.Get", err, "展览不存在")
	}
	if err = publishedOr("WxLogic.ExhibitionDetail", exhibition.Status, "展览不存在"); err != nil {
		return nil, err
	}
	images, err := l.mediaOf(types.MEDIA_OBJECT_EXHIBITION, []int64{exhibitionID}, types.MEDIA_TYPE_IMAGE)
	if err != nil {
		return nil, err
	}

	normal := types.EXB_STATUS_NORMAL
	units, err := l.core.Store().ExbExhibitionUnitStore().List(l.ctx, types.ListExbExhibitionUnitOptions{ExhibitionID: exhibitionID, Status: &normal}, nil)
	if err != nil {
		return nil, internal("WxLogic.ExhibitionDetail.ExbExhibitionUnitStore.List", err)
	}

	res := &WxExhibitionDetail{
		Exhibition: WxExhibition{
			ID:             exhibition.ExhibitionID,
			Title:          exhibition.ExhibitionName,
			Description:    exhibition.Description,
			StartDate:      formatDate(exhibition.StartTime),
			EndDate:        formatDate(exhibition.EndTime),
			Organizer:      exhibition.Organizer,
			Hall:           exhibition.Hall,
			ExhibitionType: exhibition.ExhibitionType,
			ContentTags:    exhibition.ContentTags,
			Sections:       UnitSections(units),
			CoverImg:       firstURL(images[exhibitionID]),
			GalleryImages:  mediaURLs(images[exhibitionID]),
		},
		Units: []WxUnit{},
	}

	unitMedia, err := l.mediaOf(types.MEDIA_OBJECT_UNIT, lo.Map(units, func(u types.ExbExhibitionUnit, _ int) int64 { return u.UnitID }),
		types.MEDIA_TYPE_IMAGE, types.MEDIA_TYPE_AUDIO)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		item, err := l.buildUnit(u, unitMedia[u.UnitID])
		if err != nil {
			return nil, err
		}
		res.Units = append(res.Units, *item)
	}
	return res, nil
}

// UnitSections 按单元顺序去重后的章节
func UnitSections(units []types.ExbExhibitionUnit) []string {
	sections := lo.FilterMap(units, func(u types.ExbExhibitionUnit, _ int) (string, bool) {
		s := strings.TrimSpace(u.Section)
		return s, s != ""
	})
	return lo.Uniq(sections)
}

func (l *WxLogic) buildUnit(u types.ExbExhibitionUnit, medias []types.ExbMuseumMedia) (*WxUnit, error) {
	item := &WxUnit{
		ID:           u.UnitID,
		Name:         u.UnitName,
		Type:         u.UnitType,
		Section:      u.Section,
		SortOrder:    u.SortOrder,
		ExhibitLabel: u.ExhibitLabel,
		GuideText:    u.GuideText,
		Collections:  u.Collections,
		MediaList:    []WxMedia{},
	}
	for _, m := range medias {
		switch m.MediaType {
		case types.MEDIA_TYPE_IMAGE:
			item.MediaList = append(item.MediaList, WxMedia{URL: m.MediaURL, Type: m.MediaType})
		case types.MEDIA_TYPE_AUDIO:
			if !item.HasAudio {
				item.HasAudio = true
				item.AudioURL = m.MediaURL
			}
		}
	}
	if u.UnitType != types.UNIT_TYPE_EXHIBIT {
		return item, nil
	}
	ids, err := ParseCollectionIDs(u.Collections)
	if err != nil || len(ids) == 0 {
		item.CollectionsDetail = []WxCollectionDetail{}
		return item, nil
	}
	details, err := l.collectionDetails(ids)
	if err != nil {
		return nil, err
	}
	item.CollectionsDetail = details
	return item, nil
}

// publishedOr 停用的数据对小程序按不存在处理
func publishedOr(trace string, status int, message string) error {
	if status != types.EXB_STATUS_NORMAL {
		return cerrors.Service(trace, message)
	}
	return nil
}

// publishedCollections 按 ids 的顺序返回, 已删除或停用的藏品跳过
func publishedCollections(ids []int64, list []types.ExbCollection) []types.ExbCollection {
	byID := lo.KeyBy(list, func(c types.ExbCollection) int64 { return c.CollectionID })
	res := make([]types.ExbCollection, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok && c.Status == types.EXB_STATUS_NORMAL {
			res = append(res, c)
		}
	}
	return res
}

func (l *WxLogic) collectionDetails(ids []int64) ([]WxCollectionDetail, error) {
	normal := types.EXB_STATUS_NORMAL
	list, err := l.core.Store().ExbCollectionStore().List(l.ctx, types.ListExbCollectionOptions{IDs: ids, Status: &normal}, nil)
	if err != nil {
		return nil, internal("WxLogic.collectionDetails.ExbCollectionStore.List", err)
	}
	list = publishedCollections(ids, list)
	medias, err := l.mediaOf(types.MEDIA_OBJECT_COLLECTION, lo.Map(list, func(c types.ExbCollection, _ int) int64 { return c.CollectionID }), types.MEDIA_TYPE_IMAGE)
	if err != nil {
		return nil, err
	}
	res := make([]WxCollectionDetail, 0, len(list))
	for _, c := range list {
		res = append(res, collectionDetail(c, medias[c.CollectionID]))
	}
	return res, nil
}

func collectionDetail(c types.ExbCollection, medias []types.ExbMuseumMedia) WxCollectionDetail {
	return WxCollectionDetail{
		ID:          c.CollectionID,
		Name:        c.CollectionName,
		Age:         c.Age,
		Description: c.Description,
		Material:    c.Material,
		SizeInfo:    c.SizeInfo,
		Author:      c.Author,
		Type:        c.CollectionType,
		ImageURL:    firstURL(medias),
		MediaList:   lo.Map(medias, func(m types.ExbMuseumMedia, _ int) WxMedia { return WxMedia{URL: m.MediaURL, Type: m.MediaType} }),
	}
}

func (l *WxLogic) CollectionDetail(collectionID int64) (*WxCollectionDetail, error) {
	c, err := l.core.Store().ExbCollectionStore().Get(l.ctx, collectionID)
	if err != nil {
		return nil, notFoundOr("WxLogic.CollectionDetail.ExbCollectionStore.Get", err, "藏品不存在")
	}
	if err = publishedOr("WxLogic.CollectionDetail", c.Status, "藏品不存在"); err != nil {
		return nil, err
	}
	medias, err := l.mediaOf(types.MEDIA_OBJECT_COLLECTION, []int64{collectionID})
	if err != nil {
		return nil, err
	}
	res := collectionDetail(*c, medias[collectionID])
	return &res, nil
}

func (l *WxLogic) UnitDetail(unitID int64) (*WxUnit, error) {
	u, err := l.core.Store().ExbExhibitionUnitStore().Get(l.ctx, unitID)
	if err != nil {
		return nil, notFoundOr("WxLogic.UnitDetail.ExbExhibitionUnitStore.Get", err, "展览单元不存在")
	}
	if err = publishedOr("WxLogic.UnitDetail", u.Status, "展览单元不存在"); err != nil {
		return nil, err
	}
	medias, err := l.mediaOf(types.MEDIA_OBJECT_UNIT, []int64{unitID}, types.MEDIA_TYPE_IMAGE, types.MEDIA_TYPE_AUDIO)
	if err != nil {
		return nil, err
	}
	return l.buildUnit(*u, medias[unitID])
}

// Login code2session 换取 openid, 登记小程序用户并签发访问令牌
func (l *WxLogic) Login(appID, code string) (*WxLoginResult, error) {
	trace := "WxLogic.Login"
	if appID == "" || code == "" {
		return nil, cerrors.Service(trace, "appId和code不能为空")
	}
	museum, err := l.museumByAppID(trace, appID)
	if err != nil {
		return nil, err
	}
	if museum.AppSecret == "" {
		return nil, cerrors.Service(trace, "小程序未配置AppSecret")
	}
	sess, err := l.core.Wechat().Code2Session(l.ctx, appID, museum.AppSecret, code)
	if err != nil {
		return nil, cerrors.New(trace+".Code2Session", "微信登录失败", err)
	}

	uid, err := l.core.Store().ExbWxUserStore().Create(l.ctx, types.ExbWxUser{
		AppID:      appID,
		OpenID:     sess.OpenID,
		UnionID:    sess.UnionID,
		SessionKey: sess.SessionKey,
		Status:     types.EXB_STATUS_NORMAL,
	})
	if err != nil {
		return nil, internal(trace+".ExbWxUserStore.Create", err)
	}

	expire := l.core.Cfg().Wechat.TokenExpire()
	token, err := security.GenerateWxToken(security.NewWxClaims(sess.OpenID, appID, uid, expire), []byte(l.core.Cfg().Token.Secret))
	if err != nil {
		return nil, internal(trace+".GenerateWxToken", err)
	}
	return &WxLoginResult{
		Token:     token,
		ExpiresIn: int64(expire.Seconds()),
		OpenID:    sess.OpenID,
	}, nil
}

func (l *WxLogic) toWxActivities(list []types.ExbActivity) ([]WxActivity, error) {
	ids := lo.Map(list, func(a types.ExbActivity, _ int) int64 { return a.ActivityID })
	var reserved []int64
	if l.claims != nil && l.claims.UID != 0 {
		var err error
		if reserved, err = l.core.Store().ExbReservationStore().ListActivityIDsByUser(l.ctx, l.claims.UID, ids); err != nil {
			return nil, internal("WxLogic.toWxActivities.ExbReservationStore.ListActivityIDsByUser", err)
		}
	}
	medias, err := l.mediaOf(types.MEDIA_OBJECT_ACTIVITY, ids, types.MEDIA_TYPE_IMAGE)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(a types.ExbActivity, _ int) WxActivity {
		return WxActivity{
			ExbActivity: a,
			Img:         firstURL(medias[a.ActivityID]),
			Full:        a.Full(),
			Reserved:    lo.Contains(reserved, a.ActivityID),
		}
	}), nil
}

func (l *WxLogic) ActivityList(appID string) ([]WxActivity, error) {
	museum, err := l.museumByAppID("WxLogic.ActivityList", appID)
	if err != nil {
		return nil, err
	}
	normal := types.EXB_STATUS_NORMAL
	list, err := l.core.Store().ExbActivityStore().List(l.ctx, types.ListExbActivityOptions{MuseumID: museum.MuseumID, Status: &normal},
		&types.Criterion{Sort: []types.SortItem{{Column: "activity_start_time", Desc: true}}})
	if err != nil {
		return nil, internal("WxLogic.ActivityList.ExbActivityStore.List", err)
	}
	return l.toWxActivities(list)
}

func (l *WxLogic) ActivityDetail(activityID int64) (*WxActivity, error) {
	a, err := l.core.Store().ExbActivityStore().Get(l.ctx, activityID)
	if err != nil {
		return nil, notFoundOr("WxLogic.ActivityDetail.ExbActivityStore.Get", err, "活动不存在")
	}
	if err = publishedOr("WxLogic.ActivityDetail", a.Status, "活动不存在"); err != nil {
		return nil, err
	}
	list, err := l.toWxActivities([]types.ExbActivity{*a})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Reserve 同一活动的预约串行执行: 分布式锁加行锁, 报名人数以有效预约数重算
func (l *WxLogic) Reserve(activityID int64, phoneNumber string) (string, error) {
	trace := "WxLogic.Reserve"
	claims, err := l.requireClaims(trace)
	if err != nil {
		return "", err
	}
	if activityID == 0 {
		return "", cerrors.Service(trace, "活动不存在")
	}

	lock, err := l.core.Locker().Obtain(l.ctx, protocol.GenActivityReserveLockKey(activityID), reserveLockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 30),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return "", cerrors.Service(trace, "当前预约人数较多，请稍后重试")
		}
		return "", cerrors.New(trace+".Locker.Obtain", "预约失败,请联系管理员", err)
	}
	defer lock.Release(context.Background())

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		activity, err := l.core.Store().ExbActivityStore().GetForUpdate(ctx, activityID)
		if err != nil {
			return notFoundOr(trace+".ExbActivityStore.GetForUpdate", err, "活动不存在")
		}
		if activity.Status != types.EXB_STATUS_NORMAL {
			return cerrors.Service(trace, "活动不存在")
		}
		if _, err = l.core.Store().ExbReservationStore().GetByActivityUser(ctx, activityID, claims.UID); err == nil {
			return cerrors.Service(trace, "您已经预约过该活动，无需重复预约")
		} else if !isNotFound(err) {
			return internal(trace+".ExbReservationStore.GetByActivityUser", err)
		}
		reserved, err := l.core.Store().ExbReservationStore().CountByActivity(ctx, activityID)
		if err != nil {
			return internal(trace+".ExbReservationStore.CountByActivity", err)
		}
		if !activity.Admits(reserved) {
			return cerrors.Service(trace, "该活动报名人数已达上限")
		}
		if _, err = l.core.Store().ExbReservationStore().Create(ctx, types.ExbActivityReservation{
			ActivityID:  activityID,
			WxUserID:    claims.UID,
			PhoneNumber: strings.TrimSpace(phoneNumber),
			AuditFields: types.AuditFields{CreateBy: claims.OpenID},
		}); err != nil {
			return internal(trace+".ExbReservationStore.Create", err)
		}
		if _, err = recountActivity(ctx, l.core, activityID); err != nil {
			return internal(trace+".recountActivity", err)
		}
		return nil
	})
	if err != nil {
		return "", failedWith(err, trace, "预约失败,请联系管理员")
	}
	return "预约成功", nil
}

// failedWith 业务提示原样返回, 其余错误统一提示
func failedWith(err error, trace, message string) error {
	if ce, ok := cerrors.As(err); ok && ce.Unwrap() == nil {
		return err
	}
	return cerrors.New(trace, message, err)
}

func (l *WxLogic) Cancel(reservationID int64) (string, error) {
	trace := "WxLogic.Cancel"
	claims, err := l.requireClaims(trace)
	if err != nil {
		return "", err
	}
	reservation, err := l.core.Store().ExbReservationStore().Get(l.ctx, reservationID)
	if err != nil {
		return "", notFoundOr(trace+".ExbReservationStore.Get", err, "预约记录不存在")
	}
	if reservation.WxUserID != claims.UID {
		return "", cerrors.Service(trace, "无权限操作他人预约记录")
	}

	lock, err := l.core.Locker().Obtain(l.ctx, protocol.GenActivityReserveLockKey(reservation.ActivityID), reserveLockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 30),
	})
	if err != nil {
		return "", cerrors.New(trace+".Locker.Obtain", "取消预约失败,请联系管理员", err)
	}
	defer lock.Release(context.Background())

	err = l.core.Store().Transaction(l.ctx, func(ctx context.Context) error {
		if _, err := l.core.Store().ExbActivityStore().GetForUpdate(ctx, reservation.ActivityID); err != nil && !isNotFound(err) {
			return internal(trace+".ExbActivityStore.GetForUpdate", err)
		}
		if err := l.core.Store().ExbReservationStore().Delete(ctx, reservationID); err != nil {
			return internal(trace+".ExbReservationStore.Delete", err)
		}
		if _, err := recountActivity(ctx, l.core, reservation.ActivityID); err != nil {
			return internal(trace+".recountActivity", err)
		}
		return nil
	})
	if err != nil {
		return "", cerrors.New(trace, "取消预约失败,请联系管理员", err)
	}
	return "取消预约成功", nil
}

func (l *WxLogic) MyReservations() ([]types.ExbReservationDetail, error) {
	claims, err := l.requireClaims("WxLogic.MyReservations")
	if err != nil {
		return nil, err
	}
	list, err := l.core.Store().ExbReservationStore().List(l.ctx, types.ListExbReservationOptions{WxUserID: claims.UID}, nil)
	if err != nil {
		return nil, internal("WxLogic.MyReservations.ExbReservationStore.List", err)
	}
	return list, nil
}
