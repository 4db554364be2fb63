package types

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	EXB_STATUS_NORMAL  = 0
	EXB_STATUS_DISABLE = 1

	EXHIBITION_LONG_TERM = 0
	EXHIBITION_TEMPORARY = 1

	UNIT_TYPE_EXHIBIT    = 0
	UNIT_TYPE_TEXT       = 1
	UNIT_TYPE_MULTIMEDIA = 2

	MEDIA_TYPE_IMAGE = 1
	MEDIA_TYPE_VIDEO = 2
	MEDIA_TYPE_AUDIO = 3

	MEDIA_OBJECT_MUSEUM     = "museum"
	MEDIA_OBJECT_EXHIBITION = "exhibition"
	MEDIA_OBJECT_COLLECTION = "collection"
	MEDIA_OBJECT_UNIT       = "exhibition_unit"
	MEDIA_OBJECT_ACTIVITY   = "activity"

	DEFAULT_TARGET_AUDIENCE = "不限"
)

type ExbMuseum struct {
	MuseumID    int64  `json:"museumId" db:"museum_id" excel:"博物馆ID"`
	MuseumName  string `json:"museumName" db:"museum_name" excel:"博物馆名称"`
	Address     string `json:"address" db:"address" excel:"博物馆地址"`
	Description string `json:"description" db:"description" excel:"博物馆简介"`
	Status      int    `json:"status" db:"status" excel:"状态（0正常 1停用）"`
	DelFlag     int    `json:"delFlag" db:"del_flag"`
	AppID       string `json:"appId" db:"app_id" excel:"小程序AppID"`
	AppSecret   string `json:"appSecret" db:"app_secret" excel:"小程序AppSecret"`
	DeptID      int64  `json:"deptId" db:"dept_id" excel:"所属部门ID"`
	AuditFields
}

type ListExbMuseumOptions struct {
	MuseumName string
	Status     *int
	AppID      string
}

func (opts ListExbMuseumOptions) Apply(query *sq.SelectBuilder) {
	*query = query.Where(sq.Eq{"del_flag": NOT_DELETE})
	if opts.MuseumName != "" {
		*query = query.Where(sq.Like{"museum_name": "%" + opts.MuseumName + "%"})
	}
	if opts.Status != nil {
		*query = query.Where(sq.Eq{"status": *opts.Status})
	}
	if opts.AppID != "" {
		*query = query.Where(sq.Eq{"app_id": opts.AppID})
	}
}

type ExbMuseumHall struct {
	HallID   int64  `json:"hallId" db:"hall_id" excel:"展厅ID"`
	HallName string `json:"hallName" db:"hall_name" excel:"展厅名称"`
	Location string `json:"location" db:"location" excel:"位置"`
	MuseumID int64  `json:"museumId" db:"museum_id" excel:"所属博物馆ID"`
	Status   int    `json:"status" db:"status" excel:"状态（0正常 1停用）"`
	DelFlag  int    `json:"delFlag" db:"del_flag"`
	AuditFields
}

type ListExbMuseumHallOptions struct {
	HallName string
	MuseumID int64
	Status   *int
}

func (opts ListExbMuseumHallOptions) Apply(query *sq.SelectBuilder) {
	*query = query.Where(sq.Eq{"del_flag": NOT_DELETE})
	if opts.HallName != "" {
		*query = query.Where(sq.Like{"hall_name": "%" + opts.HallName + "%"})
	}
	if opts.MuseumID != 0 {
		*query = query.Where(sq.Eq{"museum_id": opts.MuseumID})
	}
	if opts.Status != nil {
		*query = query.Where(sq.Eq{"status": *opts.Status})
	}
}

type ExbExhibition struct {
	ExhibitionID   int64    `json:"exhibitionId" db:"exhibition_id" excel:"展览ID"`
	ExhibitionName string   `json:"exhibitionName" db:"exhibition_name" excel:"展名"`
	Description    string   `json:"description" db:"description" excel:"展览简介"`
	MuseumID       int64    `json:"museumId" db:"museum_id" excel:"所属博物馆ID"`
	Hall           string   `json:"hall" db:"hall" excel:"展厅"`
	StartTime      DateTime `json:"startTime" db:"start_time" excel:"展览开始时间"`
	EndTime        DateTime `json:"endTime" db:"end_time" excel:"展览结束时间"`
	Organizer      string   `json:"organizer" db:"organizer" excel:"主办单位"`
	ExhibitionType int      `json:"exhibitionType" db:"exhibition_type" excel:"展览类型（0长期 1临时）"`
	ContentTags    string   `json:"contentTags" db:"content_tags" excel:"内容标签"`
	Status         int      `json:"status" db:"status" excel:"状态（0正常 1停用）"`
	DelFlag        int      `json:"delFlag" db:"del_flag"`
	AuditFields
}

type ListExbExhibitionOptions struct {
	ExhibitionName string
	MuseumID       int64
	ExhibitionType *int
	Status         *int
	Hall           string
	Organizer      string
	IDs            []int64
}

func (opts ListExbExhibitionOptions) Apply(query *sq.SelectBuilder) {
	*query = query.Where(sq.Eq{"del_flag": NOT_DELETE})
	if opts.ExhibitionName != "" {
		*query = query.Where(sq.Like{"exhibition_name": "%" + opts.ExhibitionName + "%"})
	}
	if opts.MuseumID != 0 {
		*query = query.Where(sq.Eq{"museum_id": opts.MuseumID})
	}
	if opts.ExhibitionType != nil {
		*query = query.Where(sq.Eq{"exhibition_type": *opts.ExhibitionType})
	}
	if opts.Status != nil {
		*query = query.Where(sq.Eq{"status": *opts.Status})
	}
	if opts.Hall != "" {
		*query = query.Where(sq.Like{"hall": "%" + opts.Hall + "%"})
	}
	if opts.Organizer != "" {
		*query = query.Where(sq.Like{"organizer": "%" + opts.Organizer + "%"})
	}
	if len(opts.IDs) > 0 {
		*query = query.Where(sq.Eq{"exhibition_id": opts.IDs})
	}
}

type ExbExhibitionUnit struct {
	UnitID       int64  `json:"unitId" db:"unit_id" excel:"展览单元ID"`
	UnitName     string `json:"unitName" db:"unit_name" excel:"单元名称"`
	ExhibitionID int64  `json:"exhibitionId" db:"exhibition_id" excel:"所属展览ID"`
	ExhibitLabel string `json:"exhibitLabel" db:"exhibit_label" excel:"展签"`
	GuideText    string `json:"guideText" db:"guide_text" excel:"导览词"`
	UnitType     int    `json:"unitType" db:"unit_type" excel:"类型(0展品单元 1文字单元 2多媒体单元)"`
	HallID       int64  `json:"hallId" db:"hall_id" excel:"所在展厅ID"`
	Section      string `json:"section" db:"section" excel:"所属章节"`
	SortOrder    int    `json:"sortOrder" db:"sort_order" excel:"顺序"`
	// JSON 数组格式的藏品ID列表
	Collections string `json:"collections" db:"collections" excel:"关联藏品ID列表"`
	Status      int    `json:"status" db:"status" excel:"状态（0正常 1停用）"`
	DelFlag     int    `json:"delFlag" db:"del_flag"`
	AuditFields

	CopyCollectionMedia bool `json:"copyCollectionMedia" db:"-"`
}

type ListExbExhibitionUnitOptions struct {
	UnitName     string
	ExhibitionID int64
	UnitType     *int
	HallID       int64
	Section      string
	Status       *int
}

func (opts ListExbExhibitionUnitOptions) Apply(query *sq.SelectBuilder) {
	*query = query.Where(sq.Eq{"del_flag": NOT_DELETE})
	if opts.UnitName != "" {
		*query = query.Where(sq.Like{"unit_name": "%" + opts.UnitName + "%"})
	}
	if opts.ExhibitionID != 0 {
		*query = query.Where(sq.Eq{"exhibition_id": opts.ExhibitionID})
	}
	if opts.UnitType != nil {
		*query = query.Where(sq.Eq{"unit_type": *opts.UnitType})
	}
	if opts.HallID != 0 {
		*query = query.Where(sq.Eq{"hall_id": opts.HallID})
	}
	if opts.Section != "" {
		*query = query.Where(sq.Eq{"section": opts.Section})
	}
	if opts.Status != nil {
		*query = query.Where(sq.Eq{"status": *opts.Status})
	}
}

type ExbCollection struct {
	CollectionID   int64  `json:"collectionId" db:"collection_id" excel:"藏品ID"`
	CollectionName string `json:"collectionName" db:"collection_name" excel:"藏品名"`
	CollectionType string `json:"collectionType" db:"collection_type" excel:"类型"`
	SizeInfo       string `json:"sizeInfo" db:"size_info" excel:"尺寸"`
	Material       string `json:"material" db:"material" excel:"材质"`
	Age            string `json:"age" db:"age" excel:"年代"`
	Author         string `json:"author" db:"author" excel:"作者"`
	Description    string `json:"description" db:"description" excel:"藏品简介"`
	ExhibitionID   int64  `json:"exhibitionId" db:"exhibition_id" excel:"所属展览"`
	MuseumID       int64  `json:"museumId" db:"museum_id" excel:"所属博物馆"`
	Status         int    `json:"status" db:"status" excel:"状态"`
	DelFlag        int    `json:"delFlag" db:"del_flag"`
	AuditFields
}

type ListExbCollectionOptions struct {
	CollectionName string
	CollectionType string
	MuseumID       int64
	ExhibitionID   int64
	Status         *int
	IDs            []int64
}

func (opts ListExbCollectionOptions) Apply(query *sq.SelectBuilder) {
	*query = query.Where(sq.Eq{"del_flag": NOT_DELETE})
	if opts.CollectionName != "" {
		*query = query.Where(sq.Like{"collection_name": "%" + opts.CollectionName + "%"})
	}
	if opts.CollectionType != "" {
		*query = query.Where(sq.Eq{"collection_type": opts.CollectionType})
	}
	if opts.MuseumID != 0 {
		*query = query.Where(sq.Eq{"museum_id": opts.MuseumID})
	}
	if opts.ExhibitionID != 0 {
		*query = query.Where(sq.Eq{"exhibition_id": opts.ExhibitionID})
	}
	if opts.Status != nil {
		*query = query.Where(sq.Eq{"status": *opts.Status})
	}
	if len(opts.IDs) > 0 {
		*query = query.Where(sq.Eq{"collection_id": opts.IDs})
	}
}

type ExbActivity struct {
	ActivityID        int64    `json:"activityId" db:"activity_id" excel:"活动ID"`
	ActivityName      string   `json:"activityName" db:"activity_name" excel:"活动名称"`
	Introduction      string   `json:"introduction" db:"introduction" excel:"活动介绍"`
	ActivityType      string   `json:"activityType" db:"activity_type" excel:"活动类型"`
	TargetAudience    string   `json:"targetAudience" db:"target_audience" excel:"活动对象"`
	Location          string   `json:"location" db:"location" excel:"活动地点"`
	ActivityStartTime DateTime `json:"activityStartTime" db:"activity_start_time" excel:"活动开始时间"`
	ActivityEndTime   DateTime `json:"activityEndTime" db:"activity_end_time" excel:"活动结束时间"`
	RegistrationCount int      `json:"registrationCount" db:"registration_count" excel:"报名人数"`
	MaxRegistration   int      `json:"maxRegistration" db:"max_registration" excel:"最大报名人数"`
	Presenter         string   `json:"presenter" db:"presenter" excel:"主讲人或表演团队"`
	MuseumID          int64    `json:"museumId" db:"museum_id" excel:"所属博物馆ID"`
	Status            int      `json:"status" db:"status" excel:"状态"`
	DelFlag           int      `json:"delFlag" db:"del_flag"`
	AuditFields
}

// Full 报名已满, max_registration 为 0 表示不限
func (a ExbActivity) Full() bool {
	return a.MaxRegistration > 0 && a.RegistrationCount >= a.MaxRegistration
}

// Admits reserved 为当前有效预约数, 不依赖 registration_count 字段
func (a ExbActivity) Admits(reserved int64) bool {
	return a.MaxRegistration <= 0 || reserved < int64(a.MaxRegistration)
}

type ListExbActivityOptions struct {
	ActivityName   string
	ActivityType   string
	Location       string
	Presenter      string
	TargetAudience string
	MuseumID       int64
	Status         *int
	// 只返回尚未结束的活动
	NotEndedBefore *DateTime
}

func (opts ListExbActivityOptions) Apply(query *sq.SelectBuilder) {
	*query = query.Where(sq.Eq{"del_flag": NOT_DELETE})
	if opts.ActivityName != "" {
		*query = query.Where(sq.Like{"activity_name": "%" + opts.ActivityName + "%"})
	}
	if opts.ActivityType != "" {
		*query = query.Where(sq.Eq{"activity_type": opts.ActivityType})
	}
	if opts.Location != "" {
		*query = query.Where(sq.Like{"location": "%" + opts.Location + "%"})
	}
	if opts.Presenter != "" {
		*query = query.Where(sq.Like{"presenter": "%" + opts.Presenter + "%"})
	}
	if opts.TargetAudience != "" {
		*query = query.Where(sq.Like{"target_audience": "%" + opts.TargetAudience + "%"})
	}
	if opts.MuseumID != 0 {
		*query = query.Where(sq.Eq{"museum_id": opts.MuseumID})
	}
	if opts.Status != nil {
		*query = query.Where(sq.Eq{"status": *opts.Status})
	}
	if opts.NotEndedBefore != nil {
		*query = query.Where(sq.Or{sq.Eq{"activity_end_time": nil}, sq.GtOrEq{"activity_end_time": opts.NotEndedBefore.Time}})
	}
}

type ExbActivityReservation struct {
	ReservationID    int64    `json:"reservationId" db:"reservation_id" excel:"预约ID"`
	ActivityID       int64    `json:"activityId" db:"activity_id" excel:"活动ID"`
	WxUserID         int64    `json:"wxUserId" db:"wx_user_id" excel:"微信用户ID"`
	RegistrationTime DateTime `json:"registrationTime" db:"registration_time" excel:"报名时间"`
	PhoneNumber      string   `json:"phoneNumber" db:"phone_number" excel:"手机号码"`
	DelFlag          int      `json:"delFlag" db:"del_flag"`
	AuditFields
}

// ExbReservationDetail 预约记录连带活动与微信用户信息
type ExbReservationDetail struct {
	ExbActivityReservation
	ActivityName      string   `json:"activityName" db:"activity_name"`
	Location          string   `json:"location" db:"location"`
	ActivityStartTime DateTime `json:"activityStartTime" db:"activity_start_time"`
	ActivityEndTime   DateTime `json:"activityEndTime" db:"activity_end_time"`
	Nickname          string   `json:"nickname" db:"nickname"`
	AvatarURL         string   `json:"avatarUrl" db:"avatar_url"`
}

type ListExbReservationOptions struct {
	ActivityID  int64
	WxUserID    int64
	PhoneNumber string
	MuseumID    int64
}

// Apply 表别名 r 为预约表, a 为活动表, w 为微信用户表
func (opts ListExbReservationOptions) Apply(query *sq.SelectBuilder) {
	*query = query.Where(sq.Eq{"r.del_flag": NOT_DELETE})
	if opts.ActivityID != 0 {
		*query = query.Where(sq.Eq{"r.activity_id": opts.ActivityID})
	}
	if opts.WxUserID != 0 {
		*query = query.Where(sq.Eq{"r.wx_user_id": opts.WxUserID})
	}
	if opts.PhoneNumber != "" {
		*query = query.Where(sq.Like{"r.phone_number": "%" + opts.PhoneNumber + "%"})
	}
	if opts.MuseumID != 0 {
		*query = query.Where(sq.Eq{"a.museum_id": opts.MuseumID})
	}
}

type ExbMuseumMedia struct {
	MediaID    int64    `json:"mediaId" db:"media_id"`
	ObjectType string   `json:"objectType" db:"object_type"`
	ObjectID   int64    `json:"objectId" db:"object_id"`
	MediaType  int      `json:"mediaType" db:"media_type"`
	MediaName  string   `json:"mediaName" db:"media_name"`
	MediaURL   string   `json:"mediaUrl" db:"media_url"`
	CoverURL   string   `json:"coverUrl" db:"cover_url"`
	Duration   int      `json:"duration" db:"duration"`
	Sort       int      `json:"sort" db:"sort"`
	Size       int64    `json:"size" db:"size"`
	IsCover    int      `json:"isCover" db:"is_cover"`
	Status     int      `json:"status" db:"status"`
	DelFlag    int      `json:"delFlag" db:"del_flag"`
	CreateTime DateTime `json:"createTime" db:"create_time"`
	UpdateTime DateTime `json:"updateTime" db:"update_time"`
}

type ListExbMuseumMediaOptions struct {
	ObjectID   int64
	ObjectIDs  []int64
	ObjectType string
	MediaType  *int
	Status     *int
}

func (opts ListExbMuseumMediaOptions) Apply(query *sq.SelectBuilder) {
	*query = query.Where(sq.Eq{"del_flag": NOT_DELETE})
	if opts.ObjectID != 0 {
		*query = query.Where(sq.Eq{"object_id": opts.ObjectID})
	}
	if len(opts.ObjectIDs) > 0 {
		*query = query.Where(sq.Eq{"object_id": opts.ObjectIDs})
	}
	if opts.ObjectType != "" {
		*query = query.Where(sq.Eq{"object_type": opts.ObjectType})
	}
	if opts.MediaType != nil {
		*query = query.Where(sq.Eq{"media_type": *opts.MediaType})
	}
	if opts.Status != nil {
		*query = query.Where(sq.Eq{"status": *opts.Status})
	}
}

type ExbWxUser struct {
	ID         int64    `json:"id" db:"id"`
	AppID      string   `json:"appId" db:"app_id"`
	OpenID     string   `json:"openId" db:"open_id"`
	UnionID    string   `json:"unionId" db:"union_id"`
	SessionKey string   `json:"-" db:"session_key"`
	AvatarURL  string   `json:"avatarUrl" db:"avatar_url"`
	Nickname   string   `json:"nickname" db:"nickname"`
	Status     int      `json:"status" db:"status"`
	DelFlag    int      `json:"delFlag" db:"del_flag"`
	CreateTime DateTime `json:"createTime" db:"create_time"`
	UpdateTime DateTime `json:"updateTime" db:"update_time"`
	Remark     string   `json:"remark" db:"remark"`
}
