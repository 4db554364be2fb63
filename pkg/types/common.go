package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	NO_PAGINATION = 0

	// 系统表 del_flag: 0 存在 2 删除
	SYS_NOT_DELETE = "0"
	SYS_DELETED    = "2"

	// 业务表 del_flag: 0 存在 1 删除
	NOT_DELETE = 0
	DELETED    = 1

	STATUS_NORMAL  = "0"
	STATUS_DISABLE = "1"

	YES = "Y"
	NO  = "N"

	ADMIN_USER_ID int64 = 1
	ADMIN_ROLE_ID int64 = 1

	ADMIN_ROLE_KEY = "admin"

	ALL_PERMISSION = "*:*:*"
)

const (
	LANGUAGE_EN_KEY = "en"
	LANGUAGE_CN_KEY = "zh-CN"
)

// DateTime 以 2006-01-02 15:04:05 格式序列化, 零值对应数据库 NULL 和 json null
type DateTime struct {
	time.Time
}

func Now() DateTime {
	return DateTime{Time: time.Now()}
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t}
}

func (t DateTime) Ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format("2006-01-02 15:04:05") + `"`), nil
}

func (t *DateTime) UnmarshalJSON(raw []byte) error {
	s := strings.Trim(string(raw), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if v, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("invalid datetime %q", s)
}

func (t *DateTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v
	default:
		return fmt.Errorf("cannot scan %T into DateTime", value)
	}
	return nil
}

func (t DateTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Time, nil
}

func (t DateTime) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// AuditFields 创建/更新人与时间
type AuditFields struct {
	CreateBy   string   `json:"createBy" db:"create_by"`
	CreateTime DateTime `json:"createTime" db:"create_time"`
	UpdateBy   string   `json:"updateBy" db:"update_by"`
	UpdateTime DateTime `json:"updateTime" db:"update_time"`
	Remark     string   `json:"remark" db:"remark"`
}

func (a *AuditFields) Created(by string) {
	a.CreateBy = by
	a.CreateTime = Now()
}

func (a *AuditFields) Updated(by string) {
	a.UpdateBy = by
	a.UpdateTime = Now()
}

// BusinessType 操作日志业务类型
type BusinessType int

const (
	BUSINESS_OTHER BusinessType = iota
	BUSINESS_INSERT
	BUSINESS_UPDATE
	BUSINESS_DELETE
	BUSINESS_GRANT
	BUSINESS_EXPORT
	BUSINESS_IMPORT
	BUSINESS_FORCE
	BUSINESS_GENCODE
	BUSINESS_CLEAN
)
