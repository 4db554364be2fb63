package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// ParseDateOrTime 支持 2006-01-02 和 2006-01-02 15:04:05 两种格式, 第二个返回值表示是否只有日期
func ParseDateOrTime(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateTimeLayout, s, time.Local); err == nil {
		return t, false, nil
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("unsupported time format: %s", s)
}

func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// FormatMonthDayRange 03月01日 - 05月30日
func FormatMonthDayRange(st, et *time.Time) string {
	format := func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("01月02日")
	}
	return format(st) + " - " + format(et)
}

// FormatDuration 展示服务运行时长, 例如 1天2小时3分钟
func FormatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%d天%d小时%d分钟", days, hours, minutes)
}
