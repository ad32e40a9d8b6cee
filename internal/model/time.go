package model

import (
	"strings"
	"time"
)

// DateTimeLayout 是后台接口统一使用的时间格式。
const DateTimeLayout = "2006-01-02 15:04:05"

// DateTime 以 "YYYY-MM-DD HH:MM:SS"（本地时区）序列化，零值输出 null。
type DateTime time.Time

func (t DateTime) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + tt.In(time.Local).Format(DateTimeLayout) + `"`), nil
}

func (t *DateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*t = DateTime(time.Time{})
		return nil
	}
	parsed, err := time.ParseInLocation(DateTimeLayout, s, time.Local)
	if err != nil {
		return err
	}
	*t = DateTime(parsed)
	return nil
}

func (t DateTime) String() string {
	return time.Time(t).In(time.Local).Format(DateTimeLayout)
}
