package util

import (
	"regexp"
	"time"
)

var weekKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsWeekKey 校验外部传入的周键格式（YYYY-MM-DD）
func IsWeekKey(s string) bool {
	return weekKeyPattern.MatchString(s)
}

// WeekStartKey 把一个时间点映射为所在自然周第一天的 YYYY-MM-DD。
// 先换算到固定时区的墙上时间再回退到周起始日，因此同一周内的任意时间点
// （包括跨夏令时切换的那一周）都得到同一个键。
func WeekStartKey(t time.Time, loc *time.Location, weekStartsOn time.Weekday) string {
	local := t.In(loc)
	daysBack := (int(local.Weekday()) - int(weekStartsOn) + 7) % 7
	year, month, day := local.Date()
	start := time.Date(year, month, day-daysBack, 0, 0, 0, 0, loc)
	return start.Format(DateFormat)
}

// ParseWeekStartsOn 配置取值 monday / sunday，其他取值属于配置错误，按 monday 处理
func ParseWeekStartsOn(s string) time.Weekday {
	if s == "sunday" {
		return time.Sunday
	}
	return time.Monday
}
