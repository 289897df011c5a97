package service

import (
	"math"
	"sync/atomic"
)

// -------- 周积分规则 --------
//
// basePoints = floor(min(weeklyMinutes, cap) / 5)，封顶防止无上限刷分。
// 小时阈值奖励全部叠加（非互斥）：>=6h +25, >=8h +15, >=10h +20, >=12h +25。
// 连续周数乘数 = min(1 + 0.05*streakWeeks, 1.25)，作用于含奖励的总和后向下取整。

// 每周计分分钟上限。配置热加载会在请求处理期间改写它，读写都走原子操作
var weeklyCapMinutes atomic.Int64

func init() {
	weeklyCapMinutes.Store(18 * 60)
}

const (
	minutesPerPoint = 5
	maxStreakBonus  = 1.25
)

// SetWeeklyCap 根据配置覆盖周上限，非正值忽略
func SetWeeklyCap(minutes int) {
	if minutes > 0 {
		weeklyCapMinutes.Store(int64(minutes))
	}
}

func WeeklyCapMinutes() int {
	return int(weeklyCapMinutes.Load())
}

func BasePoints(weeklyMinutes int) int {
	capped := weeklyMinutes
	if max := WeeklyCapMinutes(); capped > max {
		capped = max
	}
	if capped < 0 {
		capped = 0
	}
	return capped / minutesPerPoint
}

func TotalPoints(weeklyMinutes, streakWeeks int) int {
	points := BasePoints(weeklyMinutes)

	hours := float64(weeklyMinutes) / 60
	if hours >= 6 {
		points += 25
	}
	if hours >= 8 {
		points += 15
	}
	if hours >= 10 {
		points += 20
	}
	if hours >= 12 {
		points += 25
	}

	multiplier := math.Min(1+0.05*float64(streakWeeks), maxStreakBonus)
	return int(math.Floor(float64(points) * multiplier))
}

// TierOf 积分到段位标签，仅作展示缓存，积分变化时重算
func TierOf(points int) string {
	switch {
	case points >= 201:
		return "platinum"
	case points >= 151:
		return "gold"
	case points >= 101:
		return "silver"
	case points >= 51:
		return "bronze"
	default:
		return "base"
	}
}

// TierPriority 排行榜同分时的段位排序权重
func TierPriority(tier string) int {
	switch tier {
	case "platinum":
		return 5
	case "gold":
		return 4
	case "silver":
		return 3
	case "bronze":
		return 2
	default:
		return 1
	}
}
