package service

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasePoints(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		want    int
	}{
		{"零分钟", 0, 0},
		{"不足一个计分单位", 4, 0},
		{"整单位", 300, 60},
		{"向下取整", 304, 60},
		{"达到上限", 1080, 216},
		{"超过上限后封顶", 2000, 216},
		{"负值归零", -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BasePoints(tt.minutes))
		})
	}
}

func TestTotalPoints(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		streak  int
		want    int
	}{
		// 6小时 = 360分钟：72 基础分 + 25 奖励 = 97
		{"六小时阈值奖励", 360, 0, 97},
		// 359分钟不触发阈值
		{"阈值以下无奖励", 355, 0, 71},
		// 8小时：96 + 25 + 15 = 136
		{"八小时叠加奖励", 480, 0, 136},
		// 10小时：120 + 25 + 15 + 20 = 180
		{"十小时叠加奖励", 600, 0, 180},
		// 12小时：144 + 25 + 15 + 20 + 25 = 229
		{"十二小时全部奖励", 720, 0, 229},
		// 封顶 18 小时：216 + 85 = 301
		{"上限分钟数全奖励", 1080, 0, 301},
		// 超过上限：基础分封顶但小时奖励仍按实际时长（全部命中），与1080一致
		{"超上限与上限同分", 1500, 0, 301},
		// 乘数：97 * 1.1 = 106.7 → 106
		{"连续两周乘数", 360, 2, 106},
		// 乘数封顶 1.25：97 * 1.25 = 121.25 → 121
		{"乘数封顶", 360, 10, 121},
		{"乘数封顶边界五周", 360, 5, 121},
		{"零分钟带乘数仍为零", 0, 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPoints(tt.minutes, tt.streak))
		})
	}
}

func TestTotalPointsMonotonic(t *testing.T) {
	// 分钟数增加时积分不应减少
	prev := 0
	for minutes := 0; minutes <= 1200; minutes += 5 {
		got := TotalPoints(minutes, 3)
		assert.GreaterOrEqual(t, got, prev, "minutes=%d", minutes)
		prev = got
	}
}

func TestTierOf(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, "base"},
		{50, "base"},
		{51, "bronze"},
		{100, "bronze"},
		{101, "silver"},
		{150, "silver"},
		{151, "gold"},
		{175, "gold"},
		{200, "gold"},
		{201, "platinum"},
		{400, "platinum"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierOf(tt.points), "points=%d", tt.points)
	}
}

func TestTierPriorityOrdering(t *testing.T) {
	order := []string{"base", "bronze", "silver", "gold", "platinum"}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, TierPriority(order[i]), TierPriority(order[i-1]))
	}
	// 未知段位按最低权重处理
	assert.Equal(t, TierPriority("base"), TierPriority("unknown"))
}

func TestSetWeeklyCap(t *testing.T) {
	original := WeeklyCapMinutes()
	defer SetWeeklyCap(original)

	SetWeeklyCap(600)
	assert.Equal(t, 600, WeeklyCapMinutes())
	assert.Equal(t, 120, BasePoints(900))

	// 非正值忽略
	SetWeeklyCap(0)
	assert.Equal(t, 600, WeeklyCapMinutes())
	SetWeeklyCap(-5)
	assert.Equal(t, 600, WeeklyCapMinutes())
}

// 配置热加载会在请求处理期间改写周上限，计分路径必须能安全并发读（go test -race）
func TestSetWeeklyCapConcurrentWithScoring(t *testing.T) {
	original := WeeklyCapMinutes()
	defer SetWeeklyCap(original)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		caps := []int{600, 1080}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
				SetWeeklyCap(caps[i%len(caps)])
			}
		}
	}()

	for i := 0; i < 1000; i++ {
		// 2000 分钟总会被封顶，结果只能对应两个上限之一
		got := BasePoints(2000)
		assert.Contains(t, []int{120, 216}, got)
	}

	close(stop)
	wg.Wait()
}
