package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func phoenix(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Phoenix")
	require.NoError(t, err)
	return loc
}

func TestWeekStartKey(t *testing.T) {
	loc := phoenix(t)

	tests := []struct {
		name         string
		input        time.Time
		weekStartsOn time.Weekday
		want         string
	}{
		{
			name:         "周三映射到周一",
			input:        time.Date(2025, 3, 12, 14, 30, 0, 0, loc),
			weekStartsOn: time.Monday,
			want:         "2025-03-10",
		},
		{
			name:         "周一当天零点映射到自身",
			input:        time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
			weekStartsOn: time.Monday,
			want:         "2025-03-10",
		},
		{
			name:         "周日属于上一个周一开始的周",
			input:        time.Date(2025, 3, 16, 23, 59, 59, 0, loc),
			weekStartsOn: time.Monday,
			want:         "2025-03-10",
		},
		{
			name:         "周起始日为周日",
			input:        time.Date(2025, 3, 12, 14, 30, 0, 0, loc),
			weekStartsOn: time.Sunday,
			want:         "2025-03-09",
		},
		{
			name:         "跨月回退",
			input:        time.Date(2025, 5, 1, 8, 0, 0, 0, loc),
			weekStartsOn: time.Monday,
			want:         "2025-04-28",
		},
		{
			name:         "跨年回退",
			input:        time.Date(2026, 1, 1, 8, 0, 0, 0, loc),
			weekStartsOn: time.Monday,
			want:         "2025-12-29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStartKey(tt.input, loc, tt.weekStartsOn))
		})
	}
}

// 美东夏令时切换发生在 2025-03-09，亚利桑那不观察夏令时，
// 但输入时间带别的时区偏移时仍必须落到同一个周键
func TestWeekStartKeyStableAcrossDSTWeek(t *testing.T) {
	loc := phoenix(t)
	eastern, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 同一自然周内的各时间点，包括UTC与美东表示
	instants := []time.Time{
		time.Date(2025, 3, 10, 0, 0, 0, 0, loc),
		time.Date(2025, 3, 12, 23, 0, 0, 0, loc),
		time.Date(2025, 3, 13, 6, 0, 0, 0, time.UTC),  // 周三晚上的凤凰城时间
		time.Date(2025, 3, 15, 12, 0, 0, 0, eastern),
		time.Date(2025, 3, 16, 23, 30, 0, 0, loc),
	}

	for _, instant := range instants {
		assert.Equal(t, "2025-03-10", WeekStartKey(instant, loc, time.Monday),
			"instant %s", instant)
	}
}

func TestWeekStartKeyIdempotent(t *testing.T) {
	loc := phoenix(t)
	input := time.Date(2025, 9, 4, 19, 45, 0, 0, loc)

	first := WeekStartKey(input, loc, time.Monday)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, WeekStartKey(input, loc, time.Monday))
	}

	// 周键自身再求周键不变（周起始日零点是不动点）
	start, err := time.ParseInLocation(DateFormat, first, loc)
	require.NoError(t, err)
	assert.Equal(t, first, WeekStartKey(start, loc, time.Monday))
}

func TestIsWeekKey(t *testing.T) {
	assert.True(t, IsWeekKey("2025-03-10"))
	assert.True(t, IsWeekKey("2026-12-28"))
	assert.False(t, IsWeekKey(""))
	assert.False(t, IsWeekKey("2025-3-10"))
	assert.False(t, IsWeekKey("2025-03-10T00:00:00Z"))
	assert.False(t, IsWeekKey("not-a-date"))
}

func TestParseWeekStartsOn(t *testing.T) {
	assert.Equal(t, time.Sunday, ParseWeekStartsOn("sunday"))
	assert.Equal(t, time.Monday, ParseWeekStartsOn("monday"))
	assert.Equal(t, time.Monday, ParseWeekStartsOn(""))
	assert.Equal(t, time.Monday, ParseWeekStartsOn("wednesday"))
}
