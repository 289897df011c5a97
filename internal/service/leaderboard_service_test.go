package service

import (
	"nudo_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatLister struct {
	stats []model.WeeklyStat
}

func (f *fakeStatLister) FindByWeek(weekStart string) ([]model.WeeklyStat, error) {
	return f.stats, nil
}

type fakeUserFinder struct {
	users map[uint]model.User
}

func (f *fakeUserFinder) FindByIDs(ids []uint) (map[uint]model.User, error) {
	return f.users, nil
}

func testUser(id uint, name string, role model.UserRole) model.User {
	return model.User{
		BaseModel:   model.BaseModel{ID: id},
		DisplayName: name,
		Role:        role,
	}
}

func leaderboardTestService(stats []model.WeeklyStat, users map[uint]model.User) *LeaderboardService {
	loc, _ := time.LoadLocation("America/Phoenix")
	return NewLeaderboardService(&fakeStatLister{stats: stats}, &fakeUserFinder{users: users}, nil, loc, time.Monday)
}

func TestRankLeaderboardOrderAndTies(t *testing.T) {
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	entries := []LeaderboardEntry{
		{UserID: 1, Points: 120, Tier: "silver", computedAt: base.Add(3 * time.Hour)},
		{UserID: 2, Points: 180, Tier: "gold", computedAt: base},
		// 3 和 4 同分同段位，3 先达成
		{UserID: 3, Points: 120, Tier: "silver", computedAt: base.Add(1 * time.Hour)},
		{UserID: 4, Points: 120, Tier: "silver", computedAt: base.Add(2 * time.Hour)},
		{UserID: 5, Points: 40, Tier: "base", computedAt: base},
	}

	ranked := rankLeaderboard(entries, 50)
	require.Len(t, ranked, 5)

	// 顺序：分数降序，同分按达成时间升序
	assert.Equal(t, uint(2), ranked[0].UserID)
	assert.Equal(t, uint(3), ranked[1].UserID)
	assert.Equal(t, uint(4), ranked[2].UserID)
	assert.Equal(t, uint(1), ranked[3].UserID)
	assert.Equal(t, uint(5), ranked[4].UserID)

	// 并列计名：1,2,2,2,5
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 2, ranked[2].Rank)
	assert.Equal(t, 2, ranked[3].Rank)
	assert.Equal(t, 5, ranked[4].Rank)
}

func TestRankLeaderboardTierBreaksTies(t *testing.T) {
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	// 同分不同段位：段位高的排前面，但名次数字相同
	entries := []LeaderboardEntry{
		{UserID: 1, Points: 155, Tier: "gold", computedAt: base.Add(time.Hour)},
		{UserID: 2, Points: 155, Tier: "silver", computedAt: base},
	}

	ranked := rankLeaderboard(entries, 50)
	assert.Equal(t, uint(1), ranked[0].UserID)
	assert.Equal(t, uint(2), ranked[1].UserID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 1, ranked[1].Rank)
}

func TestRankLeaderboardTruncates(t *testing.T) {
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	entries := make([]LeaderboardEntry, 0, 60)
	for i := 0; i < 60; i++ {
		entries = append(entries, LeaderboardEntry{
			UserID:     uint(i + 1),
			Points:     1000 - i,
			Tier:       "base",
			computedAt: base,
		})
	}

	ranked := rankLeaderboard(entries, 50)
	require.Len(t, ranked, 50)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 50, ranked[49].Rank)
}

func TestRankLeaderboardDeterministic(t *testing.T) {
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	build := func() []LeaderboardEntry {
		return []LeaderboardEntry{
			{UserID: 1, Points: 90, Tier: "bronze", computedAt: base.Add(2 * time.Hour)},
			{UserID: 2, Points: 90, Tier: "bronze", computedAt: base.Add(time.Hour)},
			{UserID: 3, Points: 130, Tier: "silver", computedAt: base},
			{UserID: 4, Points: 90, Tier: "bronze", computedAt: base.Add(3 * time.Hour)},
		}
	}

	first := rankLeaderboard(build(), 50)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, rankLeaderboard(build(), 50))
	}
}

func TestLeaderboardScopeFilter(t *testing.T) {
	computed := time.Date(2025, 9, 3, 20, 0, 0, 0, time.UTC)
	stats := []model.WeeklyStat{
		{UserID: 1, WeekStart: "2025-09-01", Minutes: 600, Points: 180, Tier: "gold", ComputedAt: computed},
		{UserID: 2, WeekStart: "2025-09-01", Minutes: 400, Points: 121, Tier: "silver", ComputedAt: computed},
		{UserID: 3, WeekStart: "2025-09-01", Minutes: 200, Points: 65, Tier: "bronze", ComputedAt: computed},
	}
	users := map[uint]model.User{
		1: testUser(1, "Ava", model.Member),
		2: testUser(2, "Casey", model.Pledge),
		3: testUser(3, "Dana", model.Pledge),
	}
	svc := leaderboardTestService(stats, users)
	now := time.Date(2025, 9, 4, 12, 0, 0, 0, svc.Loc)

	overall, err := svc.Leaderboard("2025-09-01", model.ScopeOverall, now)
	require.NoError(t, err)
	assert.Len(t, overall.Entries, 3)

	pledge, err := svc.Leaderboard("2025-09-01", model.ScopePledge, now)
	require.NoError(t, err)
	require.Len(t, pledge.Entries, 2)
	assert.Equal(t, uint(2), pledge.Entries[0].UserID)
	assert.Equal(t, 1, pledge.Entries[0].Rank)
	assert.Equal(t, uint(3), pledge.Entries[1].UserID)
	assert.Equal(t, 2, pledge.Entries[1].Rank)

	member, err := svc.Leaderboard("2025-09-01", model.ScopeMember, now)
	require.NoError(t, err)
	require.Len(t, member.Entries, 1)
	assert.Equal(t, uint(1), member.Entries[0].UserID)
}

func TestLeaderboardDefaultsToCurrentWeek(t *testing.T) {
	svc := leaderboardTestService(nil, map[uint]model.User{})

	now := time.Date(2025, 9, 4, 12, 0, 0, 0, svc.Loc) // 周四
	result, err := svc.Leaderboard("", model.ScopeOverall, now)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-01", result.WeekStart)
	assert.Empty(t, result.Entries)
}

func TestLeaderboardSkipsDeletedUsers(t *testing.T) {
	computed := time.Date(2025, 9, 3, 20, 0, 0, 0, time.UTC)
	stats := []model.WeeklyStat{
		{UserID: 1, WeekStart: "2025-09-01", Minutes: 600, Points: 180, Tier: "gold", ComputedAt: computed},
		{UserID: 99, WeekStart: "2025-09-01", Minutes: 500, Points: 150, Tier: "silver", ComputedAt: computed},
	}
	users := map[uint]model.User{
		1: testUser(1, "Ava", model.Member),
		// 99 已被删除，批量查询不返回
	}
	svc := leaderboardTestService(stats, users)

	result, err := svc.Leaderboard("2025-09-01", model.ScopeOverall, time.Now())
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, uint(1), result.Entries[0].UserID)
}
