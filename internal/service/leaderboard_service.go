package service

import (
	"context"
	"encoding/json"
	"fmt"
	"nudo_backend/internal/model"
	"nudo_backend/internal/util"
	"nudo_backend/pkg/logger"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	leaderboardLimit    = 50
	leaderboardCacheTTL = 30 * time.Second
)

type weeklyStatLister interface {
	FindByWeek(weekStart string) ([]model.WeeklyStat, error)
}

type userBatchFinder interface {
	FindByIDs(ids []uint) (map[uint]model.User, error)
}

type LeaderboardService struct {
	Stats        weeklyStatLister
	Users        userBatchFinder
	Cache        *redis.Client // 可为 nil
	Loc          *time.Location
	WeekStartsOn time.Weekday
}

func NewLeaderboardService(stats weeklyStatLister, users userBatchFinder, cache *redis.Client, loc *time.Location, weekStartsOn time.Weekday) *LeaderboardService {
	return &LeaderboardService{
		Stats:        stats,
		Users:        users,
		Cache:        cache,
		Loc:          loc,
		WeekStartsOn: weekStartsOn,
	}
}

type LeaderboardEntry struct {
	Rank        int            `json:"rank"`
	UserID      uint           `json:"userId"`
	DisplayName string         `json:"displayName"`
	Role        model.UserRole `json:"role"`
	Points      int            `json:"points"`
	Tier        string         `json:"tier"`
	Minutes     int            `json:"minutes"`

	computedAt time.Time
}

type LeaderboardResult struct {
	WeekStart string             `json:"weekStart"`
	Scope     string             `json:"scope"`
	Entries   []LeaderboardEntry `json:"entries"`
}

// Leaderboard 指定周的排行榜。weekStart 为空时取 now 所在周。
// 排序与并列名次规则固定，相同输入必然得到相同输出。
func (s *LeaderboardService) Leaderboard(weekStart string, scope model.LeaderboardScope, now time.Time) (*LeaderboardResult, error) {
	if weekStart == "" {
		weekStart = util.WeekStartKey(now, s.Loc, s.WeekStartsOn)
	}

	if cached := s.fromCache(weekStart, scope); cached != nil {
		return cached, nil
	}

	stats, err := s.Stats.FindByWeek(weekStart)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(stats))
	for _, st := range stats {
		ids = append(ids, st.UserID)
	}
	users, err := s.Users.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(stats))
	for _, st := range stats {
		user, ok := users[st.UserID]
		if !ok {
			// 用户已被删除的历史记录不参与排行
			continue
		}
		if scope != model.ScopeOverall && user.Role != model.UserRole(scope) {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UserID:      st.UserID,
			DisplayName: user.DisplayName,
			Role:        user.Role,
			Points:      st.Points,
			Tier:        st.Tier,
			Minutes:     st.Minutes,
			computedAt:  st.ComputedAt,
		})
	}

	entries = rankLeaderboard(entries, leaderboardLimit)

	result := &LeaderboardResult{
		WeekStart: weekStart,
		Scope:     string(scope),
		Entries:   entries,
	}
	s.toCache(weekStart, scope, result)
	return result, nil
}

// rankLeaderboard 排序、截断并赋名次。
// 排序键：积分降序 → 段位权重降序 → computedAt 升序（先达成者在前）。
// 名次采用并列计名（competition ranking）：同积分同名次，
// 下一个不同积分的名次等于其在截断后列表中的1-based位置。
// 段位与时间只影响展示顺序，不影响名次数字。
func rankLeaderboard(entries []LeaderboardEntry, limit int) []LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		pi, pj := TierPriority(entries[i].Tier), TierPriority(entries[j].Tier)
		if pi != pj {
			return pi > pj
		}
		return entries[i].computedAt.Before(entries[j].computedAt)
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	currentRank := 1
	for i := range entries {
		if i > 0 && entries[i-1].Points != entries[i].Points {
			currentRank = i + 1
		}
		entries[i].Rank = currentRank
	}
	return entries
}

func leaderboardCacheKey(weekStart string, scope model.LeaderboardScope) string {
	return fmt.Sprintf("leaderboard:%s:%s", weekStart, scope)
}

func (s *LeaderboardService) fromCache(weekStart string, scope model.LeaderboardScope) *LeaderboardResult {
	if s.Cache == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	raw, err := s.Cache.Get(ctx, leaderboardCacheKey(weekStart, scope)).Bytes()
	if err != nil {
		return nil
	}
	var result LeaderboardResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil
	}
	return &result
}

func (s *LeaderboardService) toCache(weekStart string, scope model.LeaderboardScope, result *LeaderboardResult) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Cache.Set(ctx, leaderboardCacheKey(weekStart, scope), raw, leaderboardCacheTTL).Err(); err != nil {
		logger.Log.Warn("leaderboard cache write failed", zap.String("weekStart", weekStart), zap.Error(err))
	}
}
