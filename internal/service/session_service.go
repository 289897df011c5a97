package service

import (
	"context"
	"errors"
	"math"
	"nudo_backend/internal/model"
	"nudo_backend/internal/util"
	"nudo_backend/pkg/logger"
	"nudo_backend/pkg/monitoring"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 会话与周累计依赖的存储能力，由 repository 层实现
type sessionStore interface {
	Create(session *model.Session) error
	FindByID(id string) (*model.Session, error)
	CloseIfOpen(id string, endAt time.Time, durationMin int) (bool, error)
}

type zoneFinder interface {
	FindByID(id uint) (*model.Zone, error)
}

type userFinder interface {
	FindByID(id uint) (*model.User, error)
}

type weeklyStatStore interface {
	IncrementOrCreate(userID uint, weekStart string, minutesToAdd int, computedAt time.Time, recompute func(totalMinutes int) (int, string)) (*model.WeeklyStat, error)
	FindByUserAndWeek(userID uint, weekStart string) (*model.WeeklyStat, error)
}

type SessionService struct {
	Sessions     sessionStore
	Zones        zoneFinder
	Users        userFinder
	Stats        weeklyStatStore
	Cache        *redis.Client // 可为 nil，仅用于排行榜缓存失效
	Loc          *time.Location
	WeekStartsOn time.Weekday
}

func NewSessionService(sessions sessionStore, zones zoneFinder, users userFinder, stats weeklyStatStore, cache *redis.Client, loc *time.Location, weekStartsOn time.Weekday) *SessionService {
	return &SessionService{
		Sessions:     sessions,
		Zones:        zones,
		Users:        users,
		Stats:        stats,
		Cache:        cache,
		Loc:          loc,
		WeekStartsOn: weekStartsOn,
	}
}

// StopResult 结束会话的返回值。StoppedAlready 表示本次调用没有改动任何状态，
// durationMin/endAt 是首次结束时存下的值。
type StopResult struct {
	SessionID       string    `json:"sessionId"`
	DurationMin     int       `json:"durationMin"`
	EndAt           time.Time `json:"endAt"`
	MinutesThisWeek int       `json:"minutesThisWeek"`
	WeekStart       string    `json:"weekStart"`
	StoppedAlready  bool      `json:"stoppedAlready"`
}

type WeeklyStatsResult struct {
	UserID    uint   `json:"userId"`
	WeekStart string `json:"weekStart"`
	Minutes   int    `json:"minutes"`
	Points    int    `json:"points"`
	Tier      string `json:"tier"`
}

// Start 开始一次自习会话，zoneId 必须指向存在的区域
func (s *SessionService) Start(userID, zoneID uint, now time.Time) (*model.Session, error) {
	if _, err := s.Zones.FindByID(zoneID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrZoneNotFound
		}
		return nil, err
	}

	session := &model.Session{
		UserID:  userID,
		ZoneID:  zoneID,
		StartAt: now,
		Source:  model.SourceManual,
	}
	if err := s.Sessions.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Stop 结束会话并触发周累计。幂等：已结束的会话重复调用只读取存量结果。
// 周累计失败时会话的结束仍然成立，返回 minutesThisWeek=0 的降级结果，
// 不一致的记录靠日志与指标暴露给离线对账。
func (s *SessionService) Stop(sessionID string, now time.Time) (*StopResult, error) {
	session, err := s.Sessions.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}

	if session.IsClosed() {
		return s.alreadyStopped(session), nil
	}

	durationMin := durationMinutes(session.StartAt, now)
	closed, err := s.Sessions.CloseIfOpen(session.ID, now, durationMin)
	if err != nil {
		return nil, err
	}
	if !closed {
		// 并发的重复请求抢先完成了结束，回读存量结果
		session, err = s.Sessions.FindByID(sessionID)
		if err != nil {
			return nil, err
		}
		return s.alreadyStopped(session), nil
	}

	monitoring.SessionsClosed.Inc()

	weekStart := util.WeekStartKey(now, s.Loc, s.WeekStartsOn)
	result := &StopResult{
		SessionID:   session.ID,
		DurationMin: durationMin,
		EndAt:       now,
		WeekStart:   weekStart,
	}

	streakWeeks := 0
	if user, err := s.Users.FindByID(session.UserID); err == nil {
		streakWeeks = user.StreakWeeks
	}

	stat, err := s.Stats.IncrementOrCreate(session.UserID, weekStart, durationMin, now, func(totalMinutes int) (int, string) {
		points := TotalPoints(totalMinutes, streakWeeks)
		return points, TierOf(points)
	})
	if err != nil {
		monitoring.AggregationFailures.Inc()
		logger.Log.Error("weekly stat aggregation failed after session close",
			zap.String("sessionId", session.ID),
			zap.Uint("userId", session.UserID),
			zap.String("weekStart", weekStart),
			zap.Int("durationMin", durationMin),
			zap.Error(err))
		return result, nil
	}

	result.MinutesThisWeek = stat.Minutes
	s.invalidateLeaderboard(weekStart)
	return result, nil
}

// WeeklyStats 查询 at 所在周的累计数据，无记录时返回零值
func (s *SessionService) WeeklyStats(userID uint, at time.Time) (*WeeklyStatsResult, error) {
	weekStart := util.WeekStartKey(at, s.Loc, s.WeekStartsOn)
	result := &WeeklyStatsResult{
		UserID:    userID,
		WeekStart: weekStart,
		Tier:      "base",
	}

	stat, err := s.Stats.FindByUserAndWeek(userID, weekStart)
	if err != nil {
		return nil, err
	}
	if stat != nil {
		result.Minutes = stat.Minutes
		result.Points = stat.Points
		result.Tier = stat.Tier
	}
	return result, nil
}

func (s *SessionService) alreadyStopped(session *model.Session) *StopResult {
	weekStart := util.WeekStartKey(*session.EndAt, s.Loc, s.WeekStartsOn)
	result := &StopResult{
		SessionID:      session.ID,
		DurationMin:    *session.DurationMin,
		EndAt:          *session.EndAt,
		WeekStart:      weekStart,
		StoppedAlready: true,
	}
	if stat, err := s.Stats.FindByUserAndWeek(session.UserID, weekStart); err == nil && stat != nil {
		result.MinutesThisWeek = stat.Minutes
	}
	return result
}

func (s *SessionService) invalidateLeaderboard(weekStart string) {
	if s.Cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	keys := []string{
		leaderboardCacheKey(weekStart, model.ScopeOverall),
		leaderboardCacheKey(weekStart, model.ScopePledge),
		leaderboardCacheKey(weekStart, model.ScopeMember),
	}
	if err := s.Cache.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("leaderboard cache invalidation failed", zap.String("weekStart", weekStart), zap.Error(err))
	}
}

// durationMinutes 会话时长取整到分钟，时钟回拨导致的负值归零
func durationMinutes(start, end time.Time) int {
	minutes := int(math.Round(end.Sub(start).Minutes()))
	if minutes < 0 {
		return 0
	}
	return minutes
}
