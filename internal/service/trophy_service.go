package service

import (
	"math"
	"nudo_backend/internal/config"
	"nudo_backend/internal/model"
	"nudo_backend/internal/util"
	"time"
)

// -------- 奖杯之路 --------
//
// 四个固定段位，分钟区间连续不重叠，各自有里程碑间隔：
//   I   [0, 1800)      每 120 分钟，共 15 个
//   II  [1800, 4200)   每 240 分钟，共 10 个
//   III [4200, 7800)   每 360 分钟，共 10 个
//   IV  [7800, 12000]  每 480 分钟
// 里程碑序号跨段位累计，输入先钳制到 12000。

type trophyTier struct {
	Name        string
	MinMinutes  int
	MaxMinutes  int
	Interval    int
	priorCount  int // 之前所有段位的里程碑总数
}

var trophyTiers = []trophyTier{
	{Name: "I", MinMinutes: 0, MaxMinutes: 1800, Interval: 120, priorCount: 0},
	{Name: "II", MinMinutes: 1800, MaxMinutes: 4200, Interval: 240, priorCount: 15},
	{Name: "III", MinMinutes: 4200, MaxMinutes: 7800, Interval: 360, priorCount: 25},
	{Name: "IV", MinMinutes: 7800, MaxMinutes: 12000, Interval: 480, priorCount: 35},
}

const trophyMaxMinutes = 12000

// MilestoneInfo 段位与里程碑位置
type MilestoneInfo struct {
	CurrentTier          string `json:"currentTier"`
	TierStartMinutes     int    `json:"tierStartMinutes"`
	NextTierMinutes      *int   `json:"nextTierMinutes"` // 顶级段位时为 null
	CurrentMilestone     int    `json:"currentMilestone"`
	NextMilestoneMinutes int    `json:"nextMilestoneMinutes"`
	ProgressInTier       int    `json:"progressInTier"`
	MilestonesInTier     int    `json:"milestonesInTier"`
	MilestoneIndexInTier int    `json:"milestoneIndexInTier"`
}

// calculateMilestone 由窗口内累计分钟数推导段位/里程碑，纯函数
func calculateMilestone(totalMinutes int) MilestoneInfo {
	capped := totalMinutes
	if capped > trophyMaxMinutes {
		capped = trophyMaxMinutes
	}
	if capped < 0 {
		capped = 0
	}

	tier := trophyTiers[len(trophyTiers)-1]
	for _, t := range trophyTiers[:len(trophyTiers)-1] {
		if capped < t.MaxMinutes {
			tier = t
			break
		}
	}

	progressInTier := capped - tier.MinMinutes
	completedInTier := progressInTier / tier.Interval

	nextMilestone := tier.MinMinutes + (completedInTier+1)*tier.Interval
	if nextMilestone > trophyMaxMinutes {
		nextMilestone = trophyMaxMinutes
	}

	var nextTier *int
	if tier.Name != "IV" {
		max := tier.MaxMinutes
		nextTier = &max
	}

	return MilestoneInfo{
		CurrentTier:          tier.Name,
		TierStartMinutes:     tier.MinMinutes,
		NextTierMinutes:      nextTier,
		CurrentMilestone:     tier.priorCount + completedInTier,
		NextMilestoneMinutes: nextMilestone,
		ProgressInTier:       progressInTier,
		MilestonesInTier:     (tier.MaxMinutes - tier.MinMinutes) / tier.Interval,
		MilestoneIndexInTier: completedInTier,
	}
}

type completedMinutesSummer interface {
	SumCompletedMinutes(userID uint, from, to time.Time) (int, error)
	CountOpenByZone() (map[uint]int, error)
}

type activeZoneLister interface {
	FindActive() ([]model.Zone, error)
}

type TrophyService struct {
	Sessions completedMinutesSummer
	Zones    activeZoneLister
	Windows  []config.AcademicWindow
	Loc      *time.Location
}

func NewTrophyService(sessions completedMinutesSummer, zones activeZoneLister, windows []config.AcademicWindow, loc *time.Location) *TrophyService {
	return &TrophyService{
		Sessions: sessions,
		Zones:    zones,
		Windows:  windows,
		Loc:      loc,
	}
}

type TrophyProgress struct {
	UserID         uint                   `json:"userId"`
	AcademicWindow *config.AcademicWindow `json:"academicWindow"` // 窗口外为 null
	TotalMinutes   int                    `json:"totalMinutes"`
	TotalHours     float64                `json:"totalHours"`
	MilestoneInfo
}

// Progress 用户在当前学期窗口内的奖杯之路进度。
// now 不在任何窗口内时直接返回一段位零进度，不查询累计分钟
// （窗口决定分钟是否计入，而不只是展示口径）。
func (s *TrophyService) Progress(userID uint, now time.Time) (*TrophyProgress, error) {
	window := s.currentWindow(now)
	if window == nil {
		return &TrophyProgress{
			UserID:        userID,
			MilestoneInfo: calculateMilestone(0),
		}, nil
	}

	from, to := s.windowBounds(window)
	totalMinutes, err := s.Sessions.SumCompletedMinutes(userID, from, to)
	if err != nil {
		return nil, err
	}

	return &TrophyProgress{
		UserID:         userID,
		AcademicWindow: window,
		TotalMinutes:   totalMinutes,
		TotalHours:     math.Floor(float64(totalMinutes)/60*10) / 10, // 保留一位小数
		MilestoneInfo:  calculateMilestone(totalMinutes),
	}, nil
}

// currentWindow now 所在的学期窗口，比较用时区内的自然日
func (s *TrophyService) currentWindow(now time.Time) *config.AcademicWindow {
	today := now.In(s.Loc).Format(util.DateFormat)
	for i := range s.Windows {
		w := s.Windows[i]
		if today >= w.Start && today <= w.End {
			return &w
		}
	}
	return nil
}

// windowBounds 闭区间 [start, end] 换算为查询区间 [start 00:00, end 次日 00:00)
func (s *TrophyService) windowBounds(w *config.AcademicWindow) (time.Time, time.Time) {
	from, _ := time.ParseInLocation(util.DateFormat, w.Start, s.Loc)
	endDay, _ := time.ParseInLocation(util.DateFormat, w.End, s.Loc)
	return from, endDay.AddDate(0, 0, 1)
}

type ZoneOccupancy struct {
	ZoneID      uint   `json:"zoneId"`
	ZoneName    string `json:"zoneName"`
	ActiveUsers int    `json:"activeUsers"`
	IsActive    bool   `json:"isActive"`
}

type OccupancyResult struct {
	Timestamp           time.Time       `json:"timestamp"`
	Zones               []ZoneOccupancy `json:"zones"`
	TotalActiveSessions int             `json:"totalActiveSessions"`
}

// Occupancy 各活跃区域当前进行中的会话数，供地图页展示热度
func (s *TrophyService) Occupancy(now time.Time) (*OccupancyResult, error) {
	zones, err := s.Zones.FindActive()
	if err != nil {
		return nil, err
	}

	counts, err := s.Sessions.CountOpenByZone()
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	result := &OccupancyResult{
		Timestamp:           now,
		Zones:               make([]ZoneOccupancy, 0, len(zones)),
		TotalActiveSessions: total,
	}
	for _, z := range zones {
		result.Zones = append(result.Zones, ZoneOccupancy{
			ZoneID:      z.ID,
			ZoneName:    z.Name,
			ActiveUsers: counts[z.ID],
			IsActive:    z.IsActive,
		})
	}
	return result, nil
}
