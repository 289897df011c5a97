package model

import (
	"time"
)

// WeeklyStat 每用户每自然周的累计数据，周键为该周第一天的 YYYY-MM-DD。
// (user_id, week_start) 唯一约束由数据库保证，累加走原子 upsert。
// swagger:model WeeklyStat
type WeeklyStat struct {
	BaseModel
	UserID     uint      `gorm:"uniqueIndex:idx_user_week;not null" json:"userId"`
	WeekStart  string    `gorm:"size:10;uniqueIndex:idx_user_week;not null" json:"weekStart"`
	Minutes    int       `gorm:"default:0" json:"minutes"`
	Points     int       `gorm:"default:0" json:"points"`
	Tier       string    `gorm:"size:20;default:'base'" json:"tier"` // 由积分推导的展示标签
	ComputedAt time.Time `json:"computedAt"`
}

func (WeeklyStat) TableName() string {
	return "weekly_stats"
}
