package model

import (
	"time"
)

const SourceManual = "manual"

// Session 一次计时的自习记录。
// 不变式：EndAt 与 DurationMin 同时为空（进行中）或同时非空（已结束），
// 结束是一次性的状态迁移，之后记录不再变化。
// swagger:model Session
type Session struct {
	UUIDBase
	UserID      uint       `gorm:"index:idx_user_start;not null" json:"userId"`
	ZoneID      uint       `gorm:"index;not null" json:"zoneId"`
	StartAt     time.Time  `gorm:"index:idx_user_start;not null" json:"startAt"`
	EndAt       *time.Time `gorm:"index" json:"endAt,omitempty"`
	DurationMin *int       `json:"durationMin,omitempty"`
	Source      string     `gorm:"size:20;default:'manual'" json:"source"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) IsClosed() bool {
	return s.EndAt != nil
}
