package repository

import (
	"nudo_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.Session) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id string) (*model.Session, error) {
	var session model.Session
	err := r.DB.Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CloseIfOpen 结束会话的条件更新，仅当 end_at 仍为空时生效。
// 返回 false 表示会话早已结束（或被并发的重复请求抢先结束），
// 此时记录未被改动，调用方应读取已存的结果。
func (r *SessionRepository) CloseIfOpen(id string, endAt time.Time, durationMin int) (bool, error) {
	res := r.DB.Model(&model.Session{}).
		Where("id = ? AND end_at IS NULL", id).
		Updates(map[string]interface{}{
			"end_at":       endAt,
			"duration_min": durationMin,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SumCompletedMinutes 统计窗口 [from, to) 内已结束会话的累计分钟数
func (r *SessionRepository) SumCompletedMinutes(userID uint, from, to time.Time) (int, error) {
	var total int64
	err := r.DB.Model(&model.Session{}).
		Select("COALESCE(SUM(duration_min), 0)").
		Where("user_id = ? AND end_at IS NOT NULL AND end_at >= ? AND end_at < ?", userID, from, to).
		Scan(&total).Error
	return int(total), err
}

// CountOpenByZone 各区域当前进行中的会话数
func (r *SessionRepository) CountOpenByZone() (map[uint]int, error) {
	var rows []struct {
		ZoneID uint
		Count  int
	}
	err := r.DB.Model(&model.Session{}).
		Select("zone_id, COUNT(*) as count").
		Where("end_at IS NULL").
		Group("zone_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int, len(rows))
	for _, row := range rows {
		counts[row.ZoneID] = row.Count
	}
	return counts, nil
}
