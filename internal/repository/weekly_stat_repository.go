package repository

import (
	"errors"
	"nudo_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeeklyStatRepository struct {
	DB *gorm.DB
}

func NewWeeklyStatRepository(db *gorm.DB) *WeeklyStatRepository {
	return &WeeklyStatRepository{DB: db}
}

// IncrementOrCreate 周累计的原子 upsert。
// 首次写入时创建记录，已存在时在数据库端做 minutes 自增
// （ON DUPLICATE KEY UPDATE，不是应用层的先读后写），
// 然后在同一事务内回读自增后的总量并用 recompute 重算积分与段位。
// recompute 接收累加后的周分钟数，返回 (points, tier)。
func (r *WeeklyStatRepository) IncrementOrCreate(userID uint, weekStart string, minutesToAdd int, computedAt time.Time, recompute func(totalMinutes int) (int, string)) (*model.WeeklyStat, error) {
	var stat model.WeeklyStat

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		points, tier := recompute(minutesToAdd)
		row := model.WeeklyStat{
			UserID:     userID,
			WeekStart:  weekStart,
			Minutes:    minutesToAdd,
			Points:     points,
			Tier:       tier,
			ComputedAt: computedAt,
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"minutes":     gorm.Expr("minutes + ?", minutesToAdd),
				"computed_at": computedAt,
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND week_start = ?", userID, weekStart).
			First(&stat).Error; err != nil {
			return err
		}

		points, tier = recompute(stat.Minutes)
		stat.Points = points
		stat.Tier = tier
		return tx.Model(&model.WeeklyStat{}).
			Where("id = ?", stat.ID).
			Updates(map[string]interface{}{"points": points, "tier": tier}).Error
	})
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// FindByUserAndWeek 无记录时返回 (nil, nil)，调用方按零值处理
func (r *WeeklyStatRepository) FindByUserAndWeek(userID uint, weekStart string) (*model.WeeklyStat, error) {
	var stat model.WeeklyStat
	err := r.DB.Where("user_id = ? AND week_start = ?", userID, weekStart).First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *WeeklyStatRepository) FindByWeek(weekStart string) ([]model.WeeklyStat, error) {
	var stats []model.WeeklyStat
	err := r.DB.Where("week_start = ?", weekStart).Find(&stats).Error
	return stats, err
}
