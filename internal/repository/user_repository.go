package repository

import (
	"errors"
	"nudo_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDs 排行榜拼接用户信息时批量查询，返回以ID为键的映射
func (r *UserRepository) FindByIDs(ids []uint) (map[uint]model.User, error) {
	users := make(map[uint]model.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var list []model.User
	if err := r.DB.Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	for _, u := range list {
		users[u.ID] = u
	}
	return users, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByDeviceHash 无记录时返回 (nil, nil)
func (r *UserRepository) FindByDeviceHash(hash string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("device_id_hash = ?", hash).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateStreak 连续周数由外部结算任务写入，这里只做覆盖
func (r *UserRepository) UpdateStreak(userID uint, streakWeeks int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("streak_weeks", streakWeeks).
		Error
}

func (r *UserRepository) UpdateAvatar(userID uint, avatarKey string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("avatar_key", avatarKey).
		Error
}
