package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"nudo_backend/internal/model"
	"nudo_backend/internal/repository"
	"nudo_backend/internal/util"
	"path/filepath"
	"strings"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
	Storage  *StorageService
}

func NewUserService(userRepo *repository.UserRepository, storage *StorageService) *UserService {
	return &UserService{UserRepo: userRepo, Storage: storage}
}

// HashDeviceID 设备标识的确定性摘要，按唯一索引等值查找，不存原文
func HashDeviceID(deviceID string) string {
	sum := sha256.Sum256([]byte(deviceID))
	return hex.EncodeToString(sum[:])
}

// Register 注册用户。设备标识已存在时直接返回既有用户（客户端重装场景）。
func (s *UserService) Register(displayName, email, deviceID string, role model.UserRole) (*model.User, error) {
	if role == "" {
		role = model.Member
	}

	var deviceHash string
	if deviceID != "" {
		deviceHash = HashDeviceID(deviceID)
		if existing, err := s.UserRepo.FindByDeviceHash(deviceHash); err != nil {
			return nil, err
		} else if existing != nil {
			return existing, nil
		}
	}

	if _, err := s.UserRepo.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{
		DisplayName:  displayName,
		Email:        email,
		Role:         role,
		DeviceIDHash: deviceHash,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SetStreak 写入外部结算任务算出的连续周数
func (s *UserService) SetStreak(userID uint, streakWeeks int) error {
	if _, err := s.GetUser(userID); err != nil {
		return err
	}
	if streakWeeks < 0 {
		streakWeeks = 0
	}
	return s.UserRepo.UpdateStreak(userID, streakWeeks)
}

// UploadAvatar 上传头像并更新用户的 avatarKey
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	allowed := false
	for _, e := range util.AllowedAvatarExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", fmt.Errorf("unsupported avatar format: %s", ext)
	}

	key := fmt.Sprintf("avatars/%d%s", user.ID, ext)
	if _, err := s.Storage.Upload(ctx, key, reader, size, contentType); err != nil {
		return "", err
	}

	if err := s.UserRepo.UpdateAvatar(user.ID, key); err != nil {
		return "", err
	}
	return s.Storage.GetURL(key), nil
}
