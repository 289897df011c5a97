package util

import "errors"

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailRegistered = errors.New("该邮箱已被注册")
	ErrZoneNotFound    = errors.New("学习区域不存在")
	ErrSessionNotFound = errors.New("学习会话不存在")
	ErrInvalidScope    = errors.New("无效的排行榜范围")
	ErrInvalidWeekKey  = errors.New("周键格式应为 YYYY-MM-DD")
)
