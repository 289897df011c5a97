package controller

import (
	"errors"
	"nudo_backend/internal/service"
	"nudo_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// @Summary 开始自习会话
// @Description 在指定区域开启一次计时会话,区域进出由客户端判定
// @Tags 会话
// @Accept json
// @Produce json
// @Param body body object true "userId 与 zoneId"
// @Success 200 {object} util.Response
// @Router /api/sessions/start [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	var req struct {
		UserID uint `json:"userId"`
		ZoneID uint `json:"zoneId"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil || req.UserID == 0 || req.ZoneID == 0 {
		util.BadRequest(ctx, "missing_fields")
		return
	}

	session, err := c.SessionService.Start(req.UserID, req.ZoneID, time.Now())
	if err != nil {
		if errors.Is(err, util.ErrZoneNotFound) {
			util.NotFound(ctx, "zone_not_found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"sessionId": session.ID,
		"startAt":   session.StartAt,
	})
}

// @Summary 结束自习会话
// @Description 结束计时并累计到本周,重复调用幂等返回首次结束的结果
// @Tags 会话
// @Accept json
// @Produce json
// @Param body body object true "sessionId"
// @Success 200 {object} util.Response
// @Router /api/sessions/stop [post]
func (c *SessionController) StopSession(ctx *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		util.BadRequest(ctx, "missing_sessionId")
		return
	}

	result, err := c.SessionService.Stop(req.SessionID, time.Now())
	if err != nil {
		if errors.Is(err, util.ErrSessionNotFound) {
			util.NotFound(ctx, "session_not_found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 本周累计时长
// @Description 查询用户当前自然周的累计分钟/积分/段位
// @Tags 会话
// @Produce json
// @Param userId query int true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/sessions/weekly [get]
func (c *SessionController) GetWeeklyStats(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Query("userId"))
	if userID == 0 {
		util.BadRequest(ctx, "missing_fields")
		return
	}

	result, err := c.SessionService.WeeklyStats(userID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
