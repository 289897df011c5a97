package controller

import (
	"nudo_backend/internal/model"
	"nudo_backend/internal/service"
	"nudo_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// @Summary 周排行榜
// @Description 指定周的前50名,同积分并列计名
// @Tags 排行榜
// @Produce json
// @Param week query string false "周键 YYYY-MM-DD,缺省为当前周"
// @Param scope query string false "overall / pledge / member"
// @Success 200 {object} util.Response
// @Router /api/leaderboard [get]
func (c *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	week := ctx.Query("week")
	if week != "" && !util.IsWeekKey(week) {
		// 非法周键静默回落到当前周,旧客户端会带格式错误的参数
		week = ""
	}

	scope, ok := model.ParseLeaderboardScope(ctx.Query("scope"))
	if !ok {
		util.BadRequest(ctx, util.ErrInvalidScope.Error())
		return
	}

	result, err := c.LeaderboardService.Leaderboard(week, scope, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
