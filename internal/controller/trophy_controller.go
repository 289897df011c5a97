package controller

import (
	"nudo_backend/internal/service"
	"nudo_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type TrophyController struct {
	TrophyService *service.TrophyService
}

func NewTrophyController(trophyService *service.TrophyService) *TrophyController {
	return &TrophyController{TrophyService: trophyService}
}

// @Summary 奖杯之路进度
// @Description 当前学期窗口内的累计时长与里程碑位置
// @Tags 学期
// @Produce json
// @Param userId query int true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/season/progress [get]
func (c *TrophyController) GetProgress(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Query("userId"))
	if userID == 0 {
		util.BadRequest(ctx, "userId_required")
		return
	}

	progress, err := c.TrophyService.Progress(userID, time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// @Summary 区域热度
// @Description 各活跃区域当前进行中的会话数
// @Tags 学期
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/season/occupancy [get]
func (c *TrophyController) GetOccupancy(ctx *gin.Context) {
	occupancy, err := c.TrophyService.Occupancy(time.Now())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, occupancy)
}
