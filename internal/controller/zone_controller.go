package controller

import (
	"nudo_backend/internal/config"
	"nudo_backend/internal/service"
	"nudo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ZoneController struct {
	ZoneService *service.ZoneService
	Config      *config.Config
}

func NewZoneController(zoneService *service.ZoneService, cfg *config.Config) *ZoneController {
	return &ZoneController{ZoneService: zoneService, Config: cfg}
}

// @Summary 客户端配置
// @Description 时区/周目标/学期窗口等客户端需要的常量
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/config [get]
func (c *ZoneController) GetConfig(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"timezone":         c.Config.Season.Timezone,
		"weeklyGoalHours":  c.Config.Scoring.WeeklyGoalHours,
		"weeklyCapMinutes": service.WeeklyCapMinutes(),
		"academicWindows":  c.Config.Season.AcademicWindows,
	})
}

// @Summary 区域列表
// @Description 所有活跃的自习区域
// @Tags 区域
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/zones [get]
func (c *ZoneController) ListZones(ctx *gin.Context) {
	zones, err := c.ZoneService.ListActive()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, zones)
}

// @Summary 创建区域
// @Description 录入自习区域(V1 无后台,仅部署时使用)
// @Tags 区域
// @Accept json
// @Produce json
// @Param zone body object true "区域信息"
// @Success 201 {object} util.Response
// @Router /api/zones [post]
func (c *ZoneController) CreateZone(ctx *gin.Context) {
	var req struct {
		Name         string  `json:"name" binding:"required"`
		Lat          float64 `json:"lat" binding:"required"`
		Lng          float64 `json:"lng" binding:"required"`
		RadiusMeters int     `json:"radiusMeters" binding:"required,min=10"`
		IsActive     *bool   `json:"isActive"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	zone, err := c.ZoneService.CreateZone(req.Name, req.Lat, req.Lng, req.RadiusMeters, isActive)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"id": zone.ID})
}
