package app

import (
	"nudo_backend/docs"
	"nudo_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)
		api.GET("/config", c.zone.GetConfig)

		// 学习会话
		sessions := api.Group("/sessions")
		{
			sessions.POST("/start", c.session.StartSession)
			sessions.POST("/stop", c.session.StopSession)
			sessions.GET("/weekly", c.session.GetWeeklyStats)
		}

		// 周排行榜
		api.GET("/leaderboard", c.leaderboard.GetLeaderboard)

		// 奖杯之路
		season := api.Group("/season")
		{
			season.GET("/progress", c.trophy.GetProgress)
			season.GET("/occupancy", c.trophy.GetOccupancy)
		}

		// 学习区域
		zones := api.Group("/zones")
		{
			zones.GET("", c.zone.ListZones)
			zones.POST("", c.zone.CreateZone)
		}

		// 用户
		users := api.Group("/users")
		{
			users.POST("", c.user.Register)
			users.GET("/:id", c.user.GetUser)
			users.PUT("/:id/streak", c.user.SetStreak)
			users.POST("/:id/avatar", c.user.UploadAvatar)
		}
	}
}
