package controller

import (
	"errors"
	"nudo_backend/internal/model"
	"nudo_backend/internal/service"
	"nudo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// @Summary 注册用户
// @Description 按设备标识注册,重装后同设备返回既有账号
// @Tags 用户
// @Accept json
// @Produce json
// @Param user body object true "用户信息"
// @Success 201 {object} util.Response
// @Router /api/users [post]
func (c *UserController) Register(ctx *gin.Context) {
	var req struct {
		DisplayName string `json:"displayName" binding:"required,min=2,max=100"`
		Email       string `json:"email" binding:"required,email"`
		DeviceID    string `json:"deviceId"`
		Role        string `json:"role"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "missing_fields")
		return
	}

	role := model.UserRole(req.Role)
	if role != "" && role != model.Pledge && role != model.Member {
		util.BadRequest(ctx, "invalid_role")
		return
	}

	user, err := c.UserService.Register(req.DisplayName, req.Email, req.DeviceID, role)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.BadRequest(ctx, "email_registered")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, user)
}

// @Summary 用户信息
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	user, err := c.UserService.GetUser(id)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "user_not_found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// @Summary 更新连续周数
// @Description 外部结算任务写入 streakWeeks(V1 无鉴权)
// @Tags 用户
// @Accept json
// @Produce json
// @Param id path int true "用户ID"
// @Param body body object true "streakWeeks"
// @Success 200 {object} util.Response
// @Router /api/users/{id}/streak [put]
func (c *UserController) SetStreak(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	var req struct {
		StreakWeeks *int `json:"streakWeeks" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil || req.StreakWeeks == nil {
		util.BadRequest(ctx, "missing_fields")
		return
	}

	streakWeeks := *req.StreakWeeks
	if streakWeeks < 0 {
		streakWeeks = 0
	}

	if err := c.UserService.SetStreak(id, streakWeeks); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "user_not_found")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"streakWeeks": streakWeeks})
}

// @Summary 上传头像
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "用户ID"
// @Param file formData file true "头像文件"
// @Success 200 {object} util.Response
// @Router /api/users/{id}/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing_file")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	url, err := c.UserService.UploadAvatar(ctx.Request.Context(), id, file.Filename, src, file.Size, contentType)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, "user_not_found")
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"avatarUrl": url})
}
