package controller

import (
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService     *service.UserService
	ActivityService *service.ActivityService
}

func NewUserController(userService *service.UserService, activityService *service.ActivityService) *UserController {
	return &UserController{
		UserService:     userService,
		ActivityService: activityService,
	}
}

// @Summary 当前用户资料
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetUser(user.UserID)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// @Summary 用户公开资料
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	profile, err := c.UserService.GetPublicProfile(id)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}

// @Summary 我的活动记录
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "返回数量" default(50)
// @Success 200 {object} util.Response
// @Router /api/activities [get]
func (c *UserController) GetMyActivities(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := 50
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	activities, err := c.ActivityService.GetUserActivities(user.UserID, limit)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, activities)
}
