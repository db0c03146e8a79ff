package controller

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// @Summary 预约课时
// @Tags 课时
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ScheduleSessionRequest true "课时信息"
// @Success 201 {object} util.Response
// @Router /api/sessions [post]
func (c *SessionController) ScheduleSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ScheduleSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SessionService.ScheduleSession(user.UserID, req)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Created(ctx, session)
}

// @Summary 某交换下的课时列表
// @Tags 课时
// @Produce json
// @Security ApiKeyAuth
// @Param exchangeId query int true "交换ID"
// @Success 200 {object} util.Response
// @Router /api/sessions [get]
func (c *SessionController) GetSessions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	exchangeID, err := util.ParseUint(ctx.Query("exchangeId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid exchange ID")
		return
	}

	sessions, err := c.SessionService.GetExchangeSessions(user.UserID, exchangeID)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, sessions)
}

type updateSessionRequest struct {
	Status model.SessionStatus `json:"status" binding:"required,oneof=scheduled completed cancelled"`
}

// @Summary 更新课时状态
// @Description 翻转为 completed 时同步累加交换计数，计满自动结课
// @Tags 课时
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时ID"
// @Param body body updateSessionRequest true "目标状态"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id} [put]
func (c *SessionController) UpdateSession(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid session ID")
		return
	}

	var req updateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SessionService.UpdateSessionStatus(id, req.Status, user.UserID)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, session)
}
