package controller

import (
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RealtimeController struct {
	Hub         *service.SessionHub
	MessageRepo *repository.DirectMessageRepository
}

func NewRealtimeController(hub *service.SessionHub, messageRepo *repository.DirectMessageRepository) *RealtimeController {
	return &RealtimeController{
		Hub:         hub,
		MessageRepo: messageRepo,
	}
}

// @Summary WebSocket 接入点
// @Description 连接身份由 JWT 在握手时绑定（Header 或 ?token=）
// @Tags 实时
// @Security ApiKeyAuth
// @Router /api/realtime/ws [get]
func (c *RealtimeController) HandleWS(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	service.ServeWS(c.Hub, ctx.Writer, ctx.Request, user.UserID)
}

// @Summary 与某用户的私信历史
// @Tags 实时
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "对方用户ID"
// @Success 200 {object} util.Response
// @Router /api/direct-messages/{userId} [get]
func (c *RealtimeController) GetDirectMessages(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	otherID, err := util.ParseUint(ctx.Param("userId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	messages, err := c.MessageRepo.FindConversation(user.UserID, otherID, 100)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"messages": messages,
		"online":   c.Hub.IsUserOnline(otherID),
	})
}
