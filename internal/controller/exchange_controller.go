package controller

import (
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExchangeController struct {
	ExchangeService *service.ExchangeService
}

func NewExchangeController(exchangeService *service.ExchangeService) *ExchangeController {
	return &ExchangeController{ExchangeService: exchangeService}
}

// @Summary 发起技能交换
// @Tags 技能交换
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateExchangeRequest true "交换信息"
// @Success 201 {object} util.Response
// @Router /api/exchanges [post]
func (c *ExchangeController) CreateExchange(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateExchangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exchange, err := c.ExchangeService.CreateExchange(user.UserID, req)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Created(ctx, exchange)
}

// @Summary 我的交换列表
// @Tags 技能交换
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/exchanges [get]
func (c *ExchangeController) GetMyExchanges(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	exchanges, err := c.ExchangeService.GetUserExchanges(user.UserID)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, exchanges)
}

// @Summary 交换详情
// @Tags 技能交换
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "交换ID"
// @Success 200 {object} util.Response
// @Router /api/exchanges/{id} [get]
func (c *ExchangeController) GetExchange(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid exchange ID")
		return
	}

	exchange, err := c.ExchangeService.GetExchange(id)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	if !exchange.IsParticipant(user.UserID) {
		util.Forbidden(ctx)
		return
	}

	util.Success(ctx, exchange)
}

type updateExchangeRequest struct {
	Status model.ExchangeStatus `json:"status" binding:"required,oneof=pending active completed cancelled"`
}

// @Summary 更新交换状态
// @Description pending→active/cancelled，active→completed/cancelled；终态不可再迁移
// @Tags 技能交换
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "交换ID"
// @Param body body updateExchangeRequest true "目标状态"
// @Success 200 {object} util.Response
// @Router /api/exchanges/{id} [put]
func (c *ExchangeController) UpdateExchange(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid exchange ID")
		return
	}

	var req updateExchangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	exchange, err := c.ExchangeService.UpdateStatus(id, req.Status, user.UserID)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, exchange)
}
