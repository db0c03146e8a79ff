package controller

import (
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

// @Summary 提交评价
// @Tags 评价
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateReviewRequest true "评价内容"
// @Success 201 {object} util.Response
// @Router /api/reviews [post]
func (c *ReviewController) CreateReview(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.ReviewService.CreateReview(user.UserID, req)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Created(ctx, review)
}

// @Summary 用户综合评分
// @Tags 评价
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/users/{id}/rating [get]
func (c *ReviewController) GetUserRating(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	rating, err := c.ReviewService.GetUserRating(id)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, rating)
}
