package controller

import (
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MatchController struct {
	MatchService *service.MatchService
}

func NewMatchController(matchService *service.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

type matchRequest struct {
	TeachingSkillID uint `json:"teachingSkillId" binding:"required"`
	LearningSkillID uint `json:"learningSkillId" binding:"required"`
}

// @Summary 查找技能匹配
// @Description 根据我的教授/学习技能查找双向互补的交换对象
// @Tags 技能匹配
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body matchRequest true "技能ID"
// @Success 200 {object} util.Response
// @Router /api/skill-matches [post]
func (c *MatchController) FindMatches(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req matchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	matches, err := c.MatchService.FindMatches(user.UserID, req.TeachingSkillID, req.LearningSkillID)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, matches)
}
