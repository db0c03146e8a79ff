package controller

import (
	"skillswap_backend/internal/service"
	"skillswap_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	SkillService *service.SkillService
}

func NewSkillController(skillService *service.SkillService) *SkillController {
	return &SkillController{SkillService: skillService}
}

// @Summary 我的技能列表
// @Tags 技能
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/skills [get]
func (c *SkillController) GetMySkills(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	skills, err := c.SkillService.GetUserSkills(user.UserID)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, skills)
}

// @Summary 添加技能
// @Description 同一技能名的教与学是两条独立记录，isTeaching 创建后不可变
// @Tags 技能
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateSkillRequest true "技能信息"
// @Success 201 {object} util.Response
// @Router /api/skills [post]
func (c *SkillController) CreateSkill(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateSkillRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	skill, err := c.SkillService.CreateSkill(user.UserID, req)
	if err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Created(ctx, skill)
}

// @Summary 删除技能
// @Tags 技能
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "技能ID"
// @Success 200 {object} util.Response
// @Router /api/skills/{id} [delete]
func (c *SkillController) DeleteSkill(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid skill ID")
		return
	}

	if err := c.SkillService.DeleteSkill(user.UserID, id); err != nil {
		util.ServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Skill deleted"})
}
