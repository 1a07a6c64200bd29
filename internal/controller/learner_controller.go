package controller

import (
	"skillup_backend/internal/service"
	"skillup_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearnerController struct {
	LearnerService *service.LearnerService
}

func NewLearnerController(learnerService *service.LearnerService) *LearnerController {
	return &LearnerController{LearnerService: learnerService}
}

// @Summary 当前学员
// @Tags 学员
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Learner}
// @Router /api/me [get]
func (c *LearnerController) GetMe(ctx *gin.Context) {
	learnerID := util.GetLearnerIDFromContext(ctx)
	if learnerID == "" {
		util.Unauthorized(ctx)
		return
	}

	learner, err := c.LearnerService.Get(ctx.Request.Context(), learnerID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, learner)
}

// @Summary 修改个人资料
// @Description 修改展示字段，已签发证书上的姓名等信息不会随之改变
// @Tags 学员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body service.UpdateProfileRequest true "资料"
// @Success 200 {object} util.Response{data=model.Learner}
// @Router /api/me [put]
func (c *LearnerController) UpdateMe(ctx *gin.Context) {
	learnerID := util.GetLearnerIDFromContext(ctx)
	if learnerID == "" {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	learner, err := c.LearnerService.UpdateProfile(ctx.Request.Context(), learnerID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, learner)
}
