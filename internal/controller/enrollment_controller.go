package controller

import (
	"errors"
	"io"
	"skillup_backend/internal/service"
	"skillup_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// @Summary 报名课程
// @Description 重复报名返回已有记录
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	learnerID := util.GetLearnerIDFromContext(ctx)
	if learnerID == "" {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(ctx.Request.Context(), learnerID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// @Summary 课程学习进度
// @Description 报名记录、各课时解锁状态和测验成绩
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.EnrollmentProgress}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/progress [get]
func (c *EnrollmentController) GetProgress(ctx *gin.Context) {
	learnerID := util.GetLearnerIDFromContext(ctx)
	if learnerID == "" {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.EnrollmentService.GetProgress(ctx.Request.Context(), learnerID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 完成小节
// @Description 标记小节完成并重算进度；课时未解锁返回 403，重复完成不报错
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Param lesson path int true "课时下标"
// @Param sub path int true "小节下标"
// @Param body body service.CompleteSubLessonRequest false "测验分数"
// @Success 200 {object} util.Response{data=model.EnrollmentProgress}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/courses/{id}/lessons/{lesson}/sub-lessons/{sub}/complete [post]
func (c *EnrollmentController) CompleteSubLesson(ctx *gin.Context) {
	learnerID := util.GetLearnerIDFromContext(ctx)
	if learnerID == "" {
		util.Unauthorized(ctx)
		return
	}

	lessonIndex, ok := indexParam(ctx, "lesson")
	if !ok {
		return
	}
	subLessonIndex, ok := indexParam(ctx, "sub")
	if !ok {
		return
	}

	var req service.CompleteSubLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.EnrollmentService.CompleteSubLesson(ctx.Request.Context(), learnerID, ctx.Param("id"), lessonIndex, subLessonIndex, req.Score)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 我的报名
// @Tags 学习进度
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	learnerID := util.GetLearnerIDFromContext(ctx)
	if learnerID == "" {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentService.ListEnrollments(ctx.Request.Context(), learnerID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}
