package controller

import (
	"skillup_backend/internal/service"
	"skillup_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CatalogService *service.CatalogService
}

func NewCourseController(catalogService *service.CatalogService) *CourseController {
	return &CourseController{CatalogService: catalogService}
}

// @Summary 课程列表
// @Description 分页获取课程，可按分类过滤
// @Tags 课程
// @Produce json
// @Param category query string false "分类"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	courses, total, err := c.CatalogService.ListCourses(ctx.Request.Context(), ctx.Query("category"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 课程详情
// @Description 获取课程及其有序的课时和小节
// @Tags 课程
// @Produce json
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	course, err := c.CatalogService.GetCourse(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}
