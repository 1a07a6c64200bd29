package controller

import (
	"errors"
	"skillup_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError 将领域错误映射为 HTTP 状态码
func respondError(ctx *gin.Context, err error) {
	switch {
	case util.IsNotFound(err):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidIndex), errors.Is(err, util.ErrInvalidScore):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrLessonLocked):
		util.Forbidden(ctx, err.Error())
	case errors.Is(err, util.ErrNotCompleted), errors.Is(err, util.ErrConcurrencyConflict):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidPayload):
		util.UnprocessableEntity(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// indexParam 解析路径中的课时/小节下标
func indexParam(ctx *gin.Context, name string) (int, bool) {
	idx, err := util.ParseIndex(ctx.Param(name))
	if err != nil {
		util.BadRequest(ctx, "invalid "+name+" index")
		return 0, false
	}
	return idx, true
}
