package controller

import (
	"net/http"
	"skillup_backend/internal/service"
	"skillup_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// VerifyPayloadRequest 扫码得到的载荷
type VerifyPayloadRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// @Summary 签发结业证书
// @Description 课程完成后签发；已签发时返回原证书，alreadyIssued 为 true
// @Tags 证书
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Success 201 {object} util.Response{data=service.IssueResult}
// @Success 200 {object} util.Response{data=service.IssueResult}
// @Failure 409 {object} util.Response
// @Router /api/courses/{id}/certificate [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	learnerID := util.GetLearnerIDFromContext(ctx)
	if learnerID == "" {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.CertificateService.Issue(ctx.Request.Context(), learnerID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	if result.AlreadyIssued {
		util.Success(ctx, result)
		return
	}
	util.Created(ctx, result)
}

// @Summary 我在某门课程的证书
// @Tags 证书
// @Produce json
// @Security BearerAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response{data=model.CertificateView}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/certificate [get]
func (c *CertificateController) GetMine(ctx *gin.Context) {
	learnerID := util.GetLearnerIDFromContext(ctx)
	if learnerID == "" {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.CertificateService.GetForLearner(ctx.Request.Context(), learnerID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 我的全部证书
// @Tags 证书
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.CertificateView}
// @Router /api/certificates [get]
func (c *CertificateController) ListMine(ctx *gin.Context) {
	learnerID := util.GetLearnerIDFromContext(ctx)
	if learnerID == "" {
		util.Unauthorized(ctx)
		return
	}

	views, err := c.CertificateService.ListByLearner(ctx.Request.Context(), learnerID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// @Summary 按 ID 查询我的证书
// @Tags 证书
// @Produce json
// @Security BearerAuth
// @Param id path string true "证书ID"
// @Success 200 {object} util.Response{data=model.CertificateView}
// @Failure 404 {object} util.Response
// @Router /api/certificates/{id} [get]
func (c *CertificateController) GetByID(ctx *gin.Context) {
	learnerID := util.GetLearnerIDFromContext(ctx)
	if learnerID == "" {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.CertificateService.GetByIDForLearner(ctx.Request.Context(), learnerID, ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 按验证码验证证书
// @Tags 证书验证
// @Produce json
// @Param code path string true "验证码"
// @Success 200 {object} util.Response{data=model.CertificateView}
// @Failure 404 {object} util.Response
// @Router /api/verify/{code} [get]
func (c *CertificateController) VerifyCode(ctx *gin.Context) {
	view, err := c.CertificateService.VerifyCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 按二维码载荷验证证书
// @Tags 证书验证
// @Accept json
// @Produce json
// @Param body body VerifyPayloadRequest true "二维码载荷"
// @Success 200 {object} util.Response{data=model.CertificateView}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/verify [post]
func (c *CertificateController) VerifyPayload(ctx *gin.Context) {
	var req VerifyPayloadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.CertificateService.VerifyPayload(ctx.Request.Context(), req.Payload)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 证书二维码
// @Tags 证书验证
// @Produce png
// @Param code path string true "验证码"
// @Success 200 {file} binary
// @Failure 404 {object} util.Response
// @Router /api/verify/{code}/qr [get]
func (c *CertificateController) QRImage(ctx *gin.Context) {
	png, err := c.CertificateService.QRImage(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Header("Cache-Control", "public, max-age=86400")
	ctx.Data(http.StatusOK, util.MimePNG, png)
}
