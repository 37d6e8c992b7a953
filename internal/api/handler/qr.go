package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/canvascore/qr_go_server/internal/api/middleware"
	"github.com/canvascore/qr_go_server/internal/model/dto"
	"github.com/canvascore/qr_go_server/internal/pkg/response"
	"github.com/canvascore/qr_go_server/internal/service"
)

type QRHandler struct {
	qrService *service.QRService
}

func NewQRHandler(qrService *service.QRService) *QRHandler {
	return &QRHandler{
		qrService: qrService,
	}
}

// Generate 生成二维码
// POST /api/v1/qr/generate
func (h *QRHandler) Generate(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.GenerateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.qrService.Generate(c.Request.Context(), user, &req)
	if err != nil {
		var quotaErr *service.QuotaExceededError
		switch {
		case errors.As(err, &quotaErr):
			response.QuotaError(c, quotaErr.Error(), gin.H{
				"used":            quotaErr.Used,
				"limit":           quotaErr.Limit,
				"tier":            quotaErr.Tier,
				"requiresUpgrade": true,
			})
		case errors.Is(err, service.ErrEncoding):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "二维码生成成功", resp)
}

// Download 下载二维码（递增下载计数）
// GET /api/v1/qr/download/:id
func (h *QRHandler) Download(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.qrService.Download(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQRNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrNotOwner):
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// Remaining 剩余配额查询
// GET /api/v1/qr/remaining
func (h *QRHandler) Remaining(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	snapshot, err := h.qrService.Remaining(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, snapshot)
}
