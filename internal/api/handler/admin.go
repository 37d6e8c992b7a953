package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/canvascore/qr_go_server/internal/pkg/response"
	"github.com/canvascore/qr_go_server/internal/service"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListQRCodes 全部二维码（附带所属用户信息）
// GET /api/v1/admin/qr-codes
func (h *AdminHandler) ListQRCodes(c *gin.Context) {
	items, err := h.adminService.ListAllQR(c.Request.Context())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"qrCodes": items,
		"total":   len(items),
	})
}

// Stats 全局生成统计
// GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, stats)
}

// DeleteQRCode 删除任意二维码
// DELETE /api/v1/admin/qr-codes/:id
func (h *AdminHandler) DeleteQRCode(c *gin.Context) {
	err := h.adminService.DeleteQR(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrQRNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// ListUsers 全部用户（附带二维码数量）
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	items, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"users": items,
		"total": len(items),
	})
}
