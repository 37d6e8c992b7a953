package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/canvascore/qr_go_server/internal/api/middleware"
	"github.com/canvascore/qr_go_server/internal/model/dto"
	"github.com/canvascore/qr_go_server/internal/pkg/response"
	"github.com/canvascore/qr_go_server/internal/service"
)

type SubscriptionHandler struct {
	quotaService *service.QuotaService
}

func NewSubscriptionHandler(quotaService *service.QuotaService) *SubscriptionHandler {
	return &SubscriptionHandler{
		quotaService: quotaService,
	}
}

// ListPlans 套餐目录（目录为空时自动写入默认套餐）
// GET /api/v1/subscriptions/plans
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, seeded, err := h.quotaService.ListPlans(c.Request.Context())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	infos := make([]*dto.PlanInfo, 0, len(plans))
	for _, p := range plans {
		infos = append(infos, &dto.PlanInfo{
			ID:           p.Tier,
			Tier:         p.Tier,
			Price:        p.Price,
			QRCodesLimit: p.QRCodesLimit,
			Features:     p.Features,
			Description:  p.Description,
		})
	}

	response.Success(c, gin.H{
		"plans":  infos,
		"seeded": seeded,
	})
}

// Subscribe 订阅套餐（模拟支付）
// POST /api/v1/subscriptions/subscribe
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.quotaService.Subscribe(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "订阅成功", resp)
}

// MySubscription 当前订阅详情
// GET /api/v1/subscriptions/my-subscription
func (h *SubscriptionHandler) MySubscription(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	resp, err := h.quotaService.MySubscription(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, resp)
}
