package model

import (
	"time"
)

// 套餐常量
const (
	TierFree  = "free"
	TierBasic = "basic"
)

// Plan 订阅套餐，存储于 subscriptions/{tier}
type Plan struct {
	Tier         string   `json:"tier"`
	Price        float64  `json:"price"`
	QRCodesLimit int      `json:"qr_codes_limit"`
	Features     []string `json:"features"`
	Description  string   `json:"description"`
}

// DefaultFreePlan 套餐目录缺失时的兜底套餐
func DefaultFreePlan() *Plan {
	return &Plan{
		Tier:         TierFree,
		Price:        0,
		QRCodesLimit: 3,
		Features:     []string{"Basic QR Generation", "Standard Colors"},
		Description:  "Perfect for getting started",
	}
}

// DefaultPlans 首次读取时懒创建的默认套餐目录
func DefaultPlans() []*Plan {
	return []*Plan{
		DefaultFreePlan(),
		{
			Tier:         TierBasic,
			Price:        299,
			QRCodesLimit: 10,
			Features:     []string{"Custom Colors", "Basic Analytics"},
			Description:  "For growing businesses",
		},
	}
}

// StorePath 文档在存储中的路径
func (p *Plan) StorePath() string {
	return "subscriptions/" + p.Tier
}

// SubscriptionHistory 订阅历史记录（追加写，不可变），存储于 subscription_history/{id}
type SubscriptionHistory struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	PlanID        string    `json:"plan_id"`
	PlanTier      string    `json:"plan_tier"`
	Price         float64   `json:"price"`
	SubscribedAt  time.Time `json:"subscribed_at"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
}

// StorePath 文档在存储中的路径
func (h *SubscriptionHistory) StorePath() string {
	return "subscription_history/" + h.ID
}
