package dto

// SubscribeRequest 订阅请求
type SubscribeRequest struct {
	PlanID string `json:"planId" binding:"required"`
}

// PlanInfo 套餐信息
type PlanInfo struct {
	ID           string   `json:"id"`
	Tier         string   `json:"tier"`
	Price        float64  `json:"price"`
	QRCodesLimit int      `json:"qr_codes_limit"`
	Features     []string `json:"features"`
	Description  string   `json:"description"`
}

// SubscribeResponse 订阅成功响应
type SubscribeResponse struct {
	Subscription *SubscriptionDetail `json:"subscription"`
	Reset        *UsageReset         `json:"reset"`
}

// SubscriptionDetail 订阅详情
type SubscriptionDetail struct {
	Tier         string   `json:"tier"`
	Price        float64  `json:"price"`
	Features     []string `json:"features"`
	QRCodesLimit int      `json:"qr_codes_limit"`
	SubscribedAt string   `json:"subscribed_at"`
}

// UsageReset 订阅后的配额重置说明
type UsageReset struct {
	QRCodesGenerated int    `json:"qr_codes_generated"`
	Message          string `json:"message"`
}

// MySubscriptionResponse 当前订阅响应
type MySubscriptionResponse struct {
	Tier            string   `json:"tier"`
	Active          bool     `json:"active"`
	SubscribedSince string   `json:"subscribed_since,omitempty"`
	CurrentUsage    int      `json:"current_usage"`
	Remaining       int      `json:"remaining"`
	Price           float64  `json:"price"`
	QRCodesLimit    int      `json:"qr_codes_limit"`
	Features        []string `json:"features"`
	Description     string   `json:"description,omitempty"`
}
