package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username     string `json:"username" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	MobileNumber string `json:"mobileNumber" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo 用户信息（返回给前端，不含密码散列）
type UserInfo struct {
	ID                 string `json:"id"`
	Username           string `json:"username"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	MobileNumber       string `json:"mobile_number,omitempty"`
	Role               string `json:"role"`
	SubscriptionTier   string `json:"subscription_tier"`
	QRCodesGenerated   int    `json:"qr_codes_generated"`
	SubscriptionActive bool   `json:"subscription_active"`
	SubscriptionSince  string `json:"subscription_since,omitempty"`
	CreatedAt          string `json:"created_at,omitempty"`
}
