package dto

// GenerateQRRequest 生成二维码请求
type GenerateQRRequest struct {
	QRText  string `json:"qrText" binding:"required"`
	QRColor string `json:"qrColor"`
	QREmail string `json:"qrEmail" binding:"omitempty,email"`
}

// Usage 配额使用情况
type Usage struct {
	Current   int `json:"current"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// SubscriptionHint 订阅提示
type SubscriptionHint struct {
	Tier            string `json:"tier"`
	RequiresUpgrade bool   `json:"requiresUpgrade"`
}

// GenerateQRResponse 生成二维码响应
type GenerateQRResponse struct {
	QRCode       string            `json:"qrCode"`
	QRID         string            `json:"qrId"`
	ImageURL     string            `json:"imageUrl,omitempty"`
	Usage        *Usage            `json:"usage"`
	Subscription *SubscriptionHint `json:"subscription"`
	EmailSent    bool              `json:"emailSent"`
	EmailError   string            `json:"emailError,omitempty"`
}

// DownloadQRResponse 下载二维码响应
type DownloadQRResponse struct {
	QRCode    string `json:"qrCode"`
	Downloads int    `json:"downloads"`
}

// UsageSnapshot 配额快照
type UsageSnapshot struct {
	Used             int    `json:"used"`
	Limit            int    `json:"limit"`
	Remaining        int    `json:"remaining"`
	SubscriptionTier string `json:"subscriptionTier"`
	RequiresUpgrade  bool   `json:"requiresUpgrade"`
}
