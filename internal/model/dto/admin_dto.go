package dto

// AdminQRItem 管理端二维码条目（附带所属用户信息）
type AdminQRItem struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	Text             string `json:"text"`
	Color            string `json:"color"`
	QRCodeData       string `json:"qr_code_data"`
	GeneratedAt      string `json:"generated_at"`
	Downloads        int    `json:"downloads"`
	UserName         string `json:"userName"`
	UserEmail        string `json:"userEmail"`
	UserSubscription string `json:"userSubscription"`
}

// AdminStats 管理端统计
type AdminStats struct {
	Total          int            `json:"total"`
	Today          int            `json:"today"`
	ThisWeek       int            `json:"thisWeek"`
	ThisMonth      int            `json:"thisMonth"`
	RecentUsers    int            `json:"recentUsers"`
	BySubscription map[string]int `json:"bySubscription"`
}

// AdminUserItem 管理端用户条目（附带二维码数量）
type AdminUserItem struct {
	UserInfo
	QRCodesCount int `json:"qrCodesCount"`
}
