package model

import (
	"time"
)

// QRCode 二维码文档，存储于 qr_codes/{id}
type QRCode struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	Text             string     `json:"text"`
	Color            string     `json:"color"`
	QRCodeData       string     `json:"qr_code_data"` // base64 data URL
	ImageURL         string     `json:"image_url,omitempty"`
	GeneratedAt      time.Time  `json:"generated_at"`
	Downloads        int        `json:"downloads"`
	LastDownloadedAt *time.Time `json:"last_downloaded_at,omitempty"`
}

// StorePath 文档在存储中的路径
func (q *QRCode) StorePath() string {
	return "qr_codes/" + q.ID
}
