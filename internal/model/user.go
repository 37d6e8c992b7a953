package model

import (
	"time"
)

// Role 用户角色
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid 判断角色是否合法
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// In 判断角色是否在允许集合内
func (r Role) In(roles ...Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}

// User 用户文档，存储于 users/{id}
type User struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	MobileNumber       string    `json:"mobile_number"`
	PasswordHash       string    `json:"password_hash"`
	Role               Role      `json:"role"`
	SubscriptionTier   string    `json:"subscription_tier"`
	QRCodesGenerated   int       `json:"qr_codes_generated"`
	SubscriptionActive bool      `json:"subscription_active"`
	SubscriptionSince  time.Time `json:"subscription_since,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// StorePath 文档在存储中的路径
func (u *User) StorePath() string {
	return "users/" + u.ID
}
