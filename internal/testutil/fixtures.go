package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/canvascore/qr_go_server/internal/model"
	"github.com/canvascore/qr_go_server/internal/store"
)

var fixtureSeq int64

func nextSeq() int64 {
	fixtureSeq++
	return fixtureSeq
}

// TestUser 创建测试用户
func TestUser(t *testing.T, s *store.Store, opts ...func(*model.User)) *model.User {
	t.Helper()

	seq := nextSeq()
	now := time.Now()
	user := &model.User{
		ID:               fmt.Sprintf("user_test_%d_%d", now.UnixNano(), seq),
		Username:         fmt.Sprintf("testuser%d", seq),
		Name:             fmt.Sprintf("Test User %d", seq),
		Email:            fmt.Sprintf("test_%d_%d@example.com", now.UnixNano(), seq),
		MobileNumber:     "+8613800138000",
		PasswordHash:     "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
		Role:             model.RoleUser,
		SubscriptionTier: model.TierFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := s.Set(Ctx(t), user.StorePath(), user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithPasswordHash 设置密码散列
func WithPasswordHash(hash string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = hash
	}
}

// WithTier 设置订阅层级
func WithTier(tier string) func(*model.User) {
	return func(u *model.User) {
		u.SubscriptionTier = tier
	}
}

// WithGenerated 设置已生成数量
func WithGenerated(count int) func(*model.User) {
	return func(u *model.User) {
		u.QRCodesGenerated = count
	}
}

// WithRole 设置角色
func WithRole(role model.Role) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithCreatedAt 设置注册时间
func WithCreatedAt(at time.Time) func(*model.User) {
	return func(u *model.User) {
		u.CreatedAt = at
	}
}

// TestQRCode 创建测试二维码
func TestQRCode(t *testing.T, s *store.Store, userID string, opts ...func(*model.QRCode)) *model.QRCode {
	t.Helper()

	seq := nextSeq()
	qr := &model.QRCode{
		ID:          fmt.Sprintf("qr_test_%d_%d", time.Now().UnixNano(), seq),
		UserID:      userID,
		Text:        fmt.Sprintf("https://example.com/%d", seq),
		Color:       "#000000",
		QRCodeData:  "data:image/png;base64,dGVzdA==",
		GeneratedAt: time.Now(),
		Downloads:   1,
	}

	for _, opt := range opts {
		opt(qr)
	}

	if err := s.Set(Ctx(t), qr.StorePath(), qr); err != nil {
		t.Fatalf("Failed to create test qr code: %v", err)
	}

	return qr
}

// WithText 设置二维码内容
func WithText(text string) func(*model.QRCode) {
	return func(qr *model.QRCode) {
		qr.Text = text
	}
}

// WithGeneratedAt 设置生成时间
func WithGeneratedAt(at time.Time) func(*model.QRCode) {
	return func(qr *model.QRCode) {
		qr.GeneratedAt = at
	}
}

// WithDownloads 设置下载计数
func WithDownloads(n int) func(*model.QRCode) {
	return func(qr *model.QRCode) {
		qr.Downloads = n
	}
}

// TestPlan 创建测试套餐
func TestPlan(t *testing.T, s *store.Store, tier string, price float64, limit int) *model.Plan {
	t.Helper()

	plan := &model.Plan{
		Tier:         tier,
		Price:        price,
		QRCodesLimit: limit,
		Features:     []string{fmt.Sprintf("%d QR codes", limit)},
	}

	if err := s.Set(Ctx(t), plan.StorePath(), plan); err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}
