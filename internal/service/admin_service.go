package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/canvascore/qr_go_server/internal/model"
	"github.com/canvascore/qr_go_server/internal/model/dto"
	"github.com/canvascore/qr_go_server/internal/repository"
	"github.com/canvascore/qr_go_server/internal/store"
)

// 所属用户已被删除时的占位展示值
const (
	placeholderUserName  = "Unknown User"
	placeholderUserEmail = "No email"
	placeholderUserTier  = "free"
)

// AdminService 管理端报表：全量二维码列表、统计、用户列表与删除
type AdminService struct {
	userRepo *repository.UserRepository
	qrRepo   *repository.QRRepository
}

func NewAdminService(userRepo *repository.UserRepository, qrRepo *repository.QRRepository) *AdminService {
	return &AdminService{
		userRepo: userRepo,
		qrRepo:   qrRepo,
	}
}

// ListAllQR 列出全部二维码并关联所属用户信息，按生成时间倒序。
// 用户已删除的记录用占位值展示，不从列表中剔除。
func (s *AdminService) ListAllQR(ctx context.Context) ([]*dto.AdminQRItem, error) {
	codes, err := s.qrRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	sort.Slice(codes, func(i, j int) bool {
		return codes[i].GeneratedAt.After(codes[j].GeneratedAt)
	})

	items := make([]*dto.AdminQRItem, 0, len(codes))
	for _, qr := range codes {
		item := &dto.AdminQRItem{
			ID:               qr.ID,
			UserID:           qr.UserID,
			Text:             qr.Text,
			Color:            qr.Color,
			QRCodeData:       qr.QRCodeData,
			GeneratedAt:      qr.GeneratedAt.Format(time.RFC3339),
			Downloads:        qr.Downloads,
			UserName:         placeholderUserName,
			UserEmail:        placeholderUserEmail,
			UserSubscription: placeholderUserTier,
		}
		if owner, ok := byID[qr.UserID]; ok {
			item.UserName = owner.Name
			item.UserEmail = owner.Email
			item.UserSubscription = owner.SubscriptionTier
		}
		items = append(items, item)
	}
	return items, nil
}

// Stats 全局统计：总量、今日/本周/本月生成量、近期活跃用户数与各套餐人数。
// 今日从本地零点起算，本周、本月为滚动窗口（7 天 / 1 个自然月前起算）。
func (s *AdminService) Stats(ctx context.Context) (*dto.AdminStats, error) {
	codes, err := s.qrRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, -1, 0)

	stats := &dto.AdminStats{
		Total:          len(codes),
		BySubscription: make(map[string]int),
	}

	recent := make(map[string]struct{})
	for _, qr := range codes {
		if !qr.GeneratedAt.Before(todayStart) {
			stats.Today++
		}
		if !qr.GeneratedAt.Before(weekStart) {
			stats.ThisWeek++
			recent[qr.UserID] = struct{}{}
		}
		if !qr.GeneratedAt.Before(monthStart) {
			stats.ThisMonth++
		}
	}
	stats.RecentUsers = len(recent)

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		tier := u.SubscriptionTier
		if tier == "" {
			tier = model.TierFree
		}
		stats.BySubscription[tier]++
	}

	return stats, nil
}

// DeleteQR 管理端删除任意二维码，不受归属限制
func (s *AdminService) DeleteQR(ctx context.Context, qrID string) error {
	if _, err := s.qrRepo.GetByID(ctx, qrID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrQRNotFound
		}
		return err
	}
	return s.qrRepo.Delete(ctx, qrID)
}

// ListUsers 列出全部用户（附带二维码数量），按注册时间倒序
func (s *AdminService) ListUsers(ctx context.Context) ([]*dto.AdminUserItem, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	codes, err := s.qrRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(users))
	for _, qr := range codes {
		counts[qr.UserID]++
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	items := make([]*dto.AdminUserItem, 0, len(users))
	for _, u := range users {
		items = append(items, &dto.AdminUserItem{
			UserInfo:     *BuildUserInfo(u),
			QRCodesCount: counts[u.ID],
		})
	}
	return items, nil
}
