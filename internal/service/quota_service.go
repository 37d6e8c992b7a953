package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/canvascore/qr_go_server/internal/model"
	"github.com/canvascore/qr_go_server/internal/model/dto"
	"github.com/canvascore/qr_go_server/internal/repository"
	"github.com/canvascore/qr_go_server/internal/store"
)

var ErrPlanNotFound = errors.New("套餐不存在")

// QuotaExceededError 配额超限，携带使用详情供前端展示
type QuotaExceededError struct {
	Used  int
	Limit int
	Tier  string
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("已达到 %s 套餐的生成上限（%d/%d）", e.Tier, e.Used, e.Limit)
}

// QuotaService 配额与订阅引擎。
// 用户状态为 (tier, generatedCount)，套餐状态为 (limit, price, features)。
type QuotaService struct {
	userRepo *repository.UserRepository
	planRepo *repository.PlanRepository
}

func NewQuotaService(userRepo *repository.UserRepository, planRepo *repository.PlanRepository) *QuotaService {
	return &QuotaService{
		userRepo: userRepo,
		planRepo: planRepo,
	}
}

// ResolvePlan 解析套餐。目录缺失或套餐不存在时统一兜底到默认 free 套餐，
// 兜底逻辑集中在此，调用方不再各自处理。
func (s *QuotaService) ResolvePlan(ctx context.Context, tier string) (*model.Plan, error) {
	plan, err := s.planRepo.GetByTier(ctx, tier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.DefaultFreePlan(), nil
		}
		return nil, err
	}
	return plan, nil
}

// CheckAndReserve 检查并预占一个配额单位。
// 读取-判断-递增在单个用户文档上的条件写内完成（WATCH/MULTI），
// 并发的同用户请求不会丢失更新；与换套餐跨键交错仍为 last-write-wins。
func (s *QuotaService) CheckAndReserve(ctx context.Context, userID string) (*dto.Usage, error) {
	var usage dto.Usage

	err := s.userRepo.GuardedUpdate(ctx, userID, func(user *model.User) error {
		plan, err := s.ResolvePlan(ctx, user.SubscriptionTier)
		if err != nil {
			return err
		}

		if user.QRCodesGenerated >= plan.QRCodesLimit {
			return &QuotaExceededError{
				Used:  user.QRCodesGenerated,
				Limit: plan.QRCodesLimit,
				Tier:  user.SubscriptionTier,
			}
		}

		user.QRCodesGenerated++
		user.UpdatedAt = time.Now()

		usage = dto.Usage{
			Current:   user.QRCodesGenerated,
			Limit:     plan.QRCodesLimit,
			Remaining: plan.QRCodesLimit - user.QRCodesGenerated,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &usage, nil
}

// Refund 退还一个配额单位（下限 0）。用于预占后下游编码失败的补偿。
func (s *QuotaService) Refund(ctx context.Context, userID string) error {
	err := s.userRepo.GuardedUpdate(ctx, userID, func(user *model.User) error {
		if user.QRCodesGenerated > 0 {
			user.QRCodesGenerated--
		}
		user.UpdatedAt = time.Now()
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// ChangeTier 切换套餐：设置新套餐、清零已用配额、激活订阅并追加历史记录。
// 套餐字段与计数清零在同一次条件写中完成，后续 CheckAndReserve 读到的状态一致。
func (s *QuotaService) ChangeTier(ctx context.Context, userID, newTier string) (*model.Plan, error) {
	plan, err := s.planRepo.GetByTier(ctx, newTier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	now := time.Now()
	err = s.userRepo.GuardedUpdate(ctx, userID, func(user *model.User) error {
		user.SubscriptionTier = newTier
		user.QRCodesGenerated = 0
		user.SubscriptionActive = true
		user.SubscriptionSince = now
		user.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 订阅历史只追加不修改；价格与套餐名取变更时刻的快照
	entry := &model.SubscriptionHistory{
		ID:            newID("sub"),
		UserID:        userID,
		PlanID:        newTier,
		PlanTier:      plan.Tier,
		Price:         plan.Price,
		SubscribedAt:  now,
		Status:        "active",
		PaymentMethod: "test_mode", // 模拟支付
	}
	if err := s.planRepo.AppendHistory(ctx, entry); err != nil {
		return nil, err
	}

	return plan, nil
}

// UsageSnapshot 配额快照，纯读取
func (s *QuotaService) UsageSnapshot(ctx context.Context, userID string) (*dto.UsageSnapshot, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	plan, err := s.ResolvePlan(ctx, user.SubscriptionTier)
	if err != nil {
		return nil, err
	}

	remaining := plan.QRCodesLimit - user.QRCodesGenerated
	if remaining < 0 {
		remaining = 0
	}

	return &dto.UsageSnapshot{
		Used:             user.QRCodesGenerated,
		Limit:            plan.QRCodesLimit,
		Remaining:        remaining,
		SubscriptionTier: user.SubscriptionTier,
		RequiresUpgrade:  user.QRCodesGenerated >= plan.QRCodesLimit,
	}, nil
}

// ListPlans 列出套餐目录，目录为空时先写入默认套餐
func (s *QuotaService) ListPlans(ctx context.Context) ([]*model.Plan, bool, error) {
	seeded, err := s.planRepo.EnsureDefaults(ctx)
	if err != nil {
		return nil, false, err
	}

	plans, err := s.planRepo.ListAll(ctx)
	if err != nil {
		return nil, false, err
	}
	return plans, seeded, nil
}

// Subscribe 订阅套餐（无真实支付），返回订阅详情与配额重置说明
func (s *QuotaService) Subscribe(ctx context.Context, userID, planID string) (*dto.SubscribeResponse, error) {
	plan, err := s.ChangeTier(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	return &dto.SubscribeResponse{
		Subscription: &dto.SubscriptionDetail{
			Tier:         plan.Tier,
			Price:        plan.Price,
			Features:     plan.Features,
			QRCodesLimit: plan.QRCodesLimit,
			SubscribedAt: time.Now().Format(time.RFC3339),
		},
		Reset: &dto.UsageReset{
			QRCodesGenerated: 0,
			Message:          "您的二维码生成次数已重置",
		},
	}, nil
}

// MySubscription 当前订阅详情（含使用情况与套餐信息）
func (s *QuotaService) MySubscription(ctx context.Context, userID string) (*dto.MySubscriptionResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	plan, err := s.ResolvePlan(ctx, user.SubscriptionTier)
	if err != nil {
		return nil, err
	}

	remaining := plan.QRCodesLimit - user.QRCodesGenerated
	if remaining < 0 {
		remaining = 0
	}

	resp := &dto.MySubscriptionResponse{
		Tier:         user.SubscriptionTier,
		Active:       user.SubscriptionActive,
		CurrentUsage: user.QRCodesGenerated,
		Remaining:    remaining,
		Price:        plan.Price,
		QRCodesLimit: plan.QRCodesLimit,
		Features:     plan.Features,
		Description:  plan.Description,
	}
	if !user.SubscriptionSince.IsZero() {
		resp.SubscribedSince = user.SubscriptionSince.Format(time.RFC3339)
	}
	return resp, nil
}
