package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/canvascore/qr_go_server/internal/model"
	"github.com/canvascore/qr_go_server/internal/store"
)

type PlanRepository struct {
	store *store.Store
}

func NewPlanRepository(s *store.Store) *PlanRepository {
	return &PlanRepository{store: s}
}

func (r *PlanRepository) GetByTier(ctx context.Context, tier string) (*model.Plan, error) {
	var plan model.Plan
	found, err := r.store.Get(ctx, "subscriptions/"+tier, &plan)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, store.ErrNotFound
	}
	return &plan, nil
}

func (r *PlanRepository) Save(ctx context.Context, plan *model.Plan) error {
	return r.store.Set(ctx, plan.StorePath(), plan)
}

// ListAll 列出套餐目录，按价格从低到高
func (r *PlanRepository) ListAll(ctx context.Context) ([]*model.Plan, error) {
	all, err := r.store.List(ctx, "subscriptions")
	if err != nil {
		return nil, err
	}

	plans := make([]*model.Plan, 0, len(all))
	for _, raw := range all {
		var plan model.Plan
		if err := json.Unmarshal(raw, &plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
		}
		plans = append(plans, &plan)
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].Price < plans[j].Price
	})
	return plans, nil
}

// EnsureDefaults 目录为空时懒创建默认套餐，返回是否执行了初始化
func (r *PlanRepository) EnsureDefaults(ctx context.Context) (bool, error) {
	existing, err := r.store.List(ctx, "subscriptions")
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	for _, plan := range model.DefaultPlans() {
		if err := r.Save(ctx, plan); err != nil {
			return false, err
		}
	}
	return true, nil
}

// AppendHistory 追加订阅历史（只追加，不修改）
func (r *PlanRepository) AppendHistory(ctx context.Context, entry *model.SubscriptionHistory) error {
	return r.store.Set(ctx, entry.StorePath(), entry)
}
