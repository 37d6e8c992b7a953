package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvascore/qr_go_server/internal/model"
	"github.com/canvascore/qr_go_server/internal/repository"
	"github.com/canvascore/qr_go_server/internal/store"
	"github.com/canvascore/qr_go_server/internal/testutil"
)

func setupQuotaService(t *testing.T) (*QuotaService, *store.Store) {
	t.Helper()

	s := testutil.SetupTestStore(t)
	userRepo := repository.NewUserRepository(s)
	planRepo := repository.NewPlanRepository(s)

	return NewQuotaService(userRepo, planRepo), s
}

func TestQuotaService_CheckAndReserve_UnderLimit(t *testing.T) {
	service, s := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	testutil.TestPlan(t, s, model.TierFree, 0, 3)
	user := testutil.TestUser(t, s, testutil.WithGenerated(1))

	usage, err := service.CheckAndReserve(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, usage.Current)
	assert.Equal(t, 3, usage.Limit)
	assert.Equal(t, 1, usage.Remaining)
}

func TestQuotaService_CheckAndReserve_AtLimit(t *testing.T) {
	service, s := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	testutil.TestPlan(t, s, model.TierFree, 0, 3)
	user := testutil.TestUser(t, s, testutil.WithGenerated(3))

	_, err := service.CheckAndReserve(ctx, user.ID)
	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 3, quotaErr.Used)
	assert.Equal(t, 3, quotaErr.Limit)
	assert.Equal(t, model.TierFree, quotaErr.Tier)

	// 拒绝时不得递增计数
	found, err := repository.NewUserRepository(s).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, found.QRCodesGenerated)
}

func TestQuotaService_CheckAndReserve_MissingPlanFallsBackToFree(t *testing.T) {
	service, s := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	// 目录为空，按默认 free 套餐（上限 3）判定
	user := testutil.TestUser(t, s, testutil.WithTier("enterprise"), testutil.WithGenerated(3))

	_, err := service.CheckAndReserve(ctx, user.ID)
	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 3, quotaErr.Limit)
}

func TestQuotaService_CheckAndReserve_UserNotFound(t *testing.T) {
	service, _ := setupQuotaService(t)

	_, err := service.CheckAndReserve(testutil.Ctx(t), "user_missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestQuotaService_Refund(t *testing.T) {
	service, s := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	user := testutil.TestUser(t, s, testutil.WithGenerated(2))

	require.NoError(t, service.Refund(ctx, user.ID))

	found, err := repository.NewUserRepository(s).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.QRCodesGenerated)
}

func TestQuotaService_Refund_FloorsAtZero(t *testing.T) {
	service, s := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	user := testutil.TestUser(t, s, testutil.WithGenerated(0))

	require.NoError(t, service.Refund(ctx, user.ID))

	found, err := repository.NewUserRepository(s).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.QRCodesGenerated)
}

func TestQuotaService_ChangeTier_ResetsUsage(t *testing.T) {
	service, s := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	testutil.TestPlan(t, s, model.TierBasic, 299, 10)
	user := testutil.TestUser(t, s, testutil.WithGenerated(3))

	plan, err := service.ChangeTier(ctx, user.ID, model.TierBasic)
	require.NoError(t, err)
	assert.Equal(t, model.TierBasic, plan.Tier)

	found, err := repository.NewUserRepository(s).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TierBasic, found.SubscriptionTier)
	assert.Equal(t, 0, found.QRCodesGenerated)
	assert.True(t, found.SubscriptionActive)
	assert.False(t, found.SubscriptionSince.IsZero())
}

func TestQuotaService_ChangeTier_AppendsHistory(t *testing.T) {
	service, s := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	testutil.TestPlan(t, s, model.TierBasic, 299, 10)
	user := testutil.TestUser(t, s)

	_, err := service.ChangeTier(ctx, user.ID, model.TierBasic)
	require.NoError(t, err)

	entries, err := s.QueryByField(ctx, "subscription_history", "user_id", user.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestQuotaService_ChangeTier_PlanNotFound(t *testing.T) {
	service, s := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	user := testutil.TestUser(t, s)

	_, err := service.ChangeTier(ctx, user.ID, "enterprise")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestQuotaService_UsageSnapshot(t *testing.T) {
	service, s := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	testutil.TestPlan(t, s, model.TierFree, 0, 3)
	user := testutil.TestUser(t, s, testutil.WithGenerated(2))

	snapshot, err := service.UsageSnapshot(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.Used)
	assert.Equal(t, 3, snapshot.Limit)
	assert.Equal(t, 1, snapshot.Remaining)
	assert.Equal(t, model.TierFree, snapshot.SubscriptionTier)
	assert.False(t, snapshot.RequiresUpgrade)
}

func TestQuotaService_UsageSnapshot_OverLimitClampsRemaining(t *testing.T) {
	service, s := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	// 换套餐后计数可能超过新上限
	testutil.TestPlan(t, s, model.TierFree, 0, 3)
	user := testutil.TestUser(t, s, testutil.WithGenerated(5))

	snapshot, err := service.UsageSnapshot(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Remaining)
	assert.True(t, snapshot.RequiresUpgrade)
}

func TestQuotaService_ListPlans_SeedsDefaults(t *testing.T) {
	service, _ := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	plans, seeded, err := service.ListPlans(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
	require.Len(t, plans, 2)
	assert.Equal(t, model.TierFree, plans[0].Tier)
	assert.Equal(t, model.TierBasic, plans[1].Tier)

	// 第二次读取不再初始化
	_, seeded, err = service.ListPlans(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestQuotaService_Subscribe_FreeToBasic(t *testing.T) {
	service, s := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	testutil.TestPlan(t, s, model.TierBasic, 299, 10)
	user := testutil.TestUser(t, s, testutil.WithGenerated(3))

	resp, err := service.Subscribe(ctx, user.ID, model.TierBasic)
	require.NoError(t, err)
	require.NotNil(t, resp.Subscription)
	assert.Equal(t, model.TierBasic, resp.Subscription.Tier)
	assert.Equal(t, float64(299), resp.Subscription.Price)
	assert.Equal(t, 10, resp.Subscription.QRCodesLimit)
	require.NotNil(t, resp.Reset)
	assert.Equal(t, 0, resp.Reset.QRCodesGenerated)

	// 升级后可以立即生成，配额从 0/10 起算
	usage, err := service.CheckAndReserve(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, usage.Current)
	assert.Equal(t, 10, usage.Limit)
	assert.Equal(t, 9, usage.Remaining)
}

func TestQuotaService_MySubscription(t *testing.T) {
	service, s := setupQuotaService(t)
	ctx := testutil.Ctx(t)

	testutil.TestPlan(t, s, model.TierBasic, 299, 10)
	user := testutil.TestUser(t, s, testutil.WithTier(model.TierBasic), testutil.WithGenerated(4))

	resp, err := service.MySubscription(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TierBasic, resp.Tier)
	assert.Equal(t, 4, resp.CurrentUsage)
	assert.Equal(t, 6, resp.Remaining)
	assert.Equal(t, float64(299), resp.Price)
}
