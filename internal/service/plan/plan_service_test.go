package plan

import (
	"context"
	"sync"
	"testing"

	"primeplus-service/internal/domain/plan"
	xerrors "primeplus-service/internal/pkg/errors"
	"primeplus-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakePlanCache records cache traffic so the read-through behavior is
// observable without Redis.
type fakePlanCache struct {
	mu    sync.Mutex
	plans map[string]*plan.Plan
	hits  int
}

func newFakePlanCache() *fakePlanCache {
	return &fakePlanCache{plans: make(map[string]*plan.Plan)}
}

func (c *fakePlanCache) GetPlan(ctx context.Context, id string) (*plan.Plan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.plans[id]; ok {
		c.hits++
		return p, nil
	}
	return nil, nil
}

func (c *fakePlanCache) SetPlan(ctx context.Context, p *plan.Plan) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plans[p.ID] = p
	return nil
}

func (c *fakePlanCache) DeletePlan(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.plans, id)
	return nil
}

func newService(t *testing.T) (*PlanService, *memory.PlanRepository, *fakePlanCache) {
	t.Helper()
	repo := memory.NewPlanRepository()
	cache := newFakePlanCache()
	return NewPlanService(repo, cache, zap.NewNop()), repo, cache
}

func TestCreatePlanDefaults(t *testing.T) {
	svc, _, _ := newService(t)

	p, err := svc.CreatePlan(context.Background(), "creator-1", &plan.CreatePlanRequest{
		Name:  "Supporter",
		Price: 9.99,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "creator-1", p.CreatorID)
	assert.Equal(t, "USD", p.Currency)
	assert.True(t, p.IsActive)
	assert.Equal(t, plan.AccessPublic, p.AccessLevel)
	assert.False(t, p.BillingInterval.Valid)
	assert.False(t, p.IntervalCount.Valid)
}

func TestCreatePlanExplicitFields(t *testing.T) {
	svc, _, _ := newService(t)
	inactive := false

	p, err := svc.CreatePlan(context.Background(), "creator-1", &plan.CreatePlanRequest{
		Name:            "Annual VIP",
		Description:     "Everything, billed yearly",
		Price:           49.99,
		Currency:        "eur",
		BillingInterval: "year",
		IntervalCount:   1,
		IsActive:        &inactive,
		AccessLevel:     plan.AccessSubscribers,
	})

	require.NoError(t, err)
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, "year", p.BillingInterval.String)
	assert.Equal(t, int32(1), p.IntervalCount.Int32)
	assert.False(t, p.IsActive)
	assert.Equal(t, plan.AccessSubscribers, p.AccessLevel)
	assert.Equal(t, "Everything, billed yearly", p.Description.String)
}

func TestGetPlanReadThrough(t *testing.T) {
	svc, _, cache := newService(t)
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, "creator-1", &plan.CreatePlanRequest{Name: "Supporter", Price: 9.99})
	require.NoError(t, err)

	got, err := svc.GetPlan(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, 0, cache.hits, "first read misses and fills the cache")

	got, err = svc.GetPlan(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, 1, cache.hits, "second read is served from the cache")
}

func TestGetPlanNotFound(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.GetPlan(context.Background(), "missing")
	assert.ErrorIs(t, err, xerrors.ErrPlanNotFound)
}

func TestGetPlanNilCache(t *testing.T) {
	repo := memory.NewPlanRepository()
	svc := NewPlanService(repo, nil, zap.NewNop())
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, "creator-1", &plan.CreatePlanRequest{Name: "Supporter", Price: 9.99})
	require.NoError(t, err)

	got, err := svc.GetPlan(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestUpdatePlan(t *testing.T) {
	svc, _, cache := newService(t)
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, "creator-1", &plan.CreatePlanRequest{Name: "Supporter", Price: 9.99})
	require.NoError(t, err)

	// Warm the cache so the update has something to invalidate.
	_, err = svc.GetPlan(ctx, p.ID)
	require.NoError(t, err)

	newName := "Super Supporter"
	newPrice := 14.99
	updated, err := svc.UpdatePlan(ctx, p.ID, "creator-1", &plan.UpdatePlanRequest{
		Name:  &newName,
		Price: &newPrice,
	})

	require.NoError(t, err)
	assert.Equal(t, "Super Supporter", updated.Name)
	assert.Equal(t, 14.99, updated.Price)
	assert.Equal(t, "USD", updated.Currency, "untouched fields survive the merge")

	cached, err := cache.GetPlan(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, cached, "update invalidates the cache entry")
}

func TestUpdatePlanOwnership(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, "creator-1", &plan.CreatePlanRequest{Name: "Supporter", Price: 9.99})
	require.NoError(t, err)

	name := "Hijacked"
	_, err = svc.UpdatePlan(ctx, p.ID, "creator-2", &plan.UpdatePlanRequest{Name: &name})
	assert.ErrorIs(t, err, xerrors.ErrPlanCreatorMismatch)
}

func TestDeletePlan(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, "creator-1", &plan.CreatePlanRequest{Name: "Supporter", Price: 9.99})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlan(ctx, p.ID, "creator-1"))

	_, err = svc.GetPlan(ctx, p.ID)
	assert.ErrorIs(t, err, xerrors.ErrPlanNotFound)
}

func TestDeletePlanOwnership(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	p, err := svc.CreatePlan(ctx, "creator-1", &plan.CreatePlanRequest{Name: "Supporter", Price: 9.99})
	require.NoError(t, err)

	err = svc.DeletePlan(ctx, p.ID, "creator-2")
	assert.ErrorIs(t, err, xerrors.ErrPlanCreatorMismatch)

	_, err = svc.GetPlan(ctx, p.ID)
	assert.NoError(t, err, "plan survives the rejected delete")
}

func TestGetPlansByCreator(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreatePlan(ctx, "creator-1", &plan.CreatePlanRequest{Name: "Basic", Price: 4.99})
	require.NoError(t, err)
	_, err = svc.CreatePlan(ctx, "creator-1", &plan.CreatePlanRequest{Name: "Premium", Price: 19.99})
	require.NoError(t, err)
	_, err = svc.CreatePlan(ctx, "creator-2", &plan.CreatePlanRequest{Name: "Other", Price: 9.99})
	require.NoError(t, err)

	plans, err := svc.GetPlansByCreator(ctx, "creator-1")
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	for _, p := range plans {
		assert.Equal(t, "creator-1", p.CreatorID)
	}
}
