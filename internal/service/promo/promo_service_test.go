package promo

import (
	"context"
	"testing"
	"time"

	"primeplus-service/internal/domain/plan"
	"primeplus-service/internal/domain/promo"
	xerrors "primeplus-service/internal/pkg/errors"
	"primeplus-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*PromoService, *memory.PlanRepository) {
	t.Helper()
	promoRepo := memory.NewPromoRepository()
	planRepo := memory.NewPlanRepository()
	return NewPromoService(promoRepo, planRepo, zap.NewNop()), planRepo
}

func seedPlan(t *testing.T, repo *memory.PlanRepository, creatorID string) plan.Plan {
	t.Helper()
	p := plan.Plan{CreatorID: creatorID, Name: "Plan", Price: 9.99, Currency: "USD", IsActive: true, AccessLevel: plan.AccessPublic}
	require.NoError(t, repo.Create(context.Background(), &p))
	return p
}

func TestCreatePromo(t *testing.T) {
	svc, planRepo := newService(t)
	p := seedPlan(t, planRepo, "creator-1")
	expires := time.Now().AddDate(0, 1, 0)

	pc, err := svc.CreatePromo(context.Background(), "creator-1", &promo.CreatePromoRequest{
		Code:              "SPRING25",
		DiscountPercent:   25,
		ApplicablePlanIDs: []string{p.ID},
		ExpiresAt:         &expires,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, pc.ID)
	assert.Equal(t, "creator-1", pc.CreatorID)
	assert.True(t, pc.IsActive)
	assert.True(t, pc.ExpiresAt.Valid)
	assert.True(t, pc.AppliesTo(p.ID))
}

func TestCreatePromoRejectsForeignPlan(t *testing.T) {
	svc, planRepo := newService(t)
	theirs := seedPlan(t, planRepo, "creator-2")

	_, err := svc.CreatePromo(context.Background(), "creator-1", &promo.CreatePromoRequest{
		Code:              "SPRING25",
		DiscountPercent:   25,
		ApplicablePlanIDs: []string{theirs.ID},
	})

	assert.ErrorIs(t, err, xerrors.ErrInvalidPlan)
}

func TestCreatePromoRejectsUnknownPlan(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreatePromo(context.Background(), "creator-1", &promo.CreatePromoRequest{
		Code:              "SPRING25",
		DiscountPercent:   25,
		ApplicablePlanIDs: []string{"missing"},
	})

	assert.ErrorIs(t, err, xerrors.ErrInvalidPlan)
}

func TestUpdatePromo(t *testing.T) {
	svc, planRepo := newService(t)
	p := seedPlan(t, planRepo, "creator-1")
	ctx := context.Background()

	pc, err := svc.CreatePromo(ctx, "creator-1", &promo.CreatePromoRequest{
		Code:              "SPRING25",
		DiscountPercent:   25,
		ApplicablePlanIDs: []string{p.ID},
	})
	require.NoError(t, err)

	newDiscount := 50.0
	inactive := false
	updated, err := svc.UpdatePromo(ctx, pc.ID, "creator-1", &promo.UpdatePromoRequest{
		DiscountPercent: &newDiscount,
		IsActive:        &inactive,
	})

	require.NoError(t, err)
	assert.Equal(t, 50.0, updated.DiscountPercent)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "SPRING25", updated.Code, "code is immutable on update")
}

func TestUpdatePromoOwnership(t *testing.T) {
	svc, planRepo := newService(t)
	p := seedPlan(t, planRepo, "creator-1")
	ctx := context.Background()

	pc, err := svc.CreatePromo(ctx, "creator-1", &promo.CreatePromoRequest{
		Code:              "SPRING25",
		DiscountPercent:   25,
		ApplicablePlanIDs: []string{p.ID},
	})
	require.NoError(t, err)

	newDiscount := 50.0
	_, err = svc.UpdatePromo(ctx, pc.ID, "creator-2", &promo.UpdatePromoRequest{DiscountPercent: &newDiscount})
	assert.ErrorIs(t, err, xerrors.ErrForbidden)
}

func TestDeletePromo(t *testing.T) {
	svc, planRepo := newService(t)
	p := seedPlan(t, planRepo, "creator-1")
	ctx := context.Background()

	pc, err := svc.CreatePromo(ctx, "creator-1", &promo.CreatePromoRequest{
		Code:              "SPRING25",
		DiscountPercent:   25,
		ApplicablePlanIDs: []string{p.ID},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeletePromo(ctx, pc.ID, "creator-2"), xerrors.ErrForbidden)
	require.NoError(t, svc.DeletePromo(ctx, pc.ID, "creator-1"))

	promos, err := svc.GetPromosByCreator(ctx, "creator-1")
	require.NoError(t, err)
	assert.Empty(t, promos)
}
