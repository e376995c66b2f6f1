package subscription

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"primeplus-service/internal/config"
	"primeplus-service/internal/domain/plan"
	"primeplus-service/internal/domain/promo"
	"primeplus-service/internal/domain/subscription"
	xerrors "primeplus-service/internal/pkg/errors"
	"primeplus-service/internal/repository/memory"
	"primeplus-service/internal/service/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testPolicy = config.PricingPolicy{
	MinPaidPrice:       4.99,
	MaxPaidPrice:       50.00,
	PromoPriceScale:    2,
	CancelFallbackDays: 30,
}

// Calendar-edge arithmetic is covered in the plan package; here the clock is
// pinned near the real one so window checks against the record store agree
// with the injected service clock.
var testNow = time.Now().UTC().Truncate(time.Second)

type fixture struct {
	svc    *SubscriptionService
	plans  *memory.PlanRepository
	promos *memory.PromoRepository
	subs   *memory.SubscriptionRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	plans := memory.NewPlanRepository()
	promos := memory.NewPromoRepository()
	subs := memory.NewSubscriptionRepository()

	logger := zap.NewNop()
	calc := pricing.NewCalculator(promos, testPolicy, logger)
	svc := NewSubscriptionService(subs, plans, calc, testPolicy, logger)
	svc.now = func() time.Time { return testNow }

	return &fixture{svc: svc, plans: plans, promos: promos, subs: subs}
}

func (f *fixture) seedPlan(t *testing.T, p plan.Plan) plan.Plan {
	t.Helper()
	require.NoError(t, f.plans.Create(context.Background(), &p))
	return p
}

func (f *fixture) seedPromo(t *testing.T, pc promo.PromoCode) promo.PromoCode {
	t.Helper()
	require.NoError(t, f.promos.Create(context.Background(), &pc))
	return pc
}

func monthlyPlan(creatorID string, price float64) plan.Plan {
	return plan.Plan{
		CreatorID:       creatorID,
		Name:            "Monthly",
		Price:           price,
		Currency:        "USD",
		BillingInterval: sql.NullString{String: "month", Valid: true},
		IntervalCount:   sql.NullInt32{Int32: 1, Valid: true},
		IsActive:        true,
		AccessLevel:     plan.AccessSubscribers,
	}
}

func TestCreateSubscriptionRecurringPaid(t *testing.T) {
	f := newFixture(t)
	p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))

	sub, err := f.svc.CreateSubscription(context.Background(), "fan-1", &subscription.CreateSubscriptionRequest{
		CreatorID: "creator-1",
		PlanID:    p.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, "fan-1_creator-1", sub.ID)
	assert.Equal(t, subscription.StatusActive, sub.Status)
	assert.Equal(t, testNow, sub.StartDate)
	assert.True(t, sub.IsRecurring)
	assert.False(t, sub.IsBundle)
	assert.True(t, sub.WillRenew)

	wantEnd := plan.AddInterval(testNow, plan.IntervalMonth, 1)
	require.True(t, sub.EndDate.Valid)
	assert.Equal(t, wantEnd, sub.EndDate.Time)
	require.True(t, sub.NextBillingDate.Valid)
	assert.Equal(t, wantEnd, sub.NextBillingDate.Time)

	assert.False(t, sub.PromoCode.Valid)
	assert.False(t, sub.FinalPrice.Valid)
}

func TestCreateSubscriptionFreePlan(t *testing.T) {
	f := newFixture(t)
	p := f.seedPlan(t, plan.Plan{
		CreatorID:   "creator-1",
		Name:        "Free",
		Price:       0,
		Currency:    "USD",
		IsActive:    true,
		AccessLevel: plan.AccessPublic,
	})

	sub, err := f.svc.CreateSubscription(context.Background(), "fan-1", &subscription.CreateSubscriptionRequest{
		CreatorID: "creator-1",
		PlanID:    p.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, subscription.StatusActive, sub.Status)
	assert.True(t, sub.IsRecurring)
	assert.False(t, sub.WillRenew)
	assert.False(t, sub.EndDate.Valid)
	assert.False(t, sub.NextBillingDate.Valid)
}

func TestCreateSubscriptionBundle(t *testing.T) {
	f := newFixture(t)
	p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))
	bundleEnd := testNow.AddDate(0, 3, 0)

	sub, err := f.svc.CreateSubscription(context.Background(), "fan-1", &subscription.CreateSubscriptionRequest{
		CreatorID:     "creator-1",
		PlanID:        p.ID,
		IsBundle:      true,
		BundleEndDate: &bundleEnd,
	})

	require.NoError(t, err)
	assert.True(t, sub.IsBundle)
	assert.False(t, sub.IsRecurring)
	assert.False(t, sub.WillRenew)
	require.True(t, sub.EndDate.Valid)
	assert.Equal(t, bundleEnd, sub.EndDate.Time)
	assert.False(t, sub.NextBillingDate.Valid, "bundles never get a billing date")
}

func TestCreateSubscriptionWithPromo(t *testing.T) {
	f := newFixture(t)
	p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))
	pc := f.seedPromo(t, promo.PromoCode{
		CreatorID:         "creator-1",
		Code:              "SPRING25",
		DiscountPercent:   25,
		ApplicablePlanIDs: []string{p.ID},
		IsActive:          true,
	})

	sub, err := f.svc.CreateSubscription(context.Background(), "fan-1", &subscription.CreateSubscriptionRequest{
		CreatorID: "creator-1",
		PlanID:    p.ID,
		PromoCode: "SPRING25",
	})

	require.NoError(t, err)
	require.True(t, sub.FinalPrice.Valid)
	assert.Equal(t, 15.00, sub.FinalPrice.Float64)
	assert.Equal(t, "SPRING25", sub.PromoCode.String)
	assert.Equal(t, pc.ID, sub.PromoID.String)
	assert.Equal(t, 25.0, sub.PromoDiscountPercent.Float64)
}

func TestCreateSubscriptionInvalidPromoBlocksCreation(t *testing.T) {
	f := newFixture(t)
	p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))

	_, err := f.svc.CreateSubscription(context.Background(), "fan-1", &subscription.CreateSubscriptionRequest{
		CreatorID: "creator-1",
		PlanID:    p.ID,
		PromoCode: "NOPE",
	})

	assert.ErrorIs(t, err, xerrors.ErrInvalidPromo)

	_, err = f.subs.FindLatestByPair(context.Background(), "fan-1", "creator-1")
	assert.ErrorIs(t, err, xerrors.ErrSubscriptionNotFound, "no record may be written on a failed validation")
}

func TestCreateSubscriptionValidationChain(t *testing.T) {
	t.Run("plan not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateSubscription(context.Background(), "fan-1", &subscription.CreateSubscriptionRequest{
			CreatorID: "creator-1",
			PlanID:    "missing",
		})
		assert.ErrorIs(t, err, xerrors.ErrPlanNotFound)
	})

	t.Run("plan owned by another creator", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(t, monthlyPlan("creator-2", 20.00))
		_, err := f.svc.CreateSubscription(context.Background(), "fan-1", &subscription.CreateSubscriptionRequest{
			CreatorID: "creator-1",
			PlanID:    p.ID,
		})
		assert.ErrorIs(t, err, xerrors.ErrPlanCreatorMismatch)
	})

	t.Run("inactive plan", func(t *testing.T) {
		f := newFixture(t)
		pl := monthlyPlan("creator-1", 20.00)
		pl.IsActive = false
		p := f.seedPlan(t, pl)
		_, err := f.svc.CreateSubscription(context.Background(), "fan-1", &subscription.CreateSubscriptionRequest{
			CreatorID: "creator-1",
			PlanID:    p.ID,
		})
		assert.ErrorIs(t, err, xerrors.ErrPlanInactive)
	})

	t.Run("self subscription", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))
		_, err := f.svc.CreateSubscription(context.Background(), "creator-1", &subscription.CreateSubscriptionRequest{
			CreatorID: "creator-1",
			PlanID:    p.ID,
		})
		assert.ErrorIs(t, err, xerrors.ErrSelfSubscription)
	})

	t.Run("already subscribed", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))
		req := &subscription.CreateSubscriptionRequest{CreatorID: "creator-1", PlanID: p.ID}

		_, err := f.svc.CreateSubscription(context.Background(), "fan-1", req)
		require.NoError(t, err)

		_, err = f.svc.CreateSubscription(context.Background(), "fan-1", req)
		assert.ErrorIs(t, err, xerrors.ErrAlreadySubscribed)
	})
}

func TestCreateSubscriptionPriceBounds(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		wantErr error
	}{
		{"below minimum", 3.00, xerrors.ErrPriceOutOfBounds},
		{"at minimum", 4.99, nil},
		{"at maximum", 50.00, nil},
		{"above maximum", 50.01, xerrors.ErrPriceOutOfBounds},
		{"free is exempt", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.seedPlan(t, monthlyPlan("creator-1", tt.price))

			_, err := f.svc.CreateSubscription(context.Background(), "fan-1", &subscription.CreateSubscriptionRequest{
				CreatorID: "creator-1",
				PlanID:    p.ID,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateSubscriptionConcurrentClaims(t *testing.T) {
	f := newFixture(t)
	p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))
	req := &subscription.CreateSubscriptionRequest{CreatorID: "creator-1", PlanID: p.ID}

	const attempts = 16
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.CreateSubscription(context.Background(), "fan-1", req)
		}(i)
	}
	wg.Wait()

	var created, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		default:
			assert.ErrorIs(t, err, xerrors.ErrAlreadySubscribed)
			rejected++
		}
	}
	assert.Equal(t, 1, created, "exactly one claim must win")
	assert.Equal(t, attempts-1, rejected)
}

func TestCancelSubscription(t *testing.T) {
	t.Run("future end date cancels", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))
		sub, err := f.svc.CreateSubscription(context.Background(), "fan-1", &subscription.CreateSubscriptionRequest{
			CreatorID: "creator-1",
			PlanID:    p.ID,
		})
		require.NoError(t, err)

		result, err := f.svc.CancelSubscription(context.Background(), sub.ID, "fan-1")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusCancelled, result.Subscription.Status)
		assert.False(t, result.Subscription.NextBillingDate.Valid)
		assert.False(t, result.Subscription.WillRenew)
		assert.False(t, result.EndDateEstimated)
		assert.Equal(t, sub.EndDate.Time, result.Subscription.EndDate.Time, "paid window is kept on cancel")
	})

	t.Run("past end date expires", func(t *testing.T) {
		f := newFixture(t)
		past := testNow.AddDate(0, -1, 0)
		sub := &subscription.UserSubscription{
			ID:           subscription.PairID("fan-1", "creator-1"),
			SubscriberID: "fan-1",
			CreatorID:    "creator-1",
			PlanID:       "plan-x",
			Status:       subscription.StatusActive,
			StartDate:    testNow.AddDate(0, -2, 0),
			EndDate:      sql.NullTime{Time: past, Valid: true},
		}
		require.NoError(t, f.subs.CreateActive(context.Background(), sub))

		result, err := f.svc.CancelSubscription(context.Background(), sub.ID, "fan-1")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusExpired, result.Subscription.Status)
	})

	t.Run("missing end date reconstructed from plan", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))
		start := time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC)
		sub := &subscription.UserSubscription{
			ID:           subscription.PairID("fan-1", "creator-1"),
			SubscriberID: "fan-1",
			CreatorID:    "creator-1",
			PlanID:       p.ID,
			Status:       subscription.StatusActive,
			StartDate:    start,
		}
		require.NoError(t, f.subs.CreateActive(context.Background(), sub))

		result, err := f.svc.CancelSubscription(context.Background(), sub.ID, "fan-1")
		require.NoError(t, err)
		assert.False(t, result.EndDateEstimated)
		require.True(t, result.Subscription.EndDate.Valid)
		assert.Equal(t, time.Date(2024, time.May, 10, 9, 0, 0, 0, time.UTC), result.Subscription.EndDate.Time)
		assert.Equal(t, subscription.StatusCancelled, result.Subscription.Status)
	})

	t.Run("unresolvable end date falls back to fixed window", func(t *testing.T) {
		f := newFixture(t)
		start := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
		sub := &subscription.UserSubscription{
			ID:           subscription.PairID("fan-1", "creator-1"),
			SubscriberID: "fan-1",
			CreatorID:    "creator-1",
			PlanID:       "deleted-plan",
			Status:       subscription.StatusActive,
			StartDate:    start,
		}
		require.NoError(t, f.subs.CreateActive(context.Background(), sub))

		result, err := f.svc.CancelSubscription(context.Background(), sub.ID, "fan-1")
		require.NoError(t, err)
		assert.True(t, result.EndDateEstimated)
		require.True(t, result.Subscription.EndDate.Valid)
		assert.Equal(t, start.AddDate(0, 0, 30), result.Subscription.EndDate.Time)
	})

	t.Run("only the subscriber may cancel", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))
		sub, err := f.svc.CreateSubscription(context.Background(), "fan-1", &subscription.CreateSubscriptionRequest{
			CreatorID: "creator-1",
			PlanID:    p.ID,
		})
		require.NoError(t, err)

		_, err = f.svc.CancelSubscription(context.Background(), sub.ID, "creator-1")
		assert.ErrorIs(t, err, xerrors.ErrNotAuthorized)

		_, err = f.svc.CancelSubscription(context.Background(), sub.ID, "fan-2")
		assert.ErrorIs(t, err, xerrors.ErrNotAuthorized)
	})

	t.Run("second cancel is rejected", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))
		sub, err := f.svc.CreateSubscription(context.Background(), "fan-1", &subscription.CreateSubscriptionRequest{
			CreatorID: "creator-1",
			PlanID:    p.ID,
		})
		require.NoError(t, err)

		_, err = f.svc.CancelSubscription(context.Background(), sub.ID, "fan-1")
		require.NoError(t, err)

		_, err = f.svc.CancelSubscription(context.Background(), sub.ID, "fan-1")
		assert.ErrorIs(t, err, xerrors.ErrAlreadyInactive)
	})

	t.Run("unknown subscription", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CancelSubscription(context.Background(), "nope", "fan-1")
		assert.ErrorIs(t, err, xerrors.ErrSubscriptionNotFound)
	})
}

func TestResubscribeAfterCancel(t *testing.T) {
	f := newFixture(t)
	p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))
	req := &subscription.CreateSubscriptionRequest{CreatorID: "creator-1", PlanID: p.ID}

	first, err := f.svc.CreateSubscription(context.Background(), "fan-1", req)
	require.NoError(t, err)

	_, err = f.svc.CancelSubscription(context.Background(), first.ID, "fan-1")
	require.NoError(t, err)

	second, err := f.svc.CreateSubscription(context.Background(), "fan-1", req)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "the pair slot is reused")
	assert.Equal(t, subscription.StatusActive, second.Status)
}

func TestGetSubscribersForCreator(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seed := func(id string, sub subscription.UserSubscription) {
		sub.ID = subscription.PairID(id, "creator-1")
		sub.SubscriberID = id
		sub.CreatorID = "creator-1"
		sub.PlanID = "plan-1"
		sub.StartDate = testNow.AddDate(0, -1, 0)
		require.NoError(t, f.subs.CreateActive(ctx, &sub))
	}

	seed("fan-active", subscription.UserSubscription{Status: subscription.StatusActive})
	seed("fan-trial", subscription.UserSubscription{Status: subscription.StatusFreeTrial})
	seed("fan-grace", subscription.UserSubscription{
		Status:  subscription.StatusCancelled,
		EndDate: sql.NullTime{Time: testNow.AddDate(0, 1, 0), Valid: true},
	})
	seed("fan-lapsed", subscription.UserSubscription{
		Status:  subscription.StatusCancelled,
		EndDate: sql.NullTime{Time: testNow.AddDate(0, -1, 0), Valid: true},
	})
	seed("fan-expired", subscription.UserSubscription{Status: subscription.StatusExpired})

	subs, err := f.svc.GetSubscribersForCreator(ctx, "creator-1")
	require.NoError(t, err)

	var ids []string
	for _, s := range subs {
		ids = append(ids, s.SubscriberID)
	}
	assert.ElementsMatch(t, []string{"fan-active", "fan-trial", "fan-grace"}, ids)
}

func TestSubscriptionLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.seedPlan(t, monthlyPlan("creator-1", 20.00))
	f.seedPromo(t, promo.PromoCode{
		CreatorID:         "creator-1",
		Code:              "WELCOME25",
		DiscountPercent:   25,
		ApplicablePlanIDs: []string{p.ID},
		IsActive:          true,
	})

	// Subscribe with the promo.
	sub, err := f.svc.CreateSubscription(ctx, "fan-1", &subscription.CreateSubscriptionRequest{
		CreatorID: "creator-1",
		PlanID:    p.ID,
		PromoCode: "WELCOME25",
	})
	require.NoError(t, err)
	assert.Equal(t, 15.00, sub.FinalPrice.Float64)
	assert.Equal(t, plan.AddInterval(testNow, plan.IntervalMonth, 1), sub.NextBillingDate.Time)

	// Visible as the pair's active subscription and in the creator's audience.
	active, err := f.svc.GetActiveSubscriptionToCreator(ctx, "fan-1", "creator-1")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, active.ID)

	audience, err := f.svc.GetSubscribersForCreator(ctx, "creator-1")
	require.NoError(t, err)
	require.Len(t, audience, 1)

	// Cancel: access survives to the end of the paid window.
	result, err := f.svc.CancelSubscription(ctx, sub.ID, "fan-1")
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusCancelled, result.Subscription.Status)
	assert.Equal(t, sub.EndDate.Time, result.Subscription.EndDate.Time)

	_, err = f.svc.GetActiveSubscriptionToCreator(ctx, "fan-1", "creator-1")
	assert.ErrorIs(t, err, xerrors.ErrSubscriptionNotFound)

	audience, err = f.svc.GetSubscribersForCreator(ctx, "creator-1")
	require.NoError(t, err)
	require.Len(t, audience, 1, "cancelled but inside the paid window still counts")

	latest, err := f.svc.GetLatestSubscriptionToCreator(ctx, "fan-1", "creator-1")
	require.NoError(t, err)
	assert.Equal(t, subscription.StatusCancelled, latest.Status)
}
