// internal/service/subscription/subscription_service.go
package subscription

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"primeplus-service/internal/config"
	"primeplus-service/internal/domain/plan"
	"primeplus-service/internal/domain/subscription"
	xerrors "primeplus-service/internal/pkg/errors"
	"primeplus-service/internal/service/pricing"

	"go.uber.org/zap"
)

// SubscriptionService owns subscription creation, status transitions and
// billing-window computation.
type SubscriptionService struct {
	subscriptionRepo subscription.Repository
	planRepo         plan.Repository
	pricing          *pricing.Calculator
	policy           config.PricingPolicy
	logger           *zap.Logger
	now              func() time.Time
}

func NewSubscriptionService(
	subscriptionRepo subscription.Repository,
	planRepo plan.Repository,
	calculator *pricing.Calculator,
	policy config.PricingPolicy,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		pricing:          calculator,
		policy:           policy,
		logger:           logger,
		now:              time.Now,
	}
}

// CreateSubscription binds the subscriber to the creator's plan. Validation
// is fail-fast: no write happens until every check passes. The final write
// is a conditional claim of the deterministic pair slot, so concurrent
// creations for the same pair resolve to exactly one active subscription.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, subscriberID string, req *subscription.CreateSubscriptionRequest) (*subscription.UserSubscription, error) {
	p, err := s.planRepo.FindByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	if p.CreatorID != req.CreatorID {
		return nil, xerrors.ErrPlanCreatorMismatch
	}

	if !p.IsActive {
		return nil, xerrors.ErrPlanInactive
	}

	if p.Price != 0 && (p.Price < s.policy.MinPaidPrice || p.Price > s.policy.MaxPaidPrice) {
		return nil, xerrors.ErrPriceOutOfBounds
	}

	if subscriberID == req.CreatorID {
		return nil, xerrors.ErrSelfSubscription
	}

	// Cheap pre-check before promo work. The conditional write below is the
	// authoritative guard.
	if existing, err := s.subscriptionRepo.FindActiveByPair(ctx, subscriberID, req.CreatorID); err == nil && existing != nil {
		return nil, xerrors.ErrAlreadySubscribed
	} else if err != nil && !errors.Is(err, xerrors.ErrSubscriptionNotFound) {
		return nil, err
	}

	now := s.now()

	_, applied, err := s.pricing.ApplyPromo(ctx, p, req.PromoCode, now)
	if err != nil {
		return nil, err
	}

	sub := &subscription.UserSubscription{
		ID:           subscription.PairID(subscriberID, req.CreatorID),
		SubscriberID: subscriberID,
		CreatorID:    req.CreatorID,
		PlanID:       p.ID,
		Status:       subscription.StatusActive,
		StartDate:    now,
		IsBundle:     req.IsBundle,
	}

	switch {
	case req.IsBundle:
		// One-time purchase: no billing date is ever computed here. The
		// bundle's end date is an explicit caller input.
		sub.IsRecurring = false
		if req.BundleEndDate != nil {
			sub.EndDate = sql.NullTime{Time: *req.BundleEndDate, Valid: true}
		}
	default:
		sub.IsRecurring = true
		if interval, count, ok := p.Interval(); ok && p.Price > 0 {
			end := plan.AddInterval(now, interval, count)
			sub.EndDate = sql.NullTime{Time: end, Valid: true}
			sub.NextBillingDate = sql.NullTime{Time: end, Valid: true}
			sub.WillRenew = true
		}
		// Free or indefinite plans keep a null billing window.
	}

	if applied != nil {
		sub.PromoCode = sql.NullString{String: applied.Code, Valid: true}
		sub.PromoDiscountPercent = sql.NullFloat64{Float64: applied.DiscountPercent, Valid: true}
		sub.PromoID = sql.NullString{String: applied.PromoID, Valid: true}
		sub.FinalPrice = sql.NullFloat64{Float64: applied.FinalPrice, Valid: true}
	}

	if err := s.subscriptionRepo.CreateActive(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("subscription created",
		zap.String("subscription_id", sub.ID),
		zap.String("plan_id", p.ID),
		zap.Bool("is_bundle", sub.IsBundle),
		zap.Bool("recurring_billing", sub.NextBillingDate.Valid),
	)

	return sub, nil
}

// CancelSubscription is the one-way terminal transition for a subscription.
// Only the owning subscriber may cancel. When the record never stored an end
// date, it is reconstructed from the plan's interval applied to the start
// date; if the plan is gone or carries no interval data, the subscriber
// keeps a fixed fallback window from the start date instead.
func (s *SubscriptionService) CancelSubscription(ctx context.Context, subscriptionID, callerID string) (*subscription.CancelResult, error) {
	sub, err := s.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	if sub.SubscriberID != callerID {
		return nil, xerrors.ErrNotAuthorized
	}

	if !sub.IsTerminable() {
		return nil, xerrors.ErrAlreadyInactive
	}

	now := s.now()

	newStatus := subscription.StatusCancelled
	if sub.EndDate.Valid && !sub.EndDate.Time.After(now) {
		newStatus = subscription.StatusExpired
	}

	estimated := false
	if !sub.EndDate.Valid {
		sub.EndDate = s.resolveEndDate(ctx, sub, &estimated)
	}

	sub.Status = newStatus
	sub.NextBillingDate = sql.NullTime{}
	sub.WillRenew = false

	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("subscription cancelled",
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(sub.Status)),
		zap.Bool("end_date_estimated", estimated),
	)

	return &subscription.CancelResult{Subscription: sub, EndDateEstimated: estimated}, nil
}

func (s *SubscriptionService) resolveEndDate(ctx context.Context, sub *subscription.UserSubscription, estimated *bool) sql.NullTime {
	if p, err := s.planRepo.FindByID(ctx, sub.PlanID); err == nil {
		if interval, count, ok := p.Interval(); ok {
			return sql.NullTime{Time: plan.AddInterval(sub.StartDate, interval, count), Valid: true}
		}
	} else if !errors.Is(err, xerrors.ErrPlanNotFound) {
		s.logger.Error("failed to load plan during cancellation", zap.String("plan_id", sub.PlanID), zap.Error(err))
	}

	// Documented policy: with no resolvable interval the subscriber keeps a
	// fixed window from the start date rather than losing access instantly.
	*estimated = true
	s.logger.Warn("end date unresolvable, applying fallback window",
		zap.String("subscription_id", sub.ID),
		zap.String("plan_id", sub.PlanID),
		zap.Int("fallback_days", s.policy.CancelFallbackDays),
	)
	return sql.NullTime{Time: sub.StartDate.AddDate(0, 0, s.policy.CancelFallbackDays), Valid: true}
}

// GetLatestSubscriptionToCreator returns the newest record for the pair
// regardless of status.
func (s *SubscriptionService) GetLatestSubscriptionToCreator(ctx context.Context, subscriberID, creatorID string) (*subscription.UserSubscription, error) {
	return s.subscriptionRepo.FindLatestByPair(ctx, subscriberID, creatorID)
}

// GetActiveSubscriptionToCreator returns the pair's active subscription, if any.
func (s *SubscriptionService) GetActiveSubscriptionToCreator(ctx context.Context, subscriberID, creatorID string) (*subscription.UserSubscription, error) {
	return s.subscriptionRepo.FindActiveByPair(ctx, subscriberID, creatorID)
}

// GetSubscriptionsBySubscriber returns all of a subscriber's records, newest first.
func (s *SubscriptionService) GetSubscriptionsBySubscriber(ctx context.Context, subscriberID string) ([]subscription.UserSubscription, error) {
	return s.subscriptionRepo.FindBySubscriber(ctx, subscriberID)
}

// GetSubscribersForCreator returns only currently entitled subscribers:
// active or trialing, plus cancelled ones still inside their paid window.
func (s *SubscriptionService) GetSubscribersForCreator(ctx context.Context, creatorID string) ([]subscription.UserSubscription, error) {
	return s.subscriptionRepo.FindEntitledByCreator(ctx, creatorID)
}
