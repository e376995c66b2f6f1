// internal/service/plan/plan_service.go
package plan

import (
	"context"
	"database/sql"
	"strings"

	"primeplus-service/internal/caching"
	"primeplus-service/internal/domain/plan"
	xerrors "primeplus-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// PlanService owns the catalog of subscription plans per creator.
type PlanService struct {
	planRepo plan.Repository
	cache    caching.PlanCache
	logger   *zap.Logger
}

// NewPlanService builds the plan registry. The cache is optional; a nil
// cache disables read-through caching.
func NewPlanService(planRepo plan.Repository, cache caching.PlanCache, logger *zap.Logger) *PlanService {
	return &PlanService{
		planRepo: planRepo,
		cache:    cache,
		logger:   logger,
	}
}

// CreatePlan creates a new plan owned by the calling creator. Price bounds
// are a subscription-time policy, not a plan-definition constraint, so no
// bound check happens here.
func (s *PlanService) CreatePlan(ctx context.Context, creatorID string, req *plan.CreatePlanRequest) (*plan.Plan, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	p := &plan.Plan{
		CreatorID:   creatorID,
		Name:        req.Name,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
		Price:       req.Price,
		Currency:    currency,
		IsActive:    true,
		AccessLevel: plan.AccessPublic,
	}

	if req.BillingInterval != "" {
		p.BillingInterval = sql.NullString{String: req.BillingInterval, Valid: true}
	}
	if req.IntervalCount > 0 {
		p.IntervalCount = sql.NullInt32{Int32: req.IntervalCount, Valid: true}
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.AccessLevel != "" {
		p.AccessLevel = req.AccessLevel
	}

	if err := s.planRepo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create plan", zap.Error(err))
		return nil, xerrors.Wrap(err, "failed to create plan")
	}

	s.logger.Info("plan created",
		zap.String("plan_id", p.ID),
		zap.String("creator_id", creatorID),
		zap.Float64("price", p.Price),
	)

	return p, nil
}

// GetPlan retrieves a plan by ID through the cache.
func (s *PlanService) GetPlan(ctx context.Context, id string) (*plan.Plan, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetPlan(ctx, id); err != nil {
			s.logger.Warn("plan cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	p, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetPlan(ctx, p); err != nil {
			s.logger.Warn("plan cache write failed", zap.Error(err))
		}
	}

	return p, nil
}

// GetPlansByCreator retrieves all of a creator's plans.
func (s *PlanService) GetPlansByCreator(ctx context.Context, creatorID string) ([]plan.Plan, error) {
	return s.planRepo.FindByCreator(ctx, creatorID)
}

// UpdatePlan merges the partial update into the plan after the ownership
// check and restamps updated_at.
func (s *PlanService) UpdatePlan(ctx context.Context, planID, creatorID string, req *plan.UpdatePlanRequest) (*plan.Plan, error) {
	p, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	if p.CreatorID != creatorID {
		return nil, xerrors.ErrPlanCreatorMismatch
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = sql.NullString{String: *req.Description, Valid: *req.Description != ""}
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Currency != nil {
		p.Currency = strings.ToUpper(*req.Currency)
	}
	if req.BillingInterval != nil {
		p.BillingInterval = sql.NullString{String: *req.BillingInterval, Valid: *req.BillingInterval != ""}
	}
	if req.IntervalCount != nil {
		p.IntervalCount = sql.NullInt32{Int32: *req.IntervalCount, Valid: *req.IntervalCount > 0}
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.AccessLevel != nil {
		p.AccessLevel = *req.AccessLevel
	}

	if err := s.planRepo.Update(ctx, p); err != nil {
		s.logger.Error("failed to update plan", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, planID)

	s.logger.Info("plan updated", zap.String("plan_id", planID))

	return p, nil
}

// DeletePlan hard-deletes a plan after the ownership check. Subscriptions
// referencing the plan are not touched; their cancel path reconstructs the
// billing window with a fallback when the plan is gone.
func (s *PlanService) DeletePlan(ctx context.Context, planID, creatorID string) error {
	p, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return err
	}

	if p.CreatorID != creatorID {
		return xerrors.ErrPlanCreatorMismatch
	}

	if err := s.planRepo.Delete(ctx, planID); err != nil {
		s.logger.Error("failed to delete plan", zap.Error(err))
		return err
	}

	s.invalidate(ctx, planID)

	s.logger.Info("plan deleted", zap.String("plan_id", planID), zap.String("creator_id", creatorID))

	return nil
}

func (s *PlanService) invalidate(ctx context.Context, planID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePlan(ctx, planID); err != nil {
		s.logger.Warn("plan cache invalidation failed", zap.String("plan_id", planID), zap.Error(err))
	}
}
