// internal/service/creator/default_plan_service.go
package creator

import (
	"context"

	"primeplus-service/internal/domain/creator"
	"primeplus-service/internal/domain/plan"
	xerrors "primeplus-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// DefaultPlanService lets a creator designate a default free/paid plan.
// The selection is advisory metadata for the UI; nothing else in the engine
// enforces it.
type DefaultPlanService struct {
	creatorRepo creator.Repository
	planRepo    plan.Repository
	logger      *zap.Logger
}

func NewDefaultPlanService(creatorRepo creator.Repository, planRepo plan.Repository, logger *zap.Logger) *DefaultPlanService {
	return &DefaultPlanService{
		creatorRepo: creatorRepo,
		planRepo:    planRepo,
		logger:      logger,
	}
}

// SetDefaultPlan validates and stores the creator's default-plan selection.
// A nil plan id clears the selection for the given type.
func (s *DefaultPlanService) SetDefaultPlan(ctx context.Context, creatorID string, req *creator.SetDefaultPlanRequest) (*creator.Creator, error) {
	planType := creator.SubscriptionType(req.SubscriptionType)

	if req.PlanID != nil {
		p, err := s.planRepo.FindByID(ctx, *req.PlanID)
		if err != nil {
			return nil, xerrors.ErrInvalidPlan
		}
		if p.CreatorID != creatorID {
			return nil, xerrors.ErrInvalidPlan
		}

		switch planType {
		case creator.TypeFree:
			if p.Price != 0 {
				return nil, xerrors.ErrPlanTypeMismatch
			}
		case creator.TypePaid:
			if p.Price <= 0 {
				return nil, xerrors.ErrPlanTypeMismatch
			}
		}
	}

	if err := s.creatorRepo.SetDefaultPlan(ctx, creatorID, req.PlanID, planType); err != nil {
		s.logger.Error("failed to set default plan", zap.Error(err))
		return nil, err
	}

	s.logger.Info("default plan set",
		zap.String("creator_id", creatorID),
		zap.String("subscription_type", req.SubscriptionType),
	)

	return s.creatorRepo.FindByID(ctx, creatorID)
}

// GetCreator retrieves a creator's record including the default-plan selection.
func (s *DefaultPlanService) GetCreator(ctx context.Context, creatorID string) (*creator.Creator, error) {
	return s.creatorRepo.FindByID(ctx, creatorID)
}
