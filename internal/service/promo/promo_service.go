// internal/service/promo/promo_service.go
package promo

import (
	"context"
	"database/sql"

	"primeplus-service/internal/domain/plan"
	"primeplus-service/internal/domain/promo"
	xerrors "primeplus-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// PromoService manages the lifecycle of a creator's promo codes. Codes are
// consumed read-only by the pricing calculator at subscription time.
type PromoService struct {
	promoRepo promo.Repository
	planRepo  plan.Repository
	logger    *zap.Logger
}

func NewPromoService(promoRepo promo.Repository, planRepo plan.Repository, logger *zap.Logger) *PromoService {
	return &PromoService{
		promoRepo: promoRepo,
		planRepo:  planRepo,
		logger:    logger,
	}
}

// CreatePromo creates a promo code scoped to a subset of the creator's
// plans. Every targeted plan must exist and belong to the creator.
func (s *PromoService) CreatePromo(ctx context.Context, creatorID string, req *promo.CreatePromoRequest) (*promo.PromoCode, error) {
	if err := s.checkPlanOwnership(ctx, creatorID, req.ApplicablePlanIDs); err != nil {
		return nil, err
	}

	p := &promo.PromoCode{
		CreatorID:         creatorID,
		Code:              req.Code,
		DiscountPercent:   req.DiscountPercent,
		ApplicablePlanIDs: req.ApplicablePlanIDs,
		IsActive:          true,
	}

	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		p.ExpiresAt = sql.NullTime{Time: *req.ExpiresAt, Valid: true}
	}

	if err := s.promoRepo.Create(ctx, p); err != nil {
		s.logger.Error("failed to create promo code", zap.Error(err))
		return nil, xerrors.Wrap(err, "failed to create promo code")
	}

	s.logger.Info("promo code created",
		zap.String("promo_id", p.ID),
		zap.String("creator_id", creatorID),
		zap.Float64("discount_percent", p.DiscountPercent),
	)

	return p, nil
}

// GetPromosByCreator retrieves all of a creator's promo codes.
func (s *PromoService) GetPromosByCreator(ctx context.Context, creatorID string) ([]promo.PromoCode, error) {
	return s.promoRepo.FindByCreator(ctx, creatorID)
}

// UpdatePromo merges the partial update after the ownership check.
func (s *PromoService) UpdatePromo(ctx context.Context, promoID, creatorID string, req *promo.UpdatePromoRequest) (*promo.PromoCode, error) {
	p, err := s.promoRepo.FindByID(ctx, promoID)
	if err != nil {
		return nil, err
	}

	if p.CreatorID != creatorID {
		return nil, xerrors.ErrForbidden
	}

	if req.ApplicablePlanIDs != nil {
		if err := s.checkPlanOwnership(ctx, creatorID, req.ApplicablePlanIDs); err != nil {
			return nil, err
		}
		p.ApplicablePlanIDs = req.ApplicablePlanIDs
	}
	if req.DiscountPercent != nil {
		p.DiscountPercent = *req.DiscountPercent
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		p.ExpiresAt = sql.NullTime{Time: *req.ExpiresAt, Valid: true}
	}

	if err := s.promoRepo.Update(ctx, p); err != nil {
		s.logger.Error("failed to update promo code", zap.Error(err))
		return nil, err
	}

	s.logger.Info("promo code updated", zap.String("promo_id", promoID))

	return p, nil
}

// DeletePromo removes a promo code after the ownership check.
func (s *PromoService) DeletePromo(ctx context.Context, promoID, creatorID string) error {
	p, err := s.promoRepo.FindByID(ctx, promoID)
	if err != nil {
		return err
	}

	if p.CreatorID != creatorID {
		return xerrors.ErrForbidden
	}

	if err := s.promoRepo.Delete(ctx, promoID); err != nil {
		s.logger.Error("failed to delete promo code", zap.Error(err))
		return err
	}

	s.logger.Info("promo code deleted", zap.String("promo_id", promoID))

	return nil
}

func (s *PromoService) checkPlanOwnership(ctx context.Context, creatorID string, planIDs []string) error {
	for _, planID := range planIDs {
		p, err := s.planRepo.FindByID(ctx, planID)
		if err != nil {
			return xerrors.ErrInvalidPlan
		}
		if p.CreatorID != creatorID {
			return xerrors.ErrInvalidPlan
		}
	}
	return nil
}
