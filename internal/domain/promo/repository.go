// internal/domain/promo/repository.go
package promo

import "context"

type Repository interface {
	Create(ctx context.Context, p *PromoCode) error
	FindByID(ctx context.Context, id string) (*PromoCode, error)
	// FindActiveByCode matches code case-sensitively among a creator's active
	// promos. Returns xerrors.ErrPromoNotFound when no active promo matches.
	FindActiveByCode(ctx context.Context, creatorID, code string) (*PromoCode, error)
	FindByCreator(ctx context.Context, creatorID string) ([]PromoCode, error)
	Update(ctx context.Context, p *PromoCode) error
	Delete(ctx context.Context, id string) error
}
