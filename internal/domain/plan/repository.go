// internal/domain/plan/repository.go
package plan

import "context"

type Repository interface {
	Create(ctx context.Context, p *Plan) error
	FindByID(ctx context.Context, id string) (*Plan, error)
	FindByCreator(ctx context.Context, creatorID string) ([]Plan, error)
	Update(ctx context.Context, p *Plan) error
	Delete(ctx context.Context, id string) error
}
