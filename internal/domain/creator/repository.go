// internal/domain/creator/repository.go
package creator

import "context"

type Repository interface {
	FindByID(ctx context.Context, id string) (*Creator, error)
	// SetDefaultPlan writes the selection onto the creator record, creating
	// it if the creator has never stored one. A nil planID clears the
	// selection for the given type.
	SetDefaultPlan(ctx context.Context, creatorID string, planID *string, planType SubscriptionType) error
}
