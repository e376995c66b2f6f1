// internal/repository/memory/creator_repo.go
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"primeplus-service/internal/domain/creator"
	xerrors "primeplus-service/internal/pkg/errors"
)

// CreatorRepository is an in-memory creator.Repository used in tests.
type CreatorRepository struct {
	mu       sync.RWMutex
	creators map[string]creator.Creator
}

func NewCreatorRepository() *CreatorRepository {
	return &CreatorRepository{creators: make(map[string]creator.Creator)}
}

func (r *CreatorRepository) FindByID(ctx context.Context, id string) (*creator.Creator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.creators[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &c, nil
}

func (r *CreatorRepository) SetDefaultPlan(ctx context.Context, creatorID string, planID *string, planType creator.SubscriptionType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	c, ok := r.creators[creatorID]
	if !ok {
		c = creator.Creator{ID: creatorID, CreatedAt: now}
	}

	if planID != nil {
		c.DefaultPlanID = sql.NullString{String: *planID, Valid: true}
	} else {
		c.DefaultPlanID = sql.NullString{}
	}
	c.DefaultPlanType = sql.NullString{String: string(planType), Valid: true}
	c.UpdatedAt = now

	r.creators[creatorID] = c
	return nil
}
