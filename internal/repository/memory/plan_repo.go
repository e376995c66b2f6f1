// internal/repository/memory/plan_repo.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"primeplus-service/internal/domain/plan"
	xerrors "primeplus-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
)

// PlanRepository is an in-memory plan.Repository used as the record-store
// fake in tests.
type PlanRepository struct {
	mu    sync.RWMutex
	plans map[string]plan.Plan
}

func NewPlanRepository() *PlanRepository {
	return &PlanRepository{plans: make(map[string]plan.Plan)}
}

func (r *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = ulid.Make().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	r.plans[p.ID] = *p
	return nil
}

func (r *PlanRepository) FindByID(ctx context.Context, id string) (*plan.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plans[id]
	if !ok {
		return nil, xerrors.ErrPlanNotFound
	}
	return &p, nil
}

func (r *PlanRepository) FindByCreator(ctx context.Context, creatorID string) ([]plan.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var plans []plan.Plan
	for _, p := range r.plans {
		if p.CreatorID == creatorID {
			plans = append(plans, p)
		}
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

func (r *PlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[p.ID]; !ok {
		return xerrors.ErrPlanNotFound
	}
	p.UpdatedAt = time.Now()
	r.plans[p.ID] = *p
	return nil
}

func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[id]; !ok {
		return xerrors.ErrPlanNotFound
	}
	delete(r.plans, id)
	return nil
}
