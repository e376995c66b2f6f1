// internal/repository/memory/promo_repo.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"primeplus-service/internal/domain/promo"
	xerrors "primeplus-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
)

// PromoRepository is an in-memory promo.Repository used as the record-store
// fake in tests.
type PromoRepository struct {
	mu     sync.RWMutex
	promos map[string]promo.PromoCode
}

func NewPromoRepository() *PromoRepository {
	return &PromoRepository{promos: make(map[string]promo.PromoCode)}
}

func (r *PromoRepository) Create(ctx context.Context, p *promo.PromoCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = ulid.Make().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	r.promos[p.ID] = *p
	return nil
}

func (r *PromoRepository) FindByID(ctx context.Context, id string) (*promo.PromoCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.promos[id]
	if !ok {
		return nil, xerrors.ErrPromoNotFound
	}
	return &p, nil
}

func (r *PromoRepository) FindActiveByCode(ctx context.Context, creatorID, code string) (*promo.PromoCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.promos {
		if p.CreatorID == creatorID && p.Code == code && p.IsActive {
			found := p
			return &found, nil
		}
	}
	return nil, xerrors.ErrPromoNotFound
}

func (r *PromoRepository) FindByCreator(ctx context.Context, creatorID string) ([]promo.PromoCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var promos []promo.PromoCode
	for _, p := range r.promos {
		if p.CreatorID == creatorID {
			promos = append(promos, p)
		}
	}
	sort.Slice(promos, func(i, j int) bool {
		return promos[i].CreatedAt.After(promos[j].CreatedAt)
	})
	return promos, nil
}

func (r *PromoRepository) Update(ctx context.Context, p *promo.PromoCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.promos[p.ID]; !ok {
		return xerrors.ErrPromoNotFound
	}
	p.UpdatedAt = time.Now()
	r.promos[p.ID] = *p
	return nil
}

func (r *PromoRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.promos[id]; !ok {
		return xerrors.ErrPromoNotFound
	}
	delete(r.promos, id)
	return nil
}
