// internal/repository/memory/subscription_repo.go
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"primeplus-service/internal/domain/subscription"
	xerrors "primeplus-service/internal/pkg/errors"
)

// SubscriptionRepository is an in-memory subscription.Repository. The mutex
// gives CreateActive the same claim-or-reject semantics as the Postgres
// conditional upsert, so the concurrency tests exercise the real contract.
type SubscriptionRepository struct {
	mu   sync.RWMutex
	subs map[string]subscription.UserSubscription
}

func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{subs: make(map[string]subscription.UserSubscription)}
}

func (r *SubscriptionRepository) CreateActive(ctx context.Context, sub *subscription.UserSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.subs[sub.ID]; ok {
		if existing.Status == subscription.StatusActive || existing.Status == subscription.StatusFreeTrial {
			return xerrors.ErrAlreadySubscribed
		}
		// Slot reuse keeps the original creation timestamp, mirroring the
		// Postgres upsert.
		sub.CreatedAt = existing.CreatedAt
	} else {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now

	r.subs[sub.ID] = *sub
	return nil
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*subscription.UserSubscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[id]
	if !ok {
		return nil, xerrors.ErrSubscriptionNotFound
	}
	return &sub, nil
}

func (r *SubscriptionRepository) FindLatestByPair(ctx context.Context, subscriberID, creatorID string) (*subscription.UserSubscription, error) {
	return r.FindByID(ctx, subscription.PairID(subscriberID, creatorID))
}

func (r *SubscriptionRepository) FindActiveByPair(ctx context.Context, subscriberID, creatorID string) (*subscription.UserSubscription, error) {
	sub, err := r.FindByID(ctx, subscription.PairID(subscriberID, creatorID))
	if err != nil {
		return nil, err
	}
	if sub.Status != subscription.StatusActive {
		return nil, xerrors.ErrSubscriptionNotFound
	}
	return sub, nil
}

func (r *SubscriptionRepository) FindBySubscriber(ctx context.Context, subscriberID string) ([]subscription.UserSubscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var subs []subscription.UserSubscription
	for _, sub := range r.subs {
		if sub.SubscriberID == subscriberID {
			subs = append(subs, sub)
		}
	}
	sortNewestFirst(subs)
	return subs, nil
}

func (r *SubscriptionRepository) FindEntitledByCreator(ctx context.Context, creatorID string) ([]subscription.UserSubscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	var subs []subscription.UserSubscription
	for _, sub := range r.subs {
		if sub.CreatorID != creatorID {
			continue
		}
		switch sub.Status {
		case subscription.StatusActive, subscription.StatusFreeTrial:
			subs = append(subs, sub)
		case subscription.StatusCancelled:
			if sub.EndDate.Valid && sub.EndDate.Time.After(now) {
				subs = append(subs, sub)
			}
		}
	}
	sortNewestFirst(subs)
	return subs, nil
}

func (r *SubscriptionRepository) Update(ctx context.Context, sub *subscription.UserSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subs[sub.ID]; !ok {
		return xerrors.ErrSubscriptionNotFound
	}
	sub.UpdatedAt = time.Now()
	r.subs[sub.ID] = *sub
	return nil
}

func sortNewestFirst(subs []subscription.UserSubscription) {
	sort.Slice(subs, func(i, j int) bool {
		return subs[i].CreatedAt.After(subs[j].CreatedAt)
	})
}
