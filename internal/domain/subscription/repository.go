// internal/domain/subscription/repository.go
package subscription

import "context"

type Repository interface {
	// CreateActive claims the pair slot with a conditional write: the record
	// is inserted (or a prior terminal-state record overwritten) only while
	// no active or trialing subscription holds the slot. Returns
	// xerrors.ErrAlreadySubscribed when the slot is held, making concurrent
	// creations for the same pair race-free.
	CreateActive(ctx context.Context, sub *UserSubscription) error

	FindByID(ctx context.Context, id string) (*UserSubscription, error)
	FindLatestByPair(ctx context.Context, subscriberID, creatorID string) (*UserSubscription, error)
	FindActiveByPair(ctx context.Context, subscriberID, creatorID string) (*UserSubscription, error)

	// FindBySubscriber returns all of a subscriber's records, newest first.
	FindBySubscriber(ctx context.Context, subscriberID string) ([]UserSubscription, error)

	// FindEntitledByCreator returns subscribers currently entitled to the
	// creator's content: active or trialing records, plus cancelled records
	// whose paid window has not yet ended. Newest first.
	FindEntitledByCreator(ctx context.Context, creatorID string) ([]UserSubscription, error)

	Update(ctx context.Context, sub *UserSubscription) error
}
