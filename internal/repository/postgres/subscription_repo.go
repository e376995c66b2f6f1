// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"primeplus-service/internal/domain/subscription"
	xerrors "primeplus-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, subscriber_id, creator_id, plan_id, status,
	       start_date, end_date, next_billing_date,
	       is_recurring, is_bundle, will_renew,
	       promo_code, promo_discount_percent, promo_id, final_price,
	       created_at, updated_at`

// CreateActive claims the deterministic pair slot with a single conditional
// write. The upsert only fires while the existing record (if any) is in a
// terminal state, so two concurrent creations for the same pair cannot both
// succeed: the loser's upsert matches zero rows and surfaces
// ErrAlreadySubscribed.
func (r *SubscriptionRepository) CreateActive(ctx context.Context, sub *subscription.UserSubscription) error {
	query := `
		INSERT INTO user_subscriptions (
			id, subscriber_id, creator_id, plan_id, status,
			start_date, end_date, next_billing_date,
			is_recurring, is_bundle, will_renew,
			promo_code, promo_discount_percent, promo_id, final_price
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			plan_id = EXCLUDED.plan_id,
			status = EXCLUDED.status,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			next_billing_date = EXCLUDED.next_billing_date,
			is_recurring = EXCLUDED.is_recurring,
			is_bundle = EXCLUDED.is_bundle,
			will_renew = EXCLUDED.will_renew,
			promo_code = EXCLUDED.promo_code,
			promo_discount_percent = EXCLUDED.promo_discount_percent,
			promo_id = EXCLUDED.promo_id,
			final_price = EXCLUDED.final_price,
			updated_at = NOW()
		WHERE user_subscriptions.status NOT IN ('active', 'free_trial')
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		sub.ID, sub.SubscriberID, sub.CreatorID, sub.PlanID, sub.Status,
		sub.StartDate, sub.EndDate, sub.NextBillingDate,
		sub.IsRecurring, sub.IsBundle, sub.WillRenew,
		sub.PromoCode, sub.PromoDiscountPercent, sub.PromoID, sub.FinalPrice,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return xerrors.ErrAlreadySubscribed
	}
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// FindByID retrieves a subscription by its deterministic pair id.
func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*subscription.UserSubscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM user_subscriptions WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

// FindLatestByPair retrieves the newest record for a subscriber/creator pair
// regardless of status. With the deterministic id there is at most one.
func (r *SubscriptionRepository) FindLatestByPair(ctx context.Context, subscriberID, creatorID string) (*subscription.UserSubscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM user_subscriptions
		WHERE subscriber_id = $1 AND creator_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, subscriberID, creatorID)
}

// FindActiveByPair retrieves the active subscription for a pair, if any.
func (r *SubscriptionRepository) FindActiveByPair(ctx context.Context, subscriberID, creatorID string) (*subscription.UserSubscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM user_subscriptions
		WHERE subscriber_id = $1 AND creator_id = $2 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.queryOne(ctx, query, subscriberID, creatorID)
}

// FindBySubscriber retrieves all of a subscriber's records, newest first.
func (r *SubscriptionRepository) FindBySubscriber(ctx context.Context, subscriberID string) ([]subscription.UserSubscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM user_subscriptions
		WHERE subscriber_id = $1
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query, subscriberID)
}

// FindEntitledByCreator returns subscribers currently entitled to the
// creator's content: active or trialing, plus cancelled records whose paid
// window has not yet ended.
func (r *SubscriptionRepository) FindEntitledByCreator(ctx context.Context, creatorID string) ([]subscription.UserSubscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM user_subscriptions
		WHERE creator_id = $1
		  AND (
			status IN ('active', 'free_trial')
			OR (status = 'cancelled' AND end_date IS NOT NULL AND end_date > NOW())
		  )
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query, creatorID)
}

// Update persists the subscription's mutable fields and restamps updated_at.
func (r *SubscriptionRepository) Update(ctx context.Context, sub *subscription.UserSubscription) error {
	query := `
		UPDATE user_subscriptions
		SET status = $1, end_date = $2, next_billing_date = $3,
		    will_renew = $4, updated_at = $5
		WHERE id = $6
	`

	sub.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		ctx, query,
		sub.Status, sub.EndDate, sub.NextBillingDate,
		sub.WillRenew, sub.UpdatedAt, sub.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrSubscriptionNotFound
	}

	return nil
}

func (r *SubscriptionRepository) queryOne(ctx context.Context, query string, args ...any) (*subscription.UserSubscription, error) {
	var sub subscription.UserSubscription
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&sub.ID, &sub.SubscriberID, &sub.CreatorID, &sub.PlanID, &sub.Status,
		&sub.StartDate, &sub.EndDate, &sub.NextBillingDate,
		&sub.IsRecurring, &sub.IsBundle, &sub.WillRenew,
		&sub.PromoCode, &sub.PromoDiscountPercent, &sub.PromoID, &sub.FinalPrice,
		&sub.CreatedAt, &sub.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrSubscriptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}

	return &sub, nil
}

func (r *SubscriptionRepository) queryMany(ctx context.Context, query string, args ...any) ([]subscription.UserSubscription, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []subscription.UserSubscription
	for rows.Next() {
		var sub subscription.UserSubscription
		if err := rows.Scan(
			&sub.ID, &sub.SubscriberID, &sub.CreatorID, &sub.PlanID, &sub.Status,
			&sub.StartDate, &sub.EndDate, &sub.NextBillingDate,
			&sub.IsRecurring, &sub.IsBundle, &sub.WillRenew,
			&sub.PromoCode, &sub.PromoDiscountPercent, &sub.PromoID, &sub.FinalPrice,
			&sub.CreatedAt, &sub.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}
