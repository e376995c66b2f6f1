// internal/domain/subscription/entity.go
package subscription

import (
	"database/sql"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
	// Reserved for payment flows handled outside this service.
	StatusPendingPayment Status = "pending_payment"
	StatusFreeTrial      Status = "free_trial"
)

// UserSubscription binds one subscriber to one creator's plan. The record is
// keyed by the deterministic pair id, so there is exactly one slot per
// subscriber/creator relationship; re-subscribing after cancellation reuses
// the slot.
type UserSubscription struct {
	ID           string `json:"id" db:"id"`
	SubscriberID string `json:"subscriber_id" db:"subscriber_id"`
	CreatorID    string `json:"creator_id" db:"creator_id"`
	PlanID       string `json:"plan_id" db:"plan_id"`

	Status Status `json:"status" db:"status"`

	// Billing window. EndDate and NextBillingDate are null for free or
	// indefinite subscriptions.
	StartDate       time.Time    `json:"start_date" db:"start_date"`
	EndDate         sql.NullTime `json:"end_date,omitempty" db:"end_date"`
	NextBillingDate sql.NullTime `json:"next_billing_date,omitempty" db:"next_billing_date"`
	IsRecurring     bool         `json:"is_recurring" db:"is_recurring"`
	IsBundle        bool         `json:"is_bundle" db:"is_bundle"`
	WillRenew       bool         `json:"will_renew" db:"will_renew"`

	// Pricing snapshot taken at creation time.
	PromoCode            sql.NullString  `json:"promo_code,omitempty" db:"promo_code"`
	PromoDiscountPercent sql.NullFloat64 `json:"promo_discount_percent,omitempty" db:"promo_discount_percent"`
	PromoID              sql.NullString  `json:"promo_id,omitempty" db:"promo_id"`
	FinalPrice           sql.NullFloat64 `json:"final_price,omitempty" db:"final_price"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PairID builds the deterministic subscription id for a subscriber/creator
// pair.
func PairID(subscriberID, creatorID string) string {
	return subscriberID + "_" + creatorID
}

// IsTerminable reports whether the subscription can still be cancelled.
func (s *UserSubscription) IsTerminable() bool {
	return s.Status == StatusActive || s.Status == StatusFreeTrial
}
