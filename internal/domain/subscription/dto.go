// internal/domain/subscription/dto.go
package subscription

import "time"

type CreateSubscriptionRequest struct {
	CreatorID string `json:"creator_id" binding:"required"`
	PlanID    string `json:"plan_id" binding:"required"`
	PromoCode string `json:"promo_code"`

	// Bundles are one-time purchases: no recurring billing date is computed
	// and the end date must be supplied by the caller.
	IsBundle      bool       `json:"is_bundle"`
	BundleEndDate *time.Time `json:"bundle_end_date"`
}

// CancelResult carries the updated record plus a flag for the case where the
// end date had to be reconstructed from plan metadata (or the 30-day
// fallback) because the subscription never stored one.
type CancelResult struct {
	Subscription     *UserSubscription `json:"subscription"`
	EndDateEstimated bool              `json:"end_date_estimated"`
}
