// internal/domain/promo/entity.go
package promo

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// PromoCode is a creator-scoped discount token consumed at
// subscription-creation time. Codes are compared case-sensitively as stored.
type PromoCode struct {
	ID        string `json:"id" db:"id"`
	CreatorID string `json:"creator_id" db:"creator_id"`

	Code            string  `json:"code" db:"code"`
	DiscountPercent float64 `json:"discount_percent" db:"discount_percent"`

	// Targeting
	ApplicablePlanIDs pq.StringArray `json:"applicable_plan_ids" db:"applicable_plan_ids"`

	// Validity
	IsActive  bool         `json:"is_active" db:"is_active"`
	ExpiresAt sql.NullTime `json:"expires_at,omitempty" db:"expires_at"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AppliesTo reports whether the promo targets the given plan.
func (p *PromoCode) AppliesTo(planID string) bool {
	for _, id := range p.ApplicablePlanIDs {
		if id == planID {
			return true
		}
	}
	return false
}

// IsExpired reports whether the promo's expiry has passed at the given time.
// A promo with no expiry never expires.
func (p *PromoCode) IsExpired(now time.Time) bool {
	return p.ExpiresAt.Valid && p.ExpiresAt.Time.Before(now)
}

// Application is the pricing snapshot recorded on a subscription when a
// promo is consumed.
type Application struct {
	PromoID         string  `json:"promo_id"`
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	FinalPrice      float64 `json:"final_price"`
}
