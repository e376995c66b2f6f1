// internal/domain/plan/entity.go
package plan

import (
	"database/sql"
	"time"
)

type BillingInterval string

const (
	IntervalDay   BillingInterval = "day"
	IntervalWeek  BillingInterval = "week"
	IntervalMonth BillingInterval = "month"
	IntervalYear  BillingInterval = "year"
)

// AccessLevel controls who can see a plan's gated content. The source data
// treated a missing value as public; here the default is an explicit field.
type AccessLevel string

const (
	AccessPublic      AccessLevel = "public"
	AccessSubscribers AccessLevel = "subscribers"
)

type Plan struct {
	ID        string `json:"id" db:"id"`
	CreatorID string `json:"creator_id" db:"creator_id"`

	Name        string         `json:"name" db:"name"`
	Description sql.NullString `json:"description,omitempty" db:"description"`

	// Pricing. A price of 0 means the plan is free.
	Price    float64 `json:"price" db:"price"`
	Currency string  `json:"currency" db:"currency"`

	// Billing shape. Both fields are null for free/indefinite plans.
	BillingInterval sql.NullString `json:"billing_interval,omitempty" db:"billing_interval"`
	IntervalCount   sql.NullInt32  `json:"interval_count,omitempty" db:"interval_count"`

	// Status
	IsActive    bool        `json:"is_active" db:"is_active"`
	AccessLevel AccessLevel `json:"access_level" db:"access_level"`

	// Timestamps
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsFree reports whether the plan carries no charge.
func (p *Plan) IsFree() bool {
	return p.Price == 0
}

// Interval returns the billing interval and multiplier when both are set.
// A paid plan without interval data is not subscribable as a recurring plan.
func (p *Plan) Interval() (BillingInterval, int, bool) {
	if !p.BillingInterval.Valid || !p.IntervalCount.Valid || p.IntervalCount.Int32 <= 0 {
		return "", 0, false
	}
	return BillingInterval(p.BillingInterval.String), int(p.IntervalCount.Int32), true
}

// IsRecurring reports whether subscribing to this plan opens a billing window.
func (p *Plan) IsRecurring() bool {
	_, _, ok := p.Interval()
	return p.Price > 0 && ok
}

// ValidInterval reports whether the given value is a known billing interval.
func ValidInterval(v string) bool {
	switch BillingInterval(v) {
	case IntervalDay, IntervalWeek, IntervalMonth, IntervalYear:
		return true
	}
	return false
}
