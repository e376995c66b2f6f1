// internal/domain/creator/entity.go
package creator

import (
	"database/sql"
	"time"
)

// SubscriptionType classifies a creator's default plan selection.
type SubscriptionType string

const (
	TypeFree SubscriptionType = "free"
	TypePaid SubscriptionType = "paid"
)

// Creator is the slice of the platform user record this service owns: the
// advisory default-plan selection shown by the UI. Identity, profile and
// media fields live with the external identity provider.
type Creator struct {
	ID string `json:"id" db:"id"`

	DefaultPlanID   sql.NullString `json:"default_plan_id,omitempty" db:"default_plan_id"`
	DefaultPlanType sql.NullString `json:"default_plan_type,omitempty" db:"default_plan_type"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ValidType reports whether the given value is a known subscription type.
func ValidType(v string) bool {
	switch SubscriptionType(v) {
	case TypeFree, TypePaid:
		return true
	}
	return false
}
