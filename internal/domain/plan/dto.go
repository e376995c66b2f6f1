// internal/domain/plan/dto.go
package plan

type CreatePlanRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`

	// Pricing
	Price    float64 `json:"price" binding:"min=0"`
	Currency string  `json:"currency" binding:"omitempty,len=3"`

	// Billing
	BillingInterval string `json:"billing_interval" binding:"omitempty,oneof=day week month year"`
	IntervalCount   int32  `json:"interval_count" binding:"omitempty,min=1"`

	// Status
	IsActive    *bool       `json:"is_active"`
	AccessLevel AccessLevel `json:"access_level" binding:"omitempty,oneof=public subscribers"`
}

type UpdatePlanRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`

	// Pricing
	Price    *float64 `json:"price" binding:"omitempty,min=0"`
	Currency *string  `json:"currency" binding:"omitempty,len=3"`

	// Billing
	BillingInterval *string `json:"billing_interval" binding:"omitempty,oneof=day week month year"`
	IntervalCount   *int32  `json:"interval_count" binding:"omitempty,min=1"`

	// Status
	IsActive    *bool        `json:"is_active"`
	AccessLevel *AccessLevel `json:"access_level" binding:"omitempty,oneof=public subscribers"`
}
