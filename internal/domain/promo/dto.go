// internal/domain/promo/dto.go
package promo

import "time"

type CreatePromoRequest struct {
	Code              string     `json:"code" binding:"required,max=64"`
	DiscountPercent   float64    `json:"discount_percent" binding:"required,min=0,max=100"`
	ApplicablePlanIDs []string   `json:"applicable_plan_ids" binding:"required,min=1"`
	IsActive          *bool      `json:"is_active"`
	ExpiresAt         *time.Time `json:"expires_at"`
}

type UpdatePromoRequest struct {
	DiscountPercent   *float64   `json:"discount_percent" binding:"omitempty,min=0,max=100"`
	ApplicablePlanIDs []string   `json:"applicable_plan_ids" binding:"omitempty,min=1"`
	IsActive          *bool      `json:"is_active"`
	ExpiresAt         *time.Time `json:"expires_at"`
}
