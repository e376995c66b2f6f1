// internal/domain/creator/dto.go
package creator

type SetDefaultPlanRequest struct {
	// PlanID is nullable: omitting it clears the selection.
	PlanID           *string `json:"plan_id"`
	SubscriptionType string  `json:"subscription_type" binding:"required,oneof=free paid"`
}
