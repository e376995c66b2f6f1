// internal/handlers/plan/plan_handler.go
package plan

import (
	"net/http"

	"primeplus-service/internal/domain/plan"
	"primeplus-service/internal/middleware"
	"primeplus-service/internal/pkg/response"
	service "primeplus-service/internal/service/plan"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// CreatePlan creates a plan owned by the calling creator
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	creatorID := middleware.MustGetUserID(c)

	var req plan.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.planService.CreatePlan(c.Request.Context(), creatorID, &req)
	if err != nil {
		response.FromError(c, "failed to create plan", err)
		return
	}

	response.Success(c, http.StatusCreated, "plan created successfully", result)
}

// GetPlan retrieves a plan by ID
func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID := c.Param("id")

	result, err := h.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		response.FromError(c, "plan not found", err)
		return
	}

	response.Success(c, http.StatusOK, "plan retrieved", result)
}

// ListMyPlans retrieves the calling creator's plans
func (h *PlanHandler) ListMyPlans(c *gin.Context) {
	creatorID := middleware.MustGetUserID(c)

	result, err := h.planService.GetPlansByCreator(c.Request.Context(), creatorID)
	if err != nil {
		response.FromError(c, "failed to list plans", err)
		return
	}

	response.Success(c, http.StatusOK, "plans retrieved", result)
}

// ListPlansByCreator retrieves any creator's plans (public catalog view)
func (h *PlanHandler) ListPlansByCreator(c *gin.Context) {
	creatorID := c.Param("creator_id")

	result, err := h.planService.GetPlansByCreator(c.Request.Context(), creatorID)
	if err != nil {
		response.FromError(c, "failed to list plans", err)
		return
	}

	response.Success(c, http.StatusOK, "plans retrieved", result)
}

// UpdatePlan merges a partial update into a plan owned by the caller
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	creatorID := middleware.MustGetUserID(c)
	planID := c.Param("id")

	var req plan.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.planService.UpdatePlan(c.Request.Context(), planID, creatorID, &req)
	if err != nil {
		response.FromError(c, "failed to update plan", err)
		return
	}

	response.Success(c, http.StatusOK, "plan updated successfully", result)
}

// DeletePlan hard-deletes a plan owned by the caller
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	creatorID := middleware.MustGetUserID(c)
	planID := c.Param("id")

	if err := h.planService.DeletePlan(c.Request.Context(), planID, creatorID); err != nil {
		response.FromError(c, "failed to delete plan", err)
		return
	}

	response.Success(c, http.StatusOK, "plan deleted successfully", nil)
}
