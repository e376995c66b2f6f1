// internal/handlers/creator/creator_handler.go
package creator

import (
	"net/http"

	"primeplus-service/internal/domain/creator"
	"primeplus-service/internal/middleware"
	"primeplus-service/internal/pkg/response"
	service "primeplus-service/internal/service/creator"

	"github.com/gin-gonic/gin"
)

type CreatorHandler struct {
	defaultPlanService *service.DefaultPlanService
}

func NewCreatorHandler(defaultPlanService *service.DefaultPlanService) *CreatorHandler {
	return &CreatorHandler{
		defaultPlanService: defaultPlanService,
	}
}

// SetDefaultPlan pins or clears the calling creator's default plan
func (h *CreatorHandler) SetDefaultPlan(c *gin.Context) {
	creatorID := middleware.MustGetUserID(c)

	var req creator.SetDefaultPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.defaultPlanService.SetDefaultPlan(c.Request.Context(), creatorID, &req)
	if err != nil {
		response.FromError(c, "failed to set default plan", err)
		return
	}

	response.Success(c, http.StatusOK, "default plan updated successfully", result)
}

// GetCreator retrieves a creator's billing profile
func (h *CreatorHandler) GetCreator(c *gin.Context) {
	creatorID := c.Param("creator_id")

	result, err := h.defaultPlanService.GetCreator(c.Request.Context(), creatorID)
	if err != nil {
		response.FromError(c, "creator not found", err)
		return
	}

	response.Success(c, http.StatusOK, "creator retrieved", result)
}
