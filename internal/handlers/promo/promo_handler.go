// internal/handlers/promo/promo_handler.go
package promo

import (
	"net/http"

	"primeplus-service/internal/domain/promo"
	"primeplus-service/internal/middleware"
	"primeplus-service/internal/pkg/response"
	service "primeplus-service/internal/service/promo"

	"github.com/gin-gonic/gin"
)

type PromoHandler struct {
	promoService *service.PromoService
}

func NewPromoHandler(promoService *service.PromoService) *PromoHandler {
	return &PromoHandler{
		promoService: promoService,
	}
}

// CreatePromo creates a promo code owned by the calling creator
func (h *PromoHandler) CreatePromo(c *gin.Context) {
	creatorID := middleware.MustGetUserID(c)

	var req promo.CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.promoService.CreatePromo(c.Request.Context(), creatorID, &req)
	if err != nil {
		response.FromError(c, "failed to create promo code", err)
		return
	}

	response.Success(c, http.StatusCreated, "promo code created successfully", result)
}

// ListMyPromos retrieves the calling creator's promo codes
func (h *PromoHandler) ListMyPromos(c *gin.Context) {
	creatorID := middleware.MustGetUserID(c)

	result, err := h.promoService.GetPromosByCreator(c.Request.Context(), creatorID)
	if err != nil {
		response.FromError(c, "failed to list promo codes", err)
		return
	}

	response.Success(c, http.StatusOK, "promo codes retrieved", result)
}

// UpdatePromo merges a partial update into a promo code owned by the caller
func (h *PromoHandler) UpdatePromo(c *gin.Context) {
	creatorID := middleware.MustGetUserID(c)
	promoID := c.Param("id")

	var req promo.UpdatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.promoService.UpdatePromo(c.Request.Context(), promoID, creatorID, &req)
	if err != nil {
		response.FromError(c, "failed to update promo code", err)
		return
	}

	response.Success(c, http.StatusOK, "promo code updated successfully", result)
}

// DeletePromo removes a promo code owned by the caller
func (h *PromoHandler) DeletePromo(c *gin.Context) {
	creatorID := middleware.MustGetUserID(c)
	promoID := c.Param("id")

	if err := h.promoService.DeletePromo(c.Request.Context(), promoID, creatorID); err != nil {
		response.FromError(c, "failed to delete promo code", err)
		return
	}

	response.Success(c, http.StatusOK, "promo code deleted successfully", nil)
}
