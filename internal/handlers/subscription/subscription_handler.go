// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"net/http"

	"primeplus-service/internal/domain/subscription"
	"primeplus-service/internal/middleware"
	"primeplus-service/internal/pkg/response"
	service "primeplus-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// CreateSubscription subscribes the caller to a creator's plan
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	subscriberID := middleware.MustGetUserID(c)

	var req subscription.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.subscriptionService.CreateSubscription(c.Request.Context(), subscriberID, &req)
	if err != nil {
		response.FromError(c, "failed to create subscription", err)
		return
	}

	response.Success(c, http.StatusCreated, "subscription created successfully", result)
}

// CancelSubscription terminates one of the caller's subscriptions
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	callerID := middleware.MustGetUserID(c)
	subscriptionID := c.Param("id")

	result, err := h.subscriptionService.CancelSubscription(c.Request.Context(), subscriptionID, callerID)
	if err != nil {
		response.FromError(c, "failed to cancel subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription cancelled successfully", result)
}

// ListMySubscriptions retrieves every subscription the caller holds
func (h *SubscriptionHandler) ListMySubscriptions(c *gin.Context) {
	subscriberID := middleware.MustGetUserID(c)

	result, err := h.subscriptionService.GetSubscriptionsBySubscriber(c.Request.Context(), subscriberID)
	if err != nil {
		response.FromError(c, "failed to list subscriptions", err)
		return
	}

	response.Success(c, http.StatusOK, "subscriptions retrieved", result)
}

// GetSubscriptionToCreator retrieves the caller's most recent subscription to a creator
func (h *SubscriptionHandler) GetSubscriptionToCreator(c *gin.Context) {
	subscriberID := middleware.MustGetUserID(c)
	creatorID := c.Param("creator_id")

	result, err := h.subscriptionService.GetLatestSubscriptionToCreator(c.Request.Context(), subscriberID, creatorID)
	if err != nil {
		response.FromError(c, "subscription not found", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription retrieved", result)
}

// GetActiveSubscriptionToCreator retrieves the caller's active subscription to a creator
func (h *SubscriptionHandler) GetActiveSubscriptionToCreator(c *gin.Context) {
	subscriberID := middleware.MustGetUserID(c)
	creatorID := c.Param("creator_id")

	result, err := h.subscriptionService.GetActiveSubscriptionToCreator(c.Request.Context(), subscriberID, creatorID)
	if err != nil {
		response.FromError(c, "subscription not found", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription retrieved", result)
}

// ListMySubscribers retrieves the entitled audience of the calling creator
func (h *SubscriptionHandler) ListMySubscribers(c *gin.Context) {
	creatorID := middleware.MustGetUserID(c)

	result, err := h.subscriptionService.GetSubscribersForCreator(c.Request.Context(), creatorID)
	if err != nil {
		response.FromError(c, "failed to list subscribers", err)
		return
	}

	response.Success(c, http.StatusOK, "subscribers retrieved", result)
}
