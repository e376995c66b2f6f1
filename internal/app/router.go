// internal/app/router.go
package app

import (
	creatorHandler "primeplus-service/internal/handlers/creator"
	planHandler "primeplus-service/internal/handlers/plan"
	promoHandler "primeplus-service/internal/handlers/promo"
	subscriptionHandler "primeplus-service/internal/handlers/subscription"
	"primeplus-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	PlanHandler         *planHandler.PlanHandler
	PromoHandler        *promoHandler.PromoHandler
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	CreatorHandler      *creatorHandler.CreatorHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Public Catalog ====================
	api.GET("/plans/:id", h.PlanHandler.GetPlan)
	api.GET("/creators/:creator_id", h.CreatorHandler.GetCreator)
	api.GET("/creators/:creator_id/plans", h.PlanHandler.ListPlansByCreator)

	// ==================== Plans ====================
	plans := api.Group("/plans")
	plans.Use(h.AuthMiddleware.Auth())
	{
		plans.POST("", h.PlanHandler.CreatePlan)
		plans.GET("", h.PlanHandler.ListMyPlans)
		plans.PUT("/:id", h.PlanHandler.UpdatePlan)
		plans.DELETE("/:id", h.PlanHandler.DeletePlan)
	}

	// ==================== Promo Codes ====================
	promos := api.Group("/promos")
	promos.Use(h.AuthMiddleware.Auth())
	{
		promos.POST("", h.PromoHandler.CreatePromo)
		promos.GET("", h.PromoHandler.ListMyPromos)
		promos.PUT("/:id", h.PromoHandler.UpdatePromo)
		promos.DELETE("/:id", h.PromoHandler.DeletePromo)
	}

	// ==================== Subscriptions ====================
	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(h.AuthMiddleware.Auth())
	{
		subscriptions.POST("", h.SubscriptionHandler.CreateSubscription)
		subscriptions.GET("", h.SubscriptionHandler.ListMySubscriptions)
		subscriptions.POST("/:id/cancel", h.SubscriptionHandler.CancelSubscription)
		subscriptions.GET("/creator/:creator_id", h.SubscriptionHandler.GetSubscriptionToCreator)
		subscriptions.GET("/creator/:creator_id/active", h.SubscriptionHandler.GetActiveSubscriptionToCreator)
	}

	// ==================== Creator Billing Profile ====================
	creators := api.Group("/creators")
	creators.Use(h.AuthMiddleware.Auth())
	{
		creators.PUT("/default-plan", h.CreatorHandler.SetDefaultPlan)
		creators.GET("/subscribers", h.SubscriptionHandler.ListMySubscribers)
	}
}
