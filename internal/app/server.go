// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"primeplus-service/internal/caching"
	"primeplus-service/internal/config"
	"primeplus-service/internal/db"
	creatorHandler "primeplus-service/internal/handlers/creator"
	planHandler "primeplus-service/internal/handlers/plan"
	promoHandler "primeplus-service/internal/handlers/promo"
	subscriptionHandler "primeplus-service/internal/handlers/subscription"
	"primeplus-service/internal/middleware"
	"primeplus-service/internal/pkg/jwt"
	"primeplus-service/internal/repository/postgres"
	creatorUsecase "primeplus-service/internal/service/creator"
	planUsecase "primeplus-service/internal/service/plan"
	"primeplus-service/internal/service/pricing"
	promoUsecase "primeplus-service/internal/service/promo"
	subscriptionUsecase "primeplus-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.Default()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- Redis -----
	redisCfg := db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	}

	var planCache caching.PlanCache
	redisClient, err := db.NewRedisClient(redisCfg)
	if err != nil {
		// The plan cache is an accelerator, not a dependency; the service
		// runs against PostgreSQL alone when Redis is down.
		logger.Warn("redis unavailable, plan cache disabled", zap.Error(err))
	} else {
		planCache = caching.NewRedisPlanCache(redisClient, s.cfg.PlanCacheTTL)
		log.Println("[REDIS] ✅ Connected successfully")
	}

	// ----- JWT Verifier -----
	verifier, err := jwt.LoadVerifier(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT verifier: %w", err)
	}

	// ----- Repositories -----
	planRepo := postgres.NewPlanRepository(pool)
	promoRepo := postgres.NewPromoRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	creatorRepo := postgres.NewCreatorRepository(pool)

	// ----- Services (Usecases) -----
	calculator := pricing.NewCalculator(promoRepo, s.cfg.Pricing, logger)
	planService := planUsecase.NewPlanService(planRepo, planCache, logger)
	promoService := promoUsecase.NewPromoService(promoRepo, planRepo, logger)
	subscriptionService := subscriptionUsecase.NewSubscriptionService(
		subscriptionRepo,
		planRepo,
		calculator,
		s.cfg.Pricing,
		logger,
	)
	defaultPlanService := creatorUsecase.NewDefaultPlanService(creatorRepo, planRepo, logger)

	// ----- Handlers -----
	planHandlerInst := planHandler.NewPlanHandler(planService)
	promoHandlerInst := promoHandler.NewPromoHandler(promoService)
	subscriptionHandlerInst := subscriptionHandler.NewSubscriptionHandler(subscriptionService)
	creatorHandlerInst := creatorHandler.NewCreatorHandler(defaultPlanService)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(verifier)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		PlanHandler:         planHandlerInst,
		PromoHandler:        promoHandlerInst,
		SubscriptionHandler: subscriptionHandlerInst,
		CreatorHandler:      creatorHandlerInst,
		AuthMiddleware:      authMiddleware,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	log.Printf("🚀 Server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
