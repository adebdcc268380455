package main

import (
	"context"
	"fmt"
	"log"

	"backend/configs"
	"backend/controllers"
	"backend/repository"
	"backend/routes"
	"backend/services"
	"backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := configs.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	// DB
	configs.ConnectionDB(cfg)
	db := configs.DB()
	configs.SetupDatabase()

	if err := configs.SeedDemoTenant(); err != nil {
		logger.Fatal("seed demo tenant failed", zap.Error(err))
	}

	// Repositories
	tenantRepo := repository.NewTenantRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	tableRepo := repository.NewTableRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	userRepo := repository.NewUserRepository(db)

	// One-time-link claim store: redis when configured, in-process otherwise
	var guard services.LinkGuard
	if cfg.RedisAddr != "" {
		guard = services.NewRedisLinkGuard(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}), 0)
	} else {
		guard = services.NewMemoryLinkGuard()
	}

	// Oracle: live when a key is present, heuristic-only otherwise
	var oracle services.Oracle
	if cfg.GeminiAPIKey != "" {
		o, err := services.NewGeminiOracle(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			logger.Warn("oracle disabled", zap.Error(err))
		} else {
			oracle = o
		}
	}

	events := services.NewEventPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	hub := ws.NewOrderHub(logger)
	go hub.Run()

	// Services
	orderSvc := services.NewOrderService(db, orderRepo, tableRepo, sessionRepo, events, hub, logger)
	sessionSvc := services.NewSessionService(db, sessionRepo, guard, logger)
	extractor := services.NewExtractor(oracle, logger)
	chatSvc := services.NewChatService(db, tenantRepo, menuRepo, sessionRepo, sessionSvc, orderSvc, extractor, services.NewGuardrail(), logger)
	paymentSvc := services.NewPaymentService(db, paymentRepo, orderSvc)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)

	// HTTP
	r := gin.Default()
	routes.RegisterRoutes(r, cfg, &routes.Deps{
		Chat:     controllers.NewChatController(chatSvc),
		Orders:   controllers.NewOrderController(tenantRepo, menuRepo, orderSvc),
		Payments: controllers.NewPaymentController(tenantRepo, paymentSvc),
		Tables:   controllers.NewTableController(tenantRepo, tableRepo, cfg.PublicBaseURL),
		Menu:     controllers.NewMenuController(tenantRepo, menuRepo),
		Auth:     controllers.NewAuthController(authSvc),
		Hub:      hub,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
