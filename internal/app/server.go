// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"leadflow-service/internal/config"
	"leadflow-service/internal/db"
	"leadflow-service/internal/events"
	brandHandler "leadflow-service/internal/handlers/brand"
	customerHandler "leadflow-service/internal/handlers/customer"
	eventsHandler "leadflow-service/internal/handlers/events"
	"leadflow-service/internal/repository/postgres"
	brandsvc "leadflow-service/internal/service/brand"
	customersvc "leadflow-service/internal/service/customer"

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
	pool, err := db.ConnectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- Event hub -----
	hub := events.NewHub(logger)
	go hub.Run(ctx)

	// ----- Repositories -----
	customerRepo := postgres.NewCustomerRepository(pool)
	brandRepo := postgres.NewBrandSettingsRepository(pool)

	// ----- Services -----
	customerService := customersvc.NewCustomerService(
		customerRepo,
		customersvc.Config{
			MinPhoneDigits: s.cfg.MinPhoneDigits,
			BatchWarnSize:  s.cfg.BatchWarnSize,
			ErrorCap:       s.cfg.ErrorCap,
		},
		hub,
		logger,
	)
	brandService := brandsvc.NewBrandService(
		brandRepo,
		brandsvc.NewRedisCache(redisClient),
		brandsvc.Config{MaxLogoBytes: s.cfg.MaxLogoBytes},
		logger,
	)

	// ----- Handlers -----
	h := &Handlers{
		CustomerHandler: customerHandler.NewCustomerHandler(customerService),
		BrandHandler:    brandHandler.NewBrandHandler(brandService),
		EventsHandler:   eventsHandler.NewEventsHandler(hub, logger),
	}

	SetupRouter(s.engine, logger, h)

	logger.Info("server starting", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}
