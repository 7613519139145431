package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"casino-minigames/internal/config"
	"casino-minigames/internal/handlers"
	"casino-minigames/internal/logger"
	"casino-minigames/internal/services"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogEncoding); err != nil {
		logger.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found, using environment variables")
	}

	rules, err := config.LoadRules(cfg.GameRulesPath)
	if err != nil {
		logger.Fatalf("Failed to load game rules: %v", err)
	}

	ctx := context.Background()

	var store services.Store
	if cfg.RedisURL != "" {
		redisService, err := services.NewRedisService(ctx, cfg)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		store = redisService
	} else {
		logger.Warnf("REDIS_URL not set, keeping rate limits and history in memory")
		store = services.NewMemoryStore()
	}
	defer store.Close()

	metrics := services.NewMetrics()
	gameEngine := services.NewGameEngine(store, rules,
		services.WithMetrics(metrics),
		services.WithRateLimit(cfg.RateLimitRounds),
	)

	authService, err := services.NewAuthService(bcrypt.DefaultCost)
	if err != nil {
		logger.Fatalf("Failed to seed accounts: %v", err)
	}
	jwtService := services.NewJWTService(cfg)

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			gameEngine.CleanupStaleRounds(ctx, cfg.StaleRoundAge)
			for _, closed := range gameEngine.CleanupStaleSessions(ctx, cfg.SessionIdleTimeout) {
				if err := authService.SetBalance(closed.UserID, closed.Balance); err != nil {
					logger.Warnf("failed to store balance for user %s: %v", closed.UserID, err)
				}
			}
		}
	}()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:         authService,
		JWT:          jwtService,
		Engine:       gameEngine,
		Store:        store,
		Metrics:      metrics,
		HistoryLimit: cfg.HistoryLimit,
		RevealLimit:  services.DefaultRateLimitReveals,
	})

	logger.Infof("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
