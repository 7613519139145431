package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-minigames/internal/middleware"
	"casino-minigames/internal/services"
)

type RouterDeps struct {
	Auth         *services.AuthService
	JWT          *services.JWTService
	Engine       *services.GameEngine
	Store        services.Store
	Hub          *WebSocketHub
	Metrics      *services.Metrics
	HistoryLimit int64
	RevealLimit  int
}

func NewRouter(d RouterDeps) *gin.Engine {
	if d.Hub == nil {
		d.Hub = NewWebSocketHub()
	}
	d.Engine.SetBroadcaster(d.Hub)

	authHandler := NewAuthHandler(d.Auth, d.JWT, d.Engine)
	userHandler := NewUserHandler(d.Auth, d.Engine)
	gameHandler := NewGameHandler(d.Engine, d.HistoryLimit)
	wsHandler := NewWebSocketHandler(d.Engine, d.Hub)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	auth := router.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(d.JWT))
	protected.Use(middleware.RateLimitMiddleware(d.Store, d.RevealLimit))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.POST("/logout", userHandler.Logout)
		protected.POST("/premium", userHandler.UpgradePremium)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		games := protected.Group("/games")
		{
			games.POST("/rounds", gameHandler.StartRound)
			games.POST("/rounds/:id/compute", gameHandler.ComputeOutcome)
			games.POST("/rounds/:id/reveal", gameHandler.RevealOutcome)
			games.POST("/rounds/:id/resolve", gameHandler.ResolveRound)
			games.DELETE("/rounds/:id", gameHandler.CancelRound)

			games.GET("/balance", gameHandler.GetBalance)
			games.GET("/history", gameHandler.GetHistory)
			games.GET("/tables", gameHandler.GetTables)
		}
	}

	return router
}
