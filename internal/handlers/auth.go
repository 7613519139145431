package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-minigames/internal/models"
	"casino-minigames/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	jwtService  *services.JWTService
	gameEngine  *services.GameEngine
}

func NewAuthHandler(authService *services.AuthService, jwtService *services.JWTService, gameEngine *services.GameEngine) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
		gameEngine:  gameEngine,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	user, ok := h.authService.Login(req.Email, req.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	h.issueSession(c, http.StatusOK, user)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	user, ok := h.authService.Register(req)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		return
	}

	h.issueSession(c, http.StatusCreated, user)
}

func (h *AuthHandler) issueSession(c *gin.Context, status int, user *models.User) {
	session := h.gameEngine.OpenSession(user)

	token, err := h.jwtService.GenerateToken(user.ID, session.ID)
	if err != nil {
		h.gameEngine.CloseSession(c.Request.Context(), session.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(status, gin.H{
		"token":      token,
		"session_id": session.ID,
		"user":       user,
		"balance":    session.Balance(),
	})
}
