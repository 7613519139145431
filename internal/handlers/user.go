package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-minigames/internal/logger"
	"casino-minigames/internal/services"
)

type UserHandler struct {
	authService *services.AuthService
	gameEngine  *services.GameEngine
}

func NewUserHandler(authService *services.AuthService, gameEngine *services.GameEngine) *UserHandler {
	return &UserHandler{
		authService: authService,
		gameEngine:  gameEngine,
	}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.authService.GetUser(c.GetString("user_id"))
	if err != nil {
		respondError(c, "User not found", err)
		return
	}

	session, err := h.gameEngine.GetSession(c.GetString("session_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired or invalid"})
		return
	}
	user.Balance = session.Balance()

	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"session": gin.H{
			"session_id":   session.ID,
			"created_at":   session.CreatedAt,
			"phase":        session.Phase(),
			"active_round": session.ActiveRound(),
		},
	})
}

// Logout closes the session, finishing any open round, and keeps the final
// balance on the account.
func (h *UserHandler) Logout(c *gin.Context) {
	userID := c.GetString("user_id")

	balance, err := h.gameEngine.CloseSession(c.Request.Context(), c.GetString("session_id"))
	if err != nil {
		respondError(c, "Failed to logout", err)
		return
	}

	if err := h.authService.SetBalance(userID, balance); err != nil {
		logger.Warnf("logout: failed to store balance for user %s: %v", userID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully logged out",
		"balance": balance,
	})
}

func (h *UserHandler) UpgradePremium(c *gin.Context) {
	user, err := h.authService.UpgradeToPremium(c.GetString("user_id"))
	if err != nil {
		respondError(c, "Failed to upgrade", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}
