package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"casino-minigames/internal/models"
	"casino-minigames/internal/services"
)

type GameHandler struct {
	gameEngine   *services.GameEngine
	historyLimit int64
}

func NewGameHandler(gameEngine *services.GameEngine, historyLimit int64) *GameHandler {
	if historyLimit <= 0 || historyLimit > services.MaxHistory {
		historyLimit = services.MaxHistory
	}
	return &GameHandler{
		gameEngine:   gameEngine,
		historyLimit: historyLimit,
	}
}

func (h *GameHandler) StartRound(c *gin.Context) {
	var req models.StartRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	round, err := h.gameEngine.StartRound(c.Request.Context(), c.GetString("session_id"), req.GameType, req.BetAmount)
	if err != nil {
		respondError(c, "Failed to start round", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"round":   round,
	})
}

// bindResolve reads the optional round input. Slots rounds send no body.
func bindResolve(c *gin.Context) (models.ResolveRequest, bool) {
	var req models.ResolveRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return req, false
	}
	return req, true
}

func (h *GameHandler) ComputeOutcome(c *gin.Context) {
	req, ok := bindResolve(c)
	if !ok {
		return
	}

	outcome, err := h.gameEngine.ComputeOutcome(c.Request.Context(), c.GetString("session_id"), c.Param("id"), req)
	if err != nil {
		respondError(c, "Failed to compute outcome", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"outcome": outcome,
	})
}

func (h *GameHandler) RevealOutcome(c *gin.Context) {
	result, err := h.gameEngine.RevealOutcome(c.Request.Context(), c.GetString("session_id"), c.Param("id"))
	if err != nil {
		respondError(c, "Failed to reveal outcome", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

func (h *GameHandler) ResolveRound(c *gin.Context) {
	req, ok := bindResolve(c)
	if !ok {
		return
	}

	result, err := h.gameEngine.ResolveRound(c.Request.Context(), c.GetString("session_id"), c.Param("id"), req)
	if err != nil {
		respondError(c, "Failed to resolve round", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

func (h *GameHandler) CancelRound(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if err := h.gameEngine.CancelRound(c.Request.Context(), sessionID, c.Param("id")); err != nil {
		respondError(c, "Failed to cancel round", err)
		return
	}

	balance, err := h.gameEngine.GetBalance(sessionID)
	if err != nil {
		respondError(c, "Failed to get balance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"balance": balance,
	})
}

func (h *GameHandler) GetBalance(c *gin.Context) {
	balance, err := h.gameEngine.GetBalance(c.GetString("session_id"))
	if err != nil {
		respondError(c, "Failed to get balance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"balance": balance,
	})
}

func (h *GameHandler) GetHistory(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit <= 0 || limit > h.historyLimit {
		limit = 50
	}

	rounds, err := h.gameEngine.History(c.Request.Context(), c.GetString("session_id"), limit)
	if err != nil {
		respondError(c, "Failed to get round history", err)
		return
	}
	if rounds == nil {
		rounds = []*models.RoundRecord{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rounds":  rounds,
		"count":   len(rounds),
	})
}

func (h *GameHandler) GetTables(c *gin.Context) {
	rules := h.gameEngine.Rules()

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tables":  rules.Tables,
		"slots": gin.H{
			"paytable": rules.Slots.Paytable,
		},
		"poker": gin.H{
			"draw_policy": rules.Poker.Policy().String(),
		},
	})
}
