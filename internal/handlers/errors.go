package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-minigames/internal/ledger"
	"casino-minigames/internal/logger"
	"casino-minigames/internal/services"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrInvalidBet),
		errors.Is(err, services.ErrUnknownGame),
		errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrRoundInProgress),
		errors.Is(err, services.ErrOutcomePending),
		errors.Is(err, services.ErrOutcomeComputed),
		errors.Is(err, ledger.ErrNoRound):
		return http.StatusConflict
	case errors.Is(err, services.ErrRoundNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Errorf("%s: %v", message, err)
	}
	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}
