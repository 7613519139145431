package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"casino-minigames/internal/services"
)

var (
	errMalformedAuth = errors.New("invalid authorization format")
	errMissingAuth   = errors.New("authorization header required")
)

// tokenFrom reads a bearer token, falling back to the token query parameter
// since browsers cannot set headers on a websocket upgrade.
func tokenFrom(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if token := c.Query("token"); token != "" {
			return token, nil
		}
		return "", errMissingAuth
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", errMalformedAuth
	}
	return token, nil
}

// AuthMiddleware admits requests carrying a valid session token and exposes
// its user_id and session_id to handlers.
func AuthMiddleware(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenFrom(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("session_id", claims.SessionID)
		c.Next()
	}
}

// RateLimitMiddleware throttles the outcome endpoints per session. Starting a
// round is limited by the engine itself.
func RateLimitMiddleware(store services.Store, limit int) gin.HandlerFunc {
	window := time.Minute
	return func(c *gin.Context) {
		sessionID := c.GetString("session_id")
		if sessionID == "" || limit <= 0 {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		var action string
		switch {
		case strings.HasSuffix(path, "/compute"):
			action = services.ActionCompute
		case strings.HasSuffix(path, "/reveal"):
			action = services.ActionReveal
		case strings.HasSuffix(path, "/resolve"):
			action = services.ActionResolve
		default:
			c.Next()
			return
		}

		allowed, err := store.CheckRateLimit(c.Request.Context(), sessionID, action, limit, window)
		if err != nil || !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": window.Seconds(),
			})
			return
		}

		c.Next()
	}
}
