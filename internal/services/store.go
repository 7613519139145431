package services

import (
	"context"
	"time"

	"casino-minigames/internal/models"
)

// Store keeps the short-lived side data of the engine: rate limit counters
// and the capped per-user round history. Balances never live here.
type Store interface {
	CheckRateLimit(ctx context.Context, subject, action string, limit int, window time.Duration) (bool, error)
	ClearRateLimit(ctx context.Context, subject, action string) error
	RecordRound(ctx context.Context, rec *models.RoundRecord) error
	GetRoundHistory(ctx context.Context, userID string, limit int64) ([]*models.RoundRecord, error)
	Close() error
}
