package services

import (
	"github.com/shopspring/decimal"

	"casino-minigames/internal/models"
)

// Broadcaster pushes revealed rounds to the presentation layer of a session.
type Broadcaster interface {
	BroadcastRoundRevealed(sessionID string, result *models.SettlementResult)
	BroadcastBalance(sessionID string, balance decimal.Decimal)
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastRoundRevealed(string, *models.SettlementResult) {}
func (noopBroadcaster) BroadcastBalance(string, decimal.Decimal)                {}
