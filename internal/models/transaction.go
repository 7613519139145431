package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoundRecord is the history entry kept for a settled round.
type RoundRecord struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	SessionID    string          `json:"session_id"`
	GameType     GameType        `json:"game_type"`
	BetAmount    decimal.Decimal `json:"bet_amount"`
	Payout       decimal.Decimal `json:"payout"`
	Outcome      string          `json:"outcome"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewRoundRecord builds the history entry of a settlement.
func NewRoundRecord(userID, sessionID string, res *SettlementResult) *RoundRecord {
	return &RoundRecord{
		ID:           res.RoundID,
		UserID:       userID,
		SessionID:    sessionID,
		GameType:     res.GameType,
		BetAmount:    res.BetAmount,
		Payout:       res.Payout,
		Outcome:      res.Outcome,
		BalanceAfter: res.NewBalance,
		CreatedAt:    res.SettledAt,
	}
}
