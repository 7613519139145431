package models

import "github.com/shopspring/decimal"

type BalanceResponse struct {
	SessionID string          `json:"session_id"`
	Balance   decimal.Decimal `json:"balance"`
	Phase     string          `json:"phase"`
	// CurrentBet is the stake held by the open round, zero between rounds.
	CurrentBet decimal.Decimal `json:"current_bet"`
}
