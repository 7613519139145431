package models

import (
	"time"

	"github.com/shopspring/decimal"

	"casino-minigames/internal/cards"
)

type RoundStatus string

const (
	RoundStatusOpen      RoundStatus = "open"
	RoundStatusComputed  RoundStatus = "computed"
	RoundStatusSettled   RoundStatus = "settled"
	RoundStatusCancelled RoundStatus = "cancelled"
)

// RoundHandle identifies a started round. For poker it carries the dealt
// hand so the player can choose holds.
type RoundHandle struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	UserID    string          `json:"user_id"`
	GameType  GameType        `json:"game_type"`
	BetAmount decimal.Decimal `json:"bet_amount"`
	Hand      []cards.Card    `json:"hand,omitempty"`
	Status    RoundStatus     `json:"status"`
	StartedAt time.Time       `json:"started_at"`
}

// Outcome is the authoritative result of a round, computed before the
// player is shown anything.
type Outcome struct {
	RoundID    string          `json:"round_id"`
	GameType   GameType        `json:"game_type"`
	Outcome    string          `json:"outcome"`
	Multiplier int64           `json:"multiplier"`
	Payout     decimal.Decimal `json:"payout"`
	Detail     interface{}     `json:"detail"`
}

// Win reports whether the outcome pays anything.
func (o *Outcome) Win() bool {
	return o.Payout.IsPositive()
}

type SettlementResult struct {
	RoundID    string          `json:"round_id"`
	GameType   GameType        `json:"game_type"`
	Outcome    string          `json:"outcome"`
	Multiplier int64           `json:"multiplier"`
	BetAmount  decimal.Decimal `json:"bet_amount"`
	Payout     decimal.Decimal `json:"payout"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Win        bool            `json:"win"`
	Detail     interface{}     `json:"detail,omitempty"`
	SettledAt  time.Time       `json:"settled_at"`
}

// PokerDetail is the settlement detail of a draw poker round.
type PokerDetail struct {
	Dealt       []cards.Card `json:"dealt"`
	Held        []int        `json:"held"`
	Final       []cards.Card `json:"final"`
	Category    string       `json:"category"`
	Description string       `json:"description,omitempty"`
}
