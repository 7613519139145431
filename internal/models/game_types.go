package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"casino-minigames/internal/ledger"
)

var ErrUnknownGameType = errors.New("unknown game type")

type GameType string

const (
	GameTypePoker    GameType = "poker"
	GameTypeSlots    GameType = "slots"
	GameTypeRoulette GameType = "roulette"
)

// GameTypes lists the playable games.
var GameTypes = []GameType{GameTypeRoulette, GameTypePoker, GameTypeSlots}

func (g GameType) Valid() bool {
	switch g {
	case GameTypePoker, GameTypeSlots, GameTypeRoulette:
		return true
	}
	return false
}

type StartRoundRequest struct {
	GameType  GameType        `json:"game_type" binding:"required"`
	BetAmount decimal.Decimal `json:"bet_amount"`
}

// ResolveRequest carries the game specific input of a round: held card
// positions for poker, the outside bet for roulette, nothing for slots.
type ResolveRequest struct {
	Held []int  `json:"held,omitempty"`
	Bet  string `json:"bet,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role"`
}

func (r *StartRoundRequest) Validate() error {
	if !r.GameType.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownGameType, r.GameType)
	}
	if !r.BetAmount.IsPositive() {
		return fmt.Errorf("bet %s: %w", r.BetAmount, ledger.ErrInvalidBet)
	}
	return nil
}
