package services

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"casino-minigames/internal/cards"
	"casino-minigames/internal/ledger"
	"casino-minigames/internal/models"
	"casino-minigames/internal/rng"
)

// Session is one player's play session: a ledger seeded from the user's
// balance, its own random source and at most one round in flight.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time

	ledger *ledger.Ledger

	lastSeen atomic.Int64

	mu            sync.Mutex
	src           rng.Source
	active        *round
	spinsSinceWin int
}

type round struct {
	handle    *models.RoundHandle
	deck      []cards.Card
	outcome   *models.Outcome
	startedAt time.Time
}

func newSession(id, userID string, balance decimal.Decimal, src rng.Source, now time.Time) *Session {
	s := &Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		ledger:    ledger.New(balance),
		src:       src,
	}
	s.touch(now)
	return s
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen is the last time the session was used.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) Balance() decimal.Decimal {
	return s.ledger.Balance()
}

func (s *Session) Phase() ledger.Phase {
	return s.ledger.Phase()
}

// SpinsSinceWin is the slot machine losing streak of the session.
func (s *Session) SpinsSinceWin() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spinsSinceWin
}

// ActiveRound returns the handle of the round in flight, if any.
func (s *Session) ActiveRound() *models.RoundHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	h := *s.active.handle
	return &h
}

func (s *Session) balanceResponse() *models.BalanceResponse {
	return &models.BalanceResponse{
		SessionID:  s.ID,
		Balance:    s.ledger.Balance(),
		Phase:      string(s.ledger.Phase()),
		CurrentBet: s.ledger.CurrentBet(),
	}
}
