package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// Phase of a session's betting cycle.
type Phase string

const (
	PhaseBetting   Phase = "betting"
	PhaseResolving Phase = "resolving"
	PhaseSettled   Phase = "settled"
)

var (
	ErrInvalidBet        = errors.New("invalid bet")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrRoundInProgress   = errors.New("round already in progress")
	ErrNoRound           = errors.New("no round in progress")
	ErrInvalidPayout     = errors.New("invalid payout")
)

// Ledger holds one session's balance and the bet of the round in flight.
// Balance never goes negative.
type Ledger struct {
	mu      sync.Mutex
	balance decimal.Decimal
	bet     decimal.Decimal
	phase   Phase

	onChange func(Transition)
}

// Transition is reported to the observer after every phase change.
type Transition struct {
	From    Phase
	To      Phase
	Balance decimal.Decimal
}

// New returns a ledger in the betting phase. A negative opening balance is
// clamped to zero.
func New(balance decimal.Decimal) *Ledger {
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	return &Ledger{balance: balance, phase: PhaseBetting}
}

// OnTransition registers a callback run (under the ledger lock) on every
// phase change.
func (l *Ledger) OnTransition(fn func(Transition)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

func (l *Ledger) Balance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

func (l *Ledger) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

// CurrentBet is the stake of the open round, zero between rounds.
func (l *Ledger) CurrentBet() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bet
}

// PlaceBet debits amount and moves to resolving.
func (l *Ledger) PlaceBet(amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !amount.IsPositive() {
		return fmt.Errorf("bet %s: %w", amount, ErrInvalidBet)
	}
	if l.phase != PhaseBetting {
		return fmt.Errorf("place bet in %s phase: %w", l.phase, ErrRoundInProgress)
	}
	if amount.GreaterThan(l.balance) {
		return fmt.Errorf("bet %s with balance %s: %w", amount, l.balance, ErrInsufficientFunds)
	}

	l.balance = l.balance.Sub(amount)
	l.bet = amount
	l.moveTo(PhaseResolving)
	return nil
}

// Settle credits payout for the open round and returns to betting.
func (l *Ledger) Settle(payout decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != PhaseResolving {
		return fmt.Errorf("settle in %s phase: %w", l.phase, ErrNoRound)
	}
	if payout.IsNegative() {
		return fmt.Errorf("payout %s: %w", payout, ErrInvalidPayout)
	}

	l.balance = l.balance.Add(payout)
	l.bet = decimal.Zero
	l.moveTo(PhaseSettled)
	l.moveTo(PhaseBetting)
	return nil
}

// Reset cancels the open round, refunding its bet. Outside a round it does
// nothing.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.phase != PhaseResolving {
		return
	}
	l.balance = l.balance.Add(l.bet)
	l.bet = decimal.Zero
	l.moveTo(PhaseBetting)
}

func (l *Ledger) moveTo(p Phase) {
	from := l.phase
	l.phase = p
	if l.onChange != nil {
		l.onChange(Transition{From: from, To: p, Balance: l.balance})
	}
}
