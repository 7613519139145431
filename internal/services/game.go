package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"casino-minigames/internal/cards"
	"casino-minigames/internal/config"
	"casino-minigames/internal/games/poker"
	"casino-minigames/internal/games/roulette"
	"casino-minigames/internal/games/slots"
	"casino-minigames/internal/ledger"
	"casino-minigames/internal/logger"
	"casino-minigames/internal/models"
	"casino-minigames/internal/rng"
)

type GameEngine struct {
	store       Store
	rules       *config.GameRules
	slots       *slots.Resolver
	drawPolicy  poker.DrawPolicy
	metrics     *Metrics
	broadcaster Broadcaster
	newSource   func() rng.Source
	now         func() time.Time
	rateLimit   int

	mu       sync.RWMutex
	sessions map[string]*Session
	byUser   map[string]*Session
	rounds   map[string]*Session
}

// ClosedSession is what is left of a session after it is closed.
type ClosedSession struct {
	SessionID string
	UserID    string
	Balance   decimal.Decimal
}

type EngineOption func(*GameEngine)

// WithMetrics records round counters on m.
func WithMetrics(m *Metrics) EngineOption {
	return func(ge *GameEngine) { ge.metrics = m }
}

// WithSourceFactory sets how each new session gets its random source.
func WithSourceFactory(fn func() rng.Source) EngineOption {
	return func(ge *GameEngine) { ge.newSource = fn }
}

// WithRateLimit caps rounds started per session per minute. Zero disables it.
func WithRateLimit(perMinute int) EngineOption {
	return func(ge *GameEngine) { ge.rateLimit = perMinute }
}

func WithClock(now func() time.Time) EngineOption {
	return func(ge *GameEngine) { ge.now = now }
}

func NewGameEngine(store Store, rules *config.GameRules, opts ...EngineOption) *GameEngine {
	if rules == nil {
		rules = config.DefaultRules()
	}
	ge := &GameEngine{
		store:       store,
		rules:       rules,
		slots:       slots.NewResolver(rules.Slots.Paytable, rules.Slots.PityRule(), rules.Slots.Frames),
		drawPolicy:  rules.Poker.Policy(),
		broadcaster: noopBroadcaster{},
		newSource:   rng.NewSeeded,
		now:         time.Now,
		rateLimit:   DefaultRateLimitRounds,
		sessions:    make(map[string]*Session),
		byUser:      make(map[string]*Session),
		rounds:      make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(ge)
	}
	return ge
}

// SetBroadcaster wires the push channel once the websocket hub exists.
func (ge *GameEngine) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = noopBroadcaster{}
	}
	ge.mu.Lock()
	ge.broadcaster = b
	ge.mu.Unlock()
}

func (ge *GameEngine) Rules() *config.GameRules {
	return ge.rules
}

// OpenSession starts a play session seeded from the user's balance. A user
// has at most one session: logging in again resumes the open one.
func (ge *GameEngine) OpenSession(user *models.User) *Session {
	now := ge.now()

	ge.mu.Lock()
	if s, ok := ge.byUser[user.ID]; ok {
		ge.mu.Unlock()
		s.touch(now)
		logger.Infow("session resumed", "session_id", s.ID, "user_id", user.ID)
		return s
	}
	s := newSession(models.GenerateSessionID(), user.ID, user.Balance, ge.newSource(), now)
	ge.sessions[s.ID] = s
	ge.byUser[user.ID] = s
	ge.mu.Unlock()

	ge.metrics.sessionOpened()
	logger.Infow("session opened", "session_id", s.ID, "user_id", user.ID, "balance", s.Balance().String())
	return s
}

func (ge *GameEngine) GetSession(sessionID string) (*Session, error) {
	ge.mu.RLock()
	s, ok := ge.sessions[sessionID]
	ge.mu.RUnlock()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	s.touch(ge.now())
	return s, nil
}

// CloseSession finishes any open round and forgets the session. A computed
// round is settled, an uncomputed one refunded. It returns the final balance.
func (ge *GameEngine) CloseSession(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	ge.mu.RLock()
	s, ok := ge.sessions[sessionID]
	ge.mu.RUnlock()
	if !ok {
		return decimal.Zero, ErrNotAuthenticated
	}

	if h := s.ActiveRound(); h != nil {
		if _, err := ge.finishRound(ctx, sessionID, h.ID); err != nil && !errors.Is(err, ErrRoundNotFound) {
			return decimal.Zero, err
		}
	}

	ge.mu.Lock()
	if _, ok := ge.sessions[sessionID]; !ok {
		ge.mu.Unlock()
		return decimal.Zero, ErrNotAuthenticated
	}
	delete(ge.sessions, sessionID)
	if ge.byUser[s.UserID] == s {
		delete(ge.byUser, s.UserID)
	}
	ge.mu.Unlock()

	for _, action := range rateLimitActions {
		if err := ge.store.ClearRateLimit(ctx, sessionID, action); err != nil {
			logger.Warnf("failed to clear %s rate limit of session %s: %v", action, sessionID, err)
		}
	}

	ge.metrics.sessionClosed()
	logger.Infow("session closed", "session_id", sessionID, "balance", s.Balance().String())
	return s.Balance(), nil
}

// CleanupStaleSessions closes sessions unused for longer than maxIdle. The
// caller stores the returned balances back on the accounts.
func (ge *GameEngine) CleanupStaleSessions(ctx context.Context, maxIdle time.Duration) []ClosedSession {
	now := ge.now()

	ge.mu.RLock()
	var idle []*Session
	for _, s := range ge.sessions {
		if now.Sub(s.LastSeen()) > maxIdle {
			idle = append(idle, s)
		}
	}
	ge.mu.RUnlock()

	var closed []ClosedSession
	for _, s := range idle {
		balance, err := ge.CloseSession(ctx, s.ID)
		if err != nil {
			if !errors.Is(err, ErrNotAuthenticated) {
				logger.Errorf("failed to close idle session %s: %v", s.ID, err)
			}
			continue
		}
		closed = append(closed, ClosedSession{SessionID: s.ID, UserID: s.UserID, Balance: balance})
	}
	if len(closed) > 0 {
		logger.Warnf("closed %d idle sessions", len(closed))
	}
	return closed
}

func (ge *GameEngine) GetBalance(sessionID string) (*models.BalanceResponse, error) {
	s, err := ge.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.balanceResponse(), nil
}

func (ge *GameEngine) validateBet(game models.GameType, amount decimal.Decimal) error {
	req := models.StartRoundRequest{GameType: game, BetAmount: amount}
	if err := req.Validate(); err != nil {
		return err
	}
	limits, ok := ge.rules.Tables[string(game)]
	if !ok {
		return nil
	}
	if amount.LessThan(limits.MinBet) {
		return fmt.Errorf("minimum %s bet is %s: %w", game, limits.MinBet, ledger.ErrInvalidBet)
	}
	if amount.GreaterThan(limits.MaxBet) {
		return fmt.Errorf("maximum %s bet is %s: %w", game, limits.MaxBet, ledger.ErrInvalidBet)
	}
	return nil
}

// StartRound debits the bet and opens a round. Poker rounds are dealt here.
func (ge *GameEngine) StartRound(ctx context.Context, sessionID string, game models.GameType, amount decimal.Decimal) (*models.RoundHandle, error) {
	s, err := ge.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := ge.validateBet(game, amount); err != nil {
		return nil, err
	}

	if ge.rateLimit > 0 {
		allowed, err := ge.store.CheckRateLimit(ctx, s.ID, ActionRound, ge.rateLimit, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("rate limit check failed: %w", err)
		}
		if !allowed {
			return nil, ErrRateLimited
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return nil, fmt.Errorf("round %s still open: %w", s.active.handle.ID, ledger.ErrRoundInProgress)
	}

	if err := s.ledger.PlaceBet(amount); err != nil {
		return nil, err
	}

	r := &round{
		handle: &models.RoundHandle{
			ID:        models.GenerateRoundID(),
			SessionID: s.ID,
			UserID:    s.UserID,
			GameType:  game,
			BetAmount: amount,
			Status:    models.RoundStatusOpen,
			StartedAt: ge.now(),
		},
		startedAt: ge.now(),
	}

	if game == models.GameTypePoker {
		deck := cards.Shuffle(cards.NewDeck(), s.src)
		hand, rest, err := cards.Deal(deck, poker.HandSize)
		if err != nil {
			s.ledger.Reset()
			return nil, fmt.Errorf("failed to deal: %w", err)
		}
		r.handle.Hand = hand
		r.deck = rest
	}

	s.active = r
	ge.mu.Lock()
	ge.rounds[r.handle.ID] = s
	ge.mu.Unlock()

	ge.metrics.roundStarted(game)
	logger.Infow("round started",
		"round_id", r.handle.ID,
		"session_id", s.ID,
		"game", game,
		"bet", amount.String(),
	)

	h := *r.handle
	return &h, nil
}

// lockRound returns the session owning roundID with its lock held.
func (ge *GameEngine) lockRound(sessionID, roundID string) (*Session, *round, error) {
	ge.mu.RLock()
	s, ok := ge.rounds[roundID]
	ge.mu.RUnlock()
	if !ok || s.ID != sessionID {
		return nil, nil, ErrRoundNotFound
	}
	s.touch(ge.now())

	s.mu.Lock()
	if s.active == nil || s.active.handle.ID != roundID {
		s.mu.Unlock()
		return nil, nil, ErrRoundNotFound
	}
	return s, s.active, nil
}

// ComputeOutcome resolves the round without touching the balance. Calling
// it again returns the stored outcome.
func (ge *GameEngine) ComputeOutcome(ctx context.Context, sessionID, roundID string, input models.ResolveRequest) (*models.Outcome, error) {
	s, r, err := ge.lockRound(sessionID, roundID)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	if r.outcome != nil {
		o := *r.outcome
		return &o, nil
	}

	var outcome *models.Outcome
	switch r.handle.GameType {
	case models.GameTypePoker:
		outcome, err = ge.computePoker(s, r, input)
	case models.GameTypeSlots:
		outcome = ge.computeSlots(s)
	case models.GameTypeRoulette:
		outcome, err = ge.computeRoulette(s, input)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownGame, r.handle.GameType)
	}
	if err != nil {
		return nil, err
	}

	outcome.RoundID = r.handle.ID
	outcome.GameType = r.handle.GameType
	outcome.Payout = models.CalculatePayout(r.handle.BetAmount, outcome.Multiplier)
	r.outcome = outcome
	r.handle.Status = models.RoundStatusComputed

	logger.Debugf("round %s computed: %s x%d", r.handle.ID, outcome.Outcome, outcome.Multiplier)

	o := *outcome
	return &o, nil
}

func (ge *GameEngine) computePoker(s *Session, r *round, input models.ResolveRequest) (*models.Outcome, error) {
	final, rest, err := poker.Draw(r.handle.Hand, input.Held, r.deck, s.src, ge.drawPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	res, err := poker.Evaluate(final)
	if err != nil {
		return nil, err
	}
	r.deck = rest

	desc, err := poker.Describe(final)
	if err != nil {
		logger.Debugf("describe hand %v: %v", final, err)
	}

	return &models.Outcome{
		Outcome:    res.Category.String(),
		Multiplier: res.Multiplier,
		Detail: models.PokerDetail{
			Dealt:       r.handle.Hand,
			Held:        input.Held,
			Final:       final,
			Category:    res.Category.String(),
			Description: desc,
		},
	}, nil
}

func (ge *GameEngine) computeSlots(s *Session) *models.Outcome {
	spin := ge.slots.Spin(s.src, s.spinsSinceWin)

	names := make([]string, len(spin.Reels))
	for i, sym := range spin.Reels {
		names[i] = string(sym)
	}
	return &models.Outcome{
		Outcome:    strings.Join(names, "-"),
		Multiplier: spin.Multiplier,
		Detail:     spin,
	}
}

func (ge *GameEngine) computeRoulette(s *Session, input models.ResolveRequest) (*models.Outcome, error) {
	bet, err := roulette.ParseBet(input.Bet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	res := roulette.Resolve(bet, s.src)
	return &models.Outcome{
		Outcome:    fmt.Sprintf("%d %s", res.Slot.Number, res.Slot.Color),
		Multiplier: res.Multiplier,
		Detail:     res,
	}, nil
}

// RevealOutcome settles a computed round and publishes the result.
func (ge *GameEngine) RevealOutcome(ctx context.Context, sessionID, roundID string) (*models.SettlementResult, error) {
	s, r, err := ge.lockRound(sessionID, roundID)
	if err != nil {
		return nil, err
	}

	if r.outcome == nil {
		s.mu.Unlock()
		return nil, ErrOutcomePending
	}

	if err := s.ledger.Settle(r.outcome.Payout); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to settle round: %w", err)
	}

	if r.handle.GameType == models.GameTypeSlots {
		s.spinsSinceWin = slots.NextSpinCount(s.spinsSinceWin, r.outcome.Win())
	}

	result := &models.SettlementResult{
		RoundID:    r.handle.ID,
		GameType:   r.handle.GameType,
		Outcome:    r.outcome.Outcome,
		Multiplier: r.outcome.Multiplier,
		BetAmount:  r.handle.BetAmount,
		Payout:     r.outcome.Payout,
		NewBalance: s.ledger.Balance(),
		Win:        r.outcome.Win(),
		Detail:     r.outcome.Detail,
		SettledAt:  ge.now(),
	}
	r.handle.Status = models.RoundStatusSettled
	s.active = nil
	s.mu.Unlock()

	ge.mu.Lock()
	delete(ge.rounds, roundID)
	b := ge.broadcaster
	ge.mu.Unlock()

	if err := ge.store.RecordRound(ctx, models.NewRoundRecord(s.UserID, s.ID, result)); err != nil {
		logger.Errorf("failed to record round %s: %v", roundID, err)
	}
	ge.metrics.roundSettled(result)
	b.BroadcastRoundRevealed(s.ID, result)
	b.BroadcastBalance(s.ID, result.NewBalance)

	logger.Infow("round settled",
		"round_id", roundID,
		"session_id", s.ID,
		"game", result.GameType,
		"outcome", result.Outcome,
		"payout", result.Payout.String(),
		"balance", result.NewBalance.String(),
	)
	return result, nil
}

// ResolveRound computes and immediately reveals the outcome.
func (ge *GameEngine) ResolveRound(ctx context.Context, sessionID, roundID string, input models.ResolveRequest) (*models.SettlementResult, error) {
	if _, err := ge.ComputeOutcome(ctx, sessionID, roundID, input); err != nil {
		return nil, err
	}
	return ge.RevealOutcome(ctx, sessionID, roundID)
}

// CancelRound abandons a round and refunds its bet. Once the outcome is
// computed the round can only be revealed.
func (ge *GameEngine) CancelRound(ctx context.Context, sessionID, roundID string) error {
	s, r, err := ge.lockRound(sessionID, roundID)
	if err != nil {
		return err
	}
	if r.outcome != nil {
		s.mu.Unlock()
		return fmt.Errorf("round %s: %w", roundID, ErrOutcomeComputed)
	}
	s.ledger.Reset()
	r.handle.Status = models.RoundStatusCancelled
	s.active = nil
	s.mu.Unlock()

	ge.mu.Lock()
	delete(ge.rounds, roundID)
	b := ge.broadcaster
	ge.mu.Unlock()

	ge.metrics.roundCancelled(r.handle.GameType)
	b.BroadcastBalance(s.ID, s.Balance())
	logger.Infow("round cancelled", "round_id", roundID, "session_id", s.ID)
	return nil
}

// finishRound refunds a round that has no outcome yet and settles one that
// has. It reports whether the round was settled.
func (ge *GameEngine) finishRound(ctx context.Context, sessionID, roundID string) (bool, error) {
	err := ge.CancelRound(ctx, sessionID, roundID)
	if !errors.Is(err, ErrOutcomeComputed) {
		return false, err
	}
	if _, err := ge.RevealOutcome(ctx, sessionID, roundID); err != nil {
		return false, err
	}
	return true, nil
}

func (ge *GameEngine) History(ctx context.Context, sessionID string, limit int64) ([]*models.RoundRecord, error) {
	s, err := ge.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return ge.store.GetRoundHistory(ctx, s.UserID, limit)
}

// CleanupStaleRounds finishes rounds open for longer than maxAge: computed
// rounds are settled, the rest refunded. It returns how many it finished.
func (ge *GameEngine) CleanupStaleRounds(ctx context.Context, maxAge time.Duration) int {
	type stale struct{ sessionID, roundID string }

	ge.mu.RLock()
	open := make(map[string]*Session, len(ge.rounds))
	for roundID, s := range ge.rounds {
		open[roundID] = s
	}
	ge.mu.RUnlock()

	var victims []stale
	now := ge.now()
	for roundID, s := range open {
		s.mu.Lock()
		if s.active != nil && s.active.handle.ID == roundID && now.Sub(s.active.startedAt) > maxAge {
			victims = append(victims, stale{s.ID, roundID})
		}
		s.mu.Unlock()
	}

	var cancelled, settled int
	for _, v := range victims {
		ok, err := ge.finishRound(ctx, v.sessionID, v.roundID)
		switch {
		case err != nil:
			continue
		case ok:
			settled++
		default:
			cancelled++
		}
	}
	if n := cancelled + settled; n > 0 {
		logger.Warnf("finished %d stale rounds: %d settled, %d refunded", n, settled, cancelled)
	}
	return cancelled + settled
}
