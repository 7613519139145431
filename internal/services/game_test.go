package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"casino-minigames/internal/config"
	"casino-minigames/internal/games/roulette"
	"casino-minigames/internal/games/slots"
	"casino-minigames/internal/ledger"
	"casino-minigames/internal/models"
	"casino-minigames/internal/rng"
	"casino-minigames/internal/services"
)

type recordingBroadcaster struct {
	mu       sync.Mutex
	revealed []*models.SettlementResult
	balances []decimal.Decimal
}

func (b *recordingBroadcaster) BroadcastRoundRevealed(_ string, res *models.SettlementResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revealed = append(b.revealed, res)
}

func (b *recordingBroadcaster) BroadcastBalance(_ string, bal decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances = append(b.balances, bal)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestEngine(t *testing.T, src rng.Source, opts ...services.EngineOption) (*services.GameEngine, *services.Session) {
	t.Helper()
	opts = append([]services.EngineOption{
		services.WithSourceFactory(func() rng.Source { return src }),
		services.WithRateLimit(0),
	}, opts...)
	engine := services.NewGameEngine(services.NewMemoryStore(), config.DefaultRules(), opts...)
	session := engine.OpenSession(&models.User{ID: "u1", Balance: dec("100")})
	return engine, session
}

func TestSlotsRoundSettles(t *testing.T) {
	// All zeros land cherry on every reel.
	engine, session := newTestEngine(t, rng.NewFixed([]int{0}, nil))
	b := &recordingBroadcaster{}
	engine.SetBroadcaster(b)
	ctx := context.Background()

	round, err := engine.StartRound(ctx, session.ID, models.GameTypeSlots, dec("2"))
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if got := session.Balance(); !got.Equal(dec("98")) {
		t.Errorf("balance after bet = %s, want 98", got)
	}

	res, err := engine.ResolveRound(ctx, session.ID, round.ID, models.ResolveRequest{})
	if err != nil {
		t.Fatalf("ResolveRound: %v", err)
	}
	if res.Multiplier != 5 || !res.Payout.Equal(dec("10")) || !res.Win {
		t.Errorf("result = x%d payout %s win %v, want x5 payout 10 win", res.Multiplier, res.Payout, res.Win)
	}
	if !res.NewBalance.Equal(dec("108")) {
		t.Errorf("new balance = %s, want 108", res.NewBalance)
	}
	spin, ok := res.Detail.(slots.Spin)
	if !ok {
		t.Fatalf("detail is %T, want slots.Spin", res.Detail)
	}
	if len(spin.Frames) != slots.DefaultFrames {
		t.Errorf("frames = %d, want %d", len(spin.Frames), slots.DefaultFrames)
	}
	if session.Phase() != ledger.PhaseBetting {
		t.Errorf("phase = %s, want betting", session.Phase())
	}
	if len(b.revealed) != 1 || len(b.balances) != 1 {
		t.Errorf("broadcasts = %d reveals, %d balances", len(b.revealed), len(b.balances))
	}
}

func TestComputeLeavesLedgerUntouched(t *testing.T) {
	src := rng.NewFixed([]int{0}, nil)
	engine, session := newTestEngine(t, src)
	ctx := context.Background()

	round, err := engine.StartRound(ctx, session.ID, models.GameTypeSlots, dec("1"))
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	if _, err := engine.RevealOutcome(ctx, session.ID, round.ID); !errors.Is(err, services.ErrOutcomePending) {
		t.Errorf("reveal before compute: err = %v, want ErrOutcomePending", err)
	}

	first, err := engine.ComputeOutcome(ctx, session.ID, round.ID, models.ResolveRequest{})
	if err != nil {
		t.Fatalf("ComputeOutcome: %v", err)
	}
	drawn, _ := src.Draws()

	second, err := engine.ComputeOutcome(ctx, session.ID, round.ID, models.ResolveRequest{})
	if err != nil {
		t.Fatalf("second ComputeOutcome: %v", err)
	}
	if again, _ := src.Draws(); again != drawn {
		t.Errorf("second compute drew %d more values", again-drawn)
	}
	if first.Outcome != second.Outcome || !first.Payout.Equal(second.Payout) {
		t.Errorf("outcomes differ: %+v vs %+v", first, second)
	}

	if got := session.Balance(); !got.Equal(dec("99")) {
		t.Errorf("balance before reveal = %s, want 99", got)
	}
	if session.Phase() != ledger.PhaseResolving {
		t.Errorf("phase = %s, want resolving", session.Phase())
	}

	res, err := engine.RevealOutcome(ctx, session.ID, round.ID)
	if err != nil {
		t.Fatalf("RevealOutcome: %v", err)
	}
	if !res.Payout.Equal(first.Payout) {
		t.Errorf("revealed payout %s, computed %s", res.Payout, first.Payout)
	}

	if _, err := engine.RevealOutcome(ctx, session.ID, round.ID); !errors.Is(err, services.ErrRoundNotFound) {
		t.Errorf("second reveal: err = %v, want ErrRoundNotFound", err)
	}
}

func TestStartRoundValidation(t *testing.T) {
	engine, session := newTestEngine(t, rng.New(1))
	ctx := context.Background()

	tests := []struct {
		name string
		game models.GameType
		bet  string
		want error
	}{
		{"zero bet", models.GameTypeSlots, "0", ledger.ErrInvalidBet},
		{"negative bet", models.GameTypeRoulette, "-5", ledger.ErrInvalidBet},
		{"below table minimum", models.GameTypeSlots, "0.4", ledger.ErrInvalidBet},
		{"above table maximum", models.GameTypeSlots, "101", ledger.ErrInvalidBet},
		{"more than balance", models.GameTypePoker, "500", ledger.ErrInsufficientFunds},
		{"unknown game", models.GameType("crash"), "1", services.ErrUnknownGame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.StartRound(ctx, session.ID, tt.game, dec(tt.bet))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if got := session.Balance(); !got.Equal(dec("100")) {
				t.Errorf("balance = %s, want untouched 100", got)
			}
		})
	}

	if _, err := engine.StartRound(ctx, "nope", models.GameTypeSlots, dec("1")); !errors.Is(err, services.ErrNotAuthenticated) {
		t.Errorf("unknown session: err = %v, want ErrNotAuthenticated", err)
	}
}

func TestOneRoundAtATime(t *testing.T) {
	engine, session := newTestEngine(t, rng.New(1))
	ctx := context.Background()

	if _, err := engine.StartRound(ctx, session.ID, models.GameTypeRoulette, dec("10")); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	_, err := engine.StartRound(ctx, session.ID, models.GameTypeSlots, dec("1"))
	if !errors.Is(err, ledger.ErrRoundInProgress) {
		t.Fatalf("err = %v, want ErrRoundInProgress", err)
	}
	if got := session.Balance(); !got.Equal(dec("90")) {
		t.Errorf("balance = %s, want 90", got)
	}
}

func TestCancelRoundRefunds(t *testing.T) {
	engine, session := newTestEngine(t, rng.New(1))
	ctx := context.Background()

	round, err := engine.StartRound(ctx, session.ID, models.GameTypePoker, dec("25.50"))
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if err := engine.CancelRound(ctx, session.ID, round.ID); err != nil {
		t.Fatalf("CancelRound: %v", err)
	}
	if got := session.Balance(); !got.Equal(dec("100")) {
		t.Errorf("balance = %s, want 100", got)
	}
	if session.ActiveRound() != nil {
		t.Error("round still active after cancel")
	}
	if err := engine.CancelRound(ctx, session.ID, round.ID); !errors.Is(err, services.ErrRoundNotFound) {
		t.Errorf("second cancel: err = %v, want ErrRoundNotFound", err)
	}
}

func TestRouletteRound(t *testing.T) {
	src := rng.NewFixed([]int{roulette.IndexOf(17)}, []float64{0.5})
	engine, session := newTestEngine(t, src)
	ctx := context.Background()

	round, err := engine.StartRound(ctx, session.ID, models.GameTypeRoulette, dec("10"))
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	_, err = engine.ComputeOutcome(ctx, session.ID, round.ID, models.ResolveRequest{Bet: "purple"})
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("bad bet: err = %v, want ErrInvalidInput", err)
	}

	res, err := engine.ResolveRound(ctx, session.ID, round.ID, models.ResolveRequest{Bet: "black"})
	if err != nil {
		t.Fatalf("ResolveRound: %v", err)
	}
	detail := res.Detail.(roulette.Result)
	if detail.Slot.Number != 17 || !detail.Won {
		t.Errorf("landed %d won %v, want 17 won", detail.Slot.Number, detail.Won)
	}
	if !res.Payout.Equal(dec("20")) || !res.NewBalance.Equal(dec("110")) {
		t.Errorf("payout %s balance %s, want 20 and 110", res.Payout, res.NewBalance)
	}
}

func TestPokerRound(t *testing.T) {
	engine, session := newTestEngine(t, rng.New(7))
	ctx := context.Background()

	round, err := engine.StartRound(ctx, session.ID, models.GameTypePoker, dec("5"))
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if len(round.Hand) != 5 {
		t.Fatalf("dealt %d cards", len(round.Hand))
	}

	_, err = engine.ComputeOutcome(ctx, session.ID, round.ID, models.ResolveRequest{Held: []int{5}})
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("bad hold: err = %v, want ErrInvalidInput", err)
	}

	held := []int{0, 2}
	res, err := engine.ResolveRound(ctx, session.ID, round.ID, models.ResolveRequest{Held: held})
	if err != nil {
		t.Fatalf("ResolveRound: %v", err)
	}

	detail := res.Detail.(models.PokerDetail)
	for _, i := range held {
		if detail.Final[i] != round.Hand[i] {
			t.Errorf("held card %d changed: %s -> %s", i, round.Hand[i], detail.Final[i])
		}
	}
	seen := map[string]bool{}
	for _, c := range detail.Final {
		if seen[c.String()] {
			t.Errorf("duplicate card %s in final hand", c)
		}
		seen[c.String()] = true
	}

	want := dec("5").Mul(decimal.NewFromInt(res.Multiplier))
	if !res.Payout.Equal(want) {
		t.Errorf("payout = %s, want %s", res.Payout, want)
	}
	if got := dec("95").Add(res.Payout); !res.NewBalance.Equal(got) {
		t.Errorf("balance = %s, want %s", res.NewBalance, got)
	}
}

func TestSlotsPityForcesWin(t *testing.T) {
	// 0,1,2 repeating lands cherry, lemon, grape: no match. Every spin draws
	// a multiple of three ints, so each spin starts the cycle over.
	engine, session := newTestEngine(t, rng.NewFixed([]int{0, 1, 2}, []float64{0.1}))
	ctx := context.Background()

	play := func() *models.SettlementResult {
		t.Helper()
		round, err := engine.StartRound(ctx, session.ID, models.GameTypeSlots, dec("1"))
		if err != nil {
			t.Fatalf("StartRound: %v", err)
		}
		res, err := engine.ResolveRound(ctx, session.ID, round.ID, models.ResolveRequest{})
		if err != nil {
			t.Fatalf("ResolveRound: %v", err)
		}
		return res
	}

	for i := 0; i < 6; i++ {
		if res := play(); res.Win {
			t.Fatalf("spin %d won: %s", i, res.Outcome)
		}
		if got := session.SpinsSinceWin(); got != i+1 {
			t.Fatalf("spins since win = %d, want %d", got, i+1)
		}
	}

	res := play()
	spin := res.Detail.(slots.Spin)
	if !spin.Forced {
		t.Fatalf("spin after a six loss streak was not forced: %s", res.Outcome)
	}
	if spin.Reels != (slots.Reels{slots.Lemon, slots.Lemon, slots.Lemon}) {
		t.Errorf("forced reels = %v, want three lemons", spin.Reels)
	}
	if session.SpinsSinceWin() != 0 {
		t.Errorf("spins since win = %d after a win", session.SpinsSinceWin())
	}
	if !session.Balance().Equal(dec("96")) {
		t.Errorf("balance = %s, want 96", session.Balance())
	}
}

func TestRoundsAreScopedToSession(t *testing.T) {
	engine, session := newTestEngine(t, rng.New(1))
	other := engine.OpenSession(&models.User{ID: "u2", Balance: dec("50")})
	ctx := context.Background()

	round, err := engine.StartRound(ctx, session.ID, models.GameTypeSlots, dec("1"))
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if _, err := engine.ComputeOutcome(ctx, other.ID, round.ID, models.ResolveRequest{}); !errors.Is(err, services.ErrRoundNotFound) {
		t.Errorf("compute from other session: err = %v, want ErrRoundNotFound", err)
	}
	if err := engine.CancelRound(ctx, other.ID, round.ID); !errors.Is(err, services.ErrRoundNotFound) {
		t.Errorf("cancel from other session: err = %v, want ErrRoundNotFound", err)
	}
	if !other.Balance().Equal(dec("50")) {
		t.Errorf("other balance = %s", other.Balance())
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	engine, session := newTestEngine(t, rng.New(3))
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		round, err := engine.StartRound(ctx, session.ID, models.GameTypeRoulette, dec("1"))
		if err != nil {
			t.Fatalf("StartRound: %v", err)
		}
		if _, err := engine.ResolveRound(ctx, session.ID, round.ID, models.ResolveRequest{Bet: "red"}); err != nil {
			t.Fatalf("ResolveRound: %v", err)
		}
		ids = append(ids, round.ID)
		time.Sleep(time.Millisecond)
	}

	history, err := engine.History(ctx, session.ID, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history has %d records, want 3", len(history))
	}
	if history[0].ID != ids[2] || history[2].ID != ids[0] {
		t.Errorf("history order = %s, %s, %s", history[0].ID, history[1].ID, history[2].ID)
	}
	if !history[0].BalanceAfter.Equal(session.Balance()) {
		t.Errorf("latest balance after = %s, session %s", history[0].BalanceAfter, session.Balance())
	}
}

func TestCloseSessionRefundsOpenRound(t *testing.T) {
	engine, session := newTestEngine(t, rng.New(1))
	ctx := context.Background()

	if _, err := engine.StartRound(ctx, session.ID, models.GameTypeRoulette, dec("40")); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	balance, err := engine.CloseSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if !balance.Equal(dec("100")) {
		t.Errorf("final balance = %s, want 100", balance)
	}
	if _, err := engine.GetBalance(session.ID); !errors.Is(err, services.ErrNotAuthenticated) {
		t.Errorf("closed session: err = %v, want ErrNotAuthenticated", err)
	}
}

func TestCleanupStaleRounds(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	engine, session := newTestEngine(t, rng.New(1), services.WithClock(clock))
	fresh := engine.OpenSession(&models.User{ID: "u2", Balance: dec("100")})
	ctx := context.Background()

	if _, err := engine.StartRound(ctx, session.ID, models.GameTypeSlots, dec("10")); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	mu.Lock()
	now = now.Add(11 * time.Minute)
	mu.Unlock()

	if _, err := engine.StartRound(ctx, fresh.ID, models.GameTypeSlots, dec("10")); err != nil {
		t.Fatalf("StartRound fresh: %v", err)
	}

	if n := engine.CleanupStaleRounds(ctx, 10*time.Minute); n != 1 {
		t.Fatalf("cleaned %d rounds, want 1", n)
	}
	if !session.Balance().Equal(dec("100")) {
		t.Errorf("stale session balance = %s, want refund to 100", session.Balance())
	}
	if fresh.ActiveRound() == nil {
		t.Error("fresh round was cancelled")
	}
}

func TestEngineRateLimit(t *testing.T) {
	engine, session := newTestEngine(t, rng.New(1), services.WithRateLimit(2))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		round, err := engine.StartRound(ctx, session.ID, models.GameTypeSlots, dec("1"))
		if err != nil {
			t.Fatalf("StartRound %d: %v", i, err)
		}
		if err := engine.CancelRound(ctx, session.ID, round.ID); err != nil {
			t.Fatalf("CancelRound: %v", err)
		}
	}
	if _, err := engine.StartRound(ctx, session.ID, models.GameTypeSlots, dec("1")); !errors.Is(err, services.ErrRateLimited) {
		t.Errorf("err = %v, want ErrRateLimited", err)
	}
}

// losingSlots lands cherry, lemon, grape on every spin.
func losingSlots() rng.Source {
	return rng.NewFixed([]int{0, 1, 2}, []float64{0.9})
}

func TestCancelAfterComputeIsRejected(t *testing.T) {
	engine, session := newTestEngine(t, losingSlots())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		round, err := engine.StartRound(ctx, session.ID, models.GameTypeSlots, dec("10"))
		if err != nil {
			t.Fatalf("StartRound %d: %v", i, err)
		}
		outcome, err := engine.ComputeOutcome(ctx, session.ID, round.ID, models.ResolveRequest{})
		if err != nil {
			t.Fatalf("ComputeOutcome %d: %v", i, err)
		}
		if outcome.Win() {
			t.Fatalf("round %d won: %s", i, outcome.Outcome)
		}

		if err := engine.CancelRound(ctx, session.ID, round.ID); !errors.Is(err, services.ErrOutcomeComputed) {
			t.Fatalf("cancel after compute: err = %v, want ErrOutcomeComputed", err)
		}
		if session.ActiveRound() == nil {
			t.Fatal("rejected cancel dropped the round")
		}
		if _, err := engine.RevealOutcome(ctx, session.ID, round.ID); err != nil {
			t.Fatalf("RevealOutcome %d: %v", i, err)
		}
	}

	if !session.Balance().Equal(dec("50")) {
		t.Errorf("balance = %s, want 50 after five lost rounds", session.Balance())
	}
}

func TestCloseSessionSettlesComputedRound(t *testing.T) {
	tests := []struct {
		name string
		src  rng.Source
		want string
	}{
		{"win", rng.NewFixed([]int{0}, nil), "108"},
		{"loss", losingSlots(), "98"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, session := newTestEngine(t, tt.src)
			b := &recordingBroadcaster{}
			engine.SetBroadcaster(b)
			ctx := context.Background()

			round, err := engine.StartRound(ctx, session.ID, models.GameTypeSlots, dec("2"))
			if err != nil {
				t.Fatalf("StartRound: %v", err)
			}
			if _, err := engine.ComputeOutcome(ctx, session.ID, round.ID, models.ResolveRequest{}); err != nil {
				t.Fatalf("ComputeOutcome: %v", err)
			}

			balance, err := engine.CloseSession(ctx, session.ID)
			if err != nil {
				t.Fatalf("CloseSession: %v", err)
			}
			if !balance.Equal(dec(tt.want)) {
				t.Errorf("final balance = %s, want %s", balance, tt.want)
			}
			if len(b.revealed) != 1 {
				t.Errorf("revealed %d rounds, want 1", len(b.revealed))
			}
		})
	}
}

func TestCleanupSettlesComputedStaleRound(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	engine, session := newTestEngine(t, losingSlots(), services.WithClock(clock))
	ctx := context.Background()

	round, err := engine.StartRound(ctx, session.ID, models.GameTypeSlots, dec("10"))
	if err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if _, err := engine.ComputeOutcome(ctx, session.ID, round.ID, models.ResolveRequest{}); err != nil {
		t.Fatalf("ComputeOutcome: %v", err)
	}

	mu.Lock()
	now = now.Add(11 * time.Minute)
	mu.Unlock()

	if n := engine.CleanupStaleRounds(ctx, 10*time.Minute); n != 1 {
		t.Fatalf("cleaned %d rounds, want 1", n)
	}
	if !session.Balance().Equal(dec("90")) {
		t.Errorf("balance = %s, want the lost bet kept at 90", session.Balance())
	}
	if session.ActiveRound() != nil {
		t.Error("stale round still open")
	}

	history, err := engine.History(ctx, session.ID, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history has %d rounds, want the settled one", len(history))
	}
}

func TestOneSessionPerUser(t *testing.T) {
	engine, session := newTestEngine(t, rng.New(1))
	ctx := context.Background()

	again := engine.OpenSession(&models.User{ID: "u1", Balance: dec("1000")})
	if again != session {
		t.Fatalf("second login opened session %s, want %s", again.ID, session.ID)
	}
	if !again.Balance().Equal(dec("100")) {
		t.Errorf("resumed balance = %s, want 100", again.Balance())
	}

	if _, err := engine.CloseSession(ctx, session.ID); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}
	if _, err := engine.CloseSession(ctx, again.ID); !errors.Is(err, services.ErrNotAuthenticated) {
		t.Errorf("second close: err = %v, want ErrNotAuthenticated", err)
	}

	fresh := engine.OpenSession(&models.User{ID: "u1", Balance: dec("70")})
	if fresh.ID == session.ID || !fresh.Balance().Equal(dec("70")) {
		t.Errorf("login after close got session %s with %s", fresh.ID, fresh.Balance())
	}
}

func TestCleanupStaleSessions(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	engine, idle := newTestEngine(t, rng.New(1), services.WithClock(clock))
	busy := engine.OpenSession(&models.User{ID: "u2", Balance: dec("50")})
	ctx := context.Background()

	if _, err := engine.StartRound(ctx, idle.ID, models.GameTypeRoulette, dec("10")); err != nil {
		t.Fatalf("StartRound: %v", err)
	}

	mu.Lock()
	now = now.Add(31 * time.Minute)
	mu.Unlock()

	if _, err := engine.GetBalance(busy.ID); err != nil {
		t.Fatalf("GetBalance: %v", err)
	}

	closed := engine.CleanupStaleSessions(ctx, 30*time.Minute)
	if len(closed) != 1 {
		t.Fatalf("closed %d sessions, want 1", len(closed))
	}
	if closed[0].UserID != "u1" || !closed[0].Balance.Equal(dec("100")) {
		t.Errorf("closed = %+v, want u1 refunded to 100", closed[0])
	}
	if _, err := engine.GetSession(idle.ID); !errors.Is(err, services.ErrNotAuthenticated) {
		t.Errorf("idle session: err = %v, want ErrNotAuthenticated", err)
	}
	if _, err := engine.GetSession(busy.ID); err != nil {
		t.Errorf("busy session closed: %v", err)
	}
}

type clearingStore struct {
	*services.MemoryStore
	mu      sync.Mutex
	cleared []string
}

func (s *clearingStore) ClearRateLimit(ctx context.Context, subject, action string) error {
	s.mu.Lock()
	s.cleared = append(s.cleared, subject+":"+action)
	s.mu.Unlock()
	return s.MemoryStore.ClearRateLimit(ctx, subject, action)
}

func TestCloseSessionClearsRateLimits(t *testing.T) {
	store := &clearingStore{MemoryStore: services.NewMemoryStore()}
	engine := services.NewGameEngine(store, config.DefaultRules(), services.WithRateLimit(5))
	session := engine.OpenSession(&models.User{ID: "u1", Balance: dec("100")})
	ctx := context.Background()

	if _, err := engine.StartRound(ctx, session.ID, models.GameTypeSlots, dec("1")); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
	if _, err := engine.CloseSession(ctx, session.ID); err != nil {
		t.Fatalf("CloseSession: %v", err)
	}

	want := map[string]bool{
		session.ID + ":" + services.ActionRound:   true,
		session.ID + ":" + services.ActionCompute: true,
		session.ID + ":" + services.ActionReveal:  true,
		session.ID + ":" + services.ActionResolve: true,
	}
	if len(store.cleared) != len(want) {
		t.Fatalf("cleared %v", store.cleared)
	}
	for _, k := range store.cleared {
		if !want[k] {
			t.Errorf("unexpected clear %s", k)
		}
	}
}
