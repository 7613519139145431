package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"casino-minigames/internal/cards"
	"casino-minigames/internal/config"
	"casino-minigames/internal/games/roulette"
	"casino-minigames/internal/games/slots"
	"casino-minigames/internal/logger"
	"casino-minigames/internal/models"
	"casino-minigames/internal/services"
)

const frameDelay = 60 * time.Millisecond

type player struct {
	engine  *services.GameEngine
	session *services.Session
	rules   *config.GameRules
}

func main() {
	if err := run(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Keep the terminal for the game; only warnings and errors are logged.
	if err := logger.Init("warn", "console"); err != nil {
		return err
	}
	defer logger.Sync()

	rules, err := config.LoadRules(cfg.GameRulesPath)
	if err != nil {
		return err
	}

	auth, err := services.NewAuthService(bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	pterm.DefaultSection.Println("Casino minigames")

	user, err := signIn(auth)
	if err != nil {
		return err
	}

	engine := services.NewGameEngine(services.NewMemoryStore(), rules, services.WithRateLimit(0))
	p := &player{engine: engine, session: engine.OpenSession(user), rules: rules}
	pterm.Success.Printfln("Welcome %s, balance %s", user.Username, models.FormatCurrency(p.session.Balance()))

	ctx := context.Background()
	for {
		choice, err := pterm.DefaultInteractiveSelect.
			WithOptions([]string{"Roulette", "Poker", "Slots", "History", "Quit"}).
			Show("Pick a game")
		if err != nil {
			return err
		}

		switch choice {
		case "Roulette":
			err = p.playRoulette(ctx)
		case "Poker":
			err = p.playPoker(ctx)
		case "Slots":
			err = p.playSlots(ctx)
		case "History":
			err = p.showHistory(ctx)
		case "Quit":
			balance, err := engine.CloseSession(ctx, p.session.ID)
			if err != nil {
				return err
			}
			pterm.Info.Printfln("Final balance %s", models.FormatCurrency(balance))
			return nil
		}
		if err != nil {
			pterm.Error.Println(err)
		}
	}
}

func signIn(auth *services.AuthService) (*models.User, error) {
	choice, err := pterm.DefaultInteractiveSelect.
		WithOptions([]string{"Demo player", "Demo admin", "Sign in", "Register"}).
		Show("Account")
	if err != nil {
		return nil, err
	}

	switch choice {
	case "Demo player":
		if u, ok := auth.Login(services.DemoUserEmail, services.DemoUserPassword); ok {
			return u, nil
		}
	case "Demo admin":
		if u, ok := auth.Login(services.DemoAdminEmail, services.DemoAdminPassword); ok {
			return u, nil
		}
	case "Sign in":
		email, _ := pterm.DefaultInteractiveTextInput.Show("Email")
		password, _ := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
		if u, ok := auth.Login(email, password); ok {
			return u, nil
		}
	case "Register":
		name, _ := pterm.DefaultInteractiveTextInput.Show("Username")
		email, _ := pterm.DefaultInteractiveTextInput.Show("Email")
		password, _ := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
		if u, ok := auth.Register(models.RegisterRequest{Username: name, Email: email, Password: password}); ok {
			return u, nil
		}
	}
	return nil, errors.New("invalid email or password")
}

func (p *player) askBet(game models.GameType) (decimal.Decimal, error) {
	limits := p.rules.Tables[string(game)]
	prompt := fmt.Sprintf("Bet (%s - %s, balance %s)",
		limits.MinBet, limits.MaxBet, models.FormatCurrency(p.session.Balance()))

	raw, err := pterm.DefaultInteractiveTextInput.WithDefaultValue(limits.MinBet.String()).Show(prompt)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(strings.TrimSpace(raw))
}

func (p *player) reveal(ctx context.Context, roundID string) error {
	res, err := p.engine.RevealOutcome(ctx, p.session.ID, roundID)
	if err != nil {
		return err
	}
	if res.Win {
		pterm.Success.Printfln("%s pays x%d: +%s, balance %s",
			res.Outcome, res.Multiplier, models.FormatCurrency(res.Payout), models.FormatCurrency(res.NewBalance))
	} else {
		pterm.Warning.Printfln("%s, no win. Balance %s", res.Outcome, models.FormatCurrency(res.NewBalance))
	}
	return nil
}

func (p *player) playRoulette(ctx context.Context) error {
	options := make([]string, len(roulette.Bets))
	for i, b := range roulette.Bets {
		options[i] = string(b)
	}
	bet, err := pterm.DefaultInteractiveSelect.WithOptions(options).Show("Outside bet")
	if err != nil {
		return err
	}
	amount, err := p.askBet(models.GameTypeRoulette)
	if err != nil {
		return err
	}

	round, err := p.engine.StartRound(ctx, p.session.ID, models.GameTypeRoulette, amount)
	if err != nil {
		return err
	}
	outcome, err := p.engine.ComputeOutcome(ctx, p.session.ID, round.ID, models.ResolveRequest{Bet: bet})
	if err != nil {
		p.engine.CancelRound(ctx, p.session.ID, round.ID)
		return err
	}

	res := outcome.Detail.(roulette.Result)
	layout := roulette.Layout()
	area, _ := pterm.DefaultArea.Start()
	// Walk the wheel once around, stopping on the landed pocket.
	for i := 0; i <= len(layout); i++ {
		slot := layout[(res.Index+i+1)%len(layout)]
		area.Update(colorSlot(slot))
		time.Sleep(frameDelay)
	}
	area.Stop()

	return p.reveal(ctx, round.ID)
}

func colorSlot(s roulette.Slot) string {
	text := fmt.Sprintf(" %2d ", s.Number)
	switch s.Color {
	case roulette.Red:
		return pterm.NewStyle(pterm.FgWhite, pterm.BgRed).Sprint(text)
	case roulette.Green:
		return pterm.NewStyle(pterm.FgWhite, pterm.BgGreen).Sprint(text)
	}
	return pterm.NewStyle(pterm.FgWhite, pterm.BgBlack).Sprint(text)
}

func prettyHand(hand []cards.Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.Pretty()
	}
	return strings.Join(parts, " ")
}

func (p *player) playPoker(ctx context.Context) error {
	amount, err := p.askBet(models.GameTypePoker)
	if err != nil {
		return err
	}
	round, err := p.engine.StartRound(ctx, p.session.ID, models.GameTypePoker, amount)
	if err != nil {
		return err
	}

	pterm.DefaultBox.WithTitle("Your hand").Println(prettyHand(round.Hand))

	options := make([]string, len(round.Hand))
	for i, c := range round.Hand {
		options[i] = fmt.Sprintf("%d: %s", i+1, c)
	}
	picked, err := pterm.DefaultInteractiveMultiselect.WithOptions(options).Show("Hold")
	if err != nil {
		p.engine.CancelRound(ctx, p.session.ID, round.ID)
		return err
	}
	var held []int
	for _, opt := range picked {
		for i, o := range options {
			if o == opt {
				held = append(held, i)
			}
		}
	}

	outcome, err := p.engine.ComputeOutcome(ctx, p.session.ID, round.ID, models.ResolveRequest{Held: held})
	if err != nil {
		p.engine.CancelRound(ctx, p.session.ID, round.ID)
		return err
	}
	detail := outcome.Detail.(models.PokerDetail)
	title := detail.Category
	if detail.Description != "" {
		title = detail.Description
	}
	pterm.DefaultBox.WithTitle(title).Println(prettyHand(detail.Final))

	return p.reveal(ctx, round.ID)
}

func (p *player) playSlots(ctx context.Context) error {
	amount, err := p.askBet(models.GameTypeSlots)
	if err != nil {
		return err
	}
	round, err := p.engine.StartRound(ctx, p.session.ID, models.GameTypeSlots, amount)
	if err != nil {
		return err
	}
	outcome, err := p.engine.ComputeOutcome(ctx, p.session.ID, round.ID, models.ResolveRequest{})
	if err != nil {
		p.engine.CancelRound(ctx, p.session.ID, round.ID)
		return err
	}

	spin := outcome.Detail.(slots.Spin)
	area, _ := pterm.DefaultArea.Start()
	for _, frame := range append(spin.Frames, spin.Reels) {
		area.Update(renderReels(frame))
		time.Sleep(frameDelay)
	}
	area.Stop()

	return p.reveal(ctx, round.ID)
}

func renderReels(r slots.Reels) string {
	return fmt.Sprintf("[ %s | %s | %s ]", r[0].Glyph(), r[1].Glyph(), r[2].Glyph())
}

func (p *player) showHistory(ctx context.Context) error {
	rounds, err := p.engine.History(ctx, p.session.ID, 20)
	if err != nil {
		return err
	}
	if len(rounds) == 0 {
		pterm.Info.Println("No rounds played yet")
		return nil
	}

	data := [][]string{{"Game", "Outcome", "Bet", "Payout", "Balance"}}
	for _, r := range rounds {
		data = append(data, []string{
			string(r.GameType),
			r.Outcome,
			models.FormatCurrency(r.BetAmount),
			models.FormatCurrency(r.Payout),
			models.FormatCurrency(r.BalanceAfter),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
