package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"casino-minigames/internal/games/poker"
	"casino-minigames/internal/games/slots"
)

// TableLimits bound the stake of a single round.
type TableLimits struct {
	MinBet decimal.Decimal `yaml:"min_bet" json:"min_bet"`
	MaxBet decimal.Decimal `yaml:"max_bet" json:"max_bet"`
}

type SlotRules struct {
	Paytable slots.Paytable `yaml:"paytable"`
	Pity     struct {
		Threshold int     `yaml:"threshold"`
		Chance    float64 `yaml:"chance"`
		Pool      int     `yaml:"pool"`
	} `yaml:"pity"`
	Frames int `yaml:"frames"`
}

type PokerRules struct {
	DrawPolicy string `yaml:"draw_policy"`
}

// GameRules is the tunable part of every game, loaded from YAML.
type GameRules struct {
	Tables map[string]TableLimits `yaml:"tables"`
	Slots  SlotRules              `yaml:"slots"`
	Poker  PokerRules             `yaml:"poker"`
}

// DefaultRules matches the lobby: roulette 1-1000, poker 5-5000, slots 0.5-100.
func DefaultRules() *GameRules {
	r := &GameRules{
		Tables: map[string]TableLimits{
			"roulette": {MinBet: decimal.NewFromInt(1), MaxBet: decimal.NewFromInt(1000)},
			"poker":    {MinBet: decimal.NewFromInt(5), MaxBet: decimal.NewFromInt(5000)},
			"slots":    {MinBet: decimal.RequireFromString("0.5"), MaxBet: decimal.NewFromInt(100)},
		},
		Poker: PokerRules{DrawPolicy: poker.FromTail.String()},
	}
	pity := slots.DefaultPityRule()
	r.Slots.Paytable = slots.DefaultPaytable()
	r.Slots.Pity.Threshold = pity.Threshold
	r.Slots.Pity.Chance = pity.Chance
	r.Slots.Pity.Pool = pity.Pool
	r.Slots.Frames = slots.DefaultFrames
	return r
}

// LoadRules reads path over the defaults. A missing file yields the defaults.
func LoadRules(path string) (*GameRules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return rules, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read game rules: %w", err)
	}

	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse game rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *GameRules) Validate() error {
	for game, t := range r.Tables {
		if !t.MinBet.IsPositive() {
			return fmt.Errorf("%s: min_bet must be positive", game)
		}
		if t.MaxBet.LessThan(t.MinBet) {
			return fmt.Errorf("%s: max_bet below min_bet", game)
		}
	}
	if err := r.Slots.Paytable.Validate(); err != nil {
		return err
	}
	if r.Slots.Pity.Chance < 0 || r.Slots.Pity.Chance > 1 {
		return fmt.Errorf("slots: pity chance %v outside [0,1]", r.Slots.Pity.Chance)
	}
	if r.Slots.Pity.Threshold < 0 {
		return fmt.Errorf("slots: pity threshold %d is negative", r.Slots.Pity.Threshold)
	}
	if r.Slots.Pity.Pool < 0 || r.Slots.Pity.Pool > len(slots.Alphabet) {
		return fmt.Errorf("slots: pity pool %d outside [0,%d]", r.Slots.Pity.Pool, len(slots.Alphabet))
	}
	if r.Slots.Frames < 0 {
		return fmt.Errorf("slots: frames %d is negative", r.Slots.Frames)
	}
	if _, err := poker.ParseDrawPolicy(r.Poker.DrawPolicy); err != nil {
		return err
	}
	return nil
}

// PityRule converts the YAML section into the resolver's rule.
func (s SlotRules) PityRule() slots.PityRule {
	return slots.PityRule{Threshold: s.Pity.Threshold, Chance: s.Pity.Chance, Pool: s.Pity.Pool}
}

// Policy is the parsed draw policy. Validate has already run.
func (p PokerRules) Policy() poker.DrawPolicy {
	policy, _ := poker.ParseDrawPolicy(p.DrawPolicy)
	return policy
}
