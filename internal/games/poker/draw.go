package poker

import (
	"errors"
	"fmt"

	"casino-minigames/internal/cards"
	"casino-minigames/internal/rng"
)

var ErrHoldIndex = errors.New("hold index out of range")

// DrawPolicy decides how replacement cards come off the remaining deck.
type DrawPolicy int

const (
	// FromTail deals replacements in order from the remaining deck, so a hand
	// never contains the same card twice.
	FromTail DrawPolicy = iota
	// WithReplacement picks every replacement independently and uniformly from
	// the remaining deck. Two replaced positions may receive the same card.
	WithReplacement
)

func (p DrawPolicy) String() string {
	if p == WithReplacement {
		return "with_replacement"
	}
	return "from_tail"
}

// ParseDrawPolicy maps a config value to a policy. Empty means FromTail.
func ParseDrawPolicy(s string) (DrawPolicy, error) {
	switch s {
	case "", "from_tail":
		return FromTail, nil
	case "with_replacement":
		return WithReplacement, nil
	default:
		return FromTail, fmt.Errorf("unknown draw policy %q", s)
	}
}

// Draw keeps the held positions of hand and replaces the others from
// remaining. It returns the new hand and what is left of the deck.
func Draw(hand []cards.Card, held []int, remaining []cards.Card, src rng.Source, policy DrawPolicy) ([]cards.Card, []cards.Card, error) {
	if len(hand) != HandSize {
		return nil, nil, fmt.Errorf("draw on %d cards: %w", len(hand), ErrHandSize)
	}

	keep := make([]bool, HandSize)
	for _, i := range held {
		if i < 0 || i >= HandSize {
			return nil, nil, fmt.Errorf("hold %d: %w", i, ErrHoldIndex)
		}
		keep[i] = true
	}

	replace := 0
	for _, k := range keep {
		if !k {
			replace++
		}
	}
	if replace > 0 && len(remaining) == 0 {
		return nil, nil, cards.ErrNotEnoughCards
	}

	next := make([]cards.Card, HandSize)
	rest := remaining
	switch policy {
	case WithReplacement:
		for i, c := range hand {
			if keep[i] {
				next[i] = c
				continue
			}
			next[i] = remaining[src.Intn(len(remaining))]
		}
	default:
		drawn, tail, err := cards.Deal(remaining, replace)
		if err != nil {
			return nil, nil, err
		}
		for i, c := range hand {
			if keep[i] {
				next[i] = c
				continue
			}
			next[i], drawn = drawn[0], drawn[1:]
		}
		rest = tail
	}

	return next, rest, nil
}
