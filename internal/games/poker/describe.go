package poker

import (
	"fmt"

	ph "github.com/paulhankin/poker"

	"casino-minigames/internal/cards"
)

var phSuits = map[cards.Suit]ph.Suit{
	cards.Clubs:    ph.Club,
	cards.Diamonds: ph.Diamond,
	cards.Hearts:   ph.Heart,
	cards.Spades:   ph.Spade,
}

// Describe returns the standard poker name of a hand ("pair of kings", ...).
// Unlike Evaluate it follows full poker rules, so a wheel straight is named
// as one even though it does not pay here.
func Describe(hand []cards.Card) (string, error) {
	if len(hand) != HandSize {
		return "", fmt.Errorf("describe %d cards: %w", len(hand), ErrHandSize)
	}

	converted := make([]ph.Card, 0, len(hand))
	for i, c := range hand {
		rank := c.Value()
		if rank == cards.Ace {
			rank = 1
		}
		pc, err := ph.MakeCard(phSuits[c.Suit()], ph.Rank(rank))
		if err != nil {
			return "", fmt.Errorf("invalid card at idx %d: %w", i, err)
		}
		converted = append(converted, pc)
	}
	return ph.Describe(converted)
}
