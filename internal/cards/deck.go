package cards

import (
	"errors"
	"fmt"

	"casino-minigames/internal/rng"
)

// DeckSize is the number of cards in a full deck.
const DeckSize = 52

var ErrNotEnoughCards = errors.New("not enough cards in deck")

// NewDeck returns the 52 cards in canonical order: suit-major, ranks ascending.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for v := 2; v <= Ace; v++ {
			deck = append(deck, Card{suit: suit, value: uint8(v)})
		}
	}
	return deck
}

// Shuffle returns a Fisher-Yates permutation of deck. The input is not modified.
func Shuffle(deck []Card, src rng.Source) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// Deal splits off the first n cards and returns them with the remaining tail.
func Deal(deck []Card, n int) (hand, rest []Card, err error) {
	if n < 0 || n > len(deck) {
		return nil, nil, fmt.Errorf("deal %d from %d: %w", n, len(deck), ErrNotEnoughCards)
	}
	hand = append([]Card(nil), deck[:n]...)
	rest = append([]Card(nil), deck[n:]...)
	return hand, rest, nil
}
