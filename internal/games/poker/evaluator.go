package poker

import (
	"errors"
	"fmt"
	"sort"

	"casino-minigames/internal/cards"
)

// HandSize is the number of cards in a draw poker hand.
const HandSize = 5

var ErrHandSize = errors.New("hand must have exactly 5 cards")

// Result of evaluating a hand.
type Result struct {
	Category   Category `json:"category"`
	Multiplier int64    `json:"multiplier"`
}

// Evaluate classifies a five card hand. Aces only play high: A-2-3-4-5 is
// not a straight. A single pair of any rank pays as jacks or better.
func Evaluate(hand []cards.Card) (Result, error) {
	if len(hand) != HandSize {
		return Result{}, fmt.Errorf("evaluate %d cards: %w", len(hand), ErrHandSize)
	}

	values := make([]int, len(hand))
	for i, c := range hand {
		values[i] = c.Value()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	flush := true
	for _, c := range hand[1:] {
		if c.Suit() != hand[0].Suit() {
			flush = false
			break
		}
	}

	straight := true
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]-1 {
			straight = false
			break
		}
	}

	histogram := make(map[int]int, len(values))
	for _, v := range values {
		histogram[v]++
	}
	var pairs, trips, quads int
	for _, n := range histogram {
		switch n {
		case 2:
			pairs++
		case 3:
			trips++
		case 4:
			quads++
		}
	}

	category := NoWin
	switch {
	case flush && straight && values[0] == cards.Ace:
		category = RoyalFlush
	case flush && straight:
		category = StraightFlush
	case quads > 0:
		category = FourOfAKind
	case trips > 0 && pairs > 0:
		category = FullHouse
	case flush:
		category = Flush
	case straight:
		category = Straight
	case trips > 0:
		category = ThreeOfAKind
	case pairs == 2:
		category = TwoPair
	case pairs == 1, values[0] >= cards.Jack:
		category = JacksOrBetter
	}

	return Result{Category: category, Multiplier: category.Multiplier()}, nil
}
