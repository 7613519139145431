package poker

// Category is the class a five card hand falls into, best first.
type Category int

const (
	RoyalFlush Category = iota
	StraightFlush
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	JacksOrBetter
	NoWin
)

var categoryNames = [...]string{
	RoyalFlush:    "royal_flush",
	StraightFlush: "straight_flush",
	FourOfAKind:   "four_of_a_kind",
	FullHouse:     "full_house",
	Flush:         "flush",
	Straight:      "straight",
	ThreeOfAKind:  "three_of_a_kind",
	TwoPair:       "two_pair",
	JacksOrBetter: "jacks_or_better",
	NoWin:         "no_win",
}

var multipliers = [...]int64{
	RoyalFlush:    100,
	StraightFlush: 50,
	FourOfAKind:   25,
	FullHouse:     15,
	Flush:         10,
	Straight:      8,
	ThreeOfAKind:  5,
	TwoPair:       3,
	JacksOrBetter: 2,
	NoWin:         0,
}

func (c Category) String() string {
	if c < RoyalFlush || c > NoWin {
		return "unknown"
	}
	return categoryNames[c]
}

// Multiplier is the payout multiple of the bet for the category.
func (c Category) Multiplier() int64 {
	if c < RoyalFlush || c > NoWin {
		return 0
	}
	return multipliers[c]
}

// Categories lists every category in priority order.
func Categories() []Category {
	out := make([]Category, 0, NoWin+1)
	for c := RoyalFlush; c <= NoWin; c++ {
		out = append(out, c)
	}
	return out
}
