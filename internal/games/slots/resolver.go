package slots

import (
	"casino-minigames/internal/rng"
)

// Reels is the result of one spin, left to right.
type Reels [3]Symbol

// Spin is the outcome of one pull.
type Spin struct {
	// Frames are cosmetic tumbling frames shown before the result. They never
	// affect the payout.
	Frames     []Reels `json:"frames,omitempty"`
	Reels      Reels   `json:"reels"`
	Multiplier int64   `json:"multiplier"`
	// Forced is set when the losing streak rule produced the triple.
	Forced bool `json:"forced"`
}

// PityRule forces a triple after a losing streak.
type PityRule struct {
	// Threshold is the number of spins since the last win that must be
	// exceeded before the rule can fire.
	Threshold int
	// Chance of firing once past the threshold, in [0, 1].
	Chance float64
	// Pool is how many of the lowest paying symbols the forced triple is
	// drawn from.
	Pool int
}

// DefaultPityRule is five losing spins, then a 30% chance of a cheap triple.
func DefaultPityRule() PityRule {
	return PityRule{Threshold: 5, Chance: 0.3, Pool: 4}
}

type Resolver struct {
	table  Paytable
	pity   PityRule
	frames int
	pool   []Symbol
}

// DefaultFrames is the number of tumbling frames per spin.
const DefaultFrames = 20

func NewResolver(table Paytable, pity PityRule, frames int) *Resolver {
	if frames < 0 {
		frames = 0
	}
	return &Resolver{
		table:  table,
		pity:   pity,
		frames: frames,
		pool:   table.Lowest(pity.Pool),
	}
}

func (r *Resolver) Paytable() Paytable {
	return r.table
}

// Spin pulls the machine once. spinsSinceWin is the caller's losing streak
// before this spin.
func (r *Resolver) Spin(src rng.Source, spinsSinceWin int) Spin {
	out := Spin{Frames: make([]Reels, r.frames)}
	for i := range out.Frames {
		out.Frames[i] = r.randomReels(src)
	}

	out.Reels = r.randomReels(src)

	if spinsSinceWin > r.pity.Threshold && len(r.pool) > 0 && src.Float64() < r.pity.Chance {
		s := r.pool[src.Intn(len(r.pool))]
		out.Reels = Reels{s, s, s}
		out.Forced = true
	}

	out.Multiplier = r.Multiplier(out.Reels)
	return out
}

func (r *Resolver) randomReels(src rng.Source) Reels {
	return Reels{
		Alphabet[src.Intn(len(Alphabet))],
		Alphabet[src.Intn(len(Alphabet))],
		Alphabet[src.Intn(len(Alphabet))],
	}
}

// Multiplier pays the table value for three of a kind and a third of it,
// rounded down, for exactly two matching symbols.
func (r *Resolver) Multiplier(reels Reels) int64 {
	if reels[0] == reels[1] && reels[1] == reels[2] {
		return r.table[reels[0]]
	}

	var match Symbol
	switch {
	case reels[0] == reels[1], reels[0] == reels[2]:
		match = reels[0]
	case reels[1] == reels[2]:
		match = reels[1]
	default:
		return 0
	}
	return r.table[match] / 3
}

// NextSpinCount advances the losing streak: reset on a win, else one more.
func NextSpinCount(prev int, won bool) int {
	if won {
		return 0
	}
	return prev + 1
}
