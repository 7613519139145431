package slots

import (
	"fmt"
	"sort"
)

// Symbol is a reel symbol.
type Symbol string

const (
	Cherry  Symbol = "cherry"
	Lemon   Symbol = "lemon"
	Grape   Symbol = "grape"
	Diamond Symbol = "diamond"
	Seven   Symbol = "seven"
	Wheel   Symbol = "wheel"
	Star    Symbol = "star"
	Bell    Symbol = "bell"
)

// Alphabet is the fixed reel alphabet in display order.
var Alphabet = []Symbol{Cherry, Lemon, Grape, Diamond, Seven, Wheel, Star, Bell}

var glyphs = map[Symbol]string{
	Cherry:  "🍒",
	Lemon:   "🍋",
	Grape:   "🍇",
	Diamond: "💎",
	Seven:   "7️⃣",
	Wheel:   "🎰",
	Star:    "⭐",
	Bell:    "🔔",
}

// Glyph is the emoji shown for the symbol.
func (s Symbol) Glyph() string {
	if g, ok := glyphs[s]; ok {
		return g
	}
	return "?"
}

// Valid reports whether s belongs to the alphabet.
func (s Symbol) Valid() bool {
	_, ok := glyphs[s]
	return ok
}

// Paytable maps a symbol to the multiplier paid for three of it.
type Paytable map[Symbol]int64

// DefaultPaytable is the standard machine.
func DefaultPaytable() Paytable {
	return Paytable{
		Seven:   50,
		Diamond: 30,
		Wheel:   20,
		Star:    15,
		Bell:    10,
		Grape:   8,
		Cherry:  5,
		Lemon:   3,
	}
}

// Validate checks that every alphabet symbol has a positive entry and that
// nothing else is listed.
func (p Paytable) Validate() error {
	for _, s := range Alphabet {
		if p[s] <= 0 {
			return fmt.Errorf("paytable: %s needs a positive multiplier", s)
		}
	}
	for s := range p {
		if !s.Valid() {
			return fmt.Errorf("paytable: unknown symbol %q", s)
		}
	}
	return nil
}

// Lowest returns the n lowest paying symbols, cheapest first. Ties keep
// alphabet order.
func (p Paytable) Lowest(n int) []Symbol {
	syms := make([]Symbol, len(Alphabet))
	copy(syms, Alphabet)
	sort.SliceStable(syms, func(i, j int) bool {
		return p[syms[i]] < p[syms[j]]
	})
	switch {
	case n < 0:
		n = 0
	case n > len(syms):
		n = len(syms)
	}
	return syms[:n]
}
