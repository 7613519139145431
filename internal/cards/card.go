package cards

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

// Suit of a playing card, in canonical deck order.
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// Suits lists every suit in canonical order.
var Suits = [...]Suit{Spades, Hearts, Diamonds, Clubs}

var suitSymbols = [...]string{"♠", "♥", "♦", "♣"}

func (s Suit) String() string {
	if int(s) < len(suitSymbols) {
		return suitSymbols[s]
	}
	return "?"
}

// Red reports whether the suit is hearts or diamonds.
func (s Suit) Red() bool {
	return s == Hearts || s == Diamonds
}

// Face card values. Aces are always high.
const (
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 14
)

// Card is an immutable playing card. Value runs 2..14 with the ace high.
type Card struct {
	suit  Suit
	value uint8
}

// NewCard creates a card, validating suit and value.
func NewCard(suit Suit, value int) (Card, error) {
	if suit > Clubs || value < 2 || value > Ace {
		return Card{}, fmt.Errorf("invalid card %d, %d", suit, value)
	}
	return Card{suit: suit, value: uint8(value)}, nil
}

func (c Card) Suit() Suit {
	return c.suit
}

func (c Card) Value() int {
	return int(c.value)
}

// Rank returns the rank label: 2..10, J, Q, K or A.
func (c Card) Rank() string {
	switch c.value {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return strconv.Itoa(int(c.value))
	}
}

// IsZero reports whether c is the zero Card (not a dealt card).
func (c Card) IsZero() bool {
	return c.value == 0
}

func (c Card) String() string {
	if c.IsZero() {
		return "▓"
	}
	return c.Rank() + c.suit.String()
}

// Pretty renders the card for a terminal, red suits in red.
func (c Card) Pretty() string {
	if c.IsZero() {
		return "▓"
	}
	if c.suit.Red() {
		return pterm.LightRed(c.String())
	}
	return pterm.LightWhite(c.String())
}

// MarshalText encodes the card as its String form.
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the String form, e.g. "10♠" or "Qh".
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

var suitAliases = map[string]Suit{
	"♠": Spades, "s": Spades, "S": Spades,
	"♥": Hearts, "h": Hearts, "H": Hearts,
	"♦": Diamonds, "d": Diamonds, "D": Diamonds,
	"♣": Clubs, "c": Clubs, "C": Clubs,
}

var rankAliases = map[string]int{
	"J": Jack, "Q": Queen, "K": King, "A": Ace, "T": 10,
}

// ParseCard parses "<rank><suit>" where suit is a symbol or one of s/h/d/c.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	for sym, suit := range suitAliases {
		if !strings.HasSuffix(s, sym) {
			continue
		}
		rank := strings.ToUpper(strings.TrimSuffix(s, sym))
		value, ok := rankAliases[rank]
		if !ok {
			n, err := strconv.Atoi(rank)
			if err != nil {
				return Card{}, fmt.Errorf("invalid rank %q", rank)
			}
			value = n
		}
		return NewCard(suit, value)
	}
	return Card{}, fmt.Errorf("invalid card %q", s)
}

// MustParse parses a space separated list of cards, panicking on error.
func MustParse(s string) []Card {
	fields := strings.Fields(s)
	out := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}
