package roulette

import (
	"fmt"
	"strings"

	"casino-minigames/internal/rng"
)

type Color string

const (
	Red   Color = "red"
	Black Color = "black"
	Green Color = "green"
)

// Slot is one pocket of the wheel.
type Slot struct {
	Number int   `json:"number"`
	Color  Color `json:"color"`
}

// wheelOrder is the European single-zero wheel, clockwise from zero.
var wheelOrder = [...]int{
	0, 32, 15, 19, 4, 21, 2, 25, 17, 34, 6, 27, 13, 36, 11, 30, 8, 23, 10,
	5, 24, 16, 33, 1, 20, 14, 31, 9, 22, 18, 29, 7, 28, 12, 35, 3, 26,
}

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// Pockets is the number of slots on the wheel.
const Pockets = len(wheelOrder)

// ColorOf returns the colour of a number on the wheel.
func ColorOf(n int) Color {
	switch {
	case n == 0:
		return Green
	case redNumbers[n]:
		return Red
	default:
		return Black
	}
}

// Layout returns the wheel pockets in physical order.
func Layout() []Slot {
	out := make([]Slot, Pockets)
	for i, n := range wheelOrder {
		out[i] = Slot{Number: n, Color: ColorOf(n)}
	}
	return out
}

// SlotAt returns the pocket at a wheel index.
func SlotAt(index int) (Slot, error) {
	if index < 0 || index >= Pockets {
		return Slot{}, fmt.Errorf("wheel index %d out of range", index)
	}
	n := wheelOrder[index]
	return Slot{Number: n, Color: ColorOf(n)}, nil
}

// IndexOf returns the wheel index of a number, or -1.
func IndexOf(number int) int {
	for i, n := range wheelOrder {
		if n == number {
			return i
		}
	}
	return -1
}

// Bet is an outside bet.
type Bet string

const (
	BetRed   Bet = "red"
	BetBlack Bet = "black"
	BetEven  Bet = "even"
	BetOdd   Bet = "odd"
	BetLow   Bet = "low"
	BetHigh  Bet = "high"
)

// Bets lists every outside bet.
var Bets = []Bet{BetRed, BetBlack, BetEven, BetOdd, BetLow, BetHigh}

// OutsidePayout is the multiplier paid on any winning outside bet.
const OutsidePayout = 2

// ParseBet accepts a bet name, case-insensitive. "1-18" and "19-36" are
// accepted for low and high.
func ParseBet(s string) (Bet, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return BetRed, nil
	case "black":
		return BetBlack, nil
	case "even":
		return BetEven, nil
	case "odd":
		return BetOdd, nil
	case "low", "1-18":
		return BetLow, nil
	case "high", "19-36":
		return BetHigh, nil
	default:
		return "", fmt.Errorf("unknown outside bet %q", s)
	}
}

// Wins reports whether bet wins on slot. Zero loses every outside bet.
func Wins(bet Bet, slot Slot) bool {
	n := slot.Number
	if n == 0 {
		return false
	}
	switch bet {
	case BetRed:
		return slot.Color == Red
	case BetBlack:
		return slot.Color == Black
	case BetEven:
		return n%2 == 0
	case BetOdd:
		return n%2 == 1
	case BetLow:
		return n >= 1 && n <= 18
	case BetHigh:
		return n >= 19 && n <= 36
	default:
		return false
	}
}

// Result of one spin against a bet.
type Result struct {
	Index      int   `json:"index"`
	Slot       Slot  `json:"slot"`
	Bet        Bet   `json:"bet"`
	Won        bool  `json:"won"`
	Multiplier int64 `json:"multiplier"`
	// Angle is where the wheel animation should stop, in degrees.
	Angle float64 `json:"angle"`
}

// Spin lands the ball in a uniformly random pocket.
func Spin(src rng.Source) (int, Slot) {
	i := src.Intn(Pockets)
	n := wheelOrder[i]
	return i, Slot{Number: n, Color: ColorOf(n)}
}

// Settle evaluates bet against the pocket at index.
func Settle(bet Bet, index int) (Result, error) {
	slot, err := SlotAt(index)
	if err != nil {
		return Result{}, err
	}
	res := Result{Index: index, Slot: slot, Bet: bet, Won: Wins(bet, slot)}
	if res.Won {
		res.Multiplier = OutsidePayout
	}
	return res, nil
}

// Resolve spins the wheel and settles bet.
func Resolve(bet Bet, src rng.Source) Result {
	index, _ := Spin(src)
	res, _ := Settle(bet, index)
	res.Angle = WheelAngle(index, src.Float64())
	return res
}

// WheelAngle is five full turns plus the offset that puts pocket index under
// the marker, nudged by jitter (0..1) within the pocket.
func WheelAngle(index int, jitter float64) float64 {
	per := 360.0 / float64(Pockets)
	return 360*5 + (360 - float64(index)*per) + jitter*per
}
