package rng

// Fixed replays scripted values. Ints are reduced modulo n, so a script can
// be written without knowing every caller's range. Both sequences wrap around
// when exhausted; an empty sequence yields zero.
type Fixed struct {
	Ints   []int
	Floats []float64

	ii int
	fi int
}

// NewFixed returns a Fixed source replaying ints and floats.
func NewFixed(ints []int, floats []float64) *Fixed {
	return &Fixed{Ints: ints, Floats: floats}
}

func (f *Fixed) Intn(n int) int {
	if len(f.Ints) == 0 {
		return 0
	}
	v := f.Ints[f.ii%len(f.Ints)]
	f.ii++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func (f *Fixed) Float64() float64 {
	if len(f.Floats) == 0 {
		return 0
	}
	v := f.Floats[f.fi%len(f.Floats)]
	f.fi++
	return v
}

// Draws reports how many Intn and Float64 values have been consumed.
func (f *Fixed) Draws() (ints, floats int) {
	return f.ii, f.fi
}
