package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Source is the randomness every game draws from. Implementations are not
// required to be safe for concurrent use; each session owns its own.
type Source interface {
	// Intn returns a uniform integer in [0, n). n must be > 0.
	Intn(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

type mathSource struct {
	r *rand.Rand
}

// New returns a deterministic source for the given seed.
func New(seed int64) Source {
	return &mathSource{r: rand.New(rand.NewSource(seed))}
}

// NewSeeded returns a source seeded from crypto/rand.
func NewSeeded() Source {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("rng: failed to read seed: " + err.Error())
	}
	return New(int64(binary.LittleEndian.Uint64(b[:])))
}

func (s *mathSource) Intn(n int) int {
	return s.r.Intn(n)
}

func (s *mathSource) Float64() float64 {
	return s.r.Float64()
}
