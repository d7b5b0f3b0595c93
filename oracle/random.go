package oracle

import "math/rand/v2"

// Random is the seeded source of all stimulus decisions.
type Random struct {
	r *rand.Rand
}

// NewRandom creates a source that always produces the same sequence for the
// same seed.
func NewRandom(seed uint64) *Random {
	return &Random{
		r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// IntN returns a uniform integer in [0, n).
func (r *Random) IntN(n int) int {
	return r.r.IntN(n)
}

// Uint32 returns a uniform 32-bit value.
func (r *Random) Uint32() uint32 {
	return r.r.Uint32()
}
