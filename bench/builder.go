package bench

import "github.com/sarchlab/akita/v4/sim"

// Builder creates new instances of Bench.
type Builder struct {
	engine      sim.Engine
	freq        sim.Freq
	resetCycles int
}

// MakeBuilder returns a builder with the default clock and reset length.
func MakeBuilder() Builder {
	return Builder{
		freq:        1 * sim.GHz,
		resetCycles: 4,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency of the bench.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithResetCycles sets how many clock edges reset stays asserted.
func (b Builder) WithResetCycles(n int) Builder {
	if n < 0 {
		panic("reset cycles cannot be negative")
	}

	b.resetCycles = n

	return b
}

// Build creates a bench.
func (b Builder) Build(name string) *Bench {
	bench := &Bench{
		resetCycles: uint64(b.resetCycles),
	}

	bench.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, bench)

	return bench
}
