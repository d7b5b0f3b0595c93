// Package util provides helpers that use closures to generate payload words.
package util

import (
	"fmt"

	"github.com/sarchlab/llqverify/llq"
)

// Payload patterns understood by MakeGen.
const (
	PatternRandom     = "random"
	PatternIncreasing = "increasing"
	PatternConst      = "const"
)

// A WordSource provides uniformly distributed 32-bit values.
type WordSource interface {
	Uint32() uint32
}

// MakeConstGen returns a generator that always produces the same word.
func MakeConstGen(constant llq.Word) func() llq.Word {
	return func() llq.Word {
		return constant
	}
}

// MakeIncreasingGen returns a generator that counts up from start.
func MakeIncreasingGen(start llq.Word) func() llq.Word {
	current := start
	return func() llq.Word {
		w := current
		current++
		return w
	}
}

// MakeRandomGen returns a generator that draws words over the full domain.
func MakeRandomGen(src WordSource) func() llq.Word {
	return func() llq.Word {
		return llq.Word(src.Uint32())
	}
}

// MakeGen returns the generator for a named pattern. An empty pattern means
// random.
func MakeGen(pattern string, src WordSource) (func() llq.Word, error) {
	switch pattern {
	case "", PatternRandom:
		return MakeRandomGen(src), nil
	case PatternIncreasing:
		return MakeIncreasingGen(0), nil
	case PatternConst:
		return MakeConstGen(0xA5A5A5A5), nil
	default:
		return nil, fmt.Errorf("unknown payload pattern %q", pattern)
	}
}
