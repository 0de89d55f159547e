// Package randfield draws primitive random field values for synthetic records.
//
// Every draw goes through a caller-supplied Source. The package keeps no
// state of its own, so each worker can own an independent source and never
// contend with another.
package randfield

import (
	"math/rand/v2"
)

// Alphabet is the character set used for random strings.
const Alphabet = "abcdefghijklmnopqrstuvwxyz"

// Source provides uniform random draws.
type Source interface {
	// IntN returns a uniform integer in [lo, hi). hi must be greater than lo.
	IntN(lo, hi int) int

	// FloatIn returns a uniform float in [lo, hi).
	FloatIn(lo, hi float64) float64

	// Bool returns true or false with equal probability.
	Bool() bool
}

// PCG is a Source backed by a math/rand/v2 PCG generator.
// It is not safe for concurrent use; give each goroutine its own.
type PCG struct {
	r *rand.Rand
}

// NewPCG creates a deterministic source from two seed words.
func NewPCG(seed1, seed2 uint64) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// NewRandom creates a source seeded from the runtime's global generator.
func NewRandom() *PCG {
	return NewPCG(rand.Uint64(), rand.Uint64())
}

func (p *PCG) IntN(lo, hi int) int {
	return lo + p.r.IntN(hi-lo)
}

func (p *PCG) FloatIn(lo, hi float64) float64 {
	v := lo + p.r.Float64()*(hi-lo)
	// Rounding can land exactly on hi when the span is large.
	if v >= hi {
		return lo
	}
	return v
}

func (p *PCG) Bool() bool {
	return p.r.Uint64()&1 == 1
}

// Int draws a uniform integer in [lo, hi).
func Int(src Source, lo, hi int) int {
	return src.IntN(lo, hi)
}

// Float draws a uniform float in [lo, hi).
func Float(src Source, lo, hi float64) float64 {
	return src.FloatIn(lo, hi)
}

// Bool draws a fair boolean.
func Bool(src Source) bool {
	return src.Bool()
}

// String returns a lowercase string of exactly n characters.
func String(src Source, n int) string {
	return string(AppendString(make([]byte, 0, n), src, n))
}

// AppendString appends n random lowercase characters to dst.
func AppendString(dst []byte, src Source, n int) []byte {
	for i := 0; i < n; i++ {
		dst = append(dst, Alphabet[src.IntN(0, len(Alphabet))])
	}
	return dst
}
