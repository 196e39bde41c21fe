// Package prng provides the seeded pseudo-random generator used by exercise routines.
//
// The generator is mulberry32: a 32-bit state advanced by a fixed increment and mixed
// with multiply/xor-shift rounds. Two generators seeded identically produce identical
// sequences on every platform, which is what makes silent replay reproduce a trace.
package prng

import (
	"math"
	"math/rand/v2"

	"github.com/aretw0/tracer/pkg/domain"
)

const (
	increment = 0x6D2B79F5
	scale     = 4294967296.0
)

// Rand is a deterministic mulberry32 generator. It is not safe for concurrent use;
// each running routine owns its own instance.
type Rand struct {
	state uint32
	seed  float64
}

// New creates a generator from a seed in [0, 1).
func New(seed float64) *Rand {
	r := &Rand{}
	r.Seed(seed)
	return r
}

// NewRandom creates a generator with a random seed.
func NewRandom() *Rand {
	r := &Rand{}
	r.SeedRandom()
	return r
}

// Seed re-seeds the generator and returns the seed used.
// The seed is scaled to 32 bits; seeds outside [0, 1) wrap modulo 2^32.
func (r *Rand) Seed(seed float64) float64 {
	r.seed = seed
	r.state = uint32(int64(math.Floor(seed * scale)))
	return seed
}

// SeedRandom re-seeds the generator from an unpredictable source and returns the seed.
func (r *Rand) SeedRandom() float64 {
	return r.Seed(rand.Float64())
}

// Current returns the seed the generator was last seeded with.
func (r *Rand) Current() float64 {
	return r.seed
}

// Next returns a float in [0, 1).
func (r *Rand) Next() float64 {
	r.state += increment
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / scale
}

// Int returns an integer in [a, b].
func (r *Rand) Int(a, b int) int {
	return int(math.Floor(float64(a) + float64(b-a+1)*r.Next()))
}

// Double returns a float in [a, b).
func (r *Rand) Double(a, b float64) float64 {
	return a + (b-a)*r.Next()
}

// Float returns a float32 in [a, b).
func (r *Rand) Float(a, b float32) float32 {
	return float32(r.Double(float64(a), float64(b)))
}

// Boolean returns true with probability one half.
func (r *Rand) Boolean() bool {
	return r.Next() < 0.5
}

// IntArray returns n integers, each in [low, high].
func (r *Rand) IntArray(n, low, high int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = r.Int(low, high)
	}
	return out
}

// IntArray2 returns a rows x cols grid of integers, each in [low, high].
func (r *Rand) IntArray2(rows, cols, low, high int) [][]int {
	out := make([][]int, rows)
	for i := range out {
		out[i] = r.IntArray(cols, low, high)
	}
	return out
}

// DistinctInts returns n distinct integers drawn from [low, high].
// It is a configuration error to ask for more values than the range holds.
func (r *Rand) DistinctInts(n, low, high int) ([]int, error) {
	size := high - low + 1
	if n > size {
		return nil, domain.ConfigurationError("cannot draw %d distinct integers from [%d, %d]", n, low, high)
	}
	pool := make([]int, size)
	for i := range pool {
		pool[i] = low + i
	}
	out := make([]int, 0, n)
	for range n {
		k := r.Int(0, len(pool)-1)
		out = append(out, pool[k])
		pool[k] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return out, nil
}

// CodePoint returns a code point in [a, b].
func (r *Rand) CodePoint(a, b rune) rune {
	return rune(r.Int(int(a), int(b)))
}

// String returns a string of n code points, each in [a, b].
func (r *Rand) String(n int, a, b rune) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r.CodePoint(a, b)
	}
	return string(out)
}

// Select returns one of the arguments, uniformly.
func Select[T any](r *Rand, args ...T) T {
	return args[r.Int(0, len(args)-1)]
}
