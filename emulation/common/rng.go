package common

import (
	"math"
	"math/rand"
)

// Rand draws reproducible values from a fixed 64-bit seed. No entropy,
// wall clock or global counter ever feeds it: the same seed yields the same
// infinite output sequence on every platform.
type Rand struct {
	r *rand.Rand
}

// NewRand seeds a fresh generator. One instance is created per field and
// emission, so generation order never perturbs another field's value.
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// Next returns a float in [0,1).
func (g *Rand) Next() float64 {
	return g.r.Float64()
}

// NextInt returns an integer in [min,max], both ends inclusive.
func (g *Rand) NextInt(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + g.r.Int63n(max-min+1)
}

// NextFloat returns a float in [min,max] rounded to the given number of
// decimal places.
func (g *Rand) NextFloat(min, max float64, precision int) float64 {
	if max <= min {
		return RoundTo(min, precision)
	}
	return RoundTo(min+g.r.Float64()*(max-min), precision)
}

// NextBool returns true or false with equal probability.
func (g *Rand) NextBool() bool {
	return g.r.Float64() >= 0.5
}

// NextChoice returns one of the given values with uniform probability.
func (g *Rand) NextChoice(values []string) string {
	if len(values) == 1 {
		return values[0]
	}
	return values[g.r.Int63n(int64(len(values)))]
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, precision int) float64 {
	p := math.Pow10(precision)
	return math.Round(v*p) / p
}

// Clamp limits v to [min,max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
