package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandSameSeedSameSequence(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next())
	}
}

func TestRandDifferentSeedsDiverge(t *testing.T) {
	a := NewRand(1)
	b := NewRand(2)
	same := true
	for i := 0; i < 10; i++ {
		if a.Next() != b.Next() {
			same = false
		}
	}
	require.False(t, same)
}

func TestNextIntInclusiveBounds(t *testing.T) {
	g := NewRand(7)
	sawMin, sawMax := false, false
	for i := 0; i < 10000; i++ {
		v := g.NextInt(0, 3)
		require.True(t, v >= 0 && v <= 3, "value %d out of range", v)
		if v == 0 {
			sawMin = true
		}
		if v == 3 {
			sawMax = true
		}
	}
	require.True(t, sawMin)
	require.True(t, sawMax)
}

func TestNextIntDegenerateRange(t *testing.T) {
	g := NewRand(7)
	require.Equal(t, int64(5), g.NextInt(5, 5))
	require.Equal(t, int64(5), g.NextInt(5, 4))
}

func TestNextFloatBoundsAndPrecision(t *testing.T) {
	g := NewRand(99)
	for i := 0; i < 10000; i++ {
		v := g.NextFloat(-40, 85, 1)
		require.True(t, v >= -40 && v <= 85, "value %f out of range", v)
		require.Equal(t, RoundTo(v, 1), v)
	}
}

func TestNextChoiceStaysInSet(t *testing.T) {
	values := []string{"auto", "eco", "defrost"}
	g := NewRand(3)
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		v := g.NextChoice(values)
		seen[v] = true
	}
	require.Len(t, seen, 3)
}

func TestRoundTo(t *testing.T) {
	require.Equal(t, 1.2, RoundTo(1.24, 1))
	require.Equal(t, 1.3, RoundTo(1.25, 1))
	require.Equal(t, -4.0, RoundTo(-4.04, 1))
	require.Equal(t, 2.0, RoundTo(1.999, 0))
	require.Equal(t, 1.235, RoundTo(1.23456, 3))
}

func TestClamp(t *testing.T) {
	require.Equal(t, 0.0, Clamp(-1, 0, 10))
	require.Equal(t, 10.0, Clamp(11, 0, 10))
	require.Equal(t, 5.5, Clamp(5.5, 0, 10))
}
