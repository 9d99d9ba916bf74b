package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedForStable(t *testing.T) {
	ctx := ReproContext{Org: "o1", Site: "s1", Unit: "u1", DeviceID: "d1", Sequence: 0}
	require.Equal(t, ctx.SeedFor("temperature"), ctx.SeedFor("temperature"))
}

func TestSeedForSensitiveToEveryComponent(t *testing.T) {
	base := ReproContext{Org: "o1", Site: "s1", Unit: "u1", DeviceID: "d1", Sequence: 0}
	seed := base.SeedFor("temperature")

	variants := []ReproContext{
		{Org: "o2", Site: "s1", Unit: "u1", DeviceID: "d1", Sequence: 0},
		{Org: "o1", Site: "s2", Unit: "u1", DeviceID: "d1", Sequence: 0},
		{Org: "o1", Site: "s1", Unit: "u2", DeviceID: "d1", Sequence: 0},
		{Org: "o1", Site: "s1", Unit: "u1", DeviceID: "d2", Sequence: 0},
		{Org: "o1", Site: "s1", Unit: "u1", DeviceID: "d1", Sequence: 1},
	}
	for _, v := range variants {
		require.NotEqual(t, seed, v.SeedFor("temperature"), "context %+v collided", v)
	}
	require.NotEqual(t, seed, base.SeedFor("battery"))
}

func TestSeedForNoComponentConcatenation(t *testing.T) {
	// "ab"+"c" must not hash like "a"+"bc".
	a := ReproContext{Org: "ab", Site: "c", Unit: "u", DeviceID: "d"}
	b := ReproContext{Org: "a", Site: "bc", Unit: "u", DeviceID: "d"}
	require.NotEqual(t, a.SeedFor("f"), b.SeedFor("f"))
}

func TestSeedForNeverZero(t *testing.T) {
	ctx := ReproContext{}
	require.NotZero(t, ctx.SeedFor(""))
}
