package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draw(src RandomSource, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = src.Float64()
	}
	return out
}

func TestHashSeed(t *testing.T) {
	assert.Equal(t, uint32(0), hashSeed(""))
	assert.Equal(t, uint32(97), hashSeed("a"))
	assert.Equal(t, uint32(97*31+98), hashSeed("ab"))
}

func TestSeededRNGIsDeterministic(t *testing.T) {
	a := draw(NewSeededRNG("duck-42"), 500)
	b := draw(NewSeededRNG("duck-42"), 500)
	assert.Equal(t, a, b)
}

func TestSeededRNGDiffersAcrossSeeds(t *testing.T) {
	a := draw(NewSeededRNG("alpha"), 1000)
	b := draw(NewSeededRNG("beta"), 1000)

	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	assert.Less(t, same, 5)
}

func TestSeededRNGEmptySeedUsesDefaultState(t *testing.T) {
	want := draw(&xorshift32{state: defaultSeed}, 10)
	assert.Equal(t, want, draw(NewSeededRNG(""), 10))
}

func TestSeededRNGScalesByLargestState(t *testing.T) {
	src := NewSeededRNG("a")
	for _, state := range []uint32{25701511, 2264997867, 997826357} {
		assert.Equal(t, float64(state)/0xffffffff, src.Float64())
	}
}

func TestSeededRNGRange(t *testing.T) {
	for _, v := range draw(NewSeededRNG("range"), 10000) {
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestSeededRNGMean(t *testing.T) {
	values := draw(NewSeededRNG("mean"), 20000)
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	assert.InDelta(t, 0.5, sum/float64(len(values)), 0.02)
}

func TestDefaultRNGRange(t *testing.T) {
	for _, v := range draw(DefaultRNG(), 1000) {
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestResolveRNGPrecedence(t *testing.T) {
	fixed := RandomFunc(func() float64 { return 0.25 })
	assert.Equal(t, 0.25, resolveRNG(fixed, "ignored").Float64())

	seeded := resolveRNG(nil, "s")
	assert.Equal(t, NewSeededRNG("s").Float64(), seeded.Float64())

	_, ok := resolveRNG(nil, "").(cryptoRNG)
	assert.True(t, ok)
}
