package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weightedItem struct {
	name   string
	weight float64
}

func itemWeight(i weightedItem) float64 { return i.weight }

func fixed(v float64) RandomSource {
	return RandomFunc(func() float64 { return v })
}

func TestPickWeightedProportionality(t *testing.T) {
	items := []weightedItem{{"common", 1}, {"rare", 3}}
	rng := NewSeededRNG("proportionality")

	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		item, err := PickWeighted(items, itemWeight, rng)
		require.NoError(t, err)
		counts[item.name]++
	}

	require.Greater(t, counts["common"], 0)
	ratio := float64(counts["rare"]) / float64(counts["common"])
	assert.InDelta(t, 3.0, ratio, 0.4)
}

func TestPickWeightedDeterministicWithSeed(t *testing.T) {
	items := []weightedItem{{"a", 5}, {"b", 2}, {"c", 1}, {"d", 0.5}}

	run := func() []string {
		rng := NewSeededRNG("replay")
		var out []string
		for i := 0; i < 200; i++ {
			item, err := PickWeighted(items, itemWeight, rng)
			require.NoError(t, err)
			out = append(out, item.name)
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestPickWeightedRejectsNonPositiveTotal(t *testing.T) {
	_, err := PickWeighted([]weightedItem{{"a", 0}, {"b", 0}}, itemWeight, fixed(0.5))
	assert.ErrorIs(t, err, ErrInvalidWeightDistribution)

	_, err = PickWeighted([]weightedItem{{"a", -3}}, itemWeight, fixed(0.5))
	assert.ErrorIs(t, err, ErrInvalidWeightDistribution)

	_, err = PickWeighted([]weightedItem{}, itemWeight, fixed(0.5))
	assert.ErrorIs(t, err, ErrInvalidWeightDistribution)
}

func TestPickWeightedClampsNegativeWeights(t *testing.T) {
	items := []weightedItem{{"negative", -5}, {"positive", 2}}
	for _, v := range []float64{0, 0.3, 0.99} {
		item, err := PickWeighted(items, itemWeight, fixed(v))
		require.NoError(t, err)
		assert.Equal(t, "positive", item.name)
	}
}

func TestPickWeightedSkipsZeroWeightItems(t *testing.T) {
	items := []weightedItem{{"zero", 0}, {"one", 1}, {"zero-tail", 0}}
	for _, v := range []float64{0, 0.5, 0.999999} {
		item, err := PickWeighted(items, itemWeight, fixed(v))
		require.NoError(t, err)
		assert.Equal(t, "one", item.name)
	}
}

func TestPickWeightedBoundaries(t *testing.T) {
	items := []weightedItem{{"first", 1}, {"second", 1}}

	item, err := PickWeighted(items, itemWeight, fixed(0))
	require.NoError(t, err)
	assert.Equal(t, "first", item.name)

	item, err = PickWeighted(items, itemWeight, fixed(0.5))
	require.NoError(t, err)
	assert.Equal(t, "first", item.name)

	item, err = PickWeighted(items, itemWeight, fixed(0.75))
	require.NoError(t, err)
	assert.Equal(t, "second", item.name)

	// Out of range sources are clamped rather than overrunning the list.
	item, err = PickWeighted(items, itemWeight, fixed(1.5))
	require.NoError(t, err)
	assert.Equal(t, "second", item.name)
}

func TestPickWeightedTieGoesToEarlierItem(t *testing.T) {
	items := []weightedItem{{"common", 60}, {"legendary", 5}}

	item, err := PickWeighted(items, itemWeight, fixed(60.0/65))
	require.NoError(t, err)
	assert.Equal(t, "common", item.name)

	item, err = PickWeighted(items, itemWeight, fixed(61.0/65))
	require.NoError(t, err)
	assert.Equal(t, "legendary", item.name)
}

func TestPickWeightedNilRNG(t *testing.T) {
	item, err := PickWeighted([]weightedItem{{"only", 1}}, itemWeight, nil)
	require.NoError(t, err)
	assert.Equal(t, "only", item.name)
}
