package seeds

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPowerLawScore_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for range 1000 {
		s := powerLawScore(rng)
		assert.GreaterOrEqual(t, s, 0.01)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestWeightedChoice(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	counts := map[string]int{}
	for range 2000 {
		counts[weightedChoice(rng, []string{"en", "fr"}, []float64{0.9, 0.1})]++
	}
	assert.Greater(t, counts["en"], counts["fr"]*4)

	assert.Equal(t, "only", weightedChoice(rng, []string{"only"}, []float64{0}))
}

func TestCatalogTitlesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, g := range genreOrder {
		titles, ok := catalog[g]
		assert.True(t, ok, g)
		for _, title := range titles {
			assert.False(t, seen[title], title)
			seen[title] = true
		}
	}
	assert.GreaterOrEqual(t, len(seen), numMovies)
}

func TestCatalogGenresAreCommaSeparated(t *testing.T) {
	for _, g := range genreOrder {
		assert.NotContains(t, g, "|")
		for _, part := range strings.Split(g, ",") {
			assert.NotEmpty(t, strings.TrimSpace(part), g)
		}
	}
}
