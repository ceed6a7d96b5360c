package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreAccumulator(t *testing.T) {
	acc := NewScoreAccumulator()
	acc.Add(4, 0.8*5.0)
	acc.Add(5, 0.6*5.0)
	acc.Add(4, 0.5*4.0)
	acc.Add(9, 0)

	s, ok := acc.Score(4)
	assert.True(t, ok)
	assert.InDelta(t, 6.0, s, 1e-9)

	s, ok = acc.Score(9)
	assert.True(t, ok, "zero score is still present")
	assert.Zero(t, s)

	_, ok = acc.Score(10)
	assert.False(t, ok)

	assert.Equal(t, 3, acc.Len())
}

func TestScoreAccumulator_Top(t *testing.T) {
	acc := NewScoreAccumulator()
	acc.Add(30, 1)
	acc.Add(10, 2)
	acc.Add(20, 1)
	acc.Add(40, 2)

	assert.Equal(t, []scoredID{{10, 2}, {40, 2}, {30, 1}, {20, 1}}, acc.Top(10))
	assert.Equal(t, []scoredID{{10, 2}}, acc.Top(1))
	assert.Empty(t, acc.Top(0))
}
