package recommend

import "sort"

// ScoreAccumulator sums candidate scores and remembers the order in which
// candidates were first seen, so ranking ties resolve deterministically.
type ScoreAccumulator struct {
	order  []int64
	scores map[int64]float64
}

func NewScoreAccumulator() *ScoreAccumulator {
	return &ScoreAccumulator{scores: make(map[int64]float64)}
}

func (a *ScoreAccumulator) Add(movieID int64, delta float64) {
	if _, ok := a.scores[movieID]; !ok {
		a.order = append(a.order, movieID)
	}
	a.scores[movieID] += delta
}

// Score returns the accumulated value and whether the candidate was ever added.
// A present candidate may legitimately score zero.
func (a *ScoreAccumulator) Score(movieID int64) (float64, bool) {
	s, ok := a.scores[movieID]
	return s, ok
}

func (a *ScoreAccumulator) Len() int { return len(a.order) }

type scoredID struct {
	ID    int64
	Score float64
}

// Top returns up to k candidates by score descending; ties keep first-seen order.
func (a *ScoreAccumulator) Top(k int) []scoredID {
	ranked := make([]scoredID, len(a.order))
	for i, id := range a.order {
		ranked[i] = scoredID{ID: id, Score: a.scores[id]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
