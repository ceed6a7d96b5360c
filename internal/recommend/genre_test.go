package recommend

import (
	"testing"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/stretchr/testify/assert"
)

func ranked(movies ...domain.Movie) []domain.RankedMovie {
	out := make([]domain.RankedMovie, len(movies))
	for i, m := range movies {
		out[i] = domain.RankedMovie{Movie: m, Score: float64(len(movies) - i)}
	}
	return out
}

func TestFilterByGenre(t *testing.T) {
	list := ranked(
		movie(1, "", "Action|Sci-Fi", 0, 0),
		movie(2, "", "", 0, 0),
		movie(3, "", "Drama", 0, 0),
		movie(4, "", "science fiction|ACTION", 0, 0),
		movie(5, "", "Romance|Action", 0, 0),
	)

	tests := []struct {
		name  string
		genre string
		k     int
		want  []int64
	}{
		{"case insensitive", "action", 10, []int64{1, 4, 5}},
		{"upper query", "DRAMA", 10, []int64{3}},
		{"substring", "sci", 10, []int64{1, 4}},
		{"truncated", "action", 2, []int64{1, 4}},
		{"no match", "western", 10, []int64{}},
		{"zero k", "action", 0, []int64{}},
		{"empty genre skips movies without genres", "", 10, []int64{1, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterByGenre(list, tt.genre, tt.k)))
		})
	}
}

func TestFilterByGenre_KeepsScores(t *testing.T) {
	list := ranked(movie(1, "", "Drama", 0, 0), movie(2, "", "Drama", 0, 0))
	got := FilterByGenre(list, "drama", 5)
	assert.Equal(t, list, got)
}
