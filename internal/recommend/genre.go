package recommend

import (
	"strings"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

// FilterByGenre keeps movies whose genre string contains genre, ignoring case,
// in input order and truncated to k. Movies without genres never match.
func FilterByGenre(movies []domain.RankedMovie, genre string, k int) []domain.RankedMovie {
	needle := strings.ToLower(genre)
	out := make([]domain.RankedMovie, 0, min(len(movies), max(k, 0)))
	for _, m := range movies {
		if len(out) >= k {
			break
		}
		if m.Genres == "" {
			continue
		}
		if strings.Contains(strings.ToLower(m.Genres), needle) {
			out = append(out, m)
		}
	}
	return out
}
