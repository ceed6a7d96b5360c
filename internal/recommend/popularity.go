package recommend

import (
	"context"
	"math"
	"sort"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

// PopularityStats are the catalog-wide inputs of the weighted rating formula.
type PopularityStats struct {
	C float64 // mean vote_average
	M float64 // vote_count quantile: the votes needed to be trusted
}

// ComputeStats derives C and M from a movie collection. Both are 0 for an empty collection.
func ComputeStats(movies []domain.Movie, quantile float64) PopularityStats {
	if len(movies) == 0 {
		return PopularityStats{}
	}
	var sum float64
	counts := make([]float64, len(movies))
	for i, m := range movies {
		sum += m.VoteAverage
		counts[i] = float64(m.VoteCount)
	}
	return PopularityStats{
		C: sum / float64(len(movies)),
		M: Quantile(counts, quantile),
	}
}

// Quantile uses linear interpolation between closest ranks: with the values
// sorted, h = (n-1)q and the result is v[floor(h)] + (h-floor(h)) * (v[floor(h)+1]-v[floor(h)]).
// The input slice is not modified.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q = math.Max(0, math.Min(1, q))
	h := float64(len(sorted)-1) * q
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// WeightedRating is v/(v+M)*R + M/(M+v)*C. It is 0 when v+M is 0.
func WeightedRating(voteCount int64, voteAverage float64, stats PopularityStats) float64 {
	v := float64(voteCount)
	if v+stats.M == 0 {
		return 0
	}
	return v/(v+stats.M)*voteAverage + stats.M/(stats.M+v)*stats.C
}

// PopularityRanker ranks the active catalog by weighted rating.
type PopularityRanker struct {
	catalog  CatalogGateway
	quantile float64
}

func NewPopularityRanker(catalog CatalogGateway, quantile float64) *PopularityRanker {
	return &PopularityRanker{catalog: catalog, quantile: quantile}
}

// TopK returns up to k active movies (optionally restricted to a genre substring)
// by weighted rating descending. Stats are computed over the same collection.
func (p *PopularityRanker) TopK(ctx context.Context, k int, genre string) ([]domain.RankedMovie, error) {
	movies, err := p.catalog.GetActiveMovies(ctx, genre)
	if err != nil {
		return nil, catalogErr("fetch active movies", err)
	}
	if len(movies) == 0 {
		return nil, domain.ErrEmptyCatalog
	}
	return Rank(movies, p.quantile, k), nil
}

// Rank scores movies with stats derived from the movies themselves.
func Rank(movies []domain.Movie, quantile float64, k int) []domain.RankedMovie {
	stats := ComputeStats(movies, quantile)

	ranked := make([]domain.RankedMovie, len(movies))
	for i, m := range movies {
		ranked[i] = domain.RankedMovie{Movie: m, Score: WeightedRating(m.VoteCount, m.VoteAverage, stats)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return truncate(ranked, k)
}

func truncate[T any](items []T, k int) []T {
	if k < 0 {
		k = 0
	}
	if len(items) > k {
		return items[:k]
	}
	return items
}
