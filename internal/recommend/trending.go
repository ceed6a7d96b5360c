package recommend

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/metrics"
)

var releaseDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ParseReleaseDate accepts the date layouts found in catalog imports.
func ParseReleaseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// TrendingRanker orders active movies by release date, newest first.
type TrendingRanker struct {
	catalog    CatalogGateway
	popularity *PopularityRanker
}

func NewTrendingRanker(catalog CatalogGateway, popularity *PopularityRanker) *TrendingRanker {
	return &TrendingRanker{catalog: catalog, popularity: popularity}
}

// TopK drops movies with unusable dates. When no movie has one it returns the
// popularity ranking instead, reported through the returned source.
func (t *TrendingRanker) TopK(ctx context.Context, k int) ([]domain.RankedMovie, domain.RecommendationSource, error) {
	movies, err := t.catalog.GetActiveMovies(ctx, "")
	if err != nil {
		return nil, "", catalogErr("fetch active movies", err)
	}

	type dated struct {
		movie    domain.Movie
		released time.Time
	}
	kept := make([]dated, 0, len(movies))
	for _, m := range movies {
		if ts, ok := ParseReleaseDate(m.ReleaseDate); ok {
			kept = append(kept, dated{movie: m, released: ts})
		}
	}

	if len(kept) == 0 {
		metrics.RecommendationFallbacks.WithLabelValues("no_release_dates").Inc()
		ranked, err := t.popularity.TopK(ctx, k, "")
		if err != nil {
			return nil, "", err
		}
		return ranked, domain.SourcePopularity, nil
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].released.After(kept[j].released)
	})
	kept = truncate(kept, k)

	out := make([]domain.RankedMovie, len(kept))
	for i, d := range kept {
		out[i] = domain.RankedMovie{Movie: d.movie}
	}
	return out, domain.SourceTrending, nil
}
