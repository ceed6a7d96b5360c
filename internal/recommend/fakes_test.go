package recommend

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/model"
)

// fakeCatalog is an in-memory CatalogGateway. Movies keep insertion order.
type fakeCatalog struct {
	mu      sync.Mutex
	movies  []domain.Movie
	ratings map[int64][]domain.UserRating
	err     error
	calls   map[string]int
}

func newFakeCatalog(movies ...domain.Movie) *fakeCatalog {
	return &fakeCatalog{
		movies:  movies,
		ratings: make(map[int64][]domain.UserRating),
		calls:   make(map[string]int),
	}
}

func (f *fakeCatalog) rate(userID int64, pairs ...domain.UserRating) *fakeCatalog {
	f.ratings[userID] = append(f.ratings[userID], pairs...)
	return f
}

func (f *fakeCatalog) record(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.err
}

func (f *fakeCatalog) GetUserRatings(ctx context.Context, userID int64) ([]domain.UserRating, error) {
	if err := f.record("GetUserRatings"); err != nil {
		return nil, err
	}
	return f.ratings[userID], nil
}

func (f *fakeCatalog) GetMovieByID(ctx context.Context, movieID int64) (*domain.Movie, error) {
	if err := f.record("GetMovieByID"); err != nil {
		return nil, err
	}
	for _, m := range f.movies {
		if m.ID == movieID {
			return &m, nil
		}
	}
	return nil, domain.ErrMovieNotFound
}

func (f *fakeCatalog) GetMoviesByID(ctx context.Context, ids []int64) ([]domain.Movie, error) {
	if err := f.record("GetMoviesByID"); err != nil {
		return nil, err
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Movie
	for _, m := range f.movies {
		if want[m.ID] {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeCatalog) GetActiveMovies(ctx context.Context, genre string) ([]domain.Movie, error) {
	if err := f.record("GetActiveMovies"); err != nil {
		return nil, err
	}
	var out []domain.Movie
	for _, m := range f.movies {
		if !m.IsActive {
			continue
		}
		if genre != "" && !strings.Contains(strings.ToLower(m.Genres), strings.ToLower(genre)) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type staticSource struct {
	sim *model.Similarity
	err error
}

func (s staticSource) Load(ctx context.Context) (*model.Similarity, error) {
	return s.sim, s.err
}

func movie(id int64, title, genres string, voteCount int64, voteAverage float64) domain.Movie {
	return domain.Movie{
		ID:          id,
		Title:       title,
		Genres:      genres,
		VoteCount:   voteCount,
		VoteAverage: voteAverage,
		IsActive:    true,
	}
}

// sparse builds a similarity matrix over ids from (row, col, score) triples;
// every other cell is missing.
func sparse(ids []int64, cells map[[2]int64]float64) *model.Similarity {
	pos := make(map[int64]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	rows := make([][]float64, len(ids))
	for i := range rows {
		rows[i] = make([]float64, len(ids))
		for j := range rows[i] {
			rows[i][j] = math.NaN()
		}
	}
	for cell, v := range cells {
		rows[pos[cell[0]]][pos[cell[1]]] = v
	}
	sim, err := model.NewSimilarity(ids, rows)
	if err != nil {
		panic(err)
	}
	return sim
}
