package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID int64 = 42

// scoringFixture: the user rated m1=5, m2=4, m3=3; m1 neighbors m4 (0.8) and
// m5 (0.6), m2 neighbors m4 (0.5). m6 is unrated and unrelated.
func scoringFixture() (*fakeCatalog, *model.Similarity) {
	cat := newFakeCatalog(
		movie(1, "Heat", "Crime, Thriller", 900, 7.9),
		movie(2, "Ronin", "Action, Thriller", 400, 7.2),
		movie(3, "Collateral", "Crime, Drama", 600, 7.5),
		movie(4, "Thief", "Crime, Drama", 120, 7.4),
		movie(5, "Sicario", "Action, Crime", 800, 7.6),
		movie(6, "Paddington", "Comedy, Family", 300, 7.3),
	).rate(userID,
		domain.UserRating{MovieID: 1, Value: 5.0},
		domain.UserRating{MovieID: 2, Value: 4.0},
		domain.UserRating{MovieID: 3, Value: 3.0},
	)
	sim := sparse([]int64{1, 2, 3, 4, 5, 6}, map[[2]int64]float64{
		{1, 4}: 0.8,
		{1, 5}: 0.6,
		{2, 4}: 0.5,
	})
	return cat, sim
}

func newTestEngine(cat CatalogGateway, src SimilaritySource) *Engine {
	return NewEngine(DefaultConfig(), cat, src, nil)
}

func ids(movies []domain.RankedMovie) []int64 {
	out := make([]int64, len(movies))
	for i, m := range movies {
		out[i] = m.ID
	}
	return out
}

func TestRecommendForUser_WeightedAggregation(t *testing.T) {
	cat, sim := scoringFixture()
	e := newTestEngine(cat, staticSource{sim: sim})

	res, err := e.RecommendForUser(context.Background(), userID, 10)
	require.NoError(t, err)

	assert.Equal(t, domain.SourcePersonalized, res.Source)
	require.Equal(t, []int64{4, 5}, ids(res.Movies))
	assert.InDelta(t, 6.0, res.Movies[0].Score, 1e-9)
	assert.InDelta(t, 3.0, res.Movies[1].Score, 1e-9)
	assert.Equal(t, "Thief", res.Movies[0].Title)
}

func TestRecommendForUser_TopOne(t *testing.T) {
	cat, sim := scoringFixture()
	e := newTestEngine(cat, staticSource{sim: sim})

	res, err := e.RecommendForUser(context.Background(), userID, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(res.Movies))
}

func TestRecommendForUser_ExcludesRatedMovies(t *testing.T) {
	cat, _ := scoringFixture()
	// m1 and m2 are mutual neighbors, and the diagonal is populated.
	sim := sparse([]int64{1, 2, 3, 4}, map[[2]int64]float64{
		{1, 1}: 1.0,
		{1, 2}: 0.9,
		{2, 1}: 0.9,
		{2, 2}: 1.0,
		{1, 4}: 0.4,
	})
	e := newTestEngine(cat, staticSource{sim: sim})

	res, err := e.RecommendForUser(context.Background(), userID, 10)
	require.NoError(t, err)

	for _, m := range res.Movies {
		assert.NotContains(t, []int64{1, 2, 3}, m.ID)
	}
	assert.Equal(t, []int64{4}, ids(res.Movies))
}

func TestRecommendForUser_ColdStartMatchesPopular(t *testing.T) {
	cat, sim := scoringFixture()
	cat.ratings[7] = []domain.UserRating{{MovieID: 1, Value: 5}, {MovieID: 2, Value: 4}}
	e := newTestEngine(cat, staticSource{sim: sim})
	ctx := context.Background()

	for _, user := range []int64{7, 999} {
		got, err := e.RecommendForUser(ctx, user, 3)
		require.NoError(t, err)
		want, err := e.PopularMovies(ctx, 3, "")
		require.NoError(t, err)

		assert.Equal(t, want, got, "user %d", user)
		assert.Equal(t, domain.SourcePopularity, got.Source)
	}
}

func TestRecommendForUser_ModelUnavailableDegrades(t *testing.T) {
	cat, _ := scoringFixture()
	unavailable := &model.ModelUnavailableError{Path: "missing.json", Err: errors.New("no such file")}
	e := newTestEngine(cat, staticSource{err: unavailable})
	ctx := context.Background()

	got, err := e.RecommendForUser(ctx, userID, 3)
	require.NoError(t, err)
	want, err := e.PopularMovies(ctx, 3, "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRecommendForUser_OtherModelErrorsPropagate(t *testing.T) {
	cat, _ := scoringFixture()
	e := newTestEngine(cat, staticSource{err: context.Canceled})

	_, err := e.RecommendForUser(context.Background(), userID, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecommendForUser_NoCandidatesFallsBack(t *testing.T) {
	cat, _ := scoringFixture()
	// Rated movies are in the model but have no unrated neighbors.
	sim := sparse([]int64{1, 2, 3}, map[[2]int64]float64{
		{1, 2}: 0.7,
		{2, 3}: 0.3,
	})
	e := newTestEngine(cat, staticSource{sim: sim})

	res, err := e.RecommendForUser(context.Background(), userID, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.SourcePopularity, res.Source)
	assert.Len(t, res.Movies, 2)
}

func TestRecommendForUser_ZeroScoreCandidateIsKept(t *testing.T) {
	cat, _ := scoringFixture()
	sim := sparse([]int64{1, 2, 3, 6}, map[[2]int64]float64{
		{1, 6}: 0.0,
	})
	e := newTestEngine(cat, staticSource{sim: sim})

	res, err := e.RecommendForUser(context.Background(), userID, 5)
	require.NoError(t, err)
	assert.Equal(t, domain.SourcePersonalized, res.Source)
	require.Equal(t, []int64{6}, ids(res.Movies))
	assert.Zero(t, res.Movies[0].Score)
}

func TestRecommendForUser_DropsUnresolvedIDs(t *testing.T) {
	cat, _ := scoringFixture()
	// 77 is in the model but not in the catalog.
	sim := sparse([]int64{1, 2, 3, 4, 77}, map[[2]int64]float64{
		{1, 77}: 0.9,
		{1, 4}:  0.2,
	})
	e := newTestEngine(cat, staticSource{sim: sim})

	res, err := e.RecommendForUser(context.Background(), userID, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(res.Movies))
}

func TestRecommendForUser_CatalogFailure(t *testing.T) {
	cat, sim := scoringFixture()
	cat.err = errors.New("connection refused")
	e := newTestEngine(cat, staticSource{sim: sim})

	_, err := e.RecommendForUser(context.Background(), userID, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRecommendForUser_Idempotent(t *testing.T) {
	cat, _ := scoringFixture()
	// Two candidates tie; first-seen order must hold on every call.
	sim := sparse([]int64{1, 2, 3, 4, 5, 6}, map[[2]int64]float64{
		{1, 6}: 0.5,
		{1, 4}: 0.5,
		{1, 5}: 0.5,
	})
	e := newTestEngine(cat, staticSource{sim: sim})
	ctx := context.Background()

	first, err := e.RecommendForUser(ctx, userID, 3)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.RecommendForUser(ctx, userID, 3)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, []int64{4, 5, 6}, ids(first.Movies))
}

func TestSimilarMovies(t *testing.T) {
	cat, _ := scoringFixture()
	sim := sparse([]int64{1, 2, 4, 5}, map[[2]int64]float64{
		{1, 1}: 1.0,
		{1, 2}: 0.3,
		{1, 4}: 0.8,
		{1, 5}: 0.6,
	})
	e := newTestEngine(cat, staticSource{sim: sim})

	res, err := e.SimilarMovies(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceSimilarity, res.Source)
	assert.Equal(t, []int64{4, 5, 2}, ids(res.Movies))
	assert.NotContains(t, ids(res.Movies), int64(1))

	top, err := e.SimilarMovies(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5}, ids(top.Movies))
}

func TestSimilarMovies_UnknownMovie(t *testing.T) {
	cat, sim := scoringFixture()
	e := newTestEngine(cat, staticSource{sim: sim})

	_, err := e.SimilarMovies(context.Background(), 404, 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSimilarMovies_ModelUnavailableDegrades(t *testing.T) {
	cat, _ := scoringFixture()
	e := newTestEngine(cat, staticSource{err: &model.ModelUnavailableError{Path: "x", Err: errors.New("corrupt")}})

	res, err := e.SimilarMovies(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.SourcePopularity, res.Source)
	assert.Len(t, res.Movies, 2)
}

func TestRecommendByGenre(t *testing.T) {
	cat, _ := scoringFixture()
	sim := sparse([]int64{1, 2, 3, 4, 5, 6}, map[[2]int64]float64{
		{1, 4}: 0.8,
		{1, 5}: 0.6,
		{1, 6}: 0.9,
	})
	e := newTestEngine(cat, staticSource{sim: sim})
	ctx := context.Background()

	res, err := e.RecommendByGenre(ctx, userID, "crime", 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5}, ids(res.Movies))
	assert.Equal(t, domain.SourcePersonalized, res.Source)

	res, err = e.RecommendByGenre(ctx, userID, "CRIME", 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(res.Movies))

	res, err = e.RecommendByGenre(ctx, userID, "western", 5)
	require.NoError(t, err)
	assert.Empty(t, res.Movies)
}

func TestPopularMovies_EmptyCatalog(t *testing.T) {
	e := newTestEngine(newFakeCatalog(), staticSource{})

	_, err := e.PopularMovies(context.Background(), 5, "")
	assert.ErrorIs(t, err, domain.ErrEmptyCatalog)
}

func TestPopularMovies_GenreScope(t *testing.T) {
	cat, sim := scoringFixture()
	e := newTestEngine(cat, staticSource{sim: sim})

	res, err := e.PopularMovies(context.Background(), 10, "thriller")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, ids(res.Movies))
}
