package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moviesCSV = `movieId,title,genres,overview,release_date,runtime,popularity,vote_average,vote_count,original_language,poster_path
1,Toy Story,Animation|Comedy|Family,"Toys, alive.",1995-10-30,81.0,21.9,7.7,5415,en,https://image.tmdb.org/t/p/w500/toy.jpg
2,Jumanji,Adventure|Fantasy,,1995-12-15,104,17.0,6.9,2413,EN,
x,Broken id,Drama,,,,,,,,
3,Future Film,Drama,,2999-01-01,,,,,,
4,Bad Votes,Drama,,,,,11.5,,,
5,,Drama,,,,,,,,
`

func TestParseMovies(t *testing.T) {
	movies, skipped, err := ParseMovies(strings.NewReader(moviesCSV))
	require.NoError(t, err)

	require.Len(t, movies, 2)
	toy := movies[0]
	assert.Equal(t, int64(1), toy.ID)
	assert.Equal(t, "Toy Story", toy.Title)
	assert.Equal(t, "Toys, alive.", toy.Overview)
	assert.Equal(t, 81, toy.Runtime)
	assert.Equal(t, int64(5415), toy.VoteCount)
	assert.InDelta(t, 7.7, toy.VoteAverage, 1e-9)
	assert.Equal(t, "en", toy.Language)

	assert.Equal(t, "en", movies[1].Language, "language is lowercased")
	assert.Empty(t, movies[1].PosterPath)

	lines := make([]int, len(skipped))
	for i, s := range skipped {
		lines[i] = s.Line
	}
	assert.Equal(t, []int{4, 5, 6, 7}, lines)
}

func TestParseMovies_MissingColumns(t *testing.T) {
	_, _, err := ParseMovies(strings.NewReader("genres,overview\nDrama,x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id, title")
}

func TestParseMovies_HeaderAliasesAndBOM(t *testing.T) {
	in := "\ufeffID,Title,Language\n7,Alien,en\n"
	movies, skipped, err := ParseMovies(strings.NewReader(in))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, movies, 1)
	assert.Equal(t, int64(7), movies[0].ID)
}

func TestParseRatings(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	in := `userId,movieId,rating,timestamp
1,10,4.5,964982703
1,11,5.0,2021-06-01 12:00:00
2,10,0.5,
2,12,0.0,964982703
3,13,5.5,964982703
0,10,3.0,964982703
4,abc,3.0,964982703
5,10,3.0,yesterday
`
	ratings, skipped, err := ParseRatings(strings.NewReader(in), now)
	require.NoError(t, err)

	require.Len(t, ratings, 3)
	assert.Equal(t, time.Unix(964982703, 0).UTC(), ratings[0].RatedAt)
	assert.Equal(t, time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC), ratings[1].RatedAt)
	assert.Equal(t, now, ratings[2].RatedAt)
	assert.InDelta(t, 0.5, ratings[2].Value, 1e-9)

	assert.Len(t, skipped, 5)
	assert.Contains(t, skipped[0].Error(), "line 5")
}

func TestParseRatings_MissingRatingColumn(t *testing.T) {
	_, _, err := ParseRatings(strings.NewReader("userId,movieId\n1,2\n"), time.Now())
	assert.ErrorContains(t, err, "rating")
}
