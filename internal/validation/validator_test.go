package validation

import (
	"testing"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestGet_Singleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}

func TestStrongPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Passw0rd!", true},
		{"Sup3r$ecret", true},
		{"short1!", false},
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoDigitsHere!", false},
		{"NoSpecial123", false},
		{"Wrong#Special1", false},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, StrongPassword(tt.password))
		})
	}
}

func TestStruct_Registration(t *testing.T) {
	valid := domain.Registration{Name: "Ada Lovelace", Email: "ada@example.com", Password: "Engine!1843"}
	require.NoError(t, Struct(&valid))

	bad := domain.Registration{Name: "R2-D2", Email: "not-an-email", Password: "weak"}
	err := Struct(&bad)
	require.Error(t, err)
	require.True(t, IsValidationError(err))

	var verr *Error
	require.ErrorAs(t, err, &verr)
	tags := map[string]string{}
	for _, f := range verr.Fields {
		tags[f.Field] = f.Tag
	}
	assert.Equal(t, map[string]string{
		"name":     "personname",
		"email":    "email",
		"password": "strongpassword",
	}, tags)
}

func TestStruct_PasswordMessage(t *testing.T) {
	err := Struct(&domain.Registration{Name: "Ada Lovelace", Email: "ada@example.com", Password: "weak"})

	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "password must be at least 8 characters with upper, lower, digit and one of @$!%*?&", verr.Fields[0].Message)
	assert.NotContains(t, err.Error(), "%!")
}

func TestStruct_RatingBounds(t *testing.T) {
	for _, v := range []float64{0.5, 3, 5} {
		assert.NoError(t, Struct(&domain.RatingInput{MovieID: 1, Value: v}), "%v", v)
	}
	for _, v := range []float64{0, 0.4, 5.5, -1} {
		err := Struct(&domain.RatingInput{MovieID: 1, Value: v})
		assert.True(t, IsValidationError(err), "%v", v)
	}

	err := Struct(&domain.RatingInput{Value: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "movie_id is required")
}

func TestStruct_MovieUpdate(t *testing.T) {
	restore := now
	now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = restore })

	require.NoError(t, Struct(&domain.MovieUpdate{}))
	require.NoError(t, Struct(&domain.MovieUpdate{
		ReleaseDate: ptr("2024-05-31"),
		Language:    ptr("fr"),
		PosterPath:  ptr("https://image.tmdb.org/t/p/w500/x.jpg"),
		VoteAverage: ptr(7.5),
	}))

	tests := []struct {
		name  string
		input domain.MovieUpdate
		tag   string
	}{
		{"future date", domain.MovieUpdate{ReleaseDate: ptr("2024-06-02")}, "pastdate"},
		{"bad date", domain.MovieUpdate{ReleaseDate: ptr("01/02/2020")}, "pastdate"},
		{"upper language", domain.MovieUpdate{Language: ptr("EN")}, "lang2"},
		{"long language", domain.MovieUpdate{Language: ptr("eng")}, "lang2"},
		{"vote average", domain.MovieUpdate{VoteAverage: ptr(10.5)}, "lte"},
		{"runtime", domain.MovieUpdate{Runtime: ptr(-3)}, "gt"},
		{"poster", domain.MovieUpdate{PosterPath: ptr("ftp://x/y.jpg")}, "http_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.input)
			var verr *Error
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.tag, verr.Fields[0].Tag)
		})
	}
}

func TestStruct_WatchlistStatus(t *testing.T) {
	assert.NoError(t, Struct(&domain.WatchlistInput{MovieID: 3, Status: domain.StatusWatched}))
	assert.NoError(t, Struct(&domain.WatchlistInput{MovieID: 3}))

	err := Struct(&domain.WatchlistInput{MovieID: 3, Status: "maybe"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status must be one of: watched not_watched")
}
