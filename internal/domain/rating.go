package domain

import "time"

// Rating bounds shared by the validator and the ratings table constraint.
const (
	MinRating = 0.5
	MaxRating = 5.0
)

type Rating struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"user_id"`
	MovieID int64     `json:"movie_id"`
	Value   float64   `json:"rating"`
	RatedAt time.Time `json:"rated_at"`
}

// UserRating is the (movie, value) pair the recommendation engine seeds from.
type UserRating struct {
	MovieID int64   `json:"movie_id"`
	Value   float64 `json:"rating"`
}

// ImportedRating is one row of a bulk ratings load.
type ImportedRating struct {
	UserID  int64
	MovieID int64
	Value   float64
	RatedAt time.Time
}

type RatingInput struct {
	MovieID int64   `json:"movie_id" validate:"required,gt=0"`
	Value   float64 `json:"rating" validate:"gte=0.5,lte=5"`
}

// RatedMovie is one row of a user's rating history.
type RatedMovie struct {
	MovieID     int64   `json:"movie_id"`
	Title       string  `json:"title"`
	Rating      float64 `json:"rating"`
	Genres      string  `json:"genres"`
	ReleaseDate string  `json:"release_date"`
}

type TopRatedMovie struct {
	MovieID      int64   `json:"movie_id"`
	Title        string  `json:"title"`
	AvgRating    float64 `json:"avg_rating"`
	TotalRatings int64   `json:"total_ratings"`
}

type ActiveUser struct {
	UserID      int64  `json:"user_id"`
	Email       string `json:"email"`
	RatingCount int64  `json:"rating_count"`
}

type RatingBucket struct {
	Rating float64 `json:"rating"`
	Count  int64   `json:"count"`
}

// ImportSummary reports the outcome of a CSV load.
type ImportSummary struct {
	Read    int `json:"read"`
	Written int `json:"written"`
	Skipped int `json:"skipped"`
}
