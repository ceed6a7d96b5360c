package domain

import "time"

// PlaceholderPoster is stored when a movie has no poster reference.
const PlaceholderPoster = "https://via.placeholder.com/500x750?text=No+Image"

type Movie struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Genres      string    `json:"genres"`
	Overview    string    `json:"overview"`
	ReleaseDate string    `json:"release_date"`
	Runtime     int       `json:"runtime"`
	Popularity  float64   `json:"popularity"`
	VoteAverage float64   `json:"vote_average"`
	VoteCount   int64     `json:"vote_count"`
	Language    string    `json:"language"`
	PosterPath  string    `json:"poster_path"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MovieDetails is a movie enriched with the mean of its user ratings.
type MovieDetails struct {
	Movie
	AvgRating float64 `json:"avg_rating"`
}

// MovieUpdate carries the fields an admin may change. Nil fields are left untouched.
type MovieUpdate struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Genres      *string  `json:"genres" validate:"omitempty,max=255"`
	Overview    *string  `json:"overview"`
	ReleaseDate *string  `json:"release_date" validate:"omitempty,pastdate"`
	Runtime     *int     `json:"runtime" validate:"omitempty,gt=0"`
	Popularity  *float64 `json:"popularity" validate:"omitempty,gte=0"`
	VoteAverage *float64 `json:"vote_average" validate:"omitempty,gte=0,lte=10"`
	VoteCount   *int64   `json:"vote_count" validate:"omitempty,gte=0"`
	Language    *string  `json:"language" validate:"omitempty,lang2"`
	PosterPath  *string  `json:"poster_path" validate:"omitempty,http_url"`
}

// Empty reports whether no field was supplied.
func (u MovieUpdate) Empty() bool {
	return u.Title == nil && u.Genres == nil && u.Overview == nil && u.ReleaseDate == nil &&
		u.Runtime == nil && u.Popularity == nil && u.VoteAverage == nil && u.VoteCount == nil &&
		u.Language == nil && u.PosterPath == nil
}

type NewMovie struct {
	ID          int64   `json:"id" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required,max=255"`
	Genres      string  `json:"genres" validate:"max=255"`
	Overview    string  `json:"overview"`
	ReleaseDate string  `json:"release_date" validate:"omitempty,pastdate"`
	Runtime     int     `json:"runtime" validate:"gte=0"`
	Popularity  float64 `json:"popularity" validate:"gte=0"`
	VoteAverage float64 `json:"vote_average" validate:"gte=0,lte=10"`
	VoteCount   int64   `json:"vote_count" validate:"gte=0"`
	Language    string  `json:"language" validate:"omitempty,lang2"`
	PosterPath  string  `json:"poster_path" validate:"omitempty,http_url"`
}
