package domain

import "time"

type WatchStatus string

const (
	StatusWatched    WatchStatus = "watched"
	StatusNotWatched WatchStatus = "not_watched"
)

type WatchlistEntry struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"user_id"`
	UserEmail  string      `json:"user_email,omitempty"`
	MovieID    int64       `json:"movie_id"`
	Title      string      `json:"title"`
	Genres     string      `json:"genres"`
	PosterPath string      `json:"poster_path"`
	Status     WatchStatus `json:"status"`
	AddedAt    time.Time   `json:"added_at"`
}

type WatchlistInput struct {
	MovieID int64       `json:"movie_id" validate:"required,gt=0"`
	Status  WatchStatus `json:"status" validate:"omitempty,oneof=watched not_watched"`
}
