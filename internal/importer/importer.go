// Package importer parses catalog and ratings CSV exports into domain records.
// Rows that fail to parse or validate are skipped and reported, never fatal.
package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/validation"
)

// RowError describes a skipped row. Line is 1-based and counts the header.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// movieColumns and ratingColumns map accepted header names to canonical keys.
var movieColumns = map[string]string{
	"movieid":           "id",
	"id":                "id",
	"title":             "title",
	"genres":            "genres",
	"overview":          "overview",
	"release_date":      "release_date",
	"runtime":           "runtime",
	"popularity":        "popularity",
	"vote_average":      "vote_average",
	"vote_count":        "vote_count",
	"original_language": "language",
	"language":          "language",
	"poster_path":       "poster_path",
}

var ratingColumns = map[string]string{
	"userid":    "user_id",
	"user_id":   "user_id",
	"movieid":   "movie_id",
	"movie_id":  "movie_id",
	"rating":    "rating",
	"timestamp": "timestamp",
	"datetime":  "timestamp",
	"rated_at":  "timestamp",
}

type table struct {
	reader *csv.Reader
	index  map[string]int
	line   int
}

func openTable(r io.Reader, aliases map[string]string, required ...string) (*table, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if canonical, ok := aliases[key]; ok {
			if _, dup := index[canonical]; !dup {
				index[canonical] = i
			}
		}
	}
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return &table{reader: reader, index: index, line: 1}, nil
}

// next returns the following record, io.EOF at the end, or a *csv.ParseError for a malformed line.
func (t *table) next() ([]string, error) {
	rec, err := t.reader.Read()
	t.line++
	return rec, err
}

func (t *table) get(rec []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// ParseMovies reads a movies CSV. The id and title columns are required.
func ParseMovies(r io.Reader) ([]domain.NewMovie, []RowError, error) {
	t, err := openTable(r, movieColumns, "id", "title")
	if err != nil {
		return nil, nil, err
	}

	var movies []domain.NewMovie
	var skipped []RowError
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped = append(skipped, RowError{Line: t.line, Err: err})
				continue
			}
			return nil, nil, fmt.Errorf("read movies: %w", err)
		}

		m, err := parseMovie(t, rec)
		if err == nil {
			err = validation.Struct(&m)
		}
		if err != nil {
			skipped = append(skipped, RowError{Line: t.line, Err: err})
			continue
		}
		movies = append(movies, m)
	}
	return movies, skipped, nil
}

func parseMovie(t *table, rec []string) (domain.NewMovie, error) {
	var m domain.NewMovie
	var err error

	if m.ID, err = strconv.ParseInt(t.get(rec, "id"), 10, 64); err != nil {
		return m, fmt.Errorf("id: %w", err)
	}
	m.Title = t.get(rec, "title")
	m.Genres = t.get(rec, "genres")
	m.Overview = t.get(rec, "overview")
	m.ReleaseDate = t.get(rec, "release_date")
	m.Language = strings.ToLower(t.get(rec, "language"))
	m.PosterPath = t.get(rec, "poster_path")

	if m.Runtime, err = parseOptionalInt(t.get(rec, "runtime")); err != nil {
		return m, fmt.Errorf("runtime: %w", err)
	}
	if m.Popularity, err = parseOptionalFloat(t.get(rec, "popularity")); err != nil {
		return m, fmt.Errorf("popularity: %w", err)
	}
	if m.VoteAverage, err = parseOptionalFloat(t.get(rec, "vote_average")); err != nil {
		return m, fmt.Errorf("vote_average: %w", err)
	}
	voteCount, err := parseOptionalInt(t.get(rec, "vote_count"))
	if err != nil {
		return m, fmt.Errorf("vote_count: %w", err)
	}
	m.VoteCount = int64(voteCount)
	return m, nil
}

// ParseRatings reads a ratings CSV with user, movie and rating columns and an
// optional timestamp (unix seconds or a date-time). Missing timestamps become now.
func ParseRatings(r io.Reader, now time.Time) ([]domain.ImportedRating, []RowError, error) {
	t, err := openTable(r, ratingColumns, "user_id", "movie_id", "rating")
	if err != nil {
		return nil, nil, err
	}

	var ratings []domain.ImportedRating
	var skipped []RowError
	for {
		rec, err := t.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped = append(skipped, RowError{Line: t.line, Err: err})
				continue
			}
			return nil, nil, fmt.Errorf("read ratings: %w", err)
		}

		rt, err := parseRating(t, rec, now)
		if err != nil {
			skipped = append(skipped, RowError{Line: t.line, Err: err})
			continue
		}
		ratings = append(ratings, rt)
	}
	return ratings, skipped, nil
}

func parseRating(t *table, rec []string, now time.Time) (domain.ImportedRating, error) {
	var rt domain.ImportedRating
	var err error

	if rt.UserID, err = strconv.ParseInt(t.get(rec, "user_id"), 10, 64); err != nil || rt.UserID <= 0 {
		return rt, fmt.Errorf("invalid user id %q", t.get(rec, "user_id"))
	}
	if rt.MovieID, err = strconv.ParseInt(t.get(rec, "movie_id"), 10, 64); err != nil || rt.MovieID <= 0 {
		return rt, fmt.Errorf("invalid movie id %q", t.get(rec, "movie_id"))
	}
	rt.Value, err = strconv.ParseFloat(t.get(rec, "rating"), 64)
	if err != nil || math.IsNaN(rt.Value) {
		return rt, fmt.Errorf("invalid rating %q", t.get(rec, "rating"))
	}
	if rt.Value < domain.MinRating || rt.Value > domain.MaxRating {
		return rt, fmt.Errorf("rating %.1f outside [%.1f, %.1f]", rt.Value, domain.MinRating, domain.MaxRating)
	}

	rt.RatedAt, err = parseTimestamp(t.get(rec, "timestamp"), now)
	if err != nil {
		return rt, err
	}
	return rt, nil
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func parseOptionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	// Exports often write integers as floats ("120.0").
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func parseOptionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
