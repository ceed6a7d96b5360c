package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/metrics"
	"github.com/goccy/go-json"
)

// ModelUnavailableError reports why the similarity artifact could not be loaded.
// It matches domain.ErrModelUnavailable under errors.Is.
type ModelUnavailableError struct {
	Path string
	Err  error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("similarity model %s unavailable: %v", e.Path, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

func (e *ModelUnavailableError) Is(target error) bool {
	return target == domain.ErrModelUnavailable
}

func IsModelUnavailable(err error) bool {
	var target *ModelUnavailableError
	return errors.As(err, &target)
}

type Neighbor struct {
	MovieID int64
	Score   float64
}

// Similarity is an immutable item-item similarity matrix. Missing entries are
// stored as NaN and never returned. Safe for concurrent use.
type Similarity struct {
	ids   []int64
	index map[int64]int
	rows  [][]float64
}

// artifact is the on-disk shape: scores[i][j] = sim(movie_ids[i], movie_ids[j]), null = missing.
type artifact struct {
	MovieIDs []int64      `json:"movie_ids"`
	Scores   [][]*float64 `json:"scores"`
}

// NewSimilarity builds a matrix from ids and rows. Use math.NaN() for missing values.
func NewSimilarity(ids []int64, rows [][]float64) (*Similarity, error) {
	if len(rows) != len(ids) {
		return nil, fmt.Errorf("matrix has %d rows for %d ids", len(rows), len(ids))
	}
	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("invalid movie id %d at row %d", id, i)
		}
		if _, dup := index[id]; dup {
			return nil, fmt.Errorf("duplicate movie id %d", id)
		}
		if len(rows[i]) != len(ids) {
			return nil, fmt.Errorf("row %d has %d columns, want %d", i, len(rows[i]), len(ids))
		}
		index[id] = i
	}
	return &Similarity{ids: ids, index: index, rows: rows}, nil
}

// Decode parses a JSON similarity artifact.
func Decode(data []byte) (*Similarity, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	rows := make([][]float64, len(a.Scores))
	for i, in := range a.Scores {
		row := make([]float64, len(in))
		for j, v := range in {
			if v == nil {
				row[j] = math.NaN()
				continue
			}
			row[j] = *v
		}
		rows[i] = row
	}
	return NewSimilarity(a.MovieIDs, rows)
}

// Encode serializes s in the artifact format accepted by Decode.
func (s *Similarity) Encode() ([]byte, error) {
	a := artifact{MovieIDs: s.ids, Scores: make([][]*float64, len(s.rows))}
	for i, row := range s.rows {
		out := make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				out[j] = &row[j]
			}
		}
		a.Scores[i] = out
	}
	return json.Marshal(a)
}

func (s *Similarity) Contains(movieID int64) bool {
	_, ok := s.index[movieID]
	return ok
}

// Neighbors returns every defined entry of movieID's row, in artifact column order.
// The diagonal is included when present.
func (s *Similarity) Neighbors(movieID int64) []Neighbor {
	i, ok := s.index[movieID]
	if !ok {
		return nil
	}
	row := s.rows[i]
	out := make([]Neighbor, 0, len(row))
	for j, v := range row {
		if math.IsNaN(v) {
			continue
		}
		out = append(out, Neighbor{MovieID: s.ids[j], Score: v})
	}
	return out
}

// Len is the number of movies indexed by the matrix.
func (s *Similarity) Len() int { return len(s.ids) }

// DefaultRetryAfter is how long a Loader keeps returning a failed load
// before it reads the artifact again.
const DefaultRetryAfter = 30 * time.Second

// Loader reads the artifact at Path once and hands out the same *Similarity
// afterwards. Concurrent first callers wait for the single in-flight load.
// A failed load is returned as-is until RetryAfter has passed.
type Loader struct {
	Path       string
	RetryAfter time.Duration

	mu       sync.Mutex
	sim      *Similarity
	lastErr  error
	failedAt time.Time
	now      func() time.Time
}

func NewLoader(path string) *Loader {
	return &Loader{Path: path, RetryAfter: DefaultRetryAfter, now: time.Now}
}

func (l *Loader) Load(ctx context.Context) (*Similarity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sim != nil {
		return l.sim, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.lastErr != nil && l.clock().Sub(l.failedAt) < l.RetryAfter {
		return nil, l.lastErr
	}

	sim, err := l.read()
	if err != nil {
		l.lastErr, l.failedAt = err, l.clock()
		return nil, err
	}
	l.lastErr = nil
	l.sim = sim
	metrics.SimilarityModelLoaded.Set(float64(sim.Len()))
	return sim, nil
}

func (l *Loader) read() (*Similarity, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, &ModelUnavailableError{Path: l.Path, Err: err}
	}
	sim, err := Decode(data)
	if err != nil {
		return nil, &ModelUnavailableError{Path: l.Path, Err: err}
	}
	return sim, nil
}

func (l *Loader) clock() time.Time {
	if l.now == nil {
		return time.Now()
	}
	return l.now()
}
