package model

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleArtifact = `{
	"movie_ids": [1, 2, 3],
	"scores": [
		[1.0, 0.8, null],
		[0.8, 1.0, -0.2],
		[null, -0.2, 1.0]
	]
}`

func writeArtifact(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "item_similarity.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDecodeAndNeighbors(t *testing.T) {
	sim, err := Decode([]byte(sampleArtifact))
	require.NoError(t, err)

	assert.Equal(t, 3, sim.Len())
	assert.True(t, sim.Contains(2))
	assert.False(t, sim.Contains(99))

	// Missing entries are skipped, not reported as zero.
	assert.Equal(t, []Neighbor{{MovieID: 1, Score: 1.0}, {MovieID: 2, Score: 0.8}}, sim.Neighbors(1))
	assert.Len(t, sim.Neighbors(2), 3)
	assert.Nil(t, sim.Neighbors(99))
}

func TestDecodeRejectsMalformedShapes(t *testing.T) {
	cases := map[string]string{
		"not json":     `{"movie_ids": [1`,
		"ragged row":   `{"movie_ids": [1, 2], "scores": [[1.0, 0.5], [0.5]]}`,
		"row count":    `{"movie_ids": [1, 2], "scores": [[1.0, 0.5]]}`,
		"duplicate id": `{"movie_ids": [1, 1], "scores": [[1, 1], [1, 1]]}`,
		"non-positive": `{"movie_ids": [0], "scores": [[1]]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestEncodeRoundTripKeepsMissing(t *testing.T) {
	sim, err := NewSimilarity([]int64{7, 8}, [][]float64{{1, math.NaN()}, {0.25, 1}})
	require.NoError(t, err)

	data, err := sim.Encode()
	require.NoError(t, err)

	back, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []Neighbor{{MovieID: 7, Score: 1}}, back.Neighbors(7))
	assert.Equal(t, []Neighbor{{MovieID: 7, Score: 0.25}, {MovieID: 8, Score: 1}}, back.Neighbors(8))
}

func TestLoaderCachesHandle(t *testing.T) {
	path := writeArtifact(t, sampleArtifact)
	loader := NewLoader(path)

	first, err := loader.Load(context.Background())
	require.NoError(t, err)

	// The file is gone but the cached handle is still served.
	require.NoError(t, os.Remove(path))
	second, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoaderConcurrentFirstCallersShareHandle(t *testing.T) {
	loader := NewLoader(writeArtifact(t, sampleArtifact))

	const callers = 16
	handles := make([]*Similarity, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sim, err := loader.Load(context.Background())
			if err == nil {
				handles[i] = sim
			}
		}()
	}
	wg.Wait()

	for i := range callers {
		require.NotNil(t, handles[i])
		assert.Same(t, handles[0], handles[i])
	}
}

func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "missing.json"))

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrModelUnavailable))
	assert.True(t, IsModelUnavailable(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoaderCorruptFileRetries(t *testing.T) {
	path := writeArtifact(t, "garbage")
	loader := NewLoader(path)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loader.now = func() time.Time { return clock }

	_, err := loader.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrModelUnavailable)

	// Within the backoff window the failure is returned without touching disk.
	require.NoError(t, os.WriteFile(path, []byte(sampleArtifact), 0o600))
	_, err = loader.Load(context.Background())
	require.ErrorIs(t, err, domain.ErrModelUnavailable)

	clock = clock.Add(DefaultRetryAfter)
	sim, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, sim.Contains(3))
}

func TestLoaderBackoffDisabled(t *testing.T) {
	path := writeArtifact(t, "garbage")
	loader := NewLoader(path)
	loader.RetryAfter = 0

	_, err := loader.Load(context.Background())
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(sampleArtifact), 0o600))
	sim, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sim.Len())
}

func TestIsModelUnavailable(t *testing.T) {
	assert.False(t, IsModelUnavailable(fmt.Errorf("random error")))
	wrapped := fmt.Errorf("recommend: %w", &ModelUnavailableError{Path: "x", Err: os.ErrNotExist})
	assert.True(t, IsModelUnavailable(wrapped))
}
