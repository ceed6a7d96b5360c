// Package tmdb looks up movie posters on The Movie Database.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://api.themoviedb.org/3"
	ImageBaseURL   = "https://image.tmdb.org/t/p/w500"

	requestTimeout = 10 * time.Second
	retryCount     = 3
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("tmdb unavailable")

// APIError is a non-2xx answer from TMDB.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb: status %d: %s", e.StatusCode, e.Message)
}

type searchResponse struct {
	Results []struct {
		ID          int64   `json:"id"`
		Title       string  `json:"title"`
		ReleaseDate string  `json:"release_date"`
		PosterPath  *string `json:"poster_path"`
		Popularity  float64 `json:"popularity"`
	} `json:"results"`
}

type errorResponse struct {
	StatusMessage string `json:"status_message"`
}

type Client struct {
	http   *resty.Client
	apiKey string
	cb     *gobreaker.CircuitBreaker[string]
	log    *zap.Logger
}

func NewClient(baseURL, apiKey string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "tmdb"))

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(requestTimeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	httpClient.AddRetryCondition(func(resp *resty.Response, err error) bool {
		return err != nil || resp.StatusCode() == 429 || resp.StatusCode() >= 500
	})
	httpClient.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		log.Debug("tmdb response", zap.String("url", resp.Request.URL), zap.Int("status", resp.StatusCode()))
		return nil
	})

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "tmdb-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change", zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	return &Client{http: httpClient, apiKey: apiKey, cb: cb, log: log}
}

// FindPoster searches TMDB for the title, narrowed by the release year when
// known, and returns the poster URL of the first result that has one. "" means no poster was found.
func (c *Client) FindPoster(ctx context.Context, title, releaseDate string) (string, error) {
	url, err := c.cb.Execute(func() (string, error) {
		return c.search(ctx, title, releaseDate)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return url, err
}

func (c *Client) search(ctx context.Context, title, releaseDate string) (string, error) {
	var out searchResponse
	var apiErr errorResponse

	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		SetQueryParam("query", title).
		SetResult(&out).
		SetError(&apiErr)
	if len(releaseDate) >= 4 {
		req.SetQueryParam("year", releaseDate[:4])
	}

	resp, err := req.Get("/search/movie")
	if err != nil {
		return "", fmt.Errorf("tmdb search %q: %w", title, err)
	}
	if resp.IsError() {
		msg := apiErr.StatusMessage
		if msg == "" {
			msg = resp.Status()
		}
		return "", &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}

	for _, r := range out.Results {
		if r.PosterPath != nil && *r.PosterPath != "" {
			return ImageBaseURL + *r.PosterPath, nil
		}
	}
	return "", nil
}
