package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/recommend"
)

// fakeStore implements the parts of Store the tests touch; anything else panics
// through the nil embedded interface.
type fakeStore struct {
	Store

	mu        sync.Mutex
	users     map[int64]*domain.User
	movies    map[int64]*domain.Movie
	ratings   map[[2]int64]float64
	nextID    int64
	err       error
	inserted  []domain.ImportedRating
	posters   map[int64]string
	noPosters []domain.Movie
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[int64]*domain.User),
		movies:  make(map[int64]*domain.Movie),
		ratings: make(map[[2]int64]float64),
		posters: make(map[int64]string),
		nextID:  1,
	}
}

func (f *fakeStore) addUser(email string, role domain.Role, active bool) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &domain.User{ID: f.nextID, Email: email, Name: "Test User", Role: role, IsActive: active}
	f.nextID++
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) addMovie(id int64, active bool) {
	f.movies[id] = &domain.Movie{ID: id, Title: fmt.Sprintf("Movie %d", id), IsActive: active}
}

func (f *fakeStore) CreateUser(ctx context.Context, email, name, passwordHash string, role domain.Role) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return nil, domain.ErrEmailTaken
		}
	}
	u := &domain.User{ID: f.nextID, Email: email, Name: name, PasswordHash: passwordHash, Role: role, IsActive: true}
	f.nextID++
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeStore) SetUserRole(ctx context.Context, userID int64, role domain.Role) error {
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeStore) SetUserActive(ctx context.Context, userID int64, active bool) error {
	u, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (f *fakeStore) GetUserIDsPaginated(ctx context.Context, page, limit int) ([]int64, error) {
	var ids []int64
	for id := int64(1); id < f.nextID; id++ {
		if u, ok := f.users[id]; ok && u.IsActive {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) CountUsers(ctx context.Context) (int, error) {
	return len(f.users), nil
}

func (f *fakeStore) GetMovieByID(ctx context.Context, movieID int64) (*domain.Movie, error) {
	m, ok := f.movies[movieID]
	if !ok {
		return nil, domain.ErrMovieNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeStore) UpsertRating(ctx context.Context, userID, movieID int64, value float64) (*domain.Rating, error) {
	f.ratings[[2]int64{userID, movieID}] = value
	return &domain.Rating{UserID: userID, MovieID: movieID, Value: value, RatedAt: time.Now()}, nil
}

func (f *fakeStore) InsertRatings(ctx context.Context, ratings []domain.ImportedRating) (int, error) {
	f.inserted = append(f.inserted, ratings...)
	return len(ratings), nil
}

func (f *fakeStore) MoviesMissingPosters(ctx context.Context, limit int) ([]domain.Movie, error) {
	return f.noPosters, nil
}

func (f *fakeStore) UpdatePoster(ctx context.Context, movieID int64, posterURL string) error {
	f.posters[movieID] = posterURL
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*domain.RecommendationResult
	cleared []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.RecommendationResult)}
}

func cacheKey(userID int64, k int, genre string) string {
	return fmt.Sprintf("%d/%d/%s", userID, k, genre)
}

func (c *fakeCache) Get(ctx context.Context, userID int64, k int, genre string) (*domain.RecommendationResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	res, ok := c.entries[cacheKey(userID, k, genre)]
	if !ok {
		return nil, nil
	}
	hit := *res
	hit.CacheHit = true
	return &hit, nil
}

func (c *fakeCache) Set(ctx context.Context, userID int64, k int, genre string, res *domain.RecommendationResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(userID, k, genre)] = res
	return nil
}

func (c *fakeCache) ClearUserCache(ctx context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared = append(c.cleared, userID)
	return nil
}

type fakeSessions struct {
	byToken   map[string]*domain.Session
	destroyed []int64
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byToken: make(map[string]*domain.Session)}
}

func (s *fakeSessions) Create(ctx context.Context, user *domain.User) (*domain.Session, error) {
	sess := &domain.Session{
		Token:     fmt.Sprintf("token-%d", user.ID),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		LoginTime: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	s.byToken[sess.Token] = sess
	return sess, nil
}

func (s *fakeSessions) Get(ctx context.Context, token string) (*domain.Session, error) {
	sess, ok := s.byToken[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return sess, nil
}

func (s *fakeSessions) Destroy(ctx context.Context, sess *domain.Session) error {
	delete(s.byToken, sess.Token)
	return nil
}

func (s *fakeSessions) DestroyUser(ctx context.Context, userID int64) error {
	s.destroyed = append(s.destroyed, userID)
	for token, sess := range s.byToken {
		if sess.UserID == userID {
			delete(s.byToken, token)
		}
	}
	return nil
}

// fakeEngine returns one movie per call and counts calls per operation.
type fakeEngine struct {
	mu    sync.Mutex
	calls map[string]int
	fail  map[int64]error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{calls: make(map[string]int), fail: make(map[int64]error)}
}

func (e *fakeEngine) result(op string, id int64, src domain.RecommendationSource) (recommend.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls[op]++
	if err := e.fail[id]; err != nil {
		return recommend.Result{}, err
	}
	return recommend.Result{
		Movies: []domain.RankedMovie{{Movie: domain.Movie{ID: 100 + id}, Score: 1}},
		Source: src,
	}, nil
}

func (e *fakeEngine) RecommendForUser(ctx context.Context, userID int64, k int) (recommend.Result, error) {
	return e.result("for_user", userID, domain.SourcePersonalized)
}

func (e *fakeEngine) RecommendByGenre(ctx context.Context, userID int64, genre string, k int) (recommend.Result, error) {
	return e.result("by_genre", userID, domain.SourcePersonalized)
}

func (e *fakeEngine) SimilarMovies(ctx context.Context, movieID int64, k int) (recommend.Result, error) {
	return e.result("similar", movieID, domain.SourceSimilarity)
}

func (e *fakeEngine) PopularMovies(ctx context.Context, k int, genre string) (recommend.Result, error) {
	return e.result("popular", 0, domain.SourcePopularity)
}

func (e *fakeEngine) TrendingMovies(ctx context.Context, k int) (recommend.Result, error) {
	return e.result("trending", 0, domain.SourceTrending)
}

type fakePosters struct {
	urls map[string]string
	err  map[string]error
}

func (p fakePosters) FindPoster(ctx context.Context, title, releaseDate string) (string, error) {
	if err := p.err[title]; err != nil {
		return "", err
	}
	return p.urls[title], nil
}

type fixture struct {
	store    *fakeStore
	cache    *fakeCache
	sessions *fakeSessions
	engine   *fakeEngine
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		store:    newFakeStore(),
		cache:    newFakeCache(),
		sessions: newFakeSessions(),
		engine:   newFakeEngine(),
	}
	f.svc = NewService(Deps{
		Store:    f.store,
		Cache:    f.cache,
		Sessions: f.sessions,
		Engine:   f.engine,
	})
	return f
}
