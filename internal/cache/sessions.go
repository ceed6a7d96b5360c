package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultSessionTTL = time.Hour

// SessionStore keeps login sessions in redis. Expiry is the key TTL, fixed at login.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl, now: time.Now}
}

func sessionKey(token string) string {
	return "session:" + token
}

func userSessionsKey(userID int64) string {
	return fmt.Sprintf("session:user:%d", userID)
}

// Create opens a session for user and returns it with a fresh token.
func (s *SessionStore) Create(ctx context.Context, user *domain.User) (*domain.Session, error) {
	now := s.now().UTC()
	sess := &domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		LoginTime: now,
		ExpiresAt: now.Add(s.ttl),
	}
	val, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sess.Token), val, s.ttl)
	pipe.SAdd(ctx, userSessionsKey(user.ID), sess.Token)
	pipe.Expire(ctx, userSessionsKey(user.ID), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

// Get returns domain.ErrUnauthorized for unknown or expired tokens.
func (s *SessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	val, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	sess.Token = token
	return &sess, nil
}

func (s *SessionStore) Destroy(ctx context.Context, sess *domain.Session) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sess.Token))
	pipe.SRem(ctx, userSessionsKey(sess.UserID), sess.Token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// DestroyUser ends every session of a user, e.g. after deactivation or a role change.
func (s *SessionStore) DestroyUser(ctx context.Context, userID int64) error {
	tokens, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list sessions for user %d: %w", userID, err)
	}
	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, sessionKey(t))
	}
	keys = append(keys, userSessionsKey(userID))
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("destroy sessions for user %d: %w", userID, err)
	}
	return nil
}
