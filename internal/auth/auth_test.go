package auth

import (
	"context"
	"testing"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("Engine#1843")
	require.NoError(t, err)
	assert.NotEqual(t, "Engine#1843", hash)

	ok, err := VerifyPassword(hash, "Engine#1843")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "engine#1843")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("Same#Pass1")
	require.NoError(t, err)
	b, err := HashPassword("Same#Pass1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-bcrypt-hash", "whatever")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFrom(context.Background())
	assert.False(t, ok)

	s := &domain.Session{UserID: 7, Role: domain.RoleAdmin}
	got, ok := SessionFrom(WithSession(context.Background(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}
