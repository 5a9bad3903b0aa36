package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/levis-creator/college-system-api/pkg/errors"
)

type memoryCacheRepo struct {
	entries map[string][]byte
	failGet error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if m.failGet != nil {
		return m.failGet
	}
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	// test patterns only use a trailing wildcard
	prefix := pattern
	if n := len(pattern); n > 0 && pattern[n-1] == '*' {
		prefix = pattern[:n-1]
	}
	for key := range m.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(m.entries, key)
		}
	}
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	svc.Set(context.Background(), "departments:list", []string{"COMP", "MATH"})

	var cached []string
	require.True(t, svc.Get(context.Background(), "departments:list", &cached))
	assert.Equal(t, []string{"COMP", "MATH"}, cached)
}

func TestCacheServiceMiss(t *testing.T) {
	svc := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)

	var cached []string
	assert.False(t, svc.Get(context.Background(), "departments:list", &cached))
}

func TestCacheServiceBackendFailureIsAMiss(t *testing.T) {
	repo := newMemoryCacheRepo()
	repo.failGet = errors.New("connection refused")
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	var cached []string
	assert.False(t, svc.Get(context.Background(), "departments:list", &cached))
}

func TestCacheServiceDisabledIsNoOp(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, false)

	svc.Set(context.Background(), "departments:list", []string{"COMP"})
	assert.Empty(t, repo.entries)

	var cached []string
	assert.False(t, svc.Get(context.Background(), "departments:list", &cached))
	assert.False(t, svc.Enabled())
}

func TestCacheServiceInvalidatePattern(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	svc.Set(context.Background(), "departments:list", []string{"COMP"})
	svc.Set(context.Background(), "departments:1", "COMP")
	svc.Set(context.Background(), "courses:list", []string{"CS-201"})

	svc.Invalidate(context.Background(), "departments:*")

	var cached []string
	assert.False(t, svc.Get(context.Background(), "departments:list", &cached))
	require.True(t, svc.Get(context.Background(), "courses:list", &cached))
	assert.Equal(t, []string{"CS-201"}, cached)
}
