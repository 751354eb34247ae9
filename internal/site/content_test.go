package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hdang/siteadmin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	values map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{values: make(map[string][]byte)}
}

func (s *memStorage) Get(ctx context.Context, key string, val any) error {
	data, ok := s.values[key]
	if !ok {
		return store.ErrNotFound
	}
	*(val.(*[]byte)) = data
	return nil
}

func (s *memStorage) Set(ctx context.Context, key string, val any, expiresIn time.Duration) error {
	s.values[key] = val.([]byte)
	return nil
}

func (s *memStorage) Delete(ctx context.Context, key string) error {
	delete(s.values, key)
	return nil
}

func newUpstream(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if r.URL.Path != "/about" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"slug":"about","title":"About Us"}`))
	}))
}

func TestContentGetCachesUpstreamResponse(t *testing.T) {
	var hits int
	upstream := newUpstream(t, &hits)
	defer upstream.Close()

	svc := NewContentService(upstream.URL, newMemStorage())

	body, err := svc.Get(context.Background(), "about")
	require.NoError(t, err)
	assert.JSONEq(t, `{"slug":"about","title":"About Us"}`, string(body))
	assert.Equal(t, 1, hits)

	// Second read is served from cache.
	body, err = svc.Get(context.Background(), "about")
	require.NoError(t, err)
	assert.JSONEq(t, `{"slug":"about","title":"About Us"}`, string(body))
	assert.Equal(t, 1, hits)
}

func TestContentGetWithoutCache(t *testing.T) {
	var hits int
	upstream := newUpstream(t, &hits)
	defer upstream.Close()

	svc := NewContentService(upstream.URL, nil)

	_, err := svc.Get(context.Background(), "about")
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), "about")
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestContentGetNotFound(t *testing.T) {
	var hits int
	upstream := newUpstream(t, &hits)
	defer upstream.Close()

	svc := NewContentService(upstream.URL, newMemStorage())

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestContentGetUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	svc := NewContentService(upstream.URL, nil)

	_, err := svc.Get(context.Background(), "about")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrContentNotFound)
}
