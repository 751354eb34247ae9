package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hdang/siteadmin/internal/store"
	"github.com/hdang/siteadmin/params"
)

var ErrContentNotFound = errors.New("content not found")

// ContentService proxies published content from the upstream CMS with a
// cache-aside expiring cache. The upstream is an external collaborator; only
// its JSON response body passes through here.
type ContentService struct {
	upstreamURL string
	client      *http.Client
	cache       store.Storage // nil disables caching
	ttl         time.Duration
}

func (s *ContentService) fetchUpstream(ctx context.Context, slug string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s", s.upstreamURL, url.PathEscape(slug))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrContentNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, params.ServerBodyLimit))
}

// Get returns the JSON document for slug, serving from cache when fresh.
func (s *ContentService) Get(ctx context.Context, slug string) ([]byte, error) {
	if s.cache != nil {
		var cached []byte
		if err := s.cache.Get(ctx, slug, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			slog.Error("Content cache read failed", "slug", slug, "error", err)
		}
	}

	body, err := s.fetchUpstream(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, slug, body, s.ttl); err != nil {
			slog.Error("Content cache write failed", "slug", slug, "error", err)
		}
	}
	return body, nil
}

func NewContentService(upstreamURL string, cache store.Storage) *ContentService {
	if cache != nil {
		cache = store.StorageWithPrefix(cache, params.ContentCacheKeyPrefix)
	}
	return &ContentService{
		upstreamURL: upstreamURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		cache:       cache,
		ttl:         params.ContentCacheTTL,
	}
}
