package comicpdf

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
)

// maxImageBytes caps a single panel download.
const maxImageBytes = 8 << 20

// Fetcher downloads a panel image.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches images over HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxImageBytes {
		return nil, fmt.Errorf("fetch image: larger than %d bytes", maxImageBytes)
	}
	return b, nil
}

// CachingFetcher remembers downloads by URL. Provider image URLs are
// short-lived, so repeated exports of one comic must not refetch them.
type CachingFetcher struct {
	next  Fetcher
	cache *cache.Cache
}

// NewCachingFetcher wraps next with a cache whose entries live for ttl.
func NewCachingFetcher(next Fetcher, ttl time.Duration) *CachingFetcher {
	return &CachingFetcher{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (f *CachingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if v, ok := f.cache.Get(url); ok {
		return v.([]byte), nil
	}
	b, err := f.next.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	f.cache.SetDefault(url, b)
	return b, nil
}
