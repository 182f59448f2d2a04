package linkcheck

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultCacheSize = 512
	maxRedirects     = 5
	userAgent        = "docsync-linkcheck"
)

// Checker implements domain.LinkChecker with HEAD requests, falling back
// to GET for servers that reject HEAD. Definitive answers are memoized;
// transport errors are not, so a flaky host is retried on the next run.
type Checker struct {
	client *resty.Client
	cache  *lru.Cache[string, bool]
}

// New creates a Checker. Non-positive arguments select the defaults.
func New(timeout time.Duration, cacheSize int) (*Checker, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, bool](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating link cache: %w", err)
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects)).
		SetHeader("User-Agent", userAgent)
	return &Checker{client: client, cache: cache}, nil
}

// Check reports whether url answers with a non-error status. Schemes other
// than http and https are not probed.
func (c *Checker) Check(ctx context.Context, url string) (bool, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return true, nil
	}
	if ok, hit := c.cache.Get(url); hit {
		return ok, nil
	}

	resp, err := c.client.R().SetContext(ctx).Head(url)
	if err == nil && (resp.StatusCode() == http.StatusMethodNotAllowed || resp.StatusCode() == http.StatusNotImplemented) {
		resp, err = c.client.R().SetContext(ctx).Get(url)
	}
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, err
	}

	ok := resp.StatusCode() < http.StatusBadRequest
	c.cache.Add(url, ok)
	return ok, nil
}
