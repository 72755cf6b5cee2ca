package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethanolivertroy/version-checker/internal/cache"
	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
	"github.com/ethanolivertroy/version-checker/internal/logging"
	"go.uber.org/zap"
)

const userAgent = "version-checker (+https://github.com/ethanolivertroy/version-checker)"

// maxBodySize bounds index responses; PyPI JSON for large projects runs to a few MB
const maxBodySize = 32 << 20

// fetcher performs cached JSON GETs against a package index
type fetcher struct {
	httpClient *http.Client
	cache      *cache.Cache
}

func newFetcher(timeout time.Duration, c *cache.Cache) fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return fetcher{
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
	}
}

// getJSON fetches url and decodes the body into v.
// 404 and 410 are reported as errors.ErrPackageNotFound.
func (f *fetcher) getJSON(ctx context.Context, url string, v interface{}) error {
	log := logging.L().With(zap.String("url", url))

	// Check cache first
	if f.cache != nil {
		if data, ok := f.cache.Get(url); ok {
			if err := json.Unmarshal(data, v); err == nil {
				log.Debug("index response from cache", zap.Bool("cache_hit", true))
				return nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	log.Debug("querying index", zap.Bool("cache_hit", false))
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("index unreachable: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("index responded", zap.Int("status", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return checkerrors.ErrPackageNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse index response: %w", err)
	}

	// Cache the response
	if f.cache != nil {
		if err := f.cache.Set(url, data); err != nil {
			log.Debug("failed to cache index response", zap.Error(err))
		}
	}

	return nil
}
