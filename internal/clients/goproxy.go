package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethanolivertroy/version-checker/internal/cache"
	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
	"github.com/ethanolivertroy/version-checker/internal/models"
	"golang.org/x/mod/module"
)

// DefaultGoProxyURL is the public Go module proxy
const DefaultGoProxyURL = "https://proxy.golang.org"

// GoProxyClient handles requests to a GOPROXY protocol server
type GoProxyClient struct {
	baseURL string
	fetcher
}

// NewGoProxyClient creates a new module proxy client. An empty baseURL selects proxy.golang.org.
func NewGoProxyClient(baseURL string, timeout time.Duration, c *cache.Cache) *GoProxyClient {
	if baseURL == "" {
		baseURL = DefaultGoProxyURL
	}
	return &GoProxyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: newFetcher(timeout, c),
	}
}

type goProxyInfo struct {
	Version string    `json:"Version"`
	Time    time.Time `json:"Time"`
}

// Latest fetches the proxy's @latest version for a module path
func (c *GoProxyClient) Latest(ctx context.Context, name string) (models.VersionInfo, error) {
	escaped, err := module.EscapePath(name)
	if err != nil {
		return models.VersionInfo{}, &checkerrors.LookupError{Package: name, Err: err}
	}

	endpoint := fmt.Sprintf("%s/%s/@latest", c.baseURL, escaped)

	var info goProxyInfo
	if err := c.getJSON(ctx, endpoint, &info); err != nil {
		return models.VersionInfo{}, &checkerrors.LookupError{Package: name, Err: err}
	}
	if info.Version == "" {
		return models.VersionInfo{}, &checkerrors.LookupError{Package: name, Err: errors.New("index response has no version")}
	}

	return models.VersionInfo{Name: name, LatestVersion: info.Version}, nil
}
