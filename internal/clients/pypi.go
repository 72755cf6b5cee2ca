package clients

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ethanolivertroy/version-checker/internal/cache"
	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
	"github.com/ethanolivertroy/version-checker/internal/models"
	"github.com/ethanolivertroy/version-checker/internal/parsers"
)

// DefaultPyPIURL is the public Python Package Index
const DefaultPyPIURL = "https://pypi.org"

// PyPIClient handles requests to the PyPI JSON API
type PyPIClient struct {
	baseURL string
	fetcher
}

// NewPyPIClient creates a new PyPI client. An empty baseURL selects pypi.org.
func NewPyPIClient(baseURL string, timeout time.Duration, c *cache.Cache) *PyPIClient {
	if baseURL == "" {
		baseURL = DefaultPyPIURL
	}
	return &PyPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: newFetcher(timeout, c),
	}
}

// pypiResponse is the subset of /pypi/<name>/json we use
type pypiResponse struct {
	Info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"info"`
}

// Latest fetches the latest released version of a PyPI project
func (c *PyPIClient) Latest(ctx context.Context, name string) (models.VersionInfo, error) {
	if err := parsers.ValidateName(models.EcosystemPyPI, name); err != nil {
		return models.VersionInfo{}, &checkerrors.LookupError{Package: name, Err: err}
	}

	endpoint := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, url.PathEscape(name))

	var resp pypiResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return models.VersionInfo{}, &checkerrors.LookupError{Package: name, Err: err}
	}
	if resp.Info.Version == "" {
		return models.VersionInfo{}, &checkerrors.LookupError{Package: name, Err: errors.New("index response has no version")}
	}

	return models.VersionInfo{Name: name, LatestVersion: resp.Info.Version}, nil
}
