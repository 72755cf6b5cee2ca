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

// DefaultNPMURL is the public npm registry
const DefaultNPMURL = "https://registry.npmjs.org"

// NPMClient handles requests to an npm registry
type NPMClient struct {
	baseURL string
	fetcher
}

// NewNPMClient creates a new npm registry client. An empty baseURL selects registry.npmjs.org.
func NewNPMClient(baseURL string, timeout time.Duration, c *cache.Cache) *NPMClient {
	if baseURL == "" {
		baseURL = DefaultNPMURL
	}
	return &NPMClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: newFetcher(timeout, c),
	}
}

type npmLatestResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Latest fetches the version tagged "latest" for an npm package
func (c *NPMClient) Latest(ctx context.Context, name string) (models.VersionInfo, error) {
	if err := parsers.ValidateName(models.EcosystemNpm, name); err != nil {
		return models.VersionInfo{}, &checkerrors.LookupError{Package: name, Err: err}
	}

	// Scoped packages keep the '@' but escape the '/'
	endpoint := fmt.Sprintf("%s/%s/latest", c.baseURL, url.PathEscape(name))

	var resp npmLatestResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return models.VersionInfo{}, &checkerrors.LookupError{Package: name, Err: err}
	}
	if resp.Version == "" {
		return models.VersionInfo{}, &checkerrors.LookupError{Package: name, Err: errors.New("index response has no version")}
	}

	return models.VersionInfo{Name: name, LatestVersion: resp.Version}, nil
}
