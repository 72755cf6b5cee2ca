package clients

import (
	"context"
	"fmt"

	"github.com/ethanolivertroy/version-checker/internal/cache"
	"github.com/ethanolivertroy/version-checker/internal/models"
)

// Index looks up the latest published version of a package.
//
//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=index.go -destination=mock_index.gen.go -package=clients
type Index interface {
	// Latest returns the latest version of name. Failures are *errors.LookupError.
	Latest(ctx context.Context, name string) (models.VersionInfo, error)
}

// ForEcosystem returns the index client for eco configured from cfg.
// c may be nil to disable caching.
func ForEcosystem(eco models.Ecosystem, cfg *models.Config, c *cache.Cache) (Index, error) {
	switch eco {
	case models.EcosystemPyPI:
		return NewPyPIClient(cfg.PyPIURL, cfg.Timeout, c), nil
	case models.EcosystemNpm:
		return NewNPMClient(cfg.NPMURL, cfg.Timeout, c), nil
	case models.EcosystemGo:
		return NewGoProxyClient(cfg.GoProxyURL, cfg.Timeout, c), nil
	}
	return nil, fmt.Errorf("unsupported ecosystem %q", eco)
}
