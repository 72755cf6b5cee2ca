// Package version compares package versions under each ecosystem's ordering rules.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ethanolivertroy/version-checker/internal/models"
	gosemver "golang.org/x/mod/semver"
)

// Compare returns -1, 0 or 1 depending on whether a sorts before, equal to or
// after b in the given ecosystem
func Compare(eco models.Ecosystem, a, b string) (int, error) {
	switch eco {
	case models.EcosystemGo:
		va, vb := canonicalGo(a), canonicalGo(b)
		if !gosemver.IsValid(va) {
			return 0, fmt.Errorf("invalid module version %q", a)
		}
		if !gosemver.IsValid(vb) {
			return 0, fmt.Errorf("invalid module version %q", b)
		}
		return gosemver.Compare(va, vb), nil

	case models.EcosystemNpm:
		va, err := semver.NewVersion(a)
		if err != nil {
			return 0, fmt.Errorf("invalid version %q: %w", a, err)
		}
		vb, err := semver.NewVersion(b)
		if err != nil {
			return 0, fmt.Errorf("invalid version %q: %w", b, err)
		}
		return va.Compare(vb), nil

	default:
		va, err := ParsePEP440(a)
		if err != nil {
			return 0, err
		}
		vb, err := ParsePEP440(b)
		if err != nil {
			return 0, err
		}
		return va.Compare(vb), nil
	}
}

// IsOutdated reports whether latest is newer than current.
// A package with no current version is always outdated.
func IsOutdated(eco models.Ecosystem, current, latest string) (bool, error) {
	if strings.TrimSpace(current) == "" {
		return true, nil
	}
	c, err := Compare(eco, current, latest)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

// CompareResult builds the ComparisonResult for a package
func CompareResult(eco models.Ecosystem, name, current, latest string) (models.ComparisonResult, error) {
	outdated, err := IsOutdated(eco, current, latest)
	if err != nil {
		return models.ComparisonResult{}, err
	}
	return models.ComparisonResult{
		Name:       name,
		Current:    current,
		Latest:     latest,
		IsOutdated: outdated,
	}, nil
}

func canonicalGo(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
