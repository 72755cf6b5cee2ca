package parsers

import (
	"fmt"
	"regexp"

	"github.com/ethanolivertroy/version-checker/internal/models"
	"golang.org/x/mod/module"
)

var (
	pypiNamePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)
	npmNamePattern  = regexp.MustCompile(`^(@[a-z0-9][a-z0-9._~-]*/)?[a-z0-9][a-z0-9._~-]*$`)
)

// ValidateName checks that name is a valid package identifier for the ecosystem
func ValidateName(eco models.Ecosystem, name string) error {
	switch eco {
	case models.EcosystemNpm:
		if len(name) > 214 || !npmNamePattern.MatchString(name) {
			return fmt.Errorf("invalid npm package name %q", name)
		}
	case models.EcosystemGo:
		if err := module.CheckPath(name); err != nil {
			return fmt.Errorf("invalid Go module path %q: %w", name, err)
		}
	default:
		if !pypiNamePattern.MatchString(name) {
			return fmt.Errorf("invalid package name %q", name)
		}
	}
	return nil
}
