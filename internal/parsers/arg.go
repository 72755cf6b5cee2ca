package parsers

import (
	"strings"

	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
	"github.com/ethanolivertroy/version-checker/internal/models"
)

// ParsePackageArg parses a single --package value.
//
// PyPI accepts a requirement such as "requests" or "requests==2.0.0".
// npm and Go accept "name" or "name@version".
func ParsePackageArg(arg string, eco models.Ecosystem) (models.PackageSpec, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return models.PackageSpec{}, &checkerrors.ParseError{Msg: "empty package name"}
	}

	spec := models.PackageSpec{Ecosystem: eco}

	switch eco {
	case models.EcosystemNpm, models.EcosystemGo:
		name, ver := arg, ""
		// Scoped npm names start with '@', so only a later '@' separates the version
		if idx := strings.LastIndex(arg, "@"); idx > 0 {
			name, ver = arg[:idx], arg[idx+1:]
			if ver == "" {
				return models.PackageSpec{}, &checkerrors.ParseError{Msg: "missing version after '@' in " + arg}
			}
		}
		spec.Name = name
		spec.CurrentVersion = ver
	default:
		req, err := parseRequirement(arg)
		if err != nil {
			return models.PackageSpec{}, &checkerrors.ParseError{Msg: err.Error()}
		}
		spec.Name = req.name
		spec.CurrentVersion = req.pinned
		spec.Constraint = req.constraint
	}

	if err := ValidateName(eco, spec.Name); err != nil {
		return models.PackageSpec{}, &checkerrors.ParseError{Msg: err.Error()}
	}
	return spec, nil
}
