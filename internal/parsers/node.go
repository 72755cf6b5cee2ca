package parsers

import (
	"encoding/json"
	"regexp"
	"strings"

	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
	"github.com/ethanolivertroy/version-checker/internal/models"
	"github.com/iancoleman/orderedmap"
)

// NodePackageJSONParser parses package.json files (direct dependencies only)
type NodePackageJSONParser struct{}

// CanParse returns true for package.json files
func (p *NodePackageJSONParser) CanParse(filename string) bool {
	return filename == "package.json"
}

// dependencyFields are read in this order; a package listed twice keeps its first entry
var dependencyFields = []string{"dependencies", "devDependencies"}

// exactNpmVersion matches a plain version with no range operator
var exactNpmVersion = regexp.MustCompile(`^=?v?\d+\.\d+\.\d+(?:[-+][0-9A-Za-z.-]+)?$`)

// Parse extracts package specs from package.json content, in file order
func (p *NodePackageJSONParser) Parse(filepath string, content []byte) ([]models.PackageSpec, error) {
	pkg := orderedmap.New()
	if err := json.Unmarshal(content, pkg); err != nil {
		return nil, &checkerrors.ParseError{File: filepath, Msg: "invalid JSON", Err: err}
	}

	var specs []models.PackageSpec
	seen := make(map[string]bool)

	for _, field := range dependencyFields {
		raw, ok := pkg.Get(field)
		if !ok {
			continue
		}
		deps, ok := asOrderedMap(raw)
		if !ok {
			return nil, &checkerrors.ParseError{File: filepath, Msg: field + " is not an object"}
		}

		for _, name := range deps.Keys() {
			val, _ := deps.Get(name)
			version, ok := val.(string)
			if !ok {
				return nil, &checkerrors.ParseError{File: filepath, Msg: "version of " + name + " is not a string"}
			}
			version = strings.TrimSpace(version)
			if seen[name] || !isRegistrySpec(version) {
				continue
			}
			seen[name] = true

			spec := models.PackageSpec{
				Name:       name,
				Constraint: version,
				Ecosystem:  models.EcosystemNpm,
				SourceFile: filepath,
			}
			if exactNpmVersion.MatchString(version) {
				spec.CurrentVersion = strings.TrimPrefix(strings.TrimPrefix(version, "="), "v")
			}
			specs = append(specs, spec)
		}
	}

	return specs, nil
}

// asOrderedMap accepts the shapes orderedmap produces for nested objects
func asOrderedMap(v interface{}) (*orderedmap.OrderedMap, bool) {
	switch m := v.(type) {
	case orderedmap.OrderedMap:
		return &m, true
	case *orderedmap.OrderedMap:
		return m, true
	case map[string]interface{}:
		converted := orderedmap.New()
		for _, k := range sortedKeys(m) {
			converted.Set(k, m[k])
		}
		return converted, true
	}
	return nil, false
}

// isRegistrySpec returns false for dependencies that are not fetched from the
// registry (git, file, link, workspace and alias specifiers)
func isRegistrySpec(version string) bool {
	for _, prefix := range []string{"git", "file:", "link:", "workspace:", "npm:", "http:", "https:", "github:"} {
		if strings.HasPrefix(version, prefix) {
			return false
		}
	}
	// user/repo shorthand
	return !strings.Contains(version, "/")
}
