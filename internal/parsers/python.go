package parsers

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
	"github.com/ethanolivertroy/version-checker/internal/logging"
	"github.com/ethanolivertroy/version-checker/internal/models"
	"go.uber.org/zap"
)

// PythonRequirementsParser parses requirements.txt files
type PythonRequirementsParser struct{}

// CanParse returns true for requirements.txt style files
func (p *PythonRequirementsParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".txt") || strings.HasSuffix(filename, ".in")
}

// requirementPattern splits a PEP 508 line into name, extras and the rest
var requirementPattern = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)\s*(\[[^\]]*\])?\s*(.*)$`)

// clausePattern matches one version clause like ==1.2.3, >=1.2, ~=1.4.2
var clausePattern = regexp.MustCompile(`^(===|==|~=|!=|<=|>=|<|>)\s*([A-Za-z0-9][A-Za-z0-9.*+!_-]*)$`)

// A # only starts a comment at line start or after whitespace, so URL fragments survive
var (
	inlineComment = regexp.MustCompile(`(^|\s)#.*$`)
	inlineOption  = regexp.MustCompile(`\s--.*$`)
)

type requirement struct {
	name       string
	pinned     string
	constraint string
}

// Parse extracts package specs from requirements.txt content
func (p *PythonRequirementsParser) Parse(filepath string, content []byte) ([]models.PackageSpec, error) {
	var specs []models.PackageSpec
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")

	for i := 0; i < len(lines); i++ {
		lineNum := i + 1
		line := lines[i]

		// Join backslash continuations
		for strings.HasSuffix(strings.TrimRight(line, " \t"), `\`) && i+1 < len(lines) {
			line = strings.TrimSuffix(strings.TrimRight(line, " \t"), `\`) + " " + lines[i+1]
			i++
		}

		// Remove comments and per-requirement options like --hash
		line = inlineComment.ReplaceAllString(line, "")
		line = strings.TrimSpace(inlineOption.ReplaceAllString(line, ""))

		// Skip empty lines and pip options
		if line == "" || strings.HasPrefix(line, "-") {
			continue
		}

		if isLocation(line) {
			req, ok := locationRequirement(line)
			if !ok {
				logging.L().Debug("skipping requirement without a package name",
					zap.String("file", filepath), zap.Int("line", lineNum), zap.String("location", line))
				continue
			}
			specs = append(specs, models.PackageSpec{
				Name:           req.name,
				CurrentVersion: req.pinned,
				Ecosystem:      models.EcosystemPyPI,
				SourceFile:     filepath,
				Line:           lineNum,
			})
			continue
		}

		req, err := parseRequirement(line)
		if err != nil {
			return nil, &checkerrors.ParseError{File: filepath, Line: lineNum, Msg: err.Error()}
		}

		specs = append(specs, models.PackageSpec{
			Name:           req.name,
			CurrentVersion: req.pinned,
			Constraint:     req.constraint,
			Ecosystem:      models.EcosystemPyPI,
			SourceFile:     filepath,
			Line:           lineNum,
		})
	}

	return specs, nil
}

// isLocation reports whether a requirement line is a bare URL, archive or
// local path rather than a named requirement.
func isLocation(line string) bool {
	field := strings.Fields(line)[0]
	if idx := strings.Index(field, "://"); idx >= 0 {
		// name@https://... is a direct reference, not a location
		return !strings.Contains(field[:idx], "@")
	}
	if strings.HasPrefix(field, "file:") || strings.ContainsAny(field, `/\`) {
		return true
	}
	for _, ext := range []string{".whl", ".tar.gz", ".tgz", ".zip"} {
		if strings.HasSuffix(field, ext) {
			return true
		}
	}
	return field == "." || field == ".."
}

// locationRequirement recovers the package name from an #egg= fragment or a
// wheel filename. Wheel filenames also carry the version.
func locationRequirement(line string) (requirement, bool) {
	field := strings.Fields(line)[0]

	location, fragment, _ := strings.Cut(field, "#")
	for _, part := range strings.Split(fragment, "&") {
		if name, ok := strings.CutPrefix(part, "egg="); ok && pypiNamePattern.MatchString(name) {
			return requirement{name: strings.ToLower(name)}, true
		}
	}

	location, _, _ = strings.Cut(location, "?")
	base := path.Base(strings.ReplaceAll(location, `\`, "/"))
	if !strings.HasSuffix(base, ".whl") {
		return requirement{}, false
	}
	// {name}-{version}(-{build})?-{python}-{abi}-{platform}.whl
	parts := strings.Split(strings.TrimSuffix(base, ".whl"), "-")
	if len(parts) < 5 || !pypiNamePattern.MatchString(parts[0]) {
		return requirement{}, false
	}
	return requirement{
		name:   strings.ToLower(strings.ReplaceAll(parts[0], "_", "-")),
		pinned: parts[1],
	}, true
}

// parseRequirement parses a single PEP 508 requirement.
// Only an exact pin (== or ===) yields a pinned version.
func parseRequirement(line string) (requirement, error) {
	// Remove environment markers
	if idx := strings.Index(line, ";"); idx > 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)

	matches := requirementPattern.FindStringSubmatch(line)
	if matches == nil {
		return requirement{}, fmt.Errorf("invalid requirement %q", line)
	}

	req := requirement{name: strings.ToLower(matches[1])} // PyPI is case-insensitive
	rest := strings.TrimSpace(matches[3])

	switch {
	case rest == "":
		return req, nil
	case strings.HasPrefix(rest, "@"):
		// Direct reference: name @ https://...
		if strings.TrimSpace(rest[1:]) == "" {
			return requirement{}, fmt.Errorf("missing URL in %q", line)
		}
		return req, nil
	case strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")"):
		rest = strings.TrimSpace(rest[1 : len(rest)-1])
	}

	var clauses []string
	for _, clause := range strings.Split(rest, ",") {
		clause = strings.TrimSpace(clause)
		m := clausePattern.FindStringSubmatch(clause)
		if m == nil {
			return requirement{}, fmt.Errorf("invalid version specifier %q in %q", clause, line)
		}
		if (m[1] == "==" || m[1] == "===") && !strings.Contains(m[2], "*") {
			req.pinned = m[2]
		}
		clauses = append(clauses, m[1]+m[2])
	}
	req.constraint = strings.Join(clauses, ",")

	return req, nil
}

// PythonPyProjectParser parses pyproject.toml files
type PythonPyProjectParser struct{}

// CanParse returns true for pyproject.toml files
func (p *PythonPyProjectParser) CanParse(filename string) bool {
	return filename == "pyproject.toml"
}

// pyproject represents the structure of pyproject.toml
type pyproject struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies    map[string]interface{} `toml:"dependencies"`
			DevDependencies map[string]interface{} `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]interface{} `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Parse extracts package specs from pyproject.toml content
func (p *PythonPyProjectParser) Parse(filepath string, content []byte) ([]models.PackageSpec, error) {
	var proj pyproject
	if err := toml.Unmarshal(content, &proj); err != nil {
		return nil, &checkerrors.ParseError{File: filepath, Msg: "invalid TOML", Err: err}
	}

	var specs []models.PackageSpec
	seen := make(map[string]bool)

	add := func(req requirement) {
		if seen[req.name] {
			return
		}
		seen[req.name] = true
		specs = append(specs, models.PackageSpec{
			Name:           req.name,
			CurrentVersion: req.pinned,
			Constraint:     req.constraint,
			Ecosystem:      models.EcosystemPyPI,
			SourceFile:     filepath,
		})
	}

	// PEP 621 dependencies, then optional groups in name order
	pep621 := append([]string{}, proj.Project.Dependencies...)
	for _, group := range sortedKeys(proj.Project.OptionalDependencies) {
		pep621 = append(pep621, proj.Project.OptionalDependencies[group]...)
	}
	for _, dep := range pep621 {
		req, err := parseRequirement(dep)
		if err != nil {
			return nil, &checkerrors.ParseError{File: filepath, Msg: err.Error()}
		}
		add(req)
	}

	// Poetry dependencies
	poetry := []map[string]interface{}{proj.Tool.Poetry.Dependencies, proj.Tool.Poetry.DevDependencies}
	for _, group := range sortedKeys(proj.Tool.Poetry.Group) {
		poetry = append(poetry, proj.Tool.Poetry.Group[group].Dependencies)
	}
	for _, deps := range poetry {
		for _, name := range sortedKeys(deps) {
			if name == "python" {
				continue
			}
			if err := ValidateName(models.EcosystemPyPI, name); err != nil {
				return nil, &checkerrors.ParseError{File: filepath, Msg: err.Error()}
			}
			pinned, constraint := extractPoetryVersion(deps[name])
			add(requirement{name: strings.ToLower(name), pinned: pinned, constraint: constraint})
		}
	}

	return specs, nil
}

// extractPoetryVersion returns the exact version (if the specifier is a bare
// version or ==) and the raw constraint
func extractPoetryVersion(val interface{}) (pinned string, constraint string) {
	switch v := val.(type) {
	case string:
		constraint = strings.TrimSpace(v)
	case map[string]interface{}:
		if ver, ok := v["version"].(string); ok {
			constraint = strings.TrimSpace(ver)
		}
	}

	exact := strings.TrimPrefix(constraint, "==")
	if exact != "" && exact != "*" && !strings.ContainsAny(exact, "^~<>=!*, ") {
		pinned = exact
	}
	return pinned, constraint
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
