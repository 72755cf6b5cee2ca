package models

import "strings"

// Ecosystem represents a package ecosystem
type Ecosystem string

const (
	EcosystemPyPI Ecosystem = "PyPI"
	EcosystemNpm  Ecosystem = "npm"
	EcosystemGo   Ecosystem = "Go"
)

// ParseEcosystem maps a user-supplied ecosystem name to an Ecosystem.
// The empty string selects PyPI.
func ParseEcosystem(s string) (Ecosystem, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pypi", "python", "pip":
		return EcosystemPyPI, true
	case "npm", "node":
		return EcosystemNpm, true
	case "go", "golang", "gomod":
		return EcosystemGo, true
	}
	return "", false
}

// PackageSpec is one package to check, as read from the input
type PackageSpec struct {
	Name           string
	CurrentVersion string // Pinned or installed version; empty when unknown
	Constraint     string // Raw version specifier from the input, e.g. ">=2.0"
	Ecosystem      Ecosystem
	SourceFile     string // File where this package was listed (empty for --package)
	Line           int    // Line number in source file (if available)
}

// HasCurrent reports whether a current version is known
func (p PackageSpec) HasCurrent() bool {
	return p.CurrentVersion != ""
}

// String returns a human-readable representation
func (p PackageSpec) String() string {
	if p.CurrentVersion == "" {
		return p.Name
	}
	return p.Name + "@" + p.CurrentVersion
}

// VersionInfo is the latest published version of a package
type VersionInfo struct {
	Name          string
	LatestVersion string
}
