package models

import "time"

// Config holds configuration for a check run
type Config struct {
	// Input selection
	Package      string    // Single package argument (--package)
	Requirements string    // Requirements file path (--requirements)
	Ecosystem    Ecosystem // Ecosystem for --package

	// Behavior settings
	Update           bool // Install latest versions of outdated packages
	FailOnOutdated   bool // Exit with code 3 if outdated packages remain
	ResolveInstalled bool // Ask the package manager for unpinned versions
	IncludeIndirect  bool // Also check // indirect requirements of a go.mod

	// Output settings
	OutputFormat string // "terminal", "json", "yaml"
	OutputFile   string // Optional output file path
	NoColor      bool

	// Cache settings
	CacheTTL   time.Duration
	NoCache    bool
	ClearCache bool // Remove cached index responses before checking

	// Index settings
	Timeout    time.Duration
	PyPIURL    string
	NPMURL     string
	GoProxyURL string

	// Package manager commands
	PipCommand []string
	NPMCommand []string
	GoCommand  []string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Ecosystem:        EcosystemPyPI,
		ResolveInstalled: true,
		OutputFormat:     "terminal",
		CacheTTL:         time.Hour,
		Timeout:          10 * time.Second,
		PyPIURL:          "https://pypi.org",
		NPMURL:           "https://registry.npmjs.org",
		GoProxyURL:       "https://proxy.golang.org",
		PipCommand:       []string{"python3", "-m", "pip"},
		NPMCommand:       []string{"npm"},
		GoCommand:        []string{"go"},
	}
}
