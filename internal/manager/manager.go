// Package manager drives the package managers that report installed versions
// and install upgrades.
package manager

import (
	"context"
	"fmt"

	"github.com/ethanolivertroy/version-checker/internal/models"
)

// Manager reports installed versions and installs packages.
//
//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=manager.go -destination=mock_manager.gen.go -package=manager
type Manager interface {
	// Installed returns the installed version of name; ok is false if it is not installed.
	Installed(ctx context.Context, name string) (version string, ok bool, err error)

	// Install installs name at exactly version.
	Install(ctx context.Context, name, version string) error
}

// ForEcosystem returns the package manager for eco configured from cfg.
// dir is the working directory for commands (the go.mod directory for Go).
func ForEcosystem(eco models.Ecosystem, cfg *models.Config, dir string, run Runner) (Manager, error) {
	if run == nil {
		run = ExecRunner
	}
	switch eco {
	case models.EcosystemPyPI:
		return &Pip{Command: cfg.PipCommand, Dir: dir, Run: run}, nil
	case models.EcosystemNpm:
		return &NPM{Command: cfg.NPMCommand, Dir: dir, Run: run}, nil
	case models.EcosystemGo:
		return &GoMod{Command: cfg.GoCommand, Dir: dir, Run: run}, nil
	}
	return nil, fmt.Errorf("unsupported ecosystem %q", eco)
}

// command splits a configured command into program and leading arguments
func command(cmd []string, fallback ...string) (string, []string) {
	if len(cmd) == 0 {
		cmd = fallback
	}
	return cmd[0], append([]string{}, cmd[1:]...)
}
