package manager

import (
	"context"
	"encoding/json"

	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
)

// NPM drives the npm CLI in a project directory
type NPM struct {
	Command []string
	Dir     string
	Run     Runner
}

type npmLs struct {
	Dependencies map[string]struct {
		Version string `json:"version"`
	} `json:"dependencies"`
}

// Installed runs "npm ls <name> --json --depth=0"
func (n *NPM) Installed(ctx context.Context, name string) (string, bool, error) {
	prog, args := command(n.Command, "npm")
	out, err := n.Run(ctx, n.Dir, prog, append(args, "ls", name, "--json", "--depth=0")...)

	// npm ls exits 1 when the tree has problems or the package is missing, but
	// still prints the JSON tree
	var ls npmLs
	if jsonErr := json.Unmarshal(out, &ls); jsonErr != nil {
		if err != nil {
			return "", false, err
		}
		return "", false, jsonErr
	}

	dep, ok := ls.Dependencies[name]
	if !ok || dep.Version == "" {
		return "", false, nil
	}
	return dep.Version, true, nil
}

// Install runs "npm install name@version"
func (n *NPM) Install(ctx context.Context, name, version string) error {
	prog, args := command(n.Command, "npm")
	out, err := n.Run(ctx, n.Dir, prog, append(args, "install", name+"@"+version)...)
	if err != nil {
		return &checkerrors.UpdateError{Package: name, Version: version, Output: string(out), Err: err}
	}
	return nil
}
