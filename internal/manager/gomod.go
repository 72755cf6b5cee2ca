package manager

import (
	"context"
	"strings"

	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
)

// GoMod drives the go command inside a module
type GoMod struct {
	Command []string
	Dir     string
	Run     Runner
}

// Installed runs "go list -m" for the module path
func (g *GoMod) Installed(ctx context.Context, name string) (string, bool, error) {
	prog, args := command(g.Command, "go")
	out, err := g.Run(ctx, g.Dir, prog, append(args, "list", "-m", "-f", "{{.Version}}", name)...)
	if err != nil {
		return "", false, err
	}
	v := strings.TrimSpace(string(out))
	return v, v != "", nil
}

// Install runs "go get path@version", which also rewrites go.mod
func (g *GoMod) Install(ctx context.Context, name, version string) error {
	prog, args := command(g.Command, "go")
	out, err := g.Run(ctx, g.Dir, prog, append(args, "get", name+"@"+version)...)
	if err != nil {
		return &checkerrors.UpdateError{Package: name, Version: version, Output: string(out), Err: err}
	}
	return nil
}
