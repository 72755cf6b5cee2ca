package manager

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"

	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
)

// Pip drives pip, by default through "python3 -m pip"
type Pip struct {
	Command []string
	Dir     string
	Run     Runner
}

// Installed runs "pip show" and reads its Version field
func (p *Pip) Installed(ctx context.Context, name string) (string, bool, error) {
	prog, args := command(p.Command, "python3", "-m", "pip")
	out, err := p.Run(ctx, p.Dir, prog, append(args, "show", name)...)
	if err != nil {
		// pip show exits 1 with "Package(s) not found" for missing packages
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && strings.Contains(cmdErr.Stderr, "not found") {
			return "", false, nil
		}
		return "", false, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "Version:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "Version:")), true, nil
		}
	}
	return "", false, nil
}

// Install runs "pip install name==version"
func (p *Pip) Install(ctx context.Context, name, version string) error {
	prog, args := command(p.Command, "python3", "-m", "pip")
	out, err := p.Run(ctx, p.Dir, prog, append(args, "install", name+"=="+version)...)
	if err != nil {
		return &checkerrors.UpdateError{Package: name, Version: version, Output: string(out), Err: err}
	}
	return nil
}
