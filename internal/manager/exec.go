package manager

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ethanolivertroy/version-checker/internal/logging"
	"go.uber.org/zap"
)

// Runner executes a command in dir and returns its standard output.
// A non-zero exit is returned as an error that includes standard error.
type Runner func(ctx context.Context, dir string, name string, args ...string) ([]byte, error)

// CommandError is returned by ExecRunner when a command fails
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + lastLine(e.Stderr)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	logging.L().Debug("running package manager", zap.String("cmd", cmdline), zap.String("dir", dir))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &CommandError{Command: cmdline, Stderr: stderr.String(), Err: err}
	}
	return stdout.Bytes(), nil
}

// lastLine returns the last non-empty line of s, which is where pip, npm and
// go put the actual failure reason
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
