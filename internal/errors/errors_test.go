package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *ParseError
		want string
	}{
		{
			name: "file and line",
			err:  &ParseError{File: "requirements.txt", Line: 3, Msg: "invalid requirement \"!!\""},
			want: "parse error at requirements.txt:3: invalid requirement \"!!\"",
		},
		{
			name: "wrapped error only",
			err:  &ParseError{File: "missing.txt", Err: fs.ErrNotExist},
			want: "parse error at missing.txt: file does not exist",
		},
		{
			name: "no file",
			err:  &ParseError{Msg: "invalid package name \"-x\""},
			want: "parse error at input: invalid package name \"-x\"",
		},
		{
			name: "message and cause",
			err:  &ParseError{File: "pyproject.toml", Msg: "invalid toml", Err: errors.New("bad key")},
			want: "parse error at pyproject.toml: invalid toml: bad key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	err := fmt.Errorf("reading input: %w", &ParseError{File: "x", Err: fs.ErrNotExist})

	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLookupError_NotFound(t *testing.T) {
	err := &LookupError{Package: "nope", Err: fmt.Errorf("pypi: %w", ErrPackageNotFound)}

	assert.True(t, IsNotFound(err))
	assert.Equal(t, "lookup nope: pypi: package not found", err.Error())
	assert.False(t, IsNotFound(&LookupError{Package: "x", Err: errors.New("timeout")}))
}

func TestUpdateError_Message(t *testing.T) {
	err := &UpdateError{Package: "requests", Version: "2.31.0", Err: errors.New("exit status 1")}
	assert.Equal(t, "update requests to 2.31.0: exit status 1", err.Error())

	err = &UpdateError{Package: "requests", Err: errors.New("exit status 1")}
	assert.Equal(t, "update requests: exit status 1", err.Error())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"exit error", NewExitError(ExitOutdated, errors.New("outdated")), ExitOutdated},
		{"wrapped exit error", fmt.Errorf("run: %w", NewExitError(ExitPartialFailure, nil)), ExitPartialFailure},
		{"parse error", &ParseError{Msg: "bad"}, ExitFailure},
		{"lookup error", &LookupError{Package: "a", Err: ErrPackageNotFound}, ExitPartialFailure},
		{"update error", &UpdateError{Package: "a", Err: errors.New("boom")}, ExitPartialFailure},
		{"plain error", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "exit code 3", NewExitError(ExitOutdated, nil).Error())
	assert.Equal(t, "boom", NewExitError(ExitFailure, errors.New("boom")).Error())
}
