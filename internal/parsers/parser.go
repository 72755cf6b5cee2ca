package parsers

import (
	"os"
	"path/filepath"

	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
	"github.com/ethanolivertroy/version-checker/internal/models"
)

// Parser is the interface for requirements file parsers
type Parser interface {
	// CanParse returns true if this parser can handle the given filename
	CanParse(filename string) bool

	// Parse extracts package specs from the file content
	Parse(filepath string, content []byte) ([]models.PackageSpec, error)
}

// GetAllParsers returns all available parsers, most specific first.
// PythonRequirementsParser accepts any filename and must stay last.
func GetAllParsers() []Parser {
	return []Parser{
		&PythonPyProjectParser{},
		&GoModParser{},
		&NodePackageJSONParser{},
		&PythonRequirementsParser{},
	}
}

// Options tunes the parser chosen for a file
type Options struct {
	IncludeIndirect bool // go.mod: also return // indirect requirements
}

// ForFile returns the parser for the given path
func ForFile(path string, opts Options) Parser {
	filename := filepath.Base(path)
	for _, p := range GetAllParsers() {
		if p.CanParse(filename) {
			if gm, ok := p.(*GoModParser); ok {
				gm.IncludeIndirect = opts.IncludeIndirect
			}
			return p
		}
	}
	return &PythonRequirementsParser{}
}

// ReadFile reads and parses a requirements-style file.
// Any failure is returned as a *errors.ParseError.
func ReadFile(path string, opts Options) ([]models.PackageSpec, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &checkerrors.ParseError{File: path, Msg: "cannot read file", Err: err}
	}
	return ForFile(path, opts).Parse(path, content)
}
