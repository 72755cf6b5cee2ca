package parsers

import (
	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
	"github.com/ethanolivertroy/version-checker/internal/models"
	"golang.org/x/mod/modfile"
)

// GoModParser parses go.mod files
type GoModParser struct {
	IncludeIndirect bool // Whether to include indirect dependencies
}

// CanParse returns true for go.mod files
func (p *GoModParser) CanParse(filename string) bool {
	return filename == "go.mod"
}

// Parse extracts required modules from go.mod content
func (p *GoModParser) Parse(filepath string, content []byte) ([]models.PackageSpec, error) {
	mod, err := modfile.Parse(filepath, content, nil)
	if err != nil {
		return nil, &checkerrors.ParseError{File: filepath, Msg: "invalid go.mod", Err: err}
	}

	var specs []models.PackageSpec

	for _, req := range mod.Require {
		// Skip indirect deps unless explicitly requested
		if req.Indirect && !p.IncludeIndirect {
			continue
		}

		spec := models.PackageSpec{
			Name:           req.Mod.Path,
			CurrentVersion: req.Mod.Version,
			Ecosystem:      models.EcosystemGo,
			SourceFile:     filepath,
		}
		if req.Syntax != nil {
			spec.Line = req.Syntax.Start.Line
		}
		specs = append(specs, spec)
	}

	return specs, nil
}
