package reporter

import (
	"fmt"

	"github.com/ethanolivertroy/version-checker/internal/models"
)

// Options carries run details that change how results read
type Options struct {
	Update bool // The run tried to install outdated packages
}

// Reporter is the interface for output formatters
type Reporter interface {
	// Report generates output for the given outcomes
	Report(outcomes []models.Outcome, opts Options) ([]byte, error)
}

// Formats lists the accepted --format values
var Formats = []string{"terminal", "json", "yaml"}

// Get returns a reporter for the specified format
func Get(format string) (Reporter, error) {
	switch format {
	case "", "terminal":
		return &TerminalReporter{}, nil
	case "json":
		return &JSONReporter{}, nil
	case "yaml", "yml":
		return &YAMLReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}

// Status values used in machine readable output
const (
	StatusOutdated     = "outdated"
	StatusUpToDate     = "up_to_date"
	StatusUpdated      = "updated"
	StatusLookupFailed = "lookup_failed"
	StatusUpdateFailed = "update_failed"
)

// Status returns the single state an outcome ended in
func Status(o models.Outcome) string {
	switch {
	case o.LookupErr != nil:
		return StatusLookupFailed
	case o.UpdateErr != nil:
		return StatusUpdateFailed
	case o.Updated:
		return StatusUpdated
	case o.IsOutdated():
		return StatusOutdated
	default:
		return StatusUpToDate
	}
}

// document is the structure shared by the json and yaml reporters
type document struct {
	Summary  summary       `json:"summary" yaml:"summary"`
	Packages []packageItem `json:"packages" yaml:"packages"`
}

type summary struct {
	Total    int `json:"total" yaml:"total"`
	Outdated int `json:"outdated" yaml:"outdated"`
	UpToDate int `json:"up_to_date" yaml:"up_to_date"`
	Updated  int `json:"updated" yaml:"updated"`
	Failed   int `json:"failed" yaml:"failed"`
}

type packageItem struct {
	Name       string `json:"name" yaml:"name"`
	Ecosystem  string `json:"ecosystem" yaml:"ecosystem"`
	Current    string `json:"current,omitempty" yaml:"current,omitempty"`
	Latest     string `json:"latest,omitempty" yaml:"latest,omitempty"`
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Status     string `json:"status" yaml:"status"`
	SourceFile string `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	Line       int    `json:"line,omitempty" yaml:"line,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

func buildDocument(outcomes []models.Outcome) document {
	s := models.Summarize(outcomes)
	doc := document{
		Summary: summary{
			Total:    s.Total,
			Outdated: s.Outdated,
			UpToDate: s.UpToDate,
			Updated:  s.Updated,
			Failed:   s.Failed,
		},
		Packages: make([]packageItem, 0, len(outcomes)),
	}

	for _, o := range outcomes {
		item := packageItem{
			Name:       o.Spec.Name,
			Ecosystem:  string(o.Spec.Ecosystem),
			Current:    o.Spec.CurrentVersion,
			Constraint: o.Spec.Constraint,
			Status:     Status(o),
			SourceFile: o.Spec.SourceFile,
			Line:       o.Spec.Line,
		}
		if o.Comparison != nil {
			item.Current = o.Comparison.Current
			item.Latest = o.Comparison.Latest
		}
		switch {
		case o.LookupErr != nil:
			item.Error = o.LookupErr.Error()
		case o.UpdateErr != nil:
			item.Error = o.UpdateErr.Error()
		}
		doc.Packages = append(doc.Packages, item)
	}

	return doc
}
