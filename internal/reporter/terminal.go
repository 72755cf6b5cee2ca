package reporter

import (
	"fmt"
	"strings"

	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
	"github.com/ethanolivertroy/version-checker/internal/models"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// maxMessageWidth bounds error text on a package line, in terminal cells
const maxMessageWidth = 160

var (
	outdatedColor = color.New(color.FgYellow)
	okColor       = color.New(color.FgGreen)
	errorColor    = color.New(color.FgRed)
	nameColor     = color.New(color.Bold)
)

// TerminalReporter outputs outcomes in a human-readable terminal format.
// Colors follow color.NoColor, which fatih/color sets for non-TTY stdout.
type TerminalReporter struct{}

// Report generates terminal output for the given outcomes
func (r *TerminalReporter) Report(outcomes []models.Outcome, opts Options) ([]byte, error) {
	if len(outcomes) == 0 {
		return []byte("No packages to check.\n"), nil
	}

	var sb strings.Builder
	sb.WriteString("Checking for updates...\n")

	for _, o := range outcomes {
		name := nameColor.Sprint(o.Spec.Name)

		if checkerrors.IsNotFound(o.LookupErr) {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", name, errorColor.Sprint("not found on package index")))
			continue
		}
		if o.LookupErr != nil {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", name, errorColor.Sprintf("lookup failed: %s", shorten(o.LookupErr))))
			continue
		}

		cmp := o.Comparison
		switch {
		case !cmp.IsOutdated:
			sb.WriteString(fmt.Sprintf("  %s: %s\n", name, okColor.Sprintf("%s (up to date)", cmp.Current)))
		case cmp.Current == "":
			sb.WriteString(fmt.Sprintf("  %s: %s\n", name, outdatedColor.Sprintf("not installed -> %s", cmp.Latest)))
		default:
			sb.WriteString(fmt.Sprintf("  %s: %s\n", name, outdatedColor.Sprintf("%s -> %s (update available)", cmp.Current, cmp.Latest)))
		}

		switch {
		case o.Updated:
			sb.WriteString(fmt.Sprintf("  %s: %s\n", name, okColor.Sprintf("updated successfully to %s", cmp.Latest)))
		case o.UpdateErr != nil:
			sb.WriteString(fmt.Sprintf("  %s: %s\n", name, errorColor.Sprintf("update failed: %s", shorten(o.UpdateErr))))
		}
	}

	s := models.Summarize(outcomes)
	sb.WriteString("\n")
	if s.Outdated > 0 {
		sb.WriteString(fmt.Sprintf("%d update(s) available.\n", s.Outdated))
		if !opts.Update {
			sb.WriteString("Run with --update to apply updates.\n")
		} else if s.Updated > 0 {
			sb.WriteString(fmt.Sprintf("%d package(s) updated.\n", s.Updated))
		}
	} else if s.Failed == 0 {
		sb.WriteString("All packages are up to date.\n")
	}
	if s.Failed > 0 {
		sb.WriteString(errorColor.Sprintf("%d package(s) could not be checked or updated.", s.Failed) + "\n")
	}

	return []byte(sb.String()), nil
}

// shorten puts err on one line and truncates it to maxMessageWidth
func shorten(err error) string {
	msg := strings.Join(strings.Fields(err.Error()), " ")
	return runewidth.Truncate(msg, maxMessageWidth, "...")
}
