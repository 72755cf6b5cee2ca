// Package checker runs the check pipeline: resolve each package's latest
// version, compare it with the current one and optionally install it.
package checker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ethanolivertroy/version-checker/internal/cache"
	"github.com/ethanolivertroy/version-checker/internal/clients"
	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
	"github.com/ethanolivertroy/version-checker/internal/logging"
	"github.com/ethanolivertroy/version-checker/internal/manager"
	"github.com/ethanolivertroy/version-checker/internal/models"
	"github.com/ethanolivertroy/version-checker/internal/parsers"
	"github.com/ethanolivertroy/version-checker/internal/version"
	"go.uber.org/zap"
)

const appName = "version-checker"

// Options controls how a Checker fills in missing versions
type Options struct {
	ResolveInstalled bool // Ask the manager for the installed version of unpinned packages
}

// Checker checks packages one at a time against an index
type Checker struct {
	index   clients.Index
	manager manager.Manager
	opts    Options
}

// New creates a Checker. mgr may be nil, in which case installed versions are
// never resolved and updates fail.
func New(index clients.Index, mgr manager.Manager, opts Options) *Checker {
	return &Checker{
		index:   index,
		manager: mgr,
		opts:    opts,
	}
}

// FromConfig builds a Checker for eco from cfg. dir is where package manager
// commands run.
func FromConfig(cfg *models.Config, eco models.Ecosystem, dir string, run manager.Runner) (*Checker, error) {
	var c *cache.Cache
	if !cfg.NoCache || cfg.ClearCache {
		var err error
		c, err = cache.New(appName, cfg.CacheTTL)
		if err != nil {
			// Non-fatal: continue without cache
			logging.L().Warn("index cache disabled", zap.Error(err))
			c = nil
		}
	}
	if c != nil && cfg.ClearCache {
		if err := c.Clear(); err != nil {
			logging.L().Warn("failed to clear index cache", zap.String("dir", c.Dir), zap.Error(err))
		} else {
			logging.L().Debug("cleared index cache", zap.String("dir", c.Dir))
		}
	}
	if cfg.NoCache {
		c = nil
	}

	index, err := clients.ForEcosystem(eco, cfg, c)
	if err != nil {
		return nil, err
	}

	mgr, err := manager.ForEcosystem(eco, cfg, dir, run)
	if err != nil {
		return nil, err
	}

	return New(index, mgr, Options{ResolveInstalled: cfg.ResolveInstalled}), nil
}

// LoadSpecs reads the packages selected by cfg: either the single --package
// argument or every entry of the --requirements file. Errors are
// *errors.ParseError and mean nothing should be checked.
func LoadSpecs(cfg *models.Config) ([]models.PackageSpec, error) {
	switch {
	case cfg.Package != "" && cfg.Requirements != "":
		return nil, &checkerrors.ParseError{Msg: "--package and --requirements are mutually exclusive"}
	case cfg.Package != "":
		spec, err := parsers.ParsePackageArg(cfg.Package, cfg.Ecosystem)
		if err != nil {
			return nil, err
		}
		return []models.PackageSpec{spec}, nil
	case cfg.Requirements != "":
		return parsers.ReadFile(cfg.Requirements, parsers.Options{IncludeIndirect: cfg.IncludeIndirect})
	}
	return nil, &checkerrors.ParseError{Msg: "one of --package or --requirements is required"}
}

// WorkDir returns the directory package manager commands should run in
func WorkDir(cfg *models.Config) string {
	if cfg.Requirements == "" {
		return ""
	}
	if abs, err := filepath.Abs(cfg.Requirements); err == nil {
		return filepath.Dir(abs)
	}
	return filepath.Dir(cfg.Requirements)
}

// Check checks specs in order and returns one outcome per package. With update
// set, outdated packages are installed at their latest version. Lookup and
// update failures are recorded on the outcome and do not stop the run. A
// cancelled context stops the run after the current package and is returned
// along with the outcomes gathered so far.
func (c *Checker) Check(ctx context.Context, specs []models.PackageSpec, update bool) ([]models.Outcome, error) {
	outcomes := make([]models.Outcome, 0, len(specs))

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, c.checkOne(ctx, spec, update))
	}

	return outcomes, nil
}

func (c *Checker) checkOne(ctx context.Context, spec models.PackageSpec, update bool) models.Outcome {
	log := logging.L().With(zap.Stringer("package", spec))
	outcome := models.Outcome{Spec: spec}

	// Step 1: fill in the installed version for unpinned packages
	if !spec.HasCurrent() && c.opts.ResolveInstalled && c.manager != nil {
		installed, ok, err := c.manager.Installed(ctx, spec.Name)
		switch {
		case err != nil:
			log.Debug("installed version lookup failed", zap.Error(err))
		case ok:
			outcome.Spec.CurrentVersion = installed
		default:
			log.Debug("package not installed")
		}
	}

	// Step 2: ask the index for the latest version
	info, err := c.index.Latest(ctx, spec.Name)
	if err != nil {
		outcome.LookupErr = asLookupError(spec.Name, err)
		log.Debug("lookup failed", zap.Error(err))
		return outcome
	}

	// Step 3: compare
	cmp, err := version.CompareResult(spec.Ecosystem, spec.Name, outcome.Spec.CurrentVersion, info.LatestVersion)
	if err != nil {
		outcome.LookupErr = &checkerrors.LookupError{Package: spec.Name, Err: fmt.Errorf("compare versions: %w", err)}
		log.Debug("comparison failed", zap.Error(err))
		return outcome
	}
	outcome.Comparison = &cmp
	log.Debug("compared versions",
		zap.String("current", cmp.Current),
		zap.String("latest", cmp.Latest),
		zap.Bool("outdated", cmp.IsOutdated))

	// Step 4: update
	if !update || !cmp.IsOutdated {
		return outcome
	}
	if c.manager == nil {
		outcome.UpdateErr = &checkerrors.UpdateError{Package: spec.Name, Version: cmp.Latest, Err: errors.New("no package manager configured")}
		return outcome
	}
	if err := c.manager.Install(ctx, spec.Name, cmp.Latest); err != nil {
		outcome.UpdateErr = asUpdateError(spec.Name, cmp.Latest, err)
		log.Debug("update failed", zap.Error(err))
		return outcome
	}
	outcome.Updated = true

	return outcome
}

func asLookupError(name string, err error) error {
	var le *checkerrors.LookupError
	if errors.As(err, &le) {
		return err
	}
	return &checkerrors.LookupError{Package: name, Err: err}
}

func asUpdateError(name, version string, err error) error {
	var ue *checkerrors.UpdateError
	if errors.As(err, &ue) {
		return err
	}
	return &checkerrors.UpdateError{Package: name, Version: version, Err: err}
}

// Failures returns the lookup and update errors from outcomes, joined, or nil
func Failures(outcomes []models.Outcome) error {
	var errs []error
	for _, o := range outcomes {
		if !o.Failed() {
			continue
		}
		if o.LookupErr != nil {
			errs = append(errs, o.LookupErr)
		}
		if o.UpdateErr != nil {
			errs = append(errs, o.UpdateErr)
		}
	}
	return errors.Join(errs...)
}
