package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethanolivertroy/version-checker/internal/checker"
	"github.com/ethanolivertroy/version-checker/internal/config"
	checkerrors "github.com/ethanolivertroy/version-checker/internal/errors"
	"github.com/ethanolivertroy/version-checker/internal/logging"
	"github.com/ethanolivertroy/version-checker/internal/manager"
	"github.com/ethanolivertroy/version-checker/internal/models"
	"github.com/ethanolivertroy/version-checker/internal/reporter"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exitFunc = os.Exit

	// runner executes package manager commands. Tests replace it.
	runner manager.Runner = manager.ExecRunner
)

type rootOptions struct {
	configPath string
	verbose    bool
	quiet      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "version-checker (--package NAME | --requirements FILE) [flags]",
		Short: "Check packages for newer versions and optionally update them",
		Long: `version-checker compares the versions of your packages with the latest
releases published on their package index, and can install the updates.

It supports multiple ecosystems:
  - Python: requirements.txt, pyproject.toml (PyPI)
  - Node.js: package.json (npm registry)
  - Go: go.mod (module proxy)

Packages without a pinned version are looked up in the local environment
(pip show, npm ls, go list). A package that is not installed counts as
outdated.

Examples:
  # Check a single package
  version-checker --package requests

  # Check a pinned package
  version-checker -p requests==2.0.0

  # Check every package in a requirements file
  version-checker -r requirements.txt

  # Install the latest version of every outdated package
  version-checker -r requirements.txt --update

  # Check Go module dependencies and fail CI when anything is outdated
  version-checker -r go.mod --fail-on-outdated

  # Output as JSON
  version-checker -r package.json --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringP("package", "p", "", "Single package to check (name or name==version)")
	f.StringP("requirements", "r", "", "Requirements file (requirements.txt, pyproject.toml, go.mod, package.json)")
	f.BoolP("update", "u", false, "Install the latest version of outdated packages")
	f.StringP("ecosystem", "e", "pypi", "Ecosystem for --package: pypi, npm, go")
	f.StringP("format", "f", "terminal", "Output format: terminal, json, yaml")
	f.StringP("output", "o", "", "Output file path (default: stdout)")
	f.Bool("fail-on-outdated", false, "Exit with code 3 if outdated packages remain")
	f.Bool("resolve-installed", true, "Look up installed versions of unpinned packages")
	f.Bool("include-indirect", false, "Also check // indirect requirements in go.mod")
	f.Bool("no-cache", false, "Disable index response caching")
	f.Bool("clear-cache", false, "Remove cached index responses before checking")
	f.Int("timeout", 10, "HTTP request timeout in seconds")

	pf := cmd.PersistentFlags()
	pf.Bool("no-color", false, "Disable colored output")
	pf.StringVar(&opts.configPath, "config", "", "Config file (default: ./.version-checker.yaml)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Only log errors")

	cmd.MarkFlagsMutuallyExclusive("package", "requirements")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and exits with the run's exit code:
//   - 0: every package checked (and updated, if asked)
//   - 1: at least one lookup or update failed
//   - 2: bad input, flags or config
//   - 3: outdated packages remain and --fail-on-outdated was set
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		code := checkerrors.GetExitCode(err)
		if code == checkerrors.ExitFailure {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			logging.L().Debug("exiting", zap.Int("code", code), zap.Error(err))
		}
		logging.Sync()
		exitFunc(code)
	}
}

func runCheck(cmd *cobra.Command, opts *rootOptions) error {
	logging.Init(logging.Level(opts.verbose, opts.quiet))
	defer logging.Sync()

	cfg, err := config.Load(cmd.Flags(), opts.configPath)
	if err != nil {
		return checkerrors.NewExitError(checkerrors.ExitFailure, err)
	}
	if cfg.NoColor || cfg.OutputFile != "" {
		color.NoColor = true
	}

	// Parse everything before the first lookup
	specs, err := checker.LoadSpecs(cfg)
	if err != nil {
		return checkerrors.NewExitError(checkerrors.ExitFailure, err)
	}

	eco := cfg.Ecosystem
	if len(specs) > 0 {
		eco = specs[0].Ecosystem
	}

	c, err := checker.FromConfig(cfg, eco, checker.WorkDir(cfg), runner)
	if err != nil {
		return checkerrors.NewExitError(checkerrors.ExitFailure, fmt.Errorf("failed to initialize checker: %w", err))
	}

	rep, err := reporter.Get(cfg.OutputFormat)
	if err != nil {
		return checkerrors.NewExitError(checkerrors.ExitFailure, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.L().Debug("checking packages",
		zap.Int("count", len(specs)),
		zap.String("ecosystem", string(eco)),
		zap.Bool("update", cfg.Update))

	outcomes, runErr := c.Check(ctx, specs, cfg.Update)

	// Generate report
	output, err := rep.Report(outcomes, reporter.Options{Update: cfg.Update})
	if err != nil {
		return checkerrors.NewExitError(checkerrors.ExitFailure, fmt.Errorf("failed to generate report: %w", err))
	}
	if err := writeReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, output, opts.quiet); err != nil {
		return checkerrors.NewExitError(checkerrors.ExitFailure, err)
	}

	return exitStatus(cfg, outcomes, runErr)
}

func writeReport(stdout, stderr io.Writer, cfg *models.Config, output []byte, quiet bool) error {
	if cfg.OutputFile == "" {
		_, err := stdout.Write(output)
		return err
	}

	if err := os.WriteFile(cfg.OutputFile, output, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if !quiet {
		fmt.Fprintf(stderr, "Report written to %s\n", cfg.OutputFile)
	}
	return nil
}

func exitStatus(cfg *models.Config, outcomes []models.Outcome, runErr error) error {
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			runErr = fmt.Errorf("interrupted after %d package(s): %w", len(outcomes), runErr)
		}
		return checkerrors.NewExitError(checkerrors.ExitFailure, runErr)
	}

	if err := checker.Failures(outcomes); err != nil {
		return checkerrors.NewExitError(checkerrors.ExitPartialFailure, err)
	}

	if cfg.FailOnOutdated {
		remaining := 0
		for _, o := range outcomes {
			if o.IsOutdated() && !o.Updated {
				remaining++
			}
		}
		if remaining > 0 {
			return checkerrors.NewExitError(checkerrors.ExitOutdated, fmt.Errorf("%d package(s) outdated", remaining))
		}
	}

	return nil
}
