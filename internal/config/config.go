// Package config loads run settings from flags, VERSION_CHECKER_* environment
// variables, a YAML config file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ethanolivertroy/version-checker/internal/logging"
	"github.com/ethanolivertroy/version-checker/internal/models"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// EnvPrefix prefixes every environment variable read by Load
	EnvPrefix = "VERSION_CHECKER"

	// LocalFile is looked up in the working directory when --config is not set
	LocalFile = ".version-checker.yaml"
)

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"package":           "package",
	"requirements":      "requirements",
	"ecosystem":         "ecosystem",
	"update":            "update",
	"format":            "format",
	"output":            "output",
	"fail-on-outdated":  "fail_on_outdated",
	"no-cache":          "no_cache",
	"clear-cache":       "clear_cache",
	"include-indirect":  "include_indirect",
	"timeout":           "timeout",
	"no-color":          "no_color",
	"resolve-installed": "resolve_installed",
}

type fileConfig struct {
	Package          string        `mapstructure:"package"`
	Requirements     string        `mapstructure:"requirements"`
	Ecosystem        string        `mapstructure:"ecosystem"`
	Update           bool          `mapstructure:"update"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	FailOnOutdated   bool          `mapstructure:"fail_on_outdated"`
	ResolveInstalled bool          `mapstructure:"resolve_installed"`
	IncludeIndirect  bool          `mapstructure:"include_indirect"`
	NoCache          bool          `mapstructure:"no_cache"`
	ClearCache       bool          `mapstructure:"clear_cache"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl"`
	Timeout          int           `mapstructure:"timeout"`
	NoColor          bool          `mapstructure:"no_color"`
	PyPIURL          string        `mapstructure:"pypi_url"`
	NPMURL           string        `mapstructure:"npm_url"`
	GoProxyURL       string        `mapstructure:"goproxy_url"`
	PipCommand       []string      `mapstructure:"pip_command"`
	NPMCommand       []string      `mapstructure:"npm_command"`
	GoCommand        []string      `mapstructure:"go_command"`
}

// Load builds a Config. flags may be nil. configPath is the --config value;
// when empty, LocalFile and then the user config directory are searched and a
// missing file is not an error.
func Load(flags *pflag.FlagSet, configPath string) (*models.Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	path, err := findConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		logging.L().Debug("loaded config file", zap.String("path", path))
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	// GetStringSlice splits "python3 -m pip" from the environment on spaces
	fc.PipCommand = v.GetStringSlice("pip_command")
	fc.NPMCommand = v.GetStringSlice("npm_command")
	fc.GoCommand = v.GetStringSlice("go_command")

	cfg, err := fc.toModel()
	if err != nil {
		return nil, err
	}
	applyToolRegistries(cfg)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := models.DefaultConfig()
	v.SetDefault("ecosystem", string(d.Ecosystem))
	v.SetDefault("format", d.OutputFormat)
	v.SetDefault("resolve_installed", d.ResolveInstalled)
	v.SetDefault("cache_ttl", d.CacheTTL)
	v.SetDefault("timeout", int(d.Timeout/time.Second))
	v.SetDefault("pypi_url", d.PyPIURL)
	v.SetDefault("npm_url", d.NPMURL)
	v.SetDefault("goproxy_url", d.GoProxyURL)
	v.SetDefault("pip_command", d.PipCommand)
	v.SetDefault("npm_command", d.NPMCommand)
	v.SetDefault("go_command", d.GoCommand)

	// Zero defaults register the keys so AutomaticEnv reaches them in Unmarshal
	for _, key := range []string{"package", "requirements", "output"} {
		v.SetDefault(key, "")
	}
	for _, key := range []string{"update", "fail_on_outdated", "include_indirect", "no_cache", "clear_cache", "no_color"} {
		v.SetDefault(key, false)
	}
}

func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return explicit, nil
	}

	candidates := []string{LocalFile}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "version-checker", "config.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
	}
	return "", nil
}

func (fc fileConfig) toModel() (*models.Config, error) {
	eco, ok := models.ParseEcosystem(fc.Ecosystem)
	if !ok {
		return nil, fmt.Errorf("unknown ecosystem %q (want pypi, npm or go)", fc.Ecosystem)
	}

	switch fc.Format {
	case "terminal", "json", "yaml", "yml":
	default:
		return nil, fmt.Errorf("unknown output format %q (want terminal, json or yaml)", fc.Format)
	}

	if fc.Timeout <= 0 {
		return nil, errors.New("timeout must be a positive number of seconds")
	}
	if fc.CacheTTL < 0 {
		return nil, errors.New("cache_ttl must not be negative")
	}
	noCache := fc.NoCache
	if fc.CacheTTL == 0 && !noCache {
		// A zero TTL would make every entry stale on arrival
		logging.L().Debug("cache_ttl is 0, disabling the index cache")
		noCache = true
	}

	cfg := &models.Config{
		Package:          strings.TrimSpace(fc.Package),
		Requirements:     fc.Requirements,
		Ecosystem:        eco,
		Update:           fc.Update,
		FailOnOutdated:   fc.FailOnOutdated,
		ResolveInstalled: fc.ResolveInstalled,
		IncludeIndirect:  fc.IncludeIndirect,
		OutputFormat:     fc.Format,
		OutputFile:       fc.Output,
		NoColor:          fc.NoColor,
		CacheTTL:         fc.CacheTTL,
		NoCache:          noCache,
		ClearCache:       fc.ClearCache,
		Timeout:          time.Duration(fc.Timeout) * time.Second,
		PyPIURL:          strings.TrimRight(fc.PyPIURL, "/"),
		NPMURL:           strings.TrimRight(fc.NPMURL, "/"),
		GoProxyURL:       strings.TrimRight(fc.GoProxyURL, "/"),
		PipCommand:       fc.PipCommand,
		NPMCommand:       fc.NPMCommand,
		GoCommand:        fc.GoCommand,
	}

	return cfg, nil
}
