package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ethanolivertroy/version-checker/internal/logging"
	"github.com/ethanolivertroy/version-checker/internal/models"
	"go.uber.org/zap"
	"gopkg.in/ini.v1"
)

// applyToolRegistries points the npm and PyPI clients at the registries npm
// and pip themselves are configured for. Only URLs left at their defaults
// are replaced.
func applyToolRegistries(cfg *models.Config) {
	defaults := models.DefaultConfig()

	projectDir := "."
	if cfg.Requirements != "" {
		projectDir = filepath.Dir(cfg.Requirements)
	}

	if cfg.NPMURL == defaults.NPMURL {
		if registry := npmRegistry(projectDir); registry != "" {
			logging.L().Debug("using npm registry from npm config", zap.String("url", registry))
			cfg.NPMURL = registry
		}
	}

	if cfg.PyPIURL == defaults.PyPIURL {
		if index := pipIndex(); index != "" {
			logging.L().Debug("using package index from pip config", zap.String("url", index))
			cfg.PyPIURL = index
		}
	}
}

// npmRegistry returns the registry from npm_config_registry, the project
// .npmrc or ~/.npmrc, in that order
func npmRegistry(projectDir string) string {
	for _, env := range []string{"npm_config_registry", "NPM_CONFIG_REGISTRY"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return strings.TrimRight(v, "/")
		}
	}

	files := []string{filepath.Join(projectDir, ".npmrc")}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".npmrc"))
	}
	for _, path := range files {
		if v := iniValue(path, ini.DefaultSection, "registry"); v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	return ""
}

// pipIndex returns the JSON API base for the index-url from PIP_INDEX_URL
// or the pip config files. An index-url that is not a /simple endpoint has no
// known JSON API and is ignored.
func pipIndex() string {
	if v := strings.TrimSpace(os.Getenv("PIP_INDEX_URL")); v != "" {
		return pipIndexBase("PIP_INDEX_URL", v)
	}

	var files []string
	if v := os.Getenv("PIP_CONFIG_FILE"); v != "" {
		files = append(files, v)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, "pip", "pip.conf"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".pip", "pip.conf"))
	}
	for _, path := range files {
		if v := iniValue(path, "global", "index-url"); v != "" {
			return pipIndexBase(path, v)
		}
	}
	return ""
}

func pipIndexBase(source, indexURL string) string {
	base, ok := indexBase(indexURL)
	if !ok {
		logging.L().Warn("pip index-url is not a /simple index, checking against the default package index",
			zap.String("source", source), zap.String("url", indexURL))
		return ""
	}
	return base
}

// indexBase turns a simple index URL (https://host/simple/) into the base the
// JSON API hangs off (https://host). ok is false for any other URL.
func indexBase(indexURL string) (base string, ok bool) {
	base = strings.TrimRight(strings.TrimSpace(indexURL), "/")
	base, ok = strings.CutSuffix(base, "/simple")
	if !ok {
		return "", false
	}
	base = strings.TrimRight(base, "/")
	return base, base != ""
}

func iniValue(path, section, key string) string {
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:         true,
		IgnoreInlineComment: true,
		Loose:               true,
		KeyValueDelimiters:  "=",
	}, path)
	if err != nil {
		logging.L().Debug("ignoring unreadable tool config", zap.String("path", path), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(f.Section(section).Key(key).String())
}
