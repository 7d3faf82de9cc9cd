// Package config holds the runtime configuration for manualforge. Every
// knob has a sensible default and can be overridden through MANUALFORGE_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// BaseArchiveName is the filename the cached base Manual archive is stored
// under inside the cache directory.
const BaseArchiveName = "Manual.apworld"

// defaultCacheDirName is created under the working directory when no cache
// dir is configured, matching where users expect build state to live.
const defaultCacheDirName = ".manualforge_cache"

// Config carries the runtime settings for a build run.
type Config struct {
	// CacheDir holds the downloaded base archive and the build log.
	CacheDir string `env:"MANUALFORGE_CACHE_DIR"`

	// ReleaseAPIURL is the GitHub API endpoint queried for the latest
	// Manual release.
	ReleaseAPIURL string `env:"MANUALFORGE_RELEASE_API_URL" envDefault:"https://api.github.com/repos/ManualForArchipelago/Manual/releases/latest"`

	// RequestTimeout bounds each release-info request attempt.
	RequestTimeout time.Duration `env:"MANUALFORGE_REQUEST_TIMEOUT" envDefault:"30s"`

	// DownloadTimeout bounds each archive download attempt.
	DownloadTimeout time.Duration `env:"MANUALFORGE_DOWNLOAD_TIMEOUT" envDefault:"90s"`

	// MaxRetries caps attempts for each network operation.
	MaxRetries int `env:"MANUALFORGE_MAX_RETRIES" envDefault:"3"`
}

// Load reads configuration from the environment, filling in defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if cfg.CacheDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("config: working directory: %w", err)
		}
		cfg.CacheDir = filepath.Join(cwd, defaultCacheDirName)
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return cfg, nil
}

// BaseArchivePath is where the cached base archive lives.
func (c Config) BaseArchivePath() string {
	return filepath.Join(c.CacheDir, BaseArchiveName)
}

// LogsDir is where the build log lives.
func (c Config) LogsDir() string {
	return filepath.Join(c.CacheDir, "logs")
}

// EnsureCacheDir creates the cache directory tree.
func (c Config) EnsureCacheDir() error {
	for _, dir := range []string{c.CacheDir, c.LogsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: ensure cache dir: %w", err)
		}
	}
	return nil
}
