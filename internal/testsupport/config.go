// Package testsupport provides shared helpers for package tests: temp-dir
// configs and catalog stores with registered cleanup.
package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/gabeoland-surg/video-library-metadata/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.ManifestDir = filepath.Join(base, "manifests")
	cfg.Paths.ExportDir = filepath.Join(base, "exports")
	cfg.Paths.DownloadDir = filepath.Join(base, "downloads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithExplorerCredentials sets test credentials on the config.
func WithExplorerCredentials(id, secret string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Explorer.ClientID = id
		cfg.Explorer.ClientSecret = secret
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
