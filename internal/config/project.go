package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rshade/cargofocus/internal/logging"
)

// EnvProjectDir overrides project-local config discovery.
const EnvProjectDir = "CARGOFOCUS_PROJECT_DIR"

// projectDirName is the marker directory that identifies a project root.
const projectDirName = ".cargofocus"

// resolvedProjectDir holds the resolved project directory path for use
// by other config functions during the lifetime of a CLI invocation.
var (
	resolvedProjectDir   string       //nolint:gochecknoglobals // Set once at startup, read by config loaders
	resolvedProjectDirMu sync.RWMutex //nolint:gochecknoglobals // Protects resolvedProjectDir
)

// SetResolvedProjectDir stores the resolved project directory for use by other config functions.
func SetResolvedProjectDir(dir string) {
	resolvedProjectDirMu.Lock()
	defer resolvedProjectDirMu.Unlock()
	resolvedProjectDir = dir
}

// GetResolvedProjectDir returns the stored resolved project directory.
func GetResolvedProjectDir() string {
	resolvedProjectDirMu.RLock()
	defer resolvedProjectDirMu.RUnlock()
	return resolvedProjectDir
}

// ResolveProjectDir determines the project-local .cargofocus directory path.
// It checks (in order):
//  1. flagValue (--project-dir CLI flag)
//  2. CARGOFOCUS_PROJECT_DIR env var
//  3. a walk-up from startDir looking for a .cargofocus directory
//
// Returns the path to $PROJECT/.cargofocus/ or empty string if no project found.
// Does NOT create the directory (read-only operation).
// Returned path is always absolute (or empty).
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsCargofocusDir(ctx, flagValue)
	}

	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsCargofocusDir(ctx, envDir)
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		marker := filepath.Join(dir, projectDirName)
		if info, statErr := os.Stat(marker); statErr == nil && info.IsDir() {
			return marker
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// NewWithProjectDir creates a Config by loading global config then
// shallow-merging project-local config on top. If projectDir is empty,
// behaves identically to New().
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg := New()

	if projectDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(projectDir, "config.yaml")
	if _, err := os.Stat(overlayPath); err != nil {
		// Missing project config is not an error — use global defaults.
		return cfg
	}

	cfgCopy := New()
	if err := ShallowMergeYAML(cfgCopy, overlayPath); err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global defaults")
		return cfg
	}

	cfgCopy.applyEnvOverrides()
	return cfgCopy
}

// toAbsCargofocusDir converts dir to an absolute path and appends
// ".cargofocus". If the path already ends with ".cargofocus", it is
// returned as-is (after resolving to an absolute path) to prevent
// double-append.
func toAbsCargofocusDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == projectDirName {
		return abs
	}

	return filepath.Join(abs, projectDirName)
}
