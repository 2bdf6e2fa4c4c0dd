package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveProjectDirFlagWins(t *testing.T) {
	t.Setenv(EnvProjectDir, "/ignored/by/flag")

	got := ResolveProjectDir(context.Background(), "/tmp/myproject", "/elsewhere")
	assert.Equal(t, filepath.Join("/tmp/myproject", ".cargofocus"), got)
}

func TestResolveProjectDirFlagAlreadySuffixed(t *testing.T) {
	got := ResolveProjectDir(context.Background(), "/tmp/myproject/.cargofocus", "/elsewhere")
	assert.Equal(t, "/tmp/myproject/.cargofocus", got)
}

func TestResolveProjectDirEnv(t *testing.T) {
	t.Setenv(EnvProjectDir, "/tmp/envproject")

	got := ResolveProjectDir(context.Background(), "", "/elsewhere")
	assert.Equal(t, filepath.Join("/tmp/envproject", ".cargofocus"), got)
}

func TestResolveProjectDirWalkUp(t *testing.T) {
	root := t.TempDir()
	marker := filepath.Join(root, ".cargofocus")
	require.NoError(t, os.MkdirAll(marker, 0700))
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0700))

	got := ResolveProjectDir(context.Background(), "", nested)
	assert.Equal(t, marker, got)
}

func TestResolveProjectDirNoProject(t *testing.T) {
	got := ResolveProjectDir(context.Background(), "", t.TempDir())
	assert.Empty(t, got)
}

func TestResolvedProjectDirRoundTrip(t *testing.T) {
	SetResolvedProjectDir("/tmp/p/.cargofocus")
	t.Cleanup(func() { SetResolvedProjectDir("") })
	assert.Equal(t, "/tmp/p/.cargofocus", GetResolvedProjectDir())
}

func TestNewWithProjectDirOverlay(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())

	projectDir := filepath.Join(t.TempDir(), ".cargofocus")
	require.NoError(t, os.MkdirAll(projectDir, 0700))
	overlay := "output:\n  default_format: ndjson\n  precision: 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte(overlay), 0600))

	cfg := NewWithProjectDir(context.Background(), projectDir)
	assert.Equal(t, FormatNDJSON, cfg.Output.DefaultFormat)
	assert.Equal(t, 1, cfg.Output.Precision)

	// Sections the overlay does not name keep global defaults.
	assert.Equal(t, SourceStatic, cfg.Provider.Source)
}

func TestNewWithProjectDirMissingOverlay(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())

	cfg := NewWithProjectDir(context.Background(), filepath.Join(t.TempDir(), ".cargofocus"))
	assert.Equal(t, FormatTable, cfg.Output.DefaultFormat)
}

func TestNewWithProjectDirBadOverlayFallsBack(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())

	projectDir := filepath.Join(t.TempDir(), ".cargofocus")
	require.NoError(t, os.MkdirAll(projectDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "config.yaml"), []byte(":::"), 0600))

	cfg := NewWithProjectDir(context.Background(), projectDir)
	assert.Equal(t, FormatTable, cfg.Output.DefaultFormat)
}

func TestGitignoreCreatedOnce(t *testing.T) {
	dir := t.TempDir()

	created, err := EnsureGitignore(dir)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "audit.log")

	created, err = EnsureGitignore(dir)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestGitignoreNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	custom := "my-own-rules\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(custom), 0644))

	created, err := EnsureGitignore(dir)
	require.NoError(t, err)
	assert.False(t, created)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}
