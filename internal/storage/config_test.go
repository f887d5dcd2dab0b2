package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/shelf/internal/storage"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := storage.LoadConfig(filepath.Join(t.TempDir(), "config.yaml"))
	assert.NilError(t, err)

	defaults := storage.DefaultConfig()
	assert.Equal(t, cfg.DBPath, defaults.DBPath)
	assert.Equal(t, cfg.LogLevel, "warn")
	assert.DeepEqual(t, cfg.DefaultFolders, []string{"Favorites", "Wishlist", "Played"})
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "db_path: /tmp/custom.db\nlog_level: debug\ndefault_folders:\n  - Backlog\n"
	assert.NilError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := storage.LoadConfig(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.DBPath, "/tmp/custom.db")
	assert.Equal(t, cfg.LogLevel, "debug")
	assert.DeepEqual(t, cfg.DefaultFolders, []string{"Backlog"})
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NilError(t, os.WriteFile(path, []byte("db_path: /tmp/file.db\n"), 0644))
	t.Setenv("SHELF_DB_PATH", "/tmp/env.db")

	cfg, err := storage.LoadConfig(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.DBPath, "/tmp/env.db")
}
