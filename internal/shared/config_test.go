package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./soundforest.db" {
			t.Errorf("expected database path ./soundforest.db, got %s", config.Database.Path)
		}

		if config.Sync.Threads != 2 {
			t.Errorf("expected 2 sync threads, got %d", config.Sync.Threads)
		}

		if config.Sync.RsyncPath != "rsync" {
			t.Errorf("expected rsync binary path rsync, got %s", config.Sync.RsyncPath)
		}

		if config.Library.DefaultTreeType != "Songs" {
			t.Errorf("expected default tree type Songs, got %s", config.Library.DefaultTreeType)
		}

		if len(config.Library.IgnoredFiles) != 1 || config.Library.IgnoredFiles[0] != "Icon\r" {
			t.Errorf("unexpected ignored file names: %q", config.Library.IgnoredFiles)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[sync]
threads = 4
delete = true
rsync_path = "/usr/local/bin/rsync"
rate_limit = 2.5

[library]
default_tree_type = "Albums"
ignored_files = [".DS_Store"]
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Sync.Threads != 4 {
			t.Errorf("expected 4 sync threads, got %d", config.Sync.Threads)
		}

		if !config.Sync.Delete {
			t.Error("expected delete to be enabled")
		}

		if config.Sync.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.Sync.RateLimit)
		}

		if config.Library.DefaultTreeType != "Albums" {
			t.Errorf("expected default tree type Albums, got %s", config.Library.DefaultTreeType)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
