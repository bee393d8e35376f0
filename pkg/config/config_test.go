package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DaysToSearch != 1 {
		t.Errorf("DaysToSearch = %d, want 1", cfg.DaysToSearch)
	}
	if cfg.ResultLimit != 30 {
		t.Errorf("ResultLimit = %d, want 30", cfg.ResultLimit)
	}
	if cfg.StorageDir == "" {
		t.Error("StorageDir must default to the XDG data directory")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "storage_dir = '/tmp/hindsight-test'\ndays_to_search = 7\nresult_limit = 5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorageDir != "/tmp/hindsight-test" {
		t.Errorf("StorageDir = %s", cfg.StorageDir)
	}
	if cfg.DaysToSearch != 7 || cfg.ResultLimit != 5 {
		t.Errorf("got days=%d limit=%d, want 7 and 5", cfg.DaysToSearch, cfg.ResultLimit)
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "config.toml")
	cfg := &Config{StorageDir: "/data/hs", DaysToSearch: 3, ResultLimit: 10}
	if err := cfg.SaveConfig(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.StorageDir != cfg.StorageDir || loaded.DaysToSearch != cfg.DaysToSearch {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := &Config{StorageDir: "/data/hs"}
	if got := cfg.DatabasePath(); got != filepath.Join("/data/hs", "hindsight.db") {
		t.Errorf("DatabasePath() = %s", got)
	}
}
