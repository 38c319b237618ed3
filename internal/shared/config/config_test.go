package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.ini"))
	if err != nil {
		t.Fatalf("Load() on a missing file should not fail: %v", err)
	}

	if cfg.ScannerConf.ServersFile != "servers.txt" {
		t.Errorf("ServersFile = %q, want servers.txt", cfg.ScannerConf.ServersFile)
	}
	if cfg.ScannerConf.DefaultPort != 31401 {
		t.Errorf("DefaultPort = %d, want 31401", cfg.ScannerConf.DefaultPort)
	}
	if cfg.ScannerConf.TimeoutMs != 7000 {
		t.Errorf("TimeoutMs = %d, want 7000", cfg.ScannerConf.TimeoutMs)
	}
	if cfg.WebConf.Port != 0 {
		t.Errorf("WebConf.Port = %d, want 0 (disabled)", cfg.WebConf.Port)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "claimscan.ini")
	content := `[scanner]
default_port = 9000
timeout_ms = 500
servers_file = nodes.txt

[harvest]
table_urls = http://lists.example/a,http://lists.example/b

[web]
port = 8080

[log]
level = debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write ini: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ScannerConf.DefaultPort != 9000 {
		t.Errorf("DefaultPort = %d, want 9000", cfg.ScannerConf.DefaultPort)
	}
	if cfg.ScannerConf.TimeoutMs != 500 {
		t.Errorf("TimeoutMs = %d, want 500", cfg.ScannerConf.TimeoutMs)
	}
	if cfg.ScannerConf.ServersFile != "nodes.txt" {
		t.Errorf("ServersFile = %q, want nodes.txt", cfg.ScannerConf.ServersFile)
	}
	// Untouched keys keep their defaults.
	if cfg.ScannerConf.WalletsFile != "wallets.txt" {
		t.Errorf("WalletsFile = %q, want wallets.txt", cfg.ScannerConf.WalletsFile)
	}
	wantURLs := []string{"http://lists.example/a", "http://lists.example/b"}
	if !reflect.DeepEqual(cfg.HarvestConf.TableURLs, wantURLs) {
		t.Errorf("TableURLs = %v, want %v", cfg.HarvestConf.TableURLs, wantURLs)
	}
	if cfg.WebConf.Port != 8080 {
		t.Errorf("WebConf.Port = %d, want 8080", cfg.WebConf.Port)
	}
	if cfg.LogConf.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.LogConf.Level)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CLAIMSCAN_TIMEOUT_MS", "1234")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.ini"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ScannerConf.TimeoutMs != 1234 {
		t.Errorf("TimeoutMs = %d, want 1234 from environment", cfg.ScannerConf.TimeoutMs)
	}
}
