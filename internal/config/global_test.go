package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGlobalConfig(t *testing.T, content string) {
	t.Helper()
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, GlobalConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, GlobalConfigFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)
}

func TestGlobalConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	want := filepath.Join("/custom/config", GlobalConfigDir, GlobalConfigFile)
	if got := GlobalConfigPath(); got != want {
		t.Errorf("GlobalConfigPath() = %q, want %q", got, want)
	}
}

func TestLoadGlobalConfig(t *testing.T) {
	writeGlobalConfig(t, `
s2_api_key: test-key
mailto: someone@example.org
cache_dir: /data/cocite
`)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.S2APIKey != "test-key" {
		t.Errorf("S2APIKey = %q", cfg.S2APIKey)
	}
	if cfg.Mailto != "someone@example.org" {
		t.Errorf("Mailto = %q", cfg.Mailto)
	}
	if cfg.CacheDir != "/data/cocite" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}

	if got := GetS2APIKey(); got != "test-key" {
		t.Errorf("GetS2APIKey() = %q", got)
	}
	if got := GetMailto(); got != "someone@example.org" {
		t.Errorf("GetMailto() = %q", got)
	}
}

func TestLoadGlobalConfigMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if *cfg != (GlobalConfig{}) {
		t.Errorf("cfg = %+v, want zero value", cfg)
	}
}

func TestLoadGlobalConfigInvalidYAML(t *testing.T) {
	writeGlobalConfig(t, "s2_api_key: [unclosed")

	if _, err := LoadGlobalConfig(); err == nil {
		t.Error("expected parse error")
	}
}

func TestCachePathUsesConfiguredDir(t *testing.T) {
	writeGlobalConfig(t, "cache_dir: /data/cocite")

	path, err := CachePath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join("/data/cocite", CacheFile); path != want {
		t.Errorf("CachePath() = %q, want %q", path, want)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in, want string
	}{
		{"~/cache", filepath.Join(home, "cache")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandTilde(tt.in); got != tt.want {
			t.Errorf("ExpandTilde(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
