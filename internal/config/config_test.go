package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateSettingsKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"cloud.base_url", false},
		{"octoprint.api_key", false},
		{"video", false},
		{"updates.check_interval_sec", false},
		{"", true},
		{"Cloud.BaseURL", true},
		{"cloud..base_url", true},
		{".cloud", true},
		{"cloud.", true},
		{"cloud/base_url", true},
		{"../../etc/passwd", true},
		{"1cloud.url", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateSettingsKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSettingsKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestDefaultPaths(t *testing.T) {
	p := DefaultPaths()

	if p.ConfigDir != DefaultConfigDir {
		t.Errorf("ConfigDir = %q, want %q", p.ConfigDir, DefaultConfigDir)
	}
	if p.SettingsDir != filepath.Join(DefaultStateDir, "settings") {
		t.Errorf("SettingsDir = %q, want under state dir", p.SettingsDir)
	}
	if filepath.Base(p.SettingsFile()) != SettingsFileName {
		t.Errorf("SettingsFile() = %q, want base %q", p.SettingsFile(), SettingsFileName)
	}
}

func TestCacheFile_StaysInStateDir(t *testing.T) {
	p := &Paths{StateDir: t.TempDir()}

	path, err := p.CacheFile("device.json")
	if err != nil {
		t.Fatalf("CacheFile failed: %v", err)
	}
	if !strings.HasPrefix(path, p.StateDir) {
		t.Errorf("CacheFile() = %q, escapes state dir %q", path, p.StateDir)
	}

	// Traversal attempts resolve inside the state dir rather than escaping it
	path, err = p.CacheFile("../../etc/passwd")
	if err != nil {
		t.Fatalf("CacheFile failed: %v", err)
	}
	if !strings.HasPrefix(path, p.StateDir) {
		t.Errorf("CacheFile() = %q, escapes state dir %q", path, p.StateDir)
	}
}

func TestCacheFileHelpers(t *testing.T) {
	p := &Paths{StateDir: "/var/lib/beacon"}

	if got := p.DeviceCacheFile(); filepath.Base(got) != "device.json" {
		t.Errorf("DeviceCacheFile() = %q", got)
	}
	if got := p.LicenseCacheFile(); filepath.Base(got) != "license.json" {
		t.Errorf("LicenseCacheFile() = %q", got)
	}
}
