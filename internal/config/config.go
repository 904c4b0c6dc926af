package config

import (
	"fmt"
	"path/filepath"
	"regexp"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// settingsKeyRegex validates dotted settings keys.
// Each segment starts with a lowercase letter, followed by lowercase
// letters, digits, or underscores. Segments are joined with dots.
var settingsKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*)*$`)

// ValidateSettingsKey checks if a dotted settings key is valid.
// Valid keys:
//   - Contain one or more dot-separated segments
//   - Each segment starts with a lowercase letter
//   - Segments contain only lowercase letters, digits, or underscores
func ValidateSettingsKey(key string) error {
	if key == "" {
		return fmt.Errorf("settings key cannot be empty")
	}

	if !settingsKeyRegex.MatchString(key) {
		return fmt.Errorf("invalid settings key %q: must be dot-separated segments of lowercase letters, digits, or underscores", key)
	}

	return nil
}

const (
	DefaultConfigDir = "/etc/beacon"
	DefaultStateDir  = "/var/lib/beacon"

	// SettingsFileName is the tracked artifact inside the settings repository
	SettingsFileName = "beacon.toml"

	// EnvPrefix is the prefix for environment-layer settings keys,
	// e.g. BEACON_CLOUD_BASE_URL overrides cloud.base_url.
	EnvPrefix = "BEACON_"
)

// Paths holds the configured paths
type Paths struct {
	ConfigDir   string // static configuration (credentials)
	StateDir    string // mutable state (caches, settings checkout)
	SettingsDir string // git checkout of the settings repository
}

// DefaultPaths returns the default path configuration
func DefaultPaths() *Paths {
	return &Paths{
		ConfigDir:   DefaultConfigDir,
		StateDir:    DefaultStateDir,
		SettingsDir: filepath.Join(DefaultStateDir, "settings"),
	}
}

// SettingsFile returns the path of the tracked settings file inside the
// settings checkout.
func (p *Paths) SettingsFile() string {
	return filepath.Join(p.SettingsDir, SettingsFileName)
}

// CredentialsFile returns the path of the cached API credentials.
func (p *Paths) CredentialsFile() string {
	return filepath.Join(p.ConfigDir, "credentials.json")
}

// CacheFile resolves a cache file name inside the state directory.
// Names are joined with securejoin so a malicious or corrupt name can
// never escape the state dir.
func (p *Paths) CacheFile(name string) (string, error) {
	path, err := securejoin.SecureJoin(p.StateDir, name)
	if err != nil {
		return "", fmt.Errorf("invalid cache file name %q: %w", name, err)
	}
	return path, nil
}

// DeviceCacheFile returns the path of the cached device record.
func (p *Paths) DeviceCacheFile() string {
	path, err := p.CacheFile("device.json")
	if err != nil {
		// "device.json" is a constant, SecureJoin cannot fail on it
		panic(err)
	}
	return path
}

// LicenseCacheFile returns the path of the cached license record.
func (p *Paths) LicenseCacheFile() string {
	path, err := p.CacheFile("license.json")
	if err != nil {
		panic(err)
	}
	return path
}
