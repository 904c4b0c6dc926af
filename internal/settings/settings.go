package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/BurntSushi/toml"

	"github.com/lattice-labs/beacon-ctl/internal/errors"
)

// Settings is the effective device configuration, assembled from the
// layered sources by the Resolver. The TOML form is canonical: it is the
// tracked artifact in the settings repository and round-trips losslessly.
type Settings struct {
	Cloud     CloudSettings     `toml:"cloud" json:"cloud"`
	OctoPrint OctoPrintSettings `toml:"octoprint" json:"octoprint"`
	Video     VideoSettings     `toml:"video" json:"video"`
	Updates   UpdateSettings    `toml:"updates" json:"updates"`
}

// CloudSettings configures the connection to the Lattice Cloud service.
type CloudSettings struct {
	BaseURL string `toml:"base_url" json:"base_url"`
}

// OctoPrintSettings configures the local OctoPrint integration.
type OctoPrintSettings struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	BaseURL string `toml:"base_url" json:"base_url"`
	APIKey  string `toml:"api_key" json:"api_key"`
}

// VideoSettings configures the camera stream.
type VideoSettings struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Src     string `toml:"src" json:"src"`
	UDPPort int    `toml:"udp_port" json:"udp_port"`
}

// UpdateSettings configures the release channel and update cadence.
type UpdateSettings struct {
	Channel          string `toml:"channel" json:"channel"`
	CheckIntervalSec int    `toml:"check_interval_sec" json:"check_interval_sec"`
}

// Defaults returns the compiled-in settings layer.
func Defaults() Settings {
	return Settings{
		Cloud: CloudSettings{
			BaseURL: "https://cloud.lattice-labs.io",
		},
		OctoPrint: OctoPrintSettings{
			Enabled: true,
			BaseURL: "http://localhost:5000",
		},
		Video: VideoSettings{
			Enabled: true,
			Src:     "/dev/video0",
			UDPPort: 20001,
		},
		Updates: UpdateSettings{
			Channel:          "stable",
			CheckIntervalSec: 3600,
		},
	}
}

var validChannels = map[string]bool{"stable": true, "beta": true, "nightly": true}

// Validate checks that the merged settings satisfy the schema.
func (s *Settings) Validate() error {
	if s.Cloud.BaseURL == "" {
		return fmt.Errorf("cloud.base_url is required")
	}
	if _, err := url.ParseRequestURI(s.Cloud.BaseURL); err != nil {
		return fmt.Errorf("cloud.base_url is not a valid URL: %w", err)
	}

	if s.OctoPrint.Enabled && s.OctoPrint.BaseURL == "" {
		return fmt.Errorf("octoprint.base_url is required when octoprint.enabled is true")
	}

	if s.Video.UDPPort < 1 || s.Video.UDPPort > 65535 {
		return fmt.Errorf("video.udp_port must be between 1 and 65535 (got %d)", s.Video.UDPPort)
	}

	if !validChannels[s.Updates.Channel] {
		return fmt.Errorf("invalid updates.channel: %s (must be stable, beta, or nightly)", s.Updates.Channel)
	}
	if s.Updates.CheckIntervalSec <= 0 {
		return fmt.Errorf("updates.check_interval_sec must be positive (got %d)", s.Updates.CheckIntervalSec)
	}

	return nil
}

// ToTOML serializes the settings to the canonical TOML form.
func (s *Settings) ToTOML() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return "", errors.ConfigError("failed to serialize settings to TOML", err)
	}
	return buf.String(), nil
}

// ToJSON serializes the settings to the pretty-printed display form.
func (s *Settings) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.ConfigError("failed to serialize settings to JSON", err)
	}
	return data, nil
}

// ParseTOML parses canonical TOML text into a Settings object.
func ParseTOML(text string) (*Settings, error) {
	var s Settings
	if _, err := toml.Decode(text, &s); err != nil {
		return nil, errors.ConfigError("failed to parse settings TOML", err)
	}
	return &s, nil
}

// asMap converts a Settings value to its document form by a TOML round
// trip, so the map layer and the typed struct can never drift apart.
func asMap(s Settings) (map[string]any, error) {
	text, err := (&s).ToTOML()
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if _, err := toml.Decode(text, &m); err != nil {
		return nil, errors.ConfigError("failed to build settings document", err)
	}
	return m, nil
}

// fromMap decodes a merged document into a typed Settings value.
// A wrong value type for a known key surfaces here as a decode error.
func fromMap(m map[string]any) (*Settings, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, errors.ConfigError("failed to encode merged settings", err)
	}
	var s Settings
	if _, err := toml.Decode(buf.String(), &s); err != nil {
		return nil, errors.ConfigError("merged settings failed schema decode", err)
	}
	return &s, nil
}
