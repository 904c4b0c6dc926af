package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lattice-labs/beacon-ctl/internal/errors"
)

// Format names an output serialization for settings commands.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatINI  Format = "ini"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a --format flag value into a Format.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatJSON, FormatTOML, FormatINI, FormatYAML:
		return Format(value), nil
	default:
		return "", errors.ValidationError(fmt.Sprintf("unknown format: %s (must be json, toml, ini, or yaml)", value))
	}
}

// Render serializes the effective settings in the requested format.
// INI and YAML are recognized format names but intentionally fail
// rather than silently falling back to another format.
func Render(s *Settings, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return s.ToJSON()
	case FormatTOML:
		text, err := s.ToTOML()
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	default:
		return nil, errors.ValidationError(fmt.Sprintf("output format %q is recognized but not implemented", f))
	}
}

// RenderValue serializes a single looked-up value in the requested
// format. Scalars have no top-level TOML representation, so they are
// rendered as a key/value pair under the key's last segment.
func RenderValue(key string, value any, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, errors.ConfigError("failed to serialize value to JSON", err)
		}
		return data, nil
	case FormatTOML:
		doc, ok := value.(map[string]any)
		if !ok {
			segments := strings.Split(key, ".")
			doc = map[string]any{segments[len(segments)-1]: value}
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, errors.ConfigError("failed to serialize value to TOML", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.ValidationError(fmt.Sprintf("output format %q is recognized but not implemented", f))
	}
}
