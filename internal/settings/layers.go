package settings

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lattice-labs/beacon-ctl/internal/config"
	"github.com/lattice-labs/beacon-ctl/internal/errors"
)

// Layer is one ordered source of settings values. Layers produce a
// nested document; the Resolver folds them lowest precedence first, so
// a later layer's keys override an earlier layer's identically-named
// keys.
type Layer interface {
	Name() string
	Values() (map[string]any, error)
}

// defaultsLayer exposes the compiled-in defaults.
type defaultsLayer struct{}

func (defaultsLayer) Name() string { return "defaults" }

func (defaultsLayer) Values() (map[string]any, error) {
	return asMap(Defaults())
}

// fileLayer parses the tracked TOML settings file. A missing file
// yields an empty layer (the checkout may not exist yet); an unparsable
// file is a ConfigError.
type fileLayer struct {
	path string
}

func (l fileLayer) Name() string { return "file:" + l.path }

func (l fileLayer) Values() (map[string]any, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, errors.ConfigError("failed to read settings file "+l.path, err)
	}

	var m map[string]any
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, errors.ConfigError("malformed settings file "+l.path, err)
	}
	return m, nil
}

// envLayer maps BEACON_* environment variables onto settings keys:
// BEACON_CLOUD_BASE_URL becomes cloud.base_url. The first underscore
// delimits the section; the remainder is the key within it.
// A nil environ means the process environment.
type envLayer struct {
	environ []string
}

func (envLayer) Name() string { return "env" }

func (l envLayer) Values() (map[string]any, error) {
	environ := l.environ
	if environ == nil {
		environ = os.Environ()
	}

	m := map[string]any{}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, config.EnvPrefix) {
			continue
		}

		section, rest, ok := strings.Cut(strings.TrimPrefix(name, config.EnvPrefix), "_")
		if !ok || section == "" || rest == "" {
			return nil, errors.ConfigError("invalid environment setting "+name, nil)
		}

		key := strings.ToLower(section) + "." + strings.ToLower(rest)
		setPath(m, key, parseScalar(value))
	}
	return m, nil
}

// overrideLayer is a top-precedence layer containing exactly one key.
type overrideLayer struct {
	key   string
	value any
}

func (l overrideLayer) Name() string { return "override:" + l.key }

func (l overrideLayer) Values() (map[string]any, error) {
	m := map[string]any{}
	setPath(m, l.key, l.value)
	return m, nil
}

// parseScalar interprets a string value from the environment or the
// command line as the narrowest matching TOML scalar.
func parseScalar(value string) any {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	return value
}

// setPath assigns value at a dotted key inside a nested document,
// creating intermediate tables as needed.
func setPath(m map[string]any, key string, value any) {
	segments := strings.Split(key, ".")
	for _, seg := range segments[:len(segments)-1] {
		next, ok := m[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[seg] = next
		}
		m = next
	}
	m[segments[len(segments)-1]] = value
}

// mergeDocs merges src into dst, src winning on conflicts. Tables merge
// recursively; everything else replaces wholesale.
func mergeDocs(dst, src map[string]any) {
	for k, sv := range src {
		if sm, ok := sv.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				mergeDocs(dm, sm)
				continue
			}
			copied := map[string]any{}
			mergeDocs(copied, sm)
			dst[k] = copied
			continue
		}
		dst[k] = sv
	}
}
