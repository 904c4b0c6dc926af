package settings

import (
	"strings"

	"github.com/lattice-labs/beacon-ctl/internal/config"
	"github.com/lattice-labs/beacon-ctl/internal/errors"
)

// Resolver merges the ordered settings layers into one effective
// settings object. It is pure: all persistence belongs to the
// versioned store.
type Resolver struct {
	layers []Layer
}

// NewResolver builds the standard layer chain, lowest precedence first:
// compiled-in defaults, the tracked settings file, the process
// environment.
func NewResolver(paths *config.Paths) *Resolver {
	return NewResolverFromEnviron(paths, nil)
}

// NewResolverFromEnviron is NewResolver with an explicit environment,
// for tests. A nil environ means the process environment.
func NewResolverFromEnviron(paths *config.Paths, environ []string) *Resolver {
	return &Resolver{
		layers: []Layer{
			defaultsLayer{},
			fileLayer{path: paths.SettingsFile()},
			envLayer{environ: environ},
		},
	}
}

func (r *Resolver) withLayer(l Layer) *Resolver {
	layers := make([]Layer, len(r.layers), len(r.layers)+1)
	copy(layers, r.layers)
	return &Resolver{layers: append(layers, l)}
}

// document folds the layer chain into a single merged document.
func (r *Resolver) document() (map[string]any, error) {
	merged := map[string]any{}
	for _, layer := range r.layers {
		values, err := layer.Values()
		if err != nil {
			return nil, err
		}
		mergeDocs(merged, values)
	}
	return merged, nil
}

// Resolve merges all layers and validates the result against the
// schema.
func (r *Resolver) Resolve() (*Settings, error) {
	doc, err := r.document()
	if err != nil {
		return nil, err
	}

	s, err := fromMap(doc)
	if err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, errors.ConfigError("invalid settings", err)
	}

	return s, nil
}

// FindValue looks up a dotted key inside the merged document without
// materializing the typed settings object.
func (r *Resolver) FindValue(key string) (any, error) {
	if err := config.ValidateSettingsKey(key); err != nil {
		return nil, errors.ValidationError(err.Error())
	}

	doc, err := r.document()
	if err != nil {
		return nil, err
	}

	var current any = doc
	for _, seg := range strings.Split(key, ".") {
		table, ok := current.(map[string]any)
		if !ok {
			return nil, errors.KeyNotFound(key)
		}
		current, ok = table[seg]
		if !ok {
			return nil, errors.KeyNotFound(key)
		}
	}
	return current, nil
}

// WithOverride resolves as if an additional top-precedence layer
// containing only the given key existed. No persisted layer is
// mutated; the raw value string is interpreted as the narrowest
// matching scalar.
func (r *Resolver) WithOverride(key, value string) (*Settings, error) {
	if err := config.ValidateSettingsKey(key); err != nil {
		return nil, errors.ValidationError(err.Error())
	}
	return r.withLayer(overrideLayer{key: key, value: parseScalar(value)}).Resolve()
}
