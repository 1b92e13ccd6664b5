// Package registry maps model identifiers to backend endpoint URLs.
//
// A Registry is built once at startup and is read-only afterwards, so it is
// safe to share between goroutines without locking.
package registry

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

type Registry struct {
	endpoints map[string]string
}

// New copies entries into a new Registry.
func New(entries map[string]string) *Registry {
	m := make(map[string]string, len(entries))
	for id, url := range entries {
		m[id] = url
	}
	return &Registry{endpoints: m}
}

// Default returns the two example backends.
func Default() *Registry {
	return New(DefaultEndpoints())
}

func DefaultEndpoints() map[string]string {
	return map[string]string{
		"model_a": "https://api.modela.com/v1/generate",
		"model_b": "https://api.modelb.com/v1/generate",
	}
}

// Lookup returns the endpoint registered for modelID.
func (r *Registry) Lookup(modelID string) (string, bool) {
	url, ok := r.endpoints[modelID]
	return url, ok
}

// Models returns the registered ids in sorted order.
func (r *Registry) Models() []string {
	out := make([]string, 0, len(r.endpoints))
	for id := range r.endpoints {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Len() int { return len(r.endpoints) }

type fileEntry struct {
	Endpoint string `yaml:"endpoint"`
}

type file struct {
	Backends map[string]fileEntry `yaml:"backends"`
}

// LoadFile reads a YAML registry file:
//
//	backends:
//	  model_a:
//	    endpoint: https://api.modela.com/v1/generate
func LoadFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file %s: %w", path, err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", path, err)
	}
	out := make(map[string]string, len(f.Backends))
	for id, e := range f.Backends {
		if e.Endpoint == "" {
			return nil, fmt.Errorf("registry file %s: backend %q has no endpoint", path, id)
		}
		out[id] = e.Endpoint
	}
	return out, nil
}

// Build layers the registry sources. The example defaults apply only when
// configured is empty; entries from the file at path (if any) win over
// configured ones.
func Build(configured map[string]string, path string) (*Registry, error) {
	merged := make(map[string]string)
	if len(configured) == 0 {
		for id, url := range DefaultEndpoints() {
			merged[id] = url
		}
	}
	for id, url := range configured {
		merged[id] = url
	}
	if path != "" {
		fromFile, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		for id, url := range fromFile {
			merged[id] = url
		}
	}
	return New(merged), nil
}
