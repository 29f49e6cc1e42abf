package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// keyPattern validates the four-component "cc__bank__type__version" key
// grammar (§6): ISO-3166-1 alpha-2 country code, bank, account type, and a
// positive integer version, matched against the lowercased key.
var keyPattern = regexp.MustCompile(`^[a-z]{2}__[a-z0-9]+__[a-z0-9]+__[1-9][0-9]*$`)

// ValidateKey reports whether key matches the four-component grammar.
// Upper- and lowercase letters are both accepted.
func ValidateKey(key string) bool {
	key = strings.ToLower(key)
	if !keyPattern.MatchString(key) {
		return false
	}
	parts := strings.Split(key, "__")
	if len(parts) != 4 {
		return false
	}
	_, err := strconv.Atoi(parts[3])
	return err == nil
}

// Registry is an immutable, keyed collection of compiled configs.
type Registry struct {
	byKey map[string]*Compiled
	keys  []string
}

// NewRegistry builds a registry from a slice of configs, compiling regex
// fields once. Keys are stored lowercased. Configs with invalid keys or
// duplicate keys are rejected.
func NewRegistry(configs []Config) (*Registry, error) {
	r := &Registry{byKey: make(map[string]*Compiled)}
	for _, c := range configs {
		if !ValidateKey(c.Key) {
			return nil, fmt.Errorf("config %q: invalid key grammar", c.Key)
		}
		c.Key = strings.ToLower(c.Key)
		if _, exists := r.byKey[c.Key]; exists {
			return nil, fmt.Errorf("config %q: duplicate key", c.Key)
		}
		r.byKey[c.Key] = compile(c)
		r.keys = append(r.keys, c.Key)
	}
	return r, nil
}

// Get returns the compiled config for key.
func (r *Registry) Get(key string) (*Compiled, bool) {
	c, ok := r.byKey[key]
	return c, ok
}

// All returns every compiled config, in registration order.
func (r *Registry) All() []*Compiled {
	out := make([]*Compiled, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, r.byKey[k])
	}
	return out
}

// LoadDir reads every *.json file in dir as a Config and builds a
// Registry from them. This is intentionally thin: schema validation
// beyond what NewRegistry performs is out of scope for the core pipeline.
func LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config dir %q: %w", dir, err)
	}
	var configs []Config
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading config %q: %w", e.Name(), err)
		}
		var c Config
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing config %q: %w", e.Name(), err)
		}
		configs = append(configs, c)
	}
	return NewRegistry(configs)
}
