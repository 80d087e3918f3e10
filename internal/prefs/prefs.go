// Package prefs is a small key-value preference file, the terminal
// counterpart of a mobile app's shared preferences. Values live in a YAML
// mapping; readers get a caller-supplied default for anything missing or of
// the wrong type.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrMalformed is returned by Open when the file exists but is not a YAML
// mapping. The returned Prefs is still usable and starts empty.
var ErrMalformed = errors.New("prefs: malformed file")

// Prefs holds preference values. Safe for concurrent use.
type Prefs struct {
	mu     sync.Mutex
	path   string
	values map[string]any
}

// New returns in-memory preferences; Save is a no-op.
func New() *Prefs {
	return &Prefs{values: make(map[string]any)}
}

// Open loads preferences from path. A missing file yields empty preferences.
func Open(path string) (*Prefs, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("prefs: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	p := &Prefs{path: path, values: make(map[string]any)}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("prefs: cannot read %s: %w", path, err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return p, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	if values != nil {
		p.values = values
	}
	return p, nil
}

// Path returns the backing file, or "" for in-memory preferences.
func (p *Prefs) Path() string {
	return p.path
}

// GetString returns the string at key, or def.
func (p *Prefs) GetString(key, def string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.values[key].(string); ok {
		return s
	}
	return def
}

// GetInt returns the integer at key, or def. Numeric strings are accepted.
func (p *Prefs) GetInt(key string, def int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch v := p.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// GetFloat returns the number at key, or def.
func (p *Prefs) GetFloat(key string, def float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch v := p.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// GetStringSet returns the set at key in insertion order. Non-string
// members are skipped.
func (p *Prefs) GetStringSet(key string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	list, ok := p.values[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// PutString sets key to a string.
func (p *Prefs) PutString(key, value string) {
	p.put(key, value)
}

// PutInt sets key to an integer.
func (p *Prefs) PutInt(key string, value int) {
	p.put(key, value)
}

// PutFloat sets key to a number.
func (p *Prefs) PutFloat(key string, value float64) {
	p.put(key, value)
}

// PutStringSet stores members as a set: duplicates keep their first position.
func (p *Prefs) PutStringSet(key string, members []string) {
	seen := make(map[string]bool, len(members))
	list := make([]any, 0, len(members))
	for _, m := range members {
		if seen[m] {
			continue
		}
		seen[m] = true
		list = append(list, m)
	}
	p.put(key, list)
}

// Remove deletes key.
func (p *Prefs) Remove(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, key)
}

// Keys returns all keys, sorted.
func (p *Prefs) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (p *Prefs) put(key string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
}

// Save writes the preferences to disk, replacing the file atomically.
func (p *Prefs) Save() error {
	if p.path == "" {
		return nil
	}

	p.mu.Lock()
	data, err := yaml.Marshal(p.values)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("prefs: cannot encode: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prefs: cannot create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*")
	if err != nil {
		return fmt.Errorf("prefs: cannot write: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("prefs: cannot write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("prefs: cannot write: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("prefs: cannot replace %s: %w", p.path, err)
	}
	return nil
}
