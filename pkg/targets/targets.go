package targets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/samvad-hq/netter/pkg/netter"
	"gopkg.in/yaml.v3"
)

// Package targets loads the JSON endpoints the poller watches (YAML/JSON).

const defaultRequestDelayMs = 250

// Target is one JSON endpoint declared in the targets file.
type Target struct {
	ID             string            `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Body           string            `json:"body" yaml:"body"`
	Form           map[string]string `json:"form" yaml:"form"`
	RequestDelayMs int               `json:"request_delay_ms" yaml:"request_delay_ms"`
	Enabled        *bool             `json:"enabled" yaml:"enabled"`
}

type configFile struct {
	Targets []Target `json:"targets" yaml:"targets"`
}

// Registry holds the targets loaded from a config file.
type Registry struct {
	mu      sync.RWMutex
	targets []Target
	idx     map[string]Target
}

// LoadRegistry loads the targets registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("targets file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	parsed, err := parseTargets(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(parsed.Targets)
}

// NewRegistry validates and indexes targets.
func NewRegistry(list []Target) (*Registry, error) {
	if len(list) == 0 {
		return nil, errors.New("targets file contains no targets entries")
	}

	reg := &Registry{
		targets: make([]Target, len(list)),
		idx:     make(map[string]Target, len(list)),
	}
	for i := range list {
		t := sanitizeTarget(list[i])
		if err := validateTarget(t); err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		if _, exists := reg.idx[t.ID]; exists {
			return nil, fmt.Errorf("duplicate target id %q", t.ID)
		}
		reg.targets[i] = t
		reg.idx[t.ID] = t
	}
	return reg, nil
}

func parseTargets(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if cfg, err := unmarshalTargets(d.name, data, d.fn); err == nil {
			return cfg, nil
		}
	}

	return configFile{}, errors.New("targets file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalTargets(name string, data []byte, fn unmarshalFn) (configFile, error) {
	var cfg configFile
	if err := fn(data, &cfg); err != nil {
		return configFile{}, fmt.Errorf("decode %s targets: %w", name, err)
	}
	return cfg, nil
}

func sanitizeTarget(t Target) Target {
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.URL = strings.TrimSpace(t.URL)
	t.Method = strings.ToUpper(strings.TrimSpace(t.Method))
	if t.Method == "" {
		t.Method = string(netter.GET)
	}
	if t.Name == "" {
		t.Name = t.ID
	}
	if t.RequestDelayMs <= 0 {
		t.RequestDelayMs = defaultRequestDelayMs
	}
	if t.Enabled == nil {
		def := true
		t.Enabled = &def
	}
	return t
}

func validateTarget(t Target) error {
	if t.ID == "" {
		return errors.New("id is required")
	}
	if t.URL == "" {
		return fmt.Errorf("url is required for target %q", t.ID)
	}
	u, err := url.Parse(t.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url %q is not absolute for target %q", t.URL, t.ID)
	}
	m, err := netter.ParseMethod(t.Method)
	if err != nil {
		return fmt.Errorf("target %q: %w", t.ID, err)
	}
	if m == netter.GET && (t.Body != "" || len(t.Form) > 0) {
		return fmt.Errorf("target %q: GET targets cannot carry a body", t.ID)
	}
	if t.Body != "" && len(t.Form) > 0 {
		return fmt.Errorf("target %q: body and form are mutually exclusive", t.ID)
	}
	return nil
}

// ByID returns the target with the given id.
func (r *Registry) ByID(id string) (Target, bool) {
	if r == nil {
		return Target{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Target{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.idx[id]
	return t, ok
}

// All returns every configured target.
func (r *Registry) All() []Target {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// Enabled returns targets that are enabled.
func (r *Registry) Enabled() []Target {
	all := r.All()
	out := make([]Target, 0, len(all))
	for _, t := range all {
		if t.EnabledValue() {
			out = append(out, t)
		}
	}
	return out
}

// EnabledValue returns the enabled flag defaulting to true.
func (t Target) EnabledValue() bool {
	if t.Enabled == nil {
		return true
	}
	return *t.Enabled
}

// RequestDelay returns the pause to observe after polling the target.
func (t Target) RequestDelay() time.Duration {
	if t.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(t.RequestDelayMs) * time.Millisecond
}

// Descriptor builds the request descriptor for the target, attaching the
// raw body or the url-encoded form when present.
func (t Target) Descriptor() (netter.Descriptor, error) {
	m, err := netter.ParseMethod(t.Method)
	if err != nil {
		return netter.Descriptor{}, err
	}
	desc, err := netter.Build(m)
	if err != nil {
		return netter.Descriptor{}, err
	}

	switch {
	case t.Body != "":
		desc = desc.WithBody([]byte(t.Body))
	case len(t.Form) > 0:
		form := url.Values{}
		for k, v := range t.Form {
			form.Set(k, v)
		}
		desc = desc.WithBody([]byte(form.Encode()))
	}
	return desc, nil
}
