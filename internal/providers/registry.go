package providers

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Registry holds label detectors and region readers by name.
// It supports config-driven instantiation and hot-reload with thread-safe access.
type Registry struct {
	mu        sync.RWMutex
	detectors map[string]LabelDetector
	readers   map[string]RegionReader
	logger    *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		detectors: make(map[string]LabelDetector),
		readers:   make(map[string]RegionReader),
		logger:    slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterDetector registers a label detector by name.
func (r *Registry) RegisterDetector(name string, d LabelDetector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detectors[name] = d
	if r.logger != nil {
		r.logger.Info("registered label detector", "name", name)
	}
}

// RegisterReader registers a region reader by name.
func (r *Registry) RegisterReader(name string, rr RegionReader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readers[name] = rr
	if r.logger != nil {
		r.logger.Info("registered region reader", "name", name)
	}
}

// Unregister removes a provider by name from both roles.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.detectors, name)
	delete(r.readers, name)
	if r.logger != nil {
		r.logger.Info("unregistered provider", "name", name)
	}
}

// GetDetector returns a label detector by name.
func (r *Registry) GetDetector(name string) (LabelDetector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.detectors[name]
	if !ok {
		return nil, fmt.Errorf("label detector not found: %s", name)
	}
	return d, nil
}

// GetReader returns a region reader by name.
func (r *Registry) GetReader(name string) (RegionReader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rr, ok := r.readers[name]
	if !ok {
		return nil, fmt.Errorf("region reader not found: %s", name)
	}
	return rr, nil
}

// ListDetectors returns registered detector names in sorted order.
func (r *Registry) ListDetectors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.detectors)
}

// ListReaders returns registered reader names in sorted order.
func (r *Registry) ListReaders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.readers)
}

// HasDetector checks if a label detector is registered.
func (r *Registry) HasDetector(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.detectors[name]
	return ok
}

// HasReader checks if a region reader is registered.
func (r *Registry) HasReader(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.readers[name]
	return ok
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RegistryConfig defines the providers to instantiate from config.
type RegistryConfig struct {
	Providers map[string]ProviderConfig
}

// ProviderConfig matches config.ProviderCfg with a resolved API key.
type ProviderConfig struct {
	Type        string  // "openai"
	Model       string  // Model name
	APIKey      string  // Resolved API key
	RateLimit   float64 // Requests per second
	CropMaxSide int     // Longest crop side in pixels
	Enabled     bool
}

// NewRegistryFromConfig creates a registry with providers based on configuration.
// Only enabled providers with an API key are registered.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(cfg)
	return r
}

// Reload updates the registry based on new configuration.
// Providers that are no longer configured are unregistered and providers
// with changed settings are recreated.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := make(map[string]bool)
	for _, name := range sortedKeys(cfg.Providers) {
		provCfg := cfg.Providers[name]
		if !provCfg.Enabled || provCfg.APIKey == "" {
			continue
		}
		want[name] = true

		existing, hasExisting := r.detectors[name]
		if hasExisting && !needsUpdate(existing, provCfg) {
			continue
		}
		client := createProvider(provCfg)
		if client == nil {
			if r.logger != nil {
				r.logger.Warn("unknown provider type", "name", name, "type", provCfg.Type)
			}
			continue
		}
		r.detectors[name] = client
		r.readers[name] = client
		if r.logger != nil {
			if hasExisting {
				r.logger.Info("updated provider", "name", name, "type", provCfg.Type)
			} else {
				r.logger.Info("registered provider", "name", name, "type", provCfg.Type)
			}
		}
	}

	for _, name := range sortedKeys(r.detectors) {
		if want[name] || !isConfigured(r.detectors[name]) {
			continue
		}
		delete(r.detectors, name)
		delete(r.readers, name)
		if r.logger != nil {
			r.logger.Info("unregistered provider", "name", name)
		}
	}
}

// visionProvider is the set of roles a config-built provider fills.
type visionProvider interface {
	LabelDetector
	RegionReader
}

// TypeOpenAI is the provider type backed by OpenAIVisionClient.
const TypeOpenAI = "openai"

// KnownType reports whether Reload can build a provider of type t.
func KnownType(t string) bool {
	return t == TypeOpenAI
}

// createProvider creates a provider based on type.
func createProvider(cfg ProviderConfig) visionProvider {
	switch cfg.Type {
	case TypeOpenAI:
		return NewOpenAIVisionClient(OpenAIVisionConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			RateLimit:   cfg.RateLimit,
			CropMaxSide: cfg.CropMaxSide,
		})
	default:
		return nil
	}
}

// isConfigured reports whether a provider came from config, so Reload
// leaves hand-registered providers (mocks, tests) alone.
func isConfigured(d LabelDetector) bool {
	_, ok := d.(*OpenAIVisionClient)
	return ok
}

// needsUpdate checks if a provider needs to be recreated.
func needsUpdate(d LabelDetector, cfg ProviderConfig) bool {
	switch c := d.(type) {
	case *OpenAIVisionClient:
		model := cfg.Model
		if model == "" {
			model = openAIVisionDefaultModel
		}
		rate := cfg.RateLimit
		if rate <= 0 {
			rate = defaultRequestsPerSecond
		}
		return c.apiKey != cfg.APIKey ||
			c.model != model ||
			c.rateLimit != rate ||
			(cfg.CropMaxSide > 0 && c.cropMaxSide != cfg.CropMaxSide)
	default:
		return true
	}
}
