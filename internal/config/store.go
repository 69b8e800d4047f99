package config

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"
	"unicode"

	"github.com/jackzampolin/sheetindex/internal/providers"
)

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	// Don't allow keys starting or ending with dots
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}

// Store provides access to runtime settings.
type Store interface {
	// Get returns a single config entry by key, or nil if absent.
	Get(ctx context.Context, key string) (*Entry, error)

	// Set creates or updates a config entry.
	Set(ctx context.Context, key string, value any, description string) error

	// GetAll returns all config entries.
	GetAll(ctx context.Context) (map[string]Entry, error)

	// GetByPrefix returns config entries matching the prefix.
	GetByPrefix(ctx context.Context, prefix string) (map[string]Entry, error)

	// Delete removes a config entry.
	Delete(ctx context.Context, key string) error
}

// Entry represents a single configuration entry.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// MapStore implements Store in memory. Settings live for the lifetime of
// the server process.
type MapStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStore creates an empty in-memory settings store.
func NewStore() *MapStore {
	return &MapStore{entries: make(map[string]Entry)}
}

// Get returns a single config entry by key.
func (s *MapStore) Get(ctx context.Context, key string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, nil // Not found
	}
	return &e, nil
}

// Set creates or updates a config entry.
func (s *MapStore) Set(ctx context.Context, key string, value any, description string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if description == "" {
		description = s.entries[key].Description
	}
	s.entries[key] = Entry{Key: key, Value: value, Description: description}
	return nil
}

// GetAll returns a copy of all config entries.
func (s *MapStore) GetAll(ctx context.Context) (map[string]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.entries), nil
}

// GetByPrefix returns config entries matching the prefix.
func (s *MapStore) GetByPrefix(ctx context.Context, prefix string) (map[string]Entry, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]Entry)
	for key, entry := range all {
		if strings.HasPrefix(key, prefix) {
			result[key] = entry
		}
	}
	return result, nil
}

// Delete removes a config entry by key.
func (s *MapStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// SeedFromConfig writes the provider and pipeline settings of cfg into the
// store, overwriting existing values.
func SeedFromConfig(ctx context.Context, store Store, cfg *Config) error {
	for _, e := range ConfigEntries(cfg) {
		if err := store.Set(ctx, e.Key, e.Value, e.Description); err != nil {
			return fmt.Errorf("failed to set %q: %w", e.Key, err)
		}
	}
	return nil
}

// ConfigEntries flattens cfg into store entries.
func ConfigEntries(cfg *Config) []Entry {
	var entries []Entry
	for name, p := range cfg.Providers {
		prefix := "providers." + name + "."
		entries = append(entries,
			Entry{Key: prefix + "type", Value: p.Type, Description: describe(prefix + "type")},
			Entry{Key: prefix + "model", Value: p.Model, Description: describe(prefix + "model")},
			Entry{Key: prefix + "api_key", Value: p.APIKey, Description: describe(prefix + "api_key")},
			Entry{Key: prefix + "rate_limit", Value: p.RateLimit, Description: describe(prefix + "rate_limit")},
			Entry{Key: prefix + "crop_max_side", Value: p.CropMaxSide, Description: describe(prefix + "crop_max_side")},
			Entry{Key: prefix + "enabled", Value: p.Enabled, Description: describe(prefix + "enabled")},
		)
	}
	entries = append(entries,
		Entry{Key: "defaults.detector", Value: cfg.Defaults.Detector, Description: describe("defaults.detector")},
		Entry{Key: "defaults.reader", Value: cfg.Defaults.Reader, Description: describe("defaults.reader")},
		Entry{Key: "defaults.max_workers", Value: cfg.Defaults.MaxWorkers, Description: describe("defaults.max_workers")},
		Entry{Key: "identify.retry_attempts", Value: int(cfg.Identify.RetryAttempts), Description: describe("identify.retry_attempts")},
		Entry{Key: "identify.retry_delay_ms", Value: cfg.Identify.RetryDelayMS, Description: describe("identify.retry_delay_ms")},
		Entry{Key: "identify.dpi", Value: cfg.Identify.DPI, Description: describe("identify.dpi")},
	)
	return entries
}

// describe returns the default description for key, if any.
func describe(key string) string {
	if def := GetDefault(key); def != nil {
		return def.Description
	}
	return ""
}

// StoreToProviderRegistryConfig builds a RegistryConfig from the Store.
// It reads all config entries and constructs the provider configuration,
// resolving ${ENV_VAR} references in API keys.
func StoreToProviderRegistryConfig(ctx context.Context, store Store) (providers.RegistryConfig, error) {
	cfg := providers.RegistryConfig{
		Providers: make(map[string]providers.ProviderConfig),
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		return cfg, fmt.Errorf("failed to get config: %w", err)
	}

	// Parse providers: providers.<name>.<field>
	for name, fields := range extractProviders(all, "providers.") {
		cfg.Providers[name] = providers.ProviderConfig{
			Type:        getString(fields, "type"),
			Model:       getString(fields, "model"),
			APIKey:      ResolveEnvVars(getString(fields, "api_key")),
			RateLimit:   getFloat(fields, "rate_limit"),
			CropMaxSide: int(getFloat(fields, "crop_max_side")),
			Enabled:     getBool(fields, "enabled"),
		}
	}

	return cfg, nil
}

// extractProviders groups config entries by provider name.
// For example, "providers.openai.type" becomes openai -> {type: value}
func extractProviders(entries map[string]Entry, prefix string) map[string]map[string]any {
	result := make(map[string]map[string]any)

	for key, entry := range entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		// Remove prefix and split: "openai.type" -> ["openai", "type"]
		remainder := strings.TrimPrefix(key, prefix)
		parts := strings.SplitN(remainder, ".", 2)
		if len(parts) != 2 {
			continue
		}

		providerName := parts[0]
		fieldName := parts[1]

		if result[providerName] == nil {
			result[providerName] = make(map[string]any)
		}
		result[providerName][fieldName] = entry.Value
	}

	return result
}

// Helper functions to extract typed values from a map
func getString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func getFloat(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func getBool(m map[string]any, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}
