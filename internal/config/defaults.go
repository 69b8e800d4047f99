package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// DefaultEntries returns the default configuration entries.
// These are seeded into the settings store on server start.
func DefaultEntries() []Entry {
	return []Entry{
		// ===================
		// Providers
		// ===================

		// Providers - OpenAI vision
		{
			Key:         "providers.openai.type",
			Value:       "openai",
			Description: "Provider type for OpenAI vision",
		},
		{
			Key:         "providers.openai.model",
			Value:       "gpt-4o",
			Description: "Vision model used for label detection and title-block reads",
		},
		{
			Key:         "providers.openai.api_key",
			Value:       "${OPENAI_API_KEY}",
			Description: "OpenAI API key (uses environment variable)",
		},
		{
			Key:         "providers.openai.rate_limit",
			Value:       2.0,
			Description: "Rate limit in requests per second for OpenAI",
		},
		{
			Key:         "providers.openai.crop_max_side",
			Value:       2048,
			Description: "Longest side in pixels of title-block crops sent to OpenAI",
		},
		{
			Key:         "providers.openai.enabled",
			Value:       true,
			Description: "Whether the OpenAI vision provider is enabled",
		},

		// ===================
		// Pipeline Defaults
		// ===================
		{
			Key:         "defaults.detector",
			Value:       "openai",
			Description: "Label detector used for pages submitted without hits",
		},
		{
			Key:         "defaults.reader",
			Value:       "openai",
			Description: "Region reader used to re-read title blocks (empty disables)",
		},
		{
			Key:         "defaults.max_workers",
			Value:       0,
			Description: "Page pool workers (0 uses one per CPU)",
		},
		{
			Key:         "identify.retry_attempts",
			Value:       3,
			Description: "Attempts per provider round trip",
		},
		{
			Key:         "identify.retry_delay_ms",
			Value:       500,
			Description: "Base backoff delay between provider attempts",
		},
		{
			Key:         "identify.dpi",
			Value:       150.0,
			Description: "Render DPI assumed when page sizes come from the plan set PDF",
		},
	}
}

// SeedDefaults seeds default configuration entries into the store.
// This is idempotent - existing entries are not overwritten.
func SeedDefaults(ctx context.Context, store Store, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultEntries()
	seeded := 0
	skipped := 0

	for _, entry := range defaults {
		// Check if key already exists
		existing, err := store.Get(ctx, entry.Key)
		if err != nil {
			return fmt.Errorf("failed to check key %q: %w", entry.Key, err)
		}

		if existing != nil {
			skipped++
			continue
		}

		// Create the entry
		if err := store.Set(ctx, entry.Key, entry.Value, entry.Description); err != nil {
			return fmt.Errorf("failed to seed key %q: %w", entry.Key, err)
		}
		seeded++
	}

	if seeded > 0 {
		logger.Info("seeded default config entries", "seeded", seeded, "skipped", skipped)
	}
	return nil
}

// GetDefault returns the default value for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// ResetToDefault resets a config key to its default value.
// Returns ErrNoDefault if no default exists for the key.
func ResetToDefault(ctx context.Context, store Store, key string) error {
	def := GetDefault(key)
	if def == nil {
		return fmt.Errorf("%w for key %q", ErrNoDefault, key)
	}
	return store.Set(ctx, key, def.Value, def.Description)
}
