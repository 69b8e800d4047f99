package config

import (
	"context"
	"fmt"
	"time"
)

// PipelineSettings are the page pipeline knobs shared by the CLI and server.
type PipelineSettings struct {
	Detector      string
	Reader        string
	MaxWorkers    int
	RetryAttempts uint
	RetryDelay    time.Duration
	DPI           float64
}

// Pipeline returns the pipeline settings in c.
func (c *Config) Pipeline() PipelineSettings {
	return PipelineSettings{
		Detector:      c.Defaults.Detector,
		Reader:        c.Defaults.Reader,
		MaxWorkers:    c.Defaults.MaxWorkers,
		RetryAttempts: c.Identify.RetryAttempts,
		RetryDelay:    time.Duration(c.Identify.RetryDelayMS) * time.Millisecond,
		DPI:           c.Identify.DPI,
	}
}

// StorePipelineSettings reads the pipeline settings from the store.
// Missing keys read as zero values.
func StorePipelineSettings(ctx context.Context, store Store) (PipelineSettings, error) {
	all, err := store.GetAll(ctx)
	if err != nil {
		return PipelineSettings{}, fmt.Errorf("failed to get config: %w", err)
	}
	values := make(map[string]any, len(all))
	for k, e := range all {
		values[k] = e.Value
	}

	attempts := getFloat(values, "identify.retry_attempts")
	if attempts < 0 {
		attempts = 0
	}
	return PipelineSettings{
		Detector:      getString(values, "defaults.detector"),
		Reader:        getString(values, "defaults.reader"),
		MaxWorkers:    int(getFloat(values, "defaults.max_workers")),
		RetryAttempts: uint(attempts),
		RetryDelay:    time.Duration(getFloat(values, "identify.retry_delay_ms")) * time.Millisecond,
		DPI:           getFloat(values, "identify.dpi"),
	}, nil
}
