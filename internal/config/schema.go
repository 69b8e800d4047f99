package config

// Config holds sheetindex configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Providers map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults  DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
	Identify  IdentifyCfg            `mapstructure:"identify" yaml:"identify"`
	Server    ServerCfg              `mapstructure:"server" yaml:"server"`
}

// ProviderCfg configures a vision provider used for label detection and
// title-block re-reads.
type ProviderCfg struct {
	Type        string  `mapstructure:"type" yaml:"type"`                   // "openai"
	Model       string  `mapstructure:"model" yaml:"model"`                 // Model name
	APIKey      string  `mapstructure:"api_key" yaml:"api_key"`             // API key (supports ${ENV_VAR} syntax)
	RateLimit   float64 `mapstructure:"rate_limit" yaml:"rate_limit"`       // Requests per second
	CropMaxSide int     `mapstructure:"crop_max_side" yaml:"crop_max_side"` // Longest side of region crops
	Enabled     bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	Detector   string `mapstructure:"detector" yaml:"detector"`       // Provider used when a page has no hits
	Reader     string `mapstructure:"reader" yaml:"reader"`           // Provider used to re-read title blocks
	MaxWorkers int    `mapstructure:"max_workers" yaml:"max_workers"` // Page pool size (0 = NumCPU)
}

// IdentifyCfg tunes the page pipeline's provider round trips.
type IdentifyCfg struct {
	RetryAttempts uint    `mapstructure:"retry_attempts" yaml:"retry_attempts"`
	RetryDelayMS  int     `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms"`
	DPI           float64 `mapstructure:"dpi" yaml:"dpi"` // Render DPI assumed when sizes come from the PDF
}

// ServerCfg holds HTTP listen settings.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"openai": {
				Type:        "openai",
				Model:       "gpt-4o",
				APIKey:      "${OPENAI_API_KEY}",
				RateLimit:   2.0,
				CropMaxSide: 2048,
				Enabled:     true,
			},
		},
		Defaults: DefaultsCfg{
			Detector:   "openai",
			Reader:     "openai",
			MaxWorkers: 0,
		},
		Identify: IdentifyCfg{
			RetryAttempts: 3,
			RetryDelayMS:  500,
			DPI:           150,
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
	}
}

// GetProvider returns a provider config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// EnabledProviders returns all enabled providers.
func (c *Config) EnabledProviders() map[string]ProviderCfg {
	result := make(map[string]ProviderCfg)
	for name, cfg := range c.Providers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
