package endpoints

import (
	"github.com/jackzampolin/sheetindex/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},

		// Identification
		&IdentifyEndpoint{},

		// Validation endpoints
		&ValidateNumberEndpoint{},
		&ValidateTitleEndpoint{},
		&ReasonsEndpoint{},

		// Settings endpoints
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},
		&UpdateSettingEndpoint{},
		&ResetSettingEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	}
}

// TopLevelCommands returns endpoints whose commands sit directly under "api".
func TopLevelCommands(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{},
		&IdentifyEndpoint{},
		&ReasonsEndpoint{},
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},
	}
}

// SettingsCommands returns endpoints for settings operations.
// This groups settings-related commands under "settings" subcommand.
func SettingsCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},
		&UpdateSettingEndpoint{},
		&ResetSettingEndpoint{},
	}
}

// ValidateCommands returns endpoints for candidate validation.
// This groups them under "validate" subcommand.
func ValidateCommands() []api.Endpoint {
	return []api.Endpoint{
		&ValidateNumberEndpoint{},
		&ValidateTitleEndpoint{},
	}
}
