package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/sheetindex/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running sheetindex server via HTTP.

These commands require a running server (sheetindex serve).
Use --server to specify a custom server URL.

Examples:
  sheetindex api health                   # Check server health
  sheetindex api identify hits.json       # Identify sheets on the server
  sheetindex api validate number A-101    # Validate a sheet number
  sheetindex api settings list            # List settings`,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Configuration settings commands",
}

var apiValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Sheet number and title validation commands",
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	for _, ep := range endpoints.TopLevelCommands(endpoints.Config{}) {
		apiCmd.AddCommand(ep.Command(getServerURL))
	}
	for _, ep := range endpoints.SettingsCommands() {
		settingsCmd.AddCommand(ep.Command(getServerURL))
	}
	for _, ep := range endpoints.ValidateCommands() {
		apiValidateCmd.AddCommand(ep.Command(getServerURL))
	}

	apiCmd.AddCommand(settingsCmd)
	apiCmd.AddCommand(apiValidateCmd)
	rootCmd.AddCommand(apiCmd)
}
