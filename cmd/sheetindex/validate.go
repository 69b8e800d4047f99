package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/sheetindex/internal/api"
	"github.com/jackzampolin/sheetindex/internal/server/endpoints"
	"github.com/jackzampolin/sheetindex/internal/sheetid"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate sheet number and title candidates locally",
	Long: `Normalize and validate candidate strings without a server.

Candidates are given in precedence order; the chosen candidate is the
best valid one, ties going to the earliest.

Examples:
  sheetindex validate number "SHEET NO. A-101" A101
  sheetindex validate title "FIRST FLOOR PLAN" "SCALE: 1/4"`,
}

var validateNumberCmd = &cobra.Command{
	Use:   "number <candidate>...",
	Short: "Validate sheet-number candidates",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := sheetid.ValidateNumbers(args)
		resp := endpoints.NumberValidationResponse{Results: results}
		if best, _, ok := sheetid.ChooseBest(results); ok {
			resp.Chosen = &best
			resp.Discipline = sheetid.InferDiscipline(best.Value)
		}
		return api.Output(resp)
	},
}

var validateTitleCmd = &cobra.Command{
	Use:   "title <candidate>...",
	Short: "Validate sheet-title candidates",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := sheetid.ValidateTitles(args)
		resp := endpoints.TitleValidationResponse{Results: results}
		if best, _, ok := sheetid.ChooseBest(results); ok {
			resp.Chosen = &best
		}
		return api.Output(resp)
	},
}

func init() {
	validateCmd.AddCommand(validateNumberCmd)
	validateCmd.AddCommand(validateTitleCmd)
	rootCmd.AddCommand(validateCmd)
}
