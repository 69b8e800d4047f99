package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/sheetindex/internal/export"
	"github.com/jackzampolin/sheetindex/internal/server/endpoints"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export <outcomes.json>",
	Short: "Write a sheet index workbook from saved outcomes",
	Long: `Convert identify output saved as JSON (-o json) into an xlsx workbook.

Examples:
  sheetindex identify hits.json -o json > outcomes.json
  sheetindex export outcomes.json               # ~/.sheetindex/exports/<doc>.xlsx
  sheetindex export outcomes.json --xlsx a.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read outcomes: %w", err)
		}
		var resp endpoints.IdentifyResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return fmt.Errorf("failed to parse outcomes: %w", err)
		}
		if resp.DocumentID == "" {
			return fmt.Errorf("%s: missing document_id", args[0])
		}

		path := exportPath
		if path == "" {
			h, err := openHome()
			if err != nil {
				return err
			}
			path = h.ExportPath(resp.DocumentID)
		}
		if err := export.WriteWorkbook(path, resp.DocumentID, resp.Outcomes); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d pages)\n", path, len(resp.Outcomes))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPath, "xlsx", "", "Workbook path (default: home exports directory)")
	rootCmd.AddCommand(exportCmd)
}
