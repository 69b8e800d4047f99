package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/sheetindex/internal/api"
	"github.com/jackzampolin/sheetindex/internal/config"
	"github.com/jackzampolin/sheetindex/internal/export"
	"github.com/jackzampolin/sheetindex/internal/hits"
	"github.com/jackzampolin/sheetindex/internal/identify"
	"github.com/jackzampolin/sheetindex/internal/jobs"
	"github.com/jackzampolin/sheetindex/internal/planset"
	"github.com/jackzampolin/sheetindex/internal/providers"
	"github.com/jackzampolin/sheetindex/internal/server/endpoints"
)

var (
	identifyXLSX    string
	identifyExport  bool
	identifyWorkers int
	identifyOffline bool
)

var identifyCmd = &cobra.Command{
	Use:   "identify <hits.json>",
	Short: "Identify the sheets of a plan set locally",
	Long: `Identify every page of a hits document without a running server.

The hits document lists each page's label hits and, optionally, its
rendered size, page image and pre-extracted candidates. Missing render
sizes are read from the source PDF named in the document.

Configured vision providers detect labels on pages without hits and
re-read the selected title block region. Use --offline to rely on the
document alone.

Examples:
  sheetindex identify hits.json                 # Print outcomes
  sheetindex identify hits.json --export        # Also write ~/.sheetindex/exports/<doc>.xlsx
  sheetindex identify hits.json --xlsx out.xlsx # Also write out.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		h, err := openHome()
		if err != nil {
			return err
		}
		cfgMgr, err := loadConfig(h)
		if err != nil {
			return err
		}
		cfg := cfgMgr.Get()
		settings := cfg.Pipeline()

		doc, err := hits.Load(args[0])
		if err != nil {
			return err
		}
		if doc.DPI == 0 {
			doc.DPI = settings.DPI
		}
		if doc.MissingRenderSize() && doc.Source != "" {
			if err := planset.FillRenderSizes(doc); err != nil {
				return err
			}
		}

		pages, err := doc.IdentifyPages(true)
		if err != nil {
			return err
		}

		var registry *providers.Registry
		if !identifyOffline {
			registry = providers.NewRegistry()
			registry.SetLogger(logger)
			registry.Reload(cfg.ToProviderRegistryConfig())
		}

		workers := identifyWorkers
		if workers == 0 {
			workers = settings.MaxWorkers
		}
		outcomes, err := runPages(ctx, logger, doc.DocumentID, settings, registry, workers, pages)
		if err != nil {
			return err
		}

		xlsxPath := identifyXLSX
		if xlsxPath == "" && identifyExport {
			xlsxPath = h.ExportPath(doc.DocumentID)
		}
		if xlsxPath != "" {
			if err := export.WriteWorkbook(xlsxPath, doc.DocumentID, outcomes); err != nil {
				return err
			}
			logger.Info("wrote sheet index", "path", xlsxPath)
		}

		return api.Output(endpoints.IdentifyResponse{
			DocumentID: doc.DocumentID,
			Outcomes:   outcomes,
			Summary:    identify.Summarize(outcomes),
		})
	},
}

// runPages identifies pages on a short-lived page pool.
func runPages(ctx context.Context, logger *slog.Logger, documentID string, settings config.PipelineSettings, registry *providers.Registry, workers int, pages []identify.Page) ([]identify.Outcome, error) {
	icfg := identify.Config{
		DocumentID:    documentID,
		Logger:        logger,
		RetryAttempts: settings.RetryAttempts,
		RetryDelay:    settings.RetryDelay,
	}
	if registry != nil {
		if missing := icfg.UseProviders(registry, settings.Detector, settings.Reader); len(missing) > 0 {
			logger.Warn("providers not configured, using supplied hits and candidates", "missing", missing)
		}
	}

	pool := jobs.NewPagePool(jobs.PagePoolConfig{
		Name:        "identify",
		Logger:      logger,
		WorkerCount: workers,
		QueueSize:   len(pages),
	})
	poolCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		pool.Start(poolCtx)
		close(done)
	}()
	defer func() {
		stop()
		<-done
	}()

	select {
	case <-pool.Ready():
	case <-ctx.Done():
		return nil, fmt.Errorf("page pool not started: %w", ctx.Err())
	}

	return pool.Process(ctx, identify.New(icfg), pages)
}

func init() {
	identifyCmd.Flags().StringVar(&identifyXLSX, "xlsx", "", "Write the sheet index workbook to this path")
	identifyCmd.Flags().BoolVar(&identifyExport, "export", false, "Write the sheet index workbook to the home exports directory")
	identifyCmd.Flags().IntVar(&identifyWorkers, "workers", 0, "Page workers (default: defaults.max_workers, then CPU count)")
	identifyCmd.Flags().BoolVar(&identifyOffline, "offline", false, "Do not call vision providers")

	rootCmd.AddCommand(identifyCmd)
}
