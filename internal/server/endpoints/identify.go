package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/sheetindex/internal/api"
	"github.com/jackzampolin/sheetindex/internal/config"
	"github.com/jackzampolin/sheetindex/internal/export"
	"github.com/jackzampolin/sheetindex/internal/hits"
	"github.com/jackzampolin/sheetindex/internal/identify"
	"github.com/jackzampolin/sheetindex/internal/jobs"
	"github.com/jackzampolin/sheetindex/internal/planset"
	"github.com/jackzampolin/sheetindex/internal/svcctx"
)

const (
	maxIdentifyBody = 256 << 20
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// IdentifyRequest is a page hits document plus optional page images.
// Images are keyed by page number and base64 encoded.
type IdentifyRequest struct {
	hits.Document
	Images map[string][]byte `json:"images,omitempty"`
}

// IdentifyResponse is the outcome of every page of a document, in page order.
type IdentifyResponse struct {
	DocumentID string             `json:"document_id"`
	Outcomes   []identify.Outcome `json:"outcomes"`
	Summary    identify.Summary   `json:"summary"`
}

// IdentifyEndpoint handles POST /api/identify.
type IdentifyEndpoint struct{}

func (e *IdentifyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/identify", e.handler
}

func (e *IdentifyEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Identify sheets
//	@Description	Runs every page of a hits document through the page pool and returns one outcome per page
//	@Tags			identify
//	@Accept			json
//	@Produce		json
//	@Produce		application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Param			body	body		IdentifyRequest	true	"Page hits document"
//	@Param			format	query		string			false	"Response format (json or xlsx)"
//	@Success		200		{object}	IdentifyResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/identify [post]
func (e *IdentifyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "xlsx" {
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIdentifyBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body: "+err.Error())
		return
	}
	doc, err := hits.Decode(bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var extra struct {
		Images map[string][]byte `json:"images"`
	}
	if err := json.Unmarshal(body, &extra); err != nil {
		writeError(w, http.StatusBadRequest, "invalid images: "+err.Error())
		return
	}

	pages, err := doc.IdentifyPages(false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for i := range pages {
		if img, ok := extra.Images[strconv.Itoa(pages[i].Num)]; ok {
			pages[i].Image = img
		}
	}

	pool := svcctx.PagePoolFrom(ctx)
	if pool == nil {
		writeError(w, http.StatusServiceUnavailable, "page pool not available")
		return
	}

	settings := config.DefaultConfig().Pipeline()
	if store := svcctx.ConfigStoreFrom(ctx); store != nil {
		if settings, err = config.StorePipelineSettings(ctx, store); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	logger := svcctx.LoggerFrom(ctx)
	icfg := identify.Config{
		DocumentID:    doc.DocumentID,
		Logger:        logger,
		RetryAttempts: settings.RetryAttempts,
		RetryDelay:    settings.RetryDelay,
	}
	if registry := svcctx.RegistryFrom(ctx); registry != nil {
		if missing := icfg.UseProviders(registry, settings.Detector, settings.Reader); len(missing) > 0 && logger != nil {
			logger.Debug("providers not registered, using supplied hits and candidates",
				"document_id", doc.DocumentID, "missing", missing)
		}
	}

	outcomes, err := pool.Process(ctx, identify.New(icfg), pages)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, jobs.ErrPoolClosed) || errors.Is(err, jobs.ErrPoolNotStarted) {
			status = http.StatusServiceUnavailable
		}
		writeError(w, status, err.Error())
		return
	}

	if format == "xlsx" {
		data, err := export.Workbook(doc.DocumentID, outcomes)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.DocumentID+".xlsx"))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	writeJSON(w, http.StatusOK, IdentifyResponse{
		DocumentID: doc.DocumentID,
		Outcomes:   outcomes,
		Summary:    identify.Summarize(outcomes),
	})
}

func (e *IdentifyEndpoint) Command(getServerURL func() string) *cobra.Command {
	var xlsxPath string
	var withImages bool
	cmd := &cobra.Command{
		Use:   "identify <hits.json>",
		Short: "Identify the sheets of a hits document on the server",
		Long: `Identify the sheets of a hits document on the server. With --xlsx the
server builds the sheet index workbook and it is written to the given path
(a directory gets the server's suggested filename).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			req, err := buildIdentifyRequest(args[0], withImages)
			if err != nil {
				return err
			}
			client := NewClient(getServerURL())

			if xlsxPath == "" {
				resp, err := client.Identify(ctx, req)
				if err != nil {
					return err
				}
				return api.Output(resp)
			}

			data, name, err := client.IdentifyWorkbook(ctx, req)
			if err != nil {
				return err
			}
			path := xlsxPath
			if fi, err := os.Stat(path); err == nil && fi.IsDir() && name != "" {
				path = filepath.Join(path, filepath.Base(name))
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write workbook: %w", err)
			}
			return api.Output(map[string]string{"document_id": req.DocumentID, "workbook": path})
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write the server-built sheet index workbook to this path instead of printing outcomes")
	cmd.Flags().BoolVar(&withImages, "images", true, "Upload page images named in the document")
	return cmd
}

// buildIdentifyRequest loads a hits document and attaches its page images.
func buildIdentifyRequest(path string, withImages bool) (*IdentifyRequest, error) {
	doc, err := hits.Load(path)
	if err != nil {
		return nil, err
	}
	if doc.MissingRenderSize() && doc.Source != "" {
		if err := planset.FillRenderSizes(doc); err != nil {
			return nil, err
		}
	}
	req := &IdentifyRequest{Document: *doc}
	if !withImages {
		return req, nil
	}

	pages, err := doc.IdentifyPages(true)
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		if p.Image == nil {
			continue
		}
		if req.Images == nil {
			req.Images = make(map[string][]byte)
		}
		req.Images[strconv.Itoa(p.Num)] = p.Image
	}
	return req, nil
}
