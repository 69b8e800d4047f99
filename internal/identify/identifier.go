package identify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/sheetindex/internal/geometry"
	"github.com/jackzampolin/sheetindex/internal/providers"
	"github.com/jackzampolin/sheetindex/internal/titleblock"
)

const (
	defaultRetryAttempts = 3
	defaultRetryDelay    = 500 * time.Millisecond
)

// Config configures an Identifier.
type Config struct {
	// DocumentID scopes evidence refs.
	DocumentID string

	// Detector finds label hits on pages that arrive without any.
	// Optional.
	Detector providers.LabelDetector

	// Reader re-reads the selected region. Optional; without it the
	// page's supplied candidates and cluster member text are used.
	Reader providers.RegionReader

	Logger *slog.Logger

	// Retry policy for the detection and re-extraction round trips.
	RetryAttempts uint
	RetryDelay    time.Duration
}

// Page is the input for one page.
type Page struct {
	Num     int                   `json:"page_num"`
	RenderW float64               `json:"render_width"`
	RenderH float64               `json:"render_height"`
	Hits    []titleblock.LabelHit `json:"hits"`

	// Image is the rendered page, needed only by the external providers.
	Image []byte `json:"-"`

	// Candidates already read for this page, lower precedence than a
	// fresh region read.
	NumberCandidates []string `json:"number_candidates,omitempty"`
	TitleCandidates  []string `json:"title_candidates,omitempty"`
}

// Identifier runs the page pipeline. It is safe for concurrent use when
// its providers are.
type Identifier struct {
	documentID    string
	detector      providers.LabelDetector
	reader        providers.RegionReader
	logger        *slog.Logger
	retryAttempts uint
	retryDelay    time.Duration
}

// New creates an Identifier.
func New(cfg Config) *Identifier {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RetryAttempts == 0 {
		cfg.RetryAttempts = defaultRetryAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	return &Identifier{
		documentID:    cfg.DocumentID,
		detector:      cfg.Detector,
		reader:        cfg.Reader,
		logger:        cfg.Logger.With("component", "identify", "document_id", cfg.DocumentID),
		retryAttempts: cfg.RetryAttempts,
		retryDelay:    cfg.RetryDelay,
	}
}

// DocumentID returns the document the identifier scopes evidence refs to.
func (id *Identifier) DocumentID() string {
	return id.documentID
}

// IdentifyPage runs one page through the pipeline. It never panics and
// never returns an empty outcome: faults come back as Status error with
// reason internal_error.
func (id *Identifier) IdentifyPage(ctx context.Context, page Page) (out Outcome) {
	logger := id.logger.With("page", page.Num)
	stage := StageRawHits

	defer func() {
		if r := recover(); r != nil {
			logger.Error("page identification panicked", "stage", stage, "panic", r)
			out = internalError(page.Num, stage, fmt.Sprintf("panic: %v", r))
		}
	}()

	hits := page.Hits
	if len(hits) == 0 && id.detector != nil && len(page.Image) > 0 {
		det, err := id.detect(ctx, page)
		if err != nil {
			logger.Error("label detection failed", "error", err)
			return internalError(page.Num, stage, fmt.Sprintf("label detection: %v", err))
		}
		hits = det.Hits
		if page.RenderW == 0 && page.RenderH == 0 {
			page.RenderW, page.RenderH = det.RenderWidth, det.RenderHeight
		}
	}

	stage = StageClustered
	loc, err := Locate(hits, page.RenderW, page.RenderH)
	if err != nil {
		logger.Warn("malformed page input", "error", err)
		return internalError(page.Num, stage, err.Error())
	}
	if !loc.Found {
		detail := fmt.Sprintf("no eligible title-block cluster among %d label hits", len(hits))
		if len(hits) < 2 {
			detail = fmt.Sprintf("fewer than 2 label hits (%d)", len(hits))
		}
		logger.Info("no title block", "hits", len(hits))
		return Outcome{PageNum: page.Num, Status: StatusNoTitleBlock, Stage: stage, Detail: detail}
	}

	stage = StageSelectedRegion
	cluster, region := loc.Cluster, loc.Region
	logger.Debug("title block selected",
		"clusters", len(loc.Clusters),
		"why", cluster.WhySelected,
		"region", region)

	var numbers, titles []string
	if id.reader != nil && len(page.Image) > 0 {
		text, err := id.readRegion(ctx, page, logger, region)
		switch {
		case err == nil:
			numbers = append(numbers, text.NumberCandidates...)
			titles = append(titles, text.TitleCandidates...)
		case ctx.Err() != nil:
			return internalError(page.Num, stage, fmt.Sprintf("region read cancelled: %v", ctx.Err()))
		default:
			logger.Warn("region read failed, using cluster text", "error", err)
		}
	}

	stage = StageRawCandidates
	memberNumbers, memberTitles := MemberCandidates(cluster)
	numbers = append(append(numbers, page.NumberCandidates...), memberNumbers...)
	titles = append(append(titles, page.TitleCandidates...), memberTitles...)

	out = Resolve(page.Num, numbers, titles)
	out.Cluster = &cluster
	out.Region = &region
	if out.Entry != nil {
		ref := EvidenceRef(id.documentID, page.Num, region)
		out.Entry.EvidenceSnipRef = &ref
	}

	if out.Identified() {
		logger.Info("page identified",
			"sheet_id", out.Entry.SheetID,
			"discipline", out.Entry.Discipline,
			"confidence", out.Entry.Confidence)
	} else {
		logger.Info("page not identified",
			"status", out.Status,
			"reason", out.Reason,
			"detail", out.Detail)
	}
	return out
}

func (id *Identifier) detect(ctx context.Context, page Page) (*providers.DetectResult, error) {
	return retry.DoWithData(
		func() (*providers.DetectResult, error) {
			return id.detector.DetectLabels(ctx, page.Image, page.Num)
		},
		id.retryOptions(ctx, id.logger.With("page", page.Num, "call", "detect"))...,
	)
}

func (id *Identifier) readRegion(ctx context.Context, page Page, logger *slog.Logger, region geometry.PixelBox) (*providers.RegionText, error) {
	return retry.DoWithData(
		func() (*providers.RegionText, error) {
			return id.reader.ReadRegion(ctx, page.Image, region, page.Num)
		},
		id.retryOptions(ctx, logger.With("call", "read_region"))...,
	)
}

func (id *Identifier) retryOptions(ctx context.Context, logger *slog.Logger) []retry.Option {
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(id.retryAttempts),
		retry.Delay(id.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if providers.IsPermanent(err) {
				return false
			}
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("provider call failed, retrying", "attempt", n+1, "error", err)
		}),
	}
}
