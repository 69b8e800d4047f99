package providers

import (
	"context"
	"time"

	"github.com/jackzampolin/sheetindex/internal/geometry"
	"github.com/jackzampolin/sheetindex/internal/titleblock"
)

// LabelDetector finds labelled text fragments on a page image.
// It is the first external pass: coarse boxes with a number/title/other tag.
type LabelDetector interface {
	// Name returns the provider identifier (e.g., "openai").
	Name() string

	// DetectLabels returns the label hits found on a rendered page.
	DetectLabels(ctx context.Context, image []byte, pageNum int) (*DetectResult, error)

	// Rate limiting properties
	RequestsPerSecond() float64
	MaxRetries() int
	RetryDelayBase() time.Duration
}

// RegionReader re-reads a cropped title-block region at higher fidelity.
type RegionReader interface {
	// Name returns the provider identifier.
	Name() string

	// ReadRegion extracts sheet number and title candidates from the region.
	ReadRegion(ctx context.Context, image []byte, region geometry.PixelBox, pageNum int) (*RegionText, error)

	RequestsPerSecond() float64
	MaxRetries() int
	RetryDelayBase() time.Duration
}

// DetectResult is the response from a LabelDetector.
type DetectResult struct {
	Hits []titleblock.LabelHit `json:"hits"`

	// Render size the hit boxes are expressed in.
	RenderWidth  float64 `json:"render_width"`
	RenderHeight float64 `json:"render_height"`

	ExecutionTime time.Duration `json:"execution_time"`
	Provider      string        `json:"provider"`
}

// RegionText is the response from a RegionReader.
// Candidates are listed in the provider's order of confidence.
type RegionText struct {
	NumberCandidates []string `json:"number_candidates"`
	TitleCandidates  []string `json:"title_candidates"`

	ExecutionTime time.Duration `json:"execution_time"`
	Provider      string        `json:"provider"`
}
