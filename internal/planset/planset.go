// Package planset reads page geometry from a plan set PDF.
package planset

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jackzampolin/sheetindex/internal/hits"
)

// DefaultDPI is the render resolution assumed when a document names none.
const DefaultDPI = 150

// pointsPerInch is the PDF user-space unit.
const pointsPerInch = 72

// ErrPageCountMismatch is returned when a hits document names a page the
// PDF does not have.
var ErrPageCountMismatch = errors.New("page not in plan set")

// Size is a page's render size in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func relaxedConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	n, err := api.PageCount(f, relaxedConfig())
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	return n, nil
}

// RenderSizes returns every page's media box scaled to pixels at dpi.
func RenderSizes(path string, dpi float64) ([]Size, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	dims, err := api.PageDims(f, relaxedConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to read page sizes for %s: %w", path, err)
	}

	scale := dpi / pointsPerInch
	sizes := make([]Size, len(dims))
	for i, d := range dims {
		sizes[i] = Size{
			Width:  math.Round(d.Width * scale),
			Height: math.Round(d.Height * scale),
		}
	}
	return sizes, nil
}

// FillRenderSizes sets render sizes from the document's source PDF on
// pages that lack them. Pages that already have sizes are left alone.
func FillRenderSizes(doc *hits.Document) error {
	if !doc.MissingRenderSize() {
		return nil
	}
	if doc.Source == "" {
		return fmt.Errorf("document %s has pages without render sizes and no source PDF", doc.DocumentID)
	}

	sizes, err := RenderSizes(doc.Source, doc.DPI)
	if err != nil {
		return err
	}
	for i := range doc.Pages {
		p := &doc.Pages[i]
		if p.RenderWidth != 0 && p.RenderHeight != 0 {
			continue
		}
		if p.PageNum < 1 || p.PageNum > len(sizes) {
			return fmt.Errorf("%w: page %d of %d", ErrPageCountMismatch, p.PageNum, len(sizes))
		}
		s := sizes[p.PageNum-1]
		p.RenderWidth, p.RenderHeight = s.Width, s.Height
	}
	return nil
}
