// Package hits loads page label-hit documents: the per-page output of an
// external label detector, saved as JSON.
package hits

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/sheetindex/internal/identify"
	"github.com/jackzampolin/sheetindex/internal/titleblock"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "sheetindex://hits/schema.json"

var (
	// ErrInvalidDocument is returned when a document fails schema validation.
	ErrInvalidDocument = errors.New("invalid hits document")

	// ErrDuplicatePage is returned when two pages share a page number.
	ErrDuplicatePage = errors.New("duplicate page number")
)

var documentSchema = func() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("hits: load schema: %v", err))
	}
	return compiler.MustCompile(schemaURL)
}()

// Document is the label hits for every page of one plan set.
type Document struct {
	DocumentID string `json:"document_id"`

	// Source is the plan set PDF, used to fill in missing render sizes.
	Source string  `json:"source,omitempty"`
	DPI    float64 `json:"dpi,omitempty"`

	Pages []PageHits `json:"pages"`

	// dir is where relative image paths resolve from.
	dir string
}

// PageHits is one page's detector output.
type PageHits struct {
	PageNum      int                   `json:"page_num"`
	RenderWidth  float64               `json:"render_width,omitempty"`
	RenderHeight float64               `json:"render_height,omitempty"`
	ImagePath    string                `json:"image_path,omitempty"`
	Hits         []titleblock.LabelHit `json:"hits"`

	NumberCandidates []string `json:"number_candidates,omitempty"`
	TitleCandidates  []string `json:"title_candidates,omitempty"`
}

// Load reads and validates a document from path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hits document: %w", err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.dir = filepath.Dir(path)
	if doc.Source != "" && !filepath.IsAbs(doc.Source) {
		doc.Source = filepath.Join(doc.dir, doc.Source)
	}
	return doc, nil
}

// Decode reads a document from r, validating it against the schema
// before decoding.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read hits document: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := documentSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	seen := make(map[int]bool, len(doc.Pages))
	for _, p := range doc.Pages {
		if seen[p.PageNum] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicatePage, p.PageNum)
		}
		seen[p.PageNum] = true
	}
	return &doc, nil
}

// MissingRenderSize reports whether any page lacks render dimensions.
func (d *Document) MissingRenderSize() bool {
	for _, p := range d.Pages {
		if p.RenderWidth == 0 || p.RenderHeight == 0 {
			return true
		}
	}
	return false
}

// IdentifyPages converts the document into pipeline input. Page images
// are read only when withImages is set and the page names one.
func (d *Document) IdentifyPages(withImages bool) ([]identify.Page, error) {
	pages := make([]identify.Page, len(d.Pages))
	for i, p := range d.Pages {
		pages[i] = identify.Page{
			Num:              p.PageNum,
			RenderW:          p.RenderWidth,
			RenderH:          p.RenderHeight,
			Hits:             p.Hits,
			NumberCandidates: p.NumberCandidates,
			TitleCandidates:  p.TitleCandidates,
		}
		if !withImages || p.ImagePath == "" {
			continue
		}
		path := p.ImagePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(d.dir, path)
		}
		img, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("page %d: failed to read image: %w", p.PageNum, err)
		}
		pages[i].Image = img
	}
	return pages, nil
}
