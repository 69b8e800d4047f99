package hits

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/sheetindex/internal/titleblock"
)

const sampleDoc = `{
  "document_id": "tower-a",
  "source": "tower-a.pdf",
  "dpi": 150,
  "pages": [
    {
      "page_num": 1,
      "render_width": 6000,
      "render_height": 4000,
      "image_path": "p1.png",
      "hits": [
        {"bbox": {"x": 5500, "y": 3700, "w": 150, "h": 60}, "label_type": "number", "weight": 2, "text": "A-101"},
        {"bbox": {"x": 5300, "y": 3780, "w": 400, "h": 60}, "label_type": "title", "weight": 2, "text": "FIRST FLOOR PLAN"}
      ],
      "number_candidates": ["A-101"]
    },
    {
      "page_num": 2,
      "hits": []
    }
  ]
}`

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if doc.DocumentID != "tower-a" || len(doc.Pages) != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
	p := doc.Pages[0]
	if len(p.Hits) != 2 || p.Hits[0].Type != titleblock.LabelNumber || p.Hits[1].BBox.W != 400 {
		t.Errorf("unexpected hits %+v", p.Hits)
	}
	if !doc.MissingRenderSize() {
		t.Error("page 2 has no render size")
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{name: "not json", doc: `{`, want: ErrInvalidDocument},
		{name: "missing document id", doc: `{"pages": []}`, want: ErrInvalidDocument},
		{name: "negative width", doc: `{"document_id":"d","pages":[{"page_num":1,"hits":[
			{"bbox":{"x":0,"y":0,"w":-1,"h":5},"label_type":"number","weight":1}]}]}`, want: ErrInvalidDocument},
		{name: "unknown label type", doc: `{"document_id":"d","pages":[{"page_num":1,"hits":[
			{"bbox":{"x":0,"y":0,"w":1,"h":5},"label_type":"stamp","weight":1}]}]}`, want: ErrInvalidDocument},
		{name: "page zero", doc: `{"document_id":"d","pages":[{"page_num":0,"hits":[]}]}`, want: ErrInvalidDocument},
		{name: "duplicate page", doc: `{"document_id":"d","pages":[{"page_num":1,"hits":[]},{"page_num":1,"hits":[]}]}`, want: ErrDuplicatePage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hits.json")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "p1.png"), []byte("image bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Source != filepath.Join(dir, "tower-a.pdf") {
		t.Errorf("Source = %q", doc.Source)
	}

	pages, err := doc.IdentifyPages(true)
	if err != nil {
		t.Fatalf("IdentifyPages() error = %v", err)
	}
	if string(pages[0].Image) != "image bytes" || pages[1].Image != nil {
		t.Error("images not loaded as expected")
	}
	if pages[0].RenderW != 6000 || pages[0].NumberCandidates[0] != "A-101" {
		t.Errorf("unexpected page %+v", pages[0])
	}

	noImages, err := doc.IdentifyPages(false)
	if err != nil || noImages[0].Image != nil {
		t.Errorf("IdentifyPages(false) = %v, %v", noImages[0].Image, err)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
