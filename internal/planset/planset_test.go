package planset

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/sheetindex/internal/hits"
	"github.com/jackzampolin/sheetindex/internal/titleblock"
)

// writePDF writes a minimal PDF whose pages have the given media boxes
// in points.
func writePDF(t *testing.T, boxes ...[2]float64) string {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(boxes))
	for i := range boxes {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(boxes)))
	for _, b := range boxes {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << >> >>", b[0], b[1]))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	path := filepath.Join(t.TempDir(), "set.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ARCH D (24x36in) landscape and letter portrait.
var (
	archD  = [2]float64{2592, 1728}
	letter = [2]float64{612, 792}
)

func TestPageCount(t *testing.T) {
	n, err := PageCount(writePDF(t, archD, letter, archD))
	if err != nil {
		t.Fatalf("PageCount() error = %v", err)
	}
	if n != 3 {
		t.Fatalf("PageCount() = %d, want 3", n)
	}

	if _, err := PageCount(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRenderSizes(t *testing.T) {
	path := writePDF(t, archD, letter)

	tests := []struct {
		dpi  float64
		want []Size
	}{
		{dpi: 72, want: []Size{{2592, 1728}, {612, 792}}},
		{dpi: 150, want: []Size{{5400, 3600}, {1275, 1650}}},
		{dpi: 0, want: []Size{{5400, 3600}, {1275, 1650}}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%gdpi", tt.dpi), func(t *testing.T) {
			got, err := RenderSizes(path, tt.dpi)
			if err != nil {
				t.Fatalf("RenderSizes() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d sizes", len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("page %d = %+v, want %+v", i+1, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFillRenderSizes(t *testing.T) {
	path := writePDF(t, archD, letter)

	doc := &hits.Document{
		DocumentID: "d",
		Source:     path,
		DPI:        72,
		Pages: []hits.PageHits{
			{PageNum: 1, Hits: []titleblock.LabelHit{}},
			{PageNum: 2, RenderWidth: 100, RenderHeight: 200},
		},
	}
	if err := FillRenderSizes(doc); err != nil {
		t.Fatalf("FillRenderSizes() error = %v", err)
	}
	if doc.Pages[0].RenderWidth != 2592 || doc.Pages[0].RenderHeight != 1728 {
		t.Errorf("page 1 = %gx%g", doc.Pages[0].RenderWidth, doc.Pages[0].RenderHeight)
	}
	if doc.Pages[1].RenderWidth != 100 {
		t.Error("explicit render size overwritten")
	}

	t.Run("page beyond pdf", func(t *testing.T) {
		doc := &hits.Document{DocumentID: "d", Source: path, Pages: []hits.PageHits{{PageNum: 5}}}
		if err := FillRenderSizes(doc); !errors.Is(err, ErrPageCountMismatch) {
			t.Fatalf("expected ErrPageCountMismatch, got %v", err)
		}
	})

	t.Run("no source", func(t *testing.T) {
		doc := &hits.Document{DocumentID: "d", Pages: []hits.PageHits{{PageNum: 1}}}
		if err := FillRenderSizes(doc); err == nil {
			t.Fatal("expected error without source")
		}
	})
}
