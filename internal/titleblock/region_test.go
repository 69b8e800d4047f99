package titleblock

import (
	"math/rand"
	"testing"

	"github.com/jackzampolin/sheetindex/internal/geometry"
)

func TestExpandRegion(t *testing.T) {
	tests := []struct {
		name             string
		cluster          LabelCluster
		renderW, renderH float64
		want             geometry.PixelBox
	}{
		{
			name: "interior cluster",
			cluster: newCluster([]LabelHit{
				hit(5000, 3000, 100, 20, LabelNumber, 1, "A101"),
				hit(5100, 3040, 100, 20, LabelTitle, 1, "PLAN"),
			}, 0),
			renderW: 8000, renderH: 6000,
			// padX = clamp(600, 250, 1000), padY = clamp(100, 200, 800)
			want: geometry.PixelBox{X: 4400, Y: 2800, W: 1400, H: 460},
		},
		{
			name: "far edges shrink",
			cluster: newCluster([]LabelHit{
				hit(5800, 3900, 75, 40, LabelNumber, 1, "A101"),
				hit(5875, 3940, 75, 40, LabelTitle, 1, "PLAN"),
			}, 0),
			renderW: 6000, renderH: 4000,
			// padX = 450, padY = 200
			want: geometry.PixelBox{X: 5350, Y: 3700, W: 650, H: 300},
		},
		{
			name: "origin clamps to zero",
			cluster: newCluster([]LabelHit{
				hit(50, 20, 100, 20, LabelNumber, 1, "A101"),
				hit(50, 40, 100, 20, LabelTitle, 1, "PLAN"),
			}, 0),
			renderW: 8000, renderH: 6000,
			want: geometry.PixelBox{X: 0, Y: 0, W: 1300, H: 440},
		},
		{
			name:    "no members uses default sizes",
			cluster: LabelCluster{BBox: geometry.PixelBox{X: 1000, Y: 1000, W: 10, H: 10}},
			renderW: 5000, renderH: 5000,
			// padX = clamp(600, 250, 1000), padY = clamp(150, 200, 800)
			want: geometry.PixelBox{X: 400, Y: 800, W: 1210, H: 410},
		},
		{
			name: "huge labels hit the pad ceiling",
			cluster: newCluster([]LabelHit{
				hit(2000, 2000, 400, 300, LabelNumber, 1, "A101"),
				hit(2000, 2000, 400, 300, LabelTitle, 1, "PLAN"),
			}, 0),
			renderW: 10000, renderH: 10000,
			want: geometry.PixelBox{X: 1000, Y: 1200, W: 2400, H: 1900},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandRegion(tt.cluster, tt.renderW, tt.renderH)
			if got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestExpandRegion_StaysOnPage(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		renderW := 500 + rng.Float64()*9500
		renderH := 500 + rng.Float64()*9500
		w := 1 + rng.Float64()*400
		h := 1 + rng.Float64()*200
		x := rng.Float64() * renderW
		y := rng.Float64() * renderH
		c := newCluster([]LabelHit{
			hit(x, y, w, h, LabelNumber, 1, "n"),
			hit(x, y, w/2, h/2, LabelTitle, 1, "t"),
		}, 0)

		r := ExpandRegion(c, renderW, renderH)
		if r.X < 0 || r.Y < 0 {
			t.Fatalf("case %d: negative origin %+v", i, r)
		}
		if r.W < 0 || r.H < 0 {
			t.Fatalf("case %d: negative size %+v", i, r)
		}
		if r.Right() > renderW+1e-9 || r.Bottom() > renderH+1e-9 {
			t.Fatalf("case %d: region %+v exceeds page %gx%g", i, r, renderW, renderH)
		}
	}
}

func TestExpandRegion_OffPageCluster(t *testing.T) {
	c := newCluster([]LabelHit{
		hit(9000, 9000, 50, 20, LabelNumber, 1, "n"),
		hit(9000, 9030, 50, 20, LabelTitle, 1, "t"),
	}, 0)
	r := ExpandRegion(c, 1000, 1000)
	if r.Right() > 1000 || r.Bottom() > 1000 || r.W != 0 || r.H != 0 {
		t.Fatalf("expected an empty region at the page edge, got %+v", r)
	}
}
