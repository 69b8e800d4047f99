package titleblock

import (
	"strings"
	"testing"

	"github.com/jackzampolin/sheetindex/internal/geometry"
)

func cluster(index int, both bool, score float64, box geometry.PixelBox) LabelCluster {
	return LabelCluster{
		BBox:           box,
		Score:          score,
		HasNumberLabel: true,
		HasTitleLabel:  both,
		index:          index,
	}
}

func TestSelect_Empty(t *testing.T) {
	if _, ok := Select(nil); ok {
		t.Fatal("expected no selection for empty input")
	}
}

func TestSelect_Ladder(t *testing.T) {
	small := geometry.PixelBox{X: 0, Y: 0, W: 100, H: 100}
	large := geometry.PixelBox{X: 0, Y: 0, W: 200, H: 200}
	farther := geometry.PixelBox{X: 500, Y: 500, W: 100, H: 100}

	tests := []struct {
		name      string
		clusters  []LabelCluster
		wantIndex int
		wantKey   SelectionKey
	}{
		{
			name:      "single cluster",
			clusters:  []LabelCluster{cluster(0, false, 7, small)},
			wantIndex: 0,
			wantKey:   KeyOnly,
		},
		{
			name: "both labels beat higher score",
			clusters: []LabelCluster{
				cluster(0, false, 50, small),
				cluster(1, true, 12, large),
			},
			wantIndex: 1,
			wantKey:   KeyBothLabels,
		},
		{
			name: "higher score wins",
			clusters: []LabelCluster{
				cluster(0, true, 12, small),
				cluster(1, true, 14, large),
			},
			wantIndex: 1,
			wantKey:   KeyScore,
		},
		{
			name: "smaller area breaks score tie",
			clusters: []LabelCluster{
				cluster(0, true, 12, large),
				cluster(1, true, 12, small),
			},
			wantIndex: 1,
			wantKey:   KeyArea,
		},
		{
			name: "bottom-right breaks area tie",
			clusters: []LabelCluster{
				cluster(0, true, 12, small),
				cluster(1, true, 12, farther),
			},
			wantIndex: 1,
			wantKey:   KeyPosition,
		},
		{
			name: "earlier cluster breaks full tie",
			clusters: []LabelCluster{
				cluster(0, true, 12, small),
				cluster(1, true, 12, small),
			},
			wantIndex: 0,
			wantKey:   KeyInputOrder,
		},
		{
			name: "finest deciding key is reported",
			clusters: []LabelCluster{
				cluster(0, false, 40, large),
				cluster(1, true, 12, small),
				cluster(2, true, 12, large),
			},
			wantIndex: 1,
			wantKey:   KeyArea,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.clusters)
			if !ok {
				t.Fatal("expected a selection")
			}
			if got.index != tt.wantIndex {
				t.Errorf("expected cluster %d, got %d", tt.wantIndex, got.index)
			}
			if !strings.Contains(got.WhySelected, "decided by "+string(tt.wantKey)) {
				t.Errorf("expected why_selected to name %s, got %q", tt.wantKey, got.WhySelected)
			}
		})
	}
}

func TestSelect_BothLabelsAlwaysWins(t *testing.T) {
	box := geometry.PixelBox{X: 10, Y: 10, W: 300, H: 300}
	for score := 0.0; score < 200; score += 7 {
		clusters := []LabelCluster{
			cluster(0, false, score, geometry.PixelBox{X: 9000, Y: 9000, W: 1, H: 1}),
			cluster(1, true, 0, box),
			cluster(2, false, score*2, box),
		}
		got, _ := Select(clusters)
		if !got.HasBothLabels() {
			t.Fatalf("score %g: expected a both-labels cluster to win", score)
		}
	}
}

func TestSelect_OrderIndependentAmongDistinct(t *testing.T) {
	a := cluster(0, true, 12, geometry.PixelBox{X: 0, Y: 0, W: 100, H: 100})
	b := cluster(1, true, 15, geometry.PixelBox{X: 0, Y: 0, W: 100, H: 100})
	c := cluster(2, false, 30, geometry.PixelBox{X: 0, Y: 0, W: 100, H: 100})

	first, _ := Select([]LabelCluster{a, b, c})
	second, _ := Select([]LabelCluster{c, b, a})
	if first.index != second.index {
		t.Fatalf("selection depends on slice order: %d vs %d", first.index, second.index)
	}
}

func TestSelect_WhySelectedText(t *testing.T) {
	hits := []LabelHit{
		hit(1000, 1000, 100, 20, LabelNumber, 1, "A-101"),
		hit(1000, 1040, 200, 20, LabelTitle, 1, "FIRST FLOOR PLAN"),
	}
	clusters, err := Cluster(hits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := Select(clusters)
	if !ok {
		t.Fatal("expected a selection")
	}
	want := "has number+title labels; score 12.00; area 12000; center sum 2130; decided by only_candidate of 1 candidates"
	if got.WhySelected != want {
		t.Errorf("unexpected why_selected:\n got %q\nwant %q", got.WhySelected, want)
	}
}

func TestCompare_Self(t *testing.T) {
	c := cluster(3, true, 12, geometry.PixelBox{W: 10, H: 10})
	if cmp, _ := Compare(c, c); cmp != 0 {
		t.Fatalf("expected 0 comparing a cluster with itself, got %d", cmp)
	}
}
