package titleblock

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/sheetindex/internal/geometry"
)

func hit(x, y, w, h float64, typ LabelType, weight float64, text string) LabelHit {
	return LabelHit{
		BBox:   geometry.PixelBox{X: x, Y: y, W: w, H: h},
		Type:   typ,
		Weight: weight,
		Text:   text,
	}
}

func TestEps(t *testing.T) {
	t.Run("bounded", func(t *testing.T) {
		for h := 0.0; h <= 500; h += 0.5 {
			eps := Eps(h)
			if eps < MinEps || eps > MaxEps {
				t.Fatalf("eps %g out of bounds for height %g", eps, h)
			}
		}
	})

	t.Run("monotonic", func(t *testing.T) {
		prev := Eps(0)
		for h := 0.0; h <= 500; h += 0.5 {
			eps := Eps(h)
			if eps < prev {
				t.Fatalf("eps decreased at height %g: %g < %g", h, eps, prev)
			}
			prev = eps
		}
	})

	t.Run("scales in range", func(t *testing.T) {
		if got := Eps(100); got != 250 {
			t.Errorf("expected 250, got %g", got)
		}
	})
}

func TestCluster_FewerThanTwoHits(t *testing.T) {
	for _, hits := range [][]LabelHit{nil, {}, {hit(0, 0, 10, 10, LabelNumber, 5, "A101")}} {
		clusters, err := Cluster(hits)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(clusters) != 0 {
			t.Fatalf("expected no clusters for %d hits, got %d", len(hits), len(clusters))
		}
	}
}

func TestCluster_NumberAndTitle(t *testing.T) {
	hits := []LabelHit{
		hit(1000, 1000, 100, 20, LabelNumber, 1, "A-101"),
		hit(1000, 1040, 200, 20, LabelTitle, 1, "FIRST FLOOR PLAN"),
	}

	clusters, err := Cluster(hits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}

	c := clusters[0]
	if !c.HasNumberLabel || !c.HasTitleLabel {
		t.Errorf("expected both labels, got number=%v title=%v", c.HasNumberLabel, c.HasTitleLabel)
	}
	wantBox := geometry.PixelBox{X: 1000, Y: 1000, W: 200, H: 60}
	if c.BBox != wantBox {
		t.Errorf("expected bbox %+v, got %+v", wantBox, c.BBox)
	}
	if c.TightnessBonus != 1.0/12000 {
		t.Errorf("expected tightness 1/12000, got %g", c.TightnessBonus)
	}
	wantScore := 10 + 2 + 3.0/12000
	if math.Abs(c.Score-wantScore) > 1e-12 {
		t.Errorf("expected score %g, got %g", wantScore, c.Score)
	}
	if len(c.Members) != 2 || c.Members[0].Text != "A-101" {
		t.Errorf("members not in input order: %+v", c.Members)
	}
}

func TestCluster_Eligibility(t *testing.T) {
	t.Run("low weight without both labels is dropped", func(t *testing.T) {
		hits := []LabelHit{
			hit(0, 0, 50, 20, LabelOther, 1, "REV"),
			hit(0, 30, 50, 20, LabelNumber, 1, "A101"),
		}
		clusters, err := Cluster(hits)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(clusters) != 0 {
			t.Fatalf("expected no eligible clusters, got %d", len(clusters))
		}
	})

	t.Run("heavy cluster is kept", func(t *testing.T) {
		hits := []LabelHit{
			hit(0, 0, 50, 20, LabelOther, 3, "PROJECT"),
			hit(0, 30, 50, 20, LabelOther, 3, "CLIENT"),
		}
		clusters, err := Cluster(hits)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(clusters) != 1 {
			t.Fatalf("expected 1 cluster, got %d", len(clusters))
		}
		if clusters[0].HasBothLabels() {
			t.Error("cluster should not have both labels")
		}
	})

	t.Run("singletons are discarded", func(t *testing.T) {
		hits := []LabelHit{
			hit(0, 0, 50, 20, LabelNumber, 10, "A101"),
			hit(5000, 5000, 50, 20, LabelTitle, 10, "PLAN"),
		}
		clusters, err := Cluster(hits)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(clusters) != 0 {
			t.Fatalf("expected no clusters, got %d", len(clusters))
		}
	})
}

func TestCluster_SingleLinkageChains(t *testing.T) {
	// a-b and b-c are within eps (80) but a-c is not
	hits := []LabelHit{
		hit(0, 0, 20, 20, LabelNumber, 1, "a"),
		hit(70, 0, 20, 20, LabelOther, 1, "b"),
		hit(140, 0, 20, 20, LabelTitle, 1, "c"),
	}
	clusters, err := Cluster(hits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if len(clusters[0].Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(clusters[0].Members))
	}
}

func TestCluster_GroupOrder(t *testing.T) {
	hits := []LabelHit{
		hit(3000, 3000, 50, 20, LabelNumber, 1, "late-number"),
		hit(0, 0, 50, 20, LabelNumber, 1, "early-number"),
		hit(3000, 3030, 50, 20, LabelTitle, 1, "late-title"),
		hit(0, 30, 50, 20, LabelTitle, 1, "early-title"),
	}
	clusters, err := Cluster(hits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].Members[0].Text != "late-number" {
		t.Errorf("expected group containing hit 0 first, got %q", clusters[0].Members[0].Text)
	}
	if clusters[1].Members[1].Text != "early-title" {
		t.Errorf("expected members in input order, got %+v", clusters[1].Members)
	}
}

func TestCluster_Deterministic(t *testing.T) {
	hits := samplePage()
	first, err := Cluster(hits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Cluster(hits)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different partition", i)
		}
		w1, _ := Select(first)
		w2, _ := Select(again)
		if !reflect.DeepEqual(w1, w2) {
			t.Fatalf("run %d selected a different cluster", i)
		}
	}
}

func TestCluster_MalformedHit(t *testing.T) {
	hits := []LabelHit{
		hit(0, 0, 50, 20, LabelNumber, 1, "A101"),
		hit(0, 30, -5, 20, LabelTitle, 1, "PLAN"),
	}
	_, err := Cluster(hits)
	if !errors.Is(err, ErrMalformedHit) {
		t.Fatalf("expected ErrMalformedHit, got %v", err)
	}
	if !strings.Contains(err.Error(), "hit 1") {
		t.Errorf("expected error to name the offending hit, got %v", err)
	}
}

func TestCluster_NegativeWeight(t *testing.T) {
	hits := []LabelHit{
		hit(0, 0, 50, 20, LabelNumber, -1, "A101"),
		hit(0, 30, 50, 20, LabelTitle, 1, "PLAN"),
	}
	if _, err := Cluster(hits); !errors.Is(err, ErrMalformedHit) {
		t.Fatalf("expected ErrMalformedHit, got %v", err)
	}
}

// The pair step is quadratic. Pages carry tens of hits, rarely hundreds;
// this guards the upper end of that range.
func TestCluster_PairwiseBound(t *testing.T) {
	const n = 400
	hits := make([]LabelHit, 0, n)
	for i := 0; i < n; i++ {
		typ := LabelOther
		switch i % 7 {
		case 0:
			typ = LabelNumber
		case 1:
			typ = LabelTitle
		}
		x := float64((i % 20) * 150)
		y := float64((i / 20) * 150)
		hits = append(hits, hit(x, y, 60, 18, typ, 1, "t"))
	}

	start := time.Now()
	clusters, err := Cluster(hits)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("clustering %d hits took %s", n, elapsed)
	}

	total := 0
	for _, c := range clusters {
		total += len(c.Members)
	}
	if total > n {
		t.Fatalf("clusters hold %d members for %d hits", total, n)
	}
}

func BenchmarkCluster(b *testing.B) {
	hits := samplePage()
	for len(hits) < 200 {
		hits = append(hits, samplePage()...)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Cluster(hits); err != nil {
			b.Fatal(err)
		}
	}
}

// samplePage returns hits resembling an E-size sheet: a title block in the
// lower right plus scattered callouts.
func samplePage() []LabelHit {
	return []LabelHit{
		hit(400, 300, 300, 40, LabelOther, 1, "GENERAL NOTES"),
		hit(420, 360, 260, 30, LabelOther, 1, "1. VERIFY ALL DIMENSIONS"),
		hit(6200, 4300, 180, 60, LabelNumber, 3, "A-101"),
		hit(6150, 4200, 420, 40, LabelTitle, 3, "FIRST FLOOR PLAN"),
		hit(6150, 4120, 300, 30, LabelOther, 1, "PROJECT NO. 2291"),
		hit(2000, 2000, 120, 30, LabelNumber, 1, "5"),
		hit(2050, 2040, 160, 30, LabelTitle, 1, "DETAIL"),
		hit(3500, 900, 200, 30, LabelOther, 1, "NORTH"),
	}
}
