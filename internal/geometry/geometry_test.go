package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestPixelBox_Validate(t *testing.T) {
	tests := []struct {
		name    string
		box     PixelBox
		wantErr error
	}{
		{"valid", PixelBox{X: 1, Y: 2, W: 3, H: 4}, nil},
		{"zero size", PixelBox{X: 1, Y: 2}, nil},
		{"negative width", PixelBox{W: -1, H: 2}, ErrNegativeDimension},
		{"negative height", PixelBox{W: 1, H: -2}, ErrNegativeDimension},
		{"nan", PixelBox{X: math.NaN(), W: 1, H: 1}, ErrNonFinite},
		{"inf", PixelBox{W: math.Inf(1), H: 1}, ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.box.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestPixelBox_Derived(t *testing.T) {
	b := PixelBox{X: 10, Y: 20, W: 30, H: 40}

	if c := b.Center(); c.X != 25 || c.Y != 40 {
		t.Errorf("expected center (25,40), got (%g,%g)", c.X, c.Y)
	}
	if b.Area() != 1200 {
		t.Errorf("expected area 1200, got %g", b.Area())
	}
	if b.Right() != 40 || b.Bottom() != 60 {
		t.Errorf("expected far edge (40,60), got (%g,%g)", b.Right(), b.Bottom())
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Point{0, 0}, Point{3, 4}); d != 5 {
		t.Errorf("expected 5, got %g", d)
	}
	if d := Distance(Point{1, 1}, Point{1, 1}); d != 0 {
		t.Errorf("expected 0, got %g", d)
	}
}

func TestUnion(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if u := Union(); u != (PixelBox{}) {
			t.Errorf("expected zero box, got %+v", u)
		}
	})

	t.Run("encloses all", func(t *testing.T) {
		u := Union(
			PixelBox{X: 10, Y: 10, W: 10, H: 10},
			PixelBox{X: 5, Y: 30, W: 2, H: 2},
			PixelBox{X: 40, Y: 0, W: 5, H: 5},
		)
		want := PixelBox{X: 5, Y: 0, W: 40, H: 32}
		if u != want {
			t.Errorf("expected %+v, got %+v", want, u)
		}
	})
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7},
		{"odd", []float64{9, 1, 5}, 5},
		{"even", []float64{4, 1, 3, 2}, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.values); got != tt.want {
				t.Errorf("expected %g, got %g", tt.want, got)
			}
		})
	}

	t.Run("does not reorder input", func(t *testing.T) {
		in := []float64{3, 1, 2}
		Median(in)
		if in[0] != 3 || in[1] != 1 || in[2] != 2 {
			t.Errorf("input modified: %v", in)
		}
	})
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 10) != 5 {
		t.Error("in range value changed")
	}
	if Clamp(-1, 0, 10) != 0 {
		t.Error("low value not clamped")
	}
	if Clamp(11, 0, 10) != 10 {
		t.Error("high value not clamped")
	}
}
