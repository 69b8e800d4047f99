package providers

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/jackzampolin/sheetindex/internal/geometry"
)

func TestCropRegion(t *testing.T) {
	page := testPNG(t, 200, 100)

	tests := []struct {
		name         string
		region       geometry.PixelBox
		maxSide      int
		wantW, wantH int
		wantErr      bool
	}{
		{name: "inside", region: geometry.PixelBox{X: 10, Y: 20, W: 50, H: 30}, wantW: 50, wantH: 30},
		{name: "fractional edges round outward", region: geometry.PixelBox{X: 10.5, Y: 20.5, W: 10, H: 10}, wantW: 11, wantH: 11},
		{name: "clipped to image", region: geometry.PixelBox{X: 150, Y: 50, W: 100, H: 100}, wantW: 50, wantH: 50},
		{name: "downscaled", region: geometry.PixelBox{X: 0, Y: 0, W: 200, H: 100}, maxSide: 50, wantW: 50, wantH: 25},
		{name: "outside", region: geometry.PixelBox{X: 500, Y: 500, W: 10, H: 10}, wantErr: true},
		{name: "negative size", region: geometry.PixelBox{W: -1, H: 10}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := CropRegion(page, tt.region, tt.maxSide)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidImage) || !IsPermanent(err) {
					t.Fatalf("expected permanent ErrInvalidImage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CropRegion() error = %v", err)
			}
			img, err := png.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("decode crop: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Fatalf("crop is %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}

	if _, err := CropRegion(nil, geometry.PixelBox{W: 1, H: 1}, 0); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("expected ErrEmptyImage, got %v", err)
	}
	if _, err := CropRegion([]byte("not an image"), geometry.PixelBox{W: 1, H: 1}, 0); !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("burst then wait", func(t *testing.T) {
		r := NewRateLimiter(50)
		ctx := context.Background()
		for i := 0; i < 50; i++ {
			if err := r.Wait(ctx); err != nil {
				t.Fatalf("Wait() error = %v", err)
			}
		}
		if got := r.Status().TotalConsumed; got != 50 {
			t.Fatalf("consumed %d, want 50", got)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		r := NewRateLimiter(1)
		r.Record429(time.Hour)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if err := r.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
		if r.Status().PausedUntil.IsZero() {
			t.Fatal("expected pause after 429")
		}
	})

	t.Run("invalid rate uses default", func(t *testing.T) {
		if got := NewRateLimiter(-3).Status().RequestsPerSec; got != defaultRequestsPerSecond {
			t.Fatalf("rate = %g", got)
		}
	})
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("3"); got != 3*time.Second {
		t.Fatalf("parseRetryAfter(3) = %v", got)
	}
	if got := parseRetryAfter(""); got != 0 {
		t.Fatalf("parseRetryAfter(empty) = %v", got)
	}
	if got := parseRetryAfter("soon"); got != 0 {
		t.Fatalf("parseRetryAfter(soon) = %v", got)
	}
}
