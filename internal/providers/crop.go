package providers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math"

	"golang.org/x/image/draw"

	"github.com/jackzampolin/sheetindex/internal/geometry"
)

// CropRegion cuts region out of a PNG or JPEG page render and re-encodes it
// as PNG. When maxSide > 0 the crop is downscaled so its longer side fits.
func CropRegion(img []byte, region geometry.PixelBox, maxSide int) ([]byte, error) {
	if len(img) == 0 {
		return nil, ErrEmptyImage
	}
	if err := region.Validate(); err != nil {
		return nil, fmt.Errorf("%w: crop region: %w", ErrInvalidImage, err)
	}

	src, _, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode page image: %w", ErrInvalidImage, err)
	}

	bounds := src.Bounds()
	r := image.Rect(
		int(math.Floor(region.X)),
		int(math.Floor(region.Y)),
		int(math.Ceil(region.Right())),
		int(math.Ceil(region.Bottom())),
	).Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		return nil, fmt.Errorf("%w: region %+v lies outside image %v", ErrInvalidImage, region, bounds)
	}

	w, h := r.Dx(), r.Dy()
	if long := max(w, h); maxSide > 0 && long > maxSide {
		scale := float64(maxSide) / float64(long)
		w = max(1, int(math.Round(float64(w)*scale)))
		h = max(1, int(math.Round(float64(h)*scale)))
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == r.Dx() && h == r.Dy() {
		draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, r, draw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode crop: %w", err)
	}
	return buf.Bytes(), nil
}
