package identify

import (
	"errors"
	"fmt"
	"math"

	"github.com/jackzampolin/sheetindex/internal/geometry"
	"github.com/jackzampolin/sheetindex/internal/titleblock"
)

// ErrInvalidRenderSize is returned when a page's render size is unusable.
var ErrInvalidRenderSize = errors.New("invalid render size")

// LocateResult is the title-block search result for one page.
type LocateResult struct {
	// Clusters is every eligible cluster in clustering order.
	Clusters []titleblock.LabelCluster `json:"clusters"`

	// Found is false when no eligible cluster exists.
	Found   bool                    `json:"found"`
	Cluster titleblock.LabelCluster `json:"cluster"`
	Region  geometry.PixelBox       `json:"region"`
}

// Locate clusters a page's label hits, selects the title-block cluster, and
// expands it into a crop region within the render bounds. A page without a
// render size may still report no title block, but a found cluster needs a
// non-empty page to crop from.
func Locate(hits []titleblock.LabelHit, renderW, renderH float64) (LocateResult, error) {
	if !validRenderSize(renderW) || !validRenderSize(renderH) {
		return LocateResult{}, fmt.Errorf("%w: %gx%g", ErrInvalidRenderSize, renderW, renderH)
	}

	clusters, err := titleblock.Cluster(hits)
	if err != nil {
		return LocateResult{}, err
	}

	res := LocateResult{Clusters: clusters}
	winner, ok := titleblock.Select(clusters)
	if !ok {
		return res, nil
	}
	if renderW == 0 || renderH == 0 {
		return LocateResult{}, fmt.Errorf("%w: %gx%g with a title block to crop", ErrInvalidRenderSize, renderW, renderH)
	}
	res.Found = true
	res.Cluster = winner
	res.Region = titleblock.ExpandRegion(winner, renderW, renderH)
	return res, nil
}

func validRenderSize(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
